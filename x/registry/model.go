package registry

import (
	"crypto/sha256"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
)

const (
	// entryBucketName keeps one entry per canonical identifier.
	entryBucketName = "registry"
	// certBucketName keeps certificates keyed by their sequence id.
	certBucketName = "cert"

	maxIdentifierLen = 50
	maxNameLen       = 32
	maxSymbolLen     = 10
	maxURILen        = 200
)

// Normalize returns the canonical form of an asset identifier. All
// whitespace and dash characters are removed and the rest is
// uppercased, so that cosmetic formatting differences cannot produce
// distinct registrations.
func Normalize(identifier string) string {
	var b strings.Builder
	for _, r := range identifier {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// CanonicalKey returns the registry storage key of an identifier, the
// digest of its normalized form. Identifiers that normalize to the
// same string share a key.
func CanonicalKey(identifier string) []byte {
	h := sha256.Sum256([]byte(Normalize(identifier)))
	return h[:]
}

// Entry binds a canonical identifier to its certificate. An entry is
// created during issuance and never deleted.
type Entry struct {
	// Identifier is the identifier as submitted by the issuer, before
	// normalization. Kept for display.
	Identifier string `json:"identifier"`
	// Owner is the current certificate holder.
	Owner certmint.Address `json:"owner"`
	// CertificateID references the certificate issued for this entry.
	CertificateID int64 `json:"certificate_id"`
}

var _ orm.Model = (*Entry)(nil)

func (e *Entry) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Entry) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, e)
}

func (e *Entry) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Identifier", validIdentifier(e.Identifier))
	errs = errors.AppendField(errs, "Owner", e.Owner.Validate())
	if e.CertificateID < 1 {
		errs = errors.AppendField(errs, "CertificateID", errors.ErrModel)
	}
	return errs
}

// Certificate is the ownable record issued for a registered asset.
// Certificates change owners but are never destroyed.
type Certificate struct {
	ID         int64            `json:"id"`
	Identifier string           `json:"identifier"`
	Name       string           `json:"name"`
	Symbol     string           `json:"symbol"`
	URI        string           `json:"uri"`
	Owner      certmint.Address `json:"owner"`
}

var _ orm.Model = (*Certificate)(nil)

func (c *Certificate) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *Certificate) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (c *Certificate) Validate() error {
	var errs error
	if c.ID < 1 {
		errs = errors.AppendField(errs, "ID", errors.ErrModel)
	}
	errs = errors.AppendField(errs, "Identifier", validIdentifier(c.Identifier))
	errs = errors.AppendField(errs, "Name", validLen(c.Name, maxNameLen))
	errs = errors.AppendField(errs, "Symbol", validLen(c.Symbol, maxSymbolLen))
	errs = errors.AppendField(errs, "URI", validLen(c.URI, maxURILen))
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	return errs
}

func validIdentifier(s string) error {
	if err := validLen(s, maxIdentifierLen); err != nil {
		return err
	}
	if len(Normalize(s)) == 0 {
		return errors.Wrap(errors.ErrInput, "normalizes to empty")
	}
	return nil
}

func validLen(s string, max int) error {
	if len(s) == 0 {
		return errors.ErrEmpty
	}
	if len(s) > max {
		return errors.Wrapf(errors.ErrInput, "longer than %d characters", max)
	}
	return nil
}

// NewEntryBucket returns the bucket for keeping registry entries,
// keyed by canonical identifier.
func NewEntryBucket() orm.ModelBucket {
	return orm.NewModelBucket(entryBucketName)
}

// NewCertificateBucket returns the bucket for keeping certificates,
// keyed by sequence id.
func NewCertificateBucket() orm.ModelBucket {
	return orm.NewModelBucket(certBucketName)
}

// NewCertificateSequence returns the certificate id counter.
func NewCertificateSequence() orm.Sequence {
	return orm.NewSequence(certBucketName, "id")
}
