package market

import (
	"encoding/binary"
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
)

// listingBucketName keeps listings keyed by the certificate key, so a
// certificate can have at most one listing ever.
const listingBucketName = "listing"

// maxFeeBps caps the platform fee at 10%.
const maxFeeBps uint32 = 1000

// Listing is the sale offer for a certificate. Active starts true and
// is flipped exactly once, by a sale or a cancellation.
type Listing struct {
	CertificateID int64            `json:"certificate_id"`
	Seller        certmint.Address `json:"seller"`
	Price         coin.Coin        `json:"price"`
	Active        bool             `json:"active"`
}

var _ orm.Model = (*Listing)(nil)

func (l *Listing) Marshal() ([]byte, error) {
	return json.Marshal(l)
}

func (l *Listing) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, l)
}

func (l *Listing) Validate() error {
	var errs error
	if l.CertificateID < 1 {
		errs = errors.AppendField(errs, "CertificateID", errors.ErrModel)
	}
	errs = errors.AppendField(errs, "Seller", l.Seller.Validate())
	if !l.Price.IsPositive() {
		errs = errors.AppendField(errs, "Price", ErrInvalidPrice)
	} else {
		errs = errors.AppendField(errs, "Price", l.Price.Validate())
	}
	return errs
}

// NewListingBucket returns the bucket for keeping listings.
func NewListingBucket() orm.ModelBucket {
	return orm.NewModelBucket(listingBucketName)
}

// ListingKey returns the primary key of the listing for a certificate.
func ListingKey(certificateID int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(certificateID))
	return key
}

// EscrowAddress returns the custody address of a listing. It is a pure
// function of the listing key, anyone can re-derive it.
func EscrowAddress(listingKey []byte) certmint.Address {
	return certmint.NewCondition("market", "escrow", listingKey).Address()
}
