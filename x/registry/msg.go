package registry

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
)

var (
	_ certmint.Msg = (*IssueMsg)(nil)
	_ certmint.Msg = (*AdminIssueMsg)(nil)
	_ certmint.Msg = (*UpdatePriceMsg)(nil)
	_ certmint.Msg = (*WithdrawMsg)(nil)
)

// IssueMsg registers an asset identifier and issues a certificate to
// the fee-paying caller.
type IssueMsg struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	URI        string `json:"uri"`
}

func (IssueMsg) Path() string {
	return "registry/issue"
}

func (msg *IssueMsg) Marshal() ([]byte, error) {
	return json.Marshal(msg)
}

func (msg *IssueMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, msg)
}

func (msg *IssueMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Identifier", validIdentifier(msg.Identifier))
	errs = errors.AppendField(errs, "Name", validLen(msg.Name, maxNameLen))
	errs = errors.AppendField(errs, "Symbol", validLen(msg.Symbol, maxSymbolLen))
	errs = errors.AppendField(errs, "URI", validLen(msg.URI, maxURILen))
	return errs
}

// AdminIssueMsg registers an asset identifier without charging the
// issuance fee. Only the configured authority can deliver it. The
// certificate is issued to the given recipient.
type AdminIssueMsg struct {
	Identifier string           `json:"identifier"`
	Name       string           `json:"name"`
	Symbol     string           `json:"symbol"`
	URI        string           `json:"uri"`
	Recipient  certmint.Address `json:"recipient"`
}

func (AdminIssueMsg) Path() string {
	return "registry/admin_issue"
}

func (msg *AdminIssueMsg) Marshal() ([]byte, error) {
	return json.Marshal(msg)
}

func (msg *AdminIssueMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, msg)
}

func (msg *AdminIssueMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Identifier", validIdentifier(msg.Identifier))
	errs = errors.AppendField(errs, "Name", validLen(msg.Name, maxNameLen))
	errs = errors.AppendField(errs, "Symbol", validLen(msg.Symbol, maxSymbolLen))
	errs = errors.AppendField(errs, "URI", validLen(msg.URI, maxURILen))
	errs = errors.AppendField(errs, "Recipient", msg.Recipient.Validate())
	return errs
}

// UpdatePriceMsg changes the issuance fee. Only the configured
// authority can deliver it.
type UpdatePriceMsg struct {
	Price coin.Coin `json:"price"`
}

func (UpdatePriceMsg) Path() string {
	return "registry/update_price"
}

func (msg *UpdatePriceMsg) Marshal() ([]byte, error) {
	return json.Marshal(msg)
}

func (msg *UpdatePriceMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, msg)
}

func (msg *UpdatePriceMsg) Validate() error {
	var errs error
	if !msg.Price.IsNonNegative() {
		errs = errors.AppendField(errs, "Price", errors.ErrAmount)
	}
	if !msg.Price.IsZero() {
		errs = errors.AppendField(errs, "Price", msg.Price.Validate())
	}
	return errs
}

// WithdrawMsg moves collected fees out of the collector account. Only
// the configured authority can deliver it. The collector must keep at
// least the configured minimum reserve.
type WithdrawMsg struct {
	Destination certmint.Address `json:"destination"`
	Amount      coin.Coin        `json:"amount"`
}

func (WithdrawMsg) Path() string {
	return "registry/withdraw"
}

func (msg *WithdrawMsg) Marshal() ([]byte, error) {
	return json.Marshal(msg)
}

func (msg *WithdrawMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, msg)
}

func (msg *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Destination", msg.Destination.Validate())
	if !msg.Amount.IsPositive() {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	} else {
		errs = errors.AppendField(errs, "Amount", msg.Amount.Validate())
	}
	return errs
}
