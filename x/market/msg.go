package market

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
)

var (
	_ certmint.Msg = (*CreateListingMsg)(nil)
	_ certmint.Msg = (*BuyMsg)(nil)
	_ certmint.Msg = (*CancelMsg)(nil)
	_ certmint.Msg = (*UpdatePriceMsg)(nil)
	_ certmint.Msg = (*UpdateConfigMsg)(nil)
)

// CreateListingMsg offers a certificate for sale. The certificate
// moves into escrow custody until the listing is consumed.
type CreateListingMsg struct {
	CertificateID int64     `json:"certificate_id"`
	Price         coin.Coin `json:"price"`
}

func (CreateListingMsg) Path() string { return "market/create" }

func (msg *CreateListingMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *CreateListingMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *CreateListingMsg) Validate() error {
	var errs error
	if msg.CertificateID < 1 {
		errs = errors.AppendField(errs, "CertificateID", errors.ErrInput)
	}
	if !msg.Price.IsPositive() {
		errs = errors.AppendField(errs, "Price", ErrInvalidPrice)
	} else {
		errs = errors.AppendField(errs, "Price", msg.Price.Validate())
	}
	return errs
}

// BuyMsg purchases an active listing at its current price.
type BuyMsg struct {
	CertificateID int64 `json:"certificate_id"`
}

func (BuyMsg) Path() string { return "market/buy" }

func (msg *BuyMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *BuyMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *BuyMsg) Validate() error {
	if msg.CertificateID < 1 {
		return errors.Field("CertificateID", errors.ErrInput, "must be positive")
	}
	return nil
}

// CancelMsg takes an active listing off the market and returns the
// certificate to the seller.
type CancelMsg struct {
	CertificateID int64 `json:"certificate_id"`
}

func (CancelMsg) Path() string { return "market/cancel" }

func (msg *CancelMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *CancelMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *CancelMsg) Validate() error {
	if msg.CertificateID < 1 {
		return errors.Field("CertificateID", errors.ErrInput, "must be positive")
	}
	return nil
}

// UpdatePriceMsg changes the price of an active listing. Only the
// seller can deliver it.
type UpdatePriceMsg struct {
	CertificateID int64     `json:"certificate_id"`
	Price         coin.Coin `json:"price"`
}

func (UpdatePriceMsg) Path() string { return "market/update_price" }

func (msg *UpdatePriceMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *UpdatePriceMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *UpdatePriceMsg) Validate() error {
	var errs error
	if msg.CertificateID < 1 {
		errs = errors.AppendField(errs, "CertificateID", errors.ErrInput)
	}
	if !msg.Price.IsPositive() {
		errs = errors.AppendField(errs, "Price", ErrInvalidPrice)
	} else {
		errs = errors.AppendField(errs, "Price", msg.Price.Validate())
	}
	return errs
}

// UpdateConfigMsg changes the platform fee or the collector. Only the
// configured authority can deliver it.
type UpdateConfigMsg struct {
	FeeBps    uint32           `json:"fee_bps"`
	Collector certmint.Address `json:"collector"`
}

func (UpdateConfigMsg) Path() string { return "market/update_config" }

func (msg *UpdateConfigMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *UpdateConfigMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *UpdateConfigMsg) Validate() error {
	var errs error
	if msg.FeeBps > maxFeeBps {
		errs = errors.AppendField(errs, "FeeBps", ErrFeeTooHigh)
	}
	errs = errors.AppendField(errs, "Collector", msg.Collector.Validate())
	return errs
}
