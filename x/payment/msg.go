package payment

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
)

var (
	_ certmint.Msg = (*PayMsg)(nil)
	_ certmint.Msg = (*UpdatePriceMsg)(nil)
	_ certmint.Msg = (*WithdrawMsg)(nil)
	_ certmint.Msg = (*SetPausedMsg)(nil)
)

// PayMsg pays the configured service price in the given currency.
// Source is optional. When set, the payment is taken from that account
// and the signer must control it.
type PayMsg struct {
	Ticker string           `json:"ticker"`
	Source certmint.Address `json:"source,omitempty"`
}

func (PayMsg) Path() string { return "payment/pay" }

func (msg *PayMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *PayMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *PayMsg) Validate() error {
	var errs error
	if !coin.IsCC(msg.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.ErrCurrency)
	}
	if msg.Source != nil {
		errs = errors.AppendField(errs, "Source", msg.Source.Validate())
	}
	return errs
}

// UpdatePriceMsg sets the service price for a currency. A zero price
// removes the currency from the accepted set. Only the configured
// authority can deliver it.
type UpdatePriceMsg struct {
	Ticker string `json:"ticker"`
	Price  int64  `json:"price"`
}

func (UpdatePriceMsg) Path() string { return "payment/update_price" }

func (msg *UpdatePriceMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *UpdatePriceMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *UpdatePriceMsg) Validate() error {
	var errs error
	if !coin.IsCC(msg.Ticker) {
		errs = errors.AppendField(errs, "Ticker", errors.ErrCurrency)
	}
	if msg.Price < 0 {
		errs = errors.AppendField(errs, "Price", errors.ErrAmount)
	}
	return errs
}

// WithdrawMsg moves funds out of the treasury. Only the configured
// authority can deliver it. The treasury must keep at least the
// configured minimum reserve.
type WithdrawMsg struct {
	Destination certmint.Address `json:"destination"`
	Amount      coin.Coin        `json:"amount"`
}

func (WithdrawMsg) Path() string { return "payment/withdraw" }

func (msg *WithdrawMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *WithdrawMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

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

// SetPausedMsg halts or resumes payments. Only the configured
// authority can deliver it.
type SetPausedMsg struct {
	Paused bool `json:"paused"`
}

func (SetPausedMsg) Path() string { return "payment/set_paused" }

func (msg *SetPausedMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *SetPausedMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *SetPausedMsg) Validate() error { return nil }
