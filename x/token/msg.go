package token

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
)

var (
	_ certmint.Msg = (*PurchaseMsg)(nil)
	_ certmint.Msg = (*RedeemMsg)(nil)
	_ certmint.Msg = (*SetApprovalMsg)(nil)
	_ certmint.Msg = (*SpendMsg)(nil)
	_ certmint.Msg = (*MintMsg)(nil)
	_ certmint.Msg = (*UpdatePriceMsg)(nil)
	_ certmint.Msg = (*WithdrawMsg)(nil)
	_ certmint.Msg = (*SetPausedMsg)(nil)
)

// PurchaseMsg exchanges base currency for freshly minted engine
// currency at the configured rate. Amount is in base currency units.
type PurchaseMsg struct {
	Amount int64 `json:"amount"`
}

func (PurchaseMsg) Path() string { return "token/purchase" }

func (msg *PurchaseMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *PurchaseMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *PurchaseMsg) Validate() error {
	if msg.Amount < 1 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

// RedeemMsg burns engine currency and returns base currency at the
// configured rate. Amount is in engine currency units.
type RedeemMsg struct {
	Amount int64 `json:"amount"`
}

func (RedeemMsg) Path() string { return "token/redeem" }

func (msg *RedeemMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *RedeemMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *RedeemMsg) Validate() error {
	if msg.Amount < 1 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

// SetApprovalMsg grants or revokes a delegated spender for the signer's
// account.
type SetApprovalMsg struct {
	Spender  certmint.Address `json:"spender"`
	Approved bool             `json:"approved"`
}

func (SetApprovalMsg) Path() string { return "token/set_approval" }

func (msg *SetApprovalMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *SetApprovalMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *SetApprovalMsg) Validate() error {
	return errors.Field("Spender", msg.Spender.Validate(), "")
}

// SpendMsg burns engine currency from an account on behalf of its
// owner. The signer must be the account itself or an approved spender.
type SpendMsg struct {
	Account certmint.Address `json:"account"`
	Amount  int64            `json:"amount"`
}

func (SpendMsg) Path() string { return "token/spend" }

func (msg *SpendMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *SpendMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *SpendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Account", msg.Account.Validate())
	if msg.Amount < 1 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// MintMsg creates engine currency out of thin air. Only the configured
// authority can deliver it. The supply cap still applies.
type MintMsg struct {
	Recipient certmint.Address `json:"recipient"`
	Amount    int64            `json:"amount"`
}

func (MintMsg) Path() string { return "token/mint" }

func (msg *MintMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *MintMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *MintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Recipient", msg.Recipient.Validate())
	if msg.Amount < 1 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// UpdatePriceMsg changes the mint rate. Only the configured authority
// can deliver it.
type UpdatePriceMsg struct {
	MintRate int64 `json:"mint_rate"`
}

func (UpdatePriceMsg) Path() string { return "token/update_price" }

func (msg *UpdatePriceMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *UpdatePriceMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *UpdatePriceMsg) Validate() error {
	if msg.MintRate < 1 {
		return errors.Field("MintRate", errors.ErrAmount, "must be positive")
	}
	return nil
}

// WithdrawMsg moves base currency out of the pool. Only the configured
// authority can deliver it. The pool must keep at least the configured
// minimum reserve.
type WithdrawMsg struct {
	Destination certmint.Address `json:"destination"`
	Amount      coin.Coin        `json:"amount"`
}

func (WithdrawMsg) Path() string { return "token/withdraw" }

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

// SetPausedMsg halts or resumes the user-facing operations. Only the
// configured authority can deliver it.
type SetPausedMsg struct {
	Paused bool `json:"paused"`
}

func (SetPausedMsg) Path() string { return "token/set_paused" }

func (msg *SetPausedMsg) Marshal() ([]byte, error) { return json.Marshal(msg) }

func (msg *SetPausedMsg) Unmarshal(raw []byte) error { return json.Unmarshal(raw, msg) }

func (msg *SetPausedMsg) Validate() error { return nil }
