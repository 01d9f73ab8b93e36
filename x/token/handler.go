package token

import (
	"strconv"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
	"github.com/certmint/certmint/x"
	"github.com/certmint/certmint/x/cash"
)

const (
	tradeCost int64 = 50
	adminCost int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r certmint.Registry, auth x.Authenticator, ctrl cash.Controller) {
	approvals := NewApprovalBucket()

	r.Handle(&PurchaseMsg{}, &purchaseHandler{auth: auth, ctrl: ctrl})
	r.Handle(&RedeemMsg{}, &redeemHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SetApprovalMsg{}, &setApprovalHandler{auth: auth, approvals: approvals})
	r.Handle(&SpendMsg{}, &spendHandler{auth: auth, ctrl: ctrl, approvals: approvals})
	r.Handle(&MintMsg{}, &mintHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdatePriceMsg{}, &updatePriceHandler{auth: auth})
	r.Handle(&WithdrawMsg{}, &withdrawHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SetPausedMsg{}, &setPausedHandler{auth: auth})
}

type purchaseHandler struct {
	auth x.Authenticator
	ctrl cash.Controller
}

var _ certmint.Handler = (*purchaseHandler)(nil)

func (h *purchaseHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: tradeCost}, nil
}

func (h *purchaseHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, payer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	minted, err := coin.NewCoin(conf.MintRate, conf.Ticker).Multiply(msg.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "mint amount")
	}
	newSupply, err := coin.NewCoin(conf.TotalSupply, conf.Ticker).Add(minted)
	if err != nil {
		return nil, errors.Wrap(err, "total supply")
	}
	if newSupply.Amount > conf.MaxSupply {
		return nil, errors.Wrapf(ErrSupplyCap,
			"%d over the %d cap", newSupply.Amount, conf.MaxSupply)
	}

	// The supply counter is committed before any funds move. A failure
	// past this point aborts the whole execution unit, the counter
	// never leaks.
	conf.TotalSupply = newSupply.Amount
	if err := saveConf(db, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}

	payment := coin.NewCoin(msg.Amount, conf.BaseTicker)
	if err := h.ctrl.MoveCoins(db, payer, PoolAddress(conf.Ticker), payment); err != nil {
		return nil, errors.Wrap(err, "cannot collect payment")
	}
	if err := h.ctrl.CoinMint(db, payer, minted); err != nil {
		return nil, errors.Wrap(err, "cannot mint")
	}

	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("tokens_purchased",
				"buyer", payer.String(),
				"paid", payment.String(),
				"minted", minted.String(),
				"total_supply", strconv.FormatInt(conf.TotalSupply, 10),
			),
		},
	}
	return &res, nil
}

func (h *purchaseHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*PurchaseMsg, *Configuration, certmint.Address, error) {
	var msg PurchaseMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if conf.Paused {
		return nil, nil, nil, errors.Wrap(errors.ErrPaused, "purchase")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, conf, signer.Address(), nil
}

type redeemHandler struct {
	auth x.Authenticator
	ctrl cash.Controller
}

var _ certmint.Handler = (*redeemHandler)(nil)

func (h *redeemHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: tradeCost}, nil
}

func (h *redeemHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, payer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// Integer division, a remainder smaller than the rate is kept by
	// the payer in engine currency.
	refund := msg.Amount / conf.MintRate
	if refund < 1 {
		return nil, errors.Wrapf(errors.ErrAmount,
			"%d is less than one base unit at rate %d", msg.Amount, conf.MintRate)
	}
	burn := refund * conf.MintRate

	// Burn before crediting anything back.
	if err := h.ctrl.CoinBurn(db, payer, coin.NewCoin(burn, conf.Ticker)); err != nil {
		return nil, errors.Wrap(err, "cannot burn")
	}
	if conf.TotalSupply < burn {
		return nil, errors.Wrapf(errors.ErrState,
			"burning %d of %d total supply", burn, conf.TotalSupply)
	}
	conf.TotalSupply -= burn
	if err := saveConf(db, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}

	payout := coin.NewCoin(refund, conf.BaseTicker)
	if err := h.ctrl.MoveCoins(db, PoolAddress(conf.Ticker), payer, payout); err != nil {
		return nil, errors.Wrap(err, "cannot pay out")
	}

	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("tokens_redeemed",
				"account", payer.String(),
				"burned", coin.NewCoin(burn, conf.Ticker).String(),
				"refunded", payout.String(),
				"total_supply", strconv.FormatInt(conf.TotalSupply, 10),
			),
		},
	}
	return &res, nil
}

func (h *redeemHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*RedeemMsg, *Configuration, certmint.Address, error) {
	var msg RedeemMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if conf.Paused {
		return nil, nil, nil, errors.Wrap(errors.ErrPaused, "redeem")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, conf, signer.Address(), nil
}

type setApprovalHandler struct {
	auth      x.Authenticator
	approvals orm.ModelBucket
}

var _ certmint.Handler = (*setApprovalHandler)(nil)

func (h *setApprovalHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: adminCost}, nil
}

func (h *setApprovalHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, account, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key := approvalKey(account, msg.Spender)
	if msg.Approved {
		approval := Approval{Account: account, Spender: msg.Spender}
		if err := h.approvals.Put(db, key, &approval); err != nil {
			return nil, errors.Wrap(err, "cannot store approval")
		}
	} else {
		switch err := h.approvals.Delete(db, key); {
		case err == nil, errors.ErrNotFound.Is(err):
			// Revoking a missing approval is a noop.
		default:
			return nil, errors.Wrap(err, "cannot delete approval")
		}
	}

	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("approval_set",
				"account", account.String(),
				"spender", msg.Spender.String(),
				"approved", strconv.FormatBool(msg.Approved),
			),
		},
	}
	return &res, nil
}

func (h *setApprovalHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*SetApprovalMsg, certmint.Address, error) {
	var msg SetApprovalMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	account := signer.Address()
	if account.Equals(msg.Spender) {
		return nil, nil, errors.Wrap(errors.ErrInput, "cannot approve self")
	}
	return &msg, account, nil
}

type spendHandler struct {
	auth      x.Authenticator
	ctrl      cash.Controller
	approvals orm.ModelBucket
}

var _ certmint.Handler = (*spendHandler)(nil)

func (h *spendHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: tradeCost}, nil
}

func (h *spendHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.ctrl.CoinBurn(db, msg.Account, coin.NewCoin(msg.Amount, conf.Ticker)); err != nil {
		return nil, errors.Wrap(err, "cannot burn")
	}
	if conf.TotalSupply < msg.Amount {
		return nil, errors.Wrapf(errors.ErrState,
			"burning %d of %d total supply", msg.Amount, conf.TotalSupply)
	}
	conf.TotalSupply -= msg.Amount
	if err := saveConf(db, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}

	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("tokens_spent",
				"account", msg.Account.String(),
				"amount", coin.NewCoin(msg.Amount, conf.Ticker).String(),
				"total_supply", strconv.FormatInt(conf.TotalSupply, 10),
			),
		},
	}
	return &res, nil
}

func (h *spendHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*SpendMsg, *Configuration, error) {
	var msg SpendMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if conf.Paused {
		return nil, nil, errors.Wrap(errors.ErrPaused, "spend")
	}
	if !h.auth.HasAddress(ctx, msg.Account) {
		// Not the account owner, an approval record is required.
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		key := approvalKey(msg.Account, signer.Address())
		if err := h.approvals.Has(db, key); err != nil {
			if errors.ErrNotFound.Is(err) {
				return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not an approved spender")
			}
			return nil, nil, errors.Wrap(err, "cannot check approval")
		}
	}
	return &msg, conf, nil
}

type mintHandler struct {
	auth x.Authenticator
	ctrl cash.Controller
}

var _ certmint.Handler = (*mintHandler)(nil)

func (h *mintHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: adminCost}, nil
}

func (h *mintHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	minted := coin.NewCoin(msg.Amount, conf.Ticker)
	newSupply, err := coin.NewCoin(conf.TotalSupply, conf.Ticker).Add(minted)
	if err != nil {
		return nil, errors.Wrap(err, "total supply")
	}
	if newSupply.Amount > conf.MaxSupply {
		return nil, errors.Wrapf(ErrSupplyCap,
			"%d over the %d cap", newSupply.Amount, conf.MaxSupply)
	}
	conf.TotalSupply = newSupply.Amount
	if err := saveConf(db, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}
	if err := h.ctrl.CoinMint(db, msg.Recipient, minted); err != nil {
		return nil, errors.Wrap(err, "cannot mint")
	}

	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("tokens_minted",
				"recipient", msg.Recipient.String(),
				"amount", minted.String(),
				"total_supply", strconv.FormatInt(conf.TotalSupply, 10),
			),
		},
	}
	return &res, nil
}

func (h *mintHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*MintMsg, *Configuration, error) {
	var msg MintMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature required")
	}
	return &msg, conf, nil
}

type updatePriceHandler struct {
	auth x.Authenticator
}

var _ certmint.Handler = (*updatePriceHandler)(nil)

func (h *updatePriceHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: adminCost}, nil
}

func (h *updatePriceHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf.MintRate = msg.MintRate
	if err := saveConf(db, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("price_updated",
				"mint_rate", strconv.FormatInt(msg.MintRate, 10)),
		},
	}
	return &res, nil
}

func (h *updatePriceHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*UpdatePriceMsg, *Configuration, error) {
	var msg UpdatePriceMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature required")
	}
	return &msg, conf, nil
}

type withdrawHandler struct {
	auth x.Authenticator
	ctrl cash.Controller
}

var _ certmint.Handler = (*withdrawHandler)(nil)

func (h *withdrawHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: adminCost}, nil
}

func (h *withdrawHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, PoolAddress(conf.Ticker), msg.Destination, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot withdraw")
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("pool_withdrawn",
				"amount", msg.Amount.String(),
				"destination", msg.Destination.String(),
			),
		},
	}
	return &res, nil
}

func (h *withdrawHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*WithdrawMsg, *Configuration, error) {
	var msg WithdrawMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature required")
	}

	if msg.Amount.SameType(conf.MinimumReserve) && conf.MinimumReserve.IsPositive() {
		balance, err := h.ctrl.Balance(db, PoolAddress(conf.Ticker))
		if err != nil {
			return nil, nil, errors.Wrap(err, "cannot load pool balance")
		}
		left, err := balance.AmountOf(msg.Amount.Ticker).Subtract(msg.Amount)
		if err != nil {
			return nil, nil, err
		}
		if !left.IsGTE(conf.MinimumReserve) {
			return nil, nil, errors.Wrapf(cash.ErrReserveViolation,
				"%v left, %v required", left, conf.MinimumReserve)
		}
	}
	return &msg, conf, nil
}

type setPausedHandler struct {
	auth x.Authenticator
}

var _ certmint.Handler = (*setPausedHandler)(nil)

func (h *setPausedHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: adminCost}, nil
}

func (h *setPausedHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf.Paused = msg.Paused
	if err := saveConf(db, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("paused", "paused", strconv.FormatBool(msg.Paused)),
		},
	}
	return &res, nil
}

func (h *setPausedHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*SetPausedMsg, *Configuration, error) {
	var msg SetPausedMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Authority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "authority signature required")
	}
	return &msg, conf, nil
}
