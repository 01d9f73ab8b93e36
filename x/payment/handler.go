package payment

import (
	"strconv"
	"time"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
	"github.com/certmint/certmint/x"
	"github.com/certmint/certmint/x/cash"
)

const (
	payCost   int64 = 50
	adminCost int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r certmint.Registry, auth x.Authenticator, ctrl cash.Controller) {
	stats := NewStatsBucket()

	r.Handle(&PayMsg{}, &payHandler{auth: auth, ctrl: ctrl, stats: stats})
	r.Handle(&UpdatePriceMsg{}, &updatePriceHandler{auth: auth})
	r.Handle(&WithdrawMsg{}, &withdrawHandler{auth: auth, ctrl: ctrl})
	r.Handle(&SetPausedMsg{}, &setPausedHandler{auth: auth})
}

type payHandler struct {
	auth  x.Authenticator
	ctrl  cash.Controller
	stats orm.ModelBucket
}

var _ certmint.Handler = (*payHandler)(nil)

func (h *payHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: payCost}, nil
}

func (h *payHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, payer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	price := coin.NewCoin(conf.Prices[msg.Ticker], msg.Ticker)
	if err := h.ctrl.MoveCoins(db, payer, conf.Treasury, price); err != nil {
		return nil, errors.Wrap(err, "cannot collect payment")
	}

	// Statistics are updated only after the funds moved.
	var stats UserStats
	if err := h.stats.One(db, payer, &stats); err != nil && !errors.ErrNotFound.Is(err) {
		return nil, errors.Wrap(err, "cannot load stats")
	}
	if err := stats.record(price, conf.CreditsPerPayment); err != nil {
		return nil, err
	}
	if err := h.stats.Put(db, payer, &stats); err != nil {
		return nil, errors.Wrap(err, "cannot store stats")
	}

	attrs := []string{
		"payer", payer.String(),
		"amount", price.String(),
		"credits", strconv.FormatInt(conf.CreditsPerPayment, 10),
	}
	if blockTime, err := certmint.BlockTime(ctx); err == nil {
		attrs = append(attrs, "block_time", blockTime.UTC().Format(time.RFC3339))
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("payment_received", attrs...),
		},
	}
	return &res, nil
}

func (h *payHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*PayMsg, *Configuration, certmint.Address, error) {
	var msg PayMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if conf.Paused {
		return nil, nil, nil, errors.Wrap(errors.ErrPaused, "pay")
	}
	if conf.Prices[msg.Ticker] < 1 {
		return nil, nil, nil, errors.Wrapf(ErrPriceNotSet, "%q", msg.Ticker)
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	payer := signer.Address()
	if msg.Source != nil {
		// Paying from another account requires control over it.
		if !h.auth.HasAddress(ctx, msg.Source) {
			return nil, nil, nil, errors.Wrapf(ErrAccountBinding, "source %s", msg.Source)
		}
		payer = msg.Source
	}
	return &msg, conf, payer, nil
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
	if conf.Prices == nil {
		conf.Prices = make(map[string]int64)
	}
	if msg.Price == 0 {
		delete(conf.Prices, msg.Ticker)
	} else {
		conf.Prices[msg.Ticker] = msg.Price
	}
	if err := saveConf(db, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("price_updated",
				"ticker", msg.Ticker,
				"price", strconv.FormatInt(msg.Price, 10),
			),
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
	if err := h.ctrl.MoveCoins(db, conf.Treasury, msg.Destination, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot withdraw")
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("treasury_withdrawn",
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
		balance, err := h.ctrl.Balance(db, conf.Treasury)
		if err != nil {
			return nil, nil, errors.Wrap(err, "cannot load treasury balance")
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
