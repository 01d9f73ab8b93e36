package registry

import (
	"encoding/binary"
	"strconv"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
	"github.com/certmint/certmint/x"
	"github.com/certmint/certmint/x/cash"
)

const (
	issueCost int64 = 100
	adminCost int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r certmint.Registry, auth x.Authenticator, ctrl cash.Controller) {
	entries := NewEntryBucket()
	certs := NewCertificateBucket()
	seq := NewCertificateSequence()

	r.Handle(&IssueMsg{}, &issueHandler{auth: auth, ctrl: ctrl, entries: entries, certs: certs, seq: seq})
	r.Handle(&AdminIssueMsg{}, &adminIssueHandler{auth: auth, entries: entries, certs: certs, seq: seq})
	r.Handle(&UpdatePriceMsg{}, &updatePriceHandler{auth: auth})
	r.Handle(&WithdrawMsg{}, &withdrawHandler{auth: auth, ctrl: ctrl})
}

type issueHandler struct {
	auth    x.Authenticator
	ctrl    cash.Controller
	entries orm.ModelBucket
	certs   orm.ModelBucket
	seq     orm.Sequence
}

var _ certmint.Handler = (*issueHandler)(nil)

func (h *issueHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: issueCost}, nil
}

func (h *issueHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, payer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if conf.IssuancePrice.IsPositive() {
		if err := h.ctrl.MoveCoins(db, payer, conf.Collector, conf.IssuancePrice); err != nil {
			return nil, errors.Wrap(err, "cannot charge issuance fee")
		}
	}

	certKey, id, err := nextCertificateID(db, &h.seq)
	if err != nil {
		return nil, err
	}

	cert := Certificate{
		ID:         id,
		Identifier: msg.Identifier,
		Name:       msg.Name,
		Symbol:     msg.Symbol,
		URI:        msg.URI,
		Owner:      payer,
	}
	if err := h.certs.Put(db, certKey, &cert); err != nil {
		return nil, errors.Wrap(err, "cannot store certificate")
	}
	entry := Entry{
		Identifier:    msg.Identifier,
		Owner:         payer,
		CertificateID: id,
	}
	if err := h.entries.Put(db, CanonicalKey(msg.Identifier), &entry); err != nil {
		return nil, errors.Wrap(err, "cannot store registry entry")
	}

	res := certmint.DeliverResult{
		Data: certKey,
		Events: []certmint.Event{
			certmint.NewEvent("cert_issued",
				"id", strconv.FormatInt(id, 10),
				"identifier", Normalize(msg.Identifier),
				"owner", payer.String(),
			),
		},
	}
	return &res, nil
}

// validate returns the message, the configuration and the fee paying
// signer. It ensures the identifier is not yet registered.
func (h *issueHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*IssueMsg, *Configuration, certmint.Address, error) {
	var msg IssueMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	if err := h.entries.Has(db, CanonicalKey(msg.Identifier)); err == nil {
		return nil, nil, nil, errors.Wrapf(ErrDuplicateAsset, "%q", Normalize(msg.Identifier))
	} else if !errors.ErrNotFound.Is(err) {
		return nil, nil, nil, errors.Wrap(err, "cannot check registry")
	}
	return &msg, conf, signer.Address(), nil
}

type adminIssueHandler struct {
	auth    x.Authenticator
	entries orm.ModelBucket
	certs   orm.ModelBucket
	seq     orm.Sequence
}

var _ certmint.Handler = (*adminIssueHandler)(nil)

func (h *adminIssueHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: adminCost}, nil
}

func (h *adminIssueHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	certKey, id, err := nextCertificateID(db, &h.seq)
	if err != nil {
		return nil, err
	}

	cert := Certificate{
		ID:         id,
		Identifier: msg.Identifier,
		Name:       msg.Name,
		Symbol:     msg.Symbol,
		URI:        msg.URI,
		Owner:      msg.Recipient,
	}
	if err := h.certs.Put(db, certKey, &cert); err != nil {
		return nil, errors.Wrap(err, "cannot store certificate")
	}
	entry := Entry{
		Identifier:    msg.Identifier,
		Owner:         msg.Recipient,
		CertificateID: id,
	}
	if err := h.entries.Put(db, CanonicalKey(msg.Identifier), &entry); err != nil {
		return nil, errors.Wrap(err, "cannot store registry entry")
	}

	res := certmint.DeliverResult{
		Data: certKey,
		Events: []certmint.Event{
			certmint.NewEvent("cert_issued",
				"id", strconv.FormatInt(id, 10),
				"identifier", Normalize(msg.Identifier),
				"owner", msg.Recipient.String(),
			),
		},
	}
	return &res, nil
}

func (h *adminIssueHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*AdminIssueMsg, error) {
	var msg AdminIssueMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "authority signature required")
	}
	if err := h.entries.Has(db, CanonicalKey(msg.Identifier)); err == nil {
		return nil, errors.Wrapf(ErrDuplicateAsset, "%q", Normalize(msg.Identifier))
	} else if !errors.ErrNotFound.Is(err) {
		return nil, errors.Wrap(err, "cannot check registry")
	}
	return &msg, nil
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
	conf.IssuancePrice = msg.Price
	if err := saveConf(db, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("price_updated", "price", msg.Price.String()),
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
	if err := h.ctrl.MoveCoins(db, conf.Collector, msg.Destination, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot withdraw")
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("fee_withdrawn",
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

	// The collector must keep the minimum reserve after the withdrawal.
	if msg.Amount.SameType(conf.MinimumReserve) && conf.MinimumReserve.IsPositive() {
		balance, err := h.ctrl.Balance(db, conf.Collector)
		if err != nil {
			return nil, nil, errors.Wrap(err, "cannot load collector balance")
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

// nextCertificateID draws the next id from the sequence. A saturated
// counter is reported as a certificate counter overflow.
func nextCertificateID(db certmint.KVStore, seq *orm.Sequence) ([]byte, int64, error) {
	key, err := seq.NextVal(db)
	if err != nil {
		if orm.ErrSequenceOverflow.Is(err) {
			return nil, 0, errors.Wrap(ErrCounterOverflow, "certificate id")
		}
		return nil, 0, errors.Wrap(err, "certificate sequence")
	}
	return key, int64(binary.BigEndian.Uint64(key)), nil
}
