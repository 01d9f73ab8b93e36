package market

import (
	"strconv"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
	"github.com/certmint/certmint/x"
	"github.com/certmint/certmint/x/cash"
	"github.com/certmint/certmint/x/registry"
)

const (
	tradeCost int64 = 100
	adminCost int64 = 10
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r certmint.Registry, auth x.Authenticator, ctrl cash.Controller) {
	listings := NewListingBucket()
	certs := registry.NewCertificateBucket()
	entries := registry.NewEntryBucket()

	r.Handle(&CreateListingMsg{}, &createListingHandler{auth: auth, listings: listings, certs: certs})
	r.Handle(&BuyMsg{}, &buyHandler{auth: auth, ctrl: ctrl, listings: listings, certs: certs, entries: entries})
	r.Handle(&CancelMsg{}, &cancelHandler{auth: auth, listings: listings, certs: certs})
	r.Handle(&UpdatePriceMsg{}, &updatePriceHandler{auth: auth, listings: listings})
	r.Handle(&UpdateConfigMsg{}, &updateConfigHandler{auth: auth})
}

type createListingHandler struct {
	auth     x.Authenticator
	listings orm.ModelBucket
	certs    orm.ModelBucket
}

var _ certmint.Handler = (*createListingHandler)(nil)

func (h *createListingHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: tradeCost}, nil
}

func (h *createListingHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, cert, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key := ListingKey(msg.CertificateID)
	seller := cert.Owner

	// Custody moves to the escrow before the listing goes live.
	cert.Owner = EscrowAddress(key)
	if err := h.certs.Put(db, key, cert); err != nil {
		return nil, errors.Wrap(err, "cannot store certificate")
	}

	listing := Listing{
		CertificateID: msg.CertificateID,
		Seller:        seller,
		Price:         msg.Price,
		Active:        true,
	}
	if err := h.listings.Put(db, key, &listing); err != nil {
		return nil, errors.Wrap(err, "cannot store listing")
	}

	res := certmint.DeliverResult{
		Data: key,
		Events: []certmint.Event{
			certmint.NewEvent("listed",
				"certificate_id", strconv.FormatInt(msg.CertificateID, 10),
				"seller", seller.String(),
				"price", msg.Price.String(),
			),
		},
	}
	return &res, nil
}

func (h *createListingHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*CreateListingMsg, *registry.Certificate, error) {
	var msg CreateListingMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	key := ListingKey(msg.CertificateID)
	var cert registry.Certificate
	if err := h.certs.One(db, key, &cert); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load certificate")
	}
	if !h.auth.HasAddress(ctx, cert.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the owner can list")
	}

	// A certificate can be listed at most once. Consumed listings stay
	// in the database as terminal records.
	switch err := h.listings.Has(db, key); {
	case err == nil:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "certificate %d was already listed", msg.CertificateID)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, errors.Wrap(err, "cannot check listing")
	}
	return &msg, &cert, nil
}

type buyHandler struct {
	auth     x.Authenticator
	ctrl     cash.Controller
	listings orm.ModelBucket
	certs    orm.ModelBucket
	entries  orm.ModelBucket
}

var _ certmint.Handler = (*buyHandler)(nil)

func (h *buyHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: tradeCost}, nil
}

func (h *buyHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, listing, buyer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	key := ListingKey(msg.CertificateID)

	// The active flag is consumed before any funds move. A failure in
	// any later step aborts the whole execution unit, which also rolls
	// this back.
	listing.Active = false
	if err := h.listings.Put(db, key, listing); err != nil {
		return nil, errors.Wrap(err, "cannot store listing")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	fee, payout, err := listing.Price.Basis(conf.FeeBps)
	if err != nil {
		return nil, errors.Wrap(err, "fee split")
	}
	if err := h.ctrl.MoveCoins(db, buyer, listing.Seller, payout); err != nil {
		return nil, errors.Wrap(err, "cannot pay seller")
	}
	if fee.IsPositive() {
		if err := h.ctrl.MoveCoins(db, buyer, conf.Collector, fee); err != nil {
			return nil, errors.Wrap(err, "cannot pay fee")
		}
	}

	var cert registry.Certificate
	if err := h.certs.One(db, key, &cert); err != nil {
		return nil, errors.Wrap(err, "cannot load certificate")
	}
	cert.Owner = buyer
	if err := h.certs.Put(db, key, &cert); err != nil {
		return nil, errors.Wrap(err, "cannot store certificate")
	}

	var entry registry.Entry
	entryKey := registry.CanonicalKey(cert.Identifier)
	if err := h.entries.One(db, entryKey, &entry); err != nil {
		return nil, errors.Wrap(err, "cannot load registry entry")
	}
	entry.Owner = buyer
	if err := h.entries.Put(db, entryKey, &entry); err != nil {
		return nil, errors.Wrap(err, "cannot store registry entry")
	}

	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("sold",
				"certificate_id", strconv.FormatInt(msg.CertificateID, 10),
				"seller", listing.Seller.String(),
				"buyer", buyer.String(),
				"price", listing.Price.String(),
				"fee", fee.String(),
			),
		},
	}
	return &res, nil
}

func (h *buyHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*BuyMsg, *Listing, certmint.Address, error) {
	var msg BuyMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	var listing Listing
	if err := h.listings.One(db, ListingKey(msg.CertificateID), &listing); err != nil {
		return nil, nil, nil, errors.Wrap(err, "cannot load listing")
	}
	if !listing.Active {
		return nil, nil, nil, errors.Wrapf(ErrListingInactive, "certificate %d", msg.CertificateID)
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	buyer := signer.Address()
	if buyer.Equals(listing.Seller) {
		return nil, nil, nil, errors.Wrapf(ErrSelfTrade, "certificate %d", msg.CertificateID)
	}
	return &msg, &listing, buyer, nil
}

type cancelHandler struct {
	auth     x.Authenticator
	listings orm.ModelBucket
	certs    orm.ModelBucket
}

var _ certmint.Handler = (*cancelHandler)(nil)

func (h *cancelHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: tradeCost}, nil
}

func (h *cancelHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, listing, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	key := ListingKey(msg.CertificateID)

	// Consume the flag first, then return custody.
	listing.Active = false
	if err := h.listings.Put(db, key, listing); err != nil {
		return nil, errors.Wrap(err, "cannot store listing")
	}

	var cert registry.Certificate
	if err := h.certs.One(db, key, &cert); err != nil {
		return nil, errors.Wrap(err, "cannot load certificate")
	}
	cert.Owner = listing.Seller
	if err := h.certs.Put(db, key, &cert); err != nil {
		return nil, errors.Wrap(err, "cannot store certificate")
	}

	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("cancelled",
				"certificate_id", strconv.FormatInt(msg.CertificateID, 10),
				"seller", listing.Seller.String(),
			),
		},
	}
	return &res, nil
}

func (h *cancelHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*CancelMsg, *Listing, error) {
	var msg CancelMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var listing Listing
	if err := h.listings.One(db, ListingKey(msg.CertificateID), &listing); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load listing")
	}
	if !listing.Active {
		return nil, nil, errors.Wrapf(ErrListingInactive, "certificate %d", msg.CertificateID)
	}
	if !h.auth.HasAddress(ctx, listing.Seller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the seller can cancel")
	}
	return &msg, &listing, nil
}

type updatePriceHandler struct {
	auth     x.Authenticator
	listings orm.ModelBucket
}

var _ certmint.Handler = (*updatePriceHandler)(nil)

func (h *updatePriceHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: adminCost}, nil
}

func (h *updatePriceHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, listing, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	listing.Price = msg.Price
	if err := h.listings.Put(db, ListingKey(msg.CertificateID), listing); err != nil {
		return nil, errors.Wrap(err, "cannot store listing")
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("price_updated",
				"certificate_id", strconv.FormatInt(msg.CertificateID, 10),
				"price", msg.Price.String(),
			),
		},
	}
	return &res, nil
}

func (h *updatePriceHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*UpdatePriceMsg, *Listing, error) {
	var msg UpdatePriceMsg
	if err := certmint.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var listing Listing
	if err := h.listings.One(db, ListingKey(msg.CertificateID), &listing); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load listing")
	}
	if !listing.Active {
		return nil, nil, errors.Wrapf(ErrListingInactive, "certificate %d", msg.CertificateID)
	}
	if !h.auth.HasAddress(ctx, listing.Seller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the seller can update the price")
	}
	return &msg, &listing, nil
}

type updateConfigHandler struct {
	auth x.Authenticator
}

var _ certmint.Handler = (*updateConfigHandler)(nil)

func (h *updateConfigHandler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &certmint.CheckResult{GasAllocated: adminCost}, nil
}

func (h *updateConfigHandler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf.FeeBps = msg.FeeBps
	conf.Collector = msg.Collector
	if err := saveConf(db, conf); err != nil {
		return nil, errors.Wrap(err, "cannot save configuration")
	}
	res := certmint.DeliverResult{
		Events: []certmint.Event{
			certmint.NewEvent("config_updated",
				"fee_bps", strconv.FormatUint(uint64(msg.FeeBps), 10),
				"collector", msg.Collector.String(),
			),
		},
	}
	return &res, nil
}

func (h *updateConfigHandler) validate(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*UpdateConfigMsg, *Configuration, error) {
	var msg UpdateConfigMsg
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
