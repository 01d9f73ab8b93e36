package market

import (
	"context"
	"testing"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/certtest"
	"github.com/certmint/certmint/certtest/assert"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/gconf"
	"github.com/certmint/certmint/store"
	"github.com/certmint/certmint/x/cash"
	"github.com/certmint/certmint/x/registry"
)

type fixture struct {
	db        certmint.CacheableKVStore
	router    *certtest.Dispatcher
	ctrl      cash.CashController
	authority certmint.Condition
	seller    certmint.Condition
	buyer     certmint.Condition
	collector certmint.Address
	auth      *certtest.Auth
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	db := store.MemStore()
	authority := certtest.NewCondition()
	seller := certtest.NewCondition()
	buyer := certtest.NewCondition()
	collector := certmint.NewCondition("market", "collector", []byte("fees")).Address()

	conf := Configuration{
		Authority: authority.Address(),
		Collector: collector,
		FeeBps:    250,
	}
	if err := gconf.Save(db, "market", &conf); err != nil {
		t.Fatalf("save configuration: %+v", err)
	}

	// Certificate 1 exists and belongs to the seller.
	cert := registry.Certificate{
		ID:         1,
		Identifier: "US1234567A",
		Name:       "Widget Patent",
		Symbol:     "WDGT",
		URI:        "https://example.com/meta/1",
		Owner:      seller.Address(),
	}
	if err := registry.NewCertificateBucket().Put(db, ListingKey(1), &cert); err != nil {
		t.Fatalf("store certificate: %+v", err)
	}
	entry := registry.Entry{
		Identifier:    "US1234567A",
		Owner:         seller.Address(),
		CertificateID: 1,
	}
	if err := registry.NewEntryBucket().Put(db, registry.CanonicalKey("US1234567A"), &entry); err != nil {
		t.Fatalf("store entry: %+v", err)
	}

	auth := &certtest.Auth{Signer: seller}
	ctrl := cash.NewController(cash.NewBucket())
	r := &certtest.Dispatcher{}
	RegisterRoutes(r, auth, ctrl)

	return &fixture{
		db:        db,
		router:    r,
		ctrl:      ctrl,
		authority: authority,
		seller:    seller,
		buyer:     buyer,
		collector: collector,
		auth:      auth,
	}
}

func (f *fixture) certificate(t testing.TB, id int64) *registry.Certificate {
	t.Helper()
	var cert registry.Certificate
	assert.Nil(t, registry.NewCertificateBucket().One(f.db, ListingKey(id), &cert))
	return &cert
}

func (f *fixture) listing(t testing.TB, id int64) *Listing {
	t.Helper()
	var listing Listing
	assert.Nil(t, NewListingBucket().One(f.db, ListingKey(id), &listing))
	return &listing
}

func (f *fixture) list(t testing.TB, price int64) {
	t.Helper()
	f.auth.Signer = f.seller
	_, err := f.router.Deliver(context.Background(), f.db, &CreateListingMsg{
		CertificateID: 1,
		Price:         coin.NewCoin(price, "USDC"),
	})
	assert.Nil(t, err)
}

func TestCreateListing(t *testing.T) {
	f := newFixture(t)
	f.list(t, 500)

	listing := f.listing(t, 1)
	assert.Equal(t, true, listing.Active)
	assert.Equal(t, true, listing.Seller.Equals(f.seller.Address()))

	// Custody moved to the derived escrow address.
	cert := f.certificate(t, 1)
	assert.Equal(t, true, cert.Owner.Equals(EscrowAddress(ListingKey(1))))
}

func TestCreateListingOnlyOwner(t *testing.T) {
	f := newFixture(t)
	f.auth.Signer = f.buyer
	_, err := f.router.Deliver(context.Background(), f.db, &CreateListingMsg{
		CertificateID: 1,
		Price:         coin.NewCoin(500, "USDC"),
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestCreateListingMissingCertificate(t *testing.T) {
	f := newFixture(t)
	_, err := f.router.Deliver(context.Background(), f.db, &CreateListingMsg{
		CertificateID: 99,
		Price:         coin.NewCoin(500, "USDC"),
	})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCreateListingRejectsBadPrice(t *testing.T) {
	f := newFixture(t)
	for _, amount := range []int64{0, -5} {
		_, err := f.router.Deliver(context.Background(), f.db, &CreateListingMsg{
			CertificateID: 1,
			Price:         coin.NewCoin(amount, "USDC"),
		})
		assert.IsErr(t, ErrInvalidPrice, err)
	}
}

func TestBuy(t *testing.T) {
	f := newFixture(t)
	f.list(t, 1000000)
	assert.Nil(t, f.ctrl.CoinMint(f.db, f.buyer.Address(), coin.NewCoin(1000000, "USDC")))

	f.auth.Signer = f.buyer
	_, err := f.router.Deliver(context.Background(), f.db, &BuyMsg{CertificateID: 1})
	assert.Nil(t, err)

	// The price splits exactly between the seller and the collector.
	sellerCoins, err := f.ctrl.Balance(f.db, f.seller.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(975000), sellerCoins.AmountOf("USDC").Amount)
	collectorCoins, err := f.ctrl.Balance(f.db, f.collector)
	assert.Nil(t, err)
	assert.Equal(t, int64(25000), collectorCoins.AmountOf("USDC").Amount)
	buyerCoins, err := f.ctrl.Balance(f.db, f.buyer.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(0), buyerCoins.AmountOf("USDC").Amount)

	// Certificate and registry ownership moved to the buyer.
	assert.Equal(t, true, f.certificate(t, 1).Owner.Equals(f.buyer.Address()))
	var entry registry.Entry
	assert.Nil(t, registry.NewEntryBucket().One(f.db, registry.CanonicalKey("US1234567A"), &entry))
	assert.Equal(t, true, entry.Owner.Equals(f.buyer.Address()))

	// The listing is consumed.
	assert.Equal(t, false, f.listing(t, 1).Active)
	_, err = f.router.Deliver(context.Background(), f.db, &BuyMsg{CertificateID: 1})
	assert.IsErr(t, ErrListingInactive, err)
}

func TestBuySelfTrade(t *testing.T) {
	f := newFixture(t)
	f.list(t, 500)
	assert.Nil(t, f.ctrl.CoinMint(f.db, f.seller.Address(), coin.NewCoin(500, "USDC")))

	_, err := f.router.Deliver(context.Background(), f.db, &BuyMsg{CertificateID: 1})
	assert.IsErr(t, ErrSelfTrade, err)
	assert.Equal(t, true, f.listing(t, 1).Active)
}

func TestBuyInsufficientFundsKeepsListingActive(t *testing.T) {
	f := newFixture(t)
	f.list(t, 500)
	assert.Nil(t, f.ctrl.CoinMint(f.db, f.buyer.Address(), coin.NewCoin(499, "USDC")))

	// Delivery runs on a savepoint that is written only on success, the
	// same way the application executes every message.
	cache := f.db.CacheWrap()
	f.auth.Signer = f.buyer
	_, err := f.router.Deliver(context.Background(), cache, &BuyMsg{CertificateID: 1})
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
	cache.Discard()

	// The listing is still purchasable and nobody was charged.
	assert.Equal(t, true, f.listing(t, 1).Active)
	sellerCoins, err := f.ctrl.Balance(f.db, f.seller.Address())
	assert.Nil(t, err)
	assert.Equal(t, true, sellerCoins.IsEmpty())
}

func TestBuyZeroFee(t *testing.T) {
	f := newFixture(t)
	f.auth.Signer = f.authority
	_, err := f.router.Deliver(context.Background(), f.db, &UpdateConfigMsg{
		FeeBps:    0,
		Collector: f.collector,
	})
	assert.Nil(t, err)

	f.list(t, 500)
	assert.Nil(t, f.ctrl.CoinMint(f.db, f.buyer.Address(), coin.NewCoin(500, "USDC")))

	f.auth.Signer = f.buyer
	_, err = f.router.Deliver(context.Background(), f.db, &BuyMsg{CertificateID: 1})
	assert.Nil(t, err)

	sellerCoins, err := f.ctrl.Balance(f.db, f.seller.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(500), sellerCoins.AmountOf("USDC").Amount)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	f.list(t, 500)

	// Only the seller can cancel.
	f.auth.Signer = f.buyer
	_, err := f.router.Deliver(context.Background(), f.db, &CancelMsg{CertificateID: 1})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	f.auth.Signer = f.seller
	_, err = f.router.Deliver(context.Background(), f.db, &CancelMsg{CertificateID: 1})
	assert.Nil(t, err)

	// Custody returned, listing terminally inactive.
	assert.Equal(t, true, f.certificate(t, 1).Owner.Equals(f.seller.Address()))
	assert.Equal(t, false, f.listing(t, 1).Active)

	_, err = f.router.Deliver(context.Background(), f.db, &CancelMsg{CertificateID: 1})
	assert.IsErr(t, ErrListingInactive, err)

	assert.Nil(t, f.ctrl.CoinMint(f.db, f.buyer.Address(), coin.NewCoin(500, "USDC")))
	f.auth.Signer = f.buyer
	_, err = f.router.Deliver(context.Background(), f.db, &BuyMsg{CertificateID: 1})
	assert.IsErr(t, ErrListingInactive, err)
}

func TestUpdateListingPrice(t *testing.T) {
	f := newFixture(t)
	f.list(t, 500)

	f.auth.Signer = f.buyer
	_, err := f.router.Deliver(context.Background(), f.db, &UpdatePriceMsg{
		CertificateID: 1,
		Price:         coin.NewCoin(700, "USDC"),
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	f.auth.Signer = f.seller
	_, err = f.router.Deliver(context.Background(), f.db, &UpdatePriceMsg{
		CertificateID: 1,
		Price:         coin.NewCoin(700, "USDC"),
	})
	assert.Nil(t, err)
	assert.Equal(t, true, f.listing(t, 1).Price.Equals(coin.NewCoin(700, "USDC")))
}

func TestUpdateConfigFeeTooHigh(t *testing.T) {
	f := newFixture(t)
	f.auth.Signer = f.authority
	_, err := f.router.Deliver(context.Background(), f.db, &UpdateConfigMsg{
		FeeBps:    1001,
		Collector: f.collector,
	})
	assert.IsErr(t, ErrFeeTooHigh, err)

	_, err = f.router.Deliver(context.Background(), f.db, &UpdateConfigMsg{
		FeeBps:    1000,
		Collector: f.collector,
	})
	assert.Nil(t, err)
}
