package registry

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/certtest"
	"github.com/certmint/certmint/certtest/assert"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/gconf"
	"github.com/certmint/certmint/store"
	"github.com/certmint/certmint/x/cash"
)

type fixture struct {
	db        certmint.CacheableKVStore
	router    *certtest.Dispatcher
	ctrl      cash.CashController
	authority certmint.Condition
	issuer    certmint.Condition
	auth      *certtest.Auth
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	db := store.MemStore()
	authority := certtest.NewCondition()
	issuer := certtest.NewCondition()

	conf := Configuration{
		Authority:      authority.Address(),
		Collector:      certmint.NewCondition("registry", "collector", []byte("fees")).Address(),
		IssuancePrice:  coin.NewCoin(50, "USDC"),
		MinimumReserve: coin.NewCoin(10, "USDC"),
	}
	if err := gconf.Save(db, "registry", &conf); err != nil {
		t.Fatalf("save configuration: %+v", err)
	}

	auth := &certtest.Auth{Signer: issuer}
	ctrl := cash.NewController(cash.NewBucket())
	r := &certtest.Dispatcher{}
	RegisterRoutes(r, auth, ctrl)

	return &fixture{
		db:        db,
		router:    r,
		ctrl:      ctrl,
		authority: authority,
		issuer:    issuer,
		auth:      auth,
	}
}

func issueMsg() *IssueMsg {
	return &IssueMsg{
		Identifier: "US1234567A",
		Name:       "Widget Patent",
		Symbol:     "WDGT",
		URI:        "https://example.com/meta/1",
	}
}

func TestIssue(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.ctrl.CoinMint(f.db, f.issuer.Address(), coin.NewCoin(100, "USDC")))

	res, err := f.router.Deliver(context.Background(), f.db, issueMsg())
	assert.Nil(t, err)

	// The first certificate gets id 1.
	assert.Equal(t, uint64(1), binary.BigEndian.Uint64(res.Data))

	var cert Certificate
	assert.Nil(t, NewCertificateBucket().One(f.db, res.Data, &cert))
	assert.Equal(t, int64(1), cert.ID)
	assert.Equal(t, "US1234567A", cert.Identifier)
	assert.Equal(t, true, cert.Owner.Equals(f.issuer.Address()))

	var entry Entry
	assert.Nil(t, NewEntryBucket().One(f.db, CanonicalKey("US1234567A"), &entry))
	assert.Equal(t, int64(1), entry.CertificateID)

	// The fee moved from the issuer to the collector.
	issuerCoins, err := f.ctrl.Balance(f.db, f.issuer.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(50), issuerCoins.AmountOf("USDC").Amount)
}

func TestIssueDuplicate(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.ctrl.CoinMint(f.db, f.issuer.Address(), coin.NewCoin(200, "USDC")))

	_, err := f.router.Deliver(context.Background(), f.db, issueMsg())
	assert.Nil(t, err)

	// The same identifier in a different cosmetic form must collide.
	dup := issueMsg()
	dup.Identifier = "us-1234567a"
	_, err = f.router.Deliver(context.Background(), f.db, dup)
	assert.IsErr(t, ErrDuplicateAsset, err)

	// No fee is charged for a rejected issuance.
	issuerCoins, err := f.ctrl.Balance(f.db, f.issuer.Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(150), issuerCoins.AmountOf("USDC").Amount)
}

func TestIssueInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.ctrl.CoinMint(f.db, f.issuer.Address(), coin.NewCoin(49, "USDC")))

	_, err := f.router.Deliver(context.Background(), f.db, issueMsg())
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	// Nothing was created and the counter did not advance.
	seq := NewCertificateSequence()
	latest, err := seq.Latest(f.db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), latest)
	assert.IsErr(t, errors.ErrNotFound, NewEntryBucket().Has(f.db, CanonicalKey("US1234567A")))
}

func TestIssueSequentialIDs(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.ctrl.CoinMint(f.db, f.issuer.Address(), coin.NewCoin(1000, "USDC")))

	for i, identifier := range []string{"US1A", "US2B", "US3C"} {
		msg := issueMsg()
		msg.Identifier = identifier
		res, err := f.router.Deliver(context.Background(), f.db, msg)
		assert.Nil(t, err)
		assert.Equal(t, uint64(i+1), binary.BigEndian.Uint64(res.Data))
	}
}

func TestIssueCounterOverflow(t *testing.T) {
	f := newFixture(t)
	assert.Nil(t, f.ctrl.CoinMint(f.db, f.issuer.Address(), coin.NewCoin(100, "USDC")))

	// Saturate the certificate counter.
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(math.MaxInt64))
	assert.Nil(t, f.db.Set([]byte("_s.cert:id"), raw))

	_, err := f.router.Deliver(context.Background(), f.db, issueMsg())
	assert.IsErr(t, ErrCounterOverflow, err)
}

func TestAdminIssue(t *testing.T) {
	f := newFixture(t)
	recipient := certtest.NewCondition().Address()

	msg := &AdminIssueMsg{
		Identifier: "US9999999Z",
		Name:       "Gadget Patent",
		Symbol:     "GDGT",
		URI:        "https://example.com/meta/2",
		Recipient:  recipient,
	}

	// A non-authority signer must be rejected.
	_, err := f.router.Deliver(context.Background(), f.db, msg)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// The authority can issue without holding any funds.
	f.auth.Signer = f.authority
	res, err := f.router.Deliver(context.Background(), f.db, msg)
	assert.Nil(t, err)

	var cert Certificate
	assert.Nil(t, NewCertificateBucket().One(f.db, res.Data, &cert))
	assert.Equal(t, true, cert.Owner.Equals(recipient))

	// Uniqueness is enforced on the admin path as well.
	_, err = f.router.Deliver(context.Background(), f.db, msg)
	assert.IsErr(t, ErrDuplicateAsset, err)
}

func TestUpdatePrice(t *testing.T) {
	f := newFixture(t)

	msg := &UpdatePriceMsg{Price: coin.NewCoin(75, "USDC")}
	_, err := f.router.Deliver(context.Background(), f.db, msg)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	f.auth.Signer = f.authority
	_, err = f.router.Deliver(context.Background(), f.db, msg)
	assert.Nil(t, err)

	conf, err := loadConf(f.db)
	assert.Nil(t, err)
	assert.Equal(t, true, conf.IssuancePrice.Equals(coin.NewCoin(75, "USDC")))
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	conf, err := loadConf(f.db)
	assert.Nil(t, err)
	assert.Nil(t, f.ctrl.CoinMint(f.db, conf.Collector, coin.NewCoin(100, "USDC")))
	destination := certtest.NewCondition().Address()

	f.auth.Signer = f.authority

	// Draining below the minimum reserve of 10 must fail.
	_, err = f.router.Deliver(context.Background(), f.db, &WithdrawMsg{
		Destination: destination,
		Amount:      coin.NewCoin(91, "USDC"),
	})
	assert.IsErr(t, cash.ErrReserveViolation, err)

	// Withdrawing down to exactly the reserve is allowed.
	_, err = f.router.Deliver(context.Background(), f.db, &WithdrawMsg{
		Destination: destination,
		Amount:      coin.NewCoin(90, "USDC"),
	})
	assert.Nil(t, err)

	got, err := f.ctrl.Balance(f.db, destination)
	assert.Nil(t, err)
	assert.Equal(t, int64(90), got.AmountOf("USDC").Amount)
}

func TestWithdrawRequiresAuthority(t *testing.T) {
	f := newFixture(t)
	_, err := f.router.Deliver(context.Background(), f.db, &WithdrawMsg{
		Destination: certtest.NewCondition().Address(),
		Amount:      coin.NewCoin(1, "USDC"),
	})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}
