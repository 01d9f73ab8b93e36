package cash

import (
	"testing"

	"github.com/certmint/certmint/certtest"
	"github.com/certmint/certmint/certtest/assert"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/store"
)

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := certtest.NewCondition().Address()
	bob := certtest.NewCondition().Address()

	assert.Nil(t, ctrl.CoinMint(db, alice, coin.NewCoin(100, "USDC")))
	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(30, "USDC")))

	aliceCoins, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, int64(70), aliceCoins.AmountOf("USDC").Amount)

	bobCoins, err := ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, int64(30), bobCoins.AmountOf("USDC").Amount)
}

func TestMoveCoinsInsufficientFunds(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := certtest.NewCondition().Address()
	bob := certtest.NewCondition().Address()

	assert.Nil(t, ctrl.CoinMint(db, alice, coin.NewCoin(10, "USDC")))
	err := ctrl.MoveCoins(db, alice, bob, coin.NewCoin(11, "USDC"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	// A failed transfer must not change any balance.
	aliceCoins, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, int64(10), aliceCoins.AmountOf("USDC").Amount)
	bobCoins, err := ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, true, bobCoins.IsEmpty())
}

func TestMoveCoinsEmptyWallet(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := certtest.NewCondition().Address()
	bob := certtest.NewCondition().Address()

	err := ctrl.MoveCoins(db, alice, bob, coin.NewCoin(1, "USDC"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
}

func TestMoveCoinsRejectsNonPositive(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := certtest.NewCondition().Address()
	bob := certtest.NewCondition().Address()

	assert.IsErr(t, errors.ErrAmount, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(0, "USDC")))
	assert.IsErr(t, errors.ErrAmount, ctrl.MoveCoins(db, alice, bob, coin.NewCoin(-4, "USDC")))
}

func TestBurn(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := certtest.NewCondition().Address()
	assert.Nil(t, ctrl.CoinMint(db, alice, coin.NewCoin(100, "CERT")))
	assert.Nil(t, ctrl.CoinBurn(db, alice, coin.NewCoin(40, "CERT")))

	coins, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, int64(60), coins.AmountOf("CERT").Amount)

	assert.IsErr(t, errors.ErrInsufficientAmount, ctrl.CoinBurn(db, alice, coin.NewCoin(61, "CERT")))
}

func TestMultiCurrencyWallet(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := certtest.NewCondition().Address()
	assert.Nil(t, ctrl.CoinMint(db, alice, coin.NewCoin(5, "USDC")))
	assert.Nil(t, ctrl.CoinMint(db, alice, coin.NewCoin(7, "SOL")))

	coins, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), coins.AmountOf("USDC").Amount)
	assert.Equal(t, int64(7), coins.AmountOf("SOL").Amount)

	// Currencies are independent, spending one never touches the other.
	assert.IsErr(t, errors.ErrInsufficientAmount, ctrl.CoinBurn(db, alice, coin.NewCoin(6, "USDC")))
}
