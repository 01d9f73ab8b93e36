package cash

import (
	"github.com/certmint/certmint"
	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
)

// Controller is the functionality needed by other engines to move
// funds between accounts. This is implemented by CashController and
// may be mocked out in tests.
type Controller interface {
	CoinMover
	// Balance returns the coins held by an account. A missing wallet is
	// an empty wallet, not an error.
	Balance(certmint.ReadOnlyKVStore, certmint.Address) (coin.Coins, error)
	// CoinMint increases the balance of an account out of thin air. Used
	// by engines with their own supply accounting.
	CoinMint(certmint.KVStore, certmint.Address, coin.Coin) error
	// CoinBurn decreases the balance of an account, destroying the
	// value. Fails on insufficient funds.
	CoinBurn(certmint.KVStore, certmint.Address, coin.Coin) error
}

// CoinMover is the subset of Controller needed for transfers only.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to
	// the destination account. The amount must be positive.
	MoveCoins(certmint.KVStore, certmint.Address, certmint.Address, coin.Coin) error
}

// CashController is the standard implementation of funds movement over
// the wallet bucket.
type CashController struct {
	bucket orm.ModelBucket
}

var _ Controller = CashController{}

// NewController returns a controller operating over the given wallet
// bucket.
func NewController(bucket orm.ModelBucket) CashController {
	return CashController{bucket: bucket}
}

// Balance implements Controller.
func (c CashController) Balance(db certmint.ReadOnlyKVStore, src certmint.Address) (coin.Coins, error) {
	return WalletCoins(db, c.bucket, src)
}

// MoveCoins performs a transfer. It fails if the source does not hold
// enough funds, leaving both wallets untouched.
func (c CashController) MoveCoins(db certmint.KVStore, src, dst certmint.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer: %v", amount)
	}
	if src.Equals(dst) {
		return errors.Wrap(errors.ErrInput, "same source and destination")
	}
	if err := c.debit(db, src, amount); err != nil {
		return err
	}
	return c.credit(db, dst, amount)
}

// CoinMint implements Controller.
func (c CashController) CoinMint(db certmint.KVStore, dst certmint.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive mint: %v", amount)
	}
	return c.credit(db, dst, amount)
}

// CoinBurn implements Controller.
func (c CashController) CoinBurn(db certmint.KVStore, src certmint.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive burn: %v", amount)
	}
	return c.debit(db, src, amount)
}

func (c CashController) debit(db certmint.KVStore, addr certmint.Address, amount coin.Coin) error {
	var wallet Set
	switch err := c.bucket.One(db, addr, &wallet); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty wallet cannot cover %v", amount)
	case err != nil:
		return errors.Wrap(err, "cannot load wallet")
	}
	if !wallet.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "wallet holds %v, needs %v", wallet.Coins, amount)
	}
	coins, err := wallet.Coins.Subtract(amount)
	if err != nil {
		return err
	}
	wallet.Coins = coins
	return c.bucket.Put(db, addr, &wallet)
}

func (c CashController) credit(db certmint.KVStore, addr certmint.Address, amount coin.Coin) error {
	var wallet Set
	if err := c.bucket.One(db, addr, &wallet); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "cannot load wallet")
	}
	coins, err := wallet.Coins.Add(amount)
	if err != nil {
		return err
	}
	wallet.Coins = coins
	return c.bucket.Put(db, addr, &wallet)
}
