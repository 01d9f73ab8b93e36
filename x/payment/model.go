package payment

import (
	"encoding/json"

	"github.com/certmint/certmint/coin"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
)

// statsBucketName keeps per-user statistics keyed by the payer address.
const statsBucketName = "usrstat"

// UserStats is the lifetime payment record of a single payer.
type UserStats struct {
	// Paid holds the lifetime totals per currency.
	Paid coin.Coins `json:"paid"`
	// Payments is the number of payments made.
	Payments int64 `json:"payments"`
	// Credits is the number of service credits granted.
	Credits int64 `json:"credits"`
}

var _ orm.Model = (*UserStats)(nil)

func (s *UserStats) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

func (s *UserStats) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, s)
}

func (s *UserStats) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Paid", s.Paid.Validate())
	if !s.Paid.IsNonNegative() {
		errs = errors.AppendField(errs, "Paid", errors.ErrAmount)
	}
	if s.Payments < 0 {
		errs = errors.AppendField(errs, "Payments", errors.ErrAmount)
	}
	if s.Credits < 0 {
		errs = errors.AppendField(errs, "Credits", errors.ErrAmount)
	}
	return errs
}

// record adds a payment to the statistics. All counters are checked,
// a saturated counter rejects the update.
func (s *UserStats) record(paid coin.Coin, credits int64) error {
	coins, err := s.Paid.Add(paid)
	if err != nil {
		return errors.Wrap(ErrStatsOverflow, "lifetime paid")
	}
	payments, err := checkedAdd(s.Payments, 1)
	if err != nil {
		return errors.Wrap(ErrStatsOverflow, "payment count")
	}
	total, err := checkedAdd(s.Credits, credits)
	if err != nil {
		return errors.Wrap(ErrStatsOverflow, "credits")
	}
	s.Paid = coins
	s.Payments = payments
	s.Credits = total
	return nil
}

func checkedAdd(a, b int64) (int64, error) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return c, nil
}

// NewStatsBucket returns the bucket for keeping user statistics.
func NewStatsBucket() orm.ModelBucket {
	return orm.NewModelBucket(statsBucketName)
}
