package token

import (
	"encoding/json"

	"github.com/certmint/certmint"
	"github.com/certmint/certmint/errors"
	"github.com/certmint/certmint/orm"
)

// approvalBucketName keeps approvals keyed by account and spender
// addresses.
const approvalBucketName = "appr"

// Approval is the capability record allowing a spender to spend engine
// currency on behalf of an account.
type Approval struct {
	Account certmint.Address `json:"account"`
	Spender certmint.Address `json:"spender"`
}

var _ orm.Model = (*Approval)(nil)

func (a *Approval) Marshal() ([]byte, error) {
	return json.Marshal(a)
}

func (a *Approval) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, a)
}

func (a *Approval) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Account", a.Account.Validate())
	errs = errors.AppendField(errs, "Spender", a.Spender.Validate())
	if a.Account.Equals(a.Spender) {
		errs = errors.AppendField(errs, "Spender", errors.Wrap(errors.ErrInput, "same as account"))
	}
	return errs
}

// NewApprovalBucket returns the bucket for keeping approvals.
func NewApprovalBucket() orm.ModelBucket {
	return orm.NewModelBucket(approvalBucketName)
}

// approvalKey is the primary key of an approval record.
func approvalKey(account, spender certmint.Address) []byte {
	key := make([]byte, 0, len(account)+len(spender))
	key = append(key, account...)
	return append(key, spender...)
}
