package certtest

import (
	"github.com/certmint/certmint"
)

// Tx is a mock implementing the certmint.Tx interface, wrapping a
// single message.
type Tx struct {
	// Msg is the message this transaction is carrying.
	Msg certmint.Msg
	// Err is returned by any method call if not nil.
	Err error
}

var _ certmint.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (certmint.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg.Marshal()
}

func (tx *Tx) Unmarshal([]byte) error {
	return tx.Err
}

// Handler is a mock implementing the certmint.Handler interface.
type Handler struct {
	CheckResult   certmint.CheckResult
	CheckErr      error
	DeliverResult certmint.DeliverResult
	DeliverErr    error

	checkCallCount   int
	deliverCallCount int
}

var _ certmint.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.CheckResult, error) {
	h.checkCallCount++
	return &h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(ctx certmint.Context, db certmint.KVStore, tx certmint.Tx) (*certmint.DeliverResult, error) {
	h.deliverCallCount++
	return &h.DeliverResult, h.DeliverErr
}

func (h *Handler) CheckCallCount() int   { return h.checkCallCount }
func (h *Handler) DeliverCallCount() int { return h.deliverCallCount }
func (h *Handler) CallCount() int        { return h.checkCallCount + h.deliverCallCount }
