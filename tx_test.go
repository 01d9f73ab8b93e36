package certmint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/certmint/certmint/errors"
)

type pingMsg struct {
	Payload string
}

var _ Msg = (*pingMsg)(nil)

func (m *pingMsg) Marshal() ([]byte, error) { return json.Marshal(m) }
func (m *pingMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}
func (m *pingMsg) Path() string { return "test/ping" }
func (m *pingMsg) Validate() error {
	if m.Payload == "" {
		return errors.Wrap(errors.ErrEmpty, "payload")
	}
	return nil
}

type pongMsg struct{ pingMsg }

func (m *pongMsg) Path() string { return "test/pong" }

type msgTx struct {
	msg Msg
	err error
}

var _ Tx = (*msgTx)(nil)

func (tx *msgTx) Marshal() ([]byte, error) { return nil, errors.ErrHuman }
func (tx *msgTx) Unmarshal([]byte) error   { return errors.ErrHuman }
func (tx *msgTx) GetMsg() (Msg, error)     { return tx.msg, tx.err }

func TestLoadMsg(t *testing.T) {
	tx := &msgTx{msg: &pingMsg{Payload: "hello"}}
	var dest pingMsg
	assert.NoError(t, LoadMsg(tx, &dest))
	assert.Equal(t, "hello", dest.Payload)
}

func TestLoadMsgWrongType(t *testing.T) {
	tx := &msgTx{msg: &pingMsg{Payload: "hello"}}
	var dest pongMsg
	err := LoadMsg(tx, &dest)
	if !errors.ErrType.Is(err) {
		t.Fatalf("want ErrType, got %+v", err)
	}
}

func TestLoadMsgInvalid(t *testing.T) {
	tx := &msgTx{msg: &pingMsg{}}
	var dest pingMsg
	err := LoadMsg(tx, &dest)
	if !errors.ErrEmpty.Is(err) {
		t.Fatalf("want the validation error, got %+v", err)
	}
}

func TestLoadMsgGetFailure(t *testing.T) {
	tx := &msgTx{err: errors.ErrState}
	var dest pingMsg
	err := LoadMsg(tx, &dest)
	if !errors.ErrState.Is(err) {
		t.Fatalf("want ErrState, got %+v", err)
	}
}
