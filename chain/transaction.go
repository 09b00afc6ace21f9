// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/keys"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/utils"
)

type Transaction struct {
	Base *Base `json:"base"`

	Action Action `json:"action"`
	Auths  []Auth `json:"auths"`

	digest    []byte
	bytes     []byte
	size      int
	id        ids.ID
	stateKeys state.Keys
}

func NewTx(base *Base, action Action) *Transaction {
	return &Transaction{
		Base:   base,
		Action: action,
	}
}

// Digest is the message every auth signs.
func (t *Transaction) Digest() ([]byte, error) {
	if len(t.digest) > 0 {
		return t.digest, nil
	}
	size := t.Base.Size() + consts.ByteLen + t.Action.Size()
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	t.Base.Marshal(p)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	return p.Bytes(), p.Err()
}

// Sign appends one auth per factory and reloads the transaction from its
// bytes so the returned value is exactly what a node would parse.
func (t *Transaction) Sign(
	factories []AuthFactory,
	actionRegistry *codec.TypeParser[Action],
	authRegistry *codec.TypeParser[Auth],
) (*Transaction, error) {
	msg, err := t.Digest()
	if err != nil {
		return nil, err
	}
	t.Auths = make([]Auth, 0, len(factories))
	for _, factory := range factories {
		auth, err := factory.Sign(msg)
		if err != nil {
			return nil, err
		}
		t.Auths = append(t.Auths, auth)
	}

	size := len(msg) + consts.ByteLen
	for _, auth := range t.Auths {
		size += consts.ByteLen + auth.Size()
	}
	p := codec.NewWriter(size, consts.NetworkSizeLimit)
	if err := t.Marshal(p); err != nil {
		return nil, err
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	p = codec.NewReader(p.Bytes(), consts.NetworkSizeLimit)
	return UnmarshalTx(p, actionRegistry, authRegistry)
}

func (t *Transaction) Bytes() []byte { return t.bytes }

func (t *Transaction) Size() int { return t.size }

func (t *Transaction) ID() ids.ID { return t.id }

func (t *Transaction) Expiry() int64 { return t.Base.Timestamp }

// Signers returns the set of addresses proven by the transaction auths.
func (t *Transaction) Signers() set.Set[codec.Address] {
	s := set.NewSet[codec.Address](len(t.Auths))
	for _, auth := range t.Auths {
		s.Add(auth.Actor())
	}
	return s
}

// StateKeys returns the keys the action declared, after checking that each
// carries a chunk suffix.
func (t *Transaction) StateKeys() (state.Keys, error) {
	if t.stateKeys != nil {
		return t.stateKeys, nil
	}
	stateKeys := make(state.Keys)
	for k, v := range t.Action.StateKeys() {
		if !keys.Valid([]byte(k)) {
			return nil, ErrInvalidKeyValue
		}
		// [Add] will take the union of key permissions
		stateKeys.Add(k, v)
	}

	// Cache keys if called again
	t.stateKeys = stateKeys
	return stateKeys, nil
}

func (t *Transaction) Marshal(p *codec.Packer) error {
	if len(t.bytes) > 0 {
		p.PackFixedBytes(t.bytes)
		return p.Err()
	}
	if len(t.Auths) > int(consts.MaxUint8) {
		return ErrTooManySigners
	}
	t.Base.Marshal(p)
	p.PackByte(t.Action.GetTypeID())
	t.Action.Marshal(p)
	p.PackByte(uint8(len(t.Auths)))
	for _, auth := range t.Auths {
		p.PackByte(auth.GetTypeID())
		auth.Marshal(p)
	}
	return p.Err()
}

func UnmarshalTx(
	p *codec.Packer,
	actionRegistry *codec.TypeParser[Action],
	authRegistry *codec.TypeParser[Auth],
) (*Transaction, error) {
	start := p.Offset()
	base, err := UnmarshalBase(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal base", err)
	}
	action, err := actionRegistry.Unmarshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal action", err)
	}
	digest := p.Offset()
	authCount := int(p.UnpackByte())
	auths := make([]Auth, 0, authCount)
	for i := 0; i < authCount; i++ {
		auth, err := authRegistry.Unmarshal(p)
		if err != nil {
			return nil, fmt.Errorf("%w: could not unmarshal auth %d", err, i)
		}
		auths = append(auths, auth)
	}
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: could not unmarshal transaction", err)
	}

	var tx Transaction
	tx.Base = base
	tx.Action = action
	tx.Auths = auths
	codecBytes := p.Bytes()
	tx.digest = codecBytes[start:digest]
	tx.bytes = codecBytes[start:p.Offset()] // ensure errors handled before grabbing memory
	tx.size = len(tx.bytes)
	tx.id = utils.ToID(tx.bytes)
	return &tx, nil
}

// ParseTx decodes a single transaction and rejects trailing bytes.
func ParseTx(
	b []byte,
	actionRegistry *codec.TypeParser[Action],
	authRegistry *codec.TypeParser[Auth],
) (*Transaction, error) {
	p := codec.NewReader(b, consts.NetworkSizeLimit)
	tx, err := UnmarshalTx(p, actionRegistry, authRegistry)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: remaining=%d", ErrInvalidObject, len(b)-p.Offset())
	}
	return tx, nil
}
