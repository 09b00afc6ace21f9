// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/custodyvm/auth"
	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/storage"
)

var _ chain.Action = (*ToggleLock)(nil)

type ToggleLock struct {
	Vault     codec.Address `json:"vault"`
	Authority codec.Address `json:"authority"`
}

func (*ToggleLock) GetTypeID() uint8 {
	return ToggleLockID
}

func (t *ToggleLock) StateKeys() state.Keys {
	return state.Keys{
		string(storage.VaultKey(t.Vault)): state.Read | state.Write,
	}
}

func (t *ToggleLock) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	signers set.Set[codec.Address],
) ([]event.Record, error) {
	v, err := loadVault(ctx, mu, t.Vault)
	if err != nil {
		return nil, err
	}
	if err := auth.Check(signers, t.Authority, v.Authority); err != nil {
		return nil, err
	}
	v.Locked = !v.Locked
	if err := storage.SetVault(ctx, mu, t.Vault, v); err != nil {
		return nil, err
	}
	return []event.Record{&event.ToggleLock{
		Vault:          t.Vault,
		VaultAuthority: t.Authority,
		Locked:         v.Locked,
	}}, nil
}

func (*ToggleLock) Size() int {
	return codec.AddressLen * 2
}

func (t *ToggleLock) Marshal(p *codec.Packer) {
	p.PackAddress(t.Vault)
	p.PackAddress(t.Authority)
}

func UnmarshalToggleLock(p *codec.Packer) (chain.Action, error) {
	var t ToggleLock
	p.UnpackAddress(&t.Vault)
	p.UnpackAddress(&t.Authority)
	return &t, p.Err()
}
