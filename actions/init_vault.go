// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/custodyvm/auth"
	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/derive"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/storage"
)

var _ chain.Action = (*InitVault)(nil)

type InitVault struct {
	Authority codec.Address `json:"authority"`

	// Vault must be derive.Vault(Authority, derive.CanonicalBump).
	Vault codec.Address `json:"vault"`
	Bump  uint8         `json:"bump"`

	Locked bool `json:"locked"`
}

func (*InitVault) GetTypeID() uint8 {
	return InitVaultID
}

func (i *InitVault) StateKeys() state.Keys {
	return state.Keys{
		string(storage.VaultKey(i.Vault)): state.All,
	}
}

func (i *InitVault) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	signers set.Set[codec.Address],
) ([]event.Record, error) {
	if err := auth.Signed(signers, i.Authority); err != nil {
		return nil, err
	}
	if err := derive.CheckCanonical(i.Vault, derive.VaultNamespace, derive.VaultSeeds(i.Authority), i.Bump); err != nil {
		return nil, err
	}
	exists, err := storage.Exists(ctx, mu, storage.VaultKey(i.Vault))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: vault %s", ErrAlreadyExists, i.Vault)
	}
	return nil, storage.SetVault(ctx, mu, i.Vault, &storage.Vault{
		Authority: i.Authority,
		Locked:    i.Locked,
		Bump:      i.Bump,
	})
}

func (*InitVault) Size() int {
	return codec.AddressLen*2 + consts.Uint8Len + consts.BoolLen
}

func (i *InitVault) Marshal(p *codec.Packer) {
	p.PackAddress(i.Authority)
	p.PackAddress(i.Vault)
	p.PackByte(i.Bump)
	p.PackBool(i.Locked)
}

func UnmarshalInitVault(p *codec.Packer) (chain.Action, error) {
	var i InitVault
	p.UnpackAddress(&i.Authority)
	p.UnpackAddress(&i.Vault)
	i.Bump = p.UnpackByte()
	i.Locked = p.UnpackBool()
	return &i, p.Err()
}
