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

var _ chain.Action = (*InitializeFund)(nil)

type InitializeFund struct {
	// Creator owns the fund and is the only party that may move value out of
	// it.
	Creator codec.Address `json:"creator"`

	// Fund must be derive.Fund(Creator, derive.CanonicalBump).
	Fund codec.Address `json:"fund"`
	Bump uint8         `json:"bump"`

	Name        string `json:"name"`
	Description string `json:"description"`
}

func (*InitializeFund) GetTypeID() uint8 {
	return InitializeFundID
}

func (i *InitializeFund) StateKeys() state.Keys {
	return state.Keys{
		string(storage.FundKey(i.Fund)): state.All,
	}
}

func (i *InitializeFund) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	signers set.Set[codec.Address],
) ([]event.Record, error) {
	if len(i.Name) > MaxNameLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(i.Name))
	}
	if len(i.Description) > MaxDescriptionLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrDescriptionTooLong, len(i.Description))
	}
	if err := auth.Signed(signers, i.Creator); err != nil {
		return nil, err
	}
	if err := derive.CheckCanonical(i.Fund, derive.FundNamespace, derive.FundSeeds(i.Creator), i.Bump); err != nil {
		return nil, err
	}
	exists, err := storage.Exists(ctx, mu, storage.FundKey(i.Fund))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: fund %s", ErrAlreadyExists, i.Fund)
	}
	if err := storage.SetFund(ctx, mu, i.Fund, &storage.Fund{
		Creator:     i.Creator,
		Name:        i.Name,
		Description: i.Description,
		Bump:        i.Bump,
	}); err != nil {
		return nil, err
	}
	return []event.Record{&event.FundInitialized{
		Fund:    i.Fund,
		Creator: i.Creator,
		Name:    i.Name,
	}}, nil
}

func (i *InitializeFund) Size() int {
	return codec.AddressLen*2 + consts.Uint8Len + codec.StringLen(i.Name) + codec.StringLen(i.Description)
}

func (i *InitializeFund) Marshal(p *codec.Packer) {
	p.PackAddress(i.Creator)
	p.PackAddress(i.Fund)
	p.PackByte(i.Bump)
	p.PackString(i.Name)
	p.PackString(i.Description)
}

func UnmarshalInitializeFund(p *codec.Packer) (chain.Action, error) {
	var i InitializeFund
	p.UnpackAddress(&i.Creator)
	p.UnpackAddress(&i.Fund)
	i.Bump = p.UnpackByte()
	// Bounds are enforced during execution so oversized metadata surfaces as
	// a typed error instead of a decoding failure.
	i.Name = p.UnpackString(-1, false)
	i.Description = p.UnpackString(-1, false)
	return &i, p.Err()
}
