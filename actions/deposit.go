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
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/storage"
)

var _ chain.Action = (*Deposit)(nil)

// Deposit moves native units from any user into an unlocked vault.
type Deposit struct {
	Vault  codec.Address `json:"vault"`
	User   codec.Address `json:"user"`
	Amount uint64        `json:"amount"`
}

func (*Deposit) GetTypeID() uint8 {
	return DepositID
}

func (d *Deposit) StateKeys() state.Keys {
	return state.Keys{
		string(storage.VaultKey(d.Vault)):    state.Read,
		string(storage.BalanceKey(d.User)):  state.Read | state.Write,
		string(storage.BalanceKey(d.Vault)): state.All,
	}
}

func (d *Deposit) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	signers set.Set[codec.Address],
) ([]event.Record, error) {
	if err := auth.Signed(signers, d.User); err != nil {
		return nil, err
	}
	v, err := loadVault(ctx, mu, d.Vault)
	if err != nil {
		return nil, err
	}
	if v.Locked {
		return nil, ErrVaultLocked
	}
	bal, err := storage.GetBalance(ctx, mu, d.User)
	if err != nil {
		return nil, err
	}
	if bal < d.Amount {
		return nil, fmt.Errorf("%w: balance %d < amount %d", ErrInsufficientBalance, bal, d.Amount)
	}
	if err := storage.Transfer(ctx, mu, d.User, d.Vault, d.Amount); err != nil {
		return nil, err
	}
	return []event.Record{&event.Deposit{
		Vault:  d.Vault,
		User:   d.User,
		Amount: d.Amount,
	}}, nil
}

func (*Deposit) Size() int {
	return codec.AddressLen*2 + consts.Uint64Len
}

func (d *Deposit) Marshal(p *codec.Packer) {
	p.PackAddress(d.Vault)
	p.PackAddress(d.User)
	p.PackUint64(d.Amount)
}

func UnmarshalDeposit(p *codec.Packer) (chain.Action, error) {
	var d Deposit
	p.UnpackAddress(&d.Vault)
	p.UnpackAddress(&d.User)
	d.Amount = p.UnpackUint64(false)
	return &d, p.Err()
}
