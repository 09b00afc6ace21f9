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

var _ chain.Action = (*Withdraw)(nil)

// Withdraw pays [Amount] from an unlocked vault to its authority.
type Withdraw struct {
	Vault     codec.Address `json:"vault"`
	Authority codec.Address `json:"authority"`
	Amount    uint64        `json:"amount"`
}

func (*Withdraw) GetTypeID() uint8 {
	return WithdrawID
}

func (w *Withdraw) StateKeys() state.Keys {
	return state.Keys{
		string(storage.VaultKey(w.Vault)):        state.Read,
		string(storage.BalanceKey(w.Vault)):     state.Read | state.Write,
		string(storage.BalanceKey(w.Authority)): state.All,
	}
}

func (w *Withdraw) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	_ int64,
	signers set.Set[codec.Address],
) ([]event.Record, error) {
	v, err := loadVault(ctx, mu, w.Vault)
	if err != nil {
		return nil, err
	}
	if err := auth.Check(signers, w.Authority, v.Authority); err != nil {
		return nil, err
	}
	if v.Locked {
		return nil, ErrVaultLocked
	}
	bal, err := storage.GetBalance(ctx, mu, w.Vault)
	if err != nil {
		return nil, err
	}
	if bal < w.Amount {
		return nil, fmt.Errorf("%w: vault balance %d < amount %d", ErrInsufficientBalance, bal, w.Amount)
	}
	if err := storage.Transfer(ctx, mu, w.Vault, w.Authority, w.Amount); err != nil {
		return nil, err
	}
	return []event.Record{&event.Withdraw{
		Vault:          w.Vault,
		VaultAuthority: w.Authority,
		Amount:         w.Amount,
	}}, nil
}

func (*Withdraw) Size() int {
	return codec.AddressLen*2 + consts.Uint64Len
}

func (w *Withdraw) Marshal(p *codec.Packer) {
	p.PackAddress(w.Vault)
	p.PackAddress(w.Authority)
	p.PackUint64(w.Amount)
}

func UnmarshalWithdraw(p *codec.Packer) (chain.Action, error) {
	var w Withdraw
	p.UnpackAddress(&w.Vault)
	p.UnpackAddress(&w.Authority)
	w.Amount = p.UnpackUint64(false)
	return &w, p.Err()
}
