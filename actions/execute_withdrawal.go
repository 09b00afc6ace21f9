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
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/storage"
)

var _ chain.Action = (*ExecuteWithdrawal)(nil)

// ExecuteWithdrawal pays out a pending request. A request is executed at
// most once.
type ExecuteWithdrawal struct {
	Fund       codec.Address `json:"fund"`
	Request    codec.Address `json:"request"`
	Maintainer codec.Address `json:"maintainer"`

	// Recipient is credited with the request amount. Unless the rules disable
	// it, Recipient must equal the recipient recorded on the request.
	Recipient codec.Address `json:"recipient"`
}

func (*ExecuteWithdrawal) GetTypeID() uint8 {
	return ExecuteWithdrawalID
}

func (e *ExecuteWithdrawal) StateKeys() state.Keys {
	return state.Keys{
		string(storage.FundKey(e.Fund)):          state.Read,
		string(storage.RequestKey(e.Request)):    state.Read | state.Write,
		string(storage.BalanceKey(e.Fund)):       state.Read | state.Write,
		string(storage.BalanceKey(e.Recipient)): state.All,
	}
}

func (e *ExecuteWithdrawal) Execute(
	ctx context.Context,
	r chain.Rules,
	mu state.Mutable,
	timestamp int64,
	signers set.Set[codec.Address],
) ([]event.Record, error) {
	f, err := loadFund(ctx, mu, e.Fund)
	if err != nil {
		return nil, err
	}
	if err := auth.Check(signers, e.Maintainer, f.Creator); err != nil {
		return nil, err
	}
	req, err := loadRequest(ctx, mu, e.Fund, e.Request)
	if err != nil {
		return nil, err
	}
	if req.Executed {
		return nil, fmt.Errorf("%w: request %d", ErrAlreadyExecuted, req.ID)
	}
	if req.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	if r.EnforceRequestRecipient() && e.Recipient != req.Recipient {
		return nil, fmt.Errorf("%w: expected %s got %s", ErrRecipientMismatch, req.Recipient, e.Recipient)
	}
	bal, err := storage.GetBalance(ctx, mu, e.Fund)
	if err != nil {
		return nil, err
	}
	if bal < req.Amount {
		return nil, fmt.Errorf("%w: balance %d < amount %d", ErrInsufficientFunds, bal, req.Amount)
	}
	if err := storage.Transfer(ctx, mu, e.Fund, e.Recipient, req.Amount); err != nil {
		return nil, err
	}
	req.Executed = true
	if err := storage.SetRequest(ctx, mu, e.Request, req); err != nil {
		return nil, err
	}
	return []event.Record{&event.WithdrawalExecuted{
		Fund:       e.Fund,
		Request:    e.Request,
		ID:         req.ID,
		Amount:     req.Amount,
		Recipient:  e.Recipient,
		ExecutedBy: e.Maintainer,
		Timestamp:  unixSeconds(timestamp),
	}}, nil
}

func (*ExecuteWithdrawal) Size() int {
	return codec.AddressLen * 4
}

func (e *ExecuteWithdrawal) Marshal(p *codec.Packer) {
	p.PackAddress(e.Fund)
	p.PackAddress(e.Request)
	p.PackAddress(e.Maintainer)
	p.PackAddress(e.Recipient)
}

func UnmarshalExecuteWithdrawal(p *codec.Packer) (chain.Action, error) {
	var e ExecuteWithdrawal
	p.UnpackAddress(&e.Fund)
	p.UnpackAddress(&e.Request)
	p.UnpackAddress(&e.Maintainer)
	p.UnpackAddress(&e.Recipient)
	return &e, p.Err()
}
