// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"
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

var _ chain.Action = (*CreateWithdrawalRequest)(nil)

// CreateWithdrawalRequest records an intent to pay [Amount] out of a fund.
// The request is assigned the fund's next sequence number and stored at
// derive.Request(Fund, id, derive.CanonicalBump).
type CreateWithdrawalRequest struct {
	Fund       codec.Address `json:"fund"`
	Maintainer codec.Address `json:"maintainer"`

	Request     codec.Address `json:"request"`
	RequestBump uint8         `json:"requestBump"`

	Amount    uint64        `json:"amount"`
	Recipient codec.Address `json:"recipient"`
	Reason    string        `json:"reason"`
}

func (*CreateWithdrawalRequest) GetTypeID() uint8 {
	return CreateWithdrawalRequestID
}

func (c *CreateWithdrawalRequest) StateKeys() state.Keys {
	return state.Keys{
		string(storage.FundKey(c.Fund)):       state.Read | state.Write,
		string(storage.RequestKey(c.Request)): state.All,
	}
}

func (c *CreateWithdrawalRequest) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	timestamp int64,
	signers set.Set[codec.Address],
) ([]event.Record, error) {
	if c.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	if len(c.Reason) > MaxReasonLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrReasonTooLong, len(c.Reason))
	}
	f, err := loadFund(ctx, mu, c.Fund)
	if err != nil {
		return nil, err
	}
	if err := auth.Check(signers, c.Maintainer, f.Creator); err != nil {
		return nil, err
	}
	id := f.RequestCount
	if err := derive.CheckCanonical(c.Request, derive.RequestNamespace, derive.RequestSeeds(c.Fund, id), c.RequestBump); err != nil {
		return nil, err
	}
	exists, err := storage.Exists(ctx, mu, storage.RequestKey(c.Request))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: request %s", ErrAlreadyExists, c.Request)
	}
	f.RequestCount, err = smath.Add(f.RequestCount, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: request count", ErrOverflow)
	}
	if err := storage.SetRequest(ctx, mu, c.Request, &storage.Request{
		ID:        id,
		Fund:      c.Fund,
		Amount:    c.Amount,
		Recipient: c.Recipient,
		Reason:    c.Reason,
		CreatedBy: c.Maintainer,
		Bump:      c.RequestBump,
	}); err != nil {
		return nil, err
	}
	if err := storage.SetFund(ctx, mu, c.Fund, f); err != nil {
		return nil, err
	}
	return []event.Record{&event.WithdrawalRequested{
		Fund:      c.Fund,
		Request:   c.Request,
		ID:        id,
		Amount:    c.Amount,
		Recipient: c.Recipient,
		CreatedBy: c.Maintainer,
		Timestamp: unixSeconds(timestamp),
	}}, nil
}

func (c *CreateWithdrawalRequest) Size() int {
	return codec.AddressLen*4 + consts.Uint8Len + consts.Uint64Len + codec.StringLen(c.Reason)
}

func (c *CreateWithdrawalRequest) Marshal(p *codec.Packer) {
	p.PackAddress(c.Fund)
	p.PackAddress(c.Maintainer)
	p.PackAddress(c.Request)
	p.PackByte(c.RequestBump)
	p.PackUint64(c.Amount)
	p.PackAddress(c.Recipient)
	p.PackString(c.Reason)
}

func UnmarshalCreateWithdrawalRequest(p *codec.Packer) (chain.Action, error) {
	var c CreateWithdrawalRequest
	p.UnpackAddress(&c.Fund)
	p.UnpackAddress(&c.Maintainer)
	p.UnpackAddress(&c.Request)
	c.RequestBump = p.UnpackByte()
	c.Amount = p.UnpackUint64(false)
	p.UnpackAddress(&c.Recipient)
	c.Reason = p.UnpackString(-1, false)
	return &c, p.Err()
}
