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
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/storage"
)

var _ chain.Action = (*Donate)(nil)

// Donate moves native units from any donor into a fund.
type Donate struct {
	Fund   codec.Address `json:"fund"`
	Donor  codec.Address `json:"donor"`
	Amount uint64        `json:"amount"`
}

func (*Donate) GetTypeID() uint8 {
	return DonateID
}

func (d *Donate) StateKeys() state.Keys {
	return state.Keys{
		string(storage.FundKey(d.Fund)):     state.Read | state.Write,
		string(storage.BalanceKey(d.Donor)): state.Read | state.Write,
		string(storage.BalanceKey(d.Fund)):  state.All,
	}
}

func (d *Donate) Execute(
	ctx context.Context,
	_ chain.Rules,
	mu state.Mutable,
	timestamp int64,
	signers set.Set[codec.Address],
) ([]event.Record, error) {
	if d.Amount == 0 {
		return nil, ErrInvalidAmount
	}
	// Only the donor can authorize spending its balance.
	if err := auth.Signed(signers, d.Donor); err != nil {
		return nil, err
	}
	f, err := loadFund(ctx, mu, d.Fund)
	if err != nil {
		return nil, err
	}
	totalDonations, err := smath.Add(f.TotalDonations, d.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: total donations %d + %d", ErrOverflow, f.TotalDonations, d.Amount)
	}
	donationCount, err := smath.Add(f.DonationCount, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: donation count", ErrOverflow)
	}
	if err := storage.Transfer(ctx, mu, d.Donor, d.Fund, d.Amount); err != nil {
		return nil, err
	}
	f.TotalDonations = totalDonations
	f.DonationCount = donationCount
	if err := storage.SetFund(ctx, mu, d.Fund, f); err != nil {
		return nil, err
	}
	return []event.Record{&event.DonationMade{
		Fund:      d.Fund,
		Donor:     d.Donor,
		Amount:    d.Amount,
		Timestamp: unixSeconds(timestamp),
	}}, nil
}

func (*Donate) Size() int {
	return codec.AddressLen*2 + consts.Uint64Len
}

func (d *Donate) Marshal(p *codec.Packer) {
	p.PackAddress(d.Fund)
	p.PackAddress(d.Donor)
	p.PackUint64(d.Amount)
}

func UnmarshalDonate(p *codec.Packer) (chain.Action, error) {
	var d Donate
	p.UnpackAddress(&d.Fund)
	p.UnpackAddress(&d.Donor)
	d.Amount = p.UnpackUint64(false)
	return &d, p.Err()
}
