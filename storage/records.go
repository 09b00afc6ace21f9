// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/keys"
	"github.com/ava-labs/custodyvm/state"
)

const (
	MaxNameLen        = 64
	MaxDescriptionLen = 256
	MaxReasonLen      = 256
)

// Records are padded to their maximum size so every account of a kind has
// the same on-disk layout.
const (
	FundSize = codec.AddressLen +
		consts.IntLen + MaxNameLen +
		consts.IntLen + MaxDescriptionLen +
		consts.Uint64Len*3 +
		consts.Uint8Len

	RequestSize = consts.Uint64Len +
		codec.AddressLen +
		consts.Uint64Len +
		codec.AddressLen +
		consts.IntLen + MaxReasonLen +
		codec.AddressLen +
		consts.BoolLen +
		consts.Uint8Len

	VaultSize = codec.AddressLen + consts.BoolLen + consts.Uint8Len
)

var (
	FundChunks    = mustChunks(FundSize)
	RequestChunks = mustChunks(RequestSize)
	VaultChunks   = mustChunks(VaultSize)
)

func mustChunks(size int) uint16 {
	c, ok := keys.ChunksFor(size)
	if !ok {
		panic(fmt.Sprintf("record of %d bytes does not fit in a state key", size))
	}
	return c
}

type Fund struct {
	Creator        codec.Address `json:"creator"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	TotalDonations uint64        `json:"totalDonations"`
	DonationCount  uint64        `json:"donationCount"`
	RequestCount   uint64        `json:"requestCount"`
	Bump           uint8         `json:"bump"`
}

func (f *Fund) Marshal() ([]byte, error) {
	if len(f.Name) > MaxNameLen || len(f.Description) > MaxDescriptionLen {
		return nil, fmt.Errorf("%w: fund metadata exceeds bounds", ErrInvalidRecord)
	}
	p := codec.NewWriter(FundSize, FundSize)
	p.PackAddress(f.Creator)
	p.PackString(f.Name)
	p.PackString(f.Description)
	p.PackUint64(f.TotalDonations)
	p.PackUint64(f.DonationCount)
	p.PackUint64(f.RequestCount)
	p.PackByte(f.Bump)
	return pad(p, FundSize)
}

func UnmarshalFund(b []byte) (*Fund, error) {
	if len(b) != FundSize {
		return nil, fmt.Errorf("%w: fund has %d bytes", ErrInvalidRecord, len(b))
	}
	p := codec.NewReader(b, FundSize)
	var f Fund
	p.UnpackAddress(&f.Creator)
	f.Name = p.UnpackString(MaxNameLen, false)
	f.Description = p.UnpackString(MaxDescriptionLen, false)
	f.TotalDonations = p.UnpackUint64(false)
	f.DonationCount = p.UnpackUint64(false)
	f.RequestCount = p.UnpackUint64(false)
	f.Bump = p.UnpackByte()
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return &f, nil
}

type Request struct {
	ID        uint64        `json:"id"`
	Fund      codec.Address `json:"fund"`
	Amount    uint64        `json:"amount"`
	Recipient codec.Address `json:"recipient"`
	Reason    string        `json:"reason"`
	CreatedBy codec.Address `json:"createdBy"`
	Executed  bool          `json:"executed"`
	Bump      uint8         `json:"bump"`
}

func (r *Request) Marshal() ([]byte, error) {
	if len(r.Reason) > MaxReasonLen {
		return nil, fmt.Errorf("%w: reason exceeds bounds", ErrInvalidRecord)
	}
	p := codec.NewWriter(RequestSize, RequestSize)
	p.PackUint64(r.ID)
	p.PackAddress(r.Fund)
	p.PackUint64(r.Amount)
	p.PackAddress(r.Recipient)
	p.PackString(r.Reason)
	p.PackAddress(r.CreatedBy)
	p.PackBool(r.Executed)
	p.PackByte(r.Bump)
	return pad(p, RequestSize)
}

func UnmarshalRequest(b []byte) (*Request, error) {
	if len(b) != RequestSize {
		return nil, fmt.Errorf("%w: request has %d bytes", ErrInvalidRecord, len(b))
	}
	p := codec.NewReader(b, RequestSize)
	var r Request
	r.ID = p.UnpackUint64(false)
	p.UnpackAddress(&r.Fund)
	r.Amount = p.UnpackUint64(false)
	p.UnpackAddress(&r.Recipient)
	r.Reason = p.UnpackString(MaxReasonLen, false)
	p.UnpackAddress(&r.CreatedBy)
	r.Executed = p.UnpackBool()
	r.Bump = p.UnpackByte()
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return &r, nil
}

type Vault struct {
	Authority codec.Address `json:"authority"`
	Locked    bool          `json:"locked"`
	Bump      uint8         `json:"bump"`
}

func (v *Vault) Marshal() ([]byte, error) {
	p := codec.NewWriter(VaultSize, VaultSize)
	p.PackAddress(v.Authority)
	p.PackBool(v.Locked)
	p.PackByte(v.Bump)
	return pad(p, VaultSize)
}

func UnmarshalVault(b []byte) (*Vault, error) {
	if len(b) != VaultSize {
		return nil, fmt.Errorf("%w: vault has %d bytes", ErrInvalidRecord, len(b))
	}
	p := codec.NewReader(b, VaultSize)
	var v Vault
	p.UnpackAddress(&v.Authority)
	v.Locked = p.UnpackBool()
	v.Bump = p.UnpackByte()
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return &v, nil
}

func pad(p *codec.Packer, size int) ([]byte, error) {
	if err := p.Err(); err != nil {
		return nil, err
	}
	b := p.Bytes()
	if len(b) > size {
		return nil, fmt.Errorf("%w: encoded %d bytes, max %d", ErrInvalidRecord, len(b), size)
	}
	return append(b, make([]byte, size-len(b))...), nil
}

// GetFund returns the fund stored at [fund] or false if none exists.
func GetFund(ctx context.Context, im state.Immutable, fund codec.Address) (*Fund, bool, error) {
	v, err := im.GetValue(ctx, FundKey(fund))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	f, err := UnmarshalFund(v)
	return f, err == nil, err
}

func SetFund(ctx context.Context, mu state.Mutable, fund codec.Address, f *Fund) error {
	v, err := f.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, FundKey(fund), v)
}

func GetRequest(ctx context.Context, im state.Immutable, request codec.Address) (*Request, bool, error) {
	v, err := im.GetValue(ctx, RequestKey(request))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	r, err := UnmarshalRequest(v)
	return r, err == nil, err
}

func SetRequest(ctx context.Context, mu state.Mutable, request codec.Address, r *Request) error {
	v, err := r.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, RequestKey(request), v)
}

func GetVault(ctx context.Context, im state.Immutable, vault codec.Address) (*Vault, bool, error) {
	v, err := im.GetValue(ctx, VaultKey(vault))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	r, err := UnmarshalVault(v)
	return r, err == nil, err
}

func SetVault(ctx context.Context, mu state.Mutable, vault codec.Address, v *Vault) error {
	b, err := v.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, VaultKey(vault), b)
}
