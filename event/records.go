// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/storage"
)

// Note: Registry will error during initialization if a duplicate ID is
// assigned. We explicitly assign IDs to avoid accidental remapping.
const (
	FundInitializedID uint8 = iota
	DonationMadeID
	WithdrawalRequestedID
	WithdrawalExecutedID
	DepositID
	WithdrawID
	ToggleLockID
)

// Record is a structured description of one committed state change.
type Record interface {
	GetTypeID() uint8
	EventName() string
	Size() int
	Marshal(p *codec.Packer)
}

var (
	_ Record = (*FundInitialized)(nil)
	_ Record = (*DonationMade)(nil)
	_ Record = (*WithdrawalRequested)(nil)
	_ Record = (*WithdrawalExecuted)(nil)
	_ Record = (*Deposit)(nil)
	_ Record = (*Withdraw)(nil)
	_ Record = (*ToggleLock)(nil)
)

type FundInitialized struct {
	Fund    codec.Address `json:"fund"`
	Creator codec.Address `json:"creator"`
	Name    string        `json:"name"`
}

func (*FundInitialized) GetTypeID() uint8 { return FundInitializedID }

func (*FundInitialized) EventName() string { return "FundInitialized" }

func (e *FundInitialized) Size() int {
	return codec.AddressLen*2 + codec.StringLen(e.Name)
}

func (e *FundInitialized) Marshal(p *codec.Packer) {
	p.PackAddress(e.Fund)
	p.PackAddress(e.Creator)
	p.PackString(e.Name)
}

func UnmarshalFundInitialized(p *codec.Packer) (Record, error) {
	var e FundInitialized
	p.UnpackAddress(&e.Fund)
	p.UnpackAddress(&e.Creator)
	e.Name = p.UnpackString(storage.MaxNameLen, false)
	return &e, p.Err()
}

type DonationMade struct {
	Fund      codec.Address `json:"fund"`
	Donor     codec.Address `json:"donor"`
	Amount    uint64        `json:"amount"`
	Timestamp int64         `json:"timestamp"`
}

func (*DonationMade) GetTypeID() uint8 { return DonationMadeID }

func (*DonationMade) EventName() string { return "DonationMade" }

func (*DonationMade) Size() int {
	return codec.AddressLen*2 + consts.Uint64Len + consts.Int64Len
}

func (e *DonationMade) Marshal(p *codec.Packer) {
	p.PackAddress(e.Fund)
	p.PackAddress(e.Donor)
	p.PackUint64(e.Amount)
	p.PackInt64(e.Timestamp)
}

func UnmarshalDonationMade(p *codec.Packer) (Record, error) {
	var e DonationMade
	p.UnpackAddress(&e.Fund)
	p.UnpackAddress(&e.Donor)
	e.Amount = p.UnpackUint64(true)
	e.Timestamp = p.UnpackInt64(false)
	return &e, p.Err()
}

type WithdrawalRequested struct {
	Fund      codec.Address `json:"fund"`
	Request   codec.Address `json:"request"`
	ID        uint64        `json:"id"`
	Amount    uint64        `json:"amount"`
	Recipient codec.Address `json:"recipient"`
	CreatedBy codec.Address `json:"createdBy"`
	Timestamp int64         `json:"timestamp"`
}

func (*WithdrawalRequested) GetTypeID() uint8 { return WithdrawalRequestedID }

func (*WithdrawalRequested) EventName() string { return "WithdrawalRequested" }

func (*WithdrawalRequested) Size() int {
	return codec.AddressLen*4 + consts.Uint64Len*2 + consts.Int64Len
}

func (e *WithdrawalRequested) Marshal(p *codec.Packer) {
	p.PackAddress(e.Fund)
	p.PackAddress(e.Request)
	p.PackUint64(e.ID)
	p.PackUint64(e.Amount)
	p.PackAddress(e.Recipient)
	p.PackAddress(e.CreatedBy)
	p.PackInt64(e.Timestamp)
}

func UnmarshalWithdrawalRequested(p *codec.Packer) (Record, error) {
	var e WithdrawalRequested
	p.UnpackAddress(&e.Fund)
	p.UnpackAddress(&e.Request)
	e.ID = p.UnpackUint64(false)
	e.Amount = p.UnpackUint64(true)
	p.UnpackAddress(&e.Recipient)
	p.UnpackAddress(&e.CreatedBy)
	e.Timestamp = p.UnpackInt64(false)
	return &e, p.Err()
}

type WithdrawalExecuted struct {
	Fund       codec.Address `json:"fund"`
	Request    codec.Address `json:"request"`
	ID         uint64        `json:"id"`
	Amount     uint64        `json:"amount"`
	Recipient  codec.Address `json:"recipient"`
	ExecutedBy codec.Address `json:"executedBy"`
	Timestamp  int64         `json:"timestamp"`
}

func (*WithdrawalExecuted) GetTypeID() uint8 { return WithdrawalExecutedID }

func (*WithdrawalExecuted) EventName() string { return "WithdrawalExecuted" }

func (*WithdrawalExecuted) Size() int {
	return codec.AddressLen*4 + consts.Uint64Len*2 + consts.Int64Len
}

func (e *WithdrawalExecuted) Marshal(p *codec.Packer) {
	p.PackAddress(e.Fund)
	p.PackAddress(e.Request)
	p.PackUint64(e.ID)
	p.PackUint64(e.Amount)
	p.PackAddress(e.Recipient)
	p.PackAddress(e.ExecutedBy)
	p.PackInt64(e.Timestamp)
}

func UnmarshalWithdrawalExecuted(p *codec.Packer) (Record, error) {
	var e WithdrawalExecuted
	p.UnpackAddress(&e.Fund)
	p.UnpackAddress(&e.Request)
	e.ID = p.UnpackUint64(false)
	e.Amount = p.UnpackUint64(true)
	p.UnpackAddress(&e.Recipient)
	p.UnpackAddress(&e.ExecutedBy)
	e.Timestamp = p.UnpackInt64(false)
	return &e, p.Err()
}

type Deposit struct {
	Vault  codec.Address `json:"vault"`
	User   codec.Address `json:"user"`
	Amount uint64        `json:"amount"`
}

func (*Deposit) GetTypeID() uint8 { return DepositID }

func (*Deposit) EventName() string { return "DepositEvent" }

func (*Deposit) Size() int {
	return codec.AddressLen*2 + consts.Uint64Len
}

func (e *Deposit) Marshal(p *codec.Packer) {
	p.PackAddress(e.Vault)
	p.PackAddress(e.User)
	p.PackUint64(e.Amount)
}

func UnmarshalDeposit(p *codec.Packer) (Record, error) {
	var e Deposit
	p.UnpackAddress(&e.Vault)
	p.UnpackAddress(&e.User)
	e.Amount = p.UnpackUint64(true)
	return &e, p.Err()
}

type Withdraw struct {
	Vault          codec.Address `json:"vault"`
	VaultAuthority codec.Address `json:"vaultAuthority"`
	Amount         uint64        `json:"amount"`
}

func (*Withdraw) GetTypeID() uint8 { return WithdrawID }

func (*Withdraw) EventName() string { return "WithdrawEvent" }

func (*Withdraw) Size() int {
	return codec.AddressLen*2 + consts.Uint64Len
}

func (e *Withdraw) Marshal(p *codec.Packer) {
	p.PackAddress(e.Vault)
	p.PackAddress(e.VaultAuthority)
	p.PackUint64(e.Amount)
}

func UnmarshalWithdraw(p *codec.Packer) (Record, error) {
	var e Withdraw
	p.UnpackAddress(&e.Vault)
	p.UnpackAddress(&e.VaultAuthority)
	e.Amount = p.UnpackUint64(true)
	return &e, p.Err()
}

type ToggleLock struct {
	Vault          codec.Address `json:"vault"`
	VaultAuthority codec.Address `json:"vaultAuthority"`
	Locked         bool          `json:"locked"`
}

func (*ToggleLock) GetTypeID() uint8 { return ToggleLockID }

func (*ToggleLock) EventName() string { return "ToggleLockEvent" }

func (*ToggleLock) Size() int {
	return codec.AddressLen*2 + consts.BoolLen
}

func (e *ToggleLock) Marshal(p *codec.Packer) {
	p.PackAddress(e.Vault)
	p.PackAddress(e.VaultAuthority)
	p.PackBool(e.Locked)
}

func UnmarshalToggleLock(p *codec.Packer) (Record, error) {
	var e ToggleLock
	p.UnpackAddress(&e.Vault)
	p.UnpackAddress(&e.VaultAuthority)
	e.Locked = p.UnpackBool()
	return &e, p.Err()
}
