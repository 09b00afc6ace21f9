// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
)

// MaxEntrySize bounds an encoded entry.
const MaxEntrySize = 1024

var Parser = codec.NewTypeParser[Record]()

func init() {
	for id, f := range map[uint8]func(*codec.Packer) (Record, error){
		FundInitializedID:     UnmarshalFundInitialized,
		DonationMadeID:        UnmarshalDonationMade,
		WithdrawalRequestedID: UnmarshalWithdrawalRequested,
		WithdrawalExecutedID:  UnmarshalWithdrawalExecuted,
		DepositID:             UnmarshalDeposit,
		WithdrawID:            UnmarshalWithdraw,
		ToggleLockID:          UnmarshalToggleLock,
	} {
		if err := Parser.Register(id, f); err != nil {
			panic(err)
		}
	}
}

// Entry is a Record together with the transaction that produced it. Seq is
// assigned when the entry is archived.
type Entry struct {
	Seq       uint64 `json:"seq"`
	TxID      ids.ID `json:"txID"`
	Timestamp int64  `json:"timestamp"`
	Record    Record `json:"-"`
}

func (e *Entry) Size() int {
	return consts.Uint64Len + consts.IDLen + consts.Int64Len + consts.ByteLen + e.Record.Size()
}

func (e *Entry) Marshal() ([]byte, error) {
	p := codec.NewWriter(e.Size(), MaxEntrySize)
	p.PackUint64(e.Seq)
	p.PackID(e.TxID)
	p.PackInt64(e.Timestamp)
	p.PackByte(e.Record.GetTypeID())
	e.Record.Marshal(p)
	return p.Bytes(), p.Err()
}

func UnmarshalEntry(b []byte) (*Entry, error) {
	p := codec.NewReader(b, MaxEntrySize)
	var e Entry
	e.Seq = p.UnpackUint64(false)
	p.UnpackID(true, &e.TxID)
	e.Timestamp = p.UnpackInt64(false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	r, err := Parser.Unmarshal(p)
	if err != nil {
		return nil, err
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: %d trailing bytes", codec.ErrInvalidSize, len(b)-p.Offset())
	}
	e.Record = r
	return &e, nil
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	type alias Entry
	return json.Marshal(&struct {
		*alias
		Type string `json:"type"`
		Data Record `json:"data"`
	}{
		alias: (*alias)(e),
		Type:  e.Record.EventName(),
		Data:  e.Record,
	})
}

var recordsByName = map[string]func() Record{
	(&FundInitialized{}).EventName():     func() Record { return &FundInitialized{} },
	(&DonationMade{}).EventName():        func() Record { return &DonationMade{} },
	(&WithdrawalRequested{}).EventName(): func() Record { return &WithdrawalRequested{} },
	(&WithdrawalExecuted{}).EventName():  func() Record { return &WithdrawalExecuted{} },
	(&Deposit{}).EventName():             func() Record { return &Deposit{} },
	(&Withdraw{}).EventName():            func() Record { return &Withdraw{} },
	(&ToggleLock{}).EventName():          func() Record { return &ToggleLock{} },
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	type alias Entry
	var raw struct {
		*alias
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	raw.alias = (*alias)(e)
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f, ok := recordsByName[raw.Type]
	if !ok {
		return fmt.Errorf("%w: record %q", codec.ErrUnknownType, raw.Type)
	}
	r := f()
	if err := json.Unmarshal(raw.Data, r); err != nil {
		return err
	}
	e.Record = r
	return nil
}
