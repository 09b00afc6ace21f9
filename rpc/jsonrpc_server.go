// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"go.uber.org/zap"

	"github.com/ava-labs/custodyvm/actions"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/derive"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/registry"
	"github.com/ava-labs/custodyvm/storage"
)

type JSONRPCServer struct {
	vm VM
}

func NewJSONRPCServer(vm VM) *JSONRPCServer {
	return &JSONRPCServer{vm}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	j.vm.Logger().Info("ping")
	reply.Success = true
	return nil
}

type NetworkReply struct {
	ChainID                 ids.ID `json:"chainId"`
	ValidityWindow          int64  `json:"validityWindow"`
	MaxSigners              int    `json:"maxSigners"`
	EnforceRequestRecipient bool   `json:"enforceRequestRecipient"`
}

func (j *JSONRPCServer) Network(_ *http.Request, _ *struct{}, reply *NetworkReply) error {
	r := j.vm.Rules()
	reply.ChainID = r.GetChainID()
	reply.ValidityWindow = r.GetValidityWindow()
	reply.MaxSigners = r.GetMaxSigners()
	reply.EnforceRequestRecipient = r.EnforceRequestRecipient()
	return nil
}

type SubmitTxArgs struct {
	Tx []byte `json:"tx"`
}

type SubmitTxReply struct {
	TxID      ids.ID         `json:"txId"`
	Timestamp int64          `json:"timestamp"`
	Entries   []*event.Entry `json:"entries"`
}

func (j *JSONRPCServer) SubmitTx(req *http.Request, args *SubmitTxArgs, reply *SubmitTxReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.SubmitTx")
	defer span.End()

	tx, err := registry.ParseTx(args.Tx)
	if err != nil {
		return fmt.Errorf("%w: unable to unmarshal on public service", err)
	}
	result, err := j.vm.Submit(ctx, tx)
	if err != nil {
		kind := actions.Kind(err)
		j.vm.Logger().Debug("rejected transaction",
			zap.Stringer("txID", tx.ID()),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w", kind, err)
	}
	reply.TxID = result.TxID
	reply.Timestamp = result.Timestamp
	reply.Entries = result.Entries
	return nil
}

type TxArgs struct {
	TxID ids.ID `json:"txId"`
}

type TxReply struct {
	Found     bool  `json:"found"`
	Timestamp int64 `json:"timestamp"`
	Success   bool  `json:"success"`
}

func (j *JSONRPCServer) Tx(_ *http.Request, args *TxArgs, reply *TxReply) error {
	found, t, success, err := j.vm.GetTransaction(args.TxID)
	if err != nil {
		return err
	}
	reply.Found = found
	reply.Timestamp = t
	reply.Success = success
	return nil
}

type AddressArgs struct {
	Address codec.Address `json:"address"`
}

type BalanceReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) Balance(req *http.Request, args *AddressArgs, reply *BalanceReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Balance")
	defer span.End()

	bal, err := storage.GetBalance(ctx, j.vm.ReadState(), args.Address)
	if err != nil {
		return err
	}
	reply.Amount = bal
	return nil
}

type FundReply struct {
	Fund    *storage.Fund `json:"fund"`
	Balance uint64        `json:"balance"`
}

func (j *JSONRPCServer) Fund(req *http.Request, args *AddressArgs, reply *FundReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Fund")
	defer span.End()

	im := j.vm.ReadState()
	f, exists, err := storage.GetFund(ctx, im, args.Address)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: fund %s", ErrNotFound, args.Address)
	}
	bal, err := storage.GetBalance(ctx, im, args.Address)
	if err != nil {
		return err
	}
	reply.Fund = f
	reply.Balance = bal
	return nil
}

type RequestArgs struct {
	Fund codec.Address `json:"fund"`
	ID   uint64        `json:"id"`
}

type RequestReply struct {
	Address codec.Address    `json:"address"`
	Request *storage.Request `json:"request"`
}

// Request looks a withdrawal request up by its fund and sequence number.
func (j *JSONRPCServer) Request(req *http.Request, args *RequestArgs, reply *RequestReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Request")
	defer span.End()

	addr, err := derive.Request(args.Fund, args.ID, derive.CanonicalBump)
	if err != nil {
		return err
	}
	r, exists, err := storage.GetRequest(ctx, j.vm.ReadState(), addr)
	if err != nil {
		return err
	}
	if !exists || r.Fund != args.Fund || r.ID != args.ID {
		return fmt.Errorf("%w: request %d of fund %s", ErrNotFound, args.ID, args.Fund)
	}
	reply.Address = addr
	reply.Request = r
	return nil
}

type VaultReply struct {
	Vault   *storage.Vault `json:"vault"`
	Balance uint64         `json:"balance"`
}

func (j *JSONRPCServer) Vault(req *http.Request, args *AddressArgs, reply *VaultReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.Vault")
	defer span.End()

	im := j.vm.ReadState()
	v, exists, err := storage.GetVault(ctx, im, args.Address)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: vault %s", ErrNotFound, args.Address)
	}
	bal, err := storage.GetBalance(ctx, im, args.Address)
	if err != nil {
		return err
	}
	reply.Vault = v
	reply.Balance = bal
	return nil
}

type DeriveAddressArgs struct {
	Kind  string        `json:"kind"`
	Owner codec.Address `json:"owner"`

	// ID selects the request of a fund and is ignored by the other kinds.
	ID uint64 `json:"id"`
}

type DeriveAddressReply struct {
	Address codec.Address `json:"address"`
	Bump    uint8         `json:"bump"`
	Exists  bool          `json:"exists"`
}

// DeriveAddress returns the canonical identifier of the account [Kind] owned
// by [Owner]: the highest bump not held by an unrelated record.
func (j *JSONRPCServer) DeriveAddress(req *http.Request, args *DeriveAddressArgs, reply *DeriveAddressReply) error {
	ctx, span := j.vm.Tracer().Start(req.Context(), "JSONRPCServer.DeriveAddress")
	defer span.End()

	addr, bump, exists, err := resolve(ctx, j.vm, args)
	if err != nil {
		return err
	}
	reply.Address = addr
	reply.Bump = bump
	reply.Exists = exists
	return nil
}

func resolve(ctx context.Context, vm VM, args *DeriveAddressArgs) (codec.Address, uint8, bool, error) {
	im := vm.ReadState()
	var (
		namespace string
		seeds     [][]byte
		owned     func(codec.Address) (held bool, mine bool, err error)
	)
	switch args.Kind {
	case FundKind:
		namespace, seeds = derive.FundNamespace, derive.FundSeeds(args.Owner)
		owned = func(addr codec.Address) (bool, bool, error) {
			f, exists, err := storage.GetFund(ctx, im, addr)
			if err != nil || !exists {
				return false, false, err
			}
			return true, f.Creator == args.Owner, nil
		}
	case RequestKind:
		namespace, seeds = derive.RequestNamespace, derive.RequestSeeds(args.Owner, args.ID)
		owned = func(addr codec.Address) (bool, bool, error) {
			r, exists, err := storage.GetRequest(ctx, im, addr)
			if err != nil || !exists {
				return false, false, err
			}
			return true, r.Fund == args.Owner && r.ID == args.ID, nil
		}
	case VaultKind:
		namespace, seeds = derive.VaultNamespace, derive.VaultSeeds(args.Owner)
		owned = func(addr codec.Address) (bool, bool, error) {
			v, exists, err := storage.GetVault(ctx, im, addr)
			if err != nil || !exists {
				return false, false, err
			}
			return true, v.Authority == args.Owner, nil
		}
	default:
		return codec.EmptyAddress, 0, false, fmt.Errorf("%w: %q", ErrUnknownKind, args.Kind)
	}

	var exists bool
	addr, bump, err := derive.Find(namespace, seeds, func(addr codec.Address) (bool, error) {
		held, mine, err := owned(addr)
		if err != nil {
			return false, err
		}
		exists = held && mine
		return held && !mine, nil
	})
	return addr, bump, exists, err
}

type EventsArgs struct {
	Start uint64 `json:"start"`
	Limit int    `json:"limit"`
}

type EventsReply struct {
	Entries []*event.Entry `json:"entries"`
	Height  uint64         `json:"height"`
}

// Events pages through the event archive in sequence order.
func (j *JSONRPCServer) Events(_ *http.Request, args *EventsArgs, reply *EventsReply) error {
	limit := args.Limit
	if limit <= 0 || limit > MaxEventsPerRequest {
		limit = MaxEventsPerRequest
	}
	entries, height, err := j.vm.Events(args.Start, limit)
	if err != nil {
		return err
	}
	reply.Entries = entries
	reply.Height = height
	return nil
}
