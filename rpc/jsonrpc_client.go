// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	avarpc "github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/registry"
	"github.com/ava-labs/custodyvm/storage"
	"github.com/ava-labs/custodyvm/utils"
)

type JSONRPCClient struct {
	requester avarpc.EndpointRequester

	network *NetworkReply
}

// NewJSONRPCClient creates a client for the node listening at [uri].
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	return &JSONRPCClient{
		requester: avarpc.NewEndpointRequester(uri + JSONRPCEndpoint),
	}
}

func (cli *JSONRPCClient) send(ctx context.Context, method string, args any, reply any) error {
	return cli.requester.SendRequest(ctx, Name+"."+method, args, reply)
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.send(ctx, "ping", struct{}{}, resp)
	return resp.Success, err
}

// Network returns the chain parameters. The reply is cached for the lifetime
// of the client.
func (cli *JSONRPCClient) Network(ctx context.Context) (*NetworkReply, error) {
	if cli.network != nil {
		return cli.network, nil
	}
	resp := new(NetworkReply)
	if err := cli.send(ctx, "network", struct{}{}, resp); err != nil {
		return nil, err
	}
	cli.network = resp
	return resp, nil
}

// GenerateTransaction wraps [action] in a transaction that expires at the end
// of the validity window and signs it with [factories].
func (cli *JSONRPCClient) GenerateTransaction(
	ctx context.Context,
	action chain.Action,
	factories ...chain.AuthFactory,
) (*chain.Transaction, error) {
	network, err := cli.Network(ctx)
	if err != nil {
		return nil, err
	}
	base := &chain.Base{
		Timestamp: utils.UnixRMilli(-1, network.ValidityWindow),
		ChainID:   network.ChainID,
	}
	return registry.Sign(chain.NewTx(base, action), factories...)
}

func (cli *JSONRPCClient) SubmitTx(ctx context.Context, tx []byte) (*SubmitTxReply, error) {
	resp := new(SubmitTxReply)
	err := cli.send(ctx, "submitTx", &SubmitTxArgs{Tx: tx}, resp)
	return resp, err
}

// Execute generates, signs and submits [action].
func (cli *JSONRPCClient) Execute(
	ctx context.Context,
	action chain.Action,
	factories ...chain.AuthFactory,
) (*SubmitTxReply, error) {
	tx, err := cli.GenerateTransaction(ctx, action, factories...)
	if err != nil {
		return nil, err
	}
	return cli.SubmitTx(ctx, tx.Bytes())
}

func (cli *JSONRPCClient) Tx(ctx context.Context, txID ids.ID) (bool, int64, bool, error) {
	resp := new(TxReply)
	err := cli.send(ctx, "tx", &TxArgs{TxID: txID}, resp)
	return resp.Found, resp.Timestamp, resp.Success, err
}

func (cli *JSONRPCClient) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	resp := new(BalanceReply)
	err := cli.send(ctx, "balance", &AddressArgs{Address: addr}, resp)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Fund(ctx context.Context, fund codec.Address) (*storage.Fund, uint64, error) {
	resp := new(FundReply)
	err := cli.send(ctx, "fund", &AddressArgs{Address: fund}, resp)
	return resp.Fund, resp.Balance, err
}

func (cli *JSONRPCClient) Request(ctx context.Context, fund codec.Address, id uint64) (codec.Address, *storage.Request, error) {
	resp := new(RequestReply)
	err := cli.send(ctx, "request", &RequestArgs{Fund: fund, ID: id}, resp)
	return resp.Address, resp.Request, err
}

func (cli *JSONRPCClient) Vault(ctx context.Context, vault codec.Address) (*storage.Vault, uint64, error) {
	resp := new(VaultReply)
	err := cli.send(ctx, "vault", &AddressArgs{Address: vault}, resp)
	return resp.Vault, resp.Balance, err
}

func (cli *JSONRPCClient) DeriveAddress(ctx context.Context, kind string, owner codec.Address, id uint64) (*DeriveAddressReply, error) {
	resp := new(DeriveAddressReply)
	err := cli.send(ctx, "deriveAddress", &DeriveAddressArgs{Kind: kind, Owner: owner, ID: id}, resp)
	return resp, err
}

func (cli *JSONRPCClient) Events(ctx context.Context, start uint64, limit int) ([]*event.Entry, uint64, error) {
	resp := new(EventsReply)
	err := cli.send(ctx, "events", &EventsArgs{Start: start, Limit: limit}, resp)
	return resp.Entries, resp.Height, err
}
