// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/custodyvm/actions"
	"github.com/ava-labs/custodyvm/auth"
	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/codec"
)

var (
	Action *codec.TypeParser[chain.Action]
	Auth   *codec.TypeParser[chain.Auth]
)

func init() {
	Action = codec.NewTypeParser[chain.Action]()
	Auth = codec.NewTypeParser[chain.Auth]()

	errs := &wrappers.Errs{}
	errs.Add(
		// Type ids are part of the wire format. Append, never reorder.
		Action.Register(actions.InitializeFundID, actions.UnmarshalInitializeFund),
		Action.Register(actions.DonateID, actions.UnmarshalDonate),
		Action.Register(actions.CreateWithdrawalRequestID, actions.UnmarshalCreateWithdrawalRequest),
		Action.Register(actions.ExecuteWithdrawalID, actions.UnmarshalExecuteWithdrawal),
		Action.Register(actions.InitVaultID, actions.UnmarshalInitVault),
		Action.Register(actions.DepositID, actions.UnmarshalDeposit),
		Action.Register(actions.WithdrawID, actions.UnmarshalWithdraw),
		Action.Register(actions.ToggleLockID, actions.UnmarshalToggleLock),

		Auth.Register(auth.ED25519ID, auth.UnmarshalED25519),
		Auth.Register(auth.SECP256R1ID, auth.UnmarshalSECP256R1),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}

// ParseTx decodes a signed transaction using the registered types.
func ParseTx(b []byte) (*chain.Transaction, error) {
	return chain.ParseTx(b, Action, Auth)
}

// Sign signs [tx] with every factory and returns the parsed result.
func Sign(tx *chain.Transaction, factories ...chain.AuthFactory) (*chain.Transaction, error) {
	return tx.Sign(factories, Action, Auth)
}
