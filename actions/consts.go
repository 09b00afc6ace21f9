// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import "github.com/ava-labs/custodyvm/storage"

// Note: Registry will error during initialization if a duplicate ID is
// assigned. We explicitly assign IDs to avoid accidental remapping.
const (
	InitializeFundID uint8 = iota
	DonateID
	CreateWithdrawalRequestID
	ExecuteWithdrawalID
	InitVaultID
	DepositID
	WithdrawID
	ToggleLockID
)

const (
	MaxNameLen        = storage.MaxNameLen
	MaxDescriptionLen = storage.MaxDescriptionLen
	MaxReasonLen      = storage.MaxReasonLen
)
