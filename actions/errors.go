// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"errors"

	"github.com/ava-labs/custodyvm/auth"
	"github.com/ava-labs/custodyvm/derive"
	"github.com/ava-labs/custodyvm/storage"
)

var (
	// validation
	ErrNameTooLong        = errors.New("name too long")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrReasonTooLong      = errors.New("reason too long")
	ErrInvalidAmount      = errors.New("invalid amount")

	// authorization
	ErrUnauthorized      = auth.ErrUnauthorized
	ErrAddressMismatch   = derive.ErrAddressMismatch
	ErrNonCanonicalBump  = derive.ErrNonCanonicalBump
	ErrAccountNotFound   = errors.New("account not found")
	ErrRecipientMismatch = errors.New("recipient does not match request")

	// state-conflict
	ErrAlreadyExecuted = errors.New("request already executed")
	ErrAlreadyExists   = errors.New("account already exists")
	ErrVaultLocked     = errors.New("vault is locked")

	// resource
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientBalance = storage.ErrInsufficientBalance

	// arithmetic
	ErrOverflow = storage.ErrOverflow
)

type ErrorKind uint8

const (
	Internal ErrorKind = iota
	Validation
	Authorization
	StateConflict
	Resource
	Arithmetic
)

func (k ErrorKind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authorization:
		return "authorization"
	case StateConflict:
		return "state-conflict"
	case Resource:
		return "resource"
	case Arithmetic:
		return "arithmetic"
	default:
		return "internal"
	}
}

// Retryable reports whether resubmitting the same transaction can succeed
// once the caller has acquired funds.
func (k ErrorKind) Retryable() bool {
	return k == Resource
}

var kinds = []struct {
	kind ErrorKind
	errs []error
}{
	{Validation, []error{ErrNameTooLong, ErrDescriptionTooLong, ErrReasonTooLong, ErrInvalidAmount, derive.ErrInvalidSeeds}},
	{Authorization, []error{ErrUnauthorized, ErrAddressMismatch, ErrAccountNotFound, ErrRecipientMismatch, auth.ErrInvalidSignature}},
	{StateConflict, []error{ErrAlreadyExecuted, ErrAlreadyExists, ErrVaultLocked}},
	{Resource, []error{ErrInsufficientFunds, ErrInsufficientBalance}},
	{Arithmetic, []error{ErrOverflow}},
}

// Kind classifies [err] so a caller can decide whether to retry, alert or
// reject permanently. Errors outside the taxonomy are Internal.
func Kind(err error) ErrorKind {
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return Internal
}
