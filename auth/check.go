// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/custodyvm/codec"
)

// Signed returns ErrUnauthorized unless [caller] signed the transaction.
func Signed(signers set.Set[codec.Address], caller codec.Address) error {
	if !signers.Contains(caller) {
		return fmt.Errorf("%w: %s did not sign", ErrUnauthorized, caller)
	}
	return nil
}

// Check is the capability test guarding owner-only operations: [caller] must
// have signed and must be the [owner] recorded on the target account.
func Check(signers set.Set[codec.Address], caller codec.Address, owner codec.Address) error {
	if err := Signed(signers, caller); err != nil {
		return err
	}
	if caller != owner {
		return fmt.Errorf("%w: %s is not the owner %s", ErrUnauthorized, caller, owner)
	}
	return nil
}
