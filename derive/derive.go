// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package derive computes the deterministic identifiers of program-owned
// accounts. An identifier is a pure function of a namespace tag, an ordered
// list of seeds and a bump, so every record can be located without a
// registry.
package derive

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
)

const (
	// DerivedTypeID is the address type byte of every program-owned account.
	// Identity addresses use a different type byte, so a derived address can
	// never be confused with a key-controlled one.
	DerivedTypeID uint8 = 1

	MaxSeeds        = 16
	MaxSeedLen      = codec.AddressLen
	MaxNamespaceLen = 32

	// CanonicalBump is the only bump new accounts are created at.
	CanonicalBump = consts.MaxUint8
)

var programMarker = []byte("custodyvm:derived-account")

// Derive returns the identifier for [namespace], [seeds] and [bump].
func Derive(namespace string, seeds [][]byte, bump uint8) (codec.Address, error) {
	if err := validate(namespace, seeds); err != nil {
		return codec.EmptyAddress, err
	}
	p := &wrappers.Packer{MaxSize: preimageSize(namespace, seeds)}
	p.PackStr(namespace)
	p.PackByte(uint8(len(seeds)))
	for _, seed := range seeds {
		p.PackBytes(seed)
	}
	p.PackByte(bump)
	p.PackFixedBytes(programMarker)
	if p.Err != nil {
		return codec.EmptyAddress, p.Err
	}
	return codec.CreateAddress(DerivedTypeID, hashing.ComputeHash256Array(p.Bytes)), nil
}

// Verify re-derives the identifier and reports whether [candidate] matches it.
func Verify(candidate codec.Address, namespace string, seeds [][]byte, bump uint8) bool {
	expected, err := Derive(namespace, seeds, bump)
	return err == nil && expected == candidate
}

// Check is Verify returning ErrAddressMismatch on failure.
func Check(candidate codec.Address, namespace string, seeds [][]byte, bump uint8) error {
	expected, err := Derive(namespace, seeds, bump)
	if err != nil {
		return err
	}
	if expected != candidate {
		return fmt.Errorf("%w: %s account expected=%s got=%s", ErrAddressMismatch, namespace, expected, candidate)
	}
	return nil
}

// CheckCanonical is Check restricted to CanonicalBump. Accounts are only
// ever created at their canonical identifier, so each seed set names at most
// one account.
func CheckCanonical(candidate codec.Address, namespace string, seeds [][]byte, bump uint8) error {
	if bump != CanonicalBump {
		return fmt.Errorf("%w: %w: %s account bump %d", ErrAddressMismatch, ErrNonCanonicalBump, namespace, bump)
	}
	return Check(candidate, namespace, seeds, bump)
}

// Find returns the canonical identifier for [namespace] and [seeds]. It fails
// with ErrBumpNotFound when [occupied] reports that identifier as held by an
// unrelated record, since the account could then never be created.
func Find(
	namespace string,
	seeds [][]byte,
	occupied func(codec.Address) (bool, error),
) (codec.Address, uint8, error) {
	addr, err := Derive(namespace, seeds, CanonicalBump)
	if err != nil {
		return codec.EmptyAddress, 0, err
	}
	taken, err := occupied(addr)
	if err != nil {
		return codec.EmptyAddress, 0, err
	}
	if taken {
		return codec.EmptyAddress, 0, fmt.Errorf("%w: %s account %s is held", ErrBumpNotFound, namespace, addr)
	}
	return addr, CanonicalBump, nil
}

func validate(namespace string, seeds [][]byte) error {
	if len(namespace) == 0 || len(namespace) > MaxNamespaceLen {
		return fmt.Errorf("%w: namespace length %d", ErrInvalidSeeds, len(namespace))
	}
	if len(seeds) > MaxSeeds {
		return fmt.Errorf("%w: %d seeds", ErrInvalidSeeds, len(seeds))
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return fmt.Errorf("%w: seed %d has length %d", ErrInvalidSeeds, i, len(seed))
		}
	}
	return nil
}

func preimageSize(namespace string, seeds [][]byte) int {
	size := wrappers.ShortLen + len(namespace) + consts.ByteLen
	for _, seed := range seeds {
		size += wrappers.IntLen + len(seed)
	}
	return size + consts.ByteLen + len(programMarker)
}
