// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package secp256r1 implements P-256 keys with low-s normalized signatures,
// the scheme produced by hardware security keys and passkeys.
package secp256r1

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"os"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

const (
	PublicKeyLen  = 64 // x || y
	PrivateKeyLen = 32
	SignatureLen  = 64 // r || s

	coordinateLen = 32
	rsLen         = 32
)

type (
	PublicKey  [PublicKeyLen]byte
	PrivateKey [PrivateKeyLen]byte
	Signature  [SignatureLen]byte
)

var (
	EmptyPublicKey  = PublicKey{}
	EmptyPrivateKey = PrivateKey{}
	EmptySignature  = Signature{}

	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidASN1       = errors.New("invalid ASN.1 signature")
)

var (
	curveOrder     = elliptic.P256().Params().N
	curveHalfOrder = new(big.Int).Rsh(curveOrder, 1)
)

// IsNormalized reports whether [s] lies in the lower half of the curve order.
// Only normalized signatures verify, which makes them non-malleable.
func IsNormalized(s *big.Int) bool {
	return s.Cmp(curveHalfOrder) <= 0
}

// NormalizeSignature maps [s] into the lower half of the curve order.
func NormalizeSignature(s *big.Int) *big.Int {
	if IsNormalized(s) {
		return s
	}
	return new(big.Int).Sub(curveOrder, s)
}

// ParseASN1Signature converts a DER encoded (r, s) pair, as returned by
// WebAuthn authenticators, into a normalized Signature.
func ParseASN1Signature(der []byte) (Signature, error) {
	var (
		inner cryptobyte.String
		r, s  []byte
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(&r) ||
		!inner.ReadASN1Integer(&s) ||
		!inner.Empty() {
		return EmptySignature, ErrInvalidASN1
	}
	ri := new(big.Int).SetBytes(r)
	si := NormalizeSignature(new(big.Int).SetBytes(s))
	if ri.BitLen() > rsLen*8 || si.BitLen() > rsLen*8 {
		return EmptySignature, ErrInvalidASN1
	}
	return newSignature(ri, si), nil
}

func newSignature(r, s *big.Int) Signature {
	var sig Signature
	r.FillBytes(sig[:rsLen])
	s.FillBytes(sig[rsLen:])
	return sig
}

func GeneratePrivateKey() (PrivateKey, error) {
	k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return EmptyPrivateKey, err
	}
	var p PrivateKey
	k.D.FillBytes(p[:])
	return p, nil
}

func (p PrivateKey) PublicKey() PublicKey {
	x, y := elliptic.P256().ScalarBaseMult(p[:])
	var pk PublicKey
	x.FillBytes(pk[:coordinateLen])
	y.FillBytes(pk[coordinateLen:])
	return pk
}

func (p PublicKey) ecdsa() (*ecdsa.PublicKey, bool) {
	x := new(big.Int).SetBytes(p[:coordinateLen])
	y := new(big.Int).SetBytes(p[coordinateLen:])
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, false
	}
	if !elliptic.P256().IsOnCurve(x, y) {
		return nil, false
	}
	return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, true
}

// Save writes the hex encoded private key to [filename].
func (p PrivateKey) Save(filename string) error {
	return os.WriteFile(filename, []byte(hex.EncodeToString(p[:])), 0o600)
}

func LoadKey(filename string) (PrivateKey, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return EmptyPrivateKey, err
	}
	return HexToPrivateKey(string(raw))
}

func HexToPrivateKey(s string) (PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return EmptyPrivateKey, err
	}
	if len(b) != PrivateKeyLen {
		return EmptyPrivateKey, ErrInvalidPrivateKey
	}
	return PrivateKey(b), nil
}

// Sign hashes [msg] with SHA-256 and returns a normalized signature.
func Sign(msg []byte, p PrivateKey) (Signature, error) {
	pub, ok := p.PublicKey().ecdsa()
	if !ok {
		return EmptySignature, ErrInvalidPrivateKey
	}
	priv := &ecdsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(p[:]),
	}
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return EmptySignature, err
	}
	return newSignature(r, NormalizeSignature(s)), nil
}

// Verify reports whether [sig] is a normalized signature of [msg] by [p].
func Verify(msg []byte, p PublicKey, sig Signature) bool {
	pub, ok := p.ecdsa()
	if !ok {
		return false
	}
	r := new(big.Int).SetBytes(sig[:rsLen])
	s := new(big.Int).SetBytes(sig[rsLen:])
	if !IsNormalized(s) {
		return false
	}
	digest := sha256.Sum256(msg)
	return ecdsa.Verify(pub, digest[:], r, s)
}
