// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"

	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/crypto/secp256r1"
	"github.com/ava-labs/custodyvm/utils"
)

var _ chain.Auth = (*SECP256R1)(nil)

const SECP256R1Size = secp256r1.PublicKeyLen + secp256r1.SignatureLen

// SECP256R1 lets a custodian authorize with a hardware key or passkey.
type SECP256R1 struct {
	Signer    secp256r1.PublicKey `json:"signer"`
	Signature secp256r1.Signature `json:"signature"`

	addr codec.Address
}

func (d *SECP256R1) address() codec.Address {
	if d.addr == codec.EmptyAddress {
		d.addr = NewSECP256R1Address(d.Signer)
	}
	return d.addr
}

func (*SECP256R1) GetTypeID() uint8 {
	return SECP256R1ID
}

func (d *SECP256R1) Verify(_ context.Context, msg []byte) error {
	if !secp256r1.Verify(msg, d.Signer, d.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

func (d *SECP256R1) Actor() codec.Address {
	return d.address()
}

func (*SECP256R1) Size() int {
	return SECP256R1Size
}

func (d *SECP256R1) Marshal(p *codec.Packer) {
	p.PackFixedBytes(d.Signer[:])
	p.PackFixedBytes(d.Signature[:])
}

func UnmarshalSECP256R1(p *codec.Packer) (chain.Auth, error) {
	var (
		d      SECP256R1
		signer []byte
		sig    []byte
	)
	p.UnpackFixedBytes(secp256r1.PublicKeyLen, &signer)
	p.UnpackFixedBytes(secp256r1.SignatureLen, &sig)
	if err := p.Err(); err != nil {
		return nil, err
	}
	copy(d.Signer[:], signer)
	copy(d.Signature[:], sig)
	return &d, nil
}

var _ chain.AuthFactory = (*SECP256R1Factory)(nil)

type SECP256R1Factory struct {
	priv secp256r1.PrivateKey
}

func NewSECP256R1Factory(priv secp256r1.PrivateKey) *SECP256R1Factory {
	return &SECP256R1Factory{priv}
}

func (d *SECP256R1Factory) Sign(msg []byte) (chain.Auth, error) {
	sig, err := secp256r1.Sign(msg, d.priv)
	if err != nil {
		return nil, err
	}
	return &SECP256R1{Signer: d.priv.PublicKey(), Signature: sig}, nil
}

func (d *SECP256R1Factory) Address() codec.Address {
	return NewSECP256R1Address(d.priv.PublicKey())
}

func NewSECP256R1Address(pk secp256r1.PublicKey) codec.Address {
	return codec.CreateAddress(SECP256R1ID, utils.ToID(pk[:]))
}

var _ chain.AuthEngine = (*SECP256R1AuthEngine)(nil)

// SECP256R1AuthEngine verifies one signature at a time; P-256 has no batch
// verification.
type SECP256R1AuthEngine struct{}

func (*SECP256R1AuthEngine) GetBatchVerifier(count int) chain.AuthBatchVerifier {
	return &sequentialBatch{items: make([]*batchItem, 0, count)}
}

type sequentialBatch struct {
	items []*batchItem
}

func (b *sequentialBatch) Add(msg []byte, rauth chain.Auth) {
	b.items = append(b.items, &batchItem{msg: msg, auth: rauth})
}

func (b *sequentialBatch) Verify() error {
	for _, item := range b.items {
		if err := item.auth.Verify(context.Background(), item.msg); err != nil {
			return err
		}
	}
	return nil
}
