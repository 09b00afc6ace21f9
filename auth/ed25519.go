// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"

	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/crypto/ed25519"
	"github.com/ava-labs/custodyvm/utils"
)

var _ chain.Auth = (*ED25519)(nil)

const ED25519Size = ed25519.PublicKeyLen + ed25519.SignatureLen

type ED25519 struct {
	Signer    ed25519.PublicKey `json:"signer"`
	Signature ed25519.Signature `json:"signature"`

	addr codec.Address
}

func (d *ED25519) address() codec.Address {
	if d.addr == codec.EmptyAddress {
		d.addr = NewED25519Address(d.Signer)
	}
	return d.addr
}

func (*ED25519) GetTypeID() uint8 {
	return ED25519ID
}

func (d *ED25519) Verify(_ context.Context, msg []byte) error {
	if !ed25519.Verify(msg, d.Signer, d.Signature) {
		return ErrInvalidSignature
	}
	return nil
}

func (d *ED25519) Actor() codec.Address {
	return d.address()
}

func (*ED25519) Size() int {
	return ED25519Size
}

func (d *ED25519) Marshal(p *codec.Packer) {
	p.PackFixedBytes(d.Signer[:])
	p.PackFixedBytes(d.Signature[:])
}

func UnmarshalED25519(p *codec.Packer) (chain.Auth, error) {
	var (
		d      ED25519
		signer []byte
		sig    []byte
	)
	p.UnpackFixedBytes(ed25519.PublicKeyLen, &signer)
	p.UnpackFixedBytes(ed25519.SignatureLen, &sig)
	if err := p.Err(); err != nil {
		return nil, err
	}
	copy(d.Signer[:], signer)
	copy(d.Signature[:], sig)
	return &d, nil
}

var _ chain.AuthFactory = (*ED25519Factory)(nil)

type ED25519Factory struct {
	priv ed25519.PrivateKey
}

func NewED25519Factory(priv ed25519.PrivateKey) *ED25519Factory {
	return &ED25519Factory{priv}
}

func (d *ED25519Factory) Sign(msg []byte) (chain.Auth, error) {
	sig := ed25519.Sign(msg, d.priv)
	return &ED25519{Signer: d.priv.PublicKey(), Signature: sig}, nil
}

func (d *ED25519Factory) Address() codec.Address {
	return NewED25519Address(d.priv.PublicKey())
}

func NewED25519Address(pk ed25519.PublicKey) codec.Address {
	return codec.CreateAddress(ED25519ID, utils.ToID(pk[:]))
}

var _ chain.AuthEngine = (*ED25519AuthEngine)(nil)

type ED25519AuthEngine struct{}

func (*ED25519AuthEngine) GetBatchVerifier(count int) chain.AuthBatchVerifier {
	return &ED25519Batch{
		batchSize: count,
		batch:     ed25519.NewBatch(count),
	}
}

var _ chain.AuthBatchVerifier = (*ED25519Batch)(nil)

// ED25519Batch verifies with ZIP-215 batch verification once at least
// [ed25519.MinBatchSize] signatures are queued and falls back to individual
// verification below that.
type ED25519Batch struct {
	batchSize int
	items     []*batchItem
	batch     *ed25519.Batch
}

type batchItem struct {
	msg  []byte
	auth chain.Auth
}

func (b *ED25519Batch) Add(msg []byte, rauth chain.Auth) {
	b.items = append(b.items, &batchItem{msg: msg, auth: rauth})
	if a, ok := rauth.(*ED25519); ok {
		b.batch.Add(msg, a.Signer, a.Signature)
	}
}

func (b *ED25519Batch) Verify() error {
	if len(b.items) >= ed25519.MinBatchSize && len(b.items) == b.batchSize {
		if b.batch.Verify() {
			return nil
		}
	}
	// Locate the failing signature (or verify a small batch).
	for _, item := range b.items {
		if err := item.auth.Verify(context.Background(), item.msg); err != nil {
			return err
		}
	}
	return nil
}
