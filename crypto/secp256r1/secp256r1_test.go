// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package secp256r1

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	require := require.New(t)

	for i := 0; i < 100; i++ {
		priv, err := GeneratePrivateKey()
		require.NoError(err)

		msg := []byte("withdraw 400")
		sig, err := Sign(msg, priv)
		require.NoError(err)
		require.True(Verify(msg, priv.PublicKey(), sig))
		require.False(Verify([]byte("withdraw 401"), priv.PublicKey(), sig))
	}
}

func TestHighSRejected(t *testing.T) {
	require := require.New(t)

	priv, err := GeneratePrivateKey()
	require.NoError(err)
	msg := []byte("hello")
	sig, err := Sign(msg, priv)
	require.NoError(err)

	// (r, n-s) is an equally valid ECDSA signature, but not normalized.
	s := new(big.Int).SetBytes(sig[rsLen:])
	malleated := newSignature(new(big.Int).SetBytes(sig[:rsLen]), new(big.Int).Sub(curveOrder, s))
	require.False(IsNormalized(new(big.Int).SetBytes(malleated[rsLen:])))
	require.False(Verify(msg, priv.PublicKey(), malleated))
}

func TestInvalidPublicKey(t *testing.T) {
	require := require.New(t)

	priv, err := GeneratePrivateKey()
	require.NoError(err)
	msg := []byte("hello")
	sig, err := Sign(msg, priv)
	require.NoError(err)

	require.False(Verify(msg, EmptyPublicKey, sig))

	offCurve := priv.PublicKey()
	offCurve[PublicKeyLen-1] ^= 1
	require.False(Verify(msg, offCurve, sig))
	require.False(Verify(msg, priv.PublicKey(), EmptySignature))
}

func TestASN1Signature(t *testing.T) {
	require := require.New(t)

	k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(err)
	var priv PrivateKey
	k.D.FillBytes(priv[:])

	msg := []byte("passkey assertion")
	digest := sha256.Sum256(msg)
	der, err := ecdsa.SignASN1(rand.Reader, k, digest[:])
	require.NoError(err)

	sig, err := ParseASN1Signature(der)
	require.NoError(err)
	require.True(Verify(msg, priv.PublicKey(), sig))

	_, err = ParseASN1Signature(append(der, 0))
	require.ErrorIs(err, ErrInvalidASN1)
	_, err = ParseASN1Signature(der[:len(der)-1])
	require.ErrorIs(err, ErrInvalidASN1)
}

func TestSaveLoad(t *testing.T) {
	require := require.New(t)

	priv, err := GeneratePrivateKey()
	require.NoError(err)
	file := filepath.Join(t.TempDir(), "key.pk")
	require.NoError(priv.Save(file))

	loaded, err := LoadKey(file)
	require.NoError(err)
	require.Equal(priv, loaded)

	_, err = HexToPrivateKey("abcd")
	require.ErrorIs(err, ErrInvalidPrivateKey)
}
