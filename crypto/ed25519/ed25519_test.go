// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ed25519

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	oed25519 "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

var (
	TestPrivateKey = PrivateKey(
		[PrivateKeyLen]byte{
			32, 241, 118, 222, 210, 13, 164, 128, 3, 18,
			109, 215, 176, 215, 168, 171, 194, 181, 4, 11,
			253, 199, 173, 240, 107, 148, 127, 190, 48, 164,
			12, 48, 115, 50, 124, 153, 59, 53, 196, 150, 168,
			143, 151, 235, 222, 128, 136, 161, 9, 40, 139, 85,
			182, 153, 68, 135, 62, 166, 45, 235, 251, 246, 69, 7,
		},
	)
	TestPublicKey = []byte{
		115, 50, 124, 153, 59, 53, 196, 150, 168, 143, 151, 235,
		222, 128, 136, 161, 9, 40, 139, 85, 182, 153, 68, 135,
		62, 166, 45, 235, 251, 246, 69, 7,
	}
	oed25519options = &oed25519.Options{
		Verify: oed25519.VerifyOptionsZIP_215,
	}
)

func TestGeneratePrivateKeyDifferent(t *testing.T) {
	require := require.New(t)
	const numKeysToGenerate int = 10

	m := make(map[PrivateKey]bool)
	for i := 0; i < numKeysToGenerate; i++ {
		priv, err := GeneratePrivateKey()
		require.NoError(err, "Error Generating Private Key")
		require.NotEqual(EmptyPrivateKey, priv)
		require.False(m[priv], "Duplicate PrivateKey generated")
		m[priv] = true
	}
}

func TestPublicKeyValid(t *testing.T) {
	require := require.New(t)
	var expectedPubKey PublicKey
	copy(expectedPubKey[:], TestPublicKey)
	require.Equal(expectedPubKey, TestPrivateKey.PublicKey(), "PublicKey not equal to Expected PublicKey")
}

func TestSignVerify(t *testing.T) {
	require := require.New(t)
	msg := []byte("donate 1000")

	sig := Sign(msg, TestPrivateKey)
	require.True(Verify(msg, TestPrivateKey.PublicKey(), sig))
	require.False(Verify([]byte("donate 1001"), TestPrivateKey.PublicKey(), sig))

	other, err := GeneratePrivateKey()
	require.NoError(err)
	require.False(Verify(msg, other.PublicKey(), sig))
}

func TestBatchVerify(t *testing.T) {
	require := require.New(t)

	batch := NewBatch(MinBatchSize)
	for i := 0; i < MinBatchSize; i++ {
		priv, err := GeneratePrivateKey()
		require.NoError(err)
		msg := []byte(strconv.Itoa(i))
		batch.Add(msg, priv.PublicKey(), Sign(msg, priv))
	}
	require.True(batch.Verify())

	bad := NewBatch(1)
	bad.Add([]byte("a"), TestPrivateKey.PublicKey(), Sign([]byte("b"), TestPrivateKey))
	require.False(bad.Verify())
}

func TestSaveLoadKey(t *testing.T) {
	require := require.New(t)
	f := filepath.Join(t.TempDir(), "key.pk")

	require.NoError(TestPrivateKey.Save(f))
	loaded, err := LoadKey(f)
	require.NoError(err)
	require.Equal(TestPrivateKey, loaded)

	_, err = HexToPrivateKey("abcd")
	require.ErrorIs(err, ErrInvalidPrivateKey)
}

// Signatures must be portable between signers: a key held by another
// ed25519 implementation can authorize, and ours verify elsewhere.
func TestInteroperability(t *testing.T) {
	require := require.New(t)
	msg := []byte("toggle lock")

	pub, priv, err := oed25519.GenerateKey(nil)
	require.NoError(err)
	sig := oed25519.Sign(priv, msg)
	require.True(Verify(msg, PublicKey(pub), Signature(sig)))

	ours := Sign(msg, TestPrivateKey)
	require.True(oed25519.VerifyWithOptions(TestPublicKey, msg, ours[:], oed25519options))
}

func BenchmarkConsensusVerifySingle(b *testing.B) {
	msg := []byte("hello")
	sig := Sign(msg, TestPrivateKey)
	pub := TestPrivateKey.PublicKey()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		require.True(b, Verify(msg, pub, sig))
	}
}

func BenchmarkOasisVerifySingle(b *testing.B) {
	msg := []byte("hello")
	pub, priv, err := oed25519.GenerateKey(nil)
	require.NoError(b, err)
	sig := oed25519.Sign(priv, msg)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		require.True(b, oed25519.VerifyWithOptions(pub, msg, sig, oed25519options))
	}
}
