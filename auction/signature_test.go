package auction

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignatureRoundtrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	digest := Digest(testTerms())
	signature, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	assert.True(t, VerifySignature(digest, signature, signer))

	recovered, err := RecoverSigner(digest, signature)
	require.NoError(t, err)
	assert.Equal(t, signer, recovered)
}

func TestVerifySignatureAcceptsEthereumRecoveryID(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	digest := Digest(testTerms())
	signature, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	// Browser wallets and ethers.js emit V as 27/28.
	signature[crypto.RecoveryIDOffset] += 27
	assert.True(t, VerifySignature(digest, signature, signer))
}

func TestVerifySignatureWrongSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	other := crypto.PubkeyToAddress(otherKey.PublicKey)

	digest := Digest(testTerms())
	signature, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	assert.False(t, VerifySignature(digest, signature, other))
}

func TestVerifySignatureWrongDigest(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	terms := testTerms()
	digest := Digest(terms)
	signature, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	terms.Amount = big.NewInt(501)
	assert.False(t, VerifySignature(Digest(terms), signature, signer))
}

func TestVerifySignatureMalformedInput(t *testing.T) {
	digest := Digest(testTerms())

	assert.False(t, VerifySignature(digest, nil, common.Address{}))
	assert.False(t, VerifySignature(digest, []byte{1, 2, 3}, common.Address{}))

	garbage := make([]byte, crypto.SignatureLength)
	_, err := rand.Read(garbage)
	require.NoError(t, err)
	garbage[crypto.RecoveryIDOffset] = 0
	// Correct length but random R/S: must yield false, never panic.
	assert.NotPanics(t, func() {
		VerifySignature(digest, garbage, common.Address{})
	})
}

func TestRecoverSignerRejectsWrongLength(t *testing.T) {
	_, err := RecoverSigner(Digest(testTerms()), []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrMalformedInput)
}
