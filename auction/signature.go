package auction

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverSigner derives the address that produced signature over digest via
// ECDSA public key recovery. Signatures are the usual 65-byte [R || S || V]
// form; both V in {0, 1} and the Ethereum tooling convention {27, 28} are
// accepted.
func RecoverSigner(digest common.Hash, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: signature must be %d bytes, got %d", ErrMalformedInput, crypto.SignatureLength, len(signature))
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubkey, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pubkey), nil
}

// VerifySignature reports whether signature over digest was produced by the
// claimed signer. Addresses are compared as raw bytes, which makes the check
// independent of hex casing. Malformed or unrecoverable signatures yield
// false rather than an error so callers can treat verification uniformly as
// a predicate.
func VerifySignature(digest common.Hash, signature []byte, claimed common.Address) bool {
	recovered, err := RecoverSigner(digest, signature)
	if err != nil {
		return false
	}
	return recovered == claimed
}
