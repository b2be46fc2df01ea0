package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// wordSize is the width of an integer field in the packed encoding.
const wordSize = 32

// Digest computes the keccak256 hash of the tightly packed auction terms.
// The layout matches the settlement contract's abi.encodePacked: addresses
// as 20 raw bytes, integers as 32-byte big-endian words, in the order
// assetAddress, owner, assetTokenId, minPrice, settlementAssetAddress,
// bidder, amount. Every field has a fixed width, so no two distinct Terms
// values pack to the same byte string.
func Digest(t Terms) common.Hash {
	packed := make([]byte, 0, 4*common.AddressLength+3*wordSize)
	packed = append(packed, t.AssetAddress.Bytes()...)
	packed = append(packed, t.Owner.Bytes()...)
	packed = append(packed, u256Word(t.AssetTokenID)...)
	packed = append(packed, u256Word(t.MinPrice)...)
	packed = append(packed, t.SettlementAssetAddress.Bytes()...)
	packed = append(packed, t.Bidder.Bytes()...)
	packed = append(packed, u256Word(t.Amount)...)
	return crypto.Keccak256Hash(packed)
}

// u256Word encodes v as a 32-byte big-endian word. Nil is treated as zero so
// Digest stays total over partially populated Terms.
func u256Word(v *big.Int) []byte {
	if v == nil {
		v = new(big.Int)
	}
	return math.PaddedBigBytes(math.U256(new(big.Int).Set(v)), wordSize)
}
