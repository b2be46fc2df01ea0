package auction

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTerms() Terms {
	return Terms{
		AssetAddress:           common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		AssetTokenID:           big.NewInt(1),
		Owner:                  common.HexToAddress("0x1111111111111111111111111111111111111111"),
		MinPrice:               big.NewInt(100),
		SettlementAssetAddress: common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc"),
		Bidder:                 common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Amount:                 big.NewInt(500),
	}
}

func TestDigestDeterministic(t *testing.T) {
	first := Digest(testTerms())
	second := Digest(testTerms())
	assert.Equal(t, first, second)
}

func TestDigestBindsEveryField(t *testing.T) {
	base := Digest(testTerms())

	mutations := map[string]func(*Terms){
		"asset address":            func(tt *Terms) { tt.AssetAddress = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb") },
		"asset token id by one":    func(tt *Terms) { tt.AssetTokenID = big.NewInt(2) },
		"owner":                    func(tt *Terms) { tt.Owner = common.HexToAddress("0x3333333333333333333333333333333333333333") },
		"min price":                func(tt *Terms) { tt.MinPrice = big.NewInt(101) },
		"settlement asset address": func(tt *Terms) { tt.SettlementAssetAddress = common.HexToAddress("0xdddddddddddddddddddddddddddddddddddddddd") },
		"bidder":                   func(tt *Terms) { tt.Bidder = common.HexToAddress("0x4444444444444444444444444444444444444444") },
		"amount by one":            func(tt *Terms) { tt.Amount = big.NewInt(501) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			terms := testTerms()
			mutate(&terms)
			assert.NotEqual(t, base, Digest(terms), "digest must change when %s changes", name)
		})
	}
}

func TestDigestDoesNotMutateTerms(t *testing.T) {
	terms := testTerms()
	amount := new(big.Int).Set(terms.Amount)

	Digest(terms)

	require.Zero(t, amount.Cmp(terms.Amount))
}

func TestDigestNilIntegersTreatedAsZero(t *testing.T) {
	withNil := testTerms()
	withNil.AssetTokenID = nil

	withZero := testTerms()
	withZero.AssetTokenID = big.NewInt(0)

	assert.Equal(t, Digest(withZero), Digest(withNil))
}
