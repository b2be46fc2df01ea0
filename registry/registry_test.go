package registry

import (
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/offchain-auction-backend/auction"
)

var (
	testAsset      = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testOwner      = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testSettlement = common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	testBidder     = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func createTestAuction(r *Registry) auction.Auction {
	return r.CreateAuction(testAsset, big.NewInt(1), testOwner, big.NewInt(100), testSettlement)
}

func TestCreateAndGetAuction(t *testing.T) {
	r := New()

	created := createTestAuction(r)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Nil(t, created.ApprovedBidID)

	got, err := r.GetAuction(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = r.GetAuction(uuid.New())
	require.ErrorIs(t, err, auction.ErrAuctionNotFound)
}

func TestListAuctionsIsSnapshot(t *testing.T) {
	r := New()
	createTestAuction(r)
	createTestAuction(r)

	listed := r.ListAuctions()
	require.Len(t, listed, 2)

	// Mutating the snapshot must not leak into the store.
	listed[0].MinPrice.SetInt64(999999)
	fresh, err := r.GetAuction(listed[0].ID)
	require.NoError(t, err)
	assert.Zero(t, fresh.MinPrice.Cmp(big.NewInt(100)))
}

func TestCreateBidRequiresAuction(t *testing.T) {
	r := New()

	_, err := r.CreateBid(uuid.New(), testBidder, big.NewInt(500), []byte{1})
	require.ErrorIs(t, err, auction.ErrAuctionNotFound)
}

func TestCreateAndListBids(t *testing.T) {
	r := New()
	a := createTestAuction(r)

	assert.Empty(t, r.ListBids(a.ID))
	assert.NotNil(t, r.ListBids(a.ID), "missing bids must be an empty list, not nil")

	first, err := r.CreateBid(a.ID, testBidder, big.NewInt(500), []byte{1})
	require.NoError(t, err)
	// Duplicate bidder and amount are allowed.
	second, err := r.CreateBid(a.ID, testBidder, big.NewInt(500), []byte{2})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	bids := r.ListBids(a.ID)
	require.Len(t, bids, 2)
	assert.Equal(t, first.ID, bids[0].ID)
	assert.Equal(t, second.ID, bids[1].ID)

	got, err := r.GetBid(a.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	_, err = r.GetBid(a.ID, uuid.New())
	require.ErrorIs(t, err, auction.ErrBidNotFound)
}

func TestApproveBid(t *testing.T) {
	r := New()
	a := createTestAuction(r)
	bid, err := r.CreateBid(a.ID, testBidder, big.NewInt(500), []byte{0xb1, 0xd5})
	require.NoError(t, err)

	ownerSig := []byte{0x04, 0x02}
	approved, err := r.ApproveBid(a.ID, bid.ID, ownerSig)
	require.NoError(t, err)

	require.NotNil(t, approved.ApprovedBidID)
	assert.Equal(t, bid.ID, *approved.ApprovedBidID)
	assert.EqualValues(t, ownerSig, approved.OwnerSignature)
	assert.EqualValues(t, bid.Signature, approved.BidderSignature)
}

func TestApproveBidFailures(t *testing.T) {
	r := New()
	a := createTestAuction(r)
	bid, err := r.CreateBid(a.ID, testBidder, big.NewInt(500), []byte{1})
	require.NoError(t, err)

	_, err = r.ApproveBid(uuid.New(), bid.ID, []byte{2})
	require.ErrorIs(t, err, auction.ErrAuctionNotFound)

	_, err = r.ApproveBid(a.ID, uuid.New(), []byte{2})
	require.ErrorIs(t, err, auction.ErrBidNotFound)

	_, err = r.ApproveBid(a.ID, bid.ID, []byte{2})
	require.NoError(t, err)

	// One-shot: a second approval fails and leaves the stored pair unchanged.
	other, err := r.CreateBid(a.ID, testBidder, big.NewInt(600), []byte{3})
	require.NoError(t, err)
	_, err = r.ApproveBid(a.ID, other.ID, []byte{4})
	require.ErrorIs(t, err, auction.ErrAlreadyApproved)

	stored, err := r.GetAuction(a.ID)
	require.NoError(t, err)
	assert.Equal(t, bid.ID, *stored.ApprovedBidID)
	assert.EqualValues(t, []byte{2}, stored.OwnerSignature)
	assert.EqualValues(t, []byte{1}, stored.BidderSignature)
}

func TestConcurrentApprovalsAtMostOneSucceeds(t *testing.T) {
	r := New()
	a := createTestAuction(r)

	first, err := r.CreateBid(a.ID, testBidder, big.NewInt(500), []byte{1})
	require.NoError(t, err)
	second, err := r.CreateBid(a.ID, testBidder, big.NewInt(600), []byte{2})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, bidID := range []uuid.UUID{first.ID, second.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = r.ApproveBid(a.ID, bidID, []byte{byte(i)})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, auction.ErrAlreadyApproved)
		}
	}
	require.Equal(t, 1, succeeded)

	stored, err := r.GetAuction(a.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ApprovedBidID)
	assert.Contains(t, []uuid.UUID{first.ID, second.ID}, *stored.ApprovedBidID)
}

func TestConcurrentBidSubmission(t *testing.T) {
	r := New()
	a := createTestAuction(r)

	const bidders = 32
	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.CreateBid(a.ID, testBidder, big.NewInt(int64(500+i)), []byte{byte(i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, r.ListBids(a.ID), bidders)
}
