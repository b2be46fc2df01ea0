package registry

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/ruteri/offchain-auction-backend/auction"
)

// Registry is the single mutual-exclusion domain over all auctions and bids.
// Construct one per process (or per test) with New and inject it where
// needed; nothing in this package holds global state.
type Registry struct {
	mu       sync.RWMutex
	auctions map[uuid.UUID]*auction.Auction
	bids     map[uuid.UUID][]*auction.Bid
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		auctions: make(map[uuid.UUID]*auction.Auction),
		bids:     make(map[uuid.UUID][]*auction.Bid),
	}
}

// CreateAuction allocates a new auction with a random unique id and no
// approved bid. It always succeeds.
func (r *Registry) CreateAuction(assetAddress common.Address, assetTokenID *big.Int, owner common.Address, minPrice *big.Int, settlementAssetAddress common.Address) auction.Auction {
	a := &auction.Auction{
		ID:                     uuid.New(),
		AssetAddress:           assetAddress,
		AssetTokenID:           copyInt(assetTokenID),
		Owner:                  owner,
		MinPrice:               copyInt(minPrice),
		SettlementAssetAddress: settlementAssetAddress,
	}

	r.mu.Lock()
	r.auctions[a.ID] = a
	r.mu.Unlock()

	return snapshotAuction(a)
}

// CreateBid records a bid against an existing auction. The signature is
// stored as-is; the caller is responsible for having verified it.
func (r *Registry) CreateBid(auctionID uuid.UUID, bidder common.Address, amount *big.Int, signature []byte) (auction.Bid, error) {
	b := &auction.Bid{
		ID:        uuid.New(),
		AuctionID: auctionID,
		Bidder:    bidder,
		Amount:    copyInt(amount),
		Signature: copyBytes(signature),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return auction.Bid{}, auction.ErrAuctionNotFound
	}
	r.bids[auctionID] = append(r.bids[auctionID], b)

	return snapshotBid(b), nil
}

// GetAuction returns a snapshot of the auction with the given id.
func (r *Registry) GetAuction(auctionID uuid.UUID) (auction.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return auction.Auction{}, auction.ErrAuctionNotFound
	}
	return snapshotAuction(a), nil
}

// ListAuctions returns a snapshot of every auction. Order is unspecified.
func (r *Registry) ListAuctions() []auction.Auction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]auction.Auction, 0, len(r.auctions))
	for _, a := range r.auctions {
		out = append(out, snapshotAuction(a))
	}
	return out
}

// ListBids returns a snapshot of all bids for the auction, oldest first. An
// unknown auction id yields an empty list, not an error.
func (r *Registry) ListBids(auctionID uuid.UUID) []auction.Bid {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := r.bids[auctionID]
	out := make([]auction.Bid, 0, len(bids))
	for _, b := range bids {
		out = append(out, snapshotBid(b))
	}
	return out
}

// GetBid returns a snapshot of the bid with the given id under the auction.
func (r *Registry) GetBid(auctionID, bidID uuid.UUID) (auction.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bids[auctionID] {
		if b.ID == bidID {
			return snapshotBid(b), nil
		}
	}
	return auction.Bid{}, auction.ErrBidNotFound
}

// ApproveBid marks the referenced bid as the auction's approved bid and
// stores both signatures. The read-check-write sequence runs under the
// registry lock, so of two concurrent approval attempts at most one can
// succeed; any later attempt fails with ErrAlreadyApproved regardless of
// signature validity.
func (r *Registry) ApproveBid(auctionID, bidID uuid.UUID, ownerSignature []byte) (auction.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.auctions[auctionID]
	if !ok {
		return auction.Auction{}, auction.ErrAuctionNotFound
	}

	var bid *auction.Bid
	for _, b := range r.bids[auctionID] {
		if b.ID == bidID {
			bid = b
			break
		}
	}
	if bid == nil {
		return auction.Auction{}, auction.ErrBidNotFound
	}

	if a.ApprovedBidID != nil {
		return auction.Auction{}, auction.ErrAlreadyApproved
	}

	approvedID := bidID
	a.ApprovedBidID = &approvedID
	a.OwnerSignature = copyBytes(ownerSignature)
	a.BidderSignature = copyBytes(bid.Signature)

	return snapshotAuction(a), nil
}

func snapshotAuction(a *auction.Auction) auction.Auction {
	out := *a
	out.AssetTokenID = copyInt(a.AssetTokenID)
	out.MinPrice = copyInt(a.MinPrice)
	out.OwnerSignature = copyBytes(a.OwnerSignature)
	out.BidderSignature = copyBytes(a.BidderSignature)
	if a.ApprovedBidID != nil {
		id := *a.ApprovedBidID
		out.ApprovedBidID = &id
	}
	return out
}

func snapshotBid(b *auction.Bid) auction.Bid {
	out := *b
	out.Amount = copyInt(b.Amount)
	out.Signature = copyBytes(b.Signature)
	return out
}

func copyInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func copyBytes(b []byte) hexutil.Bytes {
	if b == nil {
		return nil
	}
	out := make(hexutil.Bytes, len(b))
	copy(out, b)
	return out
}
