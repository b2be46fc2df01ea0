package service

import (
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/ruteri/offchain-auction-backend/auction"
	"github.com/ruteri/offchain-auction-backend/metrics"
	"github.com/ruteri/offchain-auction-backend/registry"
)

// Config carries the service's policy knobs and logger.
type Config struct {
	// AllowBidsAfterApproval permits recording bids on an auction that
	// already has an approved bid. Such bids can never win; whether they
	// should be accepted at all is a policy choice, so it is configurable.
	AllowBidsAfterApproval bool

	// Log is the structured logger for service operations.
	Log *slog.Logger
}

// AuctionService orchestrates digest construction, signature verification,
// and registry mutation. Construct once per process and inject into the HTTP
// boundary.
type AuctionService struct {
	registry               *registry.Registry
	allowBidsAfterApproval bool
	log                    *slog.Logger
}

// New creates an AuctionService backed by the given registry.
func New(cfg *Config, reg *registry.Registry) *AuctionService {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &AuctionService{
		registry:               reg,
		allowBidsAfterApproval: cfg.AllowBidsAfterApproval,
		log:                    log,
	}
}

// CreateAuction records a new auction with the supplied terms. Terms are not
// validated beyond their structure; minPrice in particular is advisory and
// never compared against bid amounts here.
func (s *AuctionService) CreateAuction(assetAddress common.Address, assetTokenID *big.Int, owner common.Address, minPrice *big.Int, settlementAssetAddress common.Address) auction.Auction {
	a := s.registry.CreateAuction(assetAddress, assetTokenID, owner, minPrice, settlementAssetAddress)
	metrics.IncAuctionCreated()
	s.log.Info("Auction created", "auctionId", a.ID, "asset", assetAddress, "owner", owner)
	return a
}

// GetAuction returns the auction with the given id.
func (s *AuctionService) GetAuction(auctionID uuid.UUID) (auction.Auction, error) {
	return s.registry.GetAuction(auctionID)
}

// ListAuctions returns a snapshot of all auctions.
func (s *AuctionService) ListAuctions() []auction.Auction {
	return s.registry.ListAuctions()
}

// ListBids returns a snapshot of all bids for the auction.
func (s *AuctionService) ListBids(auctionID uuid.UUID) []auction.Bid {
	return s.registry.ListBids(auctionID)
}

// GetBid returns the bid with the given id under the auction.
func (s *AuctionService) GetBid(auctionID, bidID uuid.UUID) (auction.Bid, error) {
	return s.registry.GetBid(auctionID, bidID)
}

// SubmitBid verifies the bidder's signature over the digest of the supplied
// terms and, only on success, records the bid. The digest is computed from
// the request's terms, so the signature commits the bidder to exactly what
// they submitted; the terms are not cross-checked against the stored
// auction.
func (s *AuctionService) SubmitBid(auctionID uuid.UUID, terms auction.Terms, bidderSignature []byte) (auction.Bid, error) {
	a, err := s.registry.GetAuction(auctionID)
	if err != nil {
		metrics.IncRequestRejected("not_found")
		return auction.Bid{}, err
	}

	if !s.allowBidsAfterApproval && a.Approved() {
		metrics.IncRequestRejected("already_approved")
		return auction.Bid{}, auction.ErrAlreadyApproved
	}

	digest := auction.Digest(terms)
	if !auction.VerifySignature(digest, bidderSignature, terms.Bidder) {
		metrics.IncRequestRejected("invalid_signature")
		s.log.Info("Rejected bid with invalid signature", "auctionId", auctionID, "bidder", terms.Bidder)
		return auction.Bid{}, auction.ErrInvalidSignature
	}

	bid, err := s.registry.CreateBid(auctionID, terms.Bidder, terms.Amount, bidderSignature)
	if err != nil {
		metrics.IncRequestRejected("not_found")
		return auction.Bid{}, err
	}

	metrics.IncBidSubmitted()
	s.log.Info("Bid recorded", "auctionId", auctionID, "bidId", bid.ID, "bidder", bid.Bidder, "amount", bid.Amount)
	return bid, nil
}

// ApproveBid verifies the owner's signature over the digest of the supplied
// terms and, only on success, performs the one-shot approval transition. The
// signature is always checked against the auction's stored owner — approval
// authority can not be delegated through the request.
func (s *AuctionService) ApproveBid(auctionID, bidID uuid.UUID, terms auction.Terms, ownerSignature []byte) (auction.Auction, error) {
	a, err := s.registry.GetAuction(auctionID)
	if err != nil {
		metrics.IncRequestRejected("not_found")
		return auction.Auction{}, err
	}

	if a.Approved() {
		metrics.IncRequestRejected("already_approved")
		return auction.Auction{}, auction.ErrAlreadyApproved
	}

	digest := auction.Digest(terms)
	if !auction.VerifySignature(digest, ownerSignature, a.Owner) {
		metrics.IncRequestRejected("invalid_signature")
		s.log.Info("Rejected approval with invalid signature", "auctionId", auctionID, "bidId", bidID)
		return auction.Auction{}, auction.ErrInvalidSignature
	}

	// The registry re-checks the approval state under its lock; the check
	// above only exists to reject before doing a bid lookup.
	approved, err := s.registry.ApproveBid(auctionID, bidID, ownerSignature)
	if err != nil {
		metrics.IncRequestRejected("approve_failed")
		return auction.Auction{}, err
	}

	metrics.IncBidApproved()
	s.log.Info("Bid approved", "auctionId", auctionID, "bidId", bidID)
	return approved, nil
}
