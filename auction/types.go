package auction

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

// Caller-facing failure kinds. All of them are recoverable conditions the
// HTTP boundary maps to distinct rejection responses; none are fatal.
var (
	// ErrAuctionNotFound indicates the referenced auction does not exist.
	ErrAuctionNotFound = errors.New("auction not found")

	// ErrBidNotFound indicates the referenced bid does not exist under the
	// given auction.
	ErrBidNotFound = errors.New("bid not found")

	// ErrInvalidSignature indicates the recovered signer does not match the
	// claimed address.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrAlreadyApproved indicates an approval was attempted on an auction
	// that already carries an approved bid. Approval is a one-way transition.
	ErrAlreadyApproved = errors.New("auction already has an approved bid")

	// ErrMalformedInput indicates structurally invalid request data, such as
	// a wrong-length address or a non-numeric amount.
	ErrMalformedInput = errors.New("malformed input")
)

// Terms is the full tuple of negotiated values both parties sign over. A
// signature over the digest of one Terms value cannot be replayed against a
// Terms value differing in any field.
type Terms struct {
	AssetAddress           common.Address
	AssetTokenID           *big.Int
	Owner                  common.Address
	MinPrice               *big.Int
	SettlementAssetAddress common.Address
	Bidder                 common.Address
	Amount                 *big.Int
}

// Auction is the negotiated object: an asset, its owner, an advisory minimum
// price, the settlement asset, and at most one approved bid. All fields
// except the approval triple are immutable after creation; ApprovedBidID,
// OwnerSignature and BidderSignature are populated together, exactly once.
type Auction struct {
	ID                     uuid.UUID      `json:"id"`
	AssetAddress           common.Address `json:"assetAddress"`
	AssetTokenID           *big.Int       `json:"assetTokenId"`
	Owner                  common.Address `json:"owner"`
	MinPrice               *big.Int       `json:"minPrice"`
	SettlementAssetAddress common.Address `json:"settlementAssetAddress"`
	ApprovedBidID          *uuid.UUID     `json:"approvedBidId"`
	OwnerSignature         hexutil.Bytes  `json:"ownerSignature,omitempty"`
	BidderSignature        hexutil.Bytes  `json:"bidderSignature,omitempty"`
}

// Approved reports whether the auction has reached its terminal state.
func (a *Auction) Approved() bool {
	return a.ApprovedBidID != nil
}

// Bid is a bidder's signed offer of an amount against a specific auction's
// terms. Immutable once recorded.
type Bid struct {
	ID        uuid.UUID      `json:"id"`
	AuctionID uuid.UUID      `json:"auctionId"`
	Bidder    common.Address `json:"bidder"`
	Amount    *big.Int       `json:"amount"`
	Signature hexutil.Bytes  `json:"signature"`
}
