package auctionhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ruteri/offchain-auction-backend/auction"
	"github.com/ruteri/offchain-auction-backend/service"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// Handler processes HTTP requests for the auction service.
type Handler struct {
	service *service.AuctionService
	log     *slog.Logger
}

// NewHandler creates a new HTTP request handler backed by the given service.
func NewHandler(svc *service.AuctionService, log *slog.Logger) *Handler {
	return &Handler{
		service: svc,
		log:     log,
	}
}

// RegisterRoutes registers the auction API routes with the provided router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/auction/create", h.HandleCreateAuction)
	r.Get("/api/auction/list", h.HandleListAuctions)
	r.Get("/api/auction/{auction_id}", h.HandleGetAuction)
	r.Get("/api/auction/{auction_id}/bid/list", h.HandleListBids)
	r.Get("/api/auction/{auction_id}/bid/{bid_id}", h.HandleGetBid)
	r.Post("/api/auction/{auction_id}/bid/create", h.HandleCreateBid)
	r.Post("/api/auction/{auction_id}/bid/approve", h.HandleApproveBid)
}

// CreateAuctionRequest carries the owner-supplied auction terms.
type CreateAuctionRequest struct {
	AssetAddress           string `json:"assetAddress"`
	AssetTokenID           string `json:"assetTokenId"`
	Owner                  string `json:"owner"`
	MinPrice               string `json:"minPrice"`
	SettlementAssetAddress string `json:"settlementAssetAddress"`
}

// TermsPayload is the wire form of the full signed term tuple. Bid
// submission and approval both carry it in full so the server can rebuild
// the exact digest the signature was produced over.
type TermsPayload struct {
	AssetAddress           string `json:"assetAddress"`
	AssetTokenID           string `json:"assetTokenId"`
	Owner                  string `json:"owner"`
	MinPrice               string `json:"minPrice"`
	SettlementAssetAddress string `json:"settlementAssetAddress"`
	Bidder                 string `json:"bidder"`
	Amount                 string `json:"amount"`
}

// CreateBidRequest carries the bidder's terms and signature.
type CreateBidRequest struct {
	TermsPayload
	BidderSignature string `json:"bidderSignature"`
}

// ApproveBidRequest carries the owner's bid selection and signature.
type ApproveBidRequest struct {
	TermsPayload
	BidID          string `json:"bidId"`
	OwnerSignature string `json:"ownerSignature"`
}

// HandleCreateAuction records a new auction from owner-supplied terms.
//
// URL format: POST /api/auction/create
func (h *Handler) HandleCreateAuction(w http.ResponseWriter, r *http.Request) {
	var req CreateAuctionRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	assetAddress, err := parseAddress("assetAddress", req.AssetAddress)
	if err != nil {
		h.writeError(w, err)
		return
	}
	assetTokenID, err := parseUint256("assetTokenId", req.AssetTokenID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	owner, err := parseAddress("owner", req.Owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	minPrice, err := parseUint256("minPrice", req.MinPrice)
	if err != nil {
		h.writeError(w, err)
		return
	}
	settlementAssetAddress, err := parseAddress("settlementAssetAddress", req.SettlementAssetAddress)
	if err != nil {
		h.writeError(w, err)
		return
	}

	created := h.service.CreateAuction(assetAddress, assetTokenID, owner, minPrice, settlementAssetAddress)
	h.writeJSON(w, http.StatusOK, created)
}

// HandleListAuctions returns a snapshot of all auctions.
//
// URL format: GET /api/auction/list
func (h *Handler) HandleListAuctions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.ListAuctions())
}

// HandleGetAuction returns a single auction by id.
//
// URL format: GET /api/auction/{auction_id}
func (h *Handler) HandleGetAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := parseID("auction_id", r.PathValue("auction_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	a, err := h.service.GetAuction(auctionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

// HandleListBids returns all bids for an auction. An unknown auction yields
// an empty list rather than an error.
//
// URL format: GET /api/auction/{auction_id}/bid/list
func (h *Handler) HandleListBids(w http.ResponseWriter, r *http.Request) {
	auctionID, err := parseID("auction_id", r.PathValue("auction_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.service.ListBids(auctionID))
}

// HandleGetBid returns a single bid by id.
//
// URL format: GET /api/auction/{auction_id}/bid/{bid_id}
func (h *Handler) HandleGetBid(w http.ResponseWriter, r *http.Request) {
	auctionID, err := parseID("auction_id", r.PathValue("auction_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	bidID, err := parseID("bid_id", r.PathValue("bid_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	bid, err := h.service.GetBid(auctionID, bidID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bid)
}

// HandleCreateBid verifies and records a signed bid.
//
// URL format: POST /api/auction/{auction_id}/bid/create
//
// The request carries the full term tuple the bidder signed over plus the
// signature itself. A signature that does not match the claimed bidder and
// terms is rejected without recording anything.
func (h *Handler) HandleCreateBid(w http.ResponseWriter, r *http.Request) {
	auctionID, err := parseID("auction_id", r.PathValue("auction_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req CreateBidRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	terms, err := req.TermsPayload.Parse()
	if err != nil {
		h.writeError(w, err)
		return
	}
	signature, err := parseSignature("bidderSignature", req.BidderSignature)
	if err != nil {
		h.writeError(w, err)
		return
	}

	bid, err := h.service.SubmitBid(auctionID, terms, signature)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, bid)
}

// HandleApproveBid verifies the owner's signature and performs the one-shot
// approval transition.
//
// URL format: POST /api/auction/{auction_id}/bid/approve
func (h *Handler) HandleApproveBid(w http.ResponseWriter, r *http.Request) {
	auctionID, err := parseID("auction_id", r.PathValue("auction_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req ApproveBidRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	bidID, err := parseID("bidId", req.BidID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	terms, err := req.TermsPayload.Parse()
	if err != nil {
		h.writeError(w, err)
		return
	}
	signature, err := parseSignature("ownerSignature", req.OwnerSignature)
	if err != nil {
		h.writeError(w, err)
		return
	}

	approved, err := h.service.ApproveBid(auctionID, bidID, terms, signature)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, approved)
}

// Parse validates the payload and converts it into auction terms.
func (p TermsPayload) Parse() (auction.Terms, error) {
	assetAddress, err := parseAddress("assetAddress", p.AssetAddress)
	if err != nil {
		return auction.Terms{}, err
	}
	assetTokenID, err := parseUint256("assetTokenId", p.AssetTokenID)
	if err != nil {
		return auction.Terms{}, err
	}
	owner, err := parseAddress("owner", p.Owner)
	if err != nil {
		return auction.Terms{}, err
	}
	minPrice, err := parseUint256("minPrice", p.MinPrice)
	if err != nil {
		return auction.Terms{}, err
	}
	settlementAssetAddress, err := parseAddress("settlementAssetAddress", p.SettlementAssetAddress)
	if err != nil {
		return auction.Terms{}, err
	}
	bidder, err := parseAddress("bidder", p.Bidder)
	if err != nil {
		return auction.Terms{}, err
	}
	amount, err := parseUint256("amount", p.Amount)
	if err != nil {
		return auction.Terms{}, err
	}

	return auction.Terms{
		AssetAddress:           assetAddress,
		AssetTokenID:           assetTokenID,
		Owner:                  owner,
		MinPrice:               minPrice,
		SettlementAssetAddress: settlementAssetAddress,
		Bidder:                 bidder,
		Amount:                 amount,
	}, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: could not parse request body: %w", auction.ErrMalformedInput, err)
	}
	return nil
}

func parseAddress(field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%w: %s is not a valid address", auction.ErrMalformedInput, field)
	}
	return common.HexToAddress(value), nil
}

func parseUint256(field, value string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok || v.Sign() < 0 || v.BitLen() > 256 {
		return nil, fmt.Errorf("%w: %s must be a non-negative decimal integer", auction.ErrMalformedInput, field)
	}
	return v, nil
}

func parseSignature(field, value string) ([]byte, error) {
	signature, err := hexutil.Decode(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", auction.ErrMalformedInput, field, err)
	}
	return signature, nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", auction.ErrMalformedInput, field)
	}
	return id, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auction.ErrAuctionNotFound), errors.Is(err, auction.ErrBidNotFound):
		status = http.StatusNotFound
	case errors.Is(err, auction.ErrAlreadyApproved):
		status = http.StatusConflict
	case errors.Is(err, auction.ErrInvalidSignature), errors.Is(err, auction.ErrMalformedInput):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
