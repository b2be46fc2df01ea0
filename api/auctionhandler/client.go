package auctionhandler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/ruteri/offchain-auction-backend/auction"
)

// Client is a typed HTTP client for the auction API. The zero http.Client is
// used unless one is provided.
type Client struct {
	BaseURL string
	Client  *http.Client
}

// NewClient creates a client for the auction API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Client:  http.DefaultClient,
	}
}

// CreateAuction publishes a new auction and returns the stored record.
func (c *Client) CreateAuction(req CreateAuctionRequest) (*auction.Auction, error) {
	var out auction.Auction
	if err := c.postJSON(fmt.Sprintf("%s/api/auction/create", c.BaseURL), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAuctions returns all auctions known to the server.
func (c *Client) ListAuctions() ([]auction.Auction, error) {
	var out []auction.Auction
	if err := c.getJSON(fmt.Sprintf("%s/api/auction/list", c.BaseURL), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAuction fetches a single auction by id.
func (c *Client) GetAuction(auctionID uuid.UUID) (*auction.Auction, error) {
	var out auction.Auction
	if err := c.getJSON(fmt.Sprintf("%s/api/auction/%s", c.BaseURL, auctionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBids fetches all bids recorded for an auction.
func (c *Client) ListBids(auctionID uuid.UUID) ([]auction.Bid, error) {
	var out []auction.Bid
	if err := c.getJSON(fmt.Sprintf("%s/api/auction/%s/bid/list", c.BaseURL, auctionID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitBid submits a signed bid against an auction.
func (c *Client) SubmitBid(auctionID uuid.UUID, req CreateBidRequest) (*auction.Bid, error) {
	var out auction.Bid
	if err := c.postJSON(fmt.Sprintf("%s/api/auction/%s/bid/create", c.BaseURL, auctionID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveBid submits the owner's approval of a specific bid.
func (c *Client) ApproveBid(auctionID uuid.UUID, req ApproveBidRequest) (*auction.Auction, error) {
	var out auction.Auction
	if err := c.postJSON(fmt.Sprintf("%s/api/auction/%s/bid/approve", c.BaseURL, auctionID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	resp, err := c.httpClient().Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, out)
}

func (c *Client) getJSON(url string, out any) error {
	resp, err := c.httpClient().Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return decodeResponse(resp, out)
}

func (c *Client) httpClient() *http.Client {
	if c.Client == nil {
		return http.DefaultClient
	}
	return c.Client
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("could not parse response: %w", err)
	}
	return nil
}
