package main

import (
	"crypto/ecdsa"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ruteri/offchain-auction-backend/api/auctionhandler"
	"github.com/ruteri/offchain-auction-backend/auction"
	"github.com/ruteri/offchain-auction-backend/common"
	"github.com/urfave/cli/v2"
)

var flags []cli.Flag = []cli.Flag{
	&cli.StringFlag{
		Name:  "server-addr",
		Value: "http://127.0.0.1:8080",
		Usage: "base URL of the auction server",
	},
	&cli.StringFlag{
		Name:  "asset-address",
		Value: "0x1111111111111111111111111111111111111111",
		Usage: "token contract address of the auctioned asset",
	},
	&cli.StringFlag{
		Name:  "asset-token-id",
		Value: "1",
		Usage: "token id of the auctioned asset",
	},
	&cli.StringFlag{
		Name:  "settlement-asset-address",
		Value: "0x2222222222222222222222222222222222222222",
		Usage: "address of the token used for payment",
	},
	&cli.StringFlag{
		Name:  "min-price",
		Value: "100",
		Usage: "advisory minimum price",
	},
	&cli.StringFlag{
		Name:  "bid-amount",
		Value: "500",
		Usage: "amount the simulated bidder offers",
	},
}

func main() {
	app := &cli.App{
		Name:   "auction-simulate",
		Usage:  "Run a full sealed-bid negotiation against an auction server",
		Flags:  flags,
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := common.SetupLogger(&common.LoggingOpts{Service: "auction-simulate", Version: common.Version})
	client := auctionhandler.NewClient(cCtx.String("server-addr"))

	ownerKey, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("could not generate owner key: %w", err)
	}
	bidderKey, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("could not generate bidder key: %w", err)
	}

	owner := crypto.PubkeyToAddress(ownerKey.PublicKey)
	bidder := crypto.PubkeyToAddress(bidderKey.PublicKey)
	logger.Info("Generated keypairs", "owner", owner, "bidder", bidder)

	created, err := client.CreateAuction(auctionhandler.CreateAuctionRequest{
		AssetAddress:           cCtx.String("asset-address"),
		AssetTokenID:           cCtx.String("asset-token-id"),
		Owner:                  owner.Hex(),
		MinPrice:               cCtx.String("min-price"),
		SettlementAssetAddress: cCtx.String("settlement-asset-address"),
	})
	if err != nil {
		return fmt.Errorf("could not create auction: %w", err)
	}
	logger.Info("Auction created", "auctionId", created.ID)

	amount, ok := new(big.Int).SetString(cCtx.String("bid-amount"), 10)
	if !ok {
		return fmt.Errorf("invalid bid-amount %q", cCtx.String("bid-amount"))
	}

	terms := auction.Terms{
		AssetAddress:           created.AssetAddress,
		AssetTokenID:           created.AssetTokenID,
		Owner:                  created.Owner,
		MinPrice:               created.MinPrice,
		SettlementAssetAddress: created.SettlementAssetAddress,
		Bidder:                 bidder,
		Amount:                 amount,
	}
	digest := auction.Digest(terms)

	bidderSignature, err := signTerms(digest, bidderKey)
	if err != nil {
		return fmt.Errorf("could not sign bid: %w", err)
	}

	payload := auctionhandler.TermsPayload{
		AssetAddress:           created.AssetAddress.Hex(),
		AssetTokenID:           created.AssetTokenID.String(),
		Owner:                  created.Owner.Hex(),
		MinPrice:               created.MinPrice.String(),
		SettlementAssetAddress: created.SettlementAssetAddress.Hex(),
		Bidder:                 bidder.Hex(),
		Amount:                 amount.String(),
	}

	bid, err := client.SubmitBid(created.ID, auctionhandler.CreateBidRequest{
		TermsPayload:    payload,
		BidderSignature: bidderSignature,
	})
	if err != nil {
		return fmt.Errorf("could not submit bid: %w", err)
	}
	logger.Info("Bid recorded", "bidId", bid.ID, "amount", bid.Amount)

	ownerSignature, err := signTerms(digest, ownerKey)
	if err != nil {
		return fmt.Errorf("could not sign approval: %w", err)
	}

	approved, err := client.ApproveBid(created.ID, auctionhandler.ApproveBidRequest{
		TermsPayload:   payload,
		BidID:          bid.ID.String(),
		OwnerSignature: ownerSignature,
	})
	if err != nil {
		return fmt.Errorf("could not approve bid: %w", err)
	}

	logger.Info("Bid approved",
		"auctionId", approved.ID,
		"approvedBidId", approved.ApprovedBidID,
		"ownerSignature", approved.OwnerSignature,
		"bidderSignature", approved.BidderSignature,
	)
	return nil
}

// signTerms signs the digest and re-encodes V as 27/28 the way wallet
// tooling does, exercising the server's normalization path.
func signTerms(digest [32]byte, key *ecdsa.PrivateKey) (string, error) {
	signature, err := crypto.Sign(digest[:], key)
	if err != nil {
		return "", err
	}
	signature[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(signature), nil
}
