package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/cre8tar/c8r/internal/auth"
	"github.com/cre8tar/c8r/internal/nft"
)

// NFTAPI exposes avatar minting and marketplace purchase methods.
type NFTAPI struct {
	service *nft.Service
}

// NewNFTAPI creates a new NFT API
func NewNFTAPI(service *nft.Service) *NFTAPI {
	return &NFTAPI{service: service}
}

// PurchaseParams is the payload for nft.purchase
type PurchaseParams struct {
	Item  string `json:"item"`
	Price int64  `json:"price"`
}

// Mint handles nft.mint
func (a *NFTAPI) Mint(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	var req nft.MintRequest
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, invalidParamsf("invalid parameters format")
	}

	minted, err := a.service.Mint(c.Request.Context(), accountID, &req)
	if err != nil {
		return nil, err
	}

	return minted, nil
}

// Purchase handles nft.purchase
func (a *NFTAPI) Purchase(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	var p PurchaseParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, invalidParamsf("invalid parameters format")
	}
	if p.Item == "" {
		return nil, invalidParamsf("missing required parameter: item")
	}

	entry, err := a.service.Purchase(c.Request.Context(), accountID, p.Item, p.Price)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ListOwned handles nft.list_owned
func (a *NFTAPI) ListOwned(c *gin.Context, params json.RawMessage) (interface{}, error) {
	accountID := auth.AccountID(c)

	nfts, err := a.service.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		return nil, err
	}

	return nfts, nil
}
