package nft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cre8tar/c8r/internal/ledger"
	"github.com/cre8tar/c8r/internal/models"
	"github.com/cre8tar/c8r/pkg/logging"
	"github.com/cre8tar/c8r/pkg/telemetry"
)

// MintCost is the fixed minting cost in smallest token units.
const MintCost = 100

// RoyaltyPercentage is fixed for all minted avatars.
const RoyaltyPercentage = 5

// ErrInvalidName rejects mint requests without a name.
var ErrInvalidName = errors.New("nft name is required")

// ErrInvalidPrice rejects purchases with a non-positive price.
var ErrInvalidPrice = errors.New("price must be positive")

// Store is the persistence contract for minted NFTs. Mint debits the
// cost and inserts the NFT row in one transaction; a failed debit
// aborts the mint before any row exists.
type Store interface {
	Mint(ctx context.Context, nft *models.MintedNFT, cost int64, description string) error
	ListByAccount(ctx context.Context, accountID string) ([]*models.MintedNFT, error)
}

// MintRequest carries the avatar metadata for a mint operation.
// Rendering and upload happen outside this service; ImageURL is the
// already-uploaded location.
type MintRequest struct {
	Name              string `json:"name"`
	AvatarID          string `json:"avatar_id"`
	Description       string `json:"description"`
	ImageURL          string `json:"image_url"`
	ModelSource       string `json:"model_source"`
	VoiceSample       string `json:"voice_sample"`
	PersonalityTraits string `json:"personality_traits"`
	RoleType          string `json:"role_type"`
	Language          string `json:"language"`
	GesturePackage    string `json:"gesture_package"`
	NFTType           string `json:"nft_type"`
}

// Service mints avatar NFTs and settles marketplace purchases against
// the ledger.
type Service struct {
	store   Store
	balance *ledger.Service
	logger  *zap.Logger
}

// NewService creates a new NFT service
func NewService(store Store, balance *ledger.Service) *Service {
	return &Service{
		store:   store,
		balance: balance,
		logger:  logging.WithComponent("nft"),
	}
}

// Mint charges the fixed mint cost and records the avatar NFT.
func (s *Service) Mint(ctx context.Context, accountID string, req *MintRequest) (*models.MintedNFT, error) {
	ctx, span := telemetry.StartSpan(ctx, "nft.mint")
	defer span.End()

	if req.Name == "" {
		return nil, ErrInvalidName
	}
	nftType := req.NFTType
	if nftType == "" {
		nftType = "ERC-1155"
	}

	minted := &models.MintedNFT{
		ID:                uuid.NewString(),
		AccountID:         accountID,
		Name:              req.Name,
		AvatarID:          req.AvatarID,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
		ModelSource:       req.ModelSource,
		VoiceSample:       req.VoiceSample,
		PersonalityTraits: req.PersonalityTraits,
		RoleType:          req.RoleType,
		Language:          req.Language,
		GesturePackage:    req.GesturePackage,
		NFTType:           nftType,
		RoyaltyPercentage: RoyaltyPercentage,
		CreatedAt:         time.Now().UTC(),
	}

	description := fmt.Sprintf("Minted avatar: %s", req.Name)
	if err := s.store.Mint(ctx, minted, MintCost, description); err != nil {
		return nil, err
	}

	s.logger.Info("Avatar minted",
		zap.String("nft_id", minted.ID),
		zap.String("account_id", accountID),
		zap.String("name", req.Name))

	return minted, nil
}

// Purchase debits the item price from the buyer. Plugin and NFT
// marketplace purchases share this path.
func (s *Service) Purchase(ctx context.Context, accountID, itemName string, price int64) (*models.LedgerEntry, error) {
	ctx, span := telemetry.StartSpan(ctx, "nft.purchase")
	defer span.End()

	if price <= 0 {
		return nil, ErrInvalidPrice
	}

	description := fmt.Sprintf("Purchased %s", itemName)
	entry, err := s.balance.Debit(ctx, accountID, price, models.EntryKindPurchase, description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Marketplace purchase",
		zap.String("account_id", accountID),
		zap.String("item", itemName),
		zap.Int64("price", price))

	return entry, nil
}

// ListByAccount lists the NFTs minted by an account, newest first.
func (s *Service) ListByAccount(ctx context.Context, accountID string) ([]*models.MintedNFT, error) {
	return s.store.ListByAccount(ctx, accountID)
}
