package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/cre8tar/c8r/internal/models"
)

// NFTStore implements nft.Store on PostgreSQL.
type NFTStore struct {
	db *gorm.DB
}

// NewNFTStore creates a new NFT store
func NewNFTStore(database *DB) *NFTStore {
	return &NFTStore{db: database.DB}
}

// Mint debits the mint cost and inserts the NFT row in one
// transaction. A failed debit aborts before any NFT row exists.
func (s *NFTStore) Mint(ctx context.Context, nft *models.MintedNFT, cost int64, description string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := debitTx(tx, nft.AccountID, cost, models.EntryKindMintCost, description); err != nil {
			return err
		}
		return tx.Create(nft).Error
	})
}

// ListByAccount retrieves an account's minted NFTs, newest first
func (s *NFTStore) ListByAccount(ctx context.Context, accountID string) ([]*models.MintedNFT, error) {
	var nfts []*models.MintedNFT
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", accountID).
		Order("created_at DESC").
		Find(&nfts).Error; err != nil {
		return nil, err
	}
	return nfts, nil
}
