package models

import (
	"time"
)

// MintedNFT is the stored metadata of a minted avatar NFT. Rendering
// and the image upload pipeline live outside this service; only the
// resulting URL string is kept here.
type MintedNFT struct {
	ID                string    `gorm:"type:varchar(36);primaryKey;column:id"`
	AccountID         string    `gorm:"type:varchar(36);not null;index:minted_nfts_ix1;column:user_id"`
	Name              string    `gorm:"type:varchar(120);not null;column:name"`
	AvatarID          string    `gorm:"type:varchar(36);not null;default:'';column:avatar_id"`
	Description       string    `gorm:"type:varchar(512);not null;default:'';column:description"`
	ImageURL          string    `gorm:"type:varchar(1024);not null;default:'';column:image_url"`
	ModelSource       string    `gorm:"type:varchar(64);not null;default:'';column:model_source"`
	VoiceSample       string    `gorm:"type:varchar(1024);not null;default:'';column:voice_sample"`
	PersonalityTraits string    `gorm:"type:varchar(256);not null;default:'';column:personality_traits"`
	RoleType          string    `gorm:"type:varchar(64);not null;default:'';column:role_type"`
	Language          string    `gorm:"type:varchar(32);not null;default:'';column:language"`
	GesturePackage    string    `gorm:"type:varchar(64);not null;default:'';column:gesture_package"`
	NFTType           string    `gorm:"type:varchar(16);not null;default:'ERC-1155';column:nft_type"`
	RoyaltyPercentage int       `gorm:"not null;default:5;column:royalty_percentage"`
	CreatedAt         time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for MintedNFT
func (MintedNFT) TableName() string {
	return "minted_nfts"
}
