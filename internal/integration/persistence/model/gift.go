package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// GiftModel represents the gifts table in the database.
type GiftModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name               string     `gorm:"type:varchar(200);not null"`
	Description        *string    `gorm:"type:text"`
	URL                *string    `gorm:"type:text"`
	ImageURL           *string    `gorm:"type:text"`
	RequesterID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	GroupID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClaimantID         *uuid.UUID `gorm:"type:uuid;index"`
	ClaimedAt          *time.Time
	DeletedByRequester bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the GiftModel.
func (GiftModel) TableName() string {
	return "gifts"
}

// ToEntity converts a GiftModel to a domain Gift entity.
func (m *GiftModel) ToEntity() *entity.Gift {
	return &entity.Gift{
		ID:                 m.ID,
		Name:               m.Name,
		Description:        m.Description,
		URL:                m.URL,
		ImageURL:           m.ImageURL,
		RequesterID:        m.RequesterID,
		GroupID:            m.GroupID,
		ClaimantID:         m.ClaimantID,
		ClaimedAt:          m.ClaimedAt,
		DeletedByRequester: m.DeletedByRequester,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// GiftFromEntity creates a GiftModel from a domain Gift entity.
func GiftFromEntity(gift *entity.Gift) *GiftModel {
	return &GiftModel{
		ID:                 gift.ID,
		Name:               gift.Name,
		Description:        gift.Description,
		URL:                gift.URL,
		ImageURL:           gift.ImageURL,
		RequesterID:        gift.RequesterID,
		GroupID:            gift.GroupID,
		ClaimantID:         gift.ClaimantID,
		ClaimedAt:          gift.ClaimedAt,
		DeletedByRequester: gift.DeletedByRequester,
		CreatedAt:          gift.CreatedAt,
		UpdatedAt:          gift.UpdatedAt,
	}
}
