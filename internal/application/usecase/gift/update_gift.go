package gift

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// UpdateGiftInput represents the input for editing a gift.
type UpdateGiftInput struct {
	GiftID      uuid.UUID
	RequesterID uuid.UUID
	Name        string
	Description *string
	URL         *string
}

// UpdateGiftOutput represents the output of editing a gift.
type UpdateGiftOutput struct {
	Gift *entity.Gift
	// NotifiedClaimant is set when the gift was claimed and its claimant was told.
	NotifiedClaimant bool
}

// UpdateGiftUseCase handles requester edits, warning the claimant if any.
type UpdateGiftUseCase struct {
	giftRepo  adapter.GiftRepository
	groupRepo adapter.GroupRepository
	scraper   adapter.ImageScraper
	notifier  adapter.Notifier
}

// NewUpdateGiftUseCase creates a new UpdateGiftUseCase instance.
func NewUpdateGiftUseCase(
	giftRepo adapter.GiftRepository,
	groupRepo adapter.GroupRepository,
	scraper adapter.ImageScraper,
	notifier adapter.Notifier,
) *UpdateGiftUseCase {
	return &UpdateGiftUseCase{
		giftRepo:  giftRepo,
		groupRepo: groupRepo,
		scraper:   scraper,
		notifier:  notifier,
	}
}

// Execute updates the gift in place.
func (uc *UpdateGiftUseCase) Execute(ctx context.Context, input UpdateGiftInput) (*UpdateGiftOutput, error) {
	gift, group, err := loadOwnedGift(ctx, uc.giftRepo, uc.groupRepo, input.GiftID, input.RequesterID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	giftURL := normalizeOptional(input.URL)
	if err := validateGift(name, giftURL); err != nil {
		return nil, err
	}

	originalName := gift.Name
	if !sameURL(gift.URL, giftURL) {
		if image := scrapeImage(ctx, uc.scraper, giftURL); image != nil {
			gift.ImageURL = image
		}
	}
	gift.Name = name
	gift.Description = normalizeOptional(input.Description)
	gift.URL = giftURL
	gift.UpdatedAt = time.Now().UTC()

	if err := uc.giftRepo.Update(ctx, gift); err != nil {
		return nil, fmt.Errorf("failed to update gift: %w", err)
	}

	// Re-read so a claim that landed during the edit is still notified.
	current, err := uc.giftRepo.FindByID(ctx, gift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload gift: %w", err)
	}
	if current == nil {
		current = gift
	}

	output := &UpdateGiftOutput{Gift: current}
	if current.ClaimantID != nil {
		notifyClaimant(ctx, uc.notifier, group, *current.ClaimantID, entity.NotificationGiftModified, originalName)
		output.NotifiedClaimant = true
	}

	return output, nil
}

func sameURL(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
