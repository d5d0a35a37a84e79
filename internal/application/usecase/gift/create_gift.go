package gift

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/application/usecase/group"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// CreateGiftInput represents the input for adding a wishlist item.
type CreateGiftInput struct {
	Name        string
	Description *string
	URL         *string
	GroupID     uuid.UUID
	RequesterID uuid.UUID
}

// CreateGiftOutput represents the output of adding a wishlist item.
type CreateGiftOutput struct {
	Gift *entity.Gift
}

// CreateGiftUseCase handles adding a gift to the requester's wishlist.
type CreateGiftUseCase struct {
	giftRepo  adapter.GiftRepository
	groupRepo adapter.GroupRepository
	scraper   adapter.ImageScraper
}

// NewCreateGiftUseCase creates a new CreateGiftUseCase instance.
// scraper may be nil, in which case gifts are stored without an image.
func NewCreateGiftUseCase(giftRepo adapter.GiftRepository, groupRepo adapter.GroupRepository, scraper adapter.ImageScraper) *CreateGiftUseCase {
	return &CreateGiftUseCase{
		giftRepo:  giftRepo,
		groupRepo: groupRepo,
		scraper:   scraper,
	}
}

// Execute creates the gift.
func (uc *CreateGiftUseCase) Execute(ctx context.Context, input CreateGiftInput) (*CreateGiftOutput, error) {
	if input.GroupID == uuid.Nil {
		return nil, domainerror.NewGiftError(
			domainerror.ErrCodeGroupIDRequired,
			"group id is required",
			domainerror.ErrGroupIDRequired,
		)
	}

	name := strings.TrimSpace(input.Name)
	giftURL := normalizeOptional(input.URL)
	if err := validateGift(name, giftURL); err != nil {
		return nil, err
	}

	g, _, err := group.RequireMembership(ctx, uc.groupRepo, input.GroupID, input.RequesterID)
	if err != nil {
		return nil, err
	}
	if g.Archived {
		return nil, domainerror.NewGroupArchivedError()
	}

	gift := entity.NewGift(name, normalizeOptional(input.Description), giftURL, input.RequesterID, input.GroupID)
	gift.ImageURL = scrapeImage(ctx, uc.scraper, giftURL)

	if err := uc.giftRepo.Create(ctx, gift); err != nil {
		return nil, fmt.Errorf("failed to create gift: %w", err)
	}

	return &CreateGiftOutput{
		Gift: gift,
	}, nil
}
