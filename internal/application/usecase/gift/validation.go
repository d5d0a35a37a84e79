// Package gift contains the wishlist item use cases and the claim state machine.
package gift

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/adapter"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
)

// MaxGiftNameLength is the maximum allowed length for a gift name.
const MaxGiftNameLength = 200

// normalizeOptional trims s and turns blanks into nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateGift(name string, rawURL *string) error {
	if name == "" {
		return domainerror.NewGiftError(
			domainerror.ErrCodeGiftNameRequired,
			"gift name is required",
			domainerror.ErrGiftNameRequired,
		)
	}
	if len(name) > MaxGiftNameLength {
		return domainerror.NewGiftError(
			domainerror.ErrCodeGiftNameTooLong,
			fmt.Sprintf("gift name must be at most %d characters", MaxGiftNameLength),
			domainerror.ErrGiftNameTooLong,
		)
	}
	if rawURL != nil {
		u, err := url.Parse(*rawURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return domainerror.NewGiftError(
				domainerror.ErrCodeInvalidGiftURL,
				"url must be an absolute http or https address",
				domainerror.ErrInvalidGiftURL,
			)
		}
	}
	return nil
}

// scrapeImage resolves a product image, treating every failure as "no image".
func scrapeImage(ctx context.Context, scraper adapter.ImageScraper, pageURL *string) *string {
	if scraper == nil || pageURL == nil {
		return nil
	}
	image, err := scraper.ScrapeImage(ctx, *pageURL)
	if err != nil {
		slog.Warn("Failed to scrape gift image", "error", err, "url", *pageURL)
		return nil
	}
	if image == "" {
		return nil
	}
	return &image
}

// loadLiveGift returns the gift unless it is missing or removed by its requester.
func loadLiveGift(ctx context.Context, giftRepo adapter.GiftRepository, giftID uuid.UUID) (*entity.Gift, error) {
	gift, err := giftRepo.FindByID(ctx, giftID)
	if err != nil {
		return nil, fmt.Errorf("failed to find gift: %w", err)
	}
	if gift == nil || gift.DeletedByRequester {
		return nil, domainerror.NewGiftNotFoundError()
	}
	return gift, nil
}

// loadOwnedGift loads a live gift for a requester-only mutation and applies
// the ownership and archived-group guards.
func loadOwnedGift(ctx context.Context, giftRepo adapter.GiftRepository, groupRepo adapter.GroupRepository, giftID, requesterID uuid.UUID) (*entity.Gift, *entity.Group, error) {
	gift, err := loadLiveGift(ctx, giftRepo, giftID)
	if err != nil {
		return nil, nil, err
	}
	if gift.RequesterID != requesterID {
		return nil, nil, domainerror.NewGiftError(
			domainerror.ErrCodeNotGiftOwner,
			"only the requester can modify this gift",
			domainerror.ErrNotGiftOwner,
		)
	}

	group, err := groupRepo.FindGroupByID(ctx, gift.GroupID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find group: %w", err)
	}
	if group == nil {
		return nil, nil, domainerror.NewGroupNotFoundError()
	}
	if group.Archived {
		return nil, nil, domainerror.NewGroupArchivedError()
	}
	return gift, group, nil
}

// notifyClaimant tells the current claimant of a gift about a requester change.
func notifyClaimant(ctx context.Context, notifier adapter.Notifier, group *entity.Group, claimantID uuid.UUID, kind entity.NotificationKind, originalName string) {
	if notifier == nil {
		return
	}
	notifier.Notify(ctx, adapter.NotificationEvent{
		Kind:         kind,
		TargetUserID: claimantID,
		GroupID:      group.ID,
		GroupName:    group.Name,
		GiftName:     originalName,
	})
}
