package dto

import (
	"time"

	"github.com/giftcircle/backend/internal/application/usecase/wishlist"
	"github.com/giftcircle/backend/internal/domain/entity"
)

// CreateGiftRequest represents the request body for adding a gift.
type CreateGiftRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	GroupID     string  `json:"group_id" binding:"required,uuid"`
}

// UpdateGiftRequest represents the request body for editing a gift.
type UpdateGiftRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
}

// OwnGiftResponse is a gift as its requester sees it. Claimant identity is
// never exposed to the requester, only whether the gift is taken.
type OwnGiftResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description"`
	URL                *string   `json:"url"`
	ImageURL           *string   `json:"image_url"`
	GroupID            string    `json:"group_id"`
	IsClaimed          bool      `json:"is_claimed"`
	DeletedByRequester bool      `json:"deleted_by_requester"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// OwnGiftListResponse wraps the requester's gifts.
type OwnGiftListResponse struct {
	Gifts []OwnGiftResponse `json:"gifts"`
}

// DeleteGiftResponse reports how a gift was removed.
type DeleteGiftResponse struct {
	Message     string `json:"message"`
	SoftDeleted bool   `json:"soft_deleted"`
}

// ClaimResponse is returned by the buy and unbuy endpoints.
type ClaimResponse struct {
	ID          string     `json:"id"`
	ClaimStatus string     `json:"claim_status"`
	ClaimedAt   *time.Time `json:"claimed_at,omitempty"`
}

// WishlistItemResponse is one anonymized wishlist entry.
type WishlistItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	URL         *string   `json:"url"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	ClaimStatus string    `json:"claim_status"`
}

// WishlistResponse is the wishlist a member may see.
type WishlistResponse struct {
	Open     bool                   `json:"open"`
	Message  string                 `json:"message,omitempty"`
	StartsAt time.Time              `json:"starts_at"`
	Items    []WishlistItemResponse `json:"items"`
}

// ToOwnGiftResponse converts a gift for its requester.
func ToOwnGiftResponse(g *entity.Gift) OwnGiftResponse {
	return OwnGiftResponse{
		ID:                 g.ID.String(),
		Name:               g.Name,
		Description:        g.Description,
		URL:                g.URL,
		ImageURL:           g.ImageURL,
		GroupID:            g.GroupID.String(),
		IsClaimed:          g.IsClaimed(),
		DeletedByRequester: g.DeletedByRequester,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
}

// ToOwnGiftListResponse converts the requester's gifts.
func ToOwnGiftListResponse(gifts []*entity.Gift) OwnGiftListResponse {
	out := make([]OwnGiftResponse, len(gifts))
	for i, g := range gifts {
		out[i] = ToOwnGiftResponse(g)
	}
	return OwnGiftListResponse{Gifts: out}
}

// ToClaimResponse converts a gift after a claim transition.
func ToClaimResponse(g *entity.Gift, viewer entity.ClaimStatus) ClaimResponse {
	return ClaimResponse{
		ID:          g.ID.String(),
		ClaimStatus: string(viewer),
		ClaimedAt:   g.ClaimedAt,
	}
}

// ToWishlistResponse converts the wishlist use case output.
func ToWishlistResponse(out *wishlist.GetVisibleWishlistOutput) WishlistResponse {
	items := make([]WishlistItemResponse, len(out.Items))
	for i, it := range out.Items {
		items[i] = WishlistItemResponse{
			ID:          it.ID.String(),
			Name:        it.Name,
			Description: it.Description,
			URL:         it.URL,
			ImageURL:    it.ImageURL,
			CreatedAt:   it.CreatedAt,
			ClaimStatus: string(it.ClaimStatus),
		}
	}
	return WishlistResponse{
		Open:     out.Open,
		Message:  out.Message,
		StartsAt: out.StartsAt,
		Items:    items,
	}
}
