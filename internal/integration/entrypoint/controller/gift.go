package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/usecase/gift"
	"github.com/giftcircle/backend/internal/application/usecase/wishlist"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/entrypoint/dto"
)

// Claim outcomes reported to the ClaimRecorder.
const (
	claimResultClaimed  = "claimed"
	claimResultReleased = "released"
	claimResultConflict = "conflict"
	claimResultRejected = "rejected"
)

// ClaimRecorder observes claim transitions.
type ClaimRecorder interface {
	ObserveClaim(result string)
}

// GiftController handles gift, claim and wishlist endpoints.
type GiftController struct {
	createUseCase   *gift.CreateGiftUseCase
	listMineUseCase *gift.ListMyGiftsUseCase
	updateUseCase   *gift.UpdateGiftUseCase
	deleteUseCase   *gift.DeleteGiftUseCase
	buyUseCase      *gift.MarkAsBoughtUseCase
	unbuyUseCase    *gift.UnmarkAsBoughtUseCase
	wishlistUseCase *wishlist.GetVisibleWishlistUseCase
	recorder        ClaimRecorder
}

// NewGiftController creates a new gift controller instance. recorder may be nil.
func NewGiftController(
	createUseCase *gift.CreateGiftUseCase,
	listMineUseCase *gift.ListMyGiftsUseCase,
	updateUseCase *gift.UpdateGiftUseCase,
	deleteUseCase *gift.DeleteGiftUseCase,
	buyUseCase *gift.MarkAsBoughtUseCase,
	unbuyUseCase *gift.UnmarkAsBoughtUseCase,
	wishlistUseCase *wishlist.GetVisibleWishlistUseCase,
	recorder ClaimRecorder,
) *GiftController {
	return &GiftController{
		createUseCase:   createUseCase,
		listMineUseCase: listMineUseCase,
		updateUseCase:   updateUseCase,
		deleteUseCase:   deleteUseCase,
		buyUseCase:      buyUseCase,
		unbuyUseCase:    unbuyUseCase,
		wishlistUseCase: wishlistUseCase,
		recorder:        recorder,
	}
}

// Create handles POST /gifts requests.
func (c *GiftController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateGiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingGiftFields))
		return
	}
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		badRequest(ctx, "Invalid group_id format", string(domainerror.ErrCodeGroupIDRequired))
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), gift.CreateGiftInput{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		GroupID:     groupID,
		RequesterID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToOwnGiftResponse(output.Gift))
}

// ListMine handles GET /groups/:id/gifts/mine requests.
func (c *GiftController) ListMine(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	groupID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGroupNotFound))
	if !ok {
		return
	}

	output, err := c.listMineUseCase.Execute(ctx.Request.Context(), gift.ListMyGiftsInput{
		GroupID:     groupID,
		RequesterID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOwnGiftListResponse(output.Gifts))
}

// Update handles PUT /gifts/:id requests.
func (c *GiftController) Update(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	giftID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGiftNotFound))
	if !ok {
		return
	}

	var req dto.UpdateGiftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingGiftFields))
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), gift.UpdateGiftInput{
		GiftID:      giftID,
		RequesterID: userID,
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOwnGiftResponse(output.Gift))
}

// Delete handles DELETE /gifts/:id requests.
func (c *GiftController) Delete(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	giftID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGiftNotFound))
	if !ok {
		return
	}

	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), gift.DeleteGiftInput{
		GiftID:      giftID,
		RequesterID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteGiftResponse{
		Message:     "Gift deleted",
		SoftDeleted: output.SoftDeleted,
	})
}

// Buy handles PUT /gifts/:id/buy requests.
func (c *GiftController) Buy(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	giftID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGiftNotFound))
	if !ok {
		return
	}

	output, err := c.buyUseCase.Execute(ctx.Request.Context(), gift.ClaimInput{GiftID: giftID, UserID: userID})
	if err != nil {
		c.observeFailure(err)
		respondError(ctx, err)
		return
	}
	c.observe(claimResultClaimed)

	ctx.JSON(http.StatusOK, dto.ToClaimResponse(output.Gift, output.Gift.ClaimStatusFor(userID)))
}

// Unbuy handles PUT /gifts/:id/unbuy requests.
func (c *GiftController) Unbuy(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	giftID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGiftNotFound))
	if !ok {
		return
	}

	output, err := c.unbuyUseCase.Execute(ctx.Request.Context(), gift.ClaimInput{GiftID: giftID, UserID: userID})
	if err != nil {
		c.observeFailure(err)
		respondError(ctx, err)
		return
	}
	c.observe(claimResultReleased)

	ctx.JSON(http.StatusOK, dto.ToClaimResponse(output.Gift, entity.ClaimStatusUnclaimed))
}

// Wishlist handles GET /groups/:id/wishlist requests.
func (c *GiftController) Wishlist(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	groupID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGroupNotFound))
	if !ok {
		return
	}

	output, err := c.wishlistUseCase.Execute(ctx.Request.Context(), wishlist.GetVisibleWishlistInput{
		GroupID:  groupID,
		ViewerID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToWishlistResponse(output))
}

func (c *GiftController) observeFailure(err error) {
	switch domainerror.KindOf(err) {
	case domainerror.KindConflict:
		c.observe(claimResultConflict)
	case domainerror.KindAuthorization, domainerror.KindNotFound:
		c.observe(claimResultRejected)
	}
}

func (c *GiftController) observe(result string) {
	if c.recorder != nil {
		c.recorder.ObserveClaim(result)
	}
}
