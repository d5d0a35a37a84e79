package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/application/usecase/notification"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/entrypoint/dto"
)

// NotificationController handles in-app notification endpoints.
type NotificationController struct {
	listUseCase     *notification.ListNotificationsUseCase
	markReadUseCase *notification.MarkReadUseCase
}

// NewNotificationController creates a new notification controller instance.
func NewNotificationController(
	listUseCase *notification.ListNotificationsUseCase,
	markReadUseCase *notification.MarkReadUseCase,
) *NotificationController {
	return &NotificationController{
		listUseCase:     listUseCase,
		markReadUseCase: markReadUseCase,
	}
}

// Unread handles GET /notifications/unread requests.
func (c *NotificationController) Unread(ctx *gin.Context) {
	c.list(ctx, true)
}

// All handles GET /notifications requests.
func (c *NotificationController) All(ctx *gin.Context) {
	c.list(ctx, false)
}

func (c *NotificationController) list(ctx *gin.Context, unreadOnly bool) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), notification.ListInput{
		UserID:     userID,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToNotificationListResponse(output.Notifications))
}

// MarkRead handles PUT /notifications/read requests. An empty or missing
// body marks everything as read.
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.MarkReadRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidNotificationID))
			return
		}
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(ctx, domainerror.NewNotificationError(
				domainerror.ErrCodeInvalidNotificationID,
				"invalid notification id: "+raw,
				domainerror.ErrInvalidNotificationID,
			))
			return
		}
		ids = append(ids, id)
	}

	output, err := c.markReadUseCase.Execute(ctx.Request.Context(), notification.MarkReadInput{
		UserID: userID,
		IDs:    ids,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MarkReadResponse{Updated: output.Updated})
}
