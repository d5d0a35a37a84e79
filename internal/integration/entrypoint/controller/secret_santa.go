package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giftcircle/backend/internal/application/usecase/secretsanta"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/entrypoint/dto"
)

const pairingsCreatedMessage = "Emparejamientos realizados exitosamente"

// PairingRecorder observes completed draws.
type PairingRecorder interface {
	AddPairings(n int)
}

// SecretSantaController handles the draw and assignment endpoints.
type SecretSantaController struct {
	generateUseCase   *secretsanta.GeneratePairingsUseCase
	assignmentUseCase *secretsanta.GetMyAssignmentUseCase
	recorder          PairingRecorder
}

// NewSecretSantaController creates a new controller instance. recorder may be nil.
func NewSecretSantaController(
	generateUseCase *secretsanta.GeneratePairingsUseCase,
	assignmentUseCase *secretsanta.GetMyAssignmentUseCase,
	recorder PairingRecorder,
) *SecretSantaController {
	return &SecretSantaController{
		generateUseCase:   generateUseCase,
		assignmentUseCase: assignmentUseCase,
		recorder:          recorder,
	}
}

// Generate handles POST /groups/:id/secret-santa/pairings requests.
func (c *SecretSantaController) Generate(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	groupID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGroupNotFound))
	if !ok {
		return
	}

	output, err := c.generateUseCase.Execute(ctx.Request.Context(), secretsanta.GeneratePairingsInput{
		GroupID:     groupID,
		RequesterID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	if c.recorder != nil {
		c.recorder.AddPairings(output.Count)
	}

	ctx.JSON(http.StatusCreated, dto.GeneratePairingsResponse{
		Message: pairingsCreatedMessage,
		Count:   output.Count,
	})
}

// Assignment handles GET /groups/:id/secret-santa/assignment requests.
func (c *SecretSantaController) Assignment(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	groupID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGroupNotFound))
	if !ok {
		return
	}

	output, err := c.assignmentUseCase.Execute(ctx.Request.Context(), secretsanta.GetMyAssignmentInput{
		GroupID: groupID,
		UserID:  userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AssignmentResponse{
		HasPairing:   output.Assignment.HasPairing,
		ReceiverName: output.Assignment.ReceiverName,
		Message:      output.Message,
	})
}
