package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/giftcircle/backend/internal/application/usecase/group"
	"github.com/giftcircle/backend/internal/domain/entity"
	domainerror "github.com/giftcircle/backend/internal/domain/error"
	"github.com/giftcircle/backend/internal/integration/entrypoint/dto"
)

// GroupController handles group, membership and invitation endpoints.
type GroupController struct {
	createUseCase        *group.CreateGroupUseCase
	listUseCase          *group.ListGroupsUseCase
	getByCodeUseCase     *group.GetGroupByCodeUseCase
	joinUseCase          *group.JoinGroupUseCase
	listMembersUseCase   *group.ListMembersUseCase
	updateUseCase        *group.UpdateGroupUseCase
	archiveUseCase       *group.ArchiveGroupUseCase
	inviteUseCase        *group.InviteMembersUseCase
	previewInviteUseCase *group.PreviewInviteUseCase
	acceptInviteUseCase  *group.AcceptInviteUseCase
}

// NewGroupController creates a new group controller instance.
func NewGroupController(
	createUseCase *group.CreateGroupUseCase,
	listUseCase *group.ListGroupsUseCase,
	getByCodeUseCase *group.GetGroupByCodeUseCase,
	joinUseCase *group.JoinGroupUseCase,
	listMembersUseCase *group.ListMembersUseCase,
	updateUseCase *group.UpdateGroupUseCase,
	archiveUseCase *group.ArchiveGroupUseCase,
	inviteUseCase *group.InviteMembersUseCase,
	previewInviteUseCase *group.PreviewInviteUseCase,
	acceptInviteUseCase *group.AcceptInviteUseCase,
) *GroupController {
	return &GroupController{
		createUseCase:        createUseCase,
		listUseCase:          listUseCase,
		getByCodeUseCase:     getByCodeUseCase,
		joinUseCase:          joinUseCase,
		listMembersUseCase:   listMembersUseCase,
		updateUseCase:        updateUseCase,
		archiveUseCase:       archiveUseCase,
		inviteUseCase:        inviteUseCase,
		previewInviteUseCase: previewInviteUseCase,
		acceptInviteUseCase:  acceptInviteUseCase,
	}
}

// Create handles POST /groups requests.
func (c *GroupController) Create(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingGroupFields))
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), group.CreateGroupInput{
		Name:            req.Name,
		GameMode:        entity.GameMode(req.GameMode),
		CelebrationType: entity.CelebrationType(req.CelebrationType),
		EventDate:       req.EventDate,
		CreatorID:       userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToGroupResponse(output.Group))
}

// List handles GET /groups requests. ?archived=true lists archived groups.
func (c *GroupController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	archived, _ := strconv.ParseBool(ctx.DefaultQuery("archived", "false"))

	output, err := c.listUseCase.Execute(ctx.Request.Context(), group.ListGroupsInput{
		UserID:   userID,
		Archived: archived,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGroupListResponse(output.Groups))
}

// GetByCode handles GET /groups/code/:code requests.
func (c *GroupController) GetByCode(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	output, err := c.getByCodeUseCase.Execute(ctx.Request.Context(), group.GetGroupByCodeInput{
		Code:     ctx.Param("code"),
		ViewerID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.GroupByCodeResponse{
		Group:       dto.ToGroupResponse(output.Group),
		IsMember:    output.IsMember,
		MemberCount: output.MemberCount,
		CreatorName: output.CreatorName,
	})
}

// Join handles POST /groups/code/:code/join requests.
func (c *GroupController) Join(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	output, err := c.joinUseCase.Execute(ctx.Request.Context(), group.JoinGroupInput{
		Code:   ctx.Param("code"),
		UserID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToGroupResponse(output.Group))
}

// Members handles GET /groups/:id/members requests.
func (c *GroupController) Members(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	groupID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGroupNotFound))
	if !ok {
		return
	}

	output, err := c.listMembersUseCase.Execute(ctx.Request.Context(), group.ListMembersInput{
		GroupID:  groupID,
		ViewerID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMemberListResponse(output.Members))
}

// Update handles PUT /groups/:id requests.
func (c *GroupController) Update(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	groupID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGroupNotFound))
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingGroupFields))
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), group.UpdateGroupInput{
		GroupID:         groupID,
		RequesterID:     userID,
		Name:            req.Name,
		CelebrationType: entity.CelebrationType(req.CelebrationType),
		EventDate:       req.EventDate,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGroupResponse(output.Group))
}

// Archive handles POST /groups/:id/archive requests.
func (c *GroupController) Archive(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	groupID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGroupNotFound))
	if !ok {
		return
	}

	output, err := c.archiveUseCase.Execute(ctx.Request.Context(), group.ArchiveGroupInput{
		GroupID:     groupID,
		RequesterID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGroupResponse(output.Group))
}

// Invite handles POST /groups/:id/invites requests.
func (c *GroupController) Invite(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	groupID, ok := uuidParam(ctx, "id", string(domainerror.ErrCodeGroupNotFound))
	if !ok {
		return
	}

	var req dto.InviteMembersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body", string(domainerror.ErrCodeNoInviteEmails))
		return
	}

	output, err := c.inviteUseCase.Execute(ctx.Request.Context(), group.InviteMembersInput{
		GroupID:   groupID,
		InviterID: userID,
		Emails:    req.Emails,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInviteMembersResponse(output.Results))
}

// PreviewInvite handles GET /invites/:token requests. It is public so the
// invitee can see the group before signing up.
func (c *GroupController) PreviewInvite(ctx *gin.Context) {
	output, err := c.previewInviteUseCase.Execute(ctx.Request.Context(), group.PreviewInviteInput{
		Token: ctx.Param("token"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.InvitePreviewResponse{
		GroupName:       output.GroupName,
		GameMode:        string(output.GameMode),
		CelebrationType: string(output.CelebrationType),
		EventDate:       output.EventDate,
		InviterName:     output.InviterName,
		Email:           output.Email,
		ExpiresAt:       output.ExpiresAt,
	})
}

// AcceptInvite handles POST /invites/:token/accept requests.
func (c *GroupController) AcceptInvite(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	output, err := c.acceptInviteUseCase.Execute(ctx.Request.Context(), group.AcceptInviteInput{
		Token:  ctx.Param("token"),
		UserID: userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AcceptInviteResponse{
		GroupID:   output.Group.ID.String(),
		GroupName: output.Group.Name,
		JoinedAt:  output.Membership.JoinedAt,
	})
}
