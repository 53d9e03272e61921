package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukuvago/themeboard/internal/services"
)

type TeamHandler struct {
	teamService    *services.TeamService
	storageService *services.StorageService
}

func NewTeamHandler(teamService *services.TeamService, storageService *services.StorageService) *TeamHandler {
	return &TeamHandler{
		teamService:    teamService,
		storageService: storageService,
	}
}

// TeamMemberRequest represents team member input, as JSON or multipart form
type TeamMemberRequest struct {
	Name       string `json:"name" form:"name"`
	Role       string `json:"role" form:"role"`
	WorkDetail string `json:"work_detail" form:"work_detail"`
}

func (h *TeamHandler) ListMembers(c *gin.Context) {
	members, err := h.teamService.ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, members, len(members))
}

func (h *TeamHandler) GetMember(c *gin.Context) {
	id, ok := parseID(c, "id", "team member")
	if !ok {
		return
	}

	member, err := h.teamService.GetMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, member, "")
}

func (h *TeamHandler) CreateMember(c *gin.Context) {
	var req TeamMemberRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	image, err := saveUploadedImage(c, h.storageService, services.ImageKindTeam)
	if err != nil {
		respondError(c, err)
		return
	}

	member, err := h.teamService.CreateMember(c.Request.Context(), services.MemberInput{
		Name:       req.Name,
		Role:       req.Role,
		WorkDetail: req.WorkDetail,
		ImagePath:  image,
	})
	if err != nil {
		discardImage(h.storageService, image)
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, member, "Team member created successfully")
}

// UpdateMember replaces the member's details; the image is kept unless a new
// one is uploaded
func (h *TeamHandler) UpdateMember(c *gin.Context) {
	id, ok := parseID(c, "id", "team member")
	if !ok {
		return
	}

	var req TeamMemberRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	image, err := saveUploadedImage(c, h.storageService, services.ImageKindTeam)
	if err != nil {
		respondError(c, err)
		return
	}

	member, err := h.teamService.UpdateMember(c.Request.Context(), id, services.MemberInput{
		Name:       req.Name,
		Role:       req.Role,
		WorkDetail: req.WorkDetail,
		ImagePath:  image,
	})
	if err != nil {
		discardImage(h.storageService, image)
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, member, "Team member updated successfully")
}

// DeleteMember deletes the member and removes it from every theme
func (h *TeamHandler) DeleteMember(c *gin.Context) {
	id, ok := parseID(c, "id", "team member")
	if !ok {
		return
	}

	if err := h.teamService.DeleteMember(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "Team member deleted successfully")
}
