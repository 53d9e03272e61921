package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ukuvago/themeboard/internal/middleware"
	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/repository"
	"github.com/ukuvago/themeboard/internal/services"
)

type ThemeHandler struct {
	themeService   *services.ThemeService
	storageService *services.StorageService
}

func NewThemeHandler(themeService *services.ThemeService, storageService *services.StorageService) *ThemeHandler {
	return &ThemeHandler{
		themeService:   themeService,
		storageService: storageService,
	}
}

// ThemeRequest is accepted as JSON or multipart form. ProjectID is only read
// on create.
type ThemeRequest struct {
	Name           *string `json:"name" form:"name"`
	Description    *string `json:"description" form:"description"`
	ProjectID      *string `json:"project_id" form:"project_id"`
	PrimaryColor   *string `json:"primary_color" form:"primary_color"`
	SecondaryColor *string `json:"secondary_color" form:"secondary_color"`
}

type AddMembersRequest struct {
	MemberIDs []uuid.UUID `json:"member_ids"`
}

type ThemeHeadRequest struct {
	MemberID *uuid.UUID `json:"member_id"`
}

type ThemeProjectRequest struct {
	ProjectID *uuid.UUID `json:"project_id"`
}

// ListThemes returns all themes, optionally only those of one project
func (h *ThemeHandler) ListThemes(c *gin.Context) {
	var filter repository.ThemeFilter
	if project := c.Query("project"); project != "" {
		projectID, err := parseOptionalID(&project, "project")
		if err != nil {
			respondError(c, err)
			return
		}
		filter.ProjectID = projectID
	}

	themes, err := h.themeService.ListThemes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, models.ToThemeResponses(themes), len(themes))
}

func (h *ThemeHandler) GetTheme(c *gin.Context) {
	id, ok := parseID(c, "id", "theme")
	if !ok {
		return
	}

	theme, err := h.themeService.GetTheme(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, theme.ToResponse(), "")
}

// GetThemeTeam returns the members of a theme
func (h *ThemeHandler) GetThemeTeam(c *gin.Context) {
	id, ok := parseID(c, "id", "theme")
	if !ok {
		return
	}

	members, err := h.themeService.GetThemeTeam(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, members, len(members))
}

func (h *ThemeHandler) CreateTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	projectID, err := parseOptionalID(req.ProjectID, "project")
	if err != nil {
		respondError(c, err)
		return
	}

	image, err := saveUploadedImage(c, h.storageService, services.ImageKindThemes)
	if err != nil {
		respondError(c, err)
		return
	}

	input := services.CreateThemeInput{
		ProjectID:      projectID,
		CreatorID:      middleware.GetPrincipal(c).UserID,
		ImagePath:      image,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Description != nil {
		input.Description = *req.Description
	}

	theme, err := h.themeService.CreateTheme(c.Request.Context(), input)
	if err != nil {
		discardImage(h.storageService, image)
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, theme.ToResponse(), "Theme created successfully")
}

func (h *ThemeHandler) UpdateTheme(c *gin.Context) {
	id, ok := parseID(c, "id", "theme")
	if !ok {
		return
	}

	var req ThemeRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	image, err := saveUploadedImage(c, h.storageService, services.ImageKindThemes)
	if err != nil {
		respondError(c, err)
		return
	}

	theme, err := h.themeService.UpdateTheme(c.Request.Context(), id, services.UpdateThemeInput{
		Name:           req.Name,
		Description:    req.Description,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		ImagePath:      image,
	})
	if err != nil {
		discardImage(h.storageService, image)
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, theme.ToResponse(), "Theme updated successfully")
}

// AddMembers adds team members to the theme's member set
func (h *ThemeHandler) AddMembers(c *gin.Context) {
	id, ok := parseID(c, "id", "theme")
	if !ok {
		return
	}

	var req AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	theme, err := h.themeService.AddMembers(c.Request.Context(), id, req.MemberIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, theme.ToResponse(), "Team members added successfully")
}

func (h *ThemeHandler) RemoveMember(c *gin.Context) {
	id, ok := parseID(c, "id", "theme")
	if !ok {
		return
	}
	memberID, ok := parseID(c, "memberId", "team member")
	if !ok {
		return
	}

	theme, err := h.themeService.RemoveMember(c.Request.Context(), id, memberID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, theme.ToResponse(), "Team member removed successfully")
}

// AssignThemeHead sets or clears the theme head. An empty body clears it.
func (h *ThemeHandler) AssignThemeHead(c *gin.Context) {
	id, ok := parseID(c, "id", "theme")
	if !ok {
		return
	}

	var req ThemeHeadRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	theme, err := h.themeService.AssignThemeHead(c.Request.Context(), id, req.MemberID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, theme.ToResponse(), "Theme head assigned successfully")
}

// AssignProject moves the theme to another project or detaches it. An empty
// body detaches.
func (h *ThemeHandler) AssignProject(c *gin.Context) {
	id, ok := parseID(c, "id", "theme")
	if !ok {
		return
	}

	var req ThemeProjectRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	theme, err := h.themeService.AssignProject(c.Request.Context(), id, req.ProjectID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, theme.ToResponse(), "Theme project updated successfully")
}

func (h *ThemeHandler) DeleteTheme(c *gin.Context) {
	id, ok := parseID(c, "id", "theme")
	if !ok {
		return
	}

	if err := h.themeService.DeleteTheme(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "Theme deleted successfully")
}
