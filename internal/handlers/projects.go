package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ukuvago/themeboard/internal/models"
	"github.com/ukuvago/themeboard/internal/repository"
	"github.com/ukuvago/themeboard/internal/services"
)

type ProjectHandler struct {
	projectService  *services.ProjectService
	storageService  *services.StorageService
	documentService *services.DocumentService
}

func NewProjectHandler(projectService *services.ProjectService, storageService *services.StorageService, documentService *services.DocumentService) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		storageService:  storageService,
		documentService: documentService,
	}
}

// ProjectRequest is accepted as JSON or multipart form. Absent fields are
// left unchanged on update.
type ProjectRequest struct {
	Name        *string               `json:"name" form:"name"`
	Description *string               `json:"description" form:"description"`
	Status      *models.ProjectStatus `json:"status" form:"status"`
}

// ListProjects returns all projects, optionally filtered by status
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var filter repository.ProjectFilter
	if status := c.Query("status"); status != "" {
		s := models.ProjectStatus(status)
		filter.Status = &s
	}

	projects, err := h.projectService.ListProjects(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, projects, len(projects))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, project, "")
}

// GetProjectThemes returns the project's themes with members and heads
func (h *ProjectHandler) GetProjectThemes(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	_, themes, err := h.projectService.GetProjectWithThemes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, models.ToThemeResponses(themes), len(themes))
}

// GetProjectReport streams the project roster as a PDF
func (h *ProjectHandler) GetProjectReport(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	project, themes, err := h.projectService.GetProjectWithThemes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.documentService.ProjectRoster(project, themes)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("project_%s.pdf", project.ID.String()[:8])
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	image, err := saveUploadedImage(c, h.storageService, services.ImageKindProjects)
	if err != nil {
		respondError(c, err)
		return
	}

	input := services.CreateProjectInput{ImagePath: image}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Status != nil {
		input.Status = models.ProjectStatus(strings.TrimSpace(string(*req.Status)))
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), input)
	if err != nil {
		discardImage(h.storageService, image)
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, project, "Project created successfully")
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	var req ProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	image, err := saveUploadedImage(c, h.storageService, services.ImageKindProjects)
	if err != nil {
		respondError(c, err)
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		ImagePath:   image,
	})
	if err != nil {
		discardImage(h.storageService, image)
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, project, "Project updated successfully")
}

// DeleteProject deletes the project with its themes
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "Project deleted successfully")
}
