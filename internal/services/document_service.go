package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/ukuvago/themeboard/internal/config"
	"github.com/ukuvago/themeboard/internal/logger"
	"github.com/ukuvago/themeboard/internal/models"
)

type DocumentService struct {
	config  *config.Config
	storage *StorageService
}

func NewDocumentService(cfg *config.Config, storage *StorageService) *DocumentService {
	return &DocumentService{config: cfg, storage: storage}
}

// pdfImageTypes are the upload formats gofpdf can embed.
var pdfImageTypes = map[string]string{
	".jpg":  "JPG",
	".jpeg": "JPG",
	".png":  "PNG",
	".gif":  "GIF",
}

// ProjectRoster renders the project, its themes, their heads and members as
// a PDF document.
func (s *DocumentService) ProjectRoster(project *models.Project, themes []models.Theme) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if s.embedImage(pdf, project.ImagePath) {
		pdf.Ln(4)
	}

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 10, tr(project.Name), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, "Status: "+strings.ToUpper(string(project.Status)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(190, 5, tr(project.Description), "", "", false)
	pdf.Ln(6)

	if len(themes) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(190, 6, "No themes have been added to this project yet.")
		pdf.Ln(6)
	}

	for _, theme := range themes {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(190, 8, tr(theme.Name))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(190, 4.5, tr(theme.Description), "", "", false)
		pdf.Ln(2)

		head := "Unassigned"
		if theme.ThemeHead != nil {
			head = theme.ThemeHead.Name
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(40, 6, "Theme head:")
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(150, 6, tr(head))
		pdf.Ln(8)

		if len(theme.Members) == 0 {
			pdf.SetFont("Arial", "I", 9)
			pdf.Cell(190, 5, "No members")
			pdf.Ln(8)
			continue
		}

		// Member table
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(60, 6, "Name", "1", 0, "", true, 0, "")
		pdf.CellFormat(50, 6, "Role", "1", 0, "", true, 0, "")
		pdf.CellFormat(80, 6, "Work", "1", 1, "", true, 0, "")

		pdf.SetFont("Arial", "", 9)
		for _, m := range theme.Members {
			name := m.Name
			if theme.ThemeHeadID != nil && *theme.ThemeHeadID == m.ID {
				name += " (head)"
			}
			pdf.CellFormat(60, 6, tr(name), "1", 0, "", false, 0, "")
			pdf.CellFormat(50, 6, tr(m.Role), "1", 0, "", false, 0, "")
			pdf.CellFormat(80, 6, tr(truncate(m.WorkDetail, 48)), "1", 1, "", false, 0, "")
		}
		pdf.Ln(6)
	}

	// Footer
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(190, 4, fmt.Sprintf("Generated by %s on %s.", s.config.AppName, time.Now().Format("January 2, 2006")), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render project roster: %w", err)
	}
	return buf.Bytes(), nil
}

// embedImage draws the project image above the title. Images that are
// missing or unreadable are skipped.
func (s *DocumentService) embedImage(pdf *gofpdf.Fpdf, publicPath *string) bool {
	if s.storage == nil || publicPath == nil {
		return false
	}
	local, ok := s.storage.GetImagePath(*publicPath)
	if !ok {
		return false
	}
	imageType, ok := pdfImageTypes[strings.ToLower(filepath.Ext(local))]
	if !ok {
		return false
	}
	if _, err := os.Stat(local); err != nil {
		return false
	}

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	info := pdf.RegisterImageOptions(local, opts)
	if !pdf.Ok() || info == nil {
		logger.Warn().Err(pdf.Error()).Str("path", *publicPath).Msg("skipping unreadable project image")
		pdf.ClearError()
		return false
	}

	pdf.ImageOptions(local, 80, pdf.GetY(), 50, 0, true, opts, 0, "")
	return true
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
