package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/arsavista/teklif-api/internal/models"
	"github.com/arsavista/teklif-api/internal/repository"
	"github.com/arsavista/teklif-api/internal/storage"
	"github.com/arsavista/teklif-api/pkg/logger"
)

// ExportService moves the land catalog in and out of spreadsheets
type ExportService struct {
	landRepo repository.LandRepository
	store    *storage.LocalStorage
	auditSvc *AuditService
}

func NewExportService(landRepo repository.LandRepository, store *storage.LocalStorage, auditSvc *AuditService) *ExportService {
	return &ExportService{
		landRepo: landRepo,
		store:    store,
		auditSvc: auditSvc,
	}
}

var landSheetColumns = []string{"Başlık", "Konum", "Alan", "Fiyat", "Ada", "Parsel", "Taksit", "Açıklama"}

// ExportXLSX writes the full catalog to a spreadsheet
func (s *ExportService) ExportXLSX(ctx context.Context) ([]byte, string, error) {
	query := repository.NewListQuery()
	query.PerPage = 0 // no pagination, full catalog
	lands, _, err := s.landRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Arsalar"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range landSheetColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, land := range lands {
		installment := "Hayır"
		if land.Installment {
			installment = "Evet"
		}
		values := []interface{}{
			land.Title, land.Location, land.Size, land.Price,
			land.Ada, land.Parsel, installment, land.Description,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("arsalar_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportCSV writes the full catalog as CSV
func (s *ExportService) ExportCSV(ctx context.Context) ([]byte, string, error) {
	query := repository.NewListQuery()
	query.PerPage = 0
	lands, _, err := s.landRepo.List(ctx, query)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write(landSheetColumns)
	for _, land := range lands {
		installment := "Hayır"
		if land.Installment {
			installment = "Evet"
		}
		_ = writer.Write([]string{
			land.Title, land.Location, land.Size,
			fmt.Sprintf("%.2f", land.Price),
			land.Ada, land.Parsel, installment, land.Description,
		})
	}
	writer.Flush()

	filename := fmt.Sprintf("arsalar_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ImportResult summarizes a spreadsheet import
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportXLSX reads lands from a spreadsheet in the export layout. Rows with
// no title or an unparseable price are skipped, not fatal. The uploaded file
// is archived so imports can be traced back to their source.
func (s *ExportService) ImportXLSX(ctx context.Context, file multipart.File, header *multipart.FileHeader, actorID uint) (*ImportResult, error) {
	if s.store != nil {
		if _, err := s.store.Upload(file, header, "imports"); err != nil {
			logger.Warn("Failed to archive import file", "filename", header.Filename, "error", err)
		}
		if _, err := file.Seek(0, 0); err != nil {
			return nil, fmt.Errorf("dosya okunamadı: %w", err)
		}
	}

	result, err := s.importRows(ctx, file)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "IMPORT", "Land", "",
		fmt.Sprintf("Excel içe aktarma: %d eklendi, %d atlandı", result.Imported, result.Skipped), "", "")

	return result, nil
}

func (s *ExportService) importRows(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("dosya okunamadı: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		get := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		title := get(0)
		if title == "" {
			result.Skipped++
			continue
		}

		price, err := strconv.ParseFloat(strings.ReplaceAll(get(3), ",", "."), 64)
		if err != nil || price <= 0 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("satır %d: geçersiz fiyat", i+1))
			continue
		}

		land := &models.Land{
			Title:       title,
			Location:    get(1),
			Size:        get(2),
			Price:       price,
			Ada:         get(4),
			Parsel:      get(5),
			Installment: strings.EqualFold(get(6), "evet"),
			Description: get(7),
		}

		if err := s.landRepo.Create(ctx, land); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("satır %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}
