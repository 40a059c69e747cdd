package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/arsavista/teklif-api/internal/models"
	"github.com/arsavista/teklif-api/internal/pricing"
	"github.com/arsavista/teklif-api/internal/storage"
	"github.com/arsavista/teklif-api/pkg/logger"
)

// ReportService renders proposals as printable documents
type ReportService struct {
	storage *storage.LocalStorage
}

func NewReportService(storage *storage.LocalStorage) *ReportService {
	return &ReportService{storage: storage}
}

// GenerateProposalPDF renders a saved proposal as an A4 document, one block
// per land with the cash price and both installment plans.
func (s *ReportService) GenerateProposalPDF(ctx context.Context, proposal *models.Proposal) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, ascii("Arsa Yatırım Teklifi"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 6, ascii(fmt.Sprintf("Sayın %s", proposal.CustomerName)))
	pdf.Ln(6)
	pdf.Cell(60, 6, ascii(fmt.Sprintf("Teklif No: %s", proposal.ID)))
	pdf.Ln(6)
	pdf.Cell(60, 6, ascii(fmt.Sprintf("Geçerlilik: %s", proposal.ValidUntil.Format("02.01.2006"))))
	pdf.Ln(10)

	for i, item := range proposal.Items {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, ascii(fmt.Sprintf("%d. %s", i+1, item.Land.Title)))
		pdf.Ln(7)

		pdf.SetFont("Arial", "", 10)
		pdf.Cell(60, 6, ascii(fmt.Sprintf("Konum: %s", item.Land.Location)))
		pdf.Ln(5)
		if item.Ada != "" || item.Parsel != "" {
			pdf.Cell(60, 6, ascii(fmt.Sprintf("Ada/Parsel: %s/%s", item.Ada, item.Parsel)))
			pdf.Ln(5)
		}
		if item.Area != "" {
			pdf.Cell(60, 6, ascii(fmt.Sprintf("Alan: %s m2", item.Area)))
			pdf.Ln(5)
		}

		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(60, 6, ascii(fmt.Sprintf("Peşin Fiyat: %s TL", formatAmount(item.CashPrice))))
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 10)
		s.writeOption(pdf, "1. Seçenek", item.Option1)
		s.writeOption(pdf, "2. Seçenek", item.Option2)
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(60, 8, ascii(fmt.Sprintf("Toplam Değer: %s TL", formatAmount(proposal.TotalValue()))))
	pdf.Ln(10)

	if proposal.GlobalNotes != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, ascii(proposal.GlobalNotes), "", "L", false)
		pdf.Ln(6)
	}

	pdf.SetFont("Arial", "", 9)
	if proposal.SenderName != "" {
		pdf.Cell(60, 5, ascii(proposal.SenderName))
		pdf.Ln(4)
	}
	if proposal.SenderTitle != "" {
		pdf.Cell(60, 5, ascii(proposal.SenderTitle))
		pdf.Ln(4)
	}
	if proposal.SenderPhone != "" {
		pdf.Cell(60, 5, ascii(proposal.SenderPhone))
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("pdf oluşturulamadı: %w", err)
	}

	filename := fmt.Sprintf("teklif_%s_%s.pdf", proposal.ID, time.Now().Format("2006-01-02"))

	// Keep an archive copy alongside the download
	if s.storage != nil {
		if _, err := s.storage.UploadFromBytes(buf.Bytes(), filename, "proposals"); err != nil {
			logger.Warn("proposal pdf archive failed", "id", proposal.ID, "error", err)
		}
	}

	return buf.Bytes(), filename, nil
}

func (s *ReportService) writeOption(pdf *gofpdf.Fpdf, label string, opt models.InstallmentOption) {
	if opt.Price <= 0 {
		return
	}
	line := fmt.Sprintf("%s: %s TL, peşinat %s TL", label, formatAmount(opt.Price), formatAmount(opt.DownPayment))
	if monthly := pricing.MonthlyForOption(opt); monthly > 0 {
		line += fmt.Sprintf(", %d x %s TL", opt.InstallmentCount, formatAmount(monthly))
	}
	pdf.Cell(60, 6, ascii(line))
	pdf.Ln(5)
}

// formatAmount renders a lira amount with dot thousand separators
func formatAmount(v float64) string {
	whole := int64(pricing.Round(v))
	s := fmt.Sprintf("%d", whole)
	if whole < 0 {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ".")
	if whole < 0 {
		out = "-" + out
	}
	return out
}

var asciiReplacer = strings.NewReplacer(
	"ı", "i", "İ", "I",
	"ş", "s", "Ş", "S",
	"ğ", "g", "Ğ", "G",
	"ü", "u", "Ü", "U",
	"ö", "o", "Ö", "O",
	"ç", "c", "Ç", "C",
	"²", "2",
)

// ascii strips Turkish diacritics for the latin-1 core PDF fonts
func ascii(s string) string {
	return asciiReplacer.Replace(s)
}
