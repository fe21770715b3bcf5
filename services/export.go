package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ppsg-cms/internal/logger"
	"ppsg-cms/models"
)

const contactsSheet = "Contacts"

var contactHeaders = []string{
	"Date", "Name", "Email", "Phone", "Reason", "Product", "Sizes", "Status", "Message",
}

// ExportService renders contact leads as a spreadsheet.
type ExportService struct {
	contacts *ContactService
}

func NewExportService(contacts *ContactService) *ExportService {
	return &ExportService{contacts: contacts}
}

// ExportFilename is the download name for an export created at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("contacts_%s.xlsx", t.UTC().Format("20060102_150405"))
}

// ContactsXLSX exports every contact with the given status (all when empty).
func (es *ExportService) ContactsXLSX(ctx context.Context, status string) (*bytes.Buffer, error) {
	contacts, err := es.contacts.All(ctx, status)
	if err != nil {
		return nil, err
	}
	return WriteContactsXLSX(contacts)
}

// WriteContactsXLSX writes one header row plus a row per contact.
func WriteContactsXLSX(contacts []models.Contact) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("Error closing Excel file", "error", err.Error())
		}
	}()

	if err := f.SetSheetName("Sheet1", contactsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	for i, header := range contactHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(contactsSheet, cell, header)
	}

	for rowIdx, c := range contacts {
		row := rowIdx + 2
		values := []interface{}{
			c.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			c.Name,
			c.Email,
			c.Phone,
			c.Reason,
			c.ProductName,
			sizesCell(c.SelectedSizes),
			string(c.Status),
			c.Message,
		}
		for col, v := range values {
			f.SetCellValue(contactsSheet, fmt.Sprintf("%c%d", 'A'+col, row), v)
		}
	}

	for i := 0; i < len(contactHeaders); i++ {
		col := fmt.Sprintf("%c", 'A'+i)
		f.SetColWidth(contactsSheet, col, col, 20)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf, nil
}

func sizesCell(sizes []models.SelectedSize) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = s.Name
		if s.Price != nil && *s.Price > 0 {
			parts[i] += fmt.Sprintf(" ($%.2f)", *s.Price)
		}
	}
	return strings.Join(parts, ", ")
}
