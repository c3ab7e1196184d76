package services

import (
	"bytes"
	"context"
	"strings"

	"github.com/adityapachauri0/pan-sub000/models"
)

// exportColumns is the fixed CSV column order expected by operators.
var exportColumns = []string{
	"Name", "Email", "Subject", "Message", "Status", "Date", "OriginAddress", "Location",
}

const exportDateLayout = "2006-01-02 15:04:05"

// ExportService builds CSV exports server-side so escaping lives in one
// place instead of being duplicated in dashboard clients.
type ExportService struct {
	store SubmissionStore
}

func NewExportService(store SubmissionStore) *ExportService {
	return &ExportService{store: store}
}

// ExportAll renders every submission as CSV bytes.
func (e *ExportService) ExportAll(ctx context.Context) ([]byte, error) {
	subs, err := e.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return buildCSV(subs), nil
}

// ExportSelected renders only the submissions whose ids appear in ids,
// preserving store order. Unknown ids are skipped.
func (e *ExportService) ExportSelected(ctx context.Context, ids []string) ([]byte, error) {
	subs, err := e.store.All(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	selected := make([]models.Submission, 0, len(ids))
	for _, sub := range subs {
		if wanted[sub.ID] {
			selected = append(selected, sub)
		}
	}
	return buildCSV(selected), nil
}

func buildCSV(subs []models.Submission) []byte {
	var buf bytes.Buffer

	writeCSVRow(&buf, exportColumns)
	for _, sub := range subs {
		writeCSVRow(&buf, []string{
			sub.Name,
			sub.Email,
			sub.Subject,
			sub.Message,
			sub.Status,
			sub.CreatedAt.UTC().Format(exportDateLayout),
			sub.OriginAddress,
			sub.Location.City + ", " + sub.Location.Country,
		})
	}
	return buf.Bytes()
}

// writeCSVRow quotes every field and doubles internal quotes.
func writeCSVRow(buf *bytes.Buffer, fields []string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
