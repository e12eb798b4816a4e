package services

import (
	"context"
	"encoding/csv"
	"log"
	"net/http"
	"strconv"
	"strings"

	"intellirev/internal/domain"
	"intellirev/internal/metrics"
	"intellirev/internal/util"
)

// InquiryLister is the read-only store surface the export needs
type InquiryLister interface {
	AllInquiries(ctx context.Context) ([]domain.Inquiry, error)
}

// ExportService serializes every stored inquiry to CSV on demand
type ExportService struct {
	store InquiryLister
}

// NewExportService creates a new export service
func NewExportService(store InquiryLister) *ExportService {
	return &ExportService{store: store}
}

// Export handles GET /api/v1/inquiries/export. It does its own bearer
// check so an unauthorized request gets a bare 401 with no body, and
// nothing about the data leaks.
func (s *ExportService) Export(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(r) {
		metrics.RecordExport("unauthorized")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	inquiries, err := s.store.AllInquiries(r.Context())
	if err != nil {
		log.Printf("[EXPORT] failed to load inquiries: %v", err)
		metrics.RecordExport("error")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=inquiries.csv")
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{"Name", "Email", "Message", "Status", "Lead Score", "Created At"})

	for i := range inquiries {
		inq := &inquiries[i]
		score := 0
		if inq.LeadScore != nil {
			score = *inq.LeadScore
		}
		_ = writer.Write([]string{
			inq.Name,
			inq.Email,
			inq.Message,
			inq.Status,
			strconv.Itoa(score),
			inq.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("[EXPORT] failed to write CSV: %v", err)
		metrics.RecordExport("error")
		return
	}

	metrics.RecordExport("success")
	log.Printf("[EXPORT] CSV export completed: %d inquiries", len(inquiries))
}

// authorize accepts only a well-formed bearer token carrying a valid
// staff or admin claim
func (s *ExportService) authorize(r *http.Request) bool {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}

	claims, err := util.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return false
	}
	return claims.IsStaff || claims.IsAdmin
}
