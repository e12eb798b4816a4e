package services

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intellirev/internal/domain"
	"intellirev/internal/util"
)

type fakeLister struct {
	inquiries []domain.Inquiry
	err       error
}

func (f *fakeLister) AllInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	return f.inquiries, f.err
}

func staffToken(t *testing.T) string {
	t.Helper()
	token, err := util.GenerateToken(&domain.User{Username: "operator", IsStaff: true})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func doExport(svc *ExportService, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inquiries/export", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	svc.Export(rec, req)
	return rec
}

func TestExportMissingAuthHeader(t *testing.T) {
	svc := NewExportService(&fakeLister{})

	rec := doExport(svc, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("401 response must have no body, got %q", rec.Body.String())
	}
}

func TestExportMalformedAuthHeader(t *testing.T) {
	svc := NewExportService(&fakeLister{})

	for _, header := range []string{"Basic abc", "Bearer", "Bearer not-a-token"} {
		rec := doExport(svc, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestExportEmptyStore(t *testing.T) {
	svc := NewExportService(&fakeLister{})

	rec := doExport(svc, "Bearer "+staffToken(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("Content-Type = %s, want text/csv", ct)
	}
	if got := rec.Body.String(); got != "Name,Email,Message,Status,Lead Score,Created At\n" {
		t.Fatalf("body = %q, want exactly the header row", got)
	}
}

func TestExportRows(t *testing.T) {
	score := 55
	created := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc := NewExportService(&fakeLister{inquiries: []domain.Inquiry{
		{Name: "Alan", Email: "alan@x.com", Message: "hello", Status: "new", LeadScore: &score, CreatedAt: created},
		{Name: "Beth", Email: "beth@x.com", Message: "hi", Status: "contacted", CreatedAt: created},
	}})

	rec := doExport(svc, "Bearer "+staffToken(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if records[1][0] != "Alan" || records[1][4] != "55" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
	// Unscored inquiries export a zero score.
	if records[2][4] != "0" {
		t.Fatalf("unscored row score = %s, want 0", records[2][4])
	}
	if records[1][5] != "2026-04-01T09:00:00.000Z" {
		t.Fatalf("timestamp = %s", records[1][5])
	}
}

func TestExportFieldEscaping(t *testing.T) {
	message := "line one,\nhas a \"quote\" and a comma"
	svc := NewExportService(&fakeLister{inquiries: []domain.Inquiry{
		{Name: "Alan", Email: "alan@x.com", Message: message, Status: "new", CreatedAt: time.Now()},
	}})

	rec := doExport(svc, "Bearer "+staffToken(t))

	body := rec.Body.String()
	// Embedded quotes are doubled inside a quoted field.
	if !strings.Contains(body, `"line one,`) || !strings.Contains(body, `""quote""`) {
		t.Fatalf("message not quoted/escaped: %q", body)
	}

	// And the value round-trips through a standard CSV parser.
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	if err != nil {
		t.Fatalf("parse CSV: %v", err)
	}
	if records[1][2] != message {
		t.Fatalf("round-trip = %q, want %q", records[1][2], message)
	}
}

func TestExportStoreFailure(t *testing.T) {
	svc := NewExportService(&fakeLister{err: errors.New("db down")})

	rec := doExport(svc, "Bearer "+staffToken(t))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
