package services

import (
	"net/http"

	"intellirev/internal/database"
)

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := database.HealthCheck(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{
		"status":  status,
		"service": "IntelliRev API",
	})
}
