package system

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		ping       pingFunc
		wantStatus int
		wantBody   string
	}{
		{"up", func(context.Context) error { return nil }, http.StatusOK, "UP"},
		{"down", func(context.Context) error { return errors.New("closed") }, http.StatusServiceUnavailable, "DOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Health(tt.ping)(rec, httptest.NewRequest(http.MethodGet, "/actuator/health", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if body["status"] != tt.wantBody {
				t.Errorf("status field = %q, want %q", body["status"], tt.wantBody)
			}
		})
	}
}

func TestAPIDocs(t *testing.T) {
	rec := httptest.NewRecorder()
	APIDocs()(rec, httptest.NewRequest(http.MethodGet, "/v3/api-docs", nil))

	var doc struct {
		OpenAPI string                     `json:"openapi"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, path := range []string{"/api/alunos", "/api/cursos/{id}", "/api/alunos/{alunoId}/matricular/{cursoId}"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("document is missing path %s", path)
		}
	}
}
