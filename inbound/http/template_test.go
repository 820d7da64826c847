package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clubdesk/model"
	"clubdesk/outbound/store"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
)

type TemplateHttpTestSuite struct {
	suite.Suite

	Store    *store.MemoryStore
	Validate *validator.Validate

	Mux *http.ServeMux
}

func (s *TemplateHttpTestSuite) SetupTest() {
	s.Store = store.NewMemoryStore()
	s.Store.TimeNow = func() time.Time {
		return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	}

	s.Validate = validator.New()

	s.Mux = http.NewServeMux()
	RegisterTemplateHttp(s.Mux, s.Store, s.Validate)

	slog.SetLogLoggerLevel(slog.LevelError)
}

func TestTemplateHttpTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateHttpTestSuite))
}

func (s *TemplateHttpTestSuite) serve(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	w := httptest.NewRecorder()
	s.Mux.ServeHTTP(w, req)
	return w
}

func (s *TemplateHttpTestSuite) TestList() {
	w := s.serve(http.MethodGet, "/api/templates", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var templates []model.MessageTemplate
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &templates))
	s.Require().Len(templates, 3)
	s.Assert().Equal("tpl-1", templates[0].ID)
	s.Assert().True(templates[0].IsDefault)
	s.Assert().Equal(7, templates[2].UsageCount)
}

func (s *TemplateHttpTestSuite) TestCreate() {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "invalid json",
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing name",
			body:     `{"content":"Hallo","staff_id":"staff-1"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "success",
			body:     `{"name":"Hallenbelegung","content":"Die Belegungspläne finden Sie im Portal.","category":"general","staff_id":"staff-1"}`,
			wantCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.serve(http.MethodPost, "/api/templates", tt.body)
			s.Require().Equal(tt.wantCode, w.Code)

			if tt.wantCode != http.StatusCreated {
				return
			}

			var created model.MessageTemplate
			s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
			s.Assert().NotEmpty(created.ID)
			s.Assert().Equal("Hallenbelegung", created.Name)
			s.Assert().Equal(model.TicketCategoryGeneral, created.Category)
			s.Assert().Equal("staff-1", created.CreatedBy)
			s.Assert().False(created.IsDefault)
			s.Assert().Zero(created.UsageCount)
		})
	}
}

func (s *TemplateHttpTestSuite) TestUpdate() {
	w := s.serve(http.MethodPut, "/api/templates/tpl-3", `{"name":"Beitragsrückfrage (neu)","content":"Bitte nennen Sie uns Ihre Mitgliedsnummer.","category":"fee_question"}`)
	s.Require().Equal(http.StatusOK, w.Code)

	var updated model.MessageTemplate
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	s.Assert().Equal("Beitragsrückfrage (neu)", updated.Name)

	// Editing never resets the usage counter.
	s.Assert().Equal(7, updated.UsageCount)

	w = s.serve(http.MethodPut, "/api/templates/tpl-99", `{"name":"x","content":"y","category":"general"}`)
	s.Assert().Equal(http.StatusNotFound, w.Code)
}

func (s *TemplateHttpTestSuite) TestDelete() {
	tests := []struct {
		name     string
		id       string
		wantCode int
		wantErr  string
	}{
		{
			name:     "custom template",
			id:       "tpl-3",
			wantCode: http.StatusNoContent,
		},
		{
			name:     "default template is protected",
			id:       "tpl-1",
			wantCode: http.StatusForbidden,
			wantErr:  "Default template cannot be deleted",
		},
		{
			name:     "unknown template",
			id:       "tpl-99",
			wantCode: http.StatusNotFound,
			wantErr:  "Not Found",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.serve(http.MethodDelete, "/api/templates/"+tt.id, "")
			s.Require().Equal(tt.wantCode, w.Code)

			if tt.wantErr == "" {
				return
			}

			var resp map[string]any
			s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			s.Assert().Equal(tt.wantErr, resp["error"])
		})
	}
}

func (s *TemplateHttpTestSuite) TestSaveDraft() {
	s.Run("short drafts are rejected", func() {
		w := s.serve(http.MethodPost, "/api/compose/save-template", `{"name":"Kurz","content":"Zu kurz.","staff_id":"staff-1"}`)
		s.Require().Equal(http.StatusBadRequest, w.Code)
		s.Assert().JSONEq(`{"error":"Validation failed","data":{"Content":"min"}}`, w.Body.String())
	})

	s.Run("success", func() {
		w := s.serve(http.MethodPost, "/api/compose/save-template", `{"name":"Kursabsage","content":"Der Kurs muss leider wegen Krankheit ausfallen.","category":"general","staff_id":"staff-2"}`)
		s.Require().Equal(http.StatusCreated, w.Code)

		var created model.MessageTemplate
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
		s.Assert().Equal("Kursabsage", created.Name)
		s.Assert().Equal("staff-2", created.CreatedBy)
	})
}
