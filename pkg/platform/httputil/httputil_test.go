package httputil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "betelgeuse-console/pkg/domain-errors"
)

type HTTPUtilSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestHTTPUtilSuite(t *testing.T) {
	suite.Run(t, new(HTTPUtilSuite))
}

func (s *HTTPUtilSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *HTTPUtilSuite) TestWriteJSON() {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"name": "x"})

	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))
	s.JSONEq(`{"name":"x"}`, rec.Body.String())
}

func (s *HTTPUtilSuite) TestWriteErrorCarriesDescription() {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeBadRequest, "day_of_week out of range"))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"bad_request","error_description":"day_of_week out of range"}`, rec.Body.String())
}

func (s *HTTPUtilSuite) TestWriteErrorHidesInternalDetail() {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeInternal, "pgx: connection refused"))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.JSONEq(`{"error":"internal_error"}`, rec.Body.String())
}

func (s *HTTPUtilSuite) TestDecodeValidBody() {
	type payload struct {
		Reason string `json:"reason"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"maintenance"}`))
	rec := httptest.NewRecorder()

	got, ok := Decode[payload](rec, req, s.logger, "req-1")
	s.True(ok)
	s.Equal("maintenance", got.Reason)
}

func (s *HTTPUtilSuite) TestDecodeRejectsGarbage() {
	type payload struct{}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	_, ok := Decode[payload](rec, req, s.logger, "req-1")
	s.False(ok)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.Contains(rec.Body.String(), "bad_request")
}
