package guard

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"betelgeuse-console/internal/session"
)

type MiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *MiddlewareSuite) do(mw func(http.Handler) http.Handler, sess *session.Session) *httptest.ResponseRecorder {
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	if sess != nil {
		req = req.WithContext(session.WithSession(req.Context(), sess))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func (s *MiddlewareSuite) redirectTo(rec *httptest.ResponseRecorder) string {
	var body struct {
		RedirectTo string `json:"redirect_to"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body.RedirectTo
}

func (s *MiddlewareSuite) TestRequireRole() {
	mw := RequireRole(session.RoleAdmin, s.logger)

	s.Run("anonymous gets 401 with login redirect", func() {
		rec := s.do(mw, nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Equal(PathLogin, s.redirectTo(rec))
	})

	s.Run("wrong role gets 403 with home redirect", func() {
		sess := &session.Session{ID: uuid.New(), User: session.User{Role: session.RoleOperator}}
		rec := s.do(mw, sess)
		s.Equal(http.StatusForbidden, rec.Code)
		s.Equal(PathOperatorHome, s.redirectTo(rec))
	})

	s.Run("matching role passes through", func() {
		sess := &session.Session{ID: uuid.New(), User: session.User{Role: session.RoleAdmin}}
		rec := s.do(mw, sess)
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *MiddlewareSuite) TestPublicOnly() {
	mw := PublicOnly()

	s.Run("anonymous passes", func() {
		rec := s.do(mw, nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("authenticated gets conflict with home redirect", func() {
		sess := &session.Session{ID: uuid.New(), User: session.User{Role: session.RoleAdmin}}
		rec := s.do(mw, sess)
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal(PathAdminHome, s.redirectTo(rec))
	})
}

func (s *MiddlewareSuite) TestRequireCapability() {
	mw := RequireCapability(func(u session.User) bool { return u.CanAccessDeviceAnalysis }, s.logger)

	s.Run("anonymous gets 401", func() {
		rec := s.do(mw, nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("operator without flag gets 403", func() {
		sess := &session.Session{ID: uuid.New(), User: session.User{Role: session.RoleOperator}}
		rec := s.do(mw, sess)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("operator with flag passes", func() {
		sess := &session.Session{ID: uuid.New(), User: session.User{
			Role:                    session.RoleOperator,
			CanAccessDeviceAnalysis: true,
		}}
		rec := s.do(mw, sess)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("admin passes without flag", func() {
		sess := &session.Session{ID: uuid.New(), User: session.User{Role: session.RoleAdmin}}
		rec := s.do(mw, sess)
		s.Equal(http.StatusNoContent, rec.Code)
	})
}
