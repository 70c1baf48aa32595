package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"betelgeuse-console/internal/session"
	dErrors "betelgeuse-console/pkg/domain-errors"
	"betelgeuse-console/pkg/requestcontext"
)

type ClientSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ClientSuite) newClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	s.T().Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, s.logger), srv
}

func (s *ClientSuite) sessionCtx(backendCookie string) context.Context {
	return session.WithSession(context.Background(), &session.Session{
		ID:            uuid.New(),
		User:          session.User{Username: "admin", Role: session.RoleAdmin},
		BackendCookie: backendCookie,
	})
}

func (s *ClientSuite) TestListOperatorsDecodesEnvelope() {
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/api/admin/operators", r.URL.Path)
		s.Equal(http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"operators": []map[string]any{
				{"person_id": 7, "name": "Dana", "is_active": true},
			},
		})
	})

	ops, err := client.ListOperators(context.Background())
	s.Require().NoError(err)
	s.Require().Len(ops, 1)
	s.Equal(7, ops[0].PersonID)
	s.Equal("Dana", ops[0].Name)
}

func (s *ClientSuite) TestBackendCookieReplayed() {
	var gotCookie string
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		_ = json.NewEncoder(w).Encode(map[string]any{"operators": []any{}})
	})

	_, err := client.ListOperators(s.sessionCtx("session=backend-token"))
	s.Require().NoError(err)
	s.Equal("session=backend-token", gotCookie)
}

func (s *ClientSuite) TestNoCookieWithoutSession() {
	var gotCookie string
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		_ = json.NewEncoder(w).Encode(map[string]any{"operators": []any{}})
	})

	_, err := client.ListOperators(context.Background())
	s.Require().NoError(err)
	s.Empty(gotCookie)
}

func (s *ClientSuite) TestRequestIDPropagated() {
	var gotRequestID string
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(map[string]any{"operators": []any{}})
	})

	ctx := requestcontext.WithRequestID(context.Background(), "req-123")
	_, err := client.ListOperators(ctx)
	s.Require().NoError(err)
	s.Equal("req-123", gotRequestID)
}

func (s *ClientSuite) TestErrorMessageExtracted() {
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Operator already exists"})
	})

	err := client.CreateOperator(context.Background(), CreateOperatorRequest{PersonID: 7, Name: "Dana"})
	s.Require().Error(err)
	s.Equal("Operator already exists", UserMessage(err))
	s.Equal(http.StatusConflict, StatusOf(err))
}

func (s *ClientSuite) TestMessageKeyFallback() {
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid schedule"})
	})

	err := client.CreateSchedule(context.Background(), ScheduleRequest{PersonID: 7})
	s.Require().Error(err)
	s.Equal("invalid schedule", UserMessage(err))
}

func (s *ClientSuite) TestGarbageErrorBodyFallsBackToGeneric() {
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>nope</html>"))
	})

	_, err := client.ListOperators(context.Background())
	s.Require().Error(err)
	s.Equal(GenericFailureMessage, UserMessage(err))
}

func (s *ClientSuite) TestTransportFailure() {
	client := New("http://127.0.0.1:1", 500*time.Millisecond, s.logger)

	_, err := client.ListOperators(context.Background())
	s.Require().Error(err)
	s.Equal(0, StatusOf(err))
	s.Equal("backend unreachable", UserMessage(err))
}

func (s *ClientSuite) TestZeroIDRejectedBeforeNetwork() {
	called := false
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.GetOperator(context.Background(), 0)
	s.Require().Error(err)
	s.Equal(dErrors.CodeBadRequest, dErrors.CodeOf(err))
	s.False(called, "validation failures must not hit the backend")
}

func (s *ClientSuite) TestLoginCapturesBackendCookie() {
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/api/auth/login", r.URL.Path)
		var body map[string]string
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("admin", body["username"])

		http.SetCookie(w, &http.Cookie{Name: "session", Value: "xyz789"})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"user": map[string]any{
				"username": "admin",
				"role":     "admin",
			},
		})
	})

	result, err := client.Login(context.Background(), "admin", "secret")
	s.Require().NoError(err)
	s.Equal("admin", result.User.Username)
	s.Equal("session=xyz789", result.BackendCookie)
}

func (s *ClientSuite) TestLoginRejection() {
	client, _ := s.newClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	})

	_, err := client.Login(context.Background(), "admin", "wrong")
	s.Require().Error(err)
	s.Equal(http.StatusUnauthorized, StatusOf(err))
	s.Equal("Invalid credentials", UserMessage(err))
}
