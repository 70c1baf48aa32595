package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"betelgeuse-console/internal/audit"
	auditmemory "betelgeuse-console/internal/audit/store/memory"
	"betelgeuse-console/internal/backend"
	"betelgeuse-console/internal/dispatch"
	"betelgeuse-console/internal/lockout"
	"betelgeuse-console/internal/notify"
	"betelgeuse-console/internal/poller"
	"betelgeuse-console/internal/session"
)

// HandlerSuite spins up the full router against a stub backend so requests
// exercise the same middleware chain production sees.
type HandlerSuite struct {
	suite.Suite

	backendMux *http.ServeMux
	backendSrv *httptest.Server

	store    *session.InMemoryStore
	manager  *session.Manager
	center   *notify.Center
	trail    *auditmemory.InMemoryStore
	router   http.Handler
	stopWork context.CancelFunc
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.backendMux = http.NewServeMux()
	s.backendSrv = httptest.NewServer(s.backendMux)

	api := backend.New(s.backendSrv.URL, 5*time.Second, logger)

	s.store = session.NewInMemoryStore()
	codec := session.NewTokenCodec("test-key")
	s.manager = session.NewManager(s.store, codec, time.Hour, logger).WithInsecureCookies()

	s.center = notify.NewCenter()
	s.trail = auditmemory.NewInMemoryStore()
	publisher := audit.NewPublisher(64, logger)
	worker := audit.NewWorker(s.trail, publisher.Inbox(), logger)

	workCtx, cancel := context.WithCancel(context.Background())
	s.stopWork = cancel
	go func() { _ = worker.Run(workCtx) }()

	loginGuard := lockout.New(lockout.NewInMemoryStore(), 3, 15*time.Minute, logger)
	dispatcher := dispatch.New(s.center, publisher, logger, nil)

	dashboard := poller.New("dashboard", time.Hour, api.GetDashboardStats, logger)
	status := poller.New("system_status", time.Hour, api.GetSystemStatus, logger)
	operators := poller.New("operators", time.Hour, api.ListOperators, logger)

	s.router = NewRouter(NewHandlers(Config{
		Backend:    api,
		Sessions:   s.manager,
		Lockout:    loginGuard,
		Notify:     s.center,
		Dispatcher: dispatcher,
		Auditor:    publisher,
		Trail:      s.trail,
		Logger:     logger,
		Dashboard:  dashboard,
		Status:     status,
		Operators:  operators,
	}))
}

func (s *HandlerSuite) TearDownTest() {
	s.stopWork()
	s.backendSrv.Close()
}

// establish creates a session directly, bypassing the login endpoint.
func (s *HandlerSuite) establish(user session.User) *http.Cookie {
	rec := httptest.NewRecorder()
	_, err := s.manager.Establish(context.Background(), rec, user, "session=backend-token")
	s.Require().NoError(err)
	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	return cookies[0]
}

func (s *HandlerSuite) adminCookie() *http.Cookie {
	return s.establish(session.User{Username: "admin", Role: session.RoleAdmin})
}

func (s *HandlerSuite) do(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out))
}

func (s *HandlerSuite) TestLoginFlow() {
	s.backendMux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "backend-xyz"})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"user": map[string]any{
				"username":  "admin",
				"full_name": "Ada Admin",
				"role":      "admin",
			},
		})
	})

	rec := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "secret",
	}, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		User       session.User `json:"user"`
		RedirectTo string       `json:"redirect_to"`
	}
	s.decode(rec, &body)
	s.Equal("admin", body.User.Username)
	s.Equal("/", body.RedirectTo)

	cookies := rec.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(session.CookieName, cookies[0].Name)

	// The cookie authenticates subsequent requests.
	me := s.do(http.MethodGet, "/api/auth/me", nil, cookies[0])
	s.Equal(http.StatusOK, me.Code)
}

func (s *HandlerSuite) TestLoginLockoutAfterRepeatedFailures() {
	backendHits := 0
	s.backendMux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		backendHits++
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	})

	creds := map[string]string{"username": "admin", "password": "wrong"}
	for i := 0; i < 3; i++ {
		rec := s.do(http.MethodPost, "/api/auth/login", creds, nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	}
	s.Equal(3, backendHits)

	// The fourth attempt is refused locally.
	rec := s.do(http.MethodPost, "/api/auth/login", creds, nil)
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal(3, backendHits, "locked identifiers must not reach the backend")
}

func (s *HandlerSuite) TestLoginWhileAuthenticatedConflicts() {
	rec := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin", "password": "secret",
	}, s.adminCookie())
	s.Equal(http.StatusConflict, rec.Code)

	var body struct {
		RedirectTo string `json:"redirect_to"`
	}
	s.decode(rec, &body)
	s.Equal("/", body.RedirectTo)
}

func (s *HandlerSuite) TestUnknownBackendRoleRejected() {
	s.backendMux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"username": "x", "role": "superuser"},
		})
	})

	rec := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "x", "password": "y",
	}, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal(0, s.store.Len(), "no session may exist for an unroutable role")
}

func (s *HandlerSuite) TestAdminRoutesRequireAuth() {
	rec := s.do(http.MethodGet, "/api/admin/dashboard", nil, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	var body struct {
		RedirectTo string `json:"redirect_to"`
	}
	s.decode(rec, &body)
	s.Equal("/login", body.RedirectTo)
}

func (s *HandlerSuite) TestOperatorBlockedFromAdminRoutes() {
	cookie := s.establish(session.User{Username: "op", Role: session.RoleOperator})

	rec := s.do(http.MethodGet, "/api/admin/dashboard", nil, cookie)
	s.Equal(http.StatusForbidden, rec.Code)

	var body struct {
		RedirectTo string `json:"redirect_to"`
	}
	s.decode(rec, &body)
	s.Equal("/operator", body.RedirectTo)
}

func (s *HandlerSuite) TestDestructiveActionRequiresConfirmation() {
	backendCalled := false
	s.backendMux.HandleFunc("/api/admin/schedules/9", func(w http.ResponseWriter, r *http.Request) {
		backendCalled = true
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})

	rec := s.do(http.MethodDelete, "/api/admin/schedules/9", map[string]bool{
		"confirmed": false,
	}, s.adminCookie())
	s.Equal(http.StatusBadRequest, rec.Code)
	s.False(backendCalled, "unconfirmed destructive actions must never reach the backend")
}

func (s *HandlerSuite) TestConfirmedDeleteSucceedsAndQueuesToast() {
	s.backendMux.HandleFunc("/api/admin/schedules/9", func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodDelete, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})

	cookie := s.adminCookie()
	rec := s.do(http.MethodDelete, "/api/admin/schedules/9", map[string]bool{
		"confirmed": true,
	}, cookie)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// The success toast is waiting on the notifications endpoint.
	notif := s.do(http.MethodGet, "/api/console/notifications", nil, cookie)
	s.Require().Equal(http.StatusOK, notif.Code)

	var body struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	s.decode(notif, &body)
	s.Require().Len(body.Notifications, 1)
	s.Equal(notify.LevelSuccess, body.Notifications[0].Level)
	s.Equal("Schedule deleted.", body.Notifications[0].Message)
}

func (s *HandlerSuite) TestFailedMutationQueuesErrorToast() {
	s.backendMux.HandleFunc("/api/admin/operators/7/pause", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Operator already paused"})
	})

	cookie := s.adminCookie()
	rec := s.do(http.MethodPost, "/api/admin/operators/7/pause", map[string]any{
		"reason": "vacation", "confirmed": true,
	}, cookie)
	s.Equal(http.StatusConflict, rec.Code)

	var errBody struct {
		ErrorDescription string `json:"error_description"`
	}
	s.decode(rec, &errBody)
	s.Equal("Operator already paused", errBody.ErrorDescription)

	notif := s.do(http.MethodGet, "/api/console/notifications", nil, cookie)
	var body struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	s.decode(notif, &body)
	s.Require().Len(body.Notifications, 1)
	s.Equal(notify.LevelError, body.Notifications[0].Level)
	s.Equal("Operator already paused", body.Notifications[0].Message)
}

func (s *HandlerSuite) TestOperatorViewPendingWithoutPersonID() {
	cookie := s.establish(session.User{
		Username:              "op",
		Role:                  session.RoleOperator,
		CanAccessOperatorView: true,
	})

	rec := s.do(http.MethodGet, "/api/operator-view", nil, cookie)
	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Pending bool   `json:"pending"`
		Message string `json:"message"`
	}
	s.decode(rec, &body)
	s.True(body.Pending)
	s.NotEmpty(body.Message)
}

func (s *HandlerSuite) TestOperatorViewWithLinkedOperator() {
	s.backendMux.HandleFunc("/api/admin/operators/7", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"operator": map[string]any{"person_id": 7, "name": "Dana", "is_active": true},
		})
	})
	s.backendMux.HandleFunc("/api/admin/operators/7/metrics", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"metrics": map[string]any{"person_id": 7},
		})
	})

	personID := 7
	cookie := s.establish(session.User{
		Username:              "op",
		Role:                  session.RoleOperator,
		PersonID:              &personID,
		CanAccessOperatorView: true,
	})

	rec := s.do(http.MethodGet, "/api/operator-view", nil, cookie)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Pending  bool              `json:"pending"`
		Operator *backend.Operator `json:"operator"`
	}
	s.decode(rec, &body)
	s.False(body.Pending)
	s.Require().NotNil(body.Operator)
	s.Equal("Dana", body.Operator.Name)
}

func (s *HandlerSuite) TestDeviceAnalysisGatedByCapability() {
	cookie := s.establish(session.User{Username: "op", Role: session.RoleOperator})

	rec := s.do(http.MethodGet, "/api/device-analysis/history", nil, cookie)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestConsoleAuditRecordsMutations() {
	s.backendMux.HandleFunc("/api/system/pause", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})

	cookie := s.adminCookie()
	rec := s.do(http.MethodPost, "/api/system/pause", map[string]any{
		"reason": "maintenance", "confirmed": true,
	}, cookie)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// The audit worker runs asynchronously; wait for the event to land.
	s.Eventually(func() bool {
		events, err := s.trail.ListRecent(context.Background(), 10)
		if err != nil || len(events) == 0 {
			return false
		}
		return events[0].Action == audit.ActionSystemPaused && events[0].Actor == "admin"
	}, 2*time.Second, 10*time.Millisecond)

	consoleAudit := s.do(http.MethodGet, "/api/admin/console-audit", nil, cookie)
	s.Require().Equal(http.StatusOK, consoleAudit.Code)

	var body struct {
		Events []consoleAuditRow `json:"events"`
	}
	s.decode(consoleAudit, &body)
	s.Require().NotEmpty(body.Events)
	s.Equal("system_paused", body.Events[0].Action)
	s.Equal("maintenance", body.Events[0].Detail)
}

func (s *HandlerSuite) TestLogoutClearsSession() {
	s.backendMux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})

	cookie := s.adminCookie()
	s.Equal(1, s.store.Len())

	rec := s.do(http.MethodPost, "/api/auth/logout", nil, cookie)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(0, s.store.Len())

	// The stale cookie no longer authenticates.
	me := s.do(http.MethodGet, "/api/auth/me", nil, cookie)
	s.Equal(http.StatusUnauthorized, me.Code)
}

func (s *HandlerSuite) TestDashboardServedFromSnapshot() {
	// The poller never ran, so the view reports loading with no data.
	rec := s.do(http.MethodGet, "/api/admin/dashboard", nil, s.adminCookie())
	s.Require().Equal(http.StatusOK, rec.Code)

	var body viewPayload
	s.decode(rec, &body)
	s.True(body.Loading)
	s.Nil(body.Data)
}
