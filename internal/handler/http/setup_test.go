package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/auth"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/dashboard"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/handler/http/response"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/jwt"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
)

// fakeAuthService returns canned tokens and records logout requests.
type fakeAuthService struct {
	mu      sync.Mutex
	loginFn func(req auth.LoginRequest) (auth.TokenResponse, error)
	logouts []auth.LogoutRequest
	session auth.SessionTrackingRequest
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	f.mu.Lock()
	f.session = session
	f.mu.Unlock()
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	return f.loginFn(req)
}

func (f *fakeAuthService) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if req.RefreshToken != "good-refresh" {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}
	return auth.AccessTokenResponse{AccessToken: "new-access", AccessTokenExpiresIn: 3600}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, req auth.LogoutRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts = append(f.logouts, req)
	return nil
}

func (f *fakeAuthService) Me(ctx context.Context, actor user.Actor) (user.UserResponse, error) {
	return user.UserResponse{ID: actor.ID, Role: string(actor.Role), FullName: "Test User"}, nil
}

func (f *fakeAuthService) SSEToken(ctx context.Context, actor user.Actor) (auth.SSETokenResponse, error) {
	return auth.SSETokenResponse{Token: "sse-token", ExpiresIn: 300}, nil
}

// fakeLeaveService records the last call and answers with err when set.
type fakeLeaveService struct {
	mu        sync.Mutex
	err       error
	actor     user.Actor
	requestID int64
	filter    leave.LeaveRequestFilter
	document  leave.Document
}

func (f *fakeLeaveService) record(actor user.Actor, requestID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actor = actor
	f.requestID = requestID
	return f.err
}

func (f *fakeLeaveService) last() (user.Actor, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.actor, f.requestID
}

func sampleResponse(id int64, state string) leave.LeaveRequestResponse {
	return leave.LeaveRequestResponse{
		ID:        id,
		UserID:    1,
		Nature:    "annuel",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-05",
		Days:      5,
		State:     state,
	}
}

func (f *fakeLeaveService) SubmitRequest(ctx context.Context, actor user.Actor, req leave.SubmitLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := f.record(actor, 0); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return sampleResponse(42, "pending"), nil
}

func (f *fakeLeaveService) ApproveRequest(ctx context.Context, actor user.Actor, requestID int64) (leave.LeaveRequestResponse, error) {
	if err := f.record(actor, requestID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return sampleResponse(requestID, "approved"), nil
}

func (f *fakeLeaveService) RejectRequest(ctx context.Context, actor user.Actor, requestID int64) (leave.LeaveRequestResponse, error) {
	if err := f.record(actor, requestID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return sampleResponse(requestID, "rejected"), nil
}

func (f *fakeLeaveService) DeleteRequest(ctx context.Context, actor user.Actor, requestID int64) error {
	return f.record(actor, requestID)
}

func (f *fakeLeaveService) MarkRequestRead(ctx context.Context, actor user.Actor, requestID int64) error {
	return f.record(actor, requestID)
}

func (f *fakeLeaveService) MarkAllRead(ctx context.Context, actor user.Actor) (int64, error) {
	return 3, f.record(actor, 0)
}

func (f *fakeLeaveService) GetRequest(ctx context.Context, actor user.Actor, requestID int64) (leave.LeaveRequestResponse, error) {
	if err := f.record(actor, requestID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return sampleResponse(requestID, "pending"), nil
}

func (f *fakeLeaveService) ListRequests(ctx context.Context, actor user.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := f.record(actor, 0); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	f.mu.Lock()
	f.filter = filter
	f.mu.Unlock()

	requests := []leave.LeaveRequest{{ID: 7, UserID: 1, Nature: "annuel", Days: 2}}
	return leave.NewListLeaveRequestResponse(requests, 21, filter), nil
}

func (f *fakeLeaveService) GetBalance(ctx context.Context, actor user.Actor, userID int64) (leave.LeaveBalanceResponse, error) {
	if err := f.record(actor, userID); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	return leave.LeaveBalanceResponse{UserID: userID, AvailableDays: 25, ConsumedDays: 5}, nil
}

func (f *fakeLeaveService) RefreshOnLeave(ctx context.Context, day time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeLeaveService) GenerateDocument(ctx context.Context, actor user.Actor, requestID int64) (leave.DocumentResponse, error) {
	if err := f.record(actor, requestID); err != nil {
		return leave.DocumentResponse{}, err
	}
	return leave.DocumentResponse{RequestID: requestID, FileName: leave.Document{RequestID: requestID}.FileName(), Size: 9}, nil
}

func (f *fakeLeaveService) GenerateAllDocuments(ctx context.Context, actor user.Actor) (leave.BatchResult, error) {
	if err := f.record(actor, 0); err != nil {
		return leave.BatchResult{}, err
	}
	return leave.BatchResult{SuccessCount: 2, ErrorCount: 1, Errors: []string{"request 5: renderer unavailable"}}, nil
}

func (f *fakeLeaveService) DownloadDocument(ctx context.Context, actor user.Actor, requestID int64) (leave.Document, error) {
	if err := f.record(actor, requestID); err != nil {
		return leave.Document{}, err
	}
	return f.document, nil
}

func (f *fakeLeaveService) DeleteDocument(ctx context.Context, actor user.Actor, requestID int64) error {
	return f.record(actor, requestID)
}

type fakeDashboardService struct{}

func (fakeDashboardService) GetDashboard(ctx context.Context, actor user.Actor) (dashboard.DashboardResponse, error) {
	return dashboard.DashboardResponse{
		Requests: dashboard.RequestSummaryResponse{Total: 4, Pending: 1, Approved: 2, Rejected: 1},
		OnLeave:  1,
	}, nil
}

type testServer struct {
	router      *chi.Mux
	jwtService  jwt.Service
	authService *fakeAuthService
	leave       *fakeLeaveService
	hub         *sse.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	authSvc := &fakeAuthService{
		loginFn: func(req auth.LoginRequest) (auth.TokenResponse, error) {
			if req.Password != "password123" {
				return auth.TokenResponse{}, auth.ErrInvalidCredentials
			}
			return auth.TokenResponse{
				AccessToken:           "access",
				AccessTokenExpiresIn:  time.Now().Add(time.Hour).Unix(),
				RefreshToken:          "refresh",
				RefreshTokenExpiresIn: time.Now().Add(24 * time.Hour).Unix(),
			}, nil
		},
	}
	leaveSvc := &fakeLeaveService{}
	hub := sse.NewHub()

	router := NewRouter(
		RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}, Env: "test", LogLevel: slog.LevelError},
		jwtService,
		NewAuthHandler(jwtService, authSvc),
		NewLeaveHandler(leaveSvc),
		NewDashboardHandler(fakeDashboardService{}),
		NewNotificationHandler(hub, jwtService),
	)

	return &testServer{
		router:      router,
		jwtService:  jwtService,
		authService: authSvc,
		leave:       leaveSvc,
		hub:         hub,
	}
}

// token issues an access token for a user with the given role.
func (s *testServer) token(t *testing.T, id int64, role user.Role) string {
	t.Helper()
	dept, dir := int64(100), int64(1)
	token, _, err := s.jwtService.GenerateAccessToken(user.User{
		ID:           id,
		Email:        "user@airalgerie.dz",
		Role:         role,
		DepartmentID: &dept,
		DirectionID:  &dir,
	})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// dataAs re-decodes the data field of the envelope into v.
func dataAs(t *testing.T, resp response.Response, v any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}
