package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stickcal/stickcal/internal/api"
	errorvalues "github.com/stickcal/stickcal/internal/error_values"
	"github.com/stickcal/stickcal/internal/progression"
	"github.com/stickcal/stickcal/internal/service"
	"github.com/stickcal/stickcal/pkg/entity"
	"github.com/stickcal/stickcal/pkg/httputil"
	jwtservice "github.com/stickcal/stickcal/pkg/jwt_service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

// Variables for tests
var (
	email           = "tester@example.com"
	password        = "test_password"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	uid             = uuid.New()
	eventID         = uuid.New()
	testEvent       = entity.Event{
		ID:        eventID,
		OwnerID:   uid,
		Title:     "test_event",
		Date:      "2026-03-14",
		Time:      "09:00",
		CreatedAt: time.Now(),
	}
	testProfile = entity.Profile{
		UserID:      uid,
		DisplayName: "tester",
		Avatar:      "👤",
		Score:       5,
		Punctual:    5,
		Streak:      2,
	}
)

type UserServiceMock struct {
	err error
}

func (usmock *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if usmock.err != nil {
		return nil, usmock.err
	}
	return &entity.User{ID: uid, Email: email, PasswordHash: string(passwordHash)}, nil
}

func (usmock *UserServiceMock) Login(ctx context.Context, email2, password2 string) (*entity.User, error) {
	if usmock.err != nil {
		return nil, usmock.err
	}
	return &entity.User{ID: uid, Email: email, PasswordHash: string(passwordHash)}, nil
}

func (usmock *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if usmock.err != nil {
		return nil, usmock.err
	}
	return &entity.User{ID: uid, Email: email, PasswordHash: string(passwordHash)}, nil
}

func (usmock *UserServiceMock) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	return usmock.err
}

type EventsServiceMock struct {
	err    error
	events []*entity.Event
}

func (esmock *EventsServiceMock) CreateEvent(ctx context.Context, ownerID uuid.UUID, req *service.CreateEventRequest) (*entity.Event, error) {
	if esmock.err != nil {
		return nil, esmock.err
	}
	return &entity.Event{
		ID:      eventID,
		OwnerID: ownerID,
		Title:   req.Title,
		Date:    req.Date,
		Time:    req.Time,
	}, nil
}

func (esmock *EventsServiceMock) MonthEvents(ctx context.Context, ownerID uuid.UUID, year, month int) (map[string][]*entity.Event, error) {
	if esmock.err != nil {
		return nil, esmock.err
	}
	grouped := make(map[string][]*entity.Event)
	for _, e := range esmock.events {
		grouped[e.Date] = append(grouped[e.Date], e)
	}
	return grouped, nil
}

func (esmock *EventsServiceMock) OwnerEvents(ctx context.Context, ownerID uuid.UUID) ([]*entity.Event, error) {
	if esmock.err != nil {
		return nil, esmock.err
	}
	return esmock.events, nil
}

func (esmock *EventsServiceMock) DeleteEvent(ctx context.Context, eventID, ownerID uuid.UUID) error {
	return esmock.err
}

func (esmock *EventsServiceMock) SubscribeOwner(ownerID uuid.UUID, fn func([]*entity.Event)) (cancel func()) {
	return func() {}
}

type CompletionServiceMock struct {
	err error
}

func (csmock *CompletionServiceMock) CompleteEvent(ctx context.Context, eventID, ownerID uuid.UUID, category progression.Category) (*entity.Profile, error) {
	if csmock.err != nil {
		return nil, csmock.err
	}
	p := testProfile
	return &p, nil
}

func (csmock *CompletionServiceMock) RetryCompletion(ctx context.Context, eventID, ownerID uuid.UUID) (*entity.Profile, error) {
	if csmock.err != nil {
		return nil, csmock.err
	}
	p := testProfile
	return &p, nil
}

type ProfileServiceMock struct {
	err error
}

func (psmock *ProfileServiceMock) Profile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	if psmock.err != nil {
		return nil, psmock.err
	}
	p := testProfile
	return &p, nil
}

func (psmock *ProfileServiceMock) Achievements(ctx context.Context, userID uuid.UUID) (*service.AchievementsReport, error) {
	if psmock.err != nil {
		return nil, psmock.err
	}
	return &service.AchievementsReport{
		Score:      testProfile.Score,
		Stage:      progression.StageForScore(testProfile.Score),
		Streak:     testProfile.Streak,
		Categories: progression.Report(&testProfile),
	}, nil
}

func (psmock *ProfileServiceMock) Leaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	if psmock.err != nil {
		return nil, psmock.err
	}
	return []entity.LeaderboardEntry{{
		Rank:        1,
		UserID:      uid,
		DisplayName: testProfile.DisplayName,
		Avatar:      testProfile.Avatar,
		Score:       testProfile.Score,
		Streak:      testProfile.Streak,
		StageTitle:  progression.StageForScore(testProfile.Score).Title,
	}}, nil
}

func (psmock *ProfileServiceMock) SubscribeLeaderboard(fn func([]entity.LeaderboardEntry)) (cancel func()) {
	return func() {}
}

func authedRequest(method, target string, body *bytes.Reader) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(api.ContextWithUID(req.Context(), uid))
}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	mock := &UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: mock,
	})
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("user exists", func(t *testing.T) {
		mock.err = errorvalues.ErrUserExists
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
		serv.Register(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		mock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", bytes.NewReader(body))
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		mock.err = nil
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register", nil)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	mock := &UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: mock,
		JwtService:  jwtservice.New("secret"),
	})
	t.Run("logged in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result))
		token, ok := result["token"].(string)
		assert.True(t, ok)
		assert.NotEmpty(t, token)
	})
	t.Run("wrong credentials", func(t *testing.T) {
		mock.err = errorvalues.ErrWrongCredentials
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
		serv.Login(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		mock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
		serv.Login(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		mock.err = nil
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", nil)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestCreateEvent(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.CreateEventRequest{
		Title: testEvent.Title,
		Date:  testEvent.Date,
		Time:  testEvent.Time,
	})
	require.NoError(t, err)
	mock := &EventsServiceMock{}
	serv := api.New(&api.ServicesList{
		EventsService: mock,
	})
	t.Run("created", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.CreateEvent(rr, authedRequest(http.MethodPost, "/api/v1/events", bytes.NewReader(body)))
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
		var created entity.Event
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&created))
		assert.Equal(t, testEvent.Title, created.Title)
		assert.Equal(t, testEvent.Date, created.Date)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events", bytes.NewReader(body))
		serv.CreateEvent(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.CreateEvent(rr, authedRequest(http.MethodPost, "/api/v1/events", bytes.NewReader([]byte("corrupted"))))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("unexist user", func(t *testing.T) {
		mock.err = errorvalues.ErrUserNotFound
		rr := httptest.NewRecorder()
		serv.CreateEvent(rr, authedRequest(http.MethodPost, "/api/v1/events", bytes.NewReader(body)))
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("validation error", func(t *testing.T) {
		mock.err = errors.New("validation error")
		rr := httptest.NewRecorder()
		serv.CreateEvent(rr, authedRequest(http.MethodPost, "/api/v1/events", bytes.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestGetMonthEvents(t *testing.T) {
	mock := &EventsServiceMock{events: []*entity.Event{&testEvent}}
	serv := api.New(&api.ServicesList{
		EventsService: mock,
	})
	t.Run("month provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetMonthEvents(rr, authedRequest(http.MethodGet, "/api/v1/events?year=2026&month=3", nil))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetMonthEventsResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, 2026, resp.Year)
		assert.Equal(t, 3, resp.Month)
		assert.Len(t, resp.Events[testEvent.Date], 1)
	})
	t.Run("defaults to the current month", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetMonthEvents(rr, authedRequest(http.MethodGet, "/api/v1/events", nil))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetMonthEventsResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, time.Now().Year(), resp.Year)
		assert.Equal(t, int(time.Now().Month()), resp.Month)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
		serv.GetMonthEvents(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("invalid month", func(t *testing.T) {
		mock.err = errorvalues.ErrInvalidDateKey
		rr := httptest.NewRecorder()
		serv.GetMonthEvents(rr, authedRequest(http.MethodGet, "/api/v1/events?year=2026&month=13", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		mock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		serv.GetMonthEvents(rr, authedRequest(http.MethodGet, "/api/v1/events?year=2026&month=3", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Result().StatusCode)
	})
}

func TestDeleteEvent(t *testing.T) {
	mock := &EventsServiceMock{}
	serv := api.New(&api.ServicesList{
		EventsService: mock,
	})
	deleteReq := func() *http.Request {
		req := authedRequest(http.MethodDelete, "/api/v1/events/"+eventID.String(), nil)
		req.SetPathValue("id", eventID.String())
		return req
	}
	t.Run("deleted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.DeleteEvent(rr, deleteReq())
		assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	})
	t.Run("invalid id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authedRequest(http.MethodDelete, "/api/v1/events/garbage", nil)
		req.SetPathValue("id", "garbage")
		serv.DeleteEvent(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("unexist event", func(t *testing.T) {
		mock.err = errorvalues.ErrEventNotFound
		rr := httptest.NewRecorder()
		serv.DeleteEvent(rr, deleteReq())
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("wrong owner looks like unexist event", func(t *testing.T) {
		mock.err = errorvalues.ErrWrongOwner
		rr := httptest.NewRecorder()
		serv.DeleteEvent(rr, deleteReq())
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		mock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		serv.DeleteEvent(rr, deleteReq())
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestCompleteEvent(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.CompleteEventRequest{
		Category: "punctual",
	})
	require.NoError(t, err)
	mock := &CompletionServiceMock{}
	serv := api.New(&api.ServicesList{
		CompletionService: mock,
	})
	completeReq := func(body []byte) *http.Request {
		req := authedRequest(http.MethodPost, "/api/v1/events/"+eventID.String()+"/complete", bytes.NewReader(body))
		req.SetPathValue("id", eventID.String())
		return req
	}
	testCases := []struct {
		name         string
		serviceError error
		expectedCode int
	}{
		{"completed", nil, http.StatusOK},
		{"unexist event", errorvalues.ErrEventNotFound, http.StatusNotFound},
		{"wrong owner", errorvalues.ErrWrongOwner, http.StatusNotFound},
		{"already completed", errorvalues.ErrEventCompleted, http.StatusConflict},
		{"partial completion", errorvalues.ErrPartialCompletion, http.StatusConflict},
		{"service error", errors.New("service error"), http.StatusServiceUnavailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock.err = tc.serviceError
			rr := httptest.NewRecorder()
			serv.CompleteEvent(rr, completeReq(body))
			assert.Equal(t, tc.expectedCode, rr.Result().StatusCode)
		})
	}
	t.Run("partial completion carries its kind", func(t *testing.T) {
		mock.err = errorvalues.ErrPartialCompletion
		rr := httptest.NewRecorder()
		serv.CompleteEvent(rr, completeReq(body))
		var resp httputil.ErrorResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Equal(t, "partial_completion", resp.Kind)
	})
	t.Run("completed responds with the updated profile", func(t *testing.T) {
		mock.err = nil
		rr := httptest.NewRecorder()
		serv.CompleteEvent(rr, completeReq(body))
		var profile entity.Profile
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&profile))
		assert.Equal(t, testProfile.Score, profile.Score)
		assert.Equal(t, testProfile.Punctual, profile.Punctual)
	})
	t.Run("unknown category", func(t *testing.T) {
		mock.err = nil
		badBody, err := sonic.ConfigDefault.Marshal(api.CompleteEventRequest{Category: "mystery"})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		serv.CompleteEvent(rr, completeReq(badBody))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.CompleteEvent(rr, completeReq([]byte("corrupted")))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestRetryCompletion(t *testing.T) {
	mock := &CompletionServiceMock{}
	serv := api.New(&api.ServicesList{
		CompletionService: mock,
	})
	retryReq := func() *http.Request {
		req := authedRequest(http.MethodPost, "/api/v1/events/"+eventID.String()+"/complete/retry", nil)
		req.SetPathValue("id", eventID.String())
		return req
	}
	t.Run("retried", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.RetryCompletion(rr, retryReq())
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("nothing to retry", func(t *testing.T) {
		mock.err = errorvalues.ErrNothingToRetry
		rr := httptest.NewRecorder()
		serv.RetryCompletion(rr, retryReq())
		assert.Equal(t, http.StatusConflict, rr.Result().StatusCode)
	})
}

func TestProfileHandlers(t *testing.T) {
	mock := &ProfileServiceMock{}
	serv := api.New(&api.ServicesList{
		ProfileService: mock,
	})
	t.Run("profile provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetProfile(rr, authedRequest(http.MethodGet, "/api/v1/profile", nil))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var profile entity.Profile
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&profile))
		assert.Equal(t, testProfile.DisplayName, profile.DisplayName)
	})
	t.Run("unexist profile", func(t *testing.T) {
		mock.err = errorvalues.ErrProfileNotFound
		rr := httptest.NewRecorder()
		serv.GetProfile(rr, authedRequest(http.MethodGet, "/api/v1/profile", nil))
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("achievements provided", func(t *testing.T) {
		mock.err = nil
		rr := httptest.NewRecorder()
		serv.GetAchievements(rr, authedRequest(http.MethodGet, "/api/v1/profile/achievements", nil))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var report service.AchievementsReport
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&report))
		assert.Equal(t, testProfile.Score, report.Score)
		assert.Equal(t, "Knife Wielder", report.Stage.Title)
	})
	t.Run("leaderboard provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		serv.GetLeaderboard(rr, authedRequest(http.MethodGet, "/api/v1/leaderboard?limit=10", nil))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp struct {
			Leaderboard []entity.LeaderboardEntry `json:"leaderboard"`
		}
		require.NoError(t, sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp))
		assert.Len(t, resp.Leaderboard, 1)
		assert.Equal(t, 1, resp.Leaderboard[0].Rank)
	})
	t.Run("leaderboard service error", func(t *testing.T) {
		mock.err = errors.New("service error")
		rr := httptest.NewRecorder()
		serv.GetLeaderboard(rr, authedRequest(http.MethodGet, "/api/v1/leaderboard", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Result().StatusCode)
	})
}

func TestStreamEvents(t *testing.T) {
	mock := &EventsServiceMock{events: []*entity.Event{&testEvent}}
	serv := api.New(&api.ServicesList{
		EventsService: mock,
	})
	// A cancelled context lets the handler emit the initial snapshot and
	// return instead of blocking on the feed.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/stream", nil).
		WithContext(api.ContextWithUID(ctx, uid))
	rr := httptest.NewRecorder()
	serv.StreamEvents(rr, req)
	assert.Equal(t, "text/event-stream", rr.Result().Header.Get("Content-Type"))
	body := rr.Body.String()
	assert.True(t, strings.HasPrefix(body, "data: "))
	assert.Contains(t, body, testEvent.Title)
}

func TestStreamLeaderboard(t *testing.T) {
	mock := &ProfileServiceMock{}
	serv := api.New(&api.ServicesList{
		ProfileService: mock,
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard/stream", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	serv.StreamLeaderboard(rr, req)
	assert.Equal(t, "text/event-stream", rr.Result().Header.Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), testProfile.DisplayName)
}

func TestExportICS(t *testing.T) {
	allDay := entity.Event{
		ID:        uuid.New(),
		OwnerID:   uid,
		Title:     "all_day_event",
		Date:      "2026-03-15",
		Completed: true,
	}
	mock := &EventsServiceMock{events: []*entity.Event{&testEvent, &allDay}}
	serv := api.New(&api.ServicesList{
		EventsService: mock,
	})
	rr := httptest.NewRecorder()
	serv.ExportICS(rr, authedRequest(http.MethodGet, "/api/v1/events/export.ics", nil))
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	assert.Contains(t, rr.Result().Header.Get("Content-Type"), "text/calendar")
	body := rr.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:"+testEvent.Title)
	assert.Contains(t, body, "SUMMARY:"+allDay.Title)
	assert.Contains(t, body, "STATUS:CONFIRMED")
	assert.Contains(t, body, "END:VCALENDAR")
}

func TestAuthMiddleware(t *testing.T) {
	userMock := &UserServiceMock{}
	jwtServ := jwtservice.New("secret")
	serv := api.New(&api.ServicesList{
		UserService: userMock,
		JwtService:  jwtServ,
	})
	handler := serv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err := api.GetUIDFromContext(r)
		require.NoError(t, err)
		assert.Equal(t, uid, got)
		w.WriteHeader(http.StatusOK)
	}))
	token, err := jwtServ.GenerateToken(&entity.User{ID: uid, Email: email})
	require.NoError(t, err)
	t.Run("successful auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("expired token", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &api.JWTClaims{
			UserID: uid.String(),
			Email:  email,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		signed, err := expired.SignedString([]byte("secret"))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("deleted user", func(t *testing.T) {
		userMock.err = errorvalues.ErrUserNotFound
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}
