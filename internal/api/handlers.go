package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/stickcal/stickcal/internal/error_values"
	"github.com/stickcal/stickcal/internal/progression"
	"github.com/stickcal/stickcal/internal/service"
	"github.com/stickcal/stickcal/pkg/entity"
	"github.com/stickcal/stickcal/pkg/httputil"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateEventRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

type CompleteEventRequest struct {
	Category string `json:"category"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type GetMonthEventsResponse struct {
	UserID string                     `json:"uid"`
	Year   int                        `json:"year"`
	Month  int                        `json:"month"`
	Events map[string][]*entity.Event `json:"events"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			logger.Error("registering error: existed user")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user with such email already exists", nil)
			return
		}
		logger.Error("registering error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"uid": user.ID.String(),
	})
	logger.Info("successful registration")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			// One answer for both unknown email and wrong password
			logger.Error("login error: wrong credentials")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid email or password", nil)
			return
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
			return
		}
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":   user.ID.String(),
		"token": token,
	})
	logger.Info("successful login")
}

func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create event error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateEventRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create event error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	event, err := s.eventsService.CreateEvent(ctx, uid, &service.CreateEventRequest{
		Title: req.Title,
		Date:  req.Date,
		Time:  req.Time,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create event error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create event: user doesn't exist", nil)
		default:
			logger.Error("create event error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "couldn't create event", err)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, event)
	logger.Info("event created")
}

func (s *Server) GetMonthEvents(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get events error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	now := time.Now()
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		year = now.Year()
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		month = int(now.Month())
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	events, err := s.eventsService.MonthEvents(ctx, uid, year, month)
	if err != nil {
		if errors.Is(err, errorvalues.ErrInvalidDateKey) {
			logger.Error("get events error: invalid month")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid year or month", nil)
			return
		}
		logger.Error("getting events error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "error while getting events", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetMonthEventsResponse{
		UserID: uid.String(),
		Year:   year,
		Month:  month,
		Events: events,
	})
	logger.Info("events provided")
}

func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("event deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("event deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid event id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.eventsService.DeleteEvent(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrEventNotFound):
			logger.Error("event deletion error: unexist event")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "event doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("event deletion error: event has different owner")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "event doesn't exist", nil)
		default:
			logger.Error("event deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting event", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("event deleted")
}

func (s *Server) CompleteEvent(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("event completion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("event completion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid event id in path value", nil)
		return
	}
	var req CompleteEventRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("event completion error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	category, err := progression.ParseCategory(req.Category)
	if err != nil {
		logger.Error("event completion error: unknown category", slog.String("category", req.Category))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown achievement category", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	profile, err := s.completionService.CompleteEvent(ctx, id, uid, category)
	if err != nil {
		s.writeCompletionError(w, logger, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, profile)
	logger.Info("event completed", slog.String("category", string(category)))
}

func (s *Server) RetryCompletion(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("completion retry error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("completion retry error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid event id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	profile, err := s.completionService.RetryCompletion(ctx, id, uid)
	if err != nil {
		s.writeCompletionError(w, logger, err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, profile)
	logger.Info("completion credit retried")
}

// writeCompletionError maps the completion saga's outcomes onto HTTP.
// The half-done state gets its own machine-readable code so the UI can
// offer a retry of only the missing profile credit.
func (s *Server) writeCompletionError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrEventNotFound):
		logger.Error("completion error: unexist event")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "event doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrWrongOwner):
		logger.Error("completion error: event has different owner")
		httputil.WriteErrorResponse(w, http.StatusNotFound, "event doesn't exist", nil)
	case errors.Is(err, errorvalues.ErrEventCompleted):
		logger.Error("completion error: event already completed")
		httputil.WriteErrorResponse(w, http.StatusConflict, "event is already completed", nil)
	case errors.Is(err, errorvalues.ErrNothingToRetry):
		logger.Error("completion error: nothing to retry")
		httputil.WriteErrorResponse(w, http.StatusConflict, "event has no pending completion credit", nil)
	case errors.Is(err, errorvalues.ErrUnknownCategory):
		logger.Error("completion error: unknown category")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "unknown achievement category", nil)
	case errors.Is(err, errorvalues.ErrPartialCompletion):
		logger.Error("completion error: profile credit failed after event marked", slog.String("error", err.Error()))
		httputil.WriteErrorKindResponse(w, http.StatusConflict, "partial_completion", "event marked completed but profile credit pending, retry it", nil)
	default:
		logger.Error("completion error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "internal error while completing event", nil)
	}
}

func (s *Server) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("account deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req DeleteAccountRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("account deletion error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.userService.DeleteAccount(ctx, uid, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("account deletion error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("account deletion error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid password", nil)
		default:
			logger.Error("account deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting account", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("account deleted")
}
