package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errorvalues "github.com/stickcal/stickcal/internal/error_values"
	"github.com/stickcal/stickcal/pkg/httputil"
)

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get profile error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	profile, err := s.profileService.Profile(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			logger.Error("get profile error: unexist profile")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "profile doesn't exist", nil)
			return
		}
		logger.Error("get profile error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "error while getting profile", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, profile)
	logger.Info("profile provided")
}

func (s *Server) GetAchievements(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get achievements error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	report, err := s.profileService.Achievements(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			logger.Error("get achievements error: unexist profile")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "profile doesn't exist", nil)
			return
		}
		logger.Error("get achievements error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "error while getting achievements", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, report)
	logger.Info("achievements provided")
}

func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		limit = 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	entries, err := s.profileService.Leaderboard(ctx, limit)
	if err != nil {
		logger.Error("get leaderboard error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "error while getting leaderboard", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"leaderboard": entries})
	logger.Info("leaderboard provided")
}
