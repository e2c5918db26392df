package api

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/stickcal/stickcal/pkg/entity"
	"github.com/stickcal/stickcal/pkg/httputil"
)

// Server-sent snapshot feeds. Every message is a FULL snapshot that
// replaces whatever the client holds for the query, never a delta. The
// subscription is released when the request context ends.

func (s *Server) StreamEvents(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("events stream error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("events stream error: streaming unsupported")
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}
	snapshots := make(chan []*entity.Event, 4)
	cancel := s.eventsService.SubscribeOwner(uid, func(events []*entity.Event) {
		// Drop when the client can't keep up, the next snapshot
		// supersedes this one anyway.
		select {
		case snapshots <- events:
		default:
		}
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Initial snapshot before any change arrives
	events, err := s.eventsService.OwnerEvents(r.Context(), uid)
	if err != nil {
		logger.Error("events stream error: initial snapshot failed")
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "error while getting events", nil)
		return
	}
	writeSSE(w, flusher, events)

	logger.Info("events stream opened")
	for {
		select {
		case <-r.Context().Done():
			logger.Info("events stream closed")
			return
		case snapshot := <-snapshots:
			writeSSE(w, flusher, snapshot)
		}
	}
}

func (s *Server) StreamLeaderboard(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("leaderboard stream error: streaming unsupported")
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}
	snapshots := make(chan []entity.LeaderboardEntry, 4)
	cancel := s.profileService.SubscribeLeaderboard(func(entries []entity.LeaderboardEntry) {
		select {
		case snapshots <- entries:
		default:
		}
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	entries, err := s.profileService.Leaderboard(r.Context(), 0)
	if err != nil {
		logger.Error("leaderboard stream error: initial snapshot failed")
		httputil.WriteErrorResponse(w, http.StatusServiceUnavailable, "error while getting leaderboard", nil)
		return
	}
	writeSSE(w, flusher, entries)

	logger.Info("leaderboard stream opened")
	for {
		select {
		case <-r.Context().Done():
			logger.Info("leaderboard stream closed")
			return
		case snapshot := <-snapshots:
			writeSSE(w, flusher, snapshot)
		}
	}
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, payload any) {
	data, err := sonic.ConfigDefault.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
