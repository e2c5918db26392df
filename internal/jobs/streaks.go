// Package jobs hosts scheduled maintenance around the gamification
// state. Right now that is the nightly streak audit.
package jobs

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stickcal/stickcal/internal/calendar"
	"github.com/stickcal/stickcal/internal/repository"
	"github.com/stickcal/stickcal/internal/service"
)

// StreakAuditor zeroes the streak of every profile that completed
// nothing the previous day. Runs shortly after midnight so a completion
// at 23:59 still counts for its day.
type StreakAuditor struct {
	profiles repository.ProfilesRepositoryI
	board    *service.ProfileService
	cron     *cron.Cron
	now      func() time.Time
}

// NewStreakAuditor wires the auditor. board may be nil, in which case
// resets are not announced to leaderboard subscribers.
func NewStreakAuditor(profilesRepo repository.ProfilesRepositoryI, board *service.ProfileService) *StreakAuditor {
	if profilesRepo == nil {
		log.Fatal("on streak auditor provided nil repo")
	}
	return &StreakAuditor{
		profiles: profilesRepo,
		board:    board,
		cron:     cron.New(),
		now:      time.Now,
	}
}

func (a *StreakAuditor) WithClock(now func() time.Time) *StreakAuditor {
	a.now = now
	return a
}

func (a *StreakAuditor) Start() error {
	_, err := a.cron.AddFunc("5 0 * * *", a.RunOnce)
	if err != nil {
		return err
	}
	a.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running audit to finish.
func (a *StreakAuditor) Stop() {
	<-a.cron.Stop().Done()
}

func (a *StreakAuditor) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	// A streak survives the audit only with a completion yesterday or today.
	cutoff := calendar.KeyOf(a.now().AddDate(0, 0, -1))
	reset, err := a.profiles.ResetStaleStreaks(ctx, cutoff)
	if err != nil {
		slog.Error("streak audit failed", slog.String("error", err.Error()))
		return
	}
	slog.Info("streak audit finished", slog.Int64("reset", reset), slog.String("cutoff", cutoff))
	// Zeroed streaks change the standings, so subscribers get a fresh snapshot.
	if reset > 0 && a.board != nil {
		a.board.PublishLeaderboard(ctx)
	}
}
