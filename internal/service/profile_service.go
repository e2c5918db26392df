package service

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/google/uuid"
	errorvalues "github.com/stickcal/stickcal/internal/error_values"
	"github.com/stickcal/stickcal/internal/progression"
	"github.com/stickcal/stickcal/internal/repository"
	"github.com/stickcal/stickcal/internal/watch"
	"github.com/stickcal/stickcal/pkg/entity"
)

const leaderboardLimit = 50

type ProfileService struct {
	repo repository.ProfilesRepositoryI
	hub  *watch.Hub[[]entity.LeaderboardEntry]
}

func NewProfileService(profilesRepo repository.ProfilesRepositoryI, hub *watch.Hub[[]entity.LeaderboardEntry]) *ProfileService {
	if profilesRepo == nil || hub == nil {
		log.Fatal("on profile service provided nil deps")
	}
	return &ProfileService{
		repo: profilesRepo,
		hub:  hub,
	}
}

func (ps *ProfileService) Profile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := ps.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProfileNotFound) {
			return nil, err
		}
		return nil, errors.New("profiles repository error: " + err.Error())
	}
	return profile, nil
}

func (ps *ProfileService) Achievements(ctx context.Context, userID uuid.UUID) (*AchievementsReport, error) {
	profile, err := ps.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AchievementsReport{
		Score:      profile.Score,
		Stage:      progression.StageForScore(profile.Score),
		Streak:     profile.Streak,
		Categories: progression.Report(profile),
	}, nil
}

func (ps *ProfileService) Leaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error) {
	if limit < 1 || limit > leaderboardLimit {
		limit = leaderboardLimit
	}
	profiles, err := ps.repo.ListByScoreDesc(ctx, limit)
	if err != nil {
		return nil, errors.New("profiles repository error: " + err.Error())
	}
	entries := make([]entity.LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, entity.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Avatar:      p.Avatar,
			Score:       p.Score,
			Streak:      p.Streak,
			StageTitle:  progression.StageForScore(p.Score).Title,
		})
	}
	return entries, nil
}

func (ps *ProfileService) SubscribeLeaderboard(fn func([]entity.LeaderboardEntry)) (cancel func()) {
	return ps.hub.Subscribe(fn)
}

// PublishLeaderboard pushes the current standings to subscribers. On a
// failed read nothing is published and subscribers keep what they have.
func (ps *ProfileService) PublishLeaderboard(ctx context.Context) {
	entries, err := ps.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		slog.Error("leaderboard snapshot skipped", slog.String("error", err.Error()))
		return
	}
	ps.hub.Publish(entries)
}
