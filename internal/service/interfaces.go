package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stickcal/stickcal/internal/progression"
	"github.com/stickcal/stickcal/pkg/entity"
)

type RegisterRequest struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72"`
}

type CreateEventRequest struct {
	Title string `validate:"required,min=1,max=200"`
	Date  string `validate:"required,datekey"`
	Time  string `validate:"omitempty,clock24"`
}

type UserServiceI interface {
	// Validates credentials, creates the user row and bootstraps the profile
	// (all counters at zero) exactly once per new identity
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, gives back user's data with ID.
	// Unknown email and wrong password are indistinguishable to the caller
	Login(ctx context.Context, email, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type EventsServiceI interface {
	CreateEvent(ctx context.Context, ownerID uuid.UUID, req *CreateEventRequest) (*entity.Event, error)
	// Owner's events of one month grouped by date key
	MonthEvents(ctx context.Context, ownerID uuid.UUID, year, month int) (map[string][]*entity.Event, error)
	// Every event of the owner ordered by date key, the subscription snapshot shape
	OwnerEvents(ctx context.Context, ownerID uuid.UUID) ([]*entity.Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID uuid.UUID) error
	// Full-snapshot push feed for one owner; caller must invoke cancel on teardown
	SubscribeOwner(ownerID uuid.UUID, fn func([]*entity.Event)) (cancel func())
}

type CompletionServiceI interface {
	// The one stateful progression rule: marks the event completed, then
	// credits the profile (category counter +1, score +1). A failure after the
	// first write surfaces ErrPartialCompletion
	CompleteEvent(ctx context.Context, eventID, ownerID uuid.UUID, category progression.Category) (*entity.Profile, error)
	// Finishes the second half for an event left completed but not credited
	RetryCompletion(ctx context.Context, eventID, ownerID uuid.UUID) (*entity.Profile, error)
}

type ProfileServiceI interface {
	Profile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	Achievements(ctx context.Context, userID uuid.UUID) (*AchievementsReport, error)
	Leaderboard(ctx context.Context, limit int) ([]entity.LeaderboardEntry, error)
	SubscribeLeaderboard(fn func([]entity.LeaderboardEntry)) (cancel func())
}

// AchievementsReport is the achievements panel payload: character stage
// for the aggregate score plus per-category tier progress.
type AchievementsReport struct {
	Score      int                            `json:"score"`
	Stage      progression.Stage              `json:"stage"`
	Streak     int                            `json:"streak"`
	Categories []progression.CategoryProgress `json:"categories"`
}
