package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stickcal/stickcal/internal/progression"
	"github.com/stickcal/stickcal/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by email. Used for login
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Looks up user by uid. Used by the authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user; events and profile go with it via FK cascade
	Delete(ctx context.Context, uid uuid.UUID) error
}

type EventsRepositoryI interface {
	// Creates new event. Title, OwnerID, Date (and optionally Time) are necessary
	Create(ctx context.Context, event *entity.Event) (uuid.UUID, error)
	// Searches event with given id
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	// Lists every event of an owner ordered by date key
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Event, error)
	// Lists owner's events whose date key falls in [from, to], ordered by date key
	GetByOwnerAndDateRange(ctx context.Context, ownerID uuid.UUID, from, to string) ([]*entity.Event, error)
	// Flips completed false->true and records the category. Guarded: a second
	// call on the same event reports ErrEventCompleted
	MarkCompleted(ctx context.Context, id uuid.UUID, category progression.Category) error
	// Deletes event with id
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProfilesRepositoryI interface {
	// Creates the bootstrap profile row, all counters at zero
	Create(ctx context.Context, profile *entity.Profile) error
	// Looks up a profile by its owner's uid
	Get(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	// Applies the completion delta (category counter +1, score +1, streak and
	// last completion day) and flips the event's credited flag, atomically
	CreditCompletion(ctx context.Context, eventID, userID uuid.UUID, category progression.Category, streak int, completedOn string) error
	// Lists profiles by score descending for the leaderboard
	ListByScoreDesc(ctx context.Context, limit int) ([]*entity.Profile, error)
	// Zeroes streaks of profiles whose last completion is older than cutoff
	ResetStaleStreaks(ctx context.Context, cutoff string) (int64, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
