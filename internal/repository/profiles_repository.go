package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/stickcal/stickcal/internal/error_values"
	"github.com/stickcal/stickcal/internal/progression"
	"github.com/stickcal/stickcal/pkg/cleanup"
	"github.com/stickcal/stickcal/pkg/entity"
)

type ProfilesRepository struct {
	conn PgConnection
}

func NewProfilesRepo(cfg DBConfig) *ProfilesRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for profilesRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &ProfilesRepository{
		conn: pool,
	}
}

func NewProfilesRepoWithConn(conn PgConnection) *ProfilesRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for profilesRepo: " + err.Error())
	}
	return &ProfilesRepository{
		conn: conn,
	}
}

// counterColumn maps a closed-enum category onto its column. The switch
// keeps category names out of the SQL string entirely.
func counterColumn(c progression.Category) (string, error) {
	switch c {
	case progression.CategoryPunctual:
		return "punctual", nil
	case progression.CategoryAcademicWarrior:
		return "academic_warrior", nil
	case progression.CategoryAthleticFreak:
		return "athletic_freak", nil
	}
	return "", errorvalues.ErrUnknownCategory
}

func (pr *ProfilesRepository) Create(ctx context.Context, profile *entity.Profile) error {
	if profile == nil {
		return errors.New("profile is nil")
	}
	_, err := pr.conn.Exec(ctx, `INSERT INTO profiles (user_id, display_name, avatar) VALUES ($1, $2, $3);`,
		profile.UserID,
		profile.DisplayName,
		profile.Avatar,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// Unique violation: profile bootstrap already ran for this identity
			case "23505":
				return errorvalues.ErrUserExists
			// FK violation
			case "23503":
				return errorvalues.ErrUserNotFound
			}
		}
		return errors.New("creating profile db error: " + err.Error())
	}
	return nil
}

func (pr *ProfilesRepository) Get(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	var p entity.Profile
	p.UserID = userID
	row := pr.conn.QueryRow(ctx, `SELECT display_name, avatar, score, punctual, academic_warrior, athletic_freak, streak, last_completed_on, created_at
		FROM profiles WHERE user_id = $1;`, userID)
	if err := row.Scan(&p.DisplayName, &p.Avatar, &p.Score, &p.Punctual, &p.AcademicWarrior, &p.AthleticFreak, &p.Streak, &p.LastCompletedOn, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProfileNotFound
		}
		return nil, errors.New("getting profile error: " + err.Error())
	}
	return &p, nil
}

// CreditCompletion is the second write of the completion pair. The
// profile delta and the event's credited flag commit together, so the
// only state a failure can leave behind is completed AND NOT credited,
// which RetryCompletion knows how to finish.
func (pr *ProfilesRepository) CreditCompletion(ctx context.Context, eventID, userID uuid.UUID, category progression.Category, streak int, completedOn string) error {
	column, err := counterColumn(category)
	if err != nil {
		return err
	}
	tx, err := pr.conn.Begin(ctx)
	if err != nil {
		return errors.New("starting credit transaction error: " + err.Error())
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `UPDATE profiles SET `+column+` = `+column+` + 1, score = score + 1, streak = $2, last_completed_on = $3 WHERE user_id = $1;`,
		userID, streak, completedOn,
	)
	if err != nil {
		return errors.New("incrementing profile error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrProfileNotFound
	}
	ct, err = tx.Exec(ctx, `UPDATE events SET credited = TRUE WHERE id = $1 AND credited = FALSE;`, eventID)
	if err != nil {
		return errors.New("marking event credited error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrNothingToRetry
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing credit transaction error: " + err.Error())
	}
	return nil
}

func (pr *ProfilesRepository) ListByScoreDesc(ctx context.Context, limit int) ([]*entity.Profile, error) {
	rows, err := pr.conn.Query(ctx, `SELECT user_id, display_name, avatar, score, punctual, academic_warrior, athletic_freak, streak, last_completed_on, created_at
		FROM profiles ORDER BY score DESC, display_name LIMIT $1;`, limit)
	if err != nil {
		return nil, errors.New("listing profiles error: " + err.Error())
	}
	defer rows.Close()
	profiles := make([]*entity.Profile, 0)
	for rows.Next() {
		p := entity.Profile{}
		err = rows.Scan(&p.UserID, &p.DisplayName, &p.Avatar, &p.Score, &p.Punctual, &p.AcademicWarrior, &p.AthleticFreak, &p.Streak, &p.LastCompletedOn, &p.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling profile error: " + err.Error())
		}
		profiles = append(profiles, &p)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return profiles, nil
}

func (pr *ProfilesRepository) ResetStaleStreaks(ctx context.Context, cutoff string) (int64, error) {
	ct, err := pr.conn.Exec(ctx, `UPDATE profiles SET streak = 0 WHERE streak > 0 AND (last_completed_on = '' OR last_completed_on < $1);`, cutoff)
	if err != nil {
		return 0, errors.New("resetting stale streaks error: " + err.Error())
	}
	return ct.RowsAffected(), nil
}
