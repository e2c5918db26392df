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

type EventsRepository struct {
	conn PgConnection
}

func NewEventsRepo(cfg DBConfig) *EventsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for eventsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for eventsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &EventsRepository{
		conn: pool,
	}
}

func NewEventsRepoWithConn(conn PgConnection) *EventsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for eventsRepo: " + err.Error())
	}
	return &EventsRepository{
		conn: conn,
	}
}

func (er *EventsRepository) Create(ctx context.Context, event *entity.Event) (uuid.UUID, error) {
	var id uuid.UUID
	row := er.conn.QueryRow(ctx, `INSERT INTO events (owner_id, title, date, event_time) VALUES ($1, $2, $3, $4) RETURNING id;`,
		event.OwnerID,
		event.Title,
		event.Date,
		event.Time,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return uuid.UUID{}, errorvalues.ErrUserNotFound
			}
		}
		return uuid.UUID{}, errors.New("creating event db error: " + err.Error())
	}
	return id, nil
}

func (er *EventsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	event.ID = id
	row := er.conn.QueryRow(ctx, `SELECT owner_id, title, date, event_time, category, completed, credited, created_at FROM events WHERE id = $1;`, id)
	if err := row.Scan(&event.OwnerID, &event.Title, &event.Date, &event.Time, &event.Category, &event.Completed, &event.Credited, &event.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrEventNotFound
		}
		return nil, errors.New("getting event by id error: " + err.Error())
	}
	return &event, nil
}

func (er *EventsRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Event, error) {
	rows, err := er.conn.Query(ctx, `SELECT id, owner_id, title, date, event_time, category, completed, credited, created_at
		FROM events WHERE owner_id = $1 ORDER BY date, event_time;`, ownerID)
	if err != nil {
		return nil, errors.New("getting events by owner error: " + err.Error())
	}
	return scanEvents(rows)
}

func (er *EventsRepository) GetByOwnerAndDateRange(ctx context.Context, ownerID uuid.UUID, from, to string) ([]*entity.Event, error) {
	rows, err := er.conn.Query(ctx, `SELECT id, owner_id, title, date, event_time, category, completed, credited, created_at
		FROM events WHERE owner_id = $1 AND date >= $2 AND date <= $3 ORDER BY date, event_time;`, ownerID, from, to)
	if err != nil {
		return nil, errors.New("getting events by date range error: " + err.Error())
	}
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]*entity.Event, error) {
	defer rows.Close()
	events := make([]*entity.Event, 0)
	for rows.Next() {
		e := entity.Event{}
		err := rows.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Date, &e.Time, &e.Category, &e.Completed, &e.Credited, &e.CreatedAt)
		if err != nil {
			return nil, errors.New("unmarshalling event error: " + err.Error())
		}
		events = append(events, &e)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning: " + rows.Err().Error())
	}
	return events, nil
}

// MarkCompleted is the first write of the completion pair. The
// completed = FALSE predicate makes the pending->completed transition
// one-way: a row already completed matches nothing and the call reports
// ErrEventCompleted without touching anything.
func (er *EventsRepository) MarkCompleted(ctx context.Context, id uuid.UUID, category progression.Category) error {
	ct, err := er.conn.Exec(ctx, `UPDATE events SET completed = TRUE, category = $2 WHERE id = $1 AND completed = FALSE;`,
		id, string(category),
	)
	if err != nil {
		return errors.New("marking event completed error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEventCompleted
	}
	return nil
}

func (er *EventsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := er.conn.Exec(ctx, `DELETE FROM events WHERE id = $1;`, id)
	if err != nil {
		return errors.New("error deleting event: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEventNotFound
	}
	return nil
}
