package service

import (
	"context"
	"errors"
	"log"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stickcal/stickcal/internal/calendar"
	errorvalues "github.com/stickcal/stickcal/internal/error_values"
	"github.com/stickcal/stickcal/internal/repository"
	"github.com/stickcal/stickcal/internal/watch"
	"github.com/stickcal/stickcal/pkg/entity"
)

type EventsService struct {
	repo repository.EventsRepositoryI
	hub  *watch.KeyedHub[uuid.UUID, []*entity.Event]
}

func NewEventsService(eventsRepo repository.EventsRepositoryI, hub *watch.KeyedHub[uuid.UUID, []*entity.Event]) *EventsService {
	if eventsRepo == nil || hub == nil {
		log.Fatal("on events service provided nil deps")
	}
	return &EventsService{
		repo: eventsRepo,
		hub:  hub,
	}
}

func (es *EventsService) CreateEvent(ctx context.Context, ownerID uuid.UUID, req *CreateEventRequest) (*entity.Event, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	e := entity.Event{
		OwnerID: ownerID,
		Title:   req.Title,
		Date:    req.Date,
		Time:    req.Time,
	}
	id, err := es.repo.Create(ctx, &e)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("events repository error: " + err.Error())
	}
	event, err := es.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventNotFound) {
			return nil, err
		}
		return nil, errors.New("events repository error: " + err.Error())
	}
	es.PublishSnapshot(ctx, ownerID)
	return event, nil
}

func (es *EventsService) MonthEvents(ctx context.Context, ownerID uuid.UUID, year, month int) (map[string][]*entity.Event, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return nil, errorvalues.ErrInvalidDateKey
	}
	from, to := calendar.MonthRange(year, month)
	events, err := es.repo.GetByOwnerAndDateRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, errors.New("events repository error: " + err.Error())
	}
	grouped := make(map[string][]*entity.Event)
	for _, e := range events {
		grouped[e.Date] = append(grouped[e.Date], e)
	}
	return grouped, nil
}

func (es *EventsService) OwnerEvents(ctx context.Context, ownerID uuid.UUID) ([]*entity.Event, error) {
	events, err := es.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.New("events repository error: " + err.Error())
	}
	return events, nil
}

func (es *EventsService) DeleteEvent(ctx context.Context, eventID, ownerID uuid.UUID) error {
	event, err := es.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventNotFound) {
			return err
		}
		return errors.New("events repository error: " + err.Error())
	}
	if event.OwnerID != ownerID {
		return errorvalues.ErrWrongOwner
	}
	err = es.repo.Delete(ctx, eventID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventNotFound) {
			return err
		}
		return errors.New("events repository error: " + err.Error())
	}
	es.PublishSnapshot(ctx, ownerID)
	return nil
}

func (es *EventsService) SubscribeOwner(ownerID uuid.UUID, fn func([]*entity.Event)) (cancel func()) {
	return es.hub.Subscribe(ownerID, fn)
}

// PublishSnapshot pushes the owner's full event list to subscribers. A
// failed read is logged and nothing is published, so subscribers keep
// their last-known-good snapshot.
func (es *EventsService) PublishSnapshot(ctx context.Context, ownerID uuid.UUID) {
	events, err := es.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		slog.Error("events snapshot skipped", slog.String("owner", ownerID.String()), slog.String("error", err.Error()))
		return
	}
	es.hub.Publish(ownerID, events)
}
