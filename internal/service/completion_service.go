package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stickcal/stickcal/internal/calendar"
	errorvalues "github.com/stickcal/stickcal/internal/error_values"
	"github.com/stickcal/stickcal/internal/progression"
	"github.com/stickcal/stickcal/internal/repository"
	"github.com/stickcal/stickcal/pkg/entity"
)

// CompletionService runs the completion saga: mark the event completed
// first, credit the profile second. The steps are ordered and the
// compensation for a failed second step is RetryCompletion with the
// same delta, never a rollback of the first.
type CompletionService struct {
	eventsRepo   repository.EventsRepositoryI
	profilesRepo repository.ProfilesRepositoryI
	events       *EventsService
	profiles     *ProfileService
	now          func() time.Time
}

func NewCompletionService(eventsRepo repository.EventsRepositoryI, profilesRepo repository.ProfilesRepositoryI, events *EventsService, profiles *ProfileService) *CompletionService {
	if eventsRepo == nil || profilesRepo == nil {
		log.Fatal("on completion service provided nil repos")
	}
	return &CompletionService{
		eventsRepo:   eventsRepo,
		profilesRepo: profilesRepo,
		events:       events,
		profiles:     profiles,
		now:          time.Now,
	}
}

// WithClock pins the clock, streak arithmetic depends on it.
func (serv *CompletionService) WithClock(now func() time.Time) *CompletionService {
	serv.now = now
	return serv
}

func (serv *CompletionService) CompleteEvent(ctx context.Context, eventID, ownerID uuid.UUID, category progression.Category) (*entity.Profile, error) {
	if _, err := progression.ParseCategory(string(category)); err != nil {
		return nil, err
	}
	event, err := serv.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventNotFound) {
			return nil, err
		}
		return nil, errors.New("events repository error: " + err.Error())
	}
	if event.OwnerID != ownerID {
		return nil, errorvalues.ErrWrongOwner
	}
	if event.Completed {
		return nil, errorvalues.ErrEventCompleted
	}
	// Step 1: the one-way Pending -> Completed transition.
	err = serv.eventsRepo.MarkCompleted(ctx, eventID, category)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventCompleted) {
			return nil, err
		}
		return nil, errors.New("events repository error: " + err.Error())
	}
	// Step 2: profile credit. From here on a failure leaves the event
	// completed but not credited, which only RetryCompletion may finish.
	return serv.credit(ctx, eventID, ownerID, category)
}

func (serv *CompletionService) RetryCompletion(ctx context.Context, eventID, ownerID uuid.UUID) (*entity.Profile, error) {
	event, err := serv.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEventNotFound) {
			return nil, err
		}
		return nil, errors.New("events repository error: " + err.Error())
	}
	if event.OwnerID != ownerID {
		return nil, errorvalues.ErrWrongOwner
	}
	if !event.Completed || event.Credited {
		return nil, errorvalues.ErrNothingToRetry
	}
	category, err := progression.ParseCategory(event.Category)
	if err != nil {
		return nil, err
	}
	return serv.credit(ctx, eventID, ownerID, category)
}

func (serv *CompletionService) credit(ctx context.Context, eventID, ownerID uuid.UUID, category progression.Category) (*entity.Profile, error) {
	profile, err := serv.profilesRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, errors.Join(errorvalues.ErrPartialCompletion, err)
	}
	today := calendar.KeyOf(serv.now())
	streak := nextStreak(profile, today)
	err = serv.profilesRepo.CreditCompletion(ctx, eventID, ownerID, category, streak, today)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNothingToRetry) {
			return nil, errorvalues.ErrNothingToRetry
		}
		return nil, errors.Join(errorvalues.ErrPartialCompletion, err)
	}
	updated, err := progression.ApplyCompletion(*profile, category)
	if err != nil {
		return nil, err
	}
	updated.Streak = streak
	updated.LastCompletedOn = today
	if serv.events != nil {
		serv.events.PublishSnapshot(ctx, ownerID)
	}
	if serv.profiles != nil {
		serv.profiles.PublishLeaderboard(ctx)
	}
	return &updated, nil
}

// nextStreak keeps the streak on a same-day completion, extends it when
// the previous completion was yesterday and restarts at 1 otherwise.
func nextStreak(profile *entity.Profile, today string) int {
	switch profile.LastCompletedOn {
	case today:
		return profile.Streak
	case yesterdayKey(today):
		return profile.Streak + 1
	}
	return 1
}

func yesterdayKey(today string) string {
	y, m, d, err := calendar.ParseDateKey(today)
	if err != nil {
		return ""
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return calendar.KeyOf(t)
}
