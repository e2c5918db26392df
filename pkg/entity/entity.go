package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Event is a single calendar entry owned by one user. Date is a
// canonical YYYY-MM-DD key, Time an optional HH:MM string. Completed
// flips to true exactly once; Credited marks that the owner's profile
// has already been updated for that completion.
type Event struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Time      string    `json:"time,omitempty"`
	Category  string    `json:"category,omitempty"`
	Completed bool      `json:"completed"`
	Credited  bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile holds the gamification state of a user. Score equals the sum
// of the category counters as long as event completion stays the only
// mutation path. LastCompletedOn is a date key, empty if the user never
// completed anything.
type Profile struct {
	UserID          uuid.UUID `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	Avatar          string    `json:"avatar"`
	Score           int       `json:"score"`
	Punctual        int       `json:"punctual"`
	AcademicWarrior int       `json:"academic_warrior"`
	AthleticFreak   int       `json:"athletic_freak"`
	Streak          int       `json:"streak"`
	LastCompletedOn string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Avatar      string    `json:"avatar"`
	Score       int       `json:"score"`
	Streak      int       `json:"streak"`
	StageTitle  string    `json:"stage_title"`
}
