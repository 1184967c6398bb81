package lunch

import "time"

const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

const (
	VoteWant   = "want"
	VoteUnsure = "unsure"
	VoteWTF    = "wtf"
)

// Settings are the administrator-configurable knobs the engine reads on
// every "today" resolution.
type Settings struct {
	Timezone     string
	DeadlineHour int
}

// RoundState is the live in-memory state of one daily round. The Date is
// the round's identity: the calendar day in the configured timezone.
type RoundState struct {
	Date            string
	DBID            uint
	Deadline        time.Time
	Status          string
	WinnerID        int
	WinnerDBID      uint
	Recommendations []RecommendationEntry
}

type RecommendationEntry struct {
	ID             int
	DBID           uint
	UserID         uint
	AnonName       string
	RestaurantName string
	Location       string
	LinkURL        string
	OneLineReason  string
	CreatedAt      time.Time
	Votes          []VoteEntry
}

type VoteEntry struct {
	UserID   uint
	Category string
	DBID     uint
}

// Tally is the per-recommendation vote breakdown.
type Tally struct {
	Want   int
	Unsure int
	WTF    int
}

// WinnerMenu is one row of the last-7-days winner list.
type WinnerMenu struct {
	Date           string `json:"date"`
	RestaurantName string `json:"restaurant_name"`
	AnonName       string `json:"anon_name"`
	LinkURL        string `json:"link_url"`
}

// FameEntry is one row of the 7-day hall of fame.
type FameEntry struct {
	UserID      uint   `json:"user_id"`
	AnonName    string `json:"anon_name"`
	AvatarColor string `json:"avatar_color"`
	Wins        int    `json:"wins"`
}

type SubmitInput struct {
	RestaurantName string
	Location       string
	LinkURL        string
	OneLineReason  string
}

func ValidCategory(category string) bool {
	switch category {
	case VoteWant, VoteUnsure, VoteWTF:
		return true
	}
	return false
}
