package db

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID          uint      `gorm:"primaryKey"`
	AnonName    string    `gorm:"size:32;uniqueIndex;not null"`
	AvatarColor string    `gorm:"size:16"`
	IsAdmin     bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	Posts       []Post
	Comments    []Comment
	Votes       []Vote
}

type Session struct {
	ID        string    `gorm:"size:64;primaryKey"`
	UserID    *uint     `gorm:"index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// SiteSetting is a singleton row; the lunch engine reads it on every
// "today" resolution so administrator changes apply without restart.
type SiteSetting struct {
	ID                uint      `gorm:"primaryKey"`
	LunchTimezone     string    `gorm:"size:64;not null"`
	LunchDeadlineHour int       `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

type Round struct {
	ID                     uint      `gorm:"primaryKey"`
	RoundDate              string    `gorm:"size:10;uniqueIndex;not null"`
	Deadline               time.Time `gorm:"not null"`
	Status                 string    `gorm:"size:16;not null"`
	WinnerRecommendationID *uint     `gorm:"index"`
	CreatedAt              time.Time `gorm:"not null"`
	UpdatedAt              time.Time `gorm:"not null"`
	Recommendations        []Recommendation
}

type Recommendation struct {
	ID             uint      `gorm:"primaryKey"`
	RoundID        uint      `gorm:"index;not null;uniqueIndex:idx_recommendations_round_user"`
	UserID         uint      `gorm:"index;not null;uniqueIndex:idx_recommendations_round_user"`
	RestaurantName string    `gorm:"size:80;not null"`
	Location       string    `gorm:"size:120"`
	LinkURL        string    `gorm:"size:300"`
	OneLineReason  string    `gorm:"size:140;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
	Votes          []Vote
}

type Vote struct {
	ID               uint      `gorm:"primaryKey"`
	RecommendationID uint      `gorm:"index;not null;uniqueIndex:idx_votes_recommendation_user"`
	UserID           uint      `gorm:"index;not null;uniqueIndex:idx_votes_recommendation_user"`
	Category         string    `gorm:"size:16;not null"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

type Post struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Body      string    `gorm:"size:500;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Comments  []Comment
	Reactions []Reaction
}

type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	PostID    uint      `gorm:"index;not null"`
	UserID    uint      `gorm:"index;not null"`
	Body      string    `gorm:"size:300;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Reaction struct {
	ID        uint      `gorm:"primaryKey"`
	PostID    uint      `gorm:"index;not null;uniqueIndex:idx_reactions_post_user"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_reactions_post_user"`
	Kind      string    `gorm:"size:16;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoundID   *uint          `gorm:"index"`
	UserID    *uint          `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
