package model

import "time"

type Event struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	ClubID      uint64    `gorm:"not null;index:idx_club_date,priority:1" json:"club_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"type:date;not null;index:idx_club_date,priority:2" json:"date"`
	Time        string    `gorm:"size:32;not null" json:"time"`
	Venue       string    `gorm:"size:200;not null" json:"venue"`
	Banner      string    `gorm:"size:512;not null" json:"banner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventView is the resolved read form of an event.
type EventView struct {
	ID          uint64    `json:"id"`
	Club        ClubRef   `json:"club"`
	OwnerID     uint64    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Venue       string    `json:"venue"`
	Banner      string    `json:"banner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DateLayout is the calendar-date wire format for events.
const DateLayout = "2006-01-02"
