package model

import "time"

const DefaultBanner = "https://via.placeholder.com/400x200"

type Club struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"size:64;not null" json:"category"`
	Banner      string    `gorm:"size:512;not null" json:"banner"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClubMember is the single stored fact behind both Club.members and
// User.joinedClubs.
type ClubMember struct {
	ID        uint64 `gorm:"primaryKey"`
	ClubID    uint64 `gorm:"not null;index;uniqueIndex:uk_club_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_club_user"`
	CreatedAt time.Time
}

// ClubRef is the display form of a club reference.
type ClubRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ClubView is the resolved read form of a club.
type ClubView struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Banner      string    `json:"banner"`
	Owner       UserRef   `json:"owner"`
	Members     []UserRef `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
