package model

import "time"

type Announcement struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	ClubID    uint64    `gorm:"not null;index:idx_club_time,priority:1" json:"club_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint64    `gorm:"not null" json:"author_id"`
	CreatedAt time.Time `gorm:"index:idx_club_time,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AnnouncementView struct {
	ID        uint64    `json:"id"`
	ClubID    uint64    `json:"club_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    UserRef   `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
