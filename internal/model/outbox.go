package model

import (
	"strings"
	"time"
)

const (
	OutboxMemberJoined       = "member.joined"
	OutboxMemberLeft         = "member.left"
	OutboxAnnouncementPosted = "announcement.posted"
	OutboxClubDeleted        = "club.deleted"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// ClubOutbox rows are written in the same transaction as the change they
// describe and relayed asynchronously.
type ClubOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"`
	ClubID    uint64 `gorm:"not null;index"`
	UserID    uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	// Delivered lists the sinks that already accepted the record, comma
	// separated. Retries skip them.
	Delivered string `gorm:"size:255;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ClubOutbox) TableName() string { return "club_outbox" }

func (ob *ClubOutbox) DeliveredTo(sink string) bool {
	for _, s := range strings.Split(ob.Delivered, ",") {
		if s == sink {
			return true
		}
	}
	return false
}

func (ob *ClubOutbox) MarkDelivered(sink string) {
	if ob.DeliveredTo(sink) {
		return
	}
	if ob.Delivered == "" {
		ob.Delivered = sink
		return
	}
	ob.Delivered += "," + sink
}

// OutboxPayload is the JSON body stored in ClubOutbox.Payload and published
// downstream.
type OutboxPayload struct {
	EventTime      string `json:"event_time"`
	ClubID         uint64 `json:"club_id"`
	UserID         uint64 `json:"user_id"`
	AnnouncementID uint64 `json:"announcement_id,omitempty"`
	Title          string `json:"title,omitempty"`
}

// AllModels lists every table managed by migrations.
func AllModels() []any {
	return []any{
		&User{},
		&Club{},
		&ClubMember{},
		&Event{},
		&Announcement{},
		&ClubOutbox{},
	}
}
