package message

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Message is a notification to a student, written by the review flow
// on every status change. Writes are best-effort: a failed message
// never fails the transition that produced it.
type Message struct {
	ID            uint64  `gorm:"primaryKey;column:id" json:"-"`
	MessageID     string  `gorm:"size:32;uniqueIndex:ux_messages_message_id_active" json:"message_id"`
	StudentID     uint64  `gorm:"column:student_id;not null;index" json:"-"`
	ApplicationID *uint64 `gorm:"column:application_id;index" json:"-"`
	Text          string  `gorm:"type:text;not null" json:"text"`
	FromRole      string  `gorm:"size:16;not null" json:"from_role"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Message) TableName() string { return "messages" }

type Repository interface {
	Create(ctx context.Context, m *Message) error
	ListByStudent(ctx context.Context, studentID uint64, limit, offset int) ([]Message, error)
}
