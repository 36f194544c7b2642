package mysql

import (
	"context"

	messageDomain "ilmfund-backend/internal/domain/message"

	"gorm.io/gorm"
)

type MessageRepository struct{ db *gorm.DB }

func NewMessageRepository(db *gorm.DB) *MessageRepository { return &MessageRepository{db: db} }

func (r *MessageRepository) Create(ctx context.Context, m *messageDomain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MessageRepository) ListByStudent(ctx context.Context, studentID uint64, limit, offset int) ([]messageDomain.Message, error) {
	var out []messageDomain.Message
	res := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return out, nil
}
