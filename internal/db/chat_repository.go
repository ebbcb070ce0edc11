package db

import (
	"github.com/educonnect/educonnect/internal/models"
	"gorm.io/gorm"
)

type ChatRepository struct {
	database *gorm.DB
}

func NewChatRepository(database *gorm.DB) *ChatRepository {
	return &ChatRepository{database: database}
}

func (repo *ChatRepository) AppendBatch(messages []models.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return repo.database.Create(&messages).Error
}

func (repo *ChatRepository) ListByGroup(groupID string) ([]models.ChatMessage, error) {
	messages := make([]models.ChatMessage, 0)
	if err := repo.database.
		Where("group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (repo *ChatRepository) DeleteByGroup(groupID string) (int64, error) {
	result := repo.database.Where("group_id = ?", groupID).Delete(&models.ChatMessage{})
	return result.RowsAffected, result.Error
}
