package db

import (
	"strings"

	"github.com/educonnect/educonnect/internal/models"
	"gorm.io/gorm"
)

type KVRepository struct {
	database *gorm.DB
}

func NewKVRepository(database *gorm.DB) *KVRepository {
	return &KVRepository{database: database}
}

func (repo *KVRepository) Get(key string) (string, bool, error) {
	entry := models.KVEntry{}
	result := repo.database.Where("key = ?", key).Limit(1).Find(&entry)
	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return entry.Value, true, nil
}

// Put overwrites the slot unconditionally; the store is a single global
// slot per key and the last writer wins.
func (repo *KVRepository) Put(key string, value string) error {
	entry := models.KVEntry{Key: key, Value: value}
	return repo.database.Save(&entry).Error
}

func (repo *KVRepository) Delete(key string) error {
	return repo.database.Where("key = ?", key).Delete(&models.KVEntry{}).Error
}

// DeleteByPrefixes removes every slot whose key starts with one of the
// prefixes and reports how many rows went away.
func (repo *KVRepository) DeleteByPrefixes(prefixes []string) (int64, error) {
	if len(prefixes) == 0 {
		return 0, nil
	}

	query := repo.database.Model(&models.KVEntry{})
	conditions := make([]string, 0, len(prefixes))
	arguments := make([]any, 0, len(prefixes))
	for _, prefix := range prefixes {
		conditions = append(conditions, `key LIKE ? ESCAPE '\'`)
		arguments = append(arguments, escapeLikePattern(prefix)+"%")
	}
	result := query.Where(strings.Join(conditions, " OR "), arguments...).Delete(&models.KVEntry{})
	return result.RowsAffected, result.Error
}

func escapeLikePattern(raw string) string {
	escaped := strings.ReplaceAll(raw, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "%", `\%`)
	return strings.ReplaceAll(escaped, "_", `\_`)
}
