package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/chainchat/backend/internal/repositories"
	"github.com/chainchat/backend/internal/utils"
)

func NewSet(db *gorm.DB) *repositories.Set {
	return &repositories.Set{
		Name:        "postgres",
		Users:       NewUserRepo(db),
		Chats:       NewChatRepo(db),
		Knowledge:   NewKnowledgeRepo(db),
		Tokens:      NewTokenRepo(db),
		SavedTokens: NewSavedTokenRepo(db),
	}
}

// Migrate enables pgvector and creates the tables.
func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	return db.AutoMigrate(&userRow{}, &chatRow{}, &knowledgeRow{}, &tokenRow{}, &savedTokenRow{})
}

var now = func() int64 { return time.Now().UnixMilli() }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.ErrNotFound
	}
	return err
}

func affected(tx *gorm.DB) (bool, error) {
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
