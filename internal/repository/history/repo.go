package history

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/halcyon-labs/careerchat/internal/domain"
)

// Message is the conversation history row.
type Message struct {
	ID        uint   `gorm:"primaryKey"`
	Role      string `gorm:"not null"`
	Content   string `gorm:"not null"`
	Intent    string
	CreatedAt time.Time `gorm:"index;not null"`
}

// TableName keeps the table name singular-free and explicit.
func (Message) TableName() string { return "history" }

// Repo persists conversation history in SQLite via gorm.
type Repo struct {
	db *gorm.DB
}

// New creates a history repository and migrates the schema.
func New(db *gorm.DB) (*Repo, error) {
	if err := db.AutoMigrate(&Message{}); err != nil {
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}
	return &Repo{db: db}, nil
}

// Ping checks the underlying SQLite connection.
func (r *Repo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("history db handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Append stores one message.
func (r *Repo) Append(ctx context.Context, msg domain.Message) error {
	row := Message{
		Role:      msg.Role,
		Content:   msg.Content,
		Intent:    string(msg.Intent),
		CreatedAt: msg.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns the most recent messages in chronological order.
func (r *Repo) Recent(ctx context.Context, limit int) ([]domain.Message, error) {
	var rows []Message
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	// Reverse into chronological order.
	out := make([]domain.Message, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = toDomain(row)
	}
	return out, nil
}

// CountAssistantTurns returns how many assistant messages carry the intent.
func (r *Repo) CountAssistantTurns(ctx context.Context, intent domain.Intent) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("role = ? AND intent = ?", domain.RoleAssistant, string(intent)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count turns: %w", err)
	}
	return int(count), nil
}

func toDomain(row Message) domain.Message {
	return domain.Message{
		Role:      row.Role,
		Content:   row.Content,
		Intent:    domain.Intent(row.Intent),
		CreatedAt: row.CreatedAt,
	}
}
