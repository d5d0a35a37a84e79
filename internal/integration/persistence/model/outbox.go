package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/giftcircle/backend/internal/domain/entity"
)

// OutboxModel represents the email_outbox table in the database.
type OutboxModel struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Template    string            `gorm:"type:varchar(50);not null"`
	ToAddress   string            `gorm:"type:varchar(255);not null;index"`
	ToName      string            `gorm:"type:varchar(255)"`
	Subject     string            `gorm:"type:varchar(500);not null"`
	Data        map[string]string `gorm:"type:text;serializer:json"`
	State       string            `gorm:"type:varchar(20);not null;index:idx_outbox_due,priority:1"`
	Attempts    int               `gorm:"not null;default:0"`
	MaxAttempts int               `gorm:"not null"`
	LastError   string            `gorm:"type:text"`
	ProviderID  string            `gorm:"type:varchar(100)"`
	EnqueuedAt  time.Time         `gorm:"not null"`
	NotBefore   time.Time         `gorm:"not null;index:idx_outbox_due,priority:2"`
	FinishedAt  *time.Time
}

// TableName returns the table name for the OutboxModel.
func (OutboxModel) TableName() string {
	return "email_outbox"
}

// ToEntity converts an OutboxModel to a domain OutboundEmail.
func (m *OutboxModel) ToEntity() *entity.OutboundEmail {
	data := m.Data
	if data == nil {
		data = map[string]string{}
	}
	return &entity.OutboundEmail{
		ID:          m.ID,
		Template:    entity.EmailTemplate(m.Template),
		To:          m.ToAddress,
		ToName:      m.ToName,
		Subject:     m.Subject,
		Data:        data,
		State:       entity.OutboxState(m.State),
		Attempts:    m.Attempts,
		MaxAttempts: m.MaxAttempts,
		LastError:   m.LastError,
		ProviderID:  m.ProviderID,
		EnqueuedAt:  m.EnqueuedAt,
		NotBefore:   m.NotBefore,
		FinishedAt:  m.FinishedAt,
	}
}

// OutboxFromEntity creates an OutboxModel from a domain OutboundEmail.
func OutboxFromEntity(e *entity.OutboundEmail) *OutboxModel {
	return &OutboxModel{
		ID:          e.ID,
		Template:    string(e.Template),
		ToAddress:   e.To,
		ToName:      e.ToName,
		Subject:     e.Subject,
		Data:        e.Data,
		State:       string(e.State),
		Attempts:    e.Attempts,
		MaxAttempts: e.MaxAttempts,
		LastError:   e.LastError,
		ProviderID:  e.ProviderID,
		EnqueuedAt:  e.EnqueuedAt,
		NotBefore:   e.NotBefore,
		FinishedAt:  e.FinishedAt,
	}
}
