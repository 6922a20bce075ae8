package storage

import (
	"context"
	"time"
)

// AuditEvent фиксирует одно выполнение плагина.
type AuditEvent struct {
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Status    string    `json:"status"`
	ExitCode  int       `json:"exit_code"`
	Host      string    `json:"host"`
	RequestID string    `json:"request_id"`
	Payload   []byte    `json:"-"`
	TS        time.Time `json:"ts"`
}

// AuditQuery задает фильтры выборки аудита.
type AuditQuery struct {
	From   time.Time
	To     time.Time
	Action string
	Target string
	Limit  int
}

// Store описывает операции хранилища аудита.
type Store interface {
	SaveAudit(ctx context.Context, ev AuditEvent) error
	QueryAudit(ctx context.Context, q AuditQuery) ([]AuditEvent, error)
	Close() error
}
