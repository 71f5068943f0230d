// Package notify dispatches user-facing notifications. Dispatch is
// best-effort, same contract as package audit.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	Message     string
	Severity    Severity
	RelatedID   *uuid.UUID
	CreatedAt   time.Time
}

type Notifier interface {
	Notify(ctx context.Context, recipientID uuid.UUID, message string, severity Severity, relatedID *uuid.UUID) error
}

// Send calls the notifier and swallows any failure, logging it only.
func Send(ctx context.Context, n Notifier, recipientID uuid.UUID, message string, severity Severity, relatedID *uuid.UUID) {
	if n == nil {
		return
	}

	if err := n.Notify(ctx, recipientID, message, severity, relatedID); err != nil {
		slog.Warn("notification dispatch failed", "recipient", recipientID, "error", err)
	}
}
