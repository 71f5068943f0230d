// Package audit records who did what to which entity. Recording is
// best-effort: a failed write must never abort the mutation it
// describes.
package audit

import (
	"context"
	"log/slog"
)

type Entry struct {
	Action     string
	EntityType string
	EntityID   string
	Details    string
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Log calls the recorder and swallows any failure, logging it only.
func Log(ctx context.Context, r Recorder, e Entry) {
	if r == nil {
		return
	}

	if err := r.Record(ctx, e); err != nil {
		slog.Warn("audit record failed",
			"action", e.Action, "entity_type", e.EntityType, "entity_id", e.EntityID, "error", err)
	}
}
