package audit

import (
	"context"
	"log/slog"

	"github.com/nmang004/proxapeople-sub003/internal/shared"
)

// Recorder writes audit entries. A nil Recorder is a no-op so services stay
// testable without persistence wiring.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record persists one entry. Audit failures are logged, never propagated:
// a policy mutation must not fail because its audit write did.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if r == nil || r.repo == nil {
		return
	}
	if err := r.repo.Insert(ctx, entry); err != nil && r.logger != nil {
		r.logger.Error("audit record",
			slog.Any("error", err),
			slog.String("action", entry.Action),
			slog.Int64("actor_id", entry.ActorID),
		)
	}
}

// List returns entries newest first with pagination metadata.
func (r *Recorder) List(ctx context.Context, page, perPage int) ([]Entry, shared.Pagination, error) {
	pagination := shared.NewPagination(page, perPage, 0)
	entries, total, err := r.repo.List(ctx, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return entries, shared.NewPagination(pagination.Page, pagination.PerPage, total), nil
}
