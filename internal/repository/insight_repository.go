package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/health-record/internal/model"
)

// InsightRepo provides access to the `health_insights` table.  Insights are
// written by an external pipeline; the API only lists them and marks them
// read, so this repository exposes no general create or delete.
type InsightRepo struct{ db *sql.DB }

// NewInsightRepo returns an InsightRepo bound to the given database.
func NewInsightRepo(db *sql.DB) *InsightRepo { return &InsightRepo{db: db} }

// ListByUser returns the user's insights newest first.
func (r *InsightRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Insight, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id,user_id,insight_type,title,description,severity,confidence_score,is_read,created_at
		 FROM health_insights WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	insights := []model.Insight{}
	for rows.Next() {
		var in model.Insight
		if err := rows.Scan(&in.ID, &in.UserID, &in.InsightType, &in.Title, &in.Description,
			&in.Severity, &in.ConfidenceScore, &in.IsRead, &in.CreatedAt); err != nil {
			return nil, err
		}
		insights = append(insights, in)
	}
	return insights, rows.Err()
}

// MarkRead flags an insight as read.  The update is scoped to the owning
// user so one user can never mutate another user's insight; a zero row
// count therefore means "not yours or not there" and maps to ErrNotFound.
func (r *InsightRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE health_insights SET is_read = TRUE WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
