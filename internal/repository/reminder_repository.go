package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/health-record/internal/model"
)

// ReminderRepo provides access to the `reminders` table.
type ReminderRepo struct{ db *sql.DB }

// NewReminderRepo returns a ReminderRepo bound to the given database.
func NewReminderRepo(db *sql.DB) *ReminderRepo { return &ReminderRepo{db: db} }

// Create inserts a reminder and returns it with the generated id and
// timestamps populated.
func (r *ReminderRepo) Create(ctx context.Context, rem *model.Reminder) (model.Reminder, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (user_id, reminder_type, title, description, due_date, is_recurring)
		 VALUES (?,?,?,?,?,?)`,
		rem.UserID, rem.ReminderType, rem.Title, rem.Description, rem.DueDate, rem.IsRecurring)
	if err != nil {
		return model.Reminder{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Reminder{}, err
	}
	return r.findByID(ctx, uint64(id))
}

// ListByUser returns the user's reminders with pending ones first, each
// block ordered by due date ascending so the most urgent item leads.
func (r *ReminderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id,user_id,reminder_type,title,description,due_date,is_recurring,is_completed,completed_at,created_at
		 FROM reminders WHERE user_id=?
		 ORDER BY is_completed ASC, due_date ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []model.Reminder{}
	for rows.Next() {
		var rem model.Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.ReminderType, &rem.Title, &rem.Description,
			&rem.DueDate, &rem.IsRecurring, &rem.IsCompleted, &rem.CompletedAt, &rem.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

// Complete marks a reminder as done, recording the completion time.  The
// update is scoped to the owning user; zero matched rows maps to ErrNotFound.
func (r *ReminderRepo) Complete(ctx context.Context, id, userID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET is_completed = TRUE, completed_at = CURRENT_TIMESTAMP
		 WHERE id=? AND user_id=?`, id, userID)
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

func (r *ReminderRepo) findByID(ctx context.Context, id uint64) (model.Reminder, error) {
	var rem model.Reminder
	err := r.db.QueryRowContext(ctx,
		`SELECT id,user_id,reminder_type,title,description,due_date,is_recurring,is_completed,completed_at,created_at
		 FROM reminders WHERE id=? LIMIT 1`, id).
		Scan(&rem.ID, &rem.UserID, &rem.ReminderType, &rem.Title, &rem.Description,
			&rem.DueDate, &rem.IsRecurring, &rem.IsCompleted, &rem.CompletedAt, &rem.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Reminder{}, ErrNotFound
	}
	return rem, err
}
