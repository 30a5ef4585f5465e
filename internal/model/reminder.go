package model

import "time"

// Reminder is a row in the `reminders` table.  Reminders are created by
// the user (take medication, book a check-up) and ticked off once done.
//
// Fields:
//
//	ID           – primary key identifier.
//	UserID       – user the reminder belongs to.
//	ReminderType – category such as medication or appointment.
//	Title        – short description shown in lists.
//	Description  – optional longer text (nullable).
//	DueDate      – when the reminder falls due.
//	IsRecurring  – whether the reminder repeats.
//	IsCompleted  – whether the reminder has been completed.
//	CompletedAt  – completion timestamp (null while pending).
//	CreatedAt    – creation timestamp.
type Reminder struct {
	ID           uint64     // reminders.id
	UserID       uint64     // reminders.user_id
	ReminderType string     // reminders.reminder_type
	Title        string     // reminders.title
	Description  *string    // reminders.description (nullable)
	DueDate      time.Time  // reminders.due_date
	IsRecurring  bool       // reminders.is_recurring
	IsCompleted  bool       // reminders.is_completed
	CompletedAt  *time.Time // reminders.completed_at (nullable)
	CreatedAt    time.Time  // reminders.created_at
}
