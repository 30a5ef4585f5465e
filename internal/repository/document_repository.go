package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/health-record/internal/model"
)

// DocumentRepo provides access to the `medical_documents` table.  All
// queries are scoped to a single user; there is no cross-user listing.
type DocumentRepo struct{ db *sql.DB }

// NewDocumentRepo returns a DocumentRepo bound to the given database.
func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{db: db} }

// Create inserts a document metadata record and returns it with the
// generated id and timestamps populated.
func (r *DocumentRepo) Create(ctx context.Context, d *model.Document) (model.Document, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO medical_documents
		 (user_id, document_type, title, file_url, file_name, file_size, document_date, notes)
		 VALUES (?,?,?,?,?,?,?,?)`,
		d.UserID, d.DocumentType, d.Title, d.FileURL, d.FileName, d.FileSize, d.DocumentDate, d.Notes)
	if err != nil {
		return model.Document{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Document{}, err
	}
	return r.findByID(ctx, uint64(id))
}

// ListByUser returns the user's documents newest first: primarily by the
// date the document refers to, then by upload time for same-day records.
func (r *DocumentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id,user_id,document_type,title,file_url,file_name,file_size,document_date,notes,created_at
		 FROM medical_documents WHERE user_id=?
		 ORDER BY document_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []model.Document{}
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.DocumentType, &d.Title, &d.FileURL,
			&d.FileName, &d.FileSize, &d.DocumentDate, &d.Notes, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *DocumentRepo) findByID(ctx context.Context, id uint64) (model.Document, error) {
	var d model.Document
	err := r.db.QueryRowContext(ctx,
		`SELECT id,user_id,document_type,title,file_url,file_name,file_size,document_date,notes,created_at
		 FROM medical_documents WHERE id=? LIMIT 1`, id).
		Scan(&d.ID, &d.UserID, &d.DocumentType, &d.Title, &d.FileURL,
			&d.FileName, &d.FileSize, &d.DocumentDate, &d.Notes, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Document{}, ErrNotFound
	}
	return d, err
}
