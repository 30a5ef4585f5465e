package model

import "time"

// Document is a row in the `medical_documents` table.  The service stores
// only the metadata of an uploaded document; the file itself lives in
// whatever blob store the deployment points FileURL at.
//
// Fields:
//
//	ID           – primary key identifier.
//	UserID       – owner of the document.
//	DocumentType – category such as lab_result, prescription or "other".
//	Title        – human readable title.
//	FileURL      – location of the stored file (nullable).
//	FileName     – original file name (nullable).
//	FileSize     – size of the stored file in bytes (nullable).
//	DocumentDate – the date the document refers to, not the upload date.
//	Notes        – free-form notes (nullable).
//	CreatedAt    – upload timestamp.
type Document struct {
	ID           uint64     // medical_documents.id
	UserID       uint64     // medical_documents.user_id
	DocumentType string     // medical_documents.document_type
	Title        string     // medical_documents.title
	FileURL      *string    // medical_documents.file_url (nullable)
	FileName     *string    // medical_documents.file_name (nullable)
	FileSize     *int64     // medical_documents.file_size (nullable)
	DocumentDate time.Time  // medical_documents.document_date
	Notes        *string    // medical_documents.notes (nullable)
	CreatedAt    time.Time  // medical_documents.created_at
}
