// Package document defines the uploaded source document model.
package document

// Document is a source file uploaded to a project. The backend issues the
// identifier; the filename is informational only and never deduplicated.
type Document struct {
	DocumentID int    `json:"document_id"`
	Filename   string `json:"filename"`
}
