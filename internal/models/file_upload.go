package models

import "time"

// FileUpload describes one stored supporting document tied to an
// Application. A row exists only for files whose bytes were written to
// disk successfully.
type FileUpload struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	FileType      string    `json:"file_type"`
	FilePath      string    `json:"file_path"`
	FilePassword  string    `json:"file_password"`
	UploadDate    time.Time `json:"upload_date"`
}
