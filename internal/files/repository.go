// Package files stores uploaded supporting documents on disk under one
// directory per application and records their metadata.
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"loan-intake/internal/common/logger"
	"loan-intake/internal/common/metrics"
)

// NoPassword is recorded when the applicant supplies no document password.
const NoPassword = "No password"

// Slots are the named upload fields accepted by the intake form, in form
// order. Each is paired with an optional "{slot}_password" text field.
var Slots = []string{"aadhar", "pan", "salary_slips", "bank_statement", "offer_letter", "relieving_letter"}

var fileTypes = map[string]string{
	"aadhar":           "Aadhar Card",
	"pan":              "PAN Card",
	"salary_slips":     "Salary Slips",
	"bank_statement":   "Bank Statement",
	"offer_letter":     "Offer Letter",
	"relieving_letter": "Relieving Letter",
}

// TypeLabel maps an upload field name to its human-readable file-type
// label. Unrecognized fields pass through their raw name.
func TypeLabel(field string) string {
	if label, ok := fileTypes[field]; ok {
		return label
	}
	return field
}

// Upload is one submitted file, decoupled from the HTTP multipart layer.
type Upload struct {
	Field    string
	Filename string
	Content  io.Reader
}

// SavedFile describes one successfully stored document, consumed by the
// notification dispatcher. Never serialized to submitters.
type SavedFile struct {
	FileType         string
	FilePath         string
	OriginalFilename string
	Password         string
}

// Recorder persists the metadata row for one stored document.
type Recorder interface {
	SaveFileRecord(ctx context.Context, applicationID int64, fileType, path, password string) error
}

// Repository writes uploaded documents under root/{sanitizedName}_{appID}.
type Repository struct {
	root    string
	allowed map[string]struct{}
	records Recorder
	logger  logger.Logger
}

func NewRepository(root string, allowedExts []string, records Recorder, log logger.Logger) (*Repository, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	allowed := make(map[string]struct{}, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &Repository{
		root:    root,
		allowed: allowed,
		records: records,
		logger:  log.WithFields(map[string]interface{}{"component": "files"}),
	}, nil
}

// Root returns the repository's upload directory.
func (r *Repository) Root() string {
	return r.root
}

// SaveAll stores each upload that passes the extension allow-list, records
// its metadata, and returns the accumulated entries. Individual failures
// are logged and skipped; the batch itself never fails the submission.
func (r *Repository) SaveAll(ctx context.Context, applicationID int64, applicantName string, uploads []Upload, passwords map[string]string) []SavedFile {
	dir := filepath.Join(r.root, fmt.Sprintf("%s_%d", SanitizeName(applicantName), applicationID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.logger.Error("failed to create application directory", map[string]interface{}{
			"error":         err,
			"applicationId": applicationID,
			"dir":           dir,
		})
		return nil
	}

	var saved []SavedFile
	for _, u := range uploads {
		if u.Filename == "" || u.Content == nil {
			continue
		}

		if !r.allowedFile(u.Filename) {
			r.logger.Warn("invalid file type, skipping", map[string]interface{}{
				"field":    u.Field,
				"filename": u.Filename,
			})
			metrics.FilesSkippedTotal.WithLabelValues("extension").Inc()
			continue
		}

		path := filepath.Join(dir, SecureFilename(u.Filename))
		if err := writeFile(path, u.Content); err != nil {
			r.logger.Error("failed to write uploaded file, skipping", map[string]interface{}{
				"error": err,
				"field": u.Field,
				"path":  path,
			})
			metrics.FilesSkippedTotal.WithLabelValues("write_error").Inc()
			continue
		}

		password := passwords[u.Field]
		if password == "" {
			password = NoPassword
		}

		fileType := TypeLabel(u.Field)
		if err := r.records.SaveFileRecord(ctx, applicationID, fileType, path, password); err != nil {
			// Metadata row failed but the bytes are on disk; keep the
			// entry so the notification still carries the document.
			r.logger.Error("failed to record file metadata", map[string]interface{}{
				"error":         err,
				"applicationId": applicationID,
				"path":          path,
			})
		}

		saved = append(saved, SavedFile{
			FileType:         fileType,
			FilePath:         path,
			OriginalFilename: u.Filename,
			Password:         password,
		})
		metrics.FilesSavedTotal.Inc()

		r.logger.Info("file saved", map[string]interface{}{
			"applicationId": applicationID,
			"fileType":      fileType,
			"path":          path,
		})
	}

	return saved
}

func (r *Repository) allowedFile(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := r.allowed[ext]
	return ok
}

func writeFile(path string, content io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	_, err = io.Copy(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
