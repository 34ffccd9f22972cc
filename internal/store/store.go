// Package store implements the record store for loan applications and
// their uploaded-document metadata, backed by the embedded SQLite file.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"loan-intake/internal/common/errors"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/models"
)

const createApplicationsTable = `
CREATE TABLE IF NOT EXISTS applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	dob TEXT NOT NULL,
	phone TEXT NOT NULL,
	mother_name TEXT NOT NULL,
	qualification TEXT NOT NULL,
	alt_phone TEXT,
	email TEXT NOT NULL,
	present_address TEXT NOT NULL,
	present_years REAL NOT NULL,
	permanent_address TEXT NOT NULL,
	permanent_years REAL NOT NULL,
	total_experience REAL NOT NULL,
	company_experience REAL NOT NULL,
	company_name TEXT NOT NULL,
	company_address TEXT NOT NULL,
	landmark TEXT,
	designation TEXT NOT NULL,
	office_contact TEXT NOT NULL,
	official_email TEXT NOT NULL,
	bank_name TEXT NOT NULL,
	bank_years REAL NOT NULL,
	branch TEXT NOT NULL,
	loan_amount REAL NOT NULL,
	tenure INTEGER NOT NULL,
	existing_loan TEXT,
	friend_name TEXT NOT NULL,
	friend_contact TEXT NOT NULL,
	friend_address TEXT NOT NULL,
	relative_name TEXT NOT NULL,
	relative_contact TEXT NOT NULL,
	relative_address TEXT NOT NULL,
	submission_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const createFileUploadsTable = `
CREATE TABLE IF NOT EXISTS file_uploads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	application_id INTEGER,
	file_type TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_password TEXT NOT NULL,
	upload_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (application_id) REFERENCES applications (id)
)`

const applicationColumns = `id, name, dob, phone, mother_name, qualification, alt_phone, email,
	present_address, present_years, permanent_address, permanent_years,
	total_experience, company_experience, company_name, company_address,
	landmark, designation, office_contact, official_email, bank_name,
	bank_years, branch, loan_amount, tenure, existing_loan, friend_name,
	friend_contact, friend_address, relative_name, relative_contact,
	relative_address, submission_date`

// Store persists applications and file-upload metadata. There are no
// cross-entity transactions: the orchestrator writes the application row
// first and file rows after, so a dangling application with zero file
// rows is a valid, inspectable state.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// Init idempotently ensures both tables exist. Safe to call on every
// process start.
func (s *Store) Init(ctx context.Context) error {
	for _, stmt := range []string{createApplicationsTable, createFileUploadsTable} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.NewDatabaseQueryFailedError("init schema", err)
		}
	}
	s.logger.Info("database schema initialized", nil)
	return nil
}

// SaveApplication inserts a validated application and returns its newly
// assigned sequential id. The submission timestamp is set here, once.
func (s *Store) SaveApplication(ctx context.Context, app *models.Application) (int64, error) {
	if app.SubmissionDate.IsZero() {
		app.SubmissionDate = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (
			name, dob, phone, mother_name, qualification, alt_phone, email,
			present_address, present_years, permanent_address, permanent_years,
			total_experience, company_experience, company_name, company_address,
			landmark, designation, office_contact, official_email, bank_name,
			bank_years, branch, loan_amount, tenure, existing_loan, friend_name,
			friend_contact, friend_address, relative_name, relative_contact,
			relative_address, submission_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		app.Name, app.DOB, app.Phone, app.MotherName,
		app.Qualification, app.AltPhone, app.Email,
		app.PresentAddress, app.PresentYears, app.PermanentAddress,
		app.PermanentYears, app.TotalExperience, app.CompanyExperience,
		app.CompanyName, app.CompanyAddress, app.Landmark,
		app.Designation, app.OfficeContact, app.OfficialEmail,
		app.BankName, app.BankYears, app.Branch, app.LoanAmount,
		app.Tenure, app.ExistingLoan, app.FriendName,
		app.FriendContact, app.FriendAddress, app.RelativeName,
		app.RelativeContact, app.RelativeAddress, app.SubmissionDate,
	)
	if err != nil {
		s.logger.Error("application insert failed", map[string]interface{}{"error": err})
		return 0, errors.NewDatabaseInsertFailedError("application", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.NewDatabaseInsertFailedError("application", err)
	}

	app.ID = id
	s.logger.Info("application saved", map[string]interface{}{"applicationId": id})
	return id, nil
}

// SaveFileRecord inserts the metadata row for one stored document. Called
// strictly after the owning application exists and the bytes are on disk.
func (s *Store) SaveFileRecord(ctx context.Context, applicationID int64, fileType, path, password string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO file_uploads (application_id, file_type, file_path, file_password, upload_date)
		VALUES (?, ?, ?, ?, ?)`,
		applicationID, fileType, path, password, time.Now().UTC(),
	)
	if err != nil {
		s.logger.Error("file record insert failed", map[string]interface{}{
			"error":         err,
			"applicationId": applicationID,
			"fileType":      fileType,
		})
		return errors.NewDatabaseInsertFailedError("file record", err)
	}
	return nil
}

// GetApplication returns one application by id.
func (s *Store) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)

	app, err := scanApplication(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewApplicationNotFoundError(id)
		}
		return nil, errors.NewDatabaseQueryFailedError("get application", err)
	}
	return app, nil
}

// GetAllApplications returns every application, most recent first.
func (s *Store) GetAllApplications(ctx context.Context) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications ORDER BY submission_date DESC, id DESC`)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("list applications", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, errors.NewDatabaseQueryFailedError("scan application", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseQueryFailedError("list applications", err)
	}
	return apps, nil
}

// GetApplicationFiles returns all file-upload rows for an application.
func (s *Store) GetApplicationFiles(ctx context.Context, applicationID int64) ([]models.FileUpload, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_id, file_type, file_path, file_password, upload_date
		FROM file_uploads WHERE application_id = ?`, applicationID)
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError("list application files", err)
	}
	defer rows.Close()

	var files []models.FileUpload
	for rows.Next() {
		var f models.FileUpload
		if err := rows.Scan(&f.ID, &f.ApplicationID, &f.FileType, &f.FilePath, &f.FilePassword, &f.UploadDate); err != nil {
			return nil, errors.NewDatabaseQueryFailedError("scan file upload", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseQueryFailedError("list application files", err)
	}
	return files, nil
}

// CountApplications returns the total number of applications.
func (s *Store) CountApplications(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&count)
	if err != nil {
		return 0, errors.NewDatabaseQueryFailedError("count applications", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID, &app.Name, &app.DOB, &app.Phone, &app.MotherName,
		&app.Qualification, &app.AltPhone, &app.Email,
		&app.PresentAddress, &app.PresentYears, &app.PermanentAddress,
		&app.PermanentYears, &app.TotalExperience, &app.CompanyExperience,
		&app.CompanyName, &app.CompanyAddress, &app.Landmark,
		&app.Designation, &app.OfficeContact, &app.OfficialEmail,
		&app.BankName, &app.BankYears, &app.Branch, &app.LoanAmount,
		&app.Tenure, &app.ExistingLoan, &app.FriendName,
		&app.FriendContact, &app.FriendAddress, &app.RelativeName,
		&app.RelativeContact, &app.RelativeAddress, &app.SubmissionDate,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
