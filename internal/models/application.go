package models

import "time"

// Application is one applicant's full submitted loan request record.
// Rows are created exactly once after validation and are never updated
// or deleted; retention is indefinite.
type Application struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	DOB           string `json:"dob"`
	Phone         string `json:"phone"`
	MotherName    string `json:"mother_name"`
	Qualification string `json:"qualification"`
	AltPhone      string `json:"alt_phone,omitempty"`
	Email         string `json:"email"`

	PresentAddress   string  `json:"present_address"`
	PresentYears     float64 `json:"present_years"`
	PermanentAddress string  `json:"permanent_address"`
	PermanentYears   float64 `json:"permanent_years"`

	TotalExperience   float64 `json:"total_experience"`
	CompanyExperience float64 `json:"company_experience"`
	CompanyName       string  `json:"company_name"`
	CompanyAddress    string  `json:"company_address"`
	Landmark          string  `json:"landmark,omitempty"`
	Designation       string  `json:"designation"`
	OfficeContact     string  `json:"office_contact"`
	OfficialEmail     string  `json:"official_email"`

	BankName  string  `json:"bank_name"`
	BankYears float64 `json:"bank_years"`
	Branch    string  `json:"branch"`

	LoanAmount   float64 `json:"loan_amount"`
	Tenure       int     `json:"tenure"`
	ExistingLoan string  `json:"existing_loan,omitempty"`

	FriendName    string `json:"friend_name"`
	FriendContact string `json:"friend_contact"`
	FriendAddress string `json:"friend_address"`

	RelativeName    string `json:"relative_name"`
	RelativeContact string `json:"relative_contact"`
	RelativeAddress string `json:"relative_address"`

	SubmissionDate time.Time `json:"submission_date"`
}
