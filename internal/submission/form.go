// Package submission validates incoming loan application forms and runs
// the intake pipeline: persist the application, store its documents, and
// dispatch the reviewer notification.
package submission

import "strings"

// Form carries the raw text values of one intake form exactly as posted.
// Every field is a string until validation parses the numeric ones.
type Form struct {
	Name          string
	DOB           string
	Phone         string
	MotherName    string
	Qualification string
	AltPhone      string
	Email         string

	PresentAddress   string
	PresentYears     string
	PermanentAddress string
	PermanentYears   string

	TotalExperience   string
	CompanyExperience string
	CompanyName       string
	CompanyAddress    string
	Landmark          string
	Designation       string
	OfficeContact     string
	OfficialEmail     string

	BankName  string
	BankYears string
	Branch    string

	LoanAmount   string
	Tenure       string
	ExistingLoan string

	FriendName    string
	FriendContact string
	FriendAddress string

	RelativeName    string
	RelativeContact string
	RelativeAddress string
}

// FormFromValues builds a Form from a form-value accessor, trimming
// surrounding whitespace from every field.
func FormFromValues(get func(string) string) Form {
	trimmed := func(key string) string {
		return strings.TrimSpace(get(key))
	}

	return Form{
		Name:          trimmed("name"),
		DOB:           trimmed("dob"),
		Phone:         trimmed("phone"),
		MotherName:    trimmed("mother_name"),
		Qualification: trimmed("qualification"),
		AltPhone:      trimmed("alt_phone"),
		Email:         trimmed("email"),

		PresentAddress:   trimmed("present_address"),
		PresentYears:     trimmed("present_years"),
		PermanentAddress: trimmed("permanent_address"),
		PermanentYears:   trimmed("permanent_years"),

		TotalExperience:   trimmed("total_experience"),
		CompanyExperience: trimmed("company_experience"),
		CompanyName:       trimmed("company_name"),
		CompanyAddress:    trimmed("company_address"),
		Landmark:          trimmed("landmark"),
		Designation:       trimmed("designation"),
		OfficeContact:     trimmed("office_contact"),
		OfficialEmail:     trimmed("official_email"),

		BankName:  trimmed("bank_name"),
		BankYears: trimmed("bank_years"),
		Branch:    trimmed("branch"),

		LoanAmount:   trimmed("loan_amount"),
		Tenure:       trimmed("tenure"),
		ExistingLoan: trimmed("existing_loan"),

		FriendName:    trimmed("friend_name"),
		FriendContact: trimmed("friend_contact"),
		FriendAddress: trimmed("friend_address"),

		RelativeName:    trimmed("relative_name"),
		RelativeContact: trimmed("relative_contact"),
		RelativeAddress: trimmed("relative_address"),
	}
}
