package submission

import (
	"strconv"

	"loan-intake/internal/common/errors"
	"loan-intake/internal/models"
)

// requiredFields lists every mandatory form field in form order. Fields
// absent here (alt_phone, landmark, existing_loan) are optional.
var requiredFields = []struct {
	name  string
	value func(*Form) string
}{
	{"name", func(f *Form) string { return f.Name }},
	{"dob", func(f *Form) string { return f.DOB }},
	{"phone", func(f *Form) string { return f.Phone }},
	{"mother_name", func(f *Form) string { return f.MotherName }},
	{"qualification", func(f *Form) string { return f.Qualification }},
	{"email", func(f *Form) string { return f.Email }},
	{"present_address", func(f *Form) string { return f.PresentAddress }},
	{"present_years", func(f *Form) string { return f.PresentYears }},
	{"permanent_address", func(f *Form) string { return f.PermanentAddress }},
	{"permanent_years", func(f *Form) string { return f.PermanentYears }},
	{"total_experience", func(f *Form) string { return f.TotalExperience }},
	{"company_experience", func(f *Form) string { return f.CompanyExperience }},
	{"company_name", func(f *Form) string { return f.CompanyName }},
	{"company_address", func(f *Form) string { return f.CompanyAddress }},
	{"designation", func(f *Form) string { return f.Designation }},
	{"office_contact", func(f *Form) string { return f.OfficeContact }},
	{"official_email", func(f *Form) string { return f.OfficialEmail }},
	{"bank_name", func(f *Form) string { return f.BankName }},
	{"bank_years", func(f *Form) string { return f.BankYears }},
	{"branch", func(f *Form) string { return f.Branch }},
	{"loan_amount", func(f *Form) string { return f.LoanAmount }},
	{"tenure", func(f *Form) string { return f.Tenure }},
	{"friend_name", func(f *Form) string { return f.FriendName }},
	{"friend_contact", func(f *Form) string { return f.FriendContact }},
	{"friend_address", func(f *Form) string { return f.FriendAddress }},
	{"relative_name", func(f *Form) string { return f.RelativeName }},
	{"relative_contact", func(f *Form) string { return f.RelativeContact }},
	{"relative_address", func(f *Form) string { return f.RelativeAddress }},
}

// Validate checks the form and converts it into an Application. All
// missing required fields are reported together; the first numeric field
// that fails to parse, or falls outside its declared range (years are
// non-negative, loan amount and tenure strictly positive), is reported
// individually. Nothing is persisted until validation has passed in full.
func Validate(f *Form) (*models.Application, error) {
	var missing []string
	for _, rf := range requiredFields {
		if rf.value(f) == "" {
			missing = append(missing, rf.name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewMissingFieldsError(missing)
	}

	presentYears, err := parseNonNegativeFloat("present_years", f.PresentYears)
	if err != nil {
		return nil, err
	}
	permanentYears, err := parseNonNegativeFloat("permanent_years", f.PermanentYears)
	if err != nil {
		return nil, err
	}
	totalExperience, err := parseNonNegativeFloat("total_experience", f.TotalExperience)
	if err != nil {
		return nil, err
	}
	companyExperience, err := parseNonNegativeFloat("company_experience", f.CompanyExperience)
	if err != nil {
		return nil, err
	}
	bankYears, err := parseNonNegativeFloat("bank_years", f.BankYears)
	if err != nil {
		return nil, err
	}
	loanAmount, err := parsePositiveFloat("loan_amount", f.LoanAmount)
	if err != nil {
		return nil, err
	}
	tenure, err := parsePositiveInt("tenure", f.Tenure)
	if err != nil {
		return nil, err
	}

	return &models.Application{
		Name:          f.Name,
		DOB:           f.DOB,
		Phone:         f.Phone,
		MotherName:    f.MotherName,
		Qualification: f.Qualification,
		AltPhone:      f.AltPhone,
		Email:         f.Email,

		PresentAddress:   f.PresentAddress,
		PresentYears:     presentYears,
		PermanentAddress: f.PermanentAddress,
		PermanentYears:   permanentYears,

		TotalExperience:   totalExperience,
		CompanyExperience: companyExperience,
		CompanyName:       f.CompanyName,
		CompanyAddress:    f.CompanyAddress,
		Landmark:          f.Landmark,
		Designation:       f.Designation,
		OfficeContact:     f.OfficeContact,
		OfficialEmail:     f.OfficialEmail,

		BankName:  f.BankName,
		BankYears: bankYears,
		Branch:    f.Branch,

		LoanAmount:   loanAmount,
		Tenure:       tenure,
		ExistingLoan: f.ExistingLoan,

		FriendName:    f.FriendName,
		FriendContact: f.FriendContact,
		FriendAddress: f.FriendAddress,

		RelativeName:    f.RelativeName,
		RelativeContact: f.RelativeContact,
		RelativeAddress: f.RelativeAddress,
	}, nil
}

func parseNonNegativeFloat(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || !(v >= 0) {
		return 0, errors.NewInvalidNumberError(field, value)
	}
	return v, nil
}

func parsePositiveFloat(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || !(v > 0) {
		return 0, errors.NewInvalidNumberError(field, value)
	}
	return v, nil
}

func parsePositiveInt(field, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		return 0, errors.NewInvalidNumberError(field, value)
	}
	return v, nil
}
