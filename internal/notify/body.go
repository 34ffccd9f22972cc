package notify

import (
	"fmt"
	"strings"
	"time"

	"loan-intake/internal/files"
	"loan-intake/internal/models"
)

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// buildBody renders the plain-text reviewer summary: every application
// field in fixed sections, followed by the per-document password list.
func buildBody(applicationID int64, app *models.Application, saved []files.SavedFile) string {
	var b strings.Builder

	b.WriteString("NEW LOAN APPLICATION RECEIVED\n")
	b.WriteString("==========================================\n")
	fmt.Fprintf(&b, "Application ID: %d\n", applicationID)
	fmt.Fprintf(&b, "Submission Date: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	b.WriteString("PERSONAL INFORMATION:\n")
	b.WriteString("=======================\n")
	fmt.Fprintf(&b, "Name: %s\n", app.Name)
	fmt.Fprintf(&b, "Date of Birth: %s\n", app.DOB)
	fmt.Fprintf(&b, "Phone: %s\n", app.Phone)
	fmt.Fprintf(&b, "Alternative Phone: %s\n", orNA(app.AltPhone))
	fmt.Fprintf(&b, "Email: %s\n", app.Email)
	fmt.Fprintf(&b, "Mother's Name: %s\n", app.MotherName)
	fmt.Fprintf(&b, "Qualification: %s\n\n", app.Qualification)

	b.WriteString("ADDRESS DETAILS:\n")
	b.WriteString("===================\n")
	fmt.Fprintf(&b, "Present Address: %s\n", app.PresentAddress)
	fmt.Fprintf(&b, "Years at Present Address: %g years\n\n", app.PresentYears)
	fmt.Fprintf(&b, "Permanent Address: %s\n", app.PermanentAddress)
	fmt.Fprintf(&b, "Years at Permanent Address: %g years\n\n", app.PermanentYears)

	b.WriteString("EMPLOYMENT INFORMATION:\n")
	b.WriteString("==========================\n")
	fmt.Fprintf(&b, "Company: %s\n", app.CompanyName)
	fmt.Fprintf(&b, "Designation: %s\n", app.Designation)
	fmt.Fprintf(&b, "Office Contact: %s\n", app.OfficeContact)
	fmt.Fprintf(&b, "Official Email: %s\n", app.OfficialEmail)
	fmt.Fprintf(&b, "Company Address: %s\n", app.CompanyAddress)
	fmt.Fprintf(&b, "Landmark: %s\n\n", orNA(app.Landmark))

	b.WriteString("EXPERIENCE:\n")
	b.WriteString("==============\n")
	fmt.Fprintf(&b, "Total Experience: %g years\n", app.TotalExperience)
	fmt.Fprintf(&b, "Current Company Experience: %g years\n\n", app.CompanyExperience)

	b.WriteString("BANK DETAILS:\n")
	b.WriteString("================\n")
	fmt.Fprintf(&b, "Bank Name: %s\n", app.BankName)
	fmt.Fprintf(&b, "Account Years: %g years\n", app.BankYears)
	fmt.Fprintf(&b, "Branch: %s\n\n", app.Branch)

	b.WriteString("LOAN DETAILS:\n")
	b.WriteString("================\n")
	fmt.Fprintf(&b, "Loan Amount: INR %.2f\n", app.LoanAmount)
	fmt.Fprintf(&b, "Tenure: %d months\n", app.Tenure)
	fmt.Fprintf(&b, "Existing Loan: %s\n\n", orNone(app.ExistingLoan))

	b.WriteString("REFERENCES:\n")
	b.WriteString("==============\n")
	b.WriteString("Friend Reference:\n")
	fmt.Fprintf(&b, "   - Name: %s\n", app.FriendName)
	fmt.Fprintf(&b, "   - Contact: %s\n", app.FriendContact)
	fmt.Fprintf(&b, "   - Address: %s\n", app.FriendAddress)
	b.WriteString("Relative Reference:\n")
	fmt.Fprintf(&b, "   - Name: %s\n", app.RelativeName)
	fmt.Fprintf(&b, "   - Contact: %s\n", app.RelativeContact)
	fmt.Fprintf(&b, "   - Address: %s\n\n", app.RelativeAddress)

	b.WriteString("DOCUMENT PASSWORDS:\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	if len(saved) > 0 {
		for _, f := range saved {
			fmt.Fprintf(&b, "%s:\n", f.FileType)
			fmt.Fprintf(&b, "   Password: %s\n", f.Password)
			fmt.Fprintf(&b, "   File: %s\n", orNA(f.OriginalFilename))
			b.WriteString(strings.Repeat("-", 40) + "\n")
		}
	} else {
		b.WriteString("   No documents uploaded with this application.\n")
	}

	b.WriteString("\nNOTE: All documents are attached to this email. Use the passwords above to open protected files.\n\n")
	b.WriteString("This is an automated notification from the loan application intake service.\n")

	return b.String()
}
