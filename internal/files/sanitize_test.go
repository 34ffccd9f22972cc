// internal/files/sanitize_test.go
package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "John Doe", "John Doe"},
		{"hyphen and underscore kept", "Anne-Marie_K", "Anne-Marie_K"},
		{"special characters dropped", "Bob!@#$%Smith", "BobSmith"},
		{"path separators dropped", "../../etc/passwd", "etcpasswd"},
		{"trailing whitespace stripped", "John Doe   ", "John Doe"},
		{"unicode dropped", "José Müller", "Jos Mller"},
		{"empty input", "", ""},
		{"only specials", "@#$%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeName(tt.input))
		})
	}
}

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain filename", "statement.pdf", "statement.pdf"},
		{"spaces replaced", "bank statement march.pdf", "bank_statement_march.pdf"},
		{"path traversal stripped", "../../etc/passwd", "passwd"},
		{"windows path stripped", `C:\Users\evil\doc.pdf`, "doc.pdf"},
		{"special characters replaced", "pay$lip(1).pdf", "pay_lip_1_.pdf"},
		{"repeated underscores collapsed", "a___b.pdf", "a_b.pdf"},
		{"leading dots trimmed", "..hidden.pdf", "hidden.pdf"},
		{"empty falls back", "", "file"},
		{"only dots falls back", "...", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SecureFilename(tt.input))
		})
	}
}
