package notify

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type attachment struct {
	filename string
	data     []byte
}

// buildMessage assembles the raw RFC 2822 message: a multipart/mixed
// envelope with one plain-text part and one base64 octet-stream part per
// attachment, original filenames preserved.
func buildMessage(from, to, subject, body string, attachments []attachment) []byte {
	boundary := "mixed-" + uuid.New().String()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", boundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	for _, a := range attachments {
		b.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		b.WriteString("Content-Type: application/octet-stream\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", a.filename))
		b.WriteString("\r\n")
		b.WriteString(wrapBase64(a.data))
		b.WriteString("\r\n")
	}

	b.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(b.String())
}

// wrapBase64 encodes data and folds it at the 76-column MIME limit.
func wrapBase64(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)

	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	return b.String()
}
