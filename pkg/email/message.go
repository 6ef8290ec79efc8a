package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is an inline image referenced from the HTML body by content-id.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Data        []byte
}

// Message is one composed email.
type Message struct {
	From        mail.Address
	To          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
	// Date defaults to the time of encoding
	Date time.Time
}

// Bytes encodes the message as an RFC 5322 document with CRLF line endings.
func (m *Message) Bytes() ([]byte, error) {
	if m.From.Address == "" {
		return nil, ErrNoSender
	}
	if len(m.To) == 0 {
		return nil, ErrNoRecipients
	}

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	var buf bytes.Buffer
	writeHeader(&buf, "From", m.From.String())
	writeHeader(&buf, "To", joinAddresses(m.To))
	if m.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", (&mail.Address{Address: m.ReplyTo}).String())
	}
	writeHeader(&buf, "Subject", encodeSubject(m.Subject))
	writeHeader(&buf, "Date", date.Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(m.From.Address)))
	writeHeader(&buf, "MIME-Version", "1.0")

	contentType, body, err := m.body()
	if err != nil {
		return nil, err
	}
	writeHeader(&buf, "Content-Type", contentType)
	buf.WriteString("\r\n")
	buf.Write(body)

	return buf.Bytes(), nil
}

// body returns multipart/alternative (text + html), wrapped in
// multipart/related when inline attachments are present.
func (m *Message) body() (string, []byte, error) {
	var alt bytes.Buffer
	altWriter := multipart.NewWriter(&alt)
	if m.Text != "" {
		if err := writeTextPart(altWriter, "text/plain; charset=UTF-8", m.Text); err != nil {
			return "", nil, err
		}
	}
	if err := writeTextPart(altWriter, "text/html; charset=UTF-8", m.HTML); err != nil {
		return "", nil, err
	}
	if err := altWriter.Close(); err != nil {
		return "", nil, err
	}
	altType := mime.FormatMediaType("multipart/alternative", map[string]string{"boundary": altWriter.Boundary()})

	if len(m.Attachments) == 0 {
		return altType, alt.Bytes(), nil
	}

	var related bytes.Buffer
	relWriter := multipart.NewWriter(&related)
	part, err := relWriter.CreatePart(textproto.MIMEHeader{"Content-Type": {altType}})
	if err != nil {
		return "", nil, err
	}
	if _, err := part.Write(alt.Bytes()); err != nil {
		return "", nil, err
	}
	for _, a := range m.Attachments {
		if err := writeAttachment(relWriter, a); err != nil {
			return "", nil, err
		}
	}
	if err := relWriter.Close(); err != nil {
		return "", nil, err
	}

	relType := mime.FormatMediaType("multipart/related", map[string]string{
		"boundary": relWriter.Boundary(),
		"type":     "multipart/alternative",
	})
	return relType, related.Bytes(), nil
}

func writeTextPart(w *multipart.Writer, contentType, content string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(content)); err != nil {
		return err
	}
	return qp.Close()
}

func writeAttachment(w *multipart.Writer, a Attachment) error {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {mime.FormatMediaType(contentType, map[string]string{"name": a.Filename})},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {mime.FormatMediaType("inline", map[string]string{"filename": a.Filename})},
		"Content-ID":                {"<" + a.ContentID + ">"},
	})
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(a.Data)
	for len(encoded) > 76 {
		if _, err := part.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err = part.Write([]byte(encoded + "\r\n"))
	return err
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

// encodeSubject RFC 2047-encodes the subject and folds between encoded
// words. Control characters force encoding, so CR/LF never reach the header.
func encodeSubject(subject string) string {
	encoded := mime.QEncoding.Encode("utf-8", subject)
	return strings.ReplaceAll(encoded, "?= =?", "?=\r\n =?")
}

func joinAddresses(addrs []string) string {
	formatted := make([]string, len(addrs))
	for i, a := range addrs {
		formatted[i] = (&mail.Address{Address: a}).String()
	}
	return strings.Join(formatted, ", ")
}

func domainOf(address string) string {
	if i := strings.LastIndex(address, "@"); i >= 0 && i+1 < len(address) {
		return strings.ToLower(address[i+1:])
	}
	return "localhost"
}
