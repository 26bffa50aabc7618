// Package extract pulls contact metadata out of raw ticket text: a display
// name, a contact address, and a reference id. Extraction never fails; any
// field it cannot resolve degrades to a sentinel or a freshly minted value.
package extract

import (
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Sentinels used when the corresponding field cannot be resolved.
const (
	DefaultName    = "Customer"
	DefaultContact = "no-contact"
)

// Metadata is the contact information recovered from a ticket.
type Metadata struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Reference string `json:"reference"`
}

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Self-introduction phrasing followed by one or two capitalized words.
	nameRe = regexp.MustCompile(`(?:\b[Ss]oy|\b[Mm]e llamo|\bI am|\bI'm called|\bI'm|\b[Mm]y name is)\s+([A-ZÁÉÍÓÚÑ][a-záéíóúñA-ZÁÉÍÓÚÑ]*(?:\s+[A-ZÁÉÍÓÚÑ][a-záéíóúñA-ZÁÉÍÓÚÑ]*)?)`)

	// Explicit ticket/case/folio numbers in the text.
	refRe = regexp.MustCompile(`(?i)\b(?:ticket|case|caso|folio|ref(?:erencia)?)\s*[#:]?\s*(\d{3,10})`)

	localSepRe = regexp.MustCompile(`[._-]+`)
)

// Extract resolves name, contact and reference from text. It is pure except
// for reference minting, which generates a fresh ULID when the text carries
// no explicit ticket number.
func Extract(text string) Metadata {
	contact := extractContact(text)
	return Metadata{
		Name:      extractName(text, contact),
		Contact:   contact,
		Reference: extractReference(text),
	}
}

func extractContact(text string) string {
	if m := emailRe.FindString(text); m != "" {
		return m
	}
	return DefaultContact
}

func extractName(text, contact string) string {
	if m := nameRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	// No introduction; derive a display name from the address local part.
	if contact != DefaultContact {
		local := contact[:strings.Index(contact, "@")]
		parts := localSepRe.Split(local, -1)
		for i, p := range parts {
			parts[i] = titleCase(p)
		}
		if name := strings.TrimSpace(strings.Join(parts, " ")); name != "" {
			return name
		}
	}
	return DefaultName
}

func extractReference(text string) string {
	if m := refRe.FindStringSubmatch(text); m != nil {
		return "REF-" + m[1]
	}
	return "REF-" + ulid.Make().String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
