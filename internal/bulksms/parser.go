package bulksms

import (
	"strings"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/models"
)

// NormalizePhone strips everything except digits, keeping a single
// leading "+" if the raw input had one. Anything non-empty after
// normalization is accepted; no country-code or length checking.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)

	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}

	s := b.String()
	if s == "+" {
		return ""
	}
	return s
}

// ParseRecipientsText parses a pasted blob of phone numbers separated
// by newlines, commas, or semicolons. Empty tokens are dropped.
// Duplicates keep the first occurrence; order is preserved.
func ParseRecipientsText(text string) []models.Recipient {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})

	seen := make(map[string]bool)
	recipients := []models.Recipient{}
	for _, tok := range tokens {
		phone := NormalizePhone(tok)
		if phone == "" || seen[phone] {
			continue
		}
		seen[phone] = true
		recipients = append(recipients, models.Recipient{Phone: phone})
	}
	return recipients
}

// ParseRecipientsCSV parses two-column CSV text (phone,name). A header
// row is skipped when the first line mentions "phone". Duplicate phones
// keep the last row's name (first-seen position is kept for display).
//
// Pasted-text input dedups the other way round (first occurrence wins);
// the divergence is long-standing product behavior, keep both as-is.
func ParseRecipientsCSV(text string) []models.Recipient {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimRight(l, "\r")
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return []models.Recipient{}
	}

	start := 0
	if strings.Contains(strings.ToLower(lines[0]), "phone") {
		start = 1
	}

	index := make(map[string]int)
	recipients := []models.Recipient{}
	for _, line := range lines[start:] {
		cols := strings.SplitN(line, ",", 3)
		phone := NormalizePhone(cols[0])
		if phone == "" {
			continue
		}
		name := ""
		if len(cols) > 1 {
			name = strings.TrimSpace(cols[1])
		}

		if i, dup := index[phone]; dup {
			recipients[i] = models.Recipient{Phone: phone, Name: name}
			continue
		}
		index[phone] = len(recipients)
		recipients = append(recipients, models.Recipient{Phone: phone, Name: name})
	}
	return recipients
}
