package validate

import "strings"

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "")

// NormalizePhone rewrites a French phone number to +33XXXXXXXXX.
func NormalizePhone(phone string) string {
	phone = phoneSeparators.Replace(strings.TrimSpace(phone))
	switch {
	case strings.HasPrefix(phone, "+"):
		return phone
	case strings.HasPrefix(phone, "0033"):
		return "+" + phone[2:]
	case strings.HasPrefix(phone, "0"):
		return "+33" + phone[1:]
	default:
		return phone
	}
}

// NormalizeEmail lower-cases the domain part of an address.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
