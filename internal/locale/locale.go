package locale

import "strings"

// Locale represents a locale (group of user-facing messages).
type Locale struct {
	LoginFailed             string
	InvalidCredentials      string
	ProfileFetchFailed      string
	ProfileUpdateFailed     string
	CalendarFetchFailed     string
	NotificationFetchFailed string
	UnreadCountFetchFailed  string
	MarkReadFailed          string
	PasswordChangeFailed    string
	PasswordCurrentWrong    string
	PasswordTooShort        string
	PasswordTooSimilar      string
	PasswordTooCommon       string
	PasswordEntirelyNumeric string
	SessionExpired          string
	StreamLost              string
}

var defaultLocale *Locale

func init() {
	defaultLocale = &fr
}

// Get returns a Locale by the given language code. Unknown codes fall
// back to the default (French, matching the deployed user base).
func Get(languageCode string) *Locale {
	switch languageCode {
	case "en":
		return &en
	case "fr":
		return &fr
	default:
		return defaultLocale
	}
}

// credentialPatterns are backend error fragments that all mean the
// submitted username/password pair was rejected.
var credentialPatterns = []string{
	"non authentifié",
	"no active account found",
	"invalid credentials",
}

// ForLogin maps a raw backend login error to a user-facing message.
// Known credential-rejection patterns get the specific message; any
// other non-empty backend text is passed through verbatim.
func (l *Locale) ForLogin(raw string) string {
	lower := strings.ToLower(raw)
	for _, p := range credentialPatterns {
		if strings.Contains(lower, p) {
			return l.InvalidCredentials
		}
	}
	if strings.TrimSpace(raw) != "" {
		return raw
	}
	return l.LoginFailed
}

// passwordPattern pairs a backend validation fragment with the Locale
// field carrying its translation.
type passwordPattern struct {
	fragment string
	message  func(*Locale) string
}

var passwordPatterns = []passwordPattern{
	{"donnée invalide", func(l *Locale) string { return l.PasswordCurrentWrong }},
	{"this password is too short", func(l *Locale) string { return l.PasswordTooShort }},
	{"too similar", func(l *Locale) string { return l.PasswordTooSimilar }},
	{"too common", func(l *Locale) string { return l.PasswordTooCommon }},
	{"entirely numeric", func(l *Locale) string { return l.PasswordEntirelyNumeric }},
}

// ForPasswordChange maps a raw backend set-password error to a
// user-facing message, translating the known Django validator texts.
func (l *Locale) ForPasswordChange(raw string) string {
	lower := strings.ToLower(raw)
	for _, p := range passwordPatterns {
		if strings.Contains(lower, p.fragment) {
			return p.message(l)
		}
	}
	if strings.TrimSpace(raw) != "" {
		return raw
	}
	return l.PasswordChangeFailed
}
