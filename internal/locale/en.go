package locale

var en = Locale{
	LoginFailed:             "Login failed",
	InvalidCredentials:      "Incorrect username or password",
	ProfileFetchFailed:      "Failed to fetch profile",
	ProfileUpdateFailed:     "Failed to update profile",
	CalendarFetchFailed:     "Failed to fetch calendar",
	NotificationFetchFailed: "Failed to fetch notifications",
	UnreadCountFetchFailed:  "Failed to fetch unread count",
	MarkReadFailed:          "Failed to mark as read",
	PasswordChangeFailed:    "Error while changing password",
	PasswordCurrentWrong:    "Current password is incorrect",
	PasswordTooShort:        "This password is too short. It must contain at least 8 characters.",
	PasswordTooSimilar:      "This password is too similar to your personal information.",
	PasswordTooCommon:       "This password is too common.",
	PasswordEntirelyNumeric: "This password is entirely numeric.",
	SessionExpired:          "Session expired, please log in again",
	StreamLost:              "Connection lost. Please restart.",
}
