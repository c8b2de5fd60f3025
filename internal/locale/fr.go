package locale

var fr = Locale{
	LoginFailed:             "Échec de connexion",
	InvalidCredentials:      "Nom d'utilisateur ou mot de passe incorrect",
	ProfileFetchFailed:      "Échec de récupération du profil",
	ProfileUpdateFailed:     "Échec de mise à jour du profil",
	CalendarFetchFailed:     "Échec de récupération du calendrier",
	NotificationFetchFailed: "Échec de récupération des notifications",
	UnreadCountFetchFailed:  "Échec de récupération du compteur",
	MarkReadFailed:          "Échec de marquage comme lu",
	PasswordChangeFailed:    "Erreur lors du changement de mot de passe",
	PasswordCurrentWrong:    "Mot de passe actuel incorrect",
	PasswordTooShort:        "Ce mot de passe est trop court. Il doit contenir au moins 8 caractères.",
	PasswordTooSimilar:      "Ce mot de passe est trop proche de vos informations personnelles.",
	PasswordTooCommon:       "Ce mot de passe est trop courant.",
	PasswordEntirelyNumeric: "Ce mot de passe est entièrement numérique.",
	SessionExpired:          "Session expirée, veuillez vous reconnecter",
	StreamLost:              "Connexion perdue. Veuillez redémarrer.",
}
