package i18n

// Message keys used by the service itself.
const (
	KeyNoResponse     = "error.no_response"
	KeySessionExpired = "error.session_expired"
	KeyUnknownError   = "error.unknown"
	KeyRequiredField  = "This field is required."
)

// dictionaries maps language -> key -> message. Backend validation
// messages are keyed by their original English text, as returned by the
// reconciliation backend.
var dictionaries = map[Lang]map[string]string{
	FR: {
		KeyNoResponse:     "Aucune réponse du serveur. Vérifiez votre connexion.",
		KeySessionExpired: "Votre session a expiré, veuillez vous reconnecter.",
		KeyUnknownError:   "Une erreur inattendue est survenue.",

		"This field is required.":                            "Ce champ est obligatoire.",
		"This field may not be blank.":                       "Ce champ ne peut pas être vide.",
		"This field may not be null.":                        "Ce champ ne peut pas être nul.",
		"Enter a valid email address.":                       "Saisissez une adresse e-mail valide.",
		"Enter a valid URL.":                                 "Saisissez une URL valide.",
		"A valid integer is required.":                       "Un nombre entier valide est requis.",
		"A valid number is required.":                        "Un nombre valide est requis.",
		"Not found.":                                         "Introuvable.",
		"Invalid pk - object does not exist.":                "Identifiant invalide : l'objet n'existe pas.",
		"Authentication credentials were not provided.":      "Informations d'authentification non fournies.",
		"Given token not valid for any token type":           "Le jeton fourni n'est valide pour aucun type de jeton.",
		"No active account found with the given credentials": "Aucun compte actif ne correspond à ces identifiants.",
		"You do not have permission to perform this action.": "Vous n'avez pas la permission d'effectuer cette action.",
		"company with this code already exists.":             "Une société avec ce code existe déjà.",
		"bank with this code already exists.":                "Une banque avec ce code existe déjà.",
		"agency with this code already exists.":              "Une agence avec ce code existe déjà.",

		"table.company-list": "Sociétés",
		"table.bank-list":    "Banques",
		"table.agency-list":  "Agences",
		"table.user-list":    "Utilisateurs",
	},
	EN: {
		KeyNoResponse:     "No response from server. Check your connection.",
		KeySessionExpired: "Your session has expired, please log in again.",
		KeyUnknownError:   "An unexpected error occurred.",

		"table.company-list": "Companies",
		"table.bank-list":    "Banks",
		"table.agency-list":  "Agencies",
		"table.user-list":    "Users",
	},
	AR: {
		KeyNoResponse:     "لا يوجد رد من الخادم. تحقق من اتصالك.",
		KeySessionExpired: "انتهت صلاحية الجلسة، يرجى تسجيل الدخول مجددًا.",
		KeyUnknownError:   "حدث خطأ غير متوقع.",

		"This field is required.": "هذا الحقل مطلوب.",

		"table.company-list": "الشركات",
		"table.bank-list":    "البنوك",
		"table.agency-list":  "الوكالات",
		"table.user-list":    "المستخدمون",
	},
}
