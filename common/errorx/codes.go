package errorx

// Code ranges:
// 0       - success
// 1xxx    - general
// 3xxx    - activity service

const (
	CodeSuccess            = 0    // success
	CodeInternalError      = 1000 // internal server error
	CodeInvalidParams      = 1001 // parameter validation failed
	CodeUnauthorized       = 1002 // not logged in
	CodeForbidden          = 1003 // not allowed
	CodeNotFound           = 1004 // resource not found
	CodeTooManyRequests    = 1005 // rate limited
	CodeServiceUnavailable = 1006 // dependency unavailable or breaker open
	CodeTimeout            = 1007 // request timed out
	CodeDBError            = 1008 // database error

	// activity service - registration 3001-3020
	CodeActivityNotFound  = 3001 // activity does not exist
	CodeUserNotFound      = 3002 // profile does not exist
	CodeAlreadyRegistered = 3003 // pair already has an active registration
	CodeCapacityExceeded  = 3004 // activity is full
	CodeNotRegistered     = 3005 // nothing to cancel
	CodeCancelDisabled    = 3006 // cancellation switched off
	CodeRegistrationRetry = 3007 // transient store failure, safe to retry
	CodeInvalidActivity   = 3008 // activity fields invalid
)

// codeMessages are the user-facing default messages.
var codeMessages = map[int]string{
	CodeSuccess:            "success",
	CodeInternalError:      "Er ging iets mis, probeer het later opnieuw",
	CodeInvalidParams:      "Ongeldige invoer",
	CodeUnauthorized:       "Log eerst in",
	CodeForbidden:          "Geen toegang",
	CodeNotFound:           "Niet gevonden",
	CodeTooManyRequests:    "Te veel verzoeken, probeer het zo opnieuw",
	CodeServiceUnavailable: "De dienst is tijdelijk niet beschikbaar",
	CodeTimeout:            "Het verzoek duurde te lang",
	CodeDBError:            "Databasefout",

	CodeActivityNotFound:  "Activiteit niet gevonden",
	CodeUserNotFound:      "Gebruiker niet gevonden",
	CodeAlreadyRegistered: "Je bent al ingeschreven voor deze activiteit",
	CodeCapacityExceeded:  "Deze activiteit is vol",
	CodeNotRegistered:     "Je bent niet ingeschreven voor deze activiteit",
	CodeCancelDisabled:    "Uitschrijven is niet mogelijk",
	CodeRegistrationRetry: "Fout bij inschrijven, probeer het opnieuw",
	CodeInvalidActivity:   "Ongeldige activiteit",
}

// GetMessage returns the default message of code.
func GetMessage(code int) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return "Onbekende fout"
}

// IsValidCode reports whether code is a registered business code.
func IsValidCode(code int) bool {
	_, exists := codeMessages[code]
	return exists
}
