package affected_patients

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsContactableEmail проверяет, что на адрес можно отправить письмо автоматически
// Адрес без точки в домене (user@localhost) считается непригодным
func IsContactableEmail(email *string) bool {
	if email == nil {
		return false
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" || trimmed != *email {
		return false
	}
	if err := validate.Var(trimmed, "email"); err != nil {
		return false
	}

	at := strings.LastIndex(trimmed, "@")
	host := trimmed[at+1:]
	return strings.Contains(host, ".") && !strings.HasPrefix(host, ".") && !strings.HasSuffix(host, ".")
}
