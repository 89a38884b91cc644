package api

import (
	"unicode"

	"github.com/example/task-tracker/domain/apperror"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/go-playground/validator/v10"
)

// Boundary validation. Every transport calls these before reaching a module;
// each failure contributes one human-readable message to the error details.

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores bytes beyond 72
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("strongpassword", strongPassword); err != nil {
		panic(err)
	}
	return v
}

// strongPassword requires 8 to 72 bytes with an upper case letter, a lower
// case letter, a digit and a symbol.
func strongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// check appends message to details when value fails tag.
func check(details []string, value any, tag, message string) []string {
	if err := validate.Var(value, tag); err != nil {
		return append(details, message)
	}
	return details
}

func result(details []string) error {
	if len(details) > 0 {
		return apperror.Validation(details...)
	}
	return nil
}

// ValidateSignUp checks signup credentials.
func ValidateSignUp(username, password string) error {
	var details []string
	details = check(details, username, "required,email", "username must be an email")
	details = check(details, password, "required,strongpassword",
		"password must be 8 to 72 characters with upper and lower case letters, a number and a symbol")
	return result(details)
}

// ValidateCreateTask checks the fields of a new task.
func ValidateCreateTask(title, description string) error {
	var details []string
	details = checkTitle(details, title)
	details = checkDescription(details, description)
	return result(details)
}

// ValidateTitle checks a task title.
func ValidateTitle(title string) error {
	return result(checkTitle(nil, title))
}

// ValidateDescription checks a task description.
func ValidateDescription(description string) error {
	return result(checkDescription(nil, description))
}

// ValidateStatus parses a task status.
func ValidateStatus(raw string) (domain.Status, error) {
	if err := result(checkStatus(nil, raw, true)); err != nil {
		return "", err
	}
	return domain.Status(raw), nil
}

// ValidateFilter builds a listing filter. Empty values mean no constraint.
func ValidateFilter(status, search string) (domain.Filter, error) {
	var details []string
	details = checkStatus(details, status, false)
	details = check(details, search, "omitempty,min=1,max=50", "search must be at most 50 characters")
	if err := result(details); err != nil {
		return domain.Filter{}, err
	}
	return domain.Filter{Status: domain.Status(status), Search: search}, nil
}

// ValidateID checks a task identifier.
func ValidateID(id string) error {
	return result(check(nil, id, "required,uuid4", "id must be a UUID"))
}

func checkTitle(details []string, title string) []string {
	return check(details, title, "min=3,max=20", "title must be between 3 and 20 characters")
}

func checkDescription(details []string, description string) []string {
	return check(details, description, "min=3,max=50", "description must be between 3 and 50 characters")
}

func checkStatus(details []string, status string, required bool) []string {
	tag := "omitempty,oneof=OPEN IN_PROGRESS DONE"
	if required {
		tag = "required,oneof=OPEN IN_PROGRESS DONE"
	}
	return check(details, status, tag, "status must be one of OPEN, IN_PROGRESS, DONE")
}
