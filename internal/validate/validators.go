package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Field names understood by Validate.
const (
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldDepartment = "department"
	FieldDate       = "date"
)

// ValidationError reports why a field value was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

const (
	tagPhone = "fr_phone"
	tagDate  = "crm_date"
)

var phonePattern = regexp.MustCompile(`^(?:(?:\+|00)33|0)\s*[1-9](?:[\s.-]*\d{2}){4}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation(tagDate, func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	return v
}

type rule struct {
	tag       string
	message   string
	normalize func(string) string
}

var rules = map[string]rule{
	FieldEmail: {
		tag:       "required,email",
		message:   "Enter a valid email address.",
		normalize: NormalizeEmail,
	},
	FieldPhone: {
		tag:       "required," + tagPhone,
		message:   "Enter a valid phone number",
		normalize: NormalizePhone,
	},
	FieldDepartment: {
		tag:     "required,oneof=management sales support",
		message: "Invalid department. Department must be 'management', 'sales' or 'support'",
	},
	FieldDate: {
		tag:       "required," + tagDate,
		normalize: formatDate,
	},
}

// Validate trims value and checks it against the rule registered for field.
// Fields without a rule are returned trimmed.
func Validate(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	r, ok := rules[field]
	if !ok {
		return value, nil
	}
	if err := validate.Var(value, r.tag); err != nil {
		if field == FieldDate {
			_, perr := ParseDate(value)
			return "", perr
		}
		return "", invalid(field, "%s", r.message)
	}
	if r.normalize != nil {
		value = r.normalize(value)
	}
	return value, nil
}

// Email checks address syntax and normalizes the domain.
func Email(value string) (string, error) {
	return Validate(FieldEmail, value)
}

// Phone checks a French phone number and normalizes it.
func Phone(value string) (string, error) {
	return Validate(FieldPhone, value)
}

// Department checks the department name.
func Department(value string) (string, error) {
	return Validate(FieldDepartment, value)
}

// Date checks the value parses as a date and returns it in the first layout.
func Date(value string) (string, error) {
	return Validate(FieldDate, value)
}

// Struct checks s against its validate tags. The first failing field is
// reported as a *ValidationError named after its json tag.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	fe := fields[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return invalid(field, "%s is required.", label(field))
	case tagDate:
		_, perr := ParseDate(fmt.Sprint(fe.Value()))
		return perr
	}
	if r, ok := rules[field]; ok && r.message != "" {
		return invalid(field, "%s", r.message)
	}
	return invalid(field, "%s is not valid.", label(field))
}

func label(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DateLayouts are the accepted input formats, tried in order.
var DateLayouts = []string{
	"02-01-2006 15:04",
	"02 01 2006 15:04",
	"02012006 15:04",
	"02-01-2006 15",
	"02 01 2006 15",
	"02012006 15",
}

func formatDate(value string) string {
	t, err := ParseDate(value)
	if err != nil {
		return value
	}
	return t.Format(DateLayouts[0])
}

// ParseDate parses value in the local time zone with any accepted layout.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid(FieldDate, "%s does not match the format %s", value, strings.Join(DateLayouts, ", "))
}

// ValidateStartDate rejects a start date in the past.
func ValidateStartDate(now, start time.Time) error {
	if start.Before(now) {
		return invalid("start_date", "Start date cannot be in the past")
	}
	return nil
}

// ValidateEndDate rejects an end date earlier than the start date.
func ValidateEndDate(start, end time.Time) error {
	if end.Before(start) {
		return invalid("end_date", "End date cannot be earlier than start date")
	}
	return nil
}
