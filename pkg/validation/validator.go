package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// InvalidRequest is used when the payload can't be decoded at all.
const InvalidRequest = "Invalid request"

var (
	mu       sync.RWMutex
	messages = map[string]string{}
	initOnce sync.Once
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON (or form) tag names in errors.
// - Registers alias tags for common validations.
// - Registers the user-facing message for each field/tag pair the API checks.
func Init() {
	initOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				for _, tag := range []string{"json", "form"} {
					name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
					if name == "-" {
						return ""
					}
					if name != "" {
						return name
					}
				}
				return fld.Name
			})
			v.RegisterAlias("pwd", "min=8") // password minimum length
		}

		RegisterMessage("name", "required", "Name is required")
		RegisterMessage("email", "required", "Valid email required")
		RegisterMessage("email", "email", "Valid email required")
		RegisterMessage("password", "required", "Password must be at least 8 characters")
		RegisterMessage("password", "pwd", "Password must be at least 8 characters")
		RegisterMessage("title", "required", "Title is required")
		RegisterMessage("title", "min", "Title is required")
		RegisterMessage("status", "oneof", "Status must be true or false")
	})
}

// RegisterMessage overrides the message reported for field failing tag.
func RegisterMessage(field, tag, msg string) {
	mu.Lock()
	defer mu.Unlock()
	messages[field+"."+tag] = msg
}

func lookup(field, tag string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	m, ok := messages[field+"."+tag]
	return m, ok
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = fieldMessage(fe)
		}
		return out
	}

	return map[string]string{"payload": payloadMessage(err)}
}

// Message joins every field message into one line, in field order.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return InvalidRequest
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, ", ")
}

func payloadMessage(err error) string {
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return "invalid json"
	}
	return "invalid payload"
}

func fieldMessage(fe validator.FieldError) string {
	if m, ok := lookup(fe.Field(), fe.Tag()); ok {
		return m
	}
	return fe.Field() + " " + formatFieldError(fe)
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "boolean":
		return "must be a boolean value"
	case "numeric":
		return "must be numeric"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "pwd":
		return "min length 8"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
