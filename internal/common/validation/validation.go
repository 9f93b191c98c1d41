package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// Максимальные длины полей, как их ограничивает сервер
	MaxTitleLength     = 200
	MaxNameLength      = 200
	MaxFirstNameLength = 150
	MaxLastNameLength  = 150
	MaxUsernameLength  = 150
	MaxCurrencyLength  = 10
	MaxLanguageLength  = 10
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// в ошибках используем имена полей из JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(f.String()) != ""
	})
	return v
}

// FieldError описывает одно нарушенное правило
type FieldError struct {
	Field string
	Rule  string
	Param string
}

// Error возвращается, когда данные запроса не прошли локальную проверку.
// Такая ошибка не входит в таксономию ошибок API: запрос не отправлялся.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", f.Field, f.Rule, f.Param))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Rule))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// UserMessage возвращает текст для пользователя
func (e *Error) UserMessage(lang string) string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	if lang == "en" {
		return "Please check the fields: " + strings.Join(names, ", ") + "."
	}
	return "Проверьте заполнение полей: " + strings.Join(names, ", ") + "."
}

// Has сообщает, нарушено ли правило для поля
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Struct проверяет структуру по тегам `validate`
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// ValidatePositiveInt проверяет, что идентификатор положительный
func ValidatePositiveInt(value int64, fieldName string) error {
	if value <= 0 {
		return &Error{Fields: []FieldError{{Field: fieldName, Rule: "gt", Param: "0"}}}
	}
	return nil
}
