package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string  `json:"title" validate:"notblank,max=10"`
	Link  *string `json:"link,omitempty" validate:"omitempty,url"`
	Note  *string `json:"note,omitempty" validate:"omitempty,notblank"`
}

func TestStruct(t *testing.T) {
	bad := "not a url"
	good := "https://example.com/item"
	blank := "   "

	tests := []struct {
		name   string
		in     sample
		fields []string
	}{
		{"valid", sample{Title: "Lego", Link: &good}, nil},
		{"blank title", sample{Title: "  "}, []string{"title"}},
		{"long title", sample{Title: "a very long title"}, []string{"title"}},
		{"bad link", sample{Title: "Lego", Link: &bad}, []string{"link"}},
		{"blank optional", sample{Title: "Lego", Note: &blank}, []string{"note"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *Error
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.fields {
				assert.True(t, verr.Has(f), "expected %s in %v", f, verr.Fields)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	err := &Error{Fields: []FieldError{{Field: "title", Rule: "required"}}}
	assert.Equal(t, "Проверьте заполнение полей: title.", err.UserMessage("ru"))
	assert.Equal(t, "Please check the fields: title.", err.UserMessage("en"))
	assert.Contains(t, err.Error(), "title: required")
}

func TestValidatePositiveInt(t *testing.T) {
	assert.NoError(t, ValidatePositiveInt(1, "wish_id"))
	assert.Error(t, ValidatePositiveInt(0, "wish_id"))
}
