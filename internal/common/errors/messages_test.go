package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type guardErr struct{}

func (guardErr) Error() string { return "guard" }

func (guardErr) UserMessage(lang string) string {
	if lang == LangEN {
		return "not allowed"
	}
	return "нельзя"
}

func TestMessageIsTotal(t *testing.T) {
	for _, lang := range []string{LangRU, LangEN, "", "de", "en-US"} {
		for _, code := range append(Codes(), ErrorCode("SOMETHING_NEW"), "") {
			assert.NotEmpty(t, Message(code, lang), "%s/%s", lang, code)
		}
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Запрашиваемый ресурс не найден.", Message(ErrCodeNotFound, LangRU))
	assert.Equal(t, "The request took too long. Please try again.", Message(ErrCodeTimeout, "en-GB"))
	assert.Equal(t, Message(ErrCodeUnknown, LangRU), Message("SOMETHING_NEW", "fr"))
}

func TestNormalizeLang(t *testing.T) {
	assert.Equal(t, LangEN, NormalizeLang("EN_us"))
	assert.Equal(t, LangRU, NormalizeLang("ru-RU"))
	assert.Equal(t, DefaultLang, NormalizeLang("pt"))
	assert.Equal(t, DefaultLang, NormalizeLang(""))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		lang string
		want string
	}{
		{"nil", nil, LangRU, ""},
		{"classified", New(ErrCodeNetwork, "dial tcp"), LangRU, "Проблема с подключением к интернету. Проверьте соединение."},
		{"wrapped classified", fmt.Errorf("x: %w", New(ErrCodeForbidden, "no")), LangEN, "You do not have access to this resource."},
		{"server text for unknown status", FromResponse(400, "Нельзя забронировать свой подарок", ""), LangRU, "Нельзя забронировать свой подарок"},
		{"messenger", fmt.Errorf("reserve: %w", guardErr{}), LangEN, "not allowed"},
		{"plain error", stderrors.New("boom"), LangRU, "Произошла неизвестная ошибка. Попробуйте еще раз."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.lang))
		})
	}
}

func TestHandleReturnsMessage(t *testing.T) {
	err := New(ErrCodeServer, "upstream").WithContext("path", "/api/users/")
	assert.Equal(t, Message(ErrCodeServer, LangRU), Handle(err, "profile", LangRU))
	assert.Empty(t, Handle(nil, "profile", LangRU))
}
