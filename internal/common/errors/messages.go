package errors

import (
	stderrors "errors"
	"strings"

	"wishlist-tool-client/internal/common/logger"
)

const (
	LangRU = "ru"
	LangEN = "en"

	// DefaultLang используется для неизвестных и пустых локалей
	DefaultLang = LangRU
)

var messages = map[string]map[ErrorCode]string{
	LangRU: {
		ErrCodeNetwork:      "Проблема с подключением к интернету. Проверьте соединение.",
		ErrCodeTimeout:      "Запрос занял слишком много времени. Попробуйте еще раз.",
		ErrCodeUnauthorized: "Необходима авторизация. Пожалуйста, войдите в систему.",
		ErrCodeForbidden:    "У вас нет доступа к этому ресурсу.",
		ErrCodeNotFound:     "Запрашиваемый ресурс не найден.",
		ErrCodeServer:       "Ошибка на сервере. Попробуйте позже.",
		ErrCodeUnknown:      "Произошла ошибка. Попробуйте еще раз.",
	},
	LangEN: {
		ErrCodeNetwork:      "Connection problem. Check your internet connection.",
		ErrCodeTimeout:      "The request took too long. Please try again.",
		ErrCodeUnauthorized: "Authorization required. Please sign in.",
		ErrCodeForbidden:    "You do not have access to this resource.",
		ErrCodeNotFound:     "The requested resource was not found.",
		ErrCodeServer:       "Server error. Please try again later.",
		ErrCodeUnknown:      "Something went wrong. Please try again.",
	},
}

var unexpected = map[string]string{
	LangRU: "Произошла неизвестная ошибка. Попробуйте еще раз.",
	LangEN: "An unknown error occurred. Please try again.",
}

// Messenger реализуют ошибки вне таксономии, у которых есть собственный текст для пользователя
type Messenger interface {
	UserMessage(lang string) string
}

// NormalizeLang сводит локаль вида "en-US" к поддерживаемому языку
func NormalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if _, ok := messages[lang]; ok {
		return lang
	}
	return DefaultLang
}

// Message возвращает текст для пользователя по коду. Функция тотальна:
// нераспознанный код дает общий текст.
func Message(code ErrorCode, lang string) string {
	table := messages[NormalizeLang(lang)]
	if msg, ok := table[code]; ok {
		return msg
	}
	return table[ErrCodeUnknown]
}

// UserMessage возвращает текст для показа пользователю по любой ошибке
func UserMessage(err error, lang string) string {
	if err == nil {
		return ""
	}
	if appErr, ok := AsAppError(err); ok {
		if appErr.Code == ErrCodeUnknown && appErr.Status != 0 && appErr.Message != "" {
			// сервер прислал собственное описание
			return appErr.Message
		}
		return Message(appErr.Code, lang)
	}
	var m Messenger
	if stderrors.As(err, &m) {
		return m.UserMessage(NormalizeLang(lang))
	}
	return unexpected[NormalizeLang(lang)]
}

// Handle записывает подробности ошибки в лог и возвращает текст для пользователя.
// Запись в лог не блокирует возврат текста.
func Handle(err error, where, lang string) string {
	if err == nil {
		return ""
	}
	ev := logger.Error().Err(err).Str("where", where).Str("code", string(CodeOf(err)))
	if appErr, ok := AsAppError(err); ok {
		ev = ev.Int("status", appErr.Status).Str("request_id", appErr.RequestID)
		for k, v := range appErr.Context {
			ev = ev.Str(k, v)
		}
	}
	ev.Msg("request failed")
	return UserMessage(err, lang)
}
