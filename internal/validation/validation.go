package validation

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"cats-service/internal/model"
)

// Тексты нарушений правил валидации
const (
	MsgBlank         = "can't be blank"
	MsgNotANumber    = "is not a number"
	MsgNotesTooShort = "is too short (minimum is 10 characters)"
)

// Минимальная длина поля notes, если оно передано
const minNotesLength = 10

// Errors — набор ошибок валидации: имя поля → упорядоченный список сообщений.
// Набор создается заново на каждую попытку создания и возвращается клиенту
// как есть, если валидация не пройдена.
type Errors map[string][]string

// Add добавляет сообщение о нарушении к указанному полю
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// IsEmpty проверяет, пуст ли набор ошибок
func (e Errors) IsEmpty() bool {
	return len(e) == 0
}

// CatAttrs — нормализованные атрибуты кота, прошедшие валидацию
type CatAttrs struct {
	Name  string
	Age   int64
	Notes *string
}

// ValidateCandidate проверяет кандидата целиком и возвращает либо
// нормализованные атрибуты, либо набор ошибок по полям.
// Все правила выполняются до какого-либо обращения к хранилищу:
// при любом нарушении кандидат не сохраняется вовсе.
func ValidateCandidate(c model.CatCandidate) (CatAttrs, Errors) {
	errs := make(Errors)
	var attrs CatAttrs

	// name: обязательное, непустое
	if c.Name == nil || strings.TrimSpace(*c.Name) == "" {
		errs.Add("name", MsgBlank)
	} else {
		attrs.Name = strings.TrimSpace(*c.Name)
	}

	// age: обязательное, целое число
	if age, ok := parseAge(c.Age); ok {
		attrs.Age = age
	} else {
		errs.Add("age", MsgNotANumber)
	}

	// notes: опционально, но если передано — не короче minNotesLength
	if c.Notes != nil {
		if utf8.RuneCountInString(*c.Notes) < minNotesLength {
			errs.Add("notes", MsgNotesTooShort)
		} else {
			notes := *c.Notes
			attrs.Notes = &notes
		}
	}

	if !errs.IsEmpty() {
		return CatAttrs{}, errs
	}
	return attrs, nil
}

// parseAge разбирает сырое JSON-значение возраста.
// Валидно только целое число: отсутствие поля, null, строка или дробное
// значение считаются нарушением правила, а не ошибкой запроса.
func parseAge(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	// json.Number принимает только числовой литерал JSON
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}

	age, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, false
	}

	return age, true
}
