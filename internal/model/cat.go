package model

import (
	"encoding/json"
	"time"
)

// Cat представляет кота (доменная модель)
type Cat struct {
	ID        int64     `json:"id"`              // Идентификатор, присваивается сервером при создании
	Name      string    `json:"name"`            // Имя кота (обязательное поле)
	Age       int64     `json:"age"`             // Возраст в годах
	Notes     *string   `json:"notes,omitempty"` // Заметки о коте (опционально)
	CreatedAt time.Time `json:"createdAt"`       // Дата создания
	UpdatedAt time.Time `json:"updatedAt"`       // Дата последнего обновления
}

// IsPersisted проверяет, сохранен ли кот (есть ли у него серверный ID)
func (c *Cat) IsPersisted() bool {
	return c.ID != 0
}

// CatCandidate — сырые атрибуты кандидата на создание.
// Принимаются только поля name, age и notes: id, временные метки и любые
// неизвестные поля входного JSON отбрасываются при декодировании, поэтому
// клиент не может их установить.
// Age передается как json.RawMessage: нечисловое значение должно дойти до
// валидатора и стать ошибкой поля, а не ошибкой декодирования запроса.
type CatCandidate struct {
	Name  *string         `json:"name,omitempty"`
	Age   json.RawMessage `json:"age,omitempty"`
	Notes *string         `json:"notes,omitempty"`
}
