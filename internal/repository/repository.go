package repository

import (
	"context"
	"errors"

	"cats-service/internal/model"
)

// ErrCatNotFound возвращается, когда кот не найден в хранилище
var ErrCatNotFound = errors.New("cat not found")

// CatRepository интерфейс для работы с котами в хранилище
type CatRepository interface {
	// Create сохраняет нового кота целиком (всё или ничего),
	// присваивает ему ID и возвращает сохраненного кота
	Create(ctx context.Context, cat model.Cat) (model.Cat, error)

	// GetByID возвращает кота по его ID
	GetByID(ctx context.Context, id int64) (model.Cat, error)

	// List возвращает всех котов в стабильном порядке создания
	List(ctx context.Context) ([]model.Cat, error)
}
