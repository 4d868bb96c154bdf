package memory

import (
	"context"
	"sync"
	"time"

	"cats-service/internal/model"
	"cats-service/internal/repository"
)

var _ repository.CatRepository = (*repo)(nil)

type repo struct {
	mu     sync.RWMutex
	nextID int64
	cats   []model.Cat
	byID   map[int64]int // ID кота → индекс в срезе cats
}

// NewRepository создает новый экземпляр in-memory репозитория.
// Коты хранятся в срезе в порядке создания, ID присваиваются
// последовательно начиная с 1.
func NewRepository() repository.CatRepository {
	return &repo{
		nextID: 1,
		byID:   make(map[int64]int),
	}
}

// Create сохраняет нового кота и возвращает его с присвоенным ID
func (r *repo) Create(ctx context.Context, cat model.Cat) (model.Cat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Присваиваем следующий последовательный ID
	cat.ID = r.nextID
	r.nextID++

	// Устанавливаем временные метки, если не заданы
	now := time.Now()
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = now
	}
	cat.UpdatedAt = now

	r.byID[cat.ID] = len(r.cats)
	r.cats = append(r.cats, cat)

	return cat, nil
}

// GetByID возвращает кота по его ID
func (r *repo) GetByID(ctx context.Context, id int64) (model.Cat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, exists := r.byID[id]
	if !exists {
		return model.Cat{}, repository.ErrCatNotFound
	}

	return r.cats[idx], nil
}

// List возвращает всех котов в порядке создания
func (r *repo) List(ctx context.Context) ([]model.Cat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Возвращаем копию, чтобы вызывающая сторона не могла изменить хранилище
	cats := make([]model.Cat, len(r.cats))
	copy(cats, r.cats)

	return cats, nil
}
