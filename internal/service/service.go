package service

import (
	"context"

	"cats-service/internal/model"
	"cats-service/internal/validation"
)

// CatService интерфейс для бизнес-логики работы с котами
type CatService interface {
	// Create валидирует кандидата целиком и, только если все правила
	// выполнены, сохраняет кота. При нарушении правил возвращается
	// набор ошибок по полям, хранилище при этом не затрагивается.
	Create(ctx context.Context, candidate model.CatCandidate) (model.Cat, validation.Errors, error)

	// Get возвращает кота по его ID
	Get(ctx context.Context, id int64) (model.Cat, error)

	// List возвращает список всех котов в порядке создания
	List(ctx context.Context) ([]model.Cat, error)
}
