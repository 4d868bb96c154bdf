package cats

import (
	"context"
	"time"

	"cats-service/internal/model"
	"cats-service/internal/repository"
	svc "cats-service/internal/service"
	"cats-service/internal/validation"
)

var _ svc.CatService = (*service)(nil)

type service struct {
	catRepository repository.CatRepository
	events        *EventService
}

// NewCatService создает новый экземпляр сервиса для работы с котами.
// events может быть nil, если подписка на события не нужна.
func NewCatService(catRepository repository.CatRepository, events *EventService) svc.CatService {
	return &service{
		catRepository: catRepository,
		events:        events,
	}
}

// Create валидирует кандидата и сохраняет кота.
// Порядок строгий: сначала все правила, потом запись. Кандидат,
// нарушивший хотя бы одно правило, до хранилища не доходит.
func (s *service) Create(ctx context.Context, candidate model.CatCandidate) (model.Cat, validation.Errors, error) {
	attrs, errs := validation.ValidateCandidate(candidate)
	if !errs.IsEmpty() {
		return model.Cat{}, errs, nil
	}

	now := time.Now()
	cat := model.Cat{
		Name:      attrs.Name,
		Age:       attrs.Age,
		Notes:     attrs.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Сохраняем через репозиторий (ID будет присвоен в репозитории)
	createdCat, err := s.catRepository.Create(ctx, cat)
	if err != nil {
		return model.Cat{}, nil, err
	}

	// Уведомляем подписчиков о созданном коте
	if s.events != nil {
		s.events.Publish(createdCat)
	}

	return createdCat, nil, nil
}

// Get возвращает кота по его ID
func (s *service) Get(ctx context.Context, id int64) (model.Cat, error) {
	cat, err := s.catRepository.GetByID(ctx, id)
	if err != nil {
		return model.Cat{}, err
	}

	return cat, nil
}

// List возвращает список всех котов в порядке создания
func (s *service) List(ctx context.Context) ([]model.Cat, error) {
	cats, err := s.catRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	return cats, nil
}
