package state

import (
	"context"
	"errors"
	"sync"

	"cats-service/internal/client"
	"cats-service/internal/model"
	"cats-service/internal/validation"
)

// Phase — фаза текущей (или последней завершившейся) отправки.
// Отдельные Idle и Failed позволяют различать "еще не пробовали"
// и "попробовали и не получилось".
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrSubmitInFlight возвращается при попытке отправки, пока предыдущая не завершилась
var ErrSubmitInFlight = errors.New("submission already in flight")

// Gateway — подмножество клиента, необходимое контроллеру
type Gateway interface {
	FetchCats(ctx context.Context) ([]model.Cat, error)
	SubmitCat(ctx context.Context, candidate model.CatCandidate) (client.SubmitResult, error)
}

// Controller владеет состоянием представления: кэшем списка котов и фазой
// текущей отправки. Шлюз состояния не хранит - все мутации проходят здесь.
type Controller struct {
	mu      sync.Mutex
	gateway Gateway

	entities    []model.Cat
	phase       Phase
	fieldErrors validation.Errors
	lastErr     error
}

// NewController создает новый контроллер состояния представления
func NewController(gateway Gateway) *Controller {
	return &Controller{gateway: gateway}
}

// Refresh запрашивает список котов и заменяет кэш целиком.
// При сбое транспорта кэш остается нетронутым.
func (c *Controller) Refresh(ctx context.Context) error {
	cats, err := c.gateway.FetchCats(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entities = cats
	return nil
}

// Submit проводит отправку через фазы Submitting → Succeeded/Failed.
// Повторная отправка, пока текущая не завершилась, запрещена.
func (c *Controller) Submit(ctx context.Context, candidate model.CatCandidate) error {
	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	// Сбрасываем одноразовый флаг успеха перед новой попыткой
	c.phase = PhaseSubmitting
	c.fieldErrors = nil
	c.lastErr = nil
	c.mu.Unlock()

	result, err := c.gateway.SubmitCat(ctx, candidate)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.phase = PhaseFailed
		c.lastErr = err
		return err
	}

	if result.Succeeded() {
		// Сервер подтвердил запись присвоенным ID - единственный
		// триггер навигации после создания
		c.phase = PhaseSucceeded
		return nil
	}

	// Завершение запроса само по себе не успех: тело могло нести
	// набор ошибок валидации
	c.phase = PhaseFailed
	c.fieldErrors = result.Errors
	return nil
}

// Entities возвращает последний известный список котов
func (c *Controller) Entities() []model.Cat {
	c.mu.Lock()
	defer c.mu.Unlock()

	cats := make([]model.Cat, len(c.entities))
	copy(cats, c.entities)
	return cats
}

// Phase возвращает текущую фазу отправки
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// LastWriteSucceeded сообщает, завершилась ли последняя отправка успехом.
// Навигация после записи должна запускаться только по этому флагу.
func (c *Controller) LastWriteSucceeded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == PhaseSucceeded
}

// FieldErrors возвращает ошибки валидации последней неуспешной отправки
// (nil, если их не было)
func (c *Controller) FieldErrors() validation.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrors
}

// Err возвращает транспортную ошибку последней отправки, если была
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
