package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cats-service/internal/model"
	"cats-service/internal/validation"
)

// NetworkError описывает сбой транспорта или неразборчивый ответ сервера.
// Ошибки валидации к этому типу не относятся: они приходят как данные.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// SubmitResult — размеченный результат создания: либо созданный кот,
// либо набор ошибок валидации по полям. Различение идет по HTTP статусу
// ответа, а не по форме тела.
type SubmitResult struct {
	Created *model.Cat
	Errors  validation.Errors
}

// Succeeded сообщает, подтвердил ли сервер создание
func (r SubmitResult) Succeeded() bool {
	return r.Created != nil && r.Created.IsPersisted()
}

// Client — шлюз к Resource Service. Состояния не хранит: данные и ошибки
// возвращаются вызывающей стороне.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New создает новый экземпляр клиента.
// timeout ограничивает каждый запрос целиком (0 - без ограничения).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchCats запрашивает полный список котов одним запросом.
// Повторных попыток нет: сбой транспорта или неразборчивое тело
// возвращаются как NetworkError.
func (c *Client) FetchCats(ctx context.Context) ([]model.Cat, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cats", nil)
	if err != nil {
		return nil, &NetworkError{Op: "fetch cats", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "fetch cats", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: "fetch cats", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var catList []model.Cat
	if err := json.NewDecoder(resp.Body).Decode(&catList); err != nil {
		return nil, &NetworkError{Op: "fetch cats", Err: fmt.Errorf("decode response: %w", err)}
	}

	return catList, nil
}

// SubmitCat отправляет кандидата на создание.
// 201/200 - создан, 422 - набор ошибок валидации, всё остальное - NetworkError.
func (c *Client) SubmitCat(ctx context.Context, candidate model.CatCandidate) (SubmitResult, error) {
	body, err := json.Marshal(map[string]model.CatCandidate{"cat": candidate})
	if err != nil {
		return SubmitResult{}, &NetworkError{Op: "submit cat", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cats", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, &NetworkError{Op: "submit cat", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SubmitResult{}, &NetworkError{Op: "submit cat", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		var cat model.Cat
		if err := json.NewDecoder(resp.Body).Decode(&cat); err != nil {
			return SubmitResult{}, &NetworkError{Op: "submit cat", Err: fmt.Errorf("decode response: %w", err)}
		}
		return SubmitResult{Created: &cat}, nil

	case http.StatusUnprocessableEntity:
		var validationErrs validation.Errors
		if err := json.NewDecoder(resp.Body).Decode(&validationErrs); err != nil {
			return SubmitResult{}, &NetworkError{Op: "submit cat", Err: fmt.Errorf("decode errors: %w", err)}
		}
		return SubmitResult{Errors: validationErrs}, nil

	default:
		return SubmitResult{}, &NetworkError{Op: "submit cat", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
}

// WatchEvents подписывается на поток созданных котов (SSE).
// Канал закрывается при отмене контекста или обрыве соединения.
func (c *Client) WatchEvents(ctx context.Context) (<-chan model.Cat, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cats/events", nil)
	if err != nil {
		return nil, &NetworkError{Op: "watch events", Err: err}
	}

	// Поток живет дольше обычного запроса - таймаут клиента здесь не подходит
	resp, err := (&http.Client{Transport: c.httpClient.Transport}).Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "watch events", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &NetworkError{Op: "watch events", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	ch := make(chan model.Cat)
	go func() {
		defer close(ch)
		defer func() { _ = resp.Body.Close() }()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}

			var cat model.Cat
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &cat); err != nil {
				continue
			}

			select {
			case ch <- cat:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
