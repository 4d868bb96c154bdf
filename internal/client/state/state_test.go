package state

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cats-service/internal/client"
	"cats-service/internal/model"
	"cats-service/internal/validation"
)

// mockGateway - мок шлюза для тестирования контроллера
type mockGateway struct {
	fetchFunc  func(ctx context.Context) ([]model.Cat, error)
	submitFunc func(ctx context.Context, candidate model.CatCandidate) (client.SubmitResult, error)
}

func (m *mockGateway) FetchCats(ctx context.Context) ([]model.Cat, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx)
	}
	return nil, nil
}

func (m *mockGateway) SubmitCat(ctx context.Context, candidate model.CatCandidate) (client.SubmitResult, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, candidate)
	}
	return client.SubmitResult{}, nil
}

func strPtr(s string) *string {
	return &s
}

func validCandidate() model.CatCandidate {
	return model.CatCandidate{
		Name: strPtr("Felix"),
		Age:  json.RawMessage("2"),
	}
}

func TestSubmit_Success(t *testing.T) {
	gateway := &mockGateway{
		submitFunc: func(ctx context.Context, candidate model.CatCandidate) (client.SubmitResult, error) {
			return client.SubmitResult{Created: &model.Cat{ID: 1, Name: "Felix", Age: 2}}, nil
		},
	}
	controller := NewController(gateway)

	if controller.Phase() != PhaseIdle {
		t.Fatalf("Expected initial phase idle, got %s", controller.Phase())
	}
	if controller.LastWriteSucceeded() {
		t.Fatal("Expected LastWriteSucceeded to be false before any submission")
	}

	if err := controller.Submit(context.Background(), validCandidate()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if controller.Phase() != PhaseSucceeded {
		t.Errorf("Expected phase succeeded, got %s", controller.Phase())
	}
	if !controller.LastWriteSucceeded() {
		t.Error("Expected LastWriteSucceeded to be true")
	}
	if controller.FieldErrors() != nil {
		t.Errorf("Expected no field errors, got: %v", controller.FieldErrors())
	}
}

func TestSubmit_ValidationFailure(t *testing.T) {
	gateway := &mockGateway{
		submitFunc: func(ctx context.Context, candidate model.CatCandidate) (client.SubmitResult, error) {
			return client.SubmitResult{
				Errors: validation.Errors{"name": {"can't be blank"}},
			}, nil
		},
	}
	controller := NewController(gateway)

	// Запрос завершился, но это не успех: тело несло ошибки валидации
	if err := controller.Submit(context.Background(), model.CatCandidate{}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if controller.Phase() != PhaseFailed {
		t.Errorf("Expected phase failed, got %s", controller.Phase())
	}
	if controller.LastWriteSucceeded() {
		t.Error("Expected LastWriteSucceeded to remain false")
	}

	fieldErrors := controller.FieldErrors()
	if len(fieldErrors["name"]) != 1 || fieldErrors["name"][0] != "can't be blank" {
		t.Errorf("Expected name error to be retained, got: %v", fieldErrors)
	}
}

func TestSubmit_TransportFailure(t *testing.T) {
	netErr := &client.NetworkError{Op: "submit cat", Err: errors.New("connection refused")}
	gateway := &mockGateway{
		submitFunc: func(ctx context.Context, candidate model.CatCandidate) (client.SubmitResult, error) {
			return client.SubmitResult{}, netErr
		},
	}
	controller := NewController(gateway)

	err := controller.Submit(context.Background(), validCandidate())
	if !errors.Is(err, netErr) {
		t.Fatalf("Expected transport error to propagate, got: %v", err)
	}

	if controller.Phase() != PhaseFailed {
		t.Errorf("Expected phase failed, got %s", controller.Phase())
	}
	if controller.LastWriteSucceeded() {
		t.Error("Expected LastWriteSucceeded to remain false")
	}
	if !errors.Is(controller.Err(), netErr) {
		t.Errorf("Expected transport error to be recorded, got: %v", controller.Err())
	}
}

func TestSubmit_ResetsOneShotFlag(t *testing.T) {
	succeed := true
	gateway := &mockGateway{
		submitFunc: func(ctx context.Context, candidate model.CatCandidate) (client.SubmitResult, error) {
			if succeed {
				return client.SubmitResult{Created: &model.Cat{ID: 1, Name: "Felix", Age: 2}}, nil
			}
			return client.SubmitResult{Errors: validation.Errors{"name": {"can't be blank"}}}, nil
		},
	}
	controller := NewController(gateway)

	if err := controller.Submit(context.Background(), validCandidate()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !controller.LastWriteSucceeded() {
		t.Fatal("Expected first submission to succeed")
	}

	// Новая попытка сбрасывает флаг успеха даже при неуспехе
	succeed = false
	if err := controller.Submit(context.Background(), model.CatCandidate{}); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if controller.LastWriteSucceeded() {
		t.Error("Expected LastWriteSucceeded to be reset by new submission")
	}
}

func TestSubmit_RejectsOverlappingSubmission(t *testing.T) {
	release := make(chan struct{})
	submitting := make(chan struct{})

	gateway := &mockGateway{
		submitFunc: func(ctx context.Context, candidate model.CatCandidate) (client.SubmitResult, error) {
			close(submitting)
			<-release
			return client.SubmitResult{Created: &model.Cat{ID: 1, Name: "Felix", Age: 2}}, nil
		},
	}
	controller := NewController(gateway)

	done := make(chan error, 1)
	go func() {
		done <- controller.Submit(context.Background(), validCandidate())
	}()

	// Дожидаемся, пока первая отправка окажется в фазе Submitting
	select {
	case <-submitting:
	case <-time.After(5 * time.Second):
		t.Fatal("Expected first submission to start")
	}

	if err := controller.Submit(context.Background(), validCandidate()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("Expected ErrSubmitInFlight, got: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Expected first submission to finish cleanly, got: %v", err)
	}
	if controller.Phase() != PhaseSucceeded {
		t.Errorf("Expected phase succeeded, got %s", controller.Phase())
	}
}

func TestRefresh_ReplacesEntitiesWholesale(t *testing.T) {
	cats := []model.Cat{{ID: 1, Name: "Felix", Age: 2}}
	gateway := &mockGateway{
		fetchFunc: func(ctx context.Context) ([]model.Cat, error) {
			result := make([]model.Cat, len(cats))
			copy(result, cats)
			return result, nil
		},
	}
	controller := NewController(gateway)

	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(controller.Entities()) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(controller.Entities()))
	}

	cats = append(cats, model.Cat{ID: 2, Name: "Tom", Age: 4})
	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(controller.Entities()) != 2 {
		t.Errorf("Expected cache replaced wholesale, got %d entities", len(controller.Entities()))
	}
}

func TestRefresh_FailureLeavesCacheUntouched(t *testing.T) {
	failing := false
	gateway := &mockGateway{
		fetchFunc: func(ctx context.Context) ([]model.Cat, error) {
			if failing {
				return nil, &client.NetworkError{Op: "fetch cats", Err: errors.New("connection refused")}
			}
			return []model.Cat{{ID: 1, Name: "Felix", Age: 2}}, nil
		},
	}
	controller := NewController(gateway)

	if err := controller.Refresh(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	failing = true
	if err := controller.Refresh(context.Background()); err == nil {
		t.Fatal("Expected error on failed fetch")
	}

	if len(controller.Entities()) != 1 {
		t.Errorf("Expected cache to survive failed fetch, got %d entities", len(controller.Entities()))
	}
}
