package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"cats-service/internal/model"
	"cats-service/internal/repository"
	svc "cats-service/internal/service"
	"cats-service/internal/service/cats"
)

// Handler реализует HTTP API для работы с котами
type Handler struct {
	catService svc.CatService
	events     *cats.EventService
}

// NewHandler создает новый экземпляр HTTP хэндлера.
// events может быть nil - тогда эндпоинт событий не регистрируется.
func NewHandler(catService svc.CatService, events *cats.EventService) *Handler {
	return &Handler{
		catService: catService,
		events:     events,
	}
}

// Register регистрирует маршруты явной таблицей (метод, путь) → обработчик.
// Никакой диспетчеризации по соглашению: каждая операция привязана к своему
// шаблону прямо здесь.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /cats", h.ListCats)
	mux.HandleFunc("POST /cats", h.CreateCat)
	mux.HandleFunc("GET /cats/{id}", h.GetCat)
	if h.events != nil {
		mux.HandleFunc("GET /cats/events", h.StreamEvents)
	}
}

// createCatRequest — обертка тела запроса на создание: { "cat": { ... } }
type createCatRequest struct {
	Cat model.CatCandidate `json:"cat"`
}

// ListCats возвращает список всех котов в порядке создания
func (h *Handler) ListCats(w http.ResponseWriter, r *http.Request) {
	catList, err := h.catService.List(r.Context())
	if err != nil {
		log.Printf("[HTTP] Failed to list cats: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Пустое хранилище - пустой массив, а не null
	if catList == nil {
		catList = []model.Cat{}
	}

	writeJSON(w, http.StatusOK, catList)
}

// CreateCat валидирует кандидата и создает кота.
// При нарушении правил возвращается 422 с набором ошибок по полям,
// кот при этом не сохраняется.
func (h *Handler) CreateCat(w http.ResponseWriter, r *http.Request) {
	var req createCatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cat, validationErrs, err := h.catService.Create(r.Context(), req.Cat)
	if err != nil {
		log.Printf("[HTTP] Failed to create cat: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !validationErrs.IsEmpty() {
		// Тело ошибки - сам объект поле → сообщения, без обертки
		writeJSON(w, http.StatusUnprocessableEntity, validationErrs)
		return
	}

	writeJSON(w, http.StatusCreated, cat)
}

// GetCat возвращает кота по его ID
func (h *Handler) GetCat(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "cat not found")
		return
	}

	cat, err := h.catService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCatNotFound) {
			writeError(w, http.StatusNotFound, "cat not found")
			return
		}
		log.Printf("[HTTP] Failed to get cat %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, cat)
}

// StreamEvents отдает поток созданных котов как Server-Sent Events.
// Соединение держится до отмены контекста запроса.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch := h.events.Subscribe()
	defer h.events.Unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case cat, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(cat)
			if err != nil {
				log.Printf("[HTTP] Failed to encode event: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// writeJSON сериализует значение в тело ответа с указанным статусом
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// writeError отдает ошибку в виде {"error": "..."}
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
