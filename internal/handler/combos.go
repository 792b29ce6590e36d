package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warung-pos/api/internal/database"
)

// ComboStore defines the database methods needed by combo handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ComboStore interface {
	ListCombos(ctx context.Context) ([]database.Combo, error)
	GetCombo(ctx context.Context, id uuid.UUID) (database.Combo, error)
	CreateCombo(ctx context.Context, arg database.CreateComboParams) (database.Combo, error)
	UpdateCombo(ctx context.Context, arg database.UpdateComboParams) (database.Combo, error)
	DeleteCombo(ctx context.Context, id uuid.UUID) (int64, error)
}

// ComboHandler handles combo CRUD endpoints.
type ComboHandler struct {
	store ComboStore
}

// NewComboHandler creates a new ComboHandler.
func NewComboHandler(store ComboStore) *ComboHandler {
	return &ComboHandler{store: store}
}

// RegisterRoutes registers combo CRUD endpoints on the given Chi router.
func (h *ComboHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type comboRequest struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	IsAvailable *bool  `json:"is_available"`
}

type comboResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toComboResponse(c database.Combo) comboResponse {
	return comboResponse{
		ID:          c.ID,
		Name:        c.Name,
		Price:       numericToString(c.Price),
		IsAvailable: c.IsAvailable,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// --- Handlers ---

// List returns all combos, available or not.
func (h *ComboHandler) List(w http.ResponseWriter, r *http.Request) {
	combos, err := h.store.ListCombos(r.Context())
	if err != nil {
		log.Printf("ERROR: list combos: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]comboResponse, len(combos))
	for i, c := range combos {
		resp[i] = toComboResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single combo by ID.
func (h *ComboHandler) Get(w http.ResponseWriter, r *http.Request) {
	comboID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid combo ID"})
		return
	}

	combo, err := h.store.GetCombo(r.Context(), comboID)
	if err != nil {
		if isNoRows(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "combo not found"})
			return
		}
		log.Printf("ERROR: get combo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toComboResponse(combo))
}

// Create adds a new combo.
func (h *ComboHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req comboRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and price are required"})
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	combo, err := h.store.CreateCombo(r.Context(), database.CreateComboParams{
		Name:        req.Name,
		Price:       price,
		IsAvailable: available,
	})
	if err != nil {
		log.Printf("ERROR: create combo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toComboResponse(combo))
}

// Update modifies an existing combo.
func (h *ComboHandler) Update(w http.ResponseWriter, r *http.Request) {
	comboID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid combo ID"})
		return
	}

	var req comboRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" || req.Price == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and price are required"})
		return
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	combo, err := h.store.UpdateCombo(r.Context(), database.UpdateComboParams{
		ID:          comboID,
		Name:        req.Name,
		Price:       price,
		IsAvailable: available,
	})
	if err != nil {
		if isNoRows(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "combo not found"})
			return
		}
		log.Printf("ERROR: update combo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toComboResponse(combo))
}

// Delete removes a combo and, via cascade, its order lines.
func (h *ComboHandler) Delete(w http.ResponseWriter, r *http.Request) {
	comboID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid combo ID"})
		return
	}

	deleted, err := h.store.DeleteCombo(r.Context(), comboID)
	if err != nil {
		log.Printf("ERROR: delete combo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if deleted == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "combo not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
