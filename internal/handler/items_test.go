package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/warung-pos/api/internal/database"
	"github.com/warung-pos/api/internal/handler"
)

// --- Mock store ---

type mockMenuItemStore struct {
	items map[uuid.UUID]database.MenuItem // keyed by item ID
}

func newMockMenuItemStore() *mockMenuItemStore {
	return &mockMenuItemStore{items: make(map[uuid.UUID]database.MenuItem)}
}

func (m *mockMenuItemStore) ListMenuItems(_ context.Context) ([]database.MenuItem, error) {
	var result []database.MenuItem
	for _, it := range m.items {
		result = append(result, it)
	}
	return result, nil
}

func (m *mockMenuItemStore) GetMenuItem(_ context.Context, id uuid.UUID) (database.MenuItem, error) {
	it, ok := m.items[id]
	if !ok {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	return it, nil
}

func (m *mockMenuItemStore) CreateMenuItem(_ context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error) {
	it := database.MenuItem{
		ID:          uuid.New(),
		CategoryID:  arg.CategoryID,
		Name:        arg.Name,
		Price:       arg.Price,
		Description: arg.Description,
		IsAvailable: arg.IsAvailable,
		ImageURL:    arg.ImageURL,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.items[it.ID] = it
	return it, nil
}

func (m *mockMenuItemStore) UpdateMenuItem(_ context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error) {
	it, ok := m.items[arg.ID]
	if !ok {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	it.CategoryID = arg.CategoryID
	it.Name = arg.Name
	it.Price = arg.Price
	it.Description = arg.Description
	it.IsAvailable = arg.IsAvailable
	it.ImageURL = arg.ImageURL
	it.UpdatedAt = time.Now()
	m.items[it.ID] = it
	return it, nil
}

func (m *mockMenuItemStore) DeleteMenuItem(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := m.items[id]; !ok {
		return 0, nil
	}
	delete(m.items, id)
	return 1, nil
}

// --- Helpers ---

func setupMenuItemRouter(store *mockMenuItemStore) *chi.Mux {
	h := handler.NewMenuItemHandler(store)
	r := chi.NewRouter()
	r.Route("/menu-items", h.RegisterRoutes)
	return r
}

func testNumeric(t *testing.T, val string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	if err := n.Scan(val); err != nil {
		t.Fatalf("scan numeric %q: %v", val, err)
	}
	return n
}

// --- Create tests ---

func TestMenuItemCreate_Valid(t *testing.T) {
	store := newMockMenuItemStore()
	router := setupMenuItemRouter(store)
	categoryID := uuid.New()

	rr := doRequest(t, router, "POST", "/menu-items/", map[string]interface{}{
		"category_id": categoryID.String(),
		"name":        "Burger",
		"price":       "12.5",
		"description": "House burger",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["name"] != "Burger" {
		t.Errorf("name: got %v, want Burger", resp["name"])
	}
	// Money serializes with two decimal places regardless of input form.
	if resp["price"] != "12.50" {
		t.Errorf("price: got %v, want 12.50", resp["price"])
	}
	if resp["is_available"] != true {
		t.Errorf("is_available: got %v, want true (default)", resp["is_available"])
	}
	if resp["description"] != "House burger" {
		t.Errorf("description: got %v", resp["description"])
	}
}

func TestMenuItemCreate_NegativePrice(t *testing.T) {
	store := newMockMenuItemStore()
	router := setupMenuItemRouter(store)

	rr := doRequest(t, router, "POST", "/menu-items/", map[string]interface{}{
		"category_id": uuid.NewString(),
		"name":        "Bad",
		"price":       "-1.00",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestMenuItemCreate_MalformedPrice(t *testing.T) {
	store := newMockMenuItemStore()
	router := setupMenuItemRouter(store)

	rr := doRequest(t, router, "POST", "/menu-items/", map[string]interface{}{
		"category_id": uuid.NewString(),
		"name":        "Bad",
		"price":       "twelve",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestMenuItemCreate_MissingFields(t *testing.T) {
	store := newMockMenuItemStore()
	router := setupMenuItemRouter(store)

	rr := doRequest(t, router, "POST", "/menu-items/", map[string]interface{}{
		"name": "No price",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Get / List tests ---

func TestMenuItemGet_Valid(t *testing.T) {
	store := newMockMenuItemStore()
	itemID := uuid.New()
	store.items[itemID] = database.MenuItem{
		ID: itemID, CategoryID: uuid.New(), Name: "Coke",
		Price: testNumeric(t, "4.99"), IsAvailable: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	router := setupMenuItemRouter(store)
	rr := doRequest(t, router, "GET", "/menu-items/"+itemID.String(), nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["price"] != "4.99" {
		t.Errorf("price: got %v, want 4.99", resp["price"])
	}
}

func TestMenuItemGet_NotFound(t *testing.T) {
	store := newMockMenuItemStore()
	router := setupMenuItemRouter(store)

	rr := doRequest(t, router, "GET", "/menu-items/"+uuid.NewString(), nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestMenuItemList_IncludesUnavailable(t *testing.T) {
	store := newMockMenuItemStore()
	for _, available := range []bool{true, false} {
		id := uuid.New()
		store.items[id] = database.MenuItem{
			ID: id, CategoryID: uuid.New(), Name: "Item",
			Price: testNumeric(t, "5.00"), IsAvailable: available,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
	}

	router := setupMenuItemRouter(store)
	rr := doRequest(t, router, "GET", "/menu-items/", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	// Management view shows the whole menu, sold out or not.
	resp := decodeList(t, rr)
	if len(resp) != 2 {
		t.Errorf("expected 2 items, got %d", len(resp))
	}
}

// --- Update tests ---

func TestMenuItemUpdate_Valid(t *testing.T) {
	store := newMockMenuItemStore()
	itemID := uuid.New()
	categoryID := uuid.New()
	store.items[itemID] = database.MenuItem{
		ID: itemID, CategoryID: categoryID, Name: "Burger",
		Price: testNumeric(t, "12.50"), IsAvailable: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	router := setupMenuItemRouter(store)
	available := false
	rr := doRequest(t, router, "PUT", "/menu-items/"+itemID.String(), map[string]interface{}{
		"category_id":  categoryID.String(),
		"name":         "Double Burger",
		"price":        "15.00",
		"is_available": available,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["name"] != "Double Burger" {
		t.Errorf("name: got %v", resp["name"])
	}
	if resp["price"] != "15.00" {
		t.Errorf("price: got %v, want 15.00", resp["price"])
	}
	if resp["is_available"] != false {
		t.Errorf("is_available: got %v, want false", resp["is_available"])
	}
}

func TestMenuItemUpdate_NotFound(t *testing.T) {
	store := newMockMenuItemStore()
	router := setupMenuItemRouter(store)

	rr := doRequest(t, router, "PUT", "/menu-items/"+uuid.NewString(), map[string]interface{}{
		"category_id": uuid.NewString(),
		"name":        "Ghost",
		"price":       "1.00",
	})

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

// --- Delete tests ---

func TestMenuItemDelete_Valid(t *testing.T) {
	store := newMockMenuItemStore()
	itemID := uuid.New()
	store.items[itemID] = database.MenuItem{
		ID: itemID, CategoryID: uuid.New(), Name: "Delete Me",
		Price: testNumeric(t, "1.00"), IsAvailable: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	router := setupMenuItemRouter(store)
	rr := doRequest(t, router, "DELETE", "/menu-items/"+itemID.String(), nil)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusNoContent, rr.Body.String())
	}
	if _, exists := store.items[itemID]; exists {
		t.Error("expected item to be removed")
	}
}

func TestMenuItemDelete_NotFound(t *testing.T) {
	store := newMockMenuItemStore()
	router := setupMenuItemRouter(store)

	rr := doRequest(t, router, "DELETE", "/menu-items/"+uuid.NewString(), nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
