package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/warung-pos/api/internal/database"
	"github.com/warung-pos/api/internal/handler"
)

// --- Mocks ---

type mockReportStore struct {
	report      database.DayReportRow
	orders      []database.Order
	orderItems  map[uuid.UUID][]database.OrderItem
	orderCombos map[uuid.UUID][]database.OrderCombo

	gotWindow database.DayWindowParams
}

func (m *mockReportStore) GetDayReport(_ context.Context, arg database.DayWindowParams) (database.DayReportRow, error) {
	m.gotWindow = arg
	return m.report, nil
}

func (m *mockReportStore) ListOrdersBetween(_ context.Context, arg database.DayWindowParams) ([]database.Order, error) {
	out := make([]database.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if !o.CreatedAt.Before(arg.Start) && o.CreatedAt.Before(arg.End) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockReportStore) GetOrder(_ context.Context, id uuid.UUID) (database.Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return database.Order{}, pgx.ErrNoRows
}

func (m *mockReportStore) ListOrderItemsByOrder(_ context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	return m.orderItems[orderID], nil
}

func (m *mockReportStore) ListOrderCombosByOrder(_ context.Context, orderID uuid.UUID) ([]database.OrderCombo, error) {
	return m.orderCombos[orderID], nil
}

// --- Helpers ---

func setupReportRouter(store *mockReportStore) *chi.Mux {
	h := handler.NewReportHandler(store, time.UTC)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// --- Day report tests ---

func TestDayReport_ExplicitDate(t *testing.T) {
	day := time.Date(2023, 12, 27, 0, 0, 0, 0, time.UTC)
	first := database.Order{
		ID:          uuid.New(),
		OrderNumber: "20231227-0001",
		Status:      "completed",
		IsPaid:      true,
		TotalAmount: testNumeric(t, "25.00"),
		CreatedAt:   day.Add(9 * time.Hour),
	}
	second := database.Order{
		ID:          uuid.New(),
		OrderNumber: "20231227-0002",
		Status:      "pending",
		TotalAmount: testNumeric(t, "4.99"),
		CreatedAt:   day.Add(10 * time.Hour),
	}
	store := &mockReportStore{
		report: database.DayReportRow{
			TotalOrders:     2,
			PaidOrders:      1,
			CompletedOrders: 1,
			PendingOrders:   1,
			TotalSales:      testNumeric(t, "29.99"),
			PaidSales:       testNumeric(t, "25.00"),
		},
		orders: []database.Order{first, second},
		orderItems: map[uuid.UUID][]database.OrderItem{
			first.ID: {{
				ID:       uuid.New(),
				OrderID:  first.ID,
				ItemID:   uuid.New(),
				ItemName: "Burger",
				Quantity: 2,
				Price:    testNumeric(t, "12.50"),
			}},
		},
		orderCombos: map[uuid.UUID][]database.OrderCombo{},
	}
	router := setupReportRouter(store)

	rr := doRequest(t, router, "GET", "/orders/report/?date=2023-12-27", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}

	if !store.gotWindow.Start.Equal(day) || !store.gotWindow.End.Equal(day.AddDate(0, 0, 1)) {
		t.Errorf("window: got [%v, %v)", store.gotWindow.Start, store.gotWindow.End)
	}

	resp := decodeObject(t, rr)
	if resp["date"] != "2023-12-27" {
		t.Errorf("date: got %v", resp["date"])
	}
	if _, present := resp["info"]; present {
		t.Errorf("info should be omitted for a valid date, got %v", resp["info"])
	}
	if resp["total_orders"] != float64(2) {
		t.Errorf("total_orders: got %v", resp["total_orders"])
	}
	if resp["total_sales"] != "29.99" {
		t.Errorf("total_sales: got %v", resp["total_sales"])
	}
	if resp["paid_sales"] != "25.00" {
		t.Errorf("paid_sales: got %v", resp["paid_sales"])
	}

	numbers, _ := resp["display_order_numbers"].([]interface{})
	if len(numbers) != 2 || numbers[0] != "1" || numbers[1] != "2" {
		t.Errorf("display_order_numbers: got %v", numbers)
	}

	ordersList, _ := resp["orders"].([]interface{})
	if len(ordersList) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(ordersList))
	}
	firstPayload, _ := ordersList[0].(map[string]interface{})
	items, _ := firstPayload["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 line on first order, got %d", len(items))
	}
	line, _ := items[0].(map[string]interface{})
	if line["subtotal"] != "25.00" {
		t.Errorf("subtotal: got %v, want 25.00", line["subtotal"])
	}
}

func TestDayReport_InvalidDateFallsBackToToday(t *testing.T) {
	store := &mockReportStore{
		report: database.DayReportRow{
			TotalSales: testNumeric(t, "0.00"),
			PaidSales:  testNumeric(t, "0.00"),
		},
	}
	router := setupReportRouter(store)

	rr := doRequest(t, router, "GET", "/orders/report/?date=27-12-2023", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["info"] != "Invalid date format. Showing today's data instead." {
		t.Errorf("info: got %v", resp["info"])
	}
	today := time.Now().In(time.UTC).Format("2006-01-02")
	if resp["date"] != today {
		t.Errorf("date: got %v, want %v", resp["date"], today)
	}
}

func TestDayReport_EmptyDay(t *testing.T) {
	store := &mockReportStore{
		report: database.DayReportRow{
			TotalSales: testNumeric(t, "0.00"),
			PaidSales:  testNumeric(t, "0.00"),
		},
	}
	router := setupReportRouter(store)

	rr := doRequest(t, router, "GET", "/orders/report/?date=2023-01-01", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["total_orders"] != float64(0) {
		t.Errorf("total_orders: got %v", resp["total_orders"])
	}
	if resp["total_sales"] != "0.00" {
		t.Errorf("total_sales: got %v, want 0.00", resp["total_sales"])
	}
	numbers, ok := resp["display_order_numbers"].([]interface{})
	if !ok || len(numbers) != 0 {
		t.Errorf("display_order_numbers: got %v, want empty list", resp["display_order_numbers"])
	}
}

// --- Receipt tests ---

func TestReceipt_Found(t *testing.T) {
	order := database.Order{
		ID:          uuid.New(),
		OrderNumber: "20231227-0042",
		Status:      "completed",
		IsPaid:      true,
		TotalAmount: testNumeric(t, "15.99"),
		CreatedAt:   time.Now(),
	}
	store := &mockReportStore{
		orders: []database.Order{order},
		orderCombos: map[uuid.UUID][]database.OrderCombo{
			order.ID: {{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ComboID:   uuid.New(),
				ComboName: "Burger + Coke Combo",
				Quantity:  1,
				Price:     testNumeric(t, "15.99"),
			}},
		},
	}
	router := setupReportRouter(store)

	rr := doRequest(t, router, "GET", "/orders/receipt/"+order.ID.String()+"/?auto=1", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["auto_print"] != true {
		t.Errorf("auto_print: got %v, want true", resp["auto_print"])
	}
	payload, _ := resp["order"].(map[string]interface{})
	if payload["display_order_number"] != "42" {
		t.Errorf("display_order_number: got %v, want 42", payload["display_order_number"])
	}
	combos, _ := payload["combos"].([]interface{})
	if len(combos) != 1 {
		t.Fatalf("expected 1 combo line, got %d", len(combos))
	}
	line, _ := combos[0].(map[string]interface{})
	if line["subtotal"] != "15.99" {
		t.Errorf("subtotal: got %v, want 15.99", line["subtotal"])
	}
}

func TestReceipt_NoAutoParam(t *testing.T) {
	order := database.Order{
		ID:          uuid.New(),
		OrderNumber: "20231227-0001",
		Status:      "completed",
		TotalAmount: testNumeric(t, "9.00"),
	}
	store := &mockReportStore{orders: []database.Order{order}}
	router := setupReportRouter(store)

	rr := doRequest(t, router, "GET", "/orders/receipt/"+order.ID.String()+"/", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d; body: %s", rr.Code, rr.Body.String())
	}
	resp := decodeObject(t, rr)
	if resp["auto_print"] != false {
		t.Errorf("auto_print: got %v, want false", resp["auto_print"])
	}
}

func TestReceipt_NotFound(t *testing.T) {
	router := setupReportRouter(&mockReportStore{})

	rr := doRequest(t, router, "GET", "/orders/receipt/"+uuid.NewString()+"/", nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestReceipt_InvalidID(t *testing.T) {
	router := setupReportRouter(&mockReportStore{})

	rr := doRequest(t, router, "GET", "/orders/receipt/not-a-uuid/", nil)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}
