package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warung-pos/api/internal/database"
	"github.com/warung-pos/api/internal/service"
)

// ReportStore defines the database methods needed by reporting handlers.
// Satisfied by *database.Queries.
type ReportStore interface {
	GetDayReport(ctx context.Context, arg database.DayWindowParams) (database.DayReportRow, error)
	ListOrdersBetween(ctx context.Context, arg database.DayWindowParams) ([]database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListOrderCombosByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderCombo, error)
}

// ReportHandler handles the end-of-day report and receipt views.
type ReportHandler struct {
	store ReportStore
	loc   *time.Location
	now   func() time.Time
}

// NewReportHandler creates a new ReportHandler. loc fixes which wall clock
// defines "a day" for report windows.
func NewReportHandler(store ReportStore, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{store: store, loc: loc, now: time.Now}
}

// RegisterRoutes registers reporting endpoints on the given Chi router.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders/report/", h.DayReport)
	r.Get("/orders/receipt/{id}/", h.Receipt)
}

// --- Response types ---

type dayReportResponse struct {
	Date                string         `json:"date"`
	Info                string         `json:"info,omitempty"`
	TotalOrders         int64          `json:"total_orders"`
	PaidOrders          int64          `json:"paid_orders"`
	CompletedOrders     int64          `json:"completed_orders"`
	PendingOrders       int64          `json:"pending_orders"`
	CancelledOrders     int64          `json:"cancelled_orders"`
	TotalSales          string         `json:"total_sales"`
	PaidSales           string         `json:"paid_sales"`
	DisplayOrderNumbers []string       `json:"display_order_numbers"`
	Orders              []orderPayload `json:"orders"`
}

type receiptResponse struct {
	Order     orderPayload `json:"order"`
	AutoPrint bool         `json:"auto_print"`
}

// --- Handlers ---

// DayReport aggregates one calendar day of orders. A malformed date query
// parameter degrades to today with an info message rather than failing.
func (h *ReportHandler) DayReport(w http.ResponseWriter, r *http.Request) {
	day := h.now().In(h.loc)
	info := ""

	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			info = "Invalid date format. Showing today's data instead."
		} else {
			day = parsed
		}
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, h.loc)
	window := database.DayWindowParams{Start: start, End: start.AddDate(0, 0, 1)}

	report, err := h.store.GetDayReport(r.Context(), window)
	if err != nil {
		log.Printf("ERROR: day report aggregate: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	orders, err := h.store.ListOrdersBetween(r.Context(), window)
	if err != nil {
		log.Printf("ERROR: day report orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := dayReportResponse{
		Date:                start.Format("2006-01-02"),
		Info:                info,
		TotalOrders:         report.TotalOrders,
		PaidOrders:          report.PaidOrders,
		CompletedOrders:     report.CompletedOrders,
		PendingOrders:       report.PendingOrders,
		CancelledOrders:     report.CancelledOrders,
		TotalSales:          numericToString(report.TotalSales),
		PaidSales:           numericToString(report.PaidSales),
		DisplayOrderNumbers: make([]string, 0, len(orders)),
		Orders:              make([]orderPayload, 0, len(orders)),
	}

	for _, o := range orders {
		detail, err := h.loadOrderDetail(r.Context(), o)
		if err != nil {
			log.Printf("ERROR: day report lines: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		resp.DisplayOrderNumbers = append(resp.DisplayOrderNumbers, detail.DisplayNumber())
		resp.Orders = append(resp.Orders, toOrderPayload(detail))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Receipt returns one order with its lines. auto=1 tells the client to
// trigger printing on load.
func (h *ReportHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if isNoRows(err) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order for receipt: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	detail, err := h.loadOrderDetail(r.Context(), order)
	if err != nil {
		log.Printf("ERROR: receipt lines: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, receiptResponse{
		Order:     toOrderPayload(detail),
		AutoPrint: r.URL.Query().Get("auto") == "1",
	})
}

func (h *ReportHandler) loadOrderDetail(ctx context.Context, order database.Order) (*service.OrderDetail, error) {
	items, err := h.store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	combos, err := h.store.ListOrderCombosByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &service.OrderDetail{Order: order, Items: items, Combos: combos}, nil
}
