package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warung-pos/api/internal/database"
	"github.com/warung-pos/api/internal/enum"
	"github.com/warung-pos/api/internal/service"
	"github.com/warung-pos/api/internal/session"
	"github.com/warung-pos/api/internal/ws"
)

// OrderTaker is the slice of the order service the POS surface uses.
type OrderTaker interface {
	ActiveOrder(ctx context.Context, token uuid.UUID) (*service.OrderDetail, error)
	AddEntry(ctx context.Context, token uuid.UUID, req service.AddEntryRequest) (*service.OrderDetail, error)
	RemoveEntry(ctx context.Context, token, lineID uuid.UUID, kind string) (database.Order, error)
	Checkout(ctx context.Context, token uuid.UUID) (*service.CheckoutResult, error)
	Clear(ctx context.Context, token uuid.UUID) (database.Order, error)
}

// CatalogStore defines the read-only catalog methods the dashboard needs.
// Satisfied by *database.Queries.
type CatalogStore interface {
	ListCategories(ctx context.Context) ([]database.Category, error)
	ListAvailableMenuItems(ctx context.Context) ([]database.MenuItem, error)
	ListCombos(ctx context.Context) ([]database.Combo, error)
}

// Broadcaster pushes order events to connected staff screens.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(event ws.Event)
}

// PosHandler handles the order-taking surface: the dashboard and the four
// order mutation endpoints. Mutations always answer HTTP 200 with a
// {success, ...} envelope; callers branch on the success field.
type PosHandler struct {
	orders  OrderTaker
	catalog CatalogStore
	hub     Broadcaster
}

// NewPosHandler creates a new PosHandler.
func NewPosHandler(orders OrderTaker, catalog CatalogStore, hub Broadcaster) *PosHandler {
	return &PosHandler{orders: orders, catalog: catalog, hub: hub}
}

// RegisterRoutes registers the POS endpoints on the given Chi router.
func (h *PosHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Dashboard)
	r.Post("/api/add-to-order/", h.AddToOrder)
	r.Post("/api/remove-order-item/", h.RemoveOrderItem)
	r.Post("/api/checkout/", h.Checkout)
	r.Post("/api/clear-order/", h.ClearOrder)
}

// --- Request / Response types ---

type addToOrderRequest struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
	Quantity int32  `json:"quantity"`
}

type removeOrderItemRequest struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
}

type orderLinePayload struct {
	ID       uuid.UUID `json:"id"`
	EntryID  uuid.UUID `json:"entry_id"`
	Name     string    `json:"name"`
	Quantity int32     `json:"quantity"`
	Price    string    `json:"price"`
	Subtotal string    `json:"subtotal"`
}

type orderPayload struct {
	ID                 uuid.UUID          `json:"id"`
	OrderNumber        string             `json:"order_number"`
	DisplayOrderNumber string             `json:"display_order_number"`
	Status             string             `json:"status"`
	TotalAmount        string             `json:"total_amount"`
	Items              []orderLinePayload `json:"items"`
	Combos             []orderLinePayload `json:"combos"`
}

type dashboardCategory struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	DisplayOrder int32              `json:"display_order"`
	Items        []menuItemResponse `json:"items"`
}

type dashboardResponse struct {
	Categories []dashboardCategory `json:"categories"`
	Combos     []comboResponse     `json:"combos"`
	Order      orderPayload        `json:"order"`
}

func lineSubtotal(price database.OrderItem) string {
	d := service.NumericToDecimal(price.Price)
	return d.Mul(decimal.NewFromInt32(price.Quantity)).StringFixed(2)
}

func toOrderPayload(d *service.OrderDetail) orderPayload {
	p := orderPayload{
		ID:                 d.Order.ID,
		OrderNumber:        d.Order.OrderNumber,
		DisplayOrderNumber: d.DisplayNumber(),
		Status:             d.Order.Status,
		TotalAmount:        numericToString(d.Order.TotalAmount),
		Items:              make([]orderLinePayload, len(d.Items)),
		Combos:             make([]orderLinePayload, len(d.Combos)),
	}
	for i, li := range d.Items {
		p.Items[i] = orderLinePayload{
			ID:       li.ID,
			EntryID:  li.ItemID,
			Name:     li.ItemName,
			Quantity: li.Quantity,
			Price:    numericToString(li.Price),
			Subtotal: lineSubtotal(li),
		}
	}
	for i, lc := range d.Combos {
		sub := service.NumericToDecimal(lc.Price).Mul(decimal.NewFromInt32(lc.Quantity))
		p.Combos[i] = orderLinePayload{
			ID:       lc.ID,
			EntryID:  lc.ComboID,
			Name:     lc.ComboName,
			Quantity: lc.Quantity,
			Price:    numericToString(lc.Price),
			Subtotal: sub.StringFixed(2),
		}
	}
	return p
}

// failPos writes the uniform {success:false, error} envelope. Mutation
// endpoints never surface transport-level failures; callers branch on the
// success field.
func failPos(w http.ResponseWriter, err error) {
	msg := "something went wrong"
	if service.IsClientError(err) {
		msg = err.Error()
	} else {
		log.Printf("ERROR: pos operation: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": msg})
}

func (h *PosHandler) notify(eventType string, payload any) {
	if h.hub != nil {
		h.hub.Broadcast(ws.NewEvent(eventType, payload))
	}
}

// --- Handlers ---

// Dashboard returns the full order-taking screen state: the catalog grouped
// by category, standalone combos, and the caller's active order.
func (h *PosHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	token := session.Token(w, r)

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		log.Printf("ERROR: list categories: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	items, err := h.catalog.ListAvailableMenuItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	combos, err := h.catalog.ListCombos(r.Context())
	if err != nil {
		log.Printf("ERROR: list combos: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	detail, err := h.orders.ActiveOrder(r.Context(), token)
	if err != nil {
		log.Printf("ERROR: resolve active order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	byCategory := make(map[uuid.UUID][]menuItemResponse)
	for _, m := range items {
		byCategory[m.CategoryID] = append(byCategory[m.CategoryID], toMenuItemResponse(m))
	}

	resp := dashboardResponse{
		Categories: make([]dashboardCategory, len(categories)),
		Combos:     make([]comboResponse, 0, len(combos)),
		Order:      toOrderPayload(detail),
	}
	for i, c := range categories {
		grouped := byCategory[c.ID]
		if grouped == nil {
			grouped = []menuItemResponse{}
		}
		resp.Categories[i] = dashboardCategory{
			ID:           c.ID,
			Name:         c.Name,
			DisplayOrder: c.DisplayOrder,
			Items:        grouped,
		}
	}
	for _, c := range combos {
		if c.IsAvailable {
			resp.Combos = append(resp.Combos, toComboResponse(c))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddToOrder adds a menu item or combo to the caller's active order.
func (h *PosHandler) AddToOrder(w http.ResponseWriter, r *http.Request) {
	token := session.Token(w, r)

	var req addToOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "invalid request body"})
		return
	}

	entryID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "invalid item_id"})
		return
	}

	kind := req.ItemType
	if kind == "" {
		kind = enum.EntryKindItem
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	detail, err := h.orders.AddEntry(r.Context(), token, service.AddEntryRequest{
		EntryID:  entryID,
		Kind:     kind,
		Quantity: quantity,
	})
	if err != nil {
		failPos(w, err)
		return
	}

	payload := toOrderPayload(detail)
	h.notify("order.updated", payload)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Item added to order successfully",
		"order":   payload,
	})
}

// RemoveOrderItem deletes one line from the caller's active order.
func (h *PosHandler) RemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	token := session.Token(w, r)

	var req removeOrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "invalid request body"})
		return
	}

	lineID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "invalid item_id"})
		return
	}

	kind := req.ItemType
	if kind == "" {
		kind = enum.EntryKindItem
	}

	order, err := h.orders.RemoveEntry(r.Context(), token, lineID, kind)
	if err != nil {
		failPos(w, err)
		return
	}

	total := numericToString(order.TotalAmount)
	h.notify("order.updated", map[string]any{
		"order_number": order.OrderNumber,
		"total_amount": total,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Item removed successfully",
		"total_amount": total,
	})
}

// Checkout completes the caller's active order. An empty order yields
// success:false, not a new order state.
func (h *PosHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	token := session.Token(w, r)

	result, err := h.orders.Checkout(r.Context(), token)
	if err != nil {
		failPos(w, err)
		return
	}

	display := result.DisplayNumber()
	total := numericToString(result.Order.TotalAmount)
	receiptURL := fmt.Sprintf("/orders/receipt/%s/?auto=1", result.Order.ID)

	h.notify("order.completed", map[string]any{
		"order_number":         result.Order.OrderNumber,
		"display_order_number": display,
		"total_amount":         total,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"message":              fmt.Sprintf("Order %s completed successfully!", display),
		"order_number":         result.Order.OrderNumber,
		"display_order_number": display,
		"total_amount":         total,
		"receipt_url":          receiptURL,
	})
}

// ClearOrder removes every line from the caller's active order.
func (h *PosHandler) ClearOrder(w http.ResponseWriter, r *http.Request) {
	token := session.Token(w, r)

	order, err := h.orders.Clear(r.Context(), token)
	if err != nil {
		failPos(w, err)
		return
	}

	h.notify("order.updated", map[string]any{
		"order_number": order.OrderNumber,
		"total_amount": numericToString(order.TotalAmount),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order cleared successfully",
	})
}
