package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, order_number, status, total_amount, is_paid, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.Status, &o.TotalAmount,
		&o.IsPaid, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const createOrder = `
INSERT INTO orders (status)
VALUES ($1)
RETURNING ` + orderColumns

func (q *Queries) CreateOrder(ctx context.Context, status string) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, createOrder, status))
}

const getOrder = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const getPendingOrder = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1 AND status = 'pending'`

func (q *Queries) GetPendingOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getPendingOrder, id))
}

type DayWindowParams struct {
	Start time.Time
	End   time.Time
}

const latestPendingOrderBetween = `
SELECT ` + orderColumns + `
FROM orders
WHERE status = 'pending' AND created_at >= $1 AND created_at < $2
ORDER BY created_at DESC
LIMIT 1`

func (q *Queries) LatestPendingOrderBetween(ctx context.Context, arg DayWindowParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, latestPendingOrderBetween, arg.Start, arg.End))
}

type CountOrdersBetweenParams struct {
	Start     time.Time
	End       time.Time
	ExcludeID uuid.UUID
}

const countOrdersBetweenExcluding = `
SELECT COUNT(*)
FROM orders
WHERE created_at >= $1 AND created_at < $2 AND id <> $3`

func (q *Queries) CountOrdersBetweenExcluding(ctx context.Context, arg CountOrdersBetweenParams) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countOrdersBetweenExcluding, arg.Start, arg.End, arg.ExcludeID).Scan(&count)
	return count, err
}

type SetOrderNumberParams struct {
	ID          uuid.UUID
	OrderNumber string
}

// Assigned exactly once: the guard keeps a concurrent resolver from renumbering.
const setOrderNumber = `
UPDATE orders
SET order_number = $2, updated_at = now()
WHERE id = $1 AND order_number = ''
RETURNING ` + orderColumns

func (q *Queries) SetOrderNumber(ctx context.Context, arg SetOrderNumberParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, setOrderNumber, arg.ID, arg.OrderNumber))
}

// RecomputeOrderTotal re-derives total_amount from the surviving lines and
// persists it, returning the updated order. Runs as a single statement so the
// stored total can never drift from the line snapshots it is computed over.
const recomputeOrderTotal = `
UPDATE orders
SET total_amount =
        COALESCE((SELECT SUM(quantity * price) FROM order_items WHERE order_id = $1), 0) +
        COALESCE((SELECT SUM(quantity * price) FROM order_combos WHERE order_id = $1), 0),
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) RecomputeOrderTotal(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, recomputeOrderTotal, id))
}

const completeOrder = `
UPDATE orders
SET status = 'completed', is_paid = TRUE, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) CompleteOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, completeOrder, id))
}

const listOrdersBetween = `
SELECT ` + orderColumns + `
FROM orders
WHERE created_at >= $1 AND created_at < $2
ORDER BY created_at`

func (q *Queries) ListOrdersBetween(ctx context.Context, arg DayWindowParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersBetween, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type DayReportRow struct {
	TotalOrders     int64
	PaidOrders      int64
	CompletedOrders int64
	PendingOrders   int64
	CancelledOrders int64
	TotalSales      pgtype.Numeric
	PaidSales       pgtype.Numeric
}

const getDayReport = `
SELECT
    COUNT(*),
    COUNT(*) FILTER (WHERE is_paid),
    COUNT(*) FILTER (WHERE status = 'completed'),
    COUNT(*) FILTER (WHERE status NOT IN ('completed', 'cancelled')),
    COUNT(*) FILTER (WHERE status = 'cancelled'),
    COALESCE(SUM(total_amount), 0),
    COALESCE(SUM(total_amount) FILTER (WHERE is_paid), 0)
FROM orders
WHERE created_at >= $1 AND created_at < $2`

func (q *Queries) GetDayReport(ctx context.Context, arg DayWindowParams) (DayReportRow, error) {
	var r DayReportRow
	err := q.db.QueryRow(ctx, getDayReport, arg.Start, arg.End).Scan(
		&r.TotalOrders, &r.PaidOrders, &r.CompletedOrders,
		&r.PendingOrders, &r.CancelledOrders, &r.TotalSales, &r.PaidSales)
	return r, err
}

// --- Order items ---

const orderItemColumns = `id, order_id, item_id, item_name, quantity, price, created_at`

func scanOrderItem(row pgx.Row) (OrderItem, error) {
	var oi OrderItem
	err := row.Scan(&oi.ID, &oi.OrderID, &oi.ItemID, &oi.ItemName, &oi.Quantity, &oi.Price, &oi.CreatedAt)
	return oi, err
}

const listOrderItemsByOrder = `
SELECT ` + orderItemColumns + `
FROM order_items
WHERE order_id = $1
ORDER BY created_at DESC`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		oi, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, oi)
	}
	return items, rows.Err()
}

type OrderLineKeyParams struct {
	OrderID uuid.UUID
	EntryID uuid.UUID
}

const getOrderItemByOrderAndItem = `
SELECT ` + orderItemColumns + `
FROM order_items
WHERE order_id = $1 AND item_id = $2`

func (q *Queries) GetOrderItemByOrderAndItem(ctx context.Context, arg OrderLineKeyParams) (OrderItem, error) {
	return scanOrderItem(q.db.QueryRow(ctx, getOrderItemByOrderAndItem, arg.OrderID, arg.EntryID))
}

type InsertOrderItemParams struct {
	OrderID  uuid.UUID
	ItemID   uuid.UUID
	ItemName string
	Quantity int32
	Price    pgtype.Numeric
}

const insertOrderItem = `
INSERT INTO order_items (order_id, item_id, item_name, quantity, price)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + orderItemColumns

func (q *Queries) InsertOrderItem(ctx context.Context, arg InsertOrderItemParams) (OrderItem, error) {
	return scanOrderItem(q.db.QueryRow(ctx, insertOrderItem,
		arg.OrderID, arg.ItemID, arg.ItemName, arg.Quantity, arg.Price))
}

type AddLineQuantityParams struct {
	ID       uuid.UUID
	Quantity int32
}

const addOrderItemQuantity = `
UPDATE order_items
SET quantity = quantity + $2
WHERE id = $1
RETURNING ` + orderItemColumns

func (q *Queries) AddOrderItemQuantity(ctx context.Context, arg AddLineQuantityParams) (OrderItem, error) {
	return scanOrderItem(q.db.QueryRow(ctx, addOrderItemQuantity, arg.ID, arg.Quantity))
}

type DeleteLineParams struct {
	ID      uuid.UUID
	OrderID uuid.UUID
}

const deleteOrderItem = `DELETE FROM order_items WHERE id = $1 AND order_id = $2`

func (q *Queries) DeleteOrderItem(ctx context.Context, arg DeleteLineParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrderItem, arg.ID, arg.OrderID)
	return tag.RowsAffected(), err
}

const deleteOrderItemsByOrder = `DELETE FROM order_items WHERE order_id = $1`

func (q *Queries) DeleteOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrderItemsByOrder, orderID)
	return tag.RowsAffected(), err
}

// --- Order combos ---

const orderComboColumns = `id, order_id, combo_id, combo_name, quantity, price, created_at`

func scanOrderCombo(row pgx.Row) (OrderCombo, error) {
	var oc OrderCombo
	err := row.Scan(&oc.ID, &oc.OrderID, &oc.ComboID, &oc.ComboName, &oc.Quantity, &oc.Price, &oc.CreatedAt)
	return oc, err
}

const listOrderCombosByOrder = `
SELECT ` + orderComboColumns + `
FROM order_combos
WHERE order_id = $1
ORDER BY created_at DESC`

func (q *Queries) ListOrderCombosByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderCombo, error) {
	rows, err := q.db.Query(ctx, listOrderCombosByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var combos []OrderCombo
	for rows.Next() {
		oc, err := scanOrderCombo(rows)
		if err != nil {
			return nil, err
		}
		combos = append(combos, oc)
	}
	return combos, rows.Err()
}

const getOrderComboByOrderAndCombo = `
SELECT ` + orderComboColumns + `
FROM order_combos
WHERE order_id = $1 AND combo_id = $2`

func (q *Queries) GetOrderComboByOrderAndCombo(ctx context.Context, arg OrderLineKeyParams) (OrderCombo, error) {
	return scanOrderCombo(q.db.QueryRow(ctx, getOrderComboByOrderAndCombo, arg.OrderID, arg.EntryID))
}

type InsertOrderComboParams struct {
	OrderID   uuid.UUID
	ComboID   uuid.UUID
	ComboName string
	Quantity  int32
	Price     pgtype.Numeric
}

const insertOrderCombo = `
INSERT INTO order_combos (order_id, combo_id, combo_name, quantity, price)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + orderComboColumns

func (q *Queries) InsertOrderCombo(ctx context.Context, arg InsertOrderComboParams) (OrderCombo, error) {
	return scanOrderCombo(q.db.QueryRow(ctx, insertOrderCombo,
		arg.OrderID, arg.ComboID, arg.ComboName, arg.Quantity, arg.Price))
}

const addOrderComboQuantity = `
UPDATE order_combos
SET quantity = quantity + $2
WHERE id = $1
RETURNING ` + orderComboColumns

func (q *Queries) AddOrderComboQuantity(ctx context.Context, arg AddLineQuantityParams) (OrderCombo, error) {
	return scanOrderCombo(q.db.QueryRow(ctx, addOrderComboQuantity, arg.ID, arg.Quantity))
}

const deleteOrderCombo = `DELETE FROM order_combos WHERE id = $1 AND order_id = $2`

func (q *Queries) DeleteOrderCombo(ctx context.Context, arg DeleteLineParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrderCombo, arg.ID, arg.OrderID)
	return tag.RowsAffected(), err
}

const deleteOrderCombosByOrder = `DELETE FROM order_combos WHERE order_id = $1`

func (q *Queries) DeleteOrderCombosByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteOrderCombosByOrder, orderID)
	return tag.RowsAffected(), err
}
