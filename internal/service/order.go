package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/warung-pos/api/internal/database"
	"github.com/warung-pos/api/internal/enum"
	"github.com/warung-pos/api/internal/ordernum"
)

// Errors returned by the order service.
var (
	ErrItemNotFound     = errors.New("menu item not found or unavailable")
	ErrComboNotFound    = errors.New("combo not found or unavailable")
	ErrLineNotFound     = errors.New("order line not found")
	ErrEmptyOrder       = errors.New("order is empty")
	ErrInvalidQuantity  = errors.New("quantity must be >= 1")
	ErrInvalidEntryKind = errors.New("item_type must be item or combo")
)

// IsClientError reports whether err should be surfaced to the caller as-is
// rather than hidden behind a generic failure message.
func IsClientError(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrComboNotFound) ||
		errors.Is(err, ErrLineNotFound) ||
		errors.Is(err, ErrEmptyOrder) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidEntryKind)
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store defines the DB methods the order service needs.
// Satisfied by *database.Queries (and its WithTx variant).
type Store interface {
	GetPosSession(ctx context.Context, token uuid.UUID) (database.PosSession, error)
	UpsertPosSession(ctx context.Context, arg database.UpsertPosSessionParams) error
	ClearPosSessionOrder(ctx context.Context, token uuid.UUID) error

	CreateOrder(ctx context.Context, status string) (database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetPendingOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	LatestPendingOrderBetween(ctx context.Context, arg database.DayWindowParams) (database.Order, error)
	CountOrdersBetweenExcluding(ctx context.Context, arg database.CountOrdersBetweenParams) (int64, error)
	SetOrderNumber(ctx context.Context, arg database.SetOrderNumberParams) (database.Order, error)
	RecomputeOrderTotal(ctx context.Context, id uuid.UUID) (database.Order, error)
	CompleteOrder(ctx context.Context, id uuid.UUID) (database.Order, error)

	GetAvailableMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	GetAvailableCombo(ctx context.Context, id uuid.UUID) (database.Combo, error)

	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	GetOrderItemByOrderAndItem(ctx context.Context, arg database.OrderLineKeyParams) (database.OrderItem, error)
	InsertOrderItem(ctx context.Context, arg database.InsertOrderItemParams) (database.OrderItem, error)
	AddOrderItemQuantity(ctx context.Context, arg database.AddLineQuantityParams) (database.OrderItem, error)
	DeleteOrderItem(ctx context.Context, arg database.DeleteLineParams) (int64, error)
	DeleteOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)

	ListOrderCombosByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderCombo, error)
	GetOrderComboByOrderAndCombo(ctx context.Context, arg database.OrderLineKeyParams) (database.OrderCombo, error)
	InsertOrderCombo(ctx context.Context, arg database.InsertOrderComboParams) (database.OrderCombo, error)
	AddOrderComboQuantity(ctx context.Context, arg database.AddLineQuantityParams) (database.OrderCombo, error)
	DeleteOrderCombo(ctx context.Context, arg database.DeleteLineParams) (int64, error)
	DeleteOrderCombosByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}

// NewStore creates a Store from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewStore func(db database.DBTX) Store

// OrderService owns the active-order lifecycle: resolution, line mutations,
// total recomputation, checkout. Every public method runs in one
// transaction so a concurrent mutation cannot observe a half-applied order.
type OrderService struct {
	pool     TxBeginner
	newStore NewStore
	policy   string
	loc      *time.Location
	now      func() time.Time
}

// NewOrderService creates a new OrderService. policy selects how the active
// order is resolved (session-scoped by default; "daily" shares one pending
// order across all staff and is kept only for installations that relied on
// the old behavior; two terminals will stomp on each other's order).
func NewOrderService(pool TxBeginner, newStore NewStore, policy string, loc *time.Location) *OrderService {
	if loc == nil {
		loc = time.Local
	}
	if policy != enum.ActiveOrderPolicyDaily {
		policy = enum.ActiveOrderPolicySession
	}
	return &OrderService{
		pool:     pool,
		newStore: newStore,
		policy:   policy,
		loc:      loc,
		now:      time.Now,
	}
}

// AddEntryRequest is the validated input for adding a catalog entry to the
// active order.
type AddEntryRequest struct {
	EntryID  uuid.UUID
	Kind     string // enum.EntryKindItem or enum.EntryKindCombo
	Quantity int32
}

// OrderDetail is an order with both kinds of lines loaded.
type OrderDetail struct {
	Order  database.Order
	Items  []database.OrderItem
	Combos []database.OrderCombo
}

// DisplayNumber returns the short receipt form of the order's number.
func (d *OrderDetail) DisplayNumber() string {
	return ordernum.Display(d.Order.OrderNumber)
}

// ActiveOrder resolves (or creates) the caller's active order and returns it
// with its lines.
func (s *OrderService) ActiveOrder(ctx context.Context, token uuid.UUID) (*OrderDetail, error) {
	var detail *OrderDetail
	err := s.inTx(ctx, func(store Store) error {
		order, err := s.resolveActive(ctx, store, token)
		if err != nil {
			return err
		}
		detail, err = s.loadDetail(ctx, store, order)
		return err
	})
	return detail, err
}

// AddEntry validates the catalog entry, merges it into the active order
// (accumulating quantity on an existing line rather than duplicating it),
// recomputes the total and returns the updated order with all lines. The
// line's price is snapshotted at first add and never refreshed.
func (s *OrderService) AddEntry(ctx context.Context, token uuid.UUID, req AddEntryRequest) (*OrderDetail, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if req.Kind != enum.EntryKindItem && req.Kind != enum.EntryKindCombo {
		return nil, ErrInvalidEntryKind
	}

	var detail *OrderDetail
	err := s.inTx(ctx, func(store Store) error {
		order, err := s.resolveActive(ctx, store, token)
		if err != nil {
			return err
		}

		switch req.Kind {
		case enum.EntryKindItem:
			err = s.addItemLine(ctx, store, order.ID, req)
		case enum.EntryKindCombo:
			err = s.addComboLine(ctx, store, order.ID, req)
		}
		if err != nil {
			return err
		}

		order, err = store.RecomputeOrderTotal(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("recompute total: %w", err)
		}
		detail, err = s.loadDetail(ctx, store, order)
		return err
	})
	return detail, err
}

func (s *OrderService) addItemLine(ctx context.Context, store Store, orderID uuid.UUID, req AddEntryRequest) error {
	item, err := store.GetAvailableMenuItem(ctx, req.EntryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrItemNotFound
		}
		return fmt.Errorf("get menu item: %w", err)
	}

	// Read-then-insert: the (order_id, item_id) unique index is the backstop
	// if two requests race past the read.
	line, err := store.GetOrderItemByOrderAndItem(ctx, database.OrderLineKeyParams{
		OrderID: orderID,
		EntryID: item.ID,
	})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("get order item: %w", err)
		}
		_, err = store.InsertOrderItem(ctx, database.InsertOrderItemParams{
			OrderID:  orderID,
			ItemID:   item.ID,
			ItemName: item.Name,
			Quantity: req.Quantity,
			Price:    item.Price,
		})
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
		return nil
	}

	_, err = store.AddOrderItemQuantity(ctx, database.AddLineQuantityParams{
		ID:       line.ID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return fmt.Errorf("increment order item: %w", err)
	}
	return nil
}

func (s *OrderService) addComboLine(ctx context.Context, store Store, orderID uuid.UUID, req AddEntryRequest) error {
	combo, err := store.GetAvailableCombo(ctx, req.EntryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrComboNotFound
		}
		return fmt.Errorf("get combo: %w", err)
	}

	line, err := store.GetOrderComboByOrderAndCombo(ctx, database.OrderLineKeyParams{
		OrderID: orderID,
		EntryID: combo.ID,
	})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("get order combo: %w", err)
		}
		_, err = store.InsertOrderCombo(ctx, database.InsertOrderComboParams{
			OrderID:   orderID,
			ComboID:   combo.ID,
			ComboName: combo.Name,
			Quantity:  req.Quantity,
			Price:     combo.Price,
		})
		if err != nil {
			return fmt.Errorf("insert order combo: %w", err)
		}
		return nil
	}

	_, err = store.AddOrderComboQuantity(ctx, database.AddLineQuantityParams{
		ID:       line.ID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return fmt.Errorf("increment order combo: %w", err)
	}
	return nil
}

// RemoveEntry deletes one line from the active order and returns the order
// with its recomputed total.
func (s *OrderService) RemoveEntry(ctx context.Context, token, lineID uuid.UUID, kind string) (database.Order, error) {
	if kind != enum.EntryKindItem && kind != enum.EntryKindCombo {
		return database.Order{}, ErrInvalidEntryKind
	}

	var updated database.Order
	err := s.inTx(ctx, func(store Store) error {
		order, err := s.resolveActive(ctx, store, token)
		if err != nil {
			return err
		}

		var deleted int64
		arg := database.DeleteLineParams{ID: lineID, OrderID: order.ID}
		if kind == enum.EntryKindItem {
			deleted, err = store.DeleteOrderItem(ctx, arg)
		} else {
			deleted, err = store.DeleteOrderCombo(ctx, arg)
		}
		if err != nil {
			return fmt.Errorf("delete line: %w", err)
		}
		if deleted == 0 {
			return ErrLineNotFound
		}

		updated, err = store.RecomputeOrderTotal(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("recompute total: %w", err)
		}
		return nil
	})
	return updated, err
}

// CheckoutResult is the completed order as returned by Checkout.
type CheckoutResult struct {
	Order database.Order
}

// DisplayNumber returns the short receipt form of the order's number.
func (c *CheckoutResult) DisplayNumber() string {
	return ordernum.Display(c.Order.OrderNumber)
}

// Checkout marks the active order completed and paid. An order with a zero
// total has nothing to charge and is rejected. Under the session policy the
// session's active-order reference is cleared so the next action starts a
// fresh order.
func (s *OrderService) Checkout(ctx context.Context, token uuid.UUID) (*CheckoutResult, error) {
	var result *CheckoutResult
	err := s.inTx(ctx, func(store Store) error {
		order, err := s.resolveActive(ctx, store, token)
		if err != nil {
			return err
		}

		if NumericToDecimal(order.TotalAmount).IsZero() {
			return ErrEmptyOrder
		}

		completed, err := store.CompleteOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("complete order: %w", err)
		}

		if s.policy == enum.ActiveOrderPolicySession && token != uuid.Nil {
			if err := store.ClearPosSessionOrder(ctx, token); err != nil {
				return fmt.Errorf("clear session order: %w", err)
			}
		}

		result = &CheckoutResult{Order: completed}
		return nil
	})
	return result, err
}

// Clear removes every line from the active order. Clearing an already-empty
// order is a no-op.
func (s *OrderService) Clear(ctx context.Context, token uuid.UUID) (database.Order, error) {
	var updated database.Order
	err := s.inTx(ctx, func(store Store) error {
		order, err := s.resolveActive(ctx, store, token)
		if err != nil {
			return err
		}

		if _, err := store.DeleteOrderItemsByOrder(ctx, order.ID); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if _, err := store.DeleteOrderCombosByOrder(ctx, order.ID); err != nil {
			return fmt.Errorf("delete order combos: %w", err)
		}

		updated, err = store.RecomputeOrderTotal(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("recompute total: %w", err)
		}
		return nil
	})
	return updated, err
}

// --- Internals ---

// inTx runs fn against a store bound to a single transaction, committing on
// success and rolling back on error.
func (s *OrderService) inTx(ctx context.Context, fn func(store Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(s.newStore(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// resolveActive finds the order currently being built. Session policy: the
// session's referenced order wins while it is still pending; otherwise fall
// back to today's latest pending order; otherwise create one. The resolved
// id is written back to the session. Daily policy skips the session entirely.
// Either way the order leaves here carrying a number.
func (s *OrderService) resolveActive(ctx context.Context, store Store, token uuid.UUID) (database.Order, error) {
	useSession := s.policy == enum.ActiveOrderPolicySession && token != uuid.Nil

	var active database.Order
	var found bool

	if useSession {
		sess, err := store.GetPosSession(ctx, token)
		switch {
		case err == nil && sess.ActiveOrderID.Valid:
			order, err := store.GetPendingOrder(ctx, uuid.UUID(sess.ActiveOrderID.Bytes))
			if err == nil {
				active, found = order, true
			} else if !errors.Is(err, pgx.ErrNoRows) {
				return database.Order{}, fmt.Errorf("get session order: %w", err)
			}
		case err != nil && !errors.Is(err, pgx.ErrNoRows):
			return database.Order{}, fmt.Errorf("get session: %w", err)
		}
	}

	if !found {
		start, end := s.dayBounds(s.now())
		order, err := store.LatestPendingOrderBetween(ctx, database.DayWindowParams{Start: start, End: end})
		if err == nil {
			active, found = order, true
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, fmt.Errorf("find pending order: %w", err)
		}
	}

	if !found {
		order, err := store.CreateOrder(ctx, enum.OrderStatusPending)
		if err != nil {
			return database.Order{}, fmt.Errorf("create order: %w", err)
		}
		active = order
	}

	if active.OrderNumber == "" {
		numbered, err := s.assignNumber(ctx, store, active)
		if err != nil {
			return database.Order{}, err
		}
		active = numbered
	}

	if useSession {
		err := store.UpsertPosSession(ctx, database.UpsertPosSessionParams{
			Token:         token,
			ActiveOrderID: pgtype.UUID{Bytes: active.ID, Valid: true},
		})
		if err != nil {
			return database.Order{}, fmt.Errorf("save session: %w", err)
		}
	}

	return active, nil
}

// assignNumber gives an unnumbered order its daily sequence number, derived
// from how many other orders share its creation date.
func (s *OrderService) assignNumber(ctx context.Context, store Store, order database.Order) (database.Order, error) {
	day := order.CreatedAt.In(s.loc)
	start, end := s.dayBounds(day)

	count, err := store.CountOrdersBetweenExcluding(ctx, database.CountOrdersBetweenParams{
		Start:     start,
		End:       end,
		ExcludeID: order.ID,
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("count day orders: %w", err)
	}

	number := ordernum.Format(day, ordernum.Sequence(int(count)))
	numbered, err := store.SetOrderNumber(ctx, database.SetOrderNumberParams{
		ID:          order.ID,
		OrderNumber: number,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race to another resolver; the order is numbered already.
			return store.GetOrder(ctx, order.ID)
		}
		return database.Order{}, fmt.Errorf("set order number: %w", err)
	}
	return numbered, nil
}

func (s *OrderService) dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.In(s.loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *OrderService) loadDetail(ctx context.Context, store Store, order database.Order) (*OrderDetail, error) {
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	combos, err := store.ListOrderCombosByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list order combos: %w", err)
	}
	return &OrderDetail{Order: order, Items: items, Combos: combos}, nil
}

// NumericToDecimal converts a pgtype.Numeric to a decimal, treating NULL and
// scan oddities as zero.
func NumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DecimalToNumeric converts a decimal to a pgtype.Numeric at two decimal
// places, matching the money columns.
func DecimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
