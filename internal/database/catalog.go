package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Categories ---

const listCategories = `
SELECT id, name, display_order, created_at
FROM categories
ORDER BY display_order, name`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type CreateCategoryParams struct {
	Name         string
	DisplayOrder int32
}

const createCategory = `
INSERT INTO categories (name, display_order)
VALUES ($1, $2)
RETURNING id, name, display_order, created_at`

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	var c Category
	err := q.db.QueryRow(ctx, createCategory, arg.Name, arg.DisplayOrder).
		Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.CreatedAt)
	return c, err
}

type UpdateCategoryParams struct {
	ID           uuid.UUID
	Name         string
	DisplayOrder int32
}

const updateCategory = `
UPDATE categories
SET name = $2, display_order = $3
WHERE id = $1
RETURNING id, name, display_order, created_at`

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	var c Category
	err := q.db.QueryRow(ctx, updateCategory, arg.ID, arg.Name, arg.DisplayOrder).
		Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.CreatedAt)
	return c, err
}

const deleteCategory = `DELETE FROM categories WHERE id = $1`

func (q *Queries) DeleteCategory(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteCategory, id)
	return tag.RowsAffected(), err
}

// --- Menu items ---

const menuItemColumns = `id, category_id, name, price, description, is_available, image_url, created_at, updated_at`

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.CategoryID, &m.Name, &m.Price, &m.Description,
		&m.IsAvailable, &m.ImageURL, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const listMenuItems = `
SELECT ` + menuItemColumns + `
FROM menu_items
ORDER BY name`

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	return q.queryMenuItems(ctx, listMenuItems)
}

const listAvailableMenuItems = `
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE is_available
ORDER BY name`

func (q *Queries) ListAvailableMenuItems(ctx context.Context) ([]MenuItem, error) {
	return q.queryMenuItems(ctx, listAvailableMenuItems)
}

func (q *Queries) queryMenuItems(ctx context.Context, sql string, args ...any) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const getMenuItem = `
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE id = $1`

func (q *Queries) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, getMenuItem, id))
}

const getAvailableMenuItem = `
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE id = $1 AND is_available`

func (q *Queries) GetAvailableMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, getAvailableMenuItem, id))
}

type CreateMenuItemParams struct {
	CategoryID  uuid.UUID
	Name        string
	Price       pgtype.Numeric
	Description pgtype.Text
	IsAvailable bool
	ImageURL    pgtype.Text
}

const createMenuItem = `
INSERT INTO menu_items (category_id, name, price, description, is_available, image_url)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + menuItemColumns

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, createMenuItem,
		arg.CategoryID, arg.Name, arg.Price, arg.Description, arg.IsAvailable, arg.ImageURL))
}

type UpdateMenuItemParams struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Price       pgtype.Numeric
	Description pgtype.Text
	IsAvailable bool
	ImageURL    pgtype.Text
}

const updateMenuItem = `
UPDATE menu_items
SET category_id = $2, name = $3, price = $4, description = $5,
    is_available = $6, image_url = $7, updated_at = now()
WHERE id = $1
RETURNING ` + menuItemColumns

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, updateMenuItem,
		arg.ID, arg.CategoryID, arg.Name, arg.Price, arg.Description, arg.IsAvailable, arg.ImageURL))
}

const deleteMenuItem = `DELETE FROM menu_items WHERE id = $1`

func (q *Queries) DeleteMenuItem(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteMenuItem, id)
	return tag.RowsAffected(), err
}

// --- Combos ---

const comboColumns = `id, name, price, is_available, created_at, updated_at`

func scanCombo(row pgx.Row) (Combo, error) {
	var c Combo
	err := row.Scan(&c.ID, &c.Name, &c.Price, &c.IsAvailable, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const listCombos = `
SELECT ` + comboColumns + `
FROM combos
ORDER BY name`

func (q *Queries) ListCombos(ctx context.Context) ([]Combo, error) {
	rows, err := q.db.Query(ctx, listCombos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var combos []Combo
	for rows.Next() {
		c, err := scanCombo(rows)
		if err != nil {
			return nil, err
		}
		combos = append(combos, c)
	}
	return combos, rows.Err()
}

const getCombo = `
SELECT ` + comboColumns + `
FROM combos
WHERE id = $1`

func (q *Queries) GetCombo(ctx context.Context, id uuid.UUID) (Combo, error) {
	return scanCombo(q.db.QueryRow(ctx, getCombo, id))
}

const getAvailableCombo = `
SELECT ` + comboColumns + `
FROM combos
WHERE id = $1 AND is_available`

func (q *Queries) GetAvailableCombo(ctx context.Context, id uuid.UUID) (Combo, error) {
	return scanCombo(q.db.QueryRow(ctx, getAvailableCombo, id))
}

type CreateComboParams struct {
	Name        string
	Price       pgtype.Numeric
	IsAvailable bool
}

const createCombo = `
INSERT INTO combos (name, price, is_available)
VALUES ($1, $2, $3)
RETURNING ` + comboColumns

func (q *Queries) CreateCombo(ctx context.Context, arg CreateComboParams) (Combo, error) {
	return scanCombo(q.db.QueryRow(ctx, createCombo, arg.Name, arg.Price, arg.IsAvailable))
}

type UpdateComboParams struct {
	ID          uuid.UUID
	Name        string
	Price       pgtype.Numeric
	IsAvailable bool
}

const updateCombo = `
UPDATE combos
SET name = $2, price = $3, is_available = $4, updated_at = now()
WHERE id = $1
RETURNING ` + comboColumns

func (q *Queries) UpdateCombo(ctx context.Context, arg UpdateComboParams) (Combo, error) {
	return scanCombo(q.db.QueryRow(ctx, updateCombo, arg.ID, arg.Name, arg.Price, arg.IsAvailable))
}

const deleteCombo = `DELETE FROM combos WHERE id = $1`

func (q *Queries) DeleteCombo(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteCombo, id)
	return tag.RowsAffected(), err
}
