package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Category struct {
	ID           uuid.UUID
	Name         string
	DisplayOrder int32
	CreatedAt    time.Time
}

type MenuItem struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Price       pgtype.Numeric
	Description pgtype.Text
	IsAvailable bool
	ImageURL    pgtype.Text
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Combo struct {
	ID          uuid.UUID
	Name        string
	Price       pgtype.Numeric
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Order struct {
	ID          uuid.UUID
	OrderNumber string
	Status      string
	TotalAmount pgtype.Numeric
	IsPaid      bool
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ItemID    uuid.UUID
	ItemName  string
	Quantity  int32
	Price     pgtype.Numeric
	CreatedAt time.Time
}

type OrderCombo struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ComboID   uuid.UUID
	ComboName string
	Quantity  int32
	Price     pgtype.Numeric
	CreatedAt time.Time
}

type PosSession struct {
	Token         uuid.UUID
	ActiveOrderID pgtype.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
}
