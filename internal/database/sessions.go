package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const posSessionColumns = `token, active_order_id, created_at, updated_at`

const getPosSession = `
SELECT ` + posSessionColumns + `
FROM pos_sessions
WHERE token = $1`

func (q *Queries) GetPosSession(ctx context.Context, token uuid.UUID) (PosSession, error) {
	var s PosSession
	err := q.db.QueryRow(ctx, getPosSession, token).
		Scan(&s.Token, &s.ActiveOrderID, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

type UpsertPosSessionParams struct {
	Token         uuid.UUID
	ActiveOrderID pgtype.UUID
}

const upsertPosSession = `
INSERT INTO pos_sessions (token, active_order_id)
VALUES ($1, $2)
ON CONFLICT (token) DO UPDATE
SET active_order_id = EXCLUDED.active_order_id, updated_at = now()`

func (q *Queries) UpsertPosSession(ctx context.Context, arg UpsertPosSessionParams) error {
	_, err := q.db.Exec(ctx, upsertPosSession, arg.Token, arg.ActiveOrderID)
	return err
}

const clearPosSessionOrder = `
UPDATE pos_sessions
SET active_order_id = NULL, updated_at = now()
WHERE token = $1`

func (q *Queries) ClearPosSessionOrder(ctx context.Context, token uuid.UUID) error {
	_, err := q.db.Exec(ctx, clearPosSessionOrder, token)
	return err
}
