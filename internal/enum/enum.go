package enum

// --- Order lifecycle (CHECK constrained in DB) ---

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// --- Line entry kinds (wire values for item_type) ---

const (
	EntryKindItem  = "item"
	EntryKindCombo = "combo"
)

// --- Staff roles (CHECK constrained in DB) ---

const (
	UserRoleAdmin = "admin"
	UserRoleStaff = "staff"
)

// --- Active-order resolution policies (config values, no DB constraint) ---

const (
	ActiveOrderPolicySession = "session"
	ActiveOrderPolicyDaily   = "daily"
)
