package enum

// ── Order lifecycle (CHECK constrained in DB) ──

const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approved"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusRejected  = "rejected"
	OrderStatusCancelled = "cancelled"
)

// ── Restaurant approval lifecycle (CHECK constrained in DB) ──

const (
	RestaurantStatusPending  = "pending"
	RestaurantStatusApproved = "approved"
	RestaurantStatusRejected = "rejected"
	RestaurantStatusStop     = "stop"
)

// ── Roles (CHECK constrained in DB) ──

const (
	UserRoleRestaurant = "restaurant"
	UserRoleSuperadmin = "superadmin"
)

const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDelivery = "delivery"
)

// ── Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash   = "cash"
	PaymentMethodCard   = "card"
	PaymentMethodUPI    = "upi"
	PaymentMethodOnline = "online"
)
