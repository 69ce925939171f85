package enum

// ── Order workflow (CHECK constrained in DB) ──

const (
	StatusAwaitingPickup = "da_prendere"
	StatusInProgress     = "in_lavorazione"
	StatusReady          = "pronto"
	StatusDelivered      = "consegnato"
)

// Statuses lists the workflow states in display order.
var Statuses = []string{
	StatusAwaitingPickup,
	StatusInProgress,
	StatusReady,
	StatusDelivered,
}

func IsValidStatus(s string) bool {
	switch s {
	case StatusAwaitingPickup, StatusInProgress, StatusReady, StatusDelivered:
		return true
	}
	return false
}

var statusLabels = map[string]string{
	StatusAwaitingPickup: "Da prendere in carico",
	StatusInProgress:     "In lavorazione",
	StatusReady:          "Completato",
	StatusDelivered:      "Consegnato",
}

var statusColors = map[string]string{
	StatusAwaitingPickup: "red",
	StatusInProgress:     "yellow",
	StatusReady:          "green",
	StatusDelivered:      "blue",
}

// StatusLabel returns the operator-facing label, or the raw value when unknown.
func StatusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

// StatusColor returns the LED colour for a status; unknown statuses are gray.
func StatusColor(s string) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "gray"
}

// ── Partitions (derived from status, never stored) ──

const (
	PartitionActive    = "active"
	PartitionDelivered = "delivered"
)

func IsValidPartition(p string) bool {
	return p == PartitionActive || p == PartitionDelivered
}

// PartitionOf reports which list an order with the given status belongs to.
func PartitionOf(status string) string {
	if status == StatusDelivered {
		return PartitionDelivered
	}
	return PartitionActive
}

// DefaultImportStatus is the status assumed for CSV rows without a stato column.
func DefaultImportStatus(partition string) string {
	if partition == PartitionDelivered {
		return StatusDelivered
	}
	return StatusAwaitingPickup
}

// ── Roles ──

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AdminUsername is the fixed identity of every privileged session.
const AdminUsername = "admin"

// ── Realtime events ──

const (
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderDeleted   = "order.deleted"
	EventOrdersImported = "orders.imported"
)
