package domain

// SyncStatus is the outcome of a bridge translation
type SyncStatus string

const (
	SyncSkipped   SyncStatus = "skipped"
	SyncCreated   SyncStatus = "created"
	SyncFulfilled SyncStatus = "fulfilled"
	SyncCancelled SyncStatus = "cancelled"
	SyncPublished SyncStatus = "published"
	SyncFailed    SyncStatus = "failed"
)

// SyncResult reports what a bridge call did.
// A skipped result is a normal outcome, not an error.
type SyncResult struct {
	Status        SyncStatus `json:"status"`
	Reason        string     `json:"reason,omitempty"`
	RemoteOrderID string     `json:"remote_order_id,omitempty"`
	Shipments     int        `json:"shipments,omitempty"`
	Failed        int        `json:"failed,omitempty"`
}

// Skipped builds a skipped result with a reason
func Skipped(reason string) SyncResult {
	return SyncResult{Status: SyncSkipped, Reason: reason}
}
