package catalog

// Reason tags a progress event with what happened.
type Reason string

const (
	ReasonInspecting Reason = "inspecting"
	ReasonCreated    Reason = "created"
	ReasonUpdated    Reason = "updated"
	ReasonDeleted    Reason = "deleted"
	ReasonCompleted  Reason = "completed"
	ReasonCancelled  Reason = "cancelled"
	ReasonFailed     Reason = "failed"
)

// Terminal reports whether the reason ends a sync run.
func (r Reason) Terminal() bool {
	return r == ReasonCompleted || r == ReasonCancelled || r == ReasonFailed
}

// Event is one progress record yielded during a sync run. Events are the
// only channel through which a run reports progress and failure; their
// order matches processing order. Asset is nil for folder-level and
// terminal events; Err is set only on Cancelled and Failed events.
type Event struct {
	Asset   *Asset
	Message string
	Reason  Reason
	Err     error
}
