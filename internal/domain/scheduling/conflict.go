package scheduling

// Occupied is one existing reservation's blocked window on the date.
type Occupied struct {
	ReservationID uint
	WorkerID      *uint
	Window        Interval
	Status        Status
}

// HasConflict reports whether candidate overlaps an active reservation.
// With a bound worker only that worker's reservations count; with no worker
// every reservation of the company on the date counts. excludeID skips the
// reservation being updated.
func HasConflict(existing []Occupied, workerID *uint, candidate Interval, excludeID *uint) bool {
	for _, o := range existing {
		if !o.Status.IsActive() {
			continue
		}
		if excludeID != nil && o.ReservationID == *excludeID {
			continue
		}
		if workerID != nil && (o.WorkerID == nil || *o.WorkerID != *workerID) {
			continue
		}
		if o.Window.Overlaps(candidate) {
			return true
		}
	}
	return false
}
