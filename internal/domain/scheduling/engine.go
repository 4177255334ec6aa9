package scheduling

import "sort"

type EligibleWorker struct {
	ID        uint `json:"id"`
	IsTrainee bool `json:"is_trainee"`
}

// Slot is a bookable window. Its span is the service's base duration; each
// listed worker was checked against its own effective duration.
type Slot struct {
	Start           Clock
	End             Clock
	EligibleWorkers []EligibleWorker
}

// ComputeSlots runs the availability algorithm over an in-memory day.
// A closed day or a service nobody can perform yields an empty list.
func ComputeSlots(day *Day, service ServiceSpec, workerFilter *uint) []Slot {
	slots := []Slot{}

	window, open := day.WorkingWindow()
	if !open || service.DurationMinutes <= 0 {
		return slots
	}

	workers := day.CandidateWorkers(service.ID, workerFilter)
	if len(workers) == 0 {
		return slots
	}

	anchors := GenerateAnchors(window.Start, window.End, day.AnchorInterval(), day.ReservationEnds())

	for _, anchor := range anchors {
		candidate := NewInterval(anchor, service.DurationMinutes)
		if candidate.End > window.End {
			continue
		}

		var eligible []EligibleWorker
		for _, w := range workers {
			if day.IsWorkerEligible(w, service.ID, day.WindowFor(w, service, anchor)) {
				eligible = append(eligible, EligibleWorker{ID: w.ID, IsTrainee: w.IsTrainee})
			}
		}
		if len(eligible) == 0 {
			continue
		}

		slots = append(slots, Slot{
			Start:           candidate.Start,
			End:             candidate.End,
			EligibleWorkers: eligible,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	return slots
}

// PickWorker chooses who takes an unassigned booking at start: non-trainees
// first, then lowest id. Returns false when nobody is eligible.
func PickWorker(day *Day, service ServiceSpec, start Clock) (Worker, bool) {
	var picked *Worker
	for _, w := range day.CandidateWorkers(service.ID, nil) {
		if !day.IsWorkerEligible(w, service.ID, day.WindowFor(w, service, start)) {
			continue
		}
		if picked == nil || (picked.IsTrainee && !w.IsTrainee) {
			cp := w
			picked = &cp
		}
	}
	if picked == nil {
		return Worker{}, false
	}
	return *picked, true
}
