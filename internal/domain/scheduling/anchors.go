package scheduling

import "sort"

const DefaultAnchorIntervalMinutes = 30

// GenerateAnchors returns the candidate start times for a working window:
// fixed anchors every intervalMinutes from workStart, plus every reservation
// end that falls inside [workStart, workEnd). The result is deduplicated and
// sorted.
func GenerateAnchors(workStart, workEnd Clock, intervalMinutes int, reservationEnds []Clock) []Clock {
	if workEnd <= workStart {
		return nil
	}
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultAnchorIntervalMinutes
	}

	seen := make(map[Clock]struct{})
	var anchors []Clock
	add := func(c Clock) {
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		anchors = append(anchors, c)
	}

	for a := workStart; a < workEnd; a = a.Add(intervalMinutes) {
		add(a)
	}
	for _, end := range reservationEnds {
		if end >= workStart && end < workEnd {
			add(end)
		}
	}

	sort.Slice(anchors, func(i, j int) bool { return anchors[i] < anchors[j] })
	return anchors
}
