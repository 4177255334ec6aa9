package scheduling

// Interval is a half-open same-day range [Start, End).
type Interval struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

func NewInterval(start Clock, minutes int) Interval {
	return Interval{Start: start, End: start.Add(minutes)}
}

// ParseInterval builds an interval from two "HH:mm" strings and checks it is valid.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}

	iv := Interval{Start: s, End: e}
	if !iv.Valid() {
		return Interval{}, errInvalidInterval(start, end)
	}
	return iv, nil
}

// Valid rejects empty, inverted and cross-midnight ranges.
func (iv Interval) Valid() bool {
	return iv.Start >= 0 && iv.Start < iv.End && iv.End <= MinutesPerDay
}

func (iv Interval) Minutes() int {
	return int(iv.End - iv.Start)
}

// Overlaps: s1 < e2 && s2 < e1. Touching intervals do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Contains: s1 <= s2 && e2 <= e1.
func (iv Interval) Contains(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}
