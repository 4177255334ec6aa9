package scheduling

// EffectiveDuration is the time a worker actually occupies for a service.
// Trainees get the company's extra padding on top of the base duration.
//
// Every occupied window (slot discovery, conflict checks, the write path)
// must be computed through this function.
func EffectiveDuration(baseMinutes int, isTrainee bool, traineeExtraMinutes int) int {
	if isTrainee {
		return baseMinutes + traineeExtraMinutes
	}
	return baseMinutes
}
