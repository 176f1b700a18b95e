package mapper

import "time"

// DefaultEventDuration is used when an event is saved without an end time.
const DefaultEventDuration = 4 * time.Hour

// SpotsLeft is the remaining capacity of an event. Counts that exceed the
// capacity clamp to zero instead of going negative.
func SpotsLeft(maxPlayers, current int) int {
	if left := maxPlayers - current; left > 0 {
		return left
	}
	return 0
}

// EndTimeOrDefault returns explicit when it holds a valid timestamp and
// schedule + DefaultEventDuration otherwise. explicit may be a time.Time, a
// string or epoch milliseconds.
func EndTimeOrDefault(schedule time.Time, explicit any) time.Time {
	if t, ok := ParseTime(explicit); ok {
		return t
	}
	return schedule.Add(DefaultEventDuration)
}
