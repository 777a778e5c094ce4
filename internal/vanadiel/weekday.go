package vanadiel

// Weekday is one of the eight named Vana'diel days.
type Weekday string

const (
	Firesday     Weekday = "Firesday"
	Earthsday    Weekday = "Earthsday"
	Watersday    Weekday = "Watersday"
	Windsday     Weekday = "Windsday"
	Iceday       Weekday = "Iceday"
	Lightningday Weekday = "Lightningday"
	Lightsday    Weekday = "Lightsday"
	Darksday     Weekday = "Darksday"
)

// Weekdays lists the cycle in order; index 0 is Firesday.
var Weekdays = [8]Weekday{
	Firesday,
	Earthsday,
	Watersday,
	Windsday,
	Iceday,
	Lightningday,
	Lightsday,
	Darksday,
}

// WeekdayIndex returns the position of w in the cycle, or 0 for unknown names.
func WeekdayIndex(w Weekday) int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return 0
}
