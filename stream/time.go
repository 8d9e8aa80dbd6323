package stream

import (
	"math"
	"time"
)

// Epoch of GameMaker timestamps (Delphi TDateTime)
var Epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const msPerDay = 24 * 60 * 60 * 1000

// DaysToTime converts fractional days since Epoch into time rounded to milliseconds
func DaysToTime(days float64) time.Time {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return Epoch
	}
	ms := math.Round(days * msPerDay)
	// time.Duration overflows after ~292 years, step by days
	whole := math.Trunc(ms / msPerDay)
	rest := ms - whole*msPerDay
	return Epoch.AddDate(0, 0, int(whole)).Add(time.Duration(rest) * time.Millisecond)
}

// TimeToDays converts time into fractional days since Epoch
func TimeToDays(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	t = t.UTC()
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := math.Round(midnight.Sub(Epoch).Hours() / 24)
	ms := float64(t.Sub(midnight) / time.Millisecond)
	return (days*msPerDay + ms) / msPerDay
}
