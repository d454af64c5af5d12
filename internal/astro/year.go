package astro

import "time"

// YearToTime converts a fractional year (e.g. 1831.5) to a UTC time.
func YearToTime(year float64) time.Time {
	whole := int(year)
	frac := year - float64(whole)

	start := time.Date(whole, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(whole+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	return start.Add(time.Duration(frac * float64(end.Sub(start))))
}

// TimeToYear converts a time to a fractional year.
func TimeToYear(t time.Time) float64 {
	t = t.UTC()
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	return float64(t.Year()) + float64(t.Sub(start))/float64(end.Sub(start))
}
