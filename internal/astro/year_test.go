package astro

import (
	"math"
	"testing"
	"time"
)

func TestYearToTime_WholeYear(t *testing.T) {
	got := YearToTime(2016)
	want := time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("YearToTime(2016) = %v, want %v", got, want)
	}
}

func TestYearToTime_Midyear(t *testing.T) {
	got := YearToTime(2015.5)
	// 2015 is not a leap year: half of 365 days past Jan 1.
	want := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(0.5 * float64(365*24) * float64(time.Hour)))
	if diff := got.Sub(want); diff < -time.Second || diff > time.Second {
		t.Errorf("YearToTime(2015.5) = %v, want ~%v", got, want)
	}
}

func TestYearRoundTrip(t *testing.T) {
	for _, year := range []float64{1831.1, 1900.0, 1999.99, 2019.37} {
		back := TimeToYear(YearToTime(year))
		if math.Abs(back-year) > 1e-6 {
			t.Errorf("Round trip %v -> %v", year, back)
		}
	}
}
