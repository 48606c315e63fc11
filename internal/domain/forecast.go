package domain

import "time"

// DateLayout is the calendar-date key used in forecast buttons.
const DateLayout = "2006-01-02"

// MaxForecastDays caps the day selector.
const MaxForecastDays = 5

// DayBucket groups forecast entries of one calendar date.
type DayBucket struct {
	Date        string    // DateLayout key
	Day         time.Time // first entry, in the forecast zone
	Entries     []ForecastEntry
	AvgTemp     float64
	Description string // most frequent description
}

// GroupByDay buckets entries by calendar date in loc, preserving the order in
// which dates first appear, and returns at most limit buckets.
func GroupByDay(entries []ForecastEntry, loc *time.Location, limit int) []DayBucket {
	var (
		order []string
		byKey = make(map[string]*DayBucket)
	)
	for _, e := range entries {
		at := e.At.In(loc)
		key := at.Format(DateLayout)
		b, ok := byKey[key]
		if !ok {
			order = append(order, key)
			b = &DayBucket{Date: key, Day: at}
			byKey[key] = b
		}
		b.Entries = append(b.Entries, e)
	}

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	out := make([]DayBucket, 0, len(order))
	for _, key := range order {
		b := byKey[key]
		b.AvgTemp = averageTemp(b.Entries)
		b.Description = DominantDescription(b.Entries)
		out = append(out, *b)
	}
	return out
}

// EntriesOn returns the entries whose calendar date in loc equals date.
func EntriesOn(entries []ForecastEntry, loc *time.Location, date string) []ForecastEntry {
	var out []ForecastEntry
	for _, e := range entries {
		if e.At.In(loc).Format(DateLayout) == date {
			out = append(out, e)
		}
	}
	return out
}

// DominantDescription returns the most frequent description. On a tie the
// description seen first in input order wins.
func DominantDescription(entries []ForecastEntry) string {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[e.Description]++
	}
	best, bestCount := "", 0
	for _, e := range entries {
		if c := counts[e.Description]; c > bestCount {
			best, bestCount = e.Description, c
		}
	}
	return best
}

func averageTemp(entries []ForecastEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var sum float64
	for _, e := range entries {
		sum += e.Temp
	}
	return sum / float64(len(entries))
}
