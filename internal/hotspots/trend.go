package hotspots

import "time"

// Sample is one historical measurement used for trend building,
// typically loaded from a persisted analysis snapshot.
type Sample struct {
	TakenAt         time.Time `json:"takenAt"`
	Complexity      float64   `json:"complexity"`
	ChangeFrequency float64   `json:"changeFrequency"`
	AuthorChurn     float64   `json:"authorChurn"`
}

// TrendData holds 12 monthly averages per factor, oldest month first.
// Months without samples stay at zero.
type TrendData struct {
	Complexity      [12]float64 `json:"complexity"`
	ChangeFrequency [12]float64 `json:"changeFrequency"`
	AuthorChurn     [12]float64 `json:"authorChurn"`
}

// Trends buckets samples into the 12 months ending at now and averages
// each factor per month.
func Trends(samples []Sample, now time.Time) TrendData {
	var data TrendData
	var counts [12]int

	current := monthStart(now)
	oldest := current.AddDate(0, -11, 0)

	for _, s := range samples {
		month := monthStart(s.TakenAt)
		if month.Before(oldest) || month.After(current) {
			continue
		}
		idx := monthsBetween(oldest, month)
		data.Complexity[idx] += s.Complexity
		data.ChangeFrequency[idx] += s.ChangeFrequency
		data.AuthorChurn[idx] += s.AuthorChurn
		counts[idx]++
	}

	for i, n := range counts {
		if n > 1 {
			data.Complexity[i] /= float64(n)
			data.ChangeFrequency[i] /= float64(n)
			data.AuthorChurn[i] /= float64(n)
		}
	}
	return data
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
