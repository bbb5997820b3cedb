package slot

import (
	"time"
)

// DateLayout is the key format of a year summary
const DateLayout = "2006-01-02"

// DaySummary is the calendar cell for one day
type DaySummary struct {
	AvailableCount int  `json:"availableCount"`
	BookedCount    int  `json:"bookedCount"`
	CompletedCount int  `json:"completedCount"`
	TotalCount     int  `json:"totalCount"`
	HasAvailable   bool `json:"hasAvailable"`
	HasBooked      bool `json:"hasBooked"`
}

func (d *DaySummary) add(state State) {
	d.TotalCount++
	switch state {
	case StateCompleted:
		d.CompletedCount++
		d.HasBooked = true
	case StateBooked:
		d.BookedCount++
		d.HasBooked = true
	default:
		d.AvailableCount++
		d.HasAvailable = true
	}
}

// Summarize folds slots into one summary per day of their start time in loc.
// Days without slots have no key.
func Summarize(slots []Slot, loc *time.Location) map[string]DaySummary {
	if loc == nil {
		loc = time.UTC
	}

	days := make(map[string]DaySummary)
	for _, s := range slots {
		key := s.StartTime.In(loc).Format(DateLayout)
		day := days[key]
		day.add(s.Classify())
		days[key] = day
	}
	return days
}

// YearWindow returns the closed range from Jan 1 00:00:00 to Dec 31 23:59:59 of year in loc
func YearWindow(year int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, loc)
	return from, to
}
