package aggregation

import (
	"sort"
	"time"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
)

// DayLayout is the calendar-day format of UsageRecord.Day.
const DayLayout = "2006-01-02"

// DayLabel is the record's day, or UnknownLabel when missing.
func DayLabel(r v1.UsageRecord) string {
	return v1.LabelOr(r.Day, v1.UnknownLabel)
}

// DailyActiveUsers counts distinct user ids per day in first-seen day order.
// Records without a day are grouped under UnknownLabel.
func DailyActiveUsers(records []v1.UsageRecord) []Point {
	sets := newUserSets()
	for _, r := range records {
		sets.add(DayLabel(r), r.UserID)
	}
	return sets.points()
}

// WeekStart returns the Monday of the UTC week containing day.
// The second result is false when day is not a YYYY-MM-DD date.
// Example: WeekStart("2024-05-05") → "2024-04-29" (a Sunday maps back to Monday).
func WeekStart(day string) (string, bool) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return "", false
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(DayLayout), true
}

// WeeklyActiveUsers counts distinct user ids per ISO week, ascending by week
// start. Records with a missing or unparseable day are skipped.
func WeeklyActiveUsers(records []v1.UsageRecord) []Point {
	sets := newUserSets()
	for _, r := range records {
		week, ok := WeekStart(r.Day)
		if !ok {
			continue
		}
		sets.add(week, r.UserID)
	}
	points := sets.points()
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return points
}

// LatestWeekActiveUsers is the active-user count of the most recent week, 0 when none.
func LatestWeekActiveUsers(records []v1.UsageRecord) int {
	weekly := WeeklyActiveUsers(records)
	if len(weekly) == 0 {
		return 0
	}
	return weekly[len(weekly)-1].Value
}

// DistinctUsers counts distinct user ids, the missing id included.
func DistinctUsers(records []v1.UsageRecord) int {
	seen := make(map[v1.UserID]struct{}, len(records))
	for _, r := range records {
		seen[r.UserID] = struct{}{}
	}
	return len(seen)
}

// DistinctDays counts distinct days, the missing day included.
func DistinctDays(records []v1.UsageRecord) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Day] = struct{}{}
	}
	return len(seen)
}
