package assistant

import (
	"sort"
	"time"

	"github.com/vigiahub/assistant-backend/internal/domain"
)

// DayPosts is the partitioned result of a calendar-day post fetch. A nil
// *DayPosts means the fetch was unavailable; a non-nil value with empty
// buckets means the day legitimately had nothing.
type DayPosts struct {
	Posted    []domain.ScheduledPost
	Scheduled []domain.ScheduledPost
}

func (d *DayPosts) Empty() bool {
	return d == nil || (len(d.Posted) == 0 && len(d.Scheduled) == 0)
}

// DayWindow computes the half-open absolute-instant window [start, end) of the
// calendar day daysAgo days before now in the given location.
func DayWindow(now time.Time, loc *time.Location, daysAgo int) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -daysAgo)
	return start, start.AddDate(0, 0, 1)
}

// ResolveLocation loads the caller's timezone, falling back to the configured
// default and finally UTC when neither resolves.
func ResolveLocation(tz, fallback string) *time.Location {
	if loc, err := time.LoadLocation(tz); err == nil && tz != "" {
		return loc
	}
	if loc, err := time.LoadLocation(fallback); err == nil && fallback != "" {
		return loc
	}
	return time.UTC
}

// PartitionPosts splits a day's rows into posted and scheduled buckets and
// sorts each by effective time descending, rows without any timestamp last.
func PartitionPosts(rows []domain.ScheduledPost) *DayPosts {
	out := &DayPosts{}
	for _, row := range rows {
		if row.Status == domain.PostStatusPosted {
			out.Posted = append(out.Posted, row)
		} else {
			out.Scheduled = append(out.Scheduled, row)
		}
	}
	sortByTimeDesc(out.Posted)
	sortByTimeDesc(out.Scheduled)
	return out
}

func sortByTimeDesc(rows []domain.ScheduledPost) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].EffectiveTime(), rows[j].EffectiveTime()
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
