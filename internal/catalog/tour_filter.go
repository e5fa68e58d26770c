// Package catalog filters and orders the in-memory tour and booking lists
// shown on the public trip pages and the admin dashboard.
package catalog

import (
	"cmp"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/propixxels/omys-sacred-journeys-sub000/internal/model"
)

// Scheme selects which duration/price bucket vocabulary a view uses.  The
// trips list and the trip filter panel each have their own buckets.
type Scheme string

const (
	SchemeList  Scheme = "list"
	SchemePanel Scheme = "panel"
)

// DateLayout is the format of departure dates and date range bounds.
const DateLayout = "2006-01-02"

// Sort fields.
const (
	SortDeparture = "departure_date"
	SortCost      = "cost"
	SortName      = "name"
	SortDuration  = "duration"
)

// SortFields lists the accepted sort keys.
var SortFields = []string{SortDeparture, SortCost, SortName, SortDuration}

// TourFilter describes which tours to keep.  Empty fields impose nothing.
type TourFilter struct {
	Search      string
	Destination string
	Duration    string // bucket key in the active scheme
	Price       string // bucket key in the active scheme
	DateFrom    *time.Time
	DateTo      *time.Time
}

// SortSpec orders the filtered tours.  An empty Field keeps input order.
type SortSpec struct {
	Field string
	Desc  bool
}

// TourResult is the outcome of FilterTours.
type TourResult struct {
	Items    []model.Tour `json:"items"`
	Total    int          `json:"total"`
	Filtered int          `json:"filtered"`
}

// TourQuery bundles everything parsed from a tour list request.
type TourQuery struct {
	Filter TourFilter
	Sort   SortSpec
	Scheme Scheme
}

// FilterTours applies f to tours (all conditions must hold), then sorts
// the survivors stably by s.  The input slice is not modified.
func FilterTours(tours []model.Tour, f TourFilter, s SortSpec, scheme Scheme) TourResult {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	dest := strings.ToLower(strings.TrimSpace(f.Destination))
	if dest == "all" {
		dest = ""
	}
	from, to := dayBounds(f.DateFrom, f.DateTo)

	out := make([]model.Tour, 0, len(tours))
	for _, t := range tours {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Destinations), search) {
			continue
		}
		if dest != "" && !strings.Contains(strings.ToLower(t.Destinations), dest) {
			continue
		}
		if !MatchDuration(scheme, f.Duration, DurationDays(t.Duration)) {
			continue
		}
		if !MatchPrice(scheme, f.Price, t.Cost) {
			continue
		}
		if !inRange(t.DepartureDate, from, to) {
			continue
		}
		out = append(out, t)
	}

	sortTours(out, s)
	return TourResult{Items: out, Total: len(tours), Filtered: len(out)}
}

var firstInt = regexp.MustCompile(`\d+`)

// DurationDays extracts the first integer in a duration string such as
// "7 Days / 6 Nights".  A string without digits counts as 0.
func DurationDays(d string) int {
	m := firstInt.FindString(d)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// MatchDuration reports whether days falls in bucket under scheme.  An
// empty or "all" bucket matches everything, an unknown bucket nothing.
func MatchDuration(scheme Scheme, bucket string, days int) bool {
	bucket = strings.ToLower(strings.TrimSpace(bucket))
	if bucket == "" || bucket == "all" {
		return true
	}
	if scheme == SchemePanel {
		lo, hi, ok := parseRange(bucket)
		if !ok {
			return false
		}
		// The shortest bucket also takes durations that carry no number.
		if lo == 1 && days == 0 {
			return true
		}
		return days >= lo && (hi < 0 || days <= hi)
	}
	switch bucket {
	case "short":
		return days <= 7
	case "medium":
		return days >= 8 && days <= 14
	case "long":
		return days >= 15
	}
	return false
}

// MatchPrice reports whether cost falls in bucket under scheme.
func MatchPrice(scheme Scheme, bucket string, cost int64) bool {
	bucket = strings.ToLower(strings.TrimSpace(bucket))
	if bucket == "" || bucket == "all" {
		return true
	}
	if scheme == SchemePanel {
		lo, hi, ok := parseRange(bucket)
		if !ok {
			return false
		}
		return cost >= int64(lo) && (hi < 0 || cost <= int64(hi))
	}
	switch bucket {
	case "budget":
		return cost <= 20000
	case "mid":
		return cost > 20000 && cost <= 50000
	case "premium":
		return cost > 50000
	}
	return false
}

// parseRange reads "lo-hi" (inclusive) or "lo+" (open ended, hi = -1).
func parseRange(key string) (lo, hi int, ok bool) {
	if strings.HasSuffix(key, "+") {
		n, err := strconv.Atoi(strings.TrimSuffix(key, "+"))
		if err != nil {
			return 0, 0, false
		}
		return n, -1, true
	}
	a, b, found := strings.Cut(key, "-")
	if !found {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(a)
	hi, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil || hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}

// dayBounds widens the optional bounds to whole days.
func dayBounds(from, to *time.Time) (*time.Time, *time.Time) {
	var lo, hi *time.Time
	if from != nil {
		t := now.With(*from).BeginningOfDay()
		lo = &t
	}
	if to != nil {
		t := now.With(*to).EndOfDay()
		hi = &t
	}
	return lo, hi
}

// inRange checks a YYYY-MM-DD date string against widened bounds.  With
// no bounds everything passes; with a bound an unreadable date fails.
func inRange(date string, from, to *time.Time) bool {
	if from == nil && to == nil {
		return true
	}
	d, ok := ParseDate(date)
	if !ok {
		return false
	}
	return inBounds(d, from, to)
}

func inBounds(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

// ParseDate reads a YYYY-MM-DD date, also accepting a full RFC 3339
// timestamp.  Dates are taken in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func sortTours(tours []model.Tour, s SortSpec) {
	var compare func(a, b model.Tour) int
	switch s.Field {
	case SortDeparture:
		compare = func(a, b model.Tour) int { return strings.Compare(a.DepartureDate, b.DepartureDate) }
	case SortCost:
		compare = func(a, b model.Tour) int { return cmp.Compare(a.Cost, b.Cost) }
	case SortName:
		compare = func(a, b model.Tour) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortDuration:
		compare = func(a, b model.Tour) int {
			return cmp.Compare(DurationDays(a.Duration), DurationDays(b.Duration))
		}
	default:
		return
	}
	slices.SortStableFunc(tours, func(a, b model.Tour) int {
		if s.Desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

// ParseTourQuery builds a TourQuery from list request parameters.
// Unknown sort fields fall back to input order and unknown views to the
// list scheme; unreadable dates are ignored.
func ParseTourQuery(q url.Values) TourQuery {
	search := q.Get("q")
	if search == "" {
		search = q.Get("search")
	}
	scheme := SchemeList
	if strings.EqualFold(q.Get("view"), string(SchemePanel)) {
		scheme = SchemePanel
	}
	sortField := q.Get("sort")
	if !slices.Contains(SortFields, sortField) {
		sortField = ""
	}
	return TourQuery{
		Filter: TourFilter{
			Search:      search,
			Destination: q.Get("destination"),
			Duration:    q.Get("duration"),
			Price:       q.Get("price"),
			DateFrom:    dateParam(q.Get("date_from")),
			DateTo:      dateParam(q.Get("date_to")),
		},
		Sort:   SortSpec{Field: sortField, Desc: strings.EqualFold(q.Get("dir"), "desc")},
		Scheme: scheme,
	}
}

func dateParam(v string) *time.Time {
	t, ok := ParseDate(v)
	if !ok {
		return nil
	}
	return &t
}
