// Package query holds the client-side filter and pagination state and
// derives the parameters of the next entries request from it.
package query

import (
	"fmt"
	"strings"
	"time"

	errorvalues "journal-dashboard/internal/error_values"
)

const DateLayout = "2006-01-02"

type RangeMode string

const (
	Range7d     RangeMode = "7d"
	Range30d    RangeMode = "30d"
	Range365d   RangeMode = "365d"
	RangeCustom RangeMode = "custom"
)

var presetDays = map[RangeMode]int{
	Range7d:   7,
	Range30d:  30,
	Range365d: 365,
}

// ParseRangeMode accepts "7d", "30d", "365d", "custom" and the bare day
// counts "7", "30", "365" used by the analytics selector.
func ParseRangeMode(s string) (RangeMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "7", "30", "365":
		s += "d"
	}
	mode := RangeMode(s)
	if _, ok := presetDays[mode]; ok || mode == RangeCustom {
		return mode, nil
	}
	return "", fmt.Errorf("%w: unknown range %q", errorvalues.ErrValidation, s)
}

// Days returns the length of a preset range, 0 for custom.
func (m RangeMode) Days() int {
	return presetDays[m]
}

// Params are the query parameters of GET /api/entries.
type Params struct {
	Limit     int
	Offset    int
	StartDate string
	EndDate   string
}

// Pagination is what the pager displays.
type Pagination struct {
	Page         int    `json:"page"`
	TotalPages   int    `json:"total_pages"`
	Total        int    `json:"total"`
	Text         string `json:"text"`
	PrevDisabled bool   `json:"prev_disabled"`
	NextDisabled bool   `json:"next_disabled"`
}

// State is not safe for concurrent use; its owner serializes access.
type State struct {
	pageSize  int
	page      int
	total     int
	mode      RangeMode
	startDate string
	endDate   string
}

func New(pageSize int, mode RangeMode) *State {
	if pageSize < 1 {
		pageSize = 10
	}
	if mode == "" {
		mode = Range30d
	}
	return &State{pageSize: pageSize, mode: mode}
}

func (s *State) PageSize() int   { return s.pageSize }
func (s *State) Page() int       { return s.page }
func (s *State) Offset() int     { return s.page * s.pageSize }
func (s *State) Mode() RangeMode { return s.mode }
func (s *State) Total() int      { return s.total }

// CustomDates returns the user-supplied dates of custom mode.
func (s *State) CustomDates() (start, end string) {
	return s.startDate, s.endDate
}

// SetRange changes the active filter and always resets the page to 0, so
// an old offset is never sent against the new filtered set.
func (s *State) SetRange(mode RangeMode, startDate, endDate string) {
	s.mode = mode
	if mode == RangeCustom {
		s.startDate = strings.TrimSpace(startDate)
		s.endDate = strings.TrimSpace(endDate)
	} else {
		s.startDate, s.endDate = "", ""
	}
	s.page = 0
}

// SetPage moves to page; negative pages clamp to 0.
func (s *State) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	s.page = page
}

// SetTotal records the total reported by the last applied response.
func (s *State) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	s.total = total
}

func (s *State) TotalPages() int {
	pages := (s.total + s.pageSize - 1) / s.pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// NextPage returns the page after the current one and whether it exists.
func (s *State) NextPage() (int, bool) {
	if s.page < s.TotalPages()-1 {
		return s.page + 1, true
	}
	return s.page, false
}

// PrevPage returns the page before the current one and whether it exists.
func (s *State) PrevPage() (int, bool) {
	if s.page > 0 {
		return s.page - 1, true
	}
	return s.page, false
}

func (s *State) Pagination() Pagination {
	totalPages := s.TotalPages()
	return Pagination{
		Page:         s.page,
		TotalPages:   totalPages,
		Total:        s.total,
		Text:         fmt.Sprintf("Page %d of %d", s.page+1, totalPages),
		PrevDisabled: s.page == 0,
		NextDisabled: s.page >= totalPages-1,
	}
}

// Params derives the request for page at time now.
func (s *State) Params(page int, now time.Time) (Params, error) {
	if page < 0 {
		page = 0
	}
	start, end, err := DateRange(s.mode, s.startDate, s.endDate, now)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Limit:     s.pageSize,
		Offset:    page * s.pageSize,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// DateRange computes the calendar dates of a range. Preset ranges end today
// and start N days earlier; custom ranges pass the user dates through and
// require both of them.
func DateRange(mode RangeMode, startDate, endDate string, now time.Time) (string, string, error) {
	if days, ok := presetDays[mode]; ok {
		end := now
		start := now.AddDate(0, 0, -days)
		return start.Format(DateLayout), end.Format(DateLayout), nil
	}
	if mode != RangeCustom {
		return "", "", fmt.Errorf("%w: unknown range %q", errorvalues.ErrValidation, mode)
	}
	if startDate == "" || endDate == "" {
		return "", "", fmt.Errorf("%w: custom range needs both a start and an end date", errorvalues.ErrValidation)
	}
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return "", "", fmt.Errorf("%w: start date %q is not YYYY-MM-DD", errorvalues.ErrValidation, startDate)
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return "", "", fmt.Errorf("%w: end date %q is not YYYY-MM-DD", errorvalues.ErrValidation, endDate)
	}
	if end.Before(start) {
		return "", "", fmt.Errorf("%w: end date is before start date", errorvalues.ErrValidation)
	}
	return startDate, endDate, nil
}

// StatsDays maps a range to the days parameter of GET /api/stats. Custom
// ranges use their inclusive span.
func StatsDays(mode RangeMode, startDate, endDate string, now time.Time) (int, error) {
	if days, ok := presetDays[mode]; ok {
		return days, nil
	}
	start, end, err := DateRange(mode, startDate, endDate, now)
	if err != nil {
		return 0, err
	}
	s, _ := time.Parse(DateLayout, start)
	e, _ := time.Parse(DateLayout, end)
	return int(e.Sub(s).Hours()/24) + 1, nil
}
