package filter

import (
	"net/url"
	"strings"
)

// Query parameter names of shareable links.
const (
	ParamDate      = "date"
	ParamArea      = "area"
	ParamMult      = "mult"
	ParamTitle     = "title"
	ParamSearch    = "search"
	ParamShowLate  = "showLate"
	ParamSortMult  = "sortMult"
	ParamSort      = "sort"
	ParamDebugTime = "debug_time"
)

// ParseQuery builds a State from link parameters, starting from Default.
// Absent parameters keep their defaults; unrecognized bucket values are
// ignored the same way an unknown toggle would be.
//
// Recognized parameters:
//   - date: today | tomorrow | all
//   - area, title: keyword, may repeat
//   - mult: 10-19 | 20-29 | 30-39 | 40-49 | 50plus
//   - search: free text
//   - showLate=1: keep rows past late registration
//   - sortMult=1: multiplier descending (wins over sort)
//   - sort: key for ascending, -key for descending
func ParseQuery(q url.Values) State {
	s := Default()

	if q.Has(ParamDate) {
		if d, err := ParseDateBucket(q.Get(ParamDate)); err == nil {
			s.Date = d
		}
	}
	s.Areas = nonEmpty(q[ParamArea])
	if b, err := ParseMultBucket(q.Get(ParamMult)); err == nil {
		s.Mult = b
	}
	s.Titles = nonEmpty(q[ParamTitle])
	s.Search = strings.TrimSpace(q.Get(ParamSearch))
	s.ShowExpired = q.Get(ParamShowLate) == "1"

	switch {
	case q.Get(ParamSortMult) == "1":
		s.Sort = MultiplierSort()
	case q.Get(ParamSort) != "":
		s.Sort = parseSort(q.Get(ParamSort))
	}
	return s
}

// ParseRawQuery is ParseQuery over an encoded query string. A malformed
// string yields the default state.
func ParseRawQuery(raw string) State {
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return Default()
	}
	return ParseQuery(q)
}

// Values serializes s, omitting every parameter at its default.
func (s State) Values() url.Values {
	q := url.Values{}

	switch s.Date {
	case DateToday:
	case DateNone:
		q.Set(ParamDate, "all")
	default:
		q.Set(ParamDate, string(s.Date))
	}
	for _, a := range s.keywords(s.Areas) {
		q.Add(ParamArea, a)
	}
	if s.Mult != MultNone {
		q.Set(ParamMult, string(s.Mult))
	}
	for _, t := range s.keywords(s.Titles) {
		q.Add(ParamTitle, t)
	}
	if term := s.searchTerm(); term != "" {
		q.Set(ParamSearch, term)
	}
	if s.ShowExpired {
		q.Set(ParamShowLate, "1")
	}

	switch s.Sort {
	case DefaultSort(), Sort{}:
	case MultiplierSort():
		q.Set(ParamSortMult, "1")
	default:
		key := s.Sort.Key
		if s.Sort.Desc {
			key = "-" + key
		}
		q.Set(ParamSort, key)
	}
	return q
}

// Encode returns the query string for s ("" for the default state).
func (s State) Encode() string {
	return s.Values().Encode()
}

func parseSort(v string) Sort {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "-") {
		return Sort{Key: strings.TrimPrefix(v, "-"), Desc: true}
	}
	return Sort{Key: v}
}

func nonEmpty(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
