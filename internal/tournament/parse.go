package tournament

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// ParseAmount parses a money cell such as "1,234円" or "¥5,000".
// Thousands separators, whitespace and currency markers are stripped.
// Full-width digits are folded to ASCII first. Returns ok=false for empty or
// non-numeric input. Negative values are passed through unchanged.
func ParseAmount(text string) (float64, bool) {
	s := strings.Map(func(r rune) rune {
		if r == ',' || r == '円' || r == '¥' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, width.Fold.String(text))
	if s == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// prizeUnits maps a magnitude word directly following an amount to its factor.
var prizeUnits = map[rune]float64{
	'万': 10000,
	'千': 1000,
	'k':  1000,
	'K':  1000,
	'm':  1000000,
	'M':  1000000,
	'円':  1,
}

var bracketStripper = strings.NewReplacer("［", "", "］", "", "【", "", "】", "")

// ParsePrizeBreakdown sums the amounts listed in a free-form prize text.
//
// Supported shapes include "50000/30000/20000", "5k, 3k, 2k",
// "5,000円 ×2 / 2,500", "1万/5千" and "50,000 + Ticket". Every amount may carry
// a magnitude unit (万, 千, k, m, 円) and a trailing "×N" or "xN" count.
// Tokens that are not amounts are skipped. Returns ok=false only when the text
// contains no amount at all; otherwise the sum is rounded to an integer.
func ParsePrizeBreakdown(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}

	sc := prizeScanner{src: []rune(width.Fold.String(bracketStripper.Replace(text)))}
	var sum float64
	found := false
	for {
		amount, ok := sc.next()
		if !ok {
			break
		}
		sum += amount
		found = true
	}
	if !found {
		return 0, false
	}
	return math.Round(sum), true
}

// prizeScanner walks a prize text left to right and yields one amount per
// "<number>[unit][×N]" token. It never backtracks.
type prizeScanner struct {
	src []rune
	pos int
}

func (s *prizeScanner) next() (float64, bool) {
	for s.pos < len(s.src) {
		if !isDigit(s.src[s.pos]) {
			s.pos++
			continue
		}

		base, ok := s.number()
		if !ok {
			continue
		}

		s.pos = s.skipSpace(s.pos)
		if s.pos < len(s.src) {
			if factor, isUnit := prizeUnits[s.src[s.pos]]; isUnit {
				base *= factor
				s.pos++
			}
		}

		if times, ok := s.times(); ok && times > 0 {
			base *= times
		}
		return base, true
	}
	return 0, false
}

// number consumes a run of digits and grouping commas with an optional
// decimal part.
func (s *prizeScanner) number() (float64, bool) {
	var b strings.Builder
	for s.pos < len(s.src) && (isDigit(s.src[s.pos]) || s.src[s.pos] == ',') {
		if s.src[s.pos] != ',' {
			b.WriteRune(s.src[s.pos])
		}
		s.pos++
	}
	if s.pos+1 < len(s.src) && s.src[s.pos] == '.' && isDigit(s.src[s.pos+1]) {
		b.WriteRune('.')
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			b.WriteRune(s.src[s.pos])
			s.pos++
		}
	}

	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// times consumes an optional "×N" suffix. The position only advances when a
// complete suffix is present.
func (s *prizeScanner) times() (float64, bool) {
	i := s.skipSpace(s.pos)
	if i >= len(s.src) || (s.src[i] != 'x' && s.src[i] != '×') {
		return 0, false
	}
	i = s.skipSpace(i + 1)
	start := i
	for i < len(s.src) && isDigit(s.src[i]) {
		i++
	}
	if i == start {
		return 0, false
	}

	n, err := strconv.ParseFloat(string(s.src[start:i]), 64)
	if err != nil || math.IsInf(n, 0) {
		return 0, false
	}
	s.pos = i
	return n, true
}

func (s *prizeScanner) skipSpace(i int) int {
	for i < len(s.src) && unicode.IsSpace(s.src[i]) {
		i++
	}
	return i
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
