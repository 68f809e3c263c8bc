package isocert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoTypePattern = regexp.MustCompile(`ISO\s+\d{4,5}(?::\d{4})?`)
	datePattern    = regexp.MustCompile(`(\d{4})[.\-](\d{1,2})[.\-](\d{1,2})`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// ExtractISOTypes returns the ISO standard identifiers found in text, such as
// "ISO 9001:2015", in order of first appearance and without duplicates.
func ExtractISOTypes(text string) []string {
	matches := isoTypePattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	var types []string
	for _, m := range matches {
		m = spacePattern.ReplaceAllString(m, " ")
		if seen[m] {
			continue
		}
		seen[m] = true
		types = append(types, m)
	}
	return types
}

// NormalizeDate returns the first YYYY-MM-DD, YYYY.MM.DD or YYYY.M.D date in
// text as a zero-padded YYYY-MM-DD string. It returns "" when text holds no
// such date or the date does not exist on the calendar.
func NormalizeDate(text string) string {
	m := datePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	s := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}

// DetermineStatus derives a status from an expiry date relative to now.
// Missing or unparseable expiry dates yield StatusUnknown.
func DetermineStatus(expiryDate string, now time.Time) Status {
	expiry, ok := parseDate(expiryDate)
	if !ok {
		return StatusUnknown
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if expiry.Before(today) {
		return StatusExpired
	}
	return StatusValid
}

// KnownBody describes a certifying body recognised in free text.
type KnownBody struct {
	Name    string
	Code    string
	Aliases []string
}

// KnownBodies is the lookup table used to recognise certifying bodies.
var KnownBodies = []KnownBody{
	{Name: "한국표준협회", Code: "KSA", Aliases: []string{"Korean Standards Association"}},
	{Name: "한국품질재단", Code: "KFQ", Aliases: []string{"Korea Foundation for Quality"}},
	{Name: "한국산업기술시험원", Code: "KTL", Aliases: []string{"Korea Testing Laboratory"}},
	{Name: "로이드", Code: "LRQA", Aliases: []string{"Lloyd's Register", "로이드인증원"}},
	{Name: "DQS", Code: "DQS", Aliases: []string{"디큐에스"}},
	{Name: "TÜV", Code: "TUV", Aliases: []string{"TÜV SÜD", "TÜV Rheinland", "티유브이"}},
	{Name: "DNV", Code: "DNV", Aliases: []string{"DNV GL", "디엔브이"}},
	{Name: "Bureau Veritas", Code: "BV", Aliases: []string{"뷰로베리타스"}},
	{Name: "American Bureau of Shipping", Code: "ABS"},
	{Name: "RINA", Code: "RINA", Aliases: []string{"리나"}},
	{Name: "SGS", Code: "SGS", Aliases: []string{"에스지에스"}},
	{Name: "BSI", Code: "BSI", Aliases: []string{"British Standards Institution", "영국표준협회"}},
}

// MatchBodies returns the known certifying bodies mentioned in text, in table
// order. Matching is a case-insensitive substring test against the body's
// name, code and aliases. Unmatched bodies are omitted.
func MatchBodies(text string) []Body {
	lower := strings.ToLower(text)
	var bodies []Body
	for _, kb := range KnownBodies {
		if kb.matches(lower) {
			bodies = append(bodies, Body{Name: kb.Name, Code: kb.Code})
		}
	}
	return bodies
}

func (kb KnownBody) matches(lower string) bool {
	if strings.Contains(lower, strings.ToLower(kb.Name)) {
		return true
	}
	if kb.Code != "" && strings.Contains(lower, strings.ToLower(kb.Code)) {
		return true
	}
	for _, alias := range kb.Aliases {
		if strings.Contains(lower, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}
