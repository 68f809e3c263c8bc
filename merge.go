package isocert

import (
	"sort"
	"strings"
	"time"
)

// dateLayouts are tried in order when comparing record dates.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// MergeCertifications folds records describing the same certification into
// one entity and ranks the result by the number of corroborating sources.
//
// Records are processed in the order given, so callers should pass the most
// trusted family first: the first record seen for a merge key becomes the
// base entity and later records only add sources and bodies, move dates
// forward, or raise the status by precedence. Records that fail Validate
// are skipped. The input is never mutated.
func MergeCertifications(records []*Certification) []*Certification {
	index := make(map[string]*Certification)
	var merged []*Certification

	for _, rec := range records {
		if rec == nil || rec.Validate() != nil {
			continue
		}
		key := rec.MergeKey()
		existing, ok := index[key]
		if !ok {
			c := rec.Clone()
			index[key] = c
			merged = append(merged, c)
			continue
		}
		mergeInto(existing, rec)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return len(merged[i].Sources) > len(merged[j].Sources)
	})

	if merged == nil {
		return []*Certification{}
	}
	return merged
}

func mergeInto(dst, src *Certification) {
	for _, s := range src.Sources {
		if !hasSource(dst.Sources, s) {
			dst.Sources = append(dst.Sources, s)
		}
	}

	for _, b := range src.CertificationBodies {
		if !hasBody(dst.CertificationBodies, b) {
			dst.CertificationBodies = append(dst.CertificationBodies, b)
		}
	}

	if isLaterDate(src.IssuedDate, dst.IssuedDate) {
		dst.IssuedDate = src.IssuedDate
	}
	if isLaterDate(src.ExpiryDate, dst.ExpiryDate) {
		dst.ExpiryDate = src.ExpiryDate
	}

	if src.Status.Overrides(dst.Status) {
		dst.Status = src.Status
	}

	if dst.CompanyNameEn == "" {
		dst.CompanyNameEn = src.CompanyNameEn
	}
}

func hasSource(sources []Source, s Source) bool {
	for _, existing := range sources {
		if existing.URL == s.URL && existing.Source == s.Source {
			return true
		}
	}
	return false
}

func hasBody(bodies []Body, b Body) bool {
	for _, existing := range bodies {
		if strings.EqualFold(existing.Name, b.Name) {
			return true
		}
	}
	return false
}

// isLaterDate reports whether incoming should replace existing. An empty
// existing date is filled by any parseable incoming date; otherwise both must
// parse and incoming must be strictly later.
func isLaterDate(incoming, existing string) bool {
	in, ok := parseDate(incoming)
	if !ok {
		return false
	}
	if existing == "" {
		return true
	}
	ex, ok := parseDate(existing)
	if !ok {
		return false
	}
	return in.After(ex)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
