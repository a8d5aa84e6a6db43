// Post-extraction re-validation of an enriched job against the original
// search criteria. Pure and deterministic; sites routinely return rows that
// only loosely honor their own filters, so every emitted job passes through
// here first.

package match

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go-jobdb-automation/internal/models"

	"golang.org/x/text/width"
)

// Result reports whether a job satisfies the criteria, with a human-readable
// reason on failure.
type Result struct {
	Match  bool
	Reason string
}

// Go's \s covers ASCII whitespace only; the ideographic space U+3000 that
// Japanese input methods produce between terms must be listed explicitly.
var (
	keywordSplitRe = regexp.MustCompile(`[\s,，　]+`)
	salaryRe       = regexp.MustCompile(`(\d+)万円`)
)

// normalize folds full-width/half-width variants and lowercases, so that
// ｅｎｇｉｎｅｅｒ and engineer compare equal.
func normalize(s string) string {
	return strings.ToLower(width.Fold.String(s))
}

// Keywords splits a free-text query into its AND-matched terms.
func Keywords(query string) []string {
	var terms []string
	for _, t := range keywordSplitRe.Split(query, -1) {
		if strings.TrimSpace(t) != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// MinListedSalary parses the leading figure of the first N万円 token in a
// salary string. The second return is false when nothing parses.
func MinListedSalary(salary string) (int, bool) {
	m := salaryRe.FindStringSubmatch(width.Fold.String(salary))
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate re-checks an enriched job against the criteria. The three checks
// are independent and short-circuit on the first failure; an absent criterion
// always passes its check.
func Validate(job models.EnrichedJob, criteria models.FilterCriteria) Result {
	fullText := normalize(job.Title + job.Detail.Description + job.Detail.Requirements + job.Company)

	// Keyword AND check
	if criteria.Query != "" {
		for _, kw := range Keywords(criteria.Query) {
			if !strings.Contains(fullText, normalize(kw)) {
				return Result{Match: false, Reason: fmt.Sprintf("キーワード「%s」が見つかりません", kw)}
			}
		}
	}

	// Salary floor check
	if criteria.MinSalary != "" {
		if minVal, err := strconv.Atoi(strings.TrimSpace(criteria.MinSalary)); err == nil {
			if listed, ok := MinListedSalary(job.Salary); ok && listed < minVal {
				return Result{Match: false, Reason: fmt.Sprintf("年収(%d万)が希望(%d万)を下回っています", listed, minVal)}
			}
		}
	}

	// Location containment check, both directions: listing text may sit at
	// prefecture level while the criterion names a city, or vice versa.
	if criteria.Location != "" && criteria.Location != models.Nationwide && criteria.Location != models.NoLocation {
		jobLoc := normalize(job.Location)
		filterLoc := normalize(criteria.Location)
		if !strings.Contains(jobLoc, filterLoc) && !strings.Contains(filterLoc, jobLoc) {
			return Result{Match: false, Reason: fmt.Sprintf("勤務地「%s」が条件「%s」に合致しません", job.Location, criteria.Location)}
		}
	}

	return Result{Match: true}
}
