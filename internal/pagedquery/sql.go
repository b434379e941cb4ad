package pagedquery

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Row-shaping clauses that make SELECT COUNT(*) over the same FROM differ
	// from the number of rows the query returns.
	groupedRe = regexp.MustCompile(`(?i)\b(GROUP\s+BY|DISTINCT|UNION|INTERSECT|EXCEPT)\b`)
	fromRe    = regexp.MustCompile(`(?i)\sFROM\s`)
	tailRe    = regexp.MustCompile(`(?i)\s(ORDER\s+BY|LIMIT|OFFSET)\b`)
)

// IsGrouped reports whether query groups or de-duplicates its rows.
func IsGrouped(query string) bool {
	return groupedRe.MatchString(query)
}

// CountQuery rewrites query into a SELECT COUNT(*) over the same FROM and
// WHERE clauses, dropping ORDER BY, LIMIT and OFFSET. ok is false when the
// query is grouped or has no top-level FROM clause.
func CountQuery(query string) (count string, ok bool) {
	if IsGrouped(query) {
		return "", false
	}
	at := topLevel(fromRe, query)
	if at < 0 {
		return "", false
	}
	count = "SELECT COUNT(*)" + query[at:]
	if tail := topLevel(tailRe, count); tail >= 0 {
		count = count[:tail]
	}
	return trimQuery(count), true
}

// WrapCountQuery counts the rows of query by using it as a derived table.
func WrapCountQuery(query string) string {
	return "SELECT COUNT(*) FROM (" + trimQuery(query) + ") AS paged_count"
}

// topLevel returns the offset of the first match of re outside parentheses,
// or -1. Subqueries and calls like EXTRACT(YEAR FROM d) are skipped.
func topLevel(re *regexp.Regexp, query string) int {
	for _, loc := range re.FindAllStringIndex(query, -1) {
		head := query[:loc[0]]
		if strings.Count(head, "(") == strings.Count(head, ")") {
			return loc[0]
		}
	}
	return -1
}

// LimitClause bounds query to the rows of w. A window with All set leaves
// the query unbounded.
func LimitClause(query string, w Window) string {
	if w.All {
		return trimQuery(query)
	}
	return fmt.Sprintf("%s LIMIT %d OFFSET %d", trimQuery(query), max(w.Limit, 0), max(w.Offset, 0))
}

func trimQuery(query string) string {
	return strings.TrimRight(strings.TrimSpace(query), "; \t\r\n")
}
