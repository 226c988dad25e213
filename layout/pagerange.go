package layout

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"catalog-studio/models"
)

// ResolvePageRange turns an export range selection into a sorted, de-duplicated page list.
// The result is never empty: an unusable custom range falls back to the current page.
func ResolvePageRange(mode, customRange string, currentPage, totalPages int) []int {
	if totalPages < 1 {
		totalPages = 1
	}
	current := clampPage(currentPage, totalPages)

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case models.RangeAll:
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	case models.RangeCustom:
		pages := ParseRange(customRange, totalPages)
		if len(pages) == 0 {
			return []int{current}
		}
		return pages
	default:
		return []int{current}
	}
}

// ParseRange parses "1-3,5" style input. Malformed tokens are skipped and page
// numbers outside 1..totalPages are dropped. A reversed range ("5-2") is read as "2-5".
func ParseRange(customRange string, totalPages int) []int {
	seen := make(map[int]bool)
	for _, raw := range strings.Split(customRange, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}

		if singlePagePattern.MatchString(token) {
			if n, err := strconv.Atoi(token); err == nil && n >= 1 && n <= totalPages {
				seen[n] = true
			}
			continue
		}

		from, to, ok := parseSpan(token)
		if !ok {
			continue
		}
		if from > to {
			from, to = to, from
		}
		if from < 1 {
			from = 1
		}
		if to > totalPages {
			to = totalPages
		}
		for n := from; n <= to; n++ {
			seen[n] = true
		}
	}

	pages := make([]int, 0, len(seen))
	for n := range seen {
		pages = append(pages, n)
	}
	sort.Ints(pages)
	return pages
}

// Only unsigned digits are page numbers; "+2", "1--3" and "3-+4" are malformed
var (
	singlePagePattern = regexp.MustCompile(`^\d+$`)
	spanPattern       = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
)

func parseSpan(token string) (int, int, bool) {
	m := spanPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, 0, false
	}
	from, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	to, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return from, to, true
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
