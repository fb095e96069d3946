package html

import (
	"fmt"
	"net/url"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Pagination links for a list of total items, limit per page, starting at offset.
// The href must end in either "?" or "&", so the page parameters can be appended.
func Pagination(href string, total, limit, offset int) Node {
	if limit <= 0 {
		return nil
	}

	totalPages := (total + limit - 1) / limit
	currentPage := offset/limit + 1

	return Nav(Class("pagination"), Aria("label", "Pages"),
		Map(pageNumbers(currentPage, totalPages), func(page int) Node {
			switch page {
			case gap:
				return Span(Class("page page-gap"), Text("…"))
			case currentPage:
				return Span(Class("page page-current"), Aria("current", "page"), Textf("%d", page))
			default:
				vs := url.Values{}
				vs.Set("offset", fmt.Sprint((page-1)*limit))
				vs.Set("limit", fmt.Sprint(limit))
				return A(Href(href+vs.Encode()), Class("page"), Textf("%d", page))
			}
		}),
	)
}

const gap = -1

// pageNumbers to show, with at most seven entries. Gaps are marked with [gap].
func pageNumbers(current, total int) []int {
	const maxEntries = 7

	var pages []int

	switch {
	case total <= maxEntries:
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}

	case current <= 4:
		for i := 1; i <= 5; i++ {
			pages = append(pages, i)
		}
		pages = append(pages, gap, total)

	case current >= total-3:
		pages = append(pages, 1, gap)
		for i := total - 4; i <= total; i++ {
			pages = append(pages, i)
		}

	default:
		pages = append(pages, 1, gap, current-1, current, current+1, gap, total)
	}

	return pages
}
