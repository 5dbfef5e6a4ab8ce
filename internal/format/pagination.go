package format

import "github.com/felixgeelhaar/scribe/internal/domain"

// PageItem is one slot of a pagination control: a page number or a gap
type PageItem struct {
	Number   int
	Ellipsis bool
}

// maxPlainPages is the largest page count shown without gaps
const maxPlainPages = 7

// PageNumbers lays out the page buttons for meta. It returns nil when the
// control should not be shown at all (a single page or none).
//
// Up to seven pages are listed in full. Beyond that the first and last page
// are always shown with a window of one page around the current one, and a
// gap marks any skipped range.
func PageNumbers(meta domain.PageMeta) []PageItem {
	last, cur := meta.LastPage, meta.CurrentPage
	if last <= 1 {
		return nil
	}

	var items []PageItem
	if last <= maxPlainPages {
		for i := 1; i <= last; i++ {
			items = append(items, PageItem{Number: i})
		}
		return items
	}

	items = append(items, PageItem{Number: 1})
	if cur > 3 {
		items = append(items, PageItem{Ellipsis: true})
	}

	start := max(2, cur-1)
	end := min(last-1, cur+1)
	for i := start; i <= end; i++ {
		items = append(items, PageItem{Number: i})
	}

	if cur < last-2 {
		items = append(items, PageItem{Ellipsis: true})
	}
	return append(items, PageItem{Number: last})
}
