package views

import "github.com/charmbracelet/bubbles/paginator"

// List tracks a cursor over a paged slice of rows
type List struct {
	pager  paginator.Model
	cursor int
	total  int
}

// NewList creates a list showing perPage rows at a time
func NewList(perPage int) *List {
	if perPage <= 0 {
		perPage = 10
	}
	p := paginator.New()
	p.Type = paginator.Dots
	p.PerPage = perPage
	p.ActiveDot = "●"
	p.InactiveDot = "○"
	return &List{pager: p}
}

// SetTotal sets the row count, keeping the cursor in range
func (l *List) SetTotal(total int) {
	l.total = total
	if total < 1 {
		l.pager.TotalPages = 1
	} else {
		l.pager.SetTotalPages(total)
	}
	l.SetCursor(l.cursor)
}

// Total returns the row count
func (l *List) Total() int {
	return l.total
}

// Cursor returns the absolute index of the selected row
func (l *List) Cursor() int {
	return l.cursor
}

// SetCursor moves the cursor and the page it is on
func (l *List) SetCursor(pos int) {
	if pos >= l.total {
		pos = l.total - 1
	}
	if pos < 0 {
		pos = 0
	}
	l.cursor = pos
	l.pager.Page = pos / l.pager.PerPage
}

// CursorUp moves the cursor up by one
func (l *List) CursorUp() bool {
	if l.cursor == 0 {
		return false
	}
	l.SetCursor(l.cursor - 1)
	return true
}

// CursorDown moves the cursor down by one
func (l *List) CursorDown() bool {
	if l.cursor >= l.total-1 {
		return false
	}
	l.SetCursor(l.cursor + 1)
	return true
}

// NextPage jumps to the first row of the next page
func (l *List) NextPage() bool {
	if l.pager.OnLastPage() {
		return false
	}
	l.pager.NextPage()
	l.cursor = l.pager.Page * l.pager.PerPage
	return true
}

// PrevPage jumps to the first row of the previous page
func (l *List) PrevPage() bool {
	if l.pager.OnFirstPage() {
		return false
	}
	l.pager.PrevPage()
	l.cursor = l.pager.Page * l.pager.PerPage
	return true
}

// VisibleRange returns the slice bounds of the current page
func (l *List) VisibleRange() (start, end int) {
	return l.pager.GetSliceBounds(l.total)
}

// Page returns the current page, 1-based
func (l *List) Page() int {
	return l.pager.Page + 1
}

// TotalPages returns at least 1
func (l *List) TotalPages() int {
	return max(l.pager.TotalPages, 1)
}

// PagerView renders the page dots, or nothing for a single page
func (l *List) PagerView() string {
	if l.pager.TotalPages <= 1 {
		return ""
	}
	return l.pager.View()
}

// Reset empties the list
func (l *List) Reset() {
	l.cursor = 0
	l.total = 0
	l.pager.Page = 0
	l.pager.TotalPages = 1
}
