// Package pagination splits an ordered listing into numbered pages.
package pagination

import "strconv"

// PostsPerPage is the page size used by every post listing.
const PostsPerPage = 10

// Page is one slice of a listing together with its position among the pages.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int
}

// Paginate returns the page selected by pageParam. Unparsable values and
// numbers below one select the first page, numbers past the end select the
// last. An empty listing still has one (empty) page.
func Paginate[T any](items []T, pageParam string, perPage int) Page[T] {
	if perPage < 1 {
		perPage = PostsPerPage
	}

	numPages := (len(items) + perPage - 1) / perPage
	if numPages == 0 {
		numPages = 1
	}

	number, err := strconv.Atoi(pageParam)
	if err != nil || number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	start := (number - 1) * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:    items[start:end],
		Number:   number,
		NumPages: numPages,
		Count:    len(items),
	}
}

func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

func (p Page[T]) HasNext() bool { return p.Number < p.NumPages }

func (p Page[T]) HasOtherPages() bool { return p.HasPrevious() || p.HasNext() }

func (p Page[T]) PreviousPageNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

func (p Page[T]) NextPageNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

// PageRange lists every page number, for rendering the paginator links.
func (p Page[T]) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
