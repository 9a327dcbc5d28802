package httpx

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPageNumber keeps Number*Size within an int.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// Page is a zero-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int { return p.Number * p.Size }

// ParsePage reads "page" and "size" query parameters. Missing values fall
// back to page 0 and DefaultPageSize; size is capped at MaxPageSize.
func ParsePage(r *http.Request) (Page, error) {
	p := Page{Number: 0, Size: DefaultPageSize}
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Page{}, fmt.Errorf("page must be a non-negative integer, got %q", v)
		}
		if n > MaxPageNumber {
			return Page{}, fmt.Errorf("page must not exceed %d, got %q", MaxPageNumber, v)
		}
		p.Number = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Page{}, fmt.Errorf("size must be a positive integer, got %q", v)
		}
		p.Size = min(n, MaxPageSize)
	}
	return p, nil
}

// TotalPages returns how many pages of size hold total items.
func TotalPages(total int64, size int) int64 {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}

// WritePaginationHeaders sets X-Total-Count and an RFC 5988 Link header
// with next, prev, last and first relations. next and prev are omitted
// when there is no such page; last is page 0 for an empty result.
func WritePaginationHeaders(w http.ResponseWriter, base *url.URL, page Page, total int64) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	w.Header().Set("Link", PaginationLink(base, page, total))
}

// PaginationLink builds the Link header value.
func PaginationLink(base *url.URL, page Page, total int64) string {
	totalPages := TotalPages(total, page.Size)
	lastPage := max(totalPages-1, 0)

	var links []string
	if int64(page.Number)+1 < totalPages {
		links = append(links, pageLink(base, int64(page.Number)+1, page.Size, "next"))
	}
	if page.Number > 0 {
		links = append(links, pageLink(base, int64(page.Number)-1, page.Size, "prev"))
	}
	links = append(links,
		pageLink(base, lastPage, page.Size, "last"),
		pageLink(base, 0, page.Size, "first"),
	)
	return strings.Join(links, ",")
}

func pageLink(base *url.URL, number int64, size int, rel string) string {
	u := *base
	q := u.Query()
	q.Set("page", strconv.FormatInt(number, 10))
	q.Set("size", strconv.Itoa(size))
	u.RawQuery = q.Encode()
	return fmt.Sprintf(`<%s>; rel="%s"`, u.String(), rel)
}
