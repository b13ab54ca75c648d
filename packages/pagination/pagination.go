// Package pagination implements the cursor pages returned by list endpoints.
package pagination

import (
	"errors"
	"net/http"

	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
	"github.com/telnet2/orb-sdk-go/packages/bag"
)

// Metadata describes where a page sits in its listing.
type Metadata struct {
	bag.Bag
}

// HasMore reports whether another page follows.
func (r Metadata) HasMore() (bool, error) {
	return bag.Get[bool](&r.Bag, "has_more")
}

// NextCursor is the cursor of the following page, null on the last page.
func (r Metadata) NextCursor() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "next_cursor")
}

func (r Metadata) Validate() error {
	return bag.First(
		bag.Check(r.HasMore()),
		bag.Check(r.NextCursor()),
	)
}

// Page is one page of a cursor listing:
//
//	{"data": [...], "pagination_metadata": {"has_more": true, "next_cursor": "..."}}
type Page[T any] struct {
	bag.Bag
	cfg *requestconfig.RequestConfig
	res *http.Response
}

// Data decodes the items of the page.
func (r Page[T]) Data() ([]T, error) {
	return bag.Get[[]T](&r.Bag, "data")
}

func (r Page[T]) PaginationMetadata() (Metadata, error) {
	return bag.Get[Metadata](&r.Bag, "pagination_metadata")
}

func (r Page[T]) Validate() error {
	return bag.First(
		bag.Check(r.Data()),
		bag.Check(r.PaginationMetadata()),
	)
}

// Response returns the HTTP response the page was read from.
func (r *Page[T]) Response() *http.Response {
	return r.res
}

// SetPageConfig keeps the request that produced the page so the following
// page can be requested with the same parameters.
func (r *Page[T]) SetPageConfig(cfg *requestconfig.RequestConfig, res *http.Response) {
	if r == nil {
		return
	}
	r.cfg = cfg
	r.res = res
}

// GetNextPage requests the page following r. It returns nil without an error
// when r is the last page.
func (r *Page[T]) GetNextPage() (*Page[T], error) {
	meta, err := r.PaginationMetadata()
	if err != nil {
		return nil, err
	}
	more, err := meta.HasMore()
	if err != nil {
		return nil, err
	}
	cursor, err := meta.NextCursor()
	if err != nil {
		return nil, err
	}
	if !more || !cursor.Valid || cursor.Value == "" {
		return nil, nil
	}
	if r.cfg == nil {
		return nil, errors.New("pagination: page was not produced by a request")
	}

	cfg := r.cfg.Clone(r.cfg.Context)
	query := cfg.Request.URL.Query()
	query.Set("cursor", cursor.Value)
	cfg.Request.URL.RawQuery = query.Encode()

	var next Page[T]
	cfg.ResponseBodyInto = &next
	if err := cfg.Execute(); err != nil {
		return nil, err
	}
	return &next, nil
}

// PageAutoPager iterates over the items of a listing, requesting pages as
// needed.
//
//	iter := client.Customers.ListAutoPaging(ctx, params)
//	for iter.Next() {
//		customer := iter.Current()
//	}
//	if err := iter.Err(); err != nil { ... }
type PageAutoPager[T any] struct {
	page *Page[T]
	data []T
	cur  T
	idx  int
	run  int
	err  error
}

// NewPageAutoPager starts iterating at page. A non-nil err is reported by Err
// and stops the iteration before it starts.
func NewPageAutoPager[T any](page *Page[T], err error) *PageAutoPager[T] {
	pager := &PageAutoPager[T]{page: page, err: err}
	if err == nil && page != nil {
		pager.data, pager.err = page.Data()
	}
	return pager
}

// Next advances to the next item and reports whether there is one.
func (r *PageAutoPager[T]) Next() bool {
	if r.page == nil || r.err != nil {
		return false
	}
	for r.idx >= len(r.data) {
		r.idx = 0
		r.page, r.err = r.page.GetNextPage()
		if r.err != nil || r.page == nil {
			return false
		}
		if r.data, r.err = r.page.Data(); r.err != nil {
			return false
		}
	}
	r.cur = r.data[r.idx]
	r.idx++
	r.run++
	return true
}

func (r *PageAutoPager[T]) Current() T {
	return r.cur
}

func (r *PageAutoPager[T]) Err() error {
	return r.err
}

// Index is the position of the current item across all pages.
func (r *PageAutoPager[T]) Index() int {
	return r.run - 1
}
