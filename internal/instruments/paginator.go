package instruments

import (
	"context"
	"sync"

	"github.com/mmcdole/instrumenta/internal/domain"
)

// DefaultPageSize is the initial page size of a Paginator.
const DefaultPageSize = 10

// Paginator walks the instrument list one page at a time.
type Paginator struct {
	mu      sync.Mutex
	queries *Queries
	page    int
	limit   int
	total   int
	search  string
	filters domain.SearchFilters
}

// NewPaginator starts at page 1. limit <= 0 uses DefaultPageSize.
func NewPaginator(queries *Queries, limit int) *Paginator {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &Paginator{queries: queries, page: 1, limit: limit}
}

func (p *Paginator) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Paginator) Limit() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.limit
}

func (p *Paginator) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// TotalPages is ceil(total/limit), or 0 while the total is unknown.
func (p *Paginator) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalPages()
}

func (p *Paginator) totalPages() int {
	if p.total <= 0 || p.limit <= 0 {
		return 0
	}
	return (p.total + p.limit - 1) / p.limit
}

func (p *Paginator) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page < p.totalPages()
}

func (p *Paginator) HasPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page > 1
}

// GoToPage moves to n when 1 <= n <= TotalPages and reports whether it moved.
func (p *Paginator) GoToPage(n int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 1 || n > p.totalPages() {
		return false
	}
	p.page = n
	return true
}

func (p *Paginator) Next() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.page >= p.totalPages() {
		return false
	}
	p.page++
	return true
}

func (p *Paginator) Prev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// SetLimit changes the page size. The current page number is kept.
func (p *Paginator) SetLimit(limit int) {
	if limit <= 0 {
		return
	}
	p.mu.Lock()
	p.limit = limit
	p.mu.Unlock()
}

// SetTotal records the total reported by the server.
func (p *Paginator) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.mu.Lock()
	p.total = total
	p.mu.Unlock()
}

// SetQuery narrows the list and returns to page 1.
func (p *Paginator) SetQuery(search string, filters domain.SearchFilters) {
	p.mu.Lock()
	p.search = search
	p.filters = filters
	p.page = 1
	p.mu.Unlock()
}

// Options is the list request for the current page.
func (p *Paginator) Options() domain.ListOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return domain.ListOptions{Page: p.page, Limit: p.limit, Search: p.search, Filters: p.filters}
}

// Load fetches the current page and records its total.
func (p *Paginator) Load(ctx context.Context) (domain.Page[domain.Instrument], error) {
	page, err := p.queries.List(ctx, p.Options())
	if err != nil {
		return page, err
	}
	p.SetTotal(page.Total())
	return page, nil
}
