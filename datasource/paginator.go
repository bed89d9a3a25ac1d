package datasource

import "sync"

// Paginator selects a page of the filtered and sorted data
// of an ArrayDataSource.
//
// The page index is clamped to the last page whenever
// the length of the data shrinks below it.
type Paginator struct {
	mtx       sync.Mutex
	pageIndex int
	pageSize  int
	length    int
	onChange  func()
}

// NewPaginator returns a Paginator showing the first page
// with pageSize records.
// A pageSize of zero or less shows all records on one page.
func NewPaginator(pageSize int) *Paginator {
	return &Paginator{pageSize: pageSize}
}

func (p *Paginator) PageIndex() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.pageIndex
}

func (p *Paginator) PageSize() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.pageSize
}

// Length returns the number of paginated records.
func (p *Paginator) Length() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.length
}

// NumPages returns the number of pages, at least one.
func (p *Paginator) NumPages() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.numPages()
}

func (p *Paginator) numPages() int {
	if p.pageSize <= 0 || p.length == 0 {
		return 1
	}
	return (p.length + p.pageSize - 1) / p.pageSize
}

// SetPageIndex shows the page at index, clamped to the existing pages.
func (p *Paginator) SetPageIndex(index int) {
	p.update(func() {
		p.pageIndex = index
	})
}

// SetPageSize changes the page size keeping the first
// record of the current page visible.
func (p *Paginator) SetPageSize(size int) {
	p.update(func() {
		first := p.pageIndex * max(p.pageSize, 0)
		p.pageSize = size
		if size > 0 {
			p.pageIndex = first / size
		} else {
			p.pageIndex = 0
		}
	})
}

func (p *Paginator) NextPage() {
	p.update(func() { p.pageIndex++ })
}

func (p *Paginator) PreviousPage() {
	p.update(func() { p.pageIndex-- })
}

func (p *Paginator) FirstPage() {
	p.update(func() { p.pageIndex = 0 })
}

func (p *Paginator) LastPage() {
	p.update(func() { p.pageIndex = p.numPages() - 1 })
}

func (p *Paginator) HasNextPage() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.pageIndex < p.numPages()-1
}

func (p *Paginator) HasPreviousPage() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.pageIndex > 0
}

func (p *Paginator) update(modify func()) {
	p.mtx.Lock()
	before := p.pageIndex
	beforeSize := p.pageSize
	modify()
	p.clamp()
	changed := p.pageIndex != before || p.pageSize != beforeSize
	onChange := p.onChange
	p.mtx.Unlock()

	if changed && onChange != nil {
		onChange()
	}
}

func (p *Paginator) clamp() {
	p.pageIndex = min(max(p.pageIndex, 0), p.numPages()-1)
}

// paginate sets the length of the data, clamps the page index
// and returns the index range of the current page.
func (p *Paginator) paginate(length int) (start, end int) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.length = length
	p.clamp()
	if p.pageSize <= 0 {
		return 0, p.length
	}
	start = p.pageIndex * p.pageSize
	end = min(start+p.pageSize, p.length)
	return start, end
}

func (p *Paginator) setOnChange(onChange func()) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.onChange = onChange
}
