package pager

// Pager holds the derived pagination values for one request.
type Pager struct {
	opts       Options
	totalItems int
	current    int
	numPages   int
	links      string
}

// New validates opts and derives the page numbers and links.
func New(opts Options) (*Pager, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Pager{
		opts:       opts,
		totalItems: *opts.TotalItems,
	}
	p.numPages = CalculateTotalPages(p.totalItems, opts.PerPage)
	p.current = clamp(opts.CurrentPage, 1, p.numPages)
	p.links = p.renderLinks()
	return p, nil
}

// CalculateTotalPages returns ceil(total/perPage) and never less than one page.
func CalculateTotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// TotalItems returns the item count the pager was built with.
func (p *Pager) TotalItems() int { return p.totalItems }

// PerPage returns the effective page size.
func (p *Pager) PerPage() int { return p.opts.PerPage }

// CurrentPage returns the 1-based current page after clamping.
func (p *Pager) CurrentPage() int { return p.current }

// NumPages returns the total number of pages.
func (p *Pager) NumPages() int { return p.numPages }

// Links returns the rendered navigation markup.
func (p *Pager) Links() string { return p.links }

// Options returns the effective options, defaults included.
func (p *Pager) Options() Options { return p.opts }

// OffsetByPageID returns the 1-based inclusive item range of the current page.
// Both bounds are zero when there are no items.
func (p *Pager) OffsetByPageID() (from, to int) {
	if p.totalItems == 0 {
		return 0, 0
	}
	from = (p.current-1)*p.opts.PerPage + 1
	to = min(p.totalItems, p.current*p.opts.PerPage)
	return from, to
}

// PageRange returns the first and last page number shown in the links.
func (p *Pager) PageRange() (first, last int) {
	delta := p.opts.Delta
	switch p.opts.Mode {
	case ModeSliding:
		if p.numPages <= 2*delta+1 {
			return 1, p.numPages
		}
		first, last = p.current-delta, p.current+delta
		if first < 1 {
			last += 1 - first
			first = 1
		}
		if last > p.numPages {
			first -= last - p.numPages
			last = p.numPages
		}
		return first, last
	default:
		first = ((p.current-1)/delta)*delta + 1
		last = min(first+delta-1, p.numPages)
		return first, last
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
