package pager

import (
	"html"
	"net/url"
	"strconv"
	"strings"
)

func (p *Pager) renderLinks() string {
	if p.numPages <= 1 {
		return ""
	}
	var parts []string
	if p.current > 1 {
		parts = append(parts, p.anchor(p.current-1, p.opts.PrevText, "previous page"))
	}
	first, last := p.PageRange()
	if p.opts.Mode == ModeSliding && first > 1 {
		parts = append(parts, p.anchor(1, "1", "page 1"))
		if first > 2 {
			parts = append(parts, "&hellip;")
		}
	}
	for i := first; i <= last; i++ {
		n := strconv.Itoa(i)
		if i == p.current {
			parts = append(parts, "<b>"+n+"</b>")
			continue
		}
		parts = append(parts, p.anchor(i, n, "page "+n))
	}
	if p.opts.Mode == ModeSliding && last < p.numPages {
		if last < p.numPages-1 {
			parts = append(parts, "&hellip;")
		}
		n := strconv.Itoa(p.numPages)
		parts = append(parts, p.anchor(p.numPages, n, "page "+n))
	}
	if p.current < p.numPages {
		parts = append(parts, p.anchor(p.current+1, p.opts.NextText, "next page"))
	}
	return strings.Join(parts, p.opts.Separator)
}

// anchor renders a link to page id. text is trusted markup, title is escaped.
func (p *Pager) anchor(id int, text, title string) string {
	return `<a href="` + html.EscapeString(p.PageURL(id)) + `" title="` + html.EscapeString(title) + `">` + text + `</a>`
}

// PageURL returns the link target for page id, keeping the extra variables.
func (p *Pager) PageURL(id int) string {
	q := url.Values{}
	for k, vs := range p.opts.ExtraVars {
		if k == p.opts.URLVar {
			continue
		}
		q[k] = append([]string(nil), vs...)
	}
	q.Set(p.opts.URLVar, strconv.Itoa(id))
	return p.opts.Path + "?" + q.Encode()
}

// PerPageSelectBox renders a select element offering page sizes from start
// to end in step increments, with the current page size selected.
func (p *Pager) PerPageSelectBox(start, end, step int) string {
	if step <= 0 || start <= 0 || end < start {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<select name="setPerPage">`)
	for n := start; n <= end; n += step {
		v := strconv.Itoa(n)
		b.WriteString(`<option value="` + v + `"`)
		if n == p.opts.PerPage {
			b.WriteString(` selected="selected"`)
		}
		b.WriteString(">" + v + "</option>")
	}
	b.WriteString("</select>")
	return b.String()
}
