package pager

import (
	"net/http"
	"net/url"
	"strconv"
)

// FromRequest returns a copy of o with the current page, link path and
// extra query variables taken from r. A missing or malformed page number
// leaves CurrentPage untouched.
func (o Options) FromRequest(r *http.Request) Options {
	o = o.WithDefaults()
	if r == nil || r.URL == nil {
		return o
	}
	q := r.URL.Query()
	if n, err := strconv.Atoi(q.Get(o.URLVar)); err == nil && n > 0 {
		o.CurrentPage = n
	}
	if o.Path == "" {
		o.Path = r.URL.Path
	}
	extra := url.Values{}
	for k, vs := range q {
		if k == o.URLVar {
			continue
		}
		extra[k] = vs
	}
	if len(extra) > 0 {
		o.ExtraVars = extra
	}
	return o
}
