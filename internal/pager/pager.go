// Package pager computes portal pagination links.
package pager

import (
	"fmt"
	"net/url"
)

// DefaultScope is the number of page links shown around the current page.
const DefaultScope = 5

// Link is one page link.
type Link struct {
	URL string `json:"url"`
	Num int    `json:"num"`
}

// Pager is the pagination state handed to templates.
type Pager struct {
	PageCount    int    `json:"page_count"`
	Offset       int    `json:"offset"`
	Step         int    `json:"step"`
	Total        int    `json:"total"`
	Page         Link   `json:"page"`
	PageFirst    Link   `json:"page_first"`
	PageStart    Link   `json:"page_start"`
	PagePrevious Link   `json:"page_previous"`
	PageNext     Link   `json:"page_next"`
	PageEnd      Link   `json:"page_end"`
	PageLast     Link   `json:"page_last"`
	Pages        []Link `json:"pages"`
}

// Params describes the page being requested.
type Params struct {
	URL     string
	Total   int
	Page    int
	Step    int
	Scope   int
	URLArgs url.Values
}

// New builds a Pager. The requested page is clamped to the available range;
// an empty result set yields page 1 with offset 0 and no page links.
func New(p Params) Pager {
	step := p.Step
	if step < 1 {
		step = 1
	}
	scope := p.Scope
	if scope < 1 {
		scope = DefaultScope
	}

	pageCount := (p.Total + step - 1) / step
	page := max(1, min(p.Page, pageCount))

	scope--
	pmin := max(page-scope/2, 1)
	pmax := min(pmin+scope, pageCount)
	if pmax-pmin < scope {
		if pmax-scope > 0 {
			pmin = pmax - scope
		} else {
			pmin = 1
		}
	}

	link := func(n int) Link {
		return Link{URL: pageURL(p.URL, n, p.URLArgs), Num: n}
	}

	pages := make([]Link, 0, max(pmax-pmin+1, 0))
	for n := pmin; n <= pmax; n++ {
		pages = append(pages, link(n))
	}

	return Pager{
		PageCount:    pageCount,
		Offset:       (page - 1) * step,
		Step:         step,
		Total:        p.Total,
		Page:         link(page),
		PageFirst:    link(1),
		PageStart:    link(pmin),
		PagePrevious: link(max(pmin, page-1)),
		PageNext:     link(min(pmax, page+1)),
		PageEnd:      link(pmax),
		PageLast:     link(pageCount),
		Pages:        pages,
	}
}

func pageURL(base string, page int, args url.Values) string {
	u := base
	if page > 1 {
		u = fmt.Sprintf("%s/page/%d", base, page)
	}
	if len(args) > 0 {
		u += "?" + args.Encode()
	}
	return u
}
