package service

import (
	"slices"

	"github.com/contactportal/backend/internal/model"
)

// PageView holds the generic values of a portal document page.
type PageView struct {
	Token         string
	AccessToken   string
	NoBreadcrumbs bool
	PrevRecord    string
	NextRecord    string
}

func pageViewValues(doc *model.Contact, accessToken string, noBreadcrumbs bool, history []int64) PageView {
	var v PageView
	if accessToken != "" {
		v.NoBreadcrumbs = noBreadcrumbs
		v.AccessToken = accessToken
		v.Token = accessToken
	}
	v.PrevRecord, v.NextRecord = recordsPager(history, doc.ID)
	return v
}

// recordsPager returns the URLs of the neighbours of current in ids.
func recordsPager(ids []int64, current int64) (prev, next string) {
	idx := slices.Index(ids, current)
	if idx < 0 {
		return "", ""
	}
	if idx > 0 {
		prev = ContactURL(ids[idx-1])
	}
	if idx < len(ids)-1 {
		next = ContactURL(ids[idx+1])
	}
	return prev, next
}
