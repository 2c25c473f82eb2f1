package service

import (
	"net/url"
	"strconv"
	"time"
)

// Timestamp formats the external-calls API accepts. Creation payloads
// carry microseconds, query bounds drop the fraction unless it is
// non-zero (day-end bounds keep their .999999).
const (
	CreateTimeFormat = "2006-01-02T15:04:05.000000Z"
	QueryTimeFormat  = "2006-01-02T15:04:05Z"
	DayBoundFormat   = "2006-01-02T15:04:05.999999Z"
)

type PostCallRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	CallAt      string `json:"call_at"`
	TimesCalled int    `json:"times_called"`
	Provider    string `json:"provider"`
	Status      string `json:"status"`
}

type PutCallRequest struct {
	Status string `json:"status"`
}

// GetCallsRequest builds the filter query for GET /api/v1/external/calls.
// Zero-valued fields are left out of the query string.
type GetCallsRequest struct {
	Status        string
	TimesCalledLT *int
	CallAtGT      *time.Time
	CallAtGTE     *time.Time
	CallAtLTE     *time.Time
	PerPage       int
	Page          int
	Sort          string
}

func (r GetCallsRequest) QueryString() string {
	q := url.Values{}
	if r.Status != "" {
		q.Set("status", r.Status)
	}
	if r.TimesCalledLT != nil {
		q.Set("times_called_lt", strconv.Itoa(*r.TimesCalledLT))
	}
	if r.CallAtGT != nil {
		q.Set("call_at_gt", r.CallAtGT.UTC().Format(QueryTimeFormat))
	}
	if r.CallAtGTE != nil {
		q.Set("call_at_gte", r.CallAtGTE.UTC().Format(DayBoundFormat))
	}
	if r.CallAtLTE != nil {
		q.Set("call_at_lte", r.CallAtLTE.UTC().Format(DayBoundFormat))
	}
	if r.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(r.PerPage))
	}
	if r.Page > 0 {
		q.Set("page", strconv.Itoa(r.Page))
	}
	if r.Sort != "" {
		q.Set("sort", r.Sort)
	}
	return q.Encode()
}
