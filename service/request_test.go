package service

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCallsRequestQueryStringScheduled(t *testing.T) {
	timesCalledLT := 3
	callAtGT := time.Date(2026, 8, 30, 12, 34, 56, 789000000, time.UTC)
	req := GetCallsRequest{
		Status:        "scheduled",
		TimesCalledLT: &timesCalledLT,
		PerPage:       10,
		CallAtGT:      &callAtGT,
	}

	q, err := url.ParseQuery(req.QueryString())
	require.NoError(t, err)

	assert.Equal(t, "scheduled", q.Get("status"))
	assert.Equal(t, "3", q.Get("times_called_lt"))
	assert.Equal(t, "10", q.Get("per_page"))
	// seconds resolution, fraction dropped
	assert.Equal(t, "2026-08-30T12:34:56Z", q.Get("call_at_gt"))
	assert.NotContains(t, q, "page")
	assert.NotContains(t, q, "sort")
}

func TestGetCallsRequestQueryStringHeavy(t *testing.T) {
	start := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Microsecond)
	req := GetCallsRequest{
		CallAtGTE: &start,
		CallAtLTE: &end,
		PerPage:   500,
		Page:      1,
		Sort:      "-last_call_time",
	}

	q, err := url.ParseQuery(req.QueryString())
	require.NoError(t, err)

	// day bounds: midnight with no fraction, day end with full microseconds
	assert.Equal(t, "2026-08-31T00:00:00Z", q.Get("call_at_gte"))
	assert.Equal(t, "2026-08-31T23:59:59.999999Z", q.Get("call_at_lte"))
	assert.Equal(t, "500", q.Get("per_page"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "-last_call_time", q.Get("sort"))
	assert.NotContains(t, q, "status")
}

func TestGetCallsRequestQueryStringEmpty(t *testing.T) {
	assert.Equal(t, "", GetCallsRequest{}.QueryString())
}
