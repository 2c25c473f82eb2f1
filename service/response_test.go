package service

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/francoispqt/gojay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostCallResponseCallID(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"top-level id", `{"id":"abc"}`, "abc"},
		{"call_id", `{"call_id":"def"}`, "def"},
		{"nested data.id", `{"data":{"id":"ghi"}}`, "ghi"},
		{"id wins over call_id", `{"id":"abc","call_id":"def"}`, "abc"},
		{"call_id wins over data.id", `{"call_id":"def","data":{"id":"ghi"}}`, "def"},
		{"nothing recognizable", `{"ok":true}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := &PostCallResponse{}
			require.NoError(t, json.Unmarshal([]byte(tc.body), res))
			assert.Equal(t, tc.want, res.CallID())
		})
	}
}

func TestGetCallsResponseGojayDecode(t *testing.T) {
	body := `{
		"calls": [
			{"id":"c1","name":"Lisa Anderson","phone":"+15551234","call_at":"2026-08-31T00:00:00.000000Z","times_called":0,"provider":"Vapi","status":"scheduled"},
			{"id":"c2","name":"John Smith","phone":"+15555678","call_at":"2026-08-31T00:00:00.000000Z","times_called":2,"provider":"Vapi","status":"complete","last_call_time":"2026-08-31T10:00:00.000000Z"}
		],
		"total": 2,
		"page": 1,
		"per_page": 10
	}`

	res := &GetCallsResponse{}
	dec := gojay.NewDecoder(bytes.NewReader([]byte(body)))
	defer dec.Release()
	require.NoError(t, dec.DecodeObject(res))

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 10, res.PerPage)
	require.Len(t, res.Calls, 2)
	assert.Equal(t, "c1", res.Calls[0].ID)
	assert.Equal(t, "scheduled", res.Calls[0].Status)
	assert.Equal(t, "John Smith", res.Calls[1].Name)
	assert.Equal(t, 2, res.Calls[1].TimesCalled)
	assert.Equal(t, "2026-08-31T10:00:00.000000Z", res.Calls[1].LastCallTime)
}

func TestGetCallsResponseGojayDecodeEmpty(t *testing.T) {
	res := &GetCallsResponse{}
	dec := gojay.NewDecoder(bytes.NewReader([]byte(`{"calls":[],"total":0,"page":1,"per_page":10}`)))
	defer dec.Release()
	require.NoError(t, dec.DecodeObject(res))
	assert.Empty(t, res.Calls)
	assert.Equal(t, 0, res.Total)
}
