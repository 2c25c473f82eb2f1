package service

import "github.com/francoispqt/gojay"

// PostCallResponse covers the creation response shapes the API has been
// seen to return; the ID has shown up under different keys across
// deployments.
type PostCallResponse struct {
	ID        string               `json:"id"`
	RawCallID string               `json:"call_id"`
	Data      PostCallResponseData `json:"data"`
}

type PostCallResponseData struct {
	ID string `json:"id"`
}

// CallID returns the created call's identifier, trying id, call_id and
// data.id in that order. Empty means the response carried no
// recognizable identifier.
func (r *PostCallResponse) CallID() string {
	if r.ID != "" {
		return r.ID
	}
	if r.RawCallID != "" {
		return r.RawCallID
	}
	return r.Data.ID
}

type Call struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	CallAt       string `json:"call_at"`
	TimesCalled  int    `json:"times_called"`
	Provider     string `json:"provider"`
	Status       string `json:"status"`
	LastCallTime string `json:"last_call_time,omitempty"`
}

func (c *Call) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case "id":
		return dec.String(&c.ID)
	case "name":
		return dec.String(&c.Name)
	case "phone":
		return dec.String(&c.Phone)
	case "call_at":
		return dec.String(&c.CallAt)
	case "times_called":
		return dec.Int(&c.TimesCalled)
	case "provider":
		return dec.String(&c.Provider)
	case "status":
		return dec.String(&c.Status)
	case "last_call_time":
		return dec.String(&c.LastCallTime)
	}
	return nil
}

func (c *Call) NKeys() int { return 0 }

type CallList []*Call

func (l *CallList) UnmarshalJSONArray(dec *gojay.Decoder) error {
	c := &Call{}
	if err := dec.Object(c); err != nil {
		return err
	}
	*l = append(*l, c)
	return nil
}

// GetCallsResponse is a page of the list endpoint. Decoded with gojay:
// heavy-read pages run to 500 rows and come back often.
type GetCallsResponse struct {
	Calls   CallList `json:"calls"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}

func (r *GetCallsResponse) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case "calls":
		return dec.Array(&r.Calls)
	case "total":
		return dec.Int(&r.Total)
	case "page":
		return dec.Int(&r.Page)
	case "per_page":
		return dec.Int(&r.PerPage)
	}
	return nil
}

func (r *GetCallsResponse) NKeys() int { return 0 }
