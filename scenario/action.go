package scenario

// action.go
// one function per API operation:
// 1. build the request
// 2. issue it
// 3. check the status code
// 4. map the response body
// errors out of here are already classified failure codes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/isucon/isucandar/agent"

	"github.com/callva-one/bench/logger"
	"github.com/callva-one/bench/service"
)

const callsPath = "/api/v1/external/calls"

func postCallAction(ctx context.Context, a *agent.Agent, token string, req service.PostCallRequest) (*service.PostCallResponse, *http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		logger.AdminLogger.Panic(err)
	}

	callRes := &service.PostCallResponse{}
	res, err := reqJSONResJSON(ctx, a, token, http.MethodPost, callsPath, bytes.NewReader(body), callRes,
		[]int{http.StatusCreated, http.StatusOK})
	if err != nil {
		return nil, res, err
	}

	if callRes.CallID() == "" {
		raw, _ := json.Marshal(callRes)
		return nil, res, errorMissingCallID(res, raw)
	}

	return callRes, res, nil
}

func putCallAction(ctx context.Context, a *agent.Agent, token, callID string, req service.PutCallRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		logger.AdminLogger.Panic(err)
	}

	return reqJSONResNoContent(ctx, a, token, http.MethodPut, callsPath+"/"+callID, bytes.NewReader(body),
		[]int{http.StatusOK, http.StatusNoContent})
}

func getCallsAction(ctx context.Context, a *agent.Agent, token string, req service.GetCallsRequest) (*service.GetCallsResponse, *http.Response, error) {
	rpath := callsPath
	if qs := req.QueryString(); qs != "" {
		rpath += "?" + qs
	}

	return reqNoContentResCallList(ctx, a, token, rpath, []int{http.StatusOK})
}
