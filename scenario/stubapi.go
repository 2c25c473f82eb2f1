package scenario

// stubapi.go
// in-process stand-in for the external-calls API, used for dry runs
// (-stub) and for the package tests. Keeps calls per org in memory and
// honors the filters the bench actually sends.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/callva-one/bench/logger"
	"github.com/callva-one/bench/service"
)

type StubAPI struct {
	mx    sync.Mutex
	calls map[string][]*service.Call // org -> calls in creation order
	byID  map[string]*service.Call

	requestCount int64

	echo *echo.Echo
}

func NewStubAPI() *StubAPI {
	s := &StubAPI{
		calls: map[string][]*service.Call{},
		byID:  map[string]*service.Call{},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	api := e.Group("/api/v1/external")
	api.POST("/calls", s.postCall)
	api.PUT("/calls/:id", s.putCall)
	api.GET("/calls", s.getCalls)

	s.echo = e
	return s
}

// Handler exposes the stub for httptest in package tests.
func (s *StubAPI) Handler() http.Handler {
	return s.echo
}

// RequestCount counts authenticated requests that reached a handler.
func (s *StubAPI) RequestCount() int64 {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.requestCount
}

// Run serves until ctx is done, then shuts the server down.
func (s *StubAPI) Run(ctx context.Context, addr string) {
	go func() {
		err := s.echo.Start(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.AdminLogger.Panicf("stub api exited: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		logger.AdminLogger.Printf("failed to shutdown stub api: %s", err)
	}
}

func (s *StubAPI) org(c echo.Context) (string, error) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", fmt.Errorf("no bearer token")
	}
	return service.VerifyToken(strings.TrimPrefix(auth, "Bearer "))
}

func (s *StubAPI) postCall(c echo.Context) error {
	org, err := s.org(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	req := &service.PostCallRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
	}
	if req.Name == "" || req.Phone == "" || req.CallAt == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "name, phone and call_at are required"})
	}

	call := &service.Call{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Phone:       req.Phone,
		CallAt:      req.CallAt,
		TimesCalled: req.TimesCalled,
		Provider:    req.Provider,
		Status:      req.Status,
	}

	s.mx.Lock()
	s.requestCount++
	s.calls[org] = append(s.calls[org], call)
	s.byID[call.ID] = call
	s.mx.Unlock()

	return c.JSON(http.StatusCreated, call)
}

func (s *StubAPI) putCall(c echo.Context) error {
	_, err := s.org(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	req := &service.PutCallRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
	}

	s.mx.Lock()
	defer s.mx.Unlock()
	s.requestCount++

	call, ok := s.byID[c.Param("id")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "call not found"})
	}
	call.Status = req.Status
	call.LastCallTime = time.Now().UTC().Format(service.CreateTimeFormat)

	return c.NoContent(http.StatusNoContent)
}

func (s *StubAPI) getCalls(c echo.Context) error {
	org, err := s.org(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}

	status := c.QueryParam("status")
	timesCalledLT := intParam(c, "times_called_lt", -1)
	perPage := intParam(c, "per_page", 20)
	page := intParam(c, "page", 1)

	s.mx.Lock()
	defer s.mx.Unlock()
	s.requestCount++

	matched := make([]*service.Call, 0, len(s.calls[org]))
	for _, call := range s.calls[org] {
		if status != "" && call.Status != status {
			continue
		}
		if timesCalledLT >= 0 && call.TimesCalled >= timesCalledLT {
			continue
		}
		matched = append(matched, call)
	}

	total := len(matched)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, &service.GetCallsResponse{
		Calls:   matched[start:end],
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func intParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
