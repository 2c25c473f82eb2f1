package scenario

// scenario.go
// Scenario struct, its constructor, agent helpers and user spawning

import (
	"context"
	"sync"
	"time"

	"github.com/isucon/isucandar"
	"github.com/isucon/isucandar/agent"

	"github.com/callva-one/bench/logger"
	"github.com/callva-one/bench/model"
)

type Scenario struct {
	BaseURL string // target external-calls API
	NoLoad  bool   // exit after prepare

	// users per request category
	CreateUsers        int
	UpdateUsers        int
	ReadScheduledUsers int
	ReadHeavyUsers     int

	ThrottleInterval time.Duration // per-user throttle for scheduled reads

	Credentials *model.CredentialPool
	Coordinator *model.Coordinator

	prepareTimeout time.Duration
	loadWaitGroup  sync.WaitGroup
}

func NewScenario(pool *model.CredentialPool, quota int, throttle time.Duration) (*Scenario, error) {
	return &Scenario{
		CreateUsers:        DefaultUsersPerCategory,
		UpdateUsers:        DefaultUsersPerCategory,
		ReadScheduledUsers: DefaultUsersPerCategory,
		ReadHeavyUsers:     DefaultUsersPerCategory,
		ThrottleInterval:   throttle,
		Credentials:        pool,
		Coordinator:        model.NewCoordinator(pool.Orgs(), quota),
		prepareTimeout:     10 * time.Second,
	}, nil
}

func (s *Scenario) NewAgent(opts ...agent.AgentOption) (*agent.Agent, error) {
	opts = append(opts, agent.WithBaseURL(s.BaseURL), agent.WithNoCache(), agent.WithNoCookie())
	return agent.NewAgent(opts...)
}

// NewUser binds a fresh agent to a randomly picked tenant credential.
func (s *Scenario) NewUser() *model.User {
	user := model.NewUser(s.Credentials.Pick())
	agt, err := s.NewAgent()
	if err != nil {
		logger.AdminLogger.Panic(err)
	}
	user.Agent = agt
	return user
}

// spawn helpers for the load phase, one per request category

func (s *Scenario) AddCreateUsers(ctx context.Context, step *isucandar.BenchmarkStep, count int) {
	s.addUsers(ctx, step, count, s.loadCreateUser)
}

func (s *Scenario) AddUpdateUsers(ctx context.Context, step *isucandar.BenchmarkStep, count int) {
	s.addUsers(ctx, step, count, s.loadUpdateUser)
}

func (s *Scenario) AddReadScheduledUsers(ctx context.Context, step *isucandar.BenchmarkStep, count int) {
	s.addUsers(ctx, step, count, s.loadReadScheduledUser)
}

func (s *Scenario) AddReadHeavyUsers(ctx context.Context, step *isucandar.BenchmarkStep, count int) {
	s.addUsers(ctx, step, count, s.loadReadHeavyUser)
}

func (s *Scenario) addUsers(ctx context.Context, step *isucandar.BenchmarkStep, count int, loop func(context.Context, *isucandar.BenchmarkStep)) {
	if count <= 0 {
		return
	}
	s.loadWaitGroup.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer s.loadWaitGroup.Done()
			loop(ctx, step)
		}()
	}
}
