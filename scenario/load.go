package scenario

// load.go
// the load phase: one loop per simulated user, four user categories
//
// create users run the ramp-up: they create calls until their org hits
// quota, then idle. The other three categories are gated on that quota
// and make up the steady state.

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/isucon/isucandar"
	"github.com/isucon/isucandar/failure"

	"github.com/callva-one/bench/logger"
	"github.com/callva-one/bench/model"
	"github.com/callva-one/bench/random"
	"github.com/callva-one/bench/service"
)

func (s *Scenario) Load(parent context.Context, step *isucandar.BenchmarkStep) error {
	if s.NoLoad {
		return nil
	}
	ctx := parent

	logger.OperatorLogger.Printf("===> LOAD")
	logger.AdminLogger.Printf("LOAD INFO\n  Target: %s\n  Quota: %d per org\n  Orgs: %d\n",
		s.BaseURL, s.Coordinator.Quota(), len(s.Credentials.All()))

	s.AddCreateUsers(ctx, step, s.CreateUsers)
	s.AddUpdateUsers(ctx, step, s.UpdateUsers)
	s.AddReadScheduledUsers(ctx, step, s.ReadScheduledUsers)
	s.AddReadHeavyUsers(ctx, step, s.ReadHeavyUsers)

	<-ctx.Done()
	s.loadWaitGroup.Wait()

	return nil
}

// ramp-up: create calls until the org reaches quota, then skip forever
func (s *Scenario) loadCreateUser(ctx context.Context, step *isucandar.BenchmarkStep) {
	user := s.NewUser()
	logger.AdminLogger.Printf("[CREATE] user started with org: %s", user.Cred.Org)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		sleepBetween(ctx, CreateWaitMin, CreateWaitMax)

		if s.Coordinator.QuotaReached(user.Cred.Org) {
			// ramp-up complete for this org; the skip is the steady state
			continue
		}

		req := service.PostCallRequest{
			Name:        random.CalleeName(),
			Phone:       random.Phone(),
			CallAt:      random.CallAt(time.Now()).Format(service.CreateTimeFormat),
			TimesCalled: 0,
			Provider:    model.CallProvider,
			Status:      model.CallStatusScheduled,
		}

		callRes, _, err := postCallAction(ctx, user.Agent, user.Cred.Token, req)
		if err != nil {
			logger.AdminLogger.Printf("[%s] CREATE failed: %v", user.Cred.Org, err)
			addErrorWithContext(ctx, step, err)
			continue
		}

		callID := callRes.CallID()
		s.Coordinator.RecordID(callID)
		user.AddCallID(callID)
		step.AddScore(ScoreCallCreate)

		if count, ok := s.Coordinator.TryIncrement(user.Cred.Org); ok {
			if count%CreateProgressStep == 0 {
				logger.OperatorLogger.Printf("[%s] created %d/%d calls", user.Cred.Org, count, s.Coordinator.Quota())
			}
			if count == s.Coordinator.Quota() {
				logger.OperatorLogger.Printf("[%s] ramp-up complete: %d calls created", user.Cred.Org, count)
				step.AddScore(ScoreQuotaComplete)
			}
		}
	}
}

// steady state: drive status transitions on random created calls
func (s *Scenario) loadUpdateUser(ctx context.Context, step *isucandar.BenchmarkStep) {
	user := s.NewUser()
	logger.AdminLogger.Printf("[UPDATE] user started with org: %s", user.Cred.Org)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		sleepBetween(ctx, UpdateWaitMin, UpdateWaitMax)

		if !s.Coordinator.QuotaReached(user.Cred.Org) {
			continue // ramp-up not done yet
		}

		callID, ok := pickUpdateTarget(s.Coordinator, user)
		if !ok {
			continue // nothing to update, pure skip
		}

		req := service.PutCallRequest{
			Status: model.UpdateStatuses[rand.Intn(len(model.UpdateStatuses))],
		}

		res, err := putCallAction(ctx, user.Agent, user.Cred.Token, callID, req)
		if err != nil {
			if res != nil && res.StatusCode == http.StatusNotFound {
				// the server no longer knows this call; prune the caches
				user.DropCallID(callID)
				s.Coordinator.DropID(callID)
				logger.AdminLogger.Printf("[%s] UPDATE: call not found: %s", user.Cred.Org, callID)
			} else {
				logger.AdminLogger.Printf("[%s] UPDATE failed: %v", user.Cred.Org, err)
			}
			addErrorWithContext(ctx, step, err)
			continue
		}

		step.AddScore(ScoreCallUpdate)
	}
}

// steady state: poll for due scheduled calls, throttled per user
func (s *Scenario) loadReadScheduledUser(ctx context.Context, step *isucandar.BenchmarkStep) {
	user := s.NewUser()
	throttle := model.NewThrottle(s.ThrottleInterval)
	logger.AdminLogger.Printf("[READ_SCHEDULED] user started with org: %s", user.Cred.Org)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		sleepBetween(ctx, ReadWaitMin, ReadWaitMax)

		if !s.Coordinator.QuotaReached(user.Cred.Org) {
			continue
		}
		if !throttle.Allow() {
			continue // too soon for this user
		}

		timesCalledLT := ScheduledTimesCalledLT
		callAtGT := time.Now().Add(-ScheduledLookback)
		req := service.GetCallsRequest{
			Status:        model.CallStatusScheduled,
			TimesCalledLT: &timesCalledLT,
			PerPage:       ScheduledPerPage,
			CallAtGT:      &callAtGT,
		}

		if _, _, err := getCallsAction(ctx, user.Agent, user.Cred.Token, req); err != nil {
			logger.AdminLogger.Printf("[%s] READ_SCHEDULED failed: %v", user.Cred.Org, err)
			addErrorWithContext(ctx, step, err)
			continue
		}

		step.AddScore(ScoreReadScheduled)
	}
}

// steady state: big sorted pages spanning the whole current day
func (s *Scenario) loadReadHeavyUser(ctx context.Context, step *isucandar.BenchmarkStep) {
	user := s.NewUser()
	logger.AdminLogger.Printf("[READ_HEAVY] user started with org: %s", user.Cred.Org)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		sleepBetween(ctx, ReadHeavyWait, ReadHeavyWait)

		if !s.Coordinator.QuotaReached(user.Cred.Org) {
			continue
		}

		startOfDay := random.CallAt(time.Now())
		endOfDay := startOfDay.Add(24*time.Hour - time.Microsecond)
		req := service.GetCallsRequest{
			CallAtGTE: &startOfDay,
			CallAtLTE: &endOfDay,
			PerPage:   HeavyPerPage,
			Page:      1,
			Sort:      HeavySort,
		}

		if _, _, err := getCallsAction(ctx, user.Agent, user.Cred.Token, req); err != nil {
			logger.AdminLogger.Printf("[%s] READ_HEAVY failed: %v", user.Cred.Org, err)
			addErrorWithContext(ctx, step, err)
			continue
		}

		step.AddScore(ScoreReadHeavy)
	}
}

// pickUpdateTarget samples the shared ID list, falling back to the
// user's own creations. False means the task skips without a request.
func pickUpdateTarget(coord *model.Coordinator, user *model.User) (string, bool) {
	if callID, ok := coord.SampleID(); ok {
		return callID, true
	}
	return user.SampleCallID()
}

func sleepBetween(ctx context.Context, min, max time.Duration) {
	wait := min
	if max > min {
		wait += time.Duration(rand.Int63n(int64(max - min)))
	}
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}

func addErrorWithContext(ctx context.Context, step *isucandar.BenchmarkStep, err error) {
	select {
	case <-ctx.Done():
		if !failure.IsCode(err, ErrHTTP) {
			step.AddError(err)
		}
	default:
		step.AddError(err)
	}
}
