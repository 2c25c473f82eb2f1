package scenario

// prepare.go
// pre-flight checks before applying load: every tenant credential must
// be able to list its calls

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/isucon/isucandar"
	"github.com/isucon/isucandar/agent"
	"github.com/isucon/isucandar/failure"
	"github.com/isucon/isucandar/worker"

	"github.com/callva-one/bench/logger"
	"github.com/callva-one/bench/service"
)

func (s *Scenario) Prepare(ctx context.Context, step *isucandar.BenchmarkStep) error {
	logger.OperatorLogger.Printf("===> PREPARE")

	// every successful request is worth one point; quota completion is
	// informational only
	step.Result().Score.Set(ScoreCallCreate, 1)
	step.Result().Score.Set(ScoreCallUpdate, 1)
	step.Result().Score.Set(ScoreReadScheduled, 1)
	step.Result().Score.Set(ScoreReadHeavy, 1)
	step.Result().Score.Set(ScoreQuotaComplete, 0)

	creds := s.Credentials.All()
	failedCount := int32(0)

	w, err := worker.NewWorker(func(ctx context.Context, index int) {
		cred := creds[index]

		agt, err := s.NewAgent(agent.WithTimeout(s.prepareTimeout))
		if err != nil {
			logger.AdminLogger.Panic(err)
		}

		perPage := 1
		if _, _, err := getCallsAction(ctx, agt, cred.Token, service.GetCallsRequest{PerPage: perPage}); err != nil {
			step.AddError(failure.NewError(ErrCritical,
				fmt.Errorf("credential check failed for org %s: %w", cred.Org, err)))
			atomic.AddInt32(&failedCount, 1)
			return
		}
		logger.AdminLogger.Printf("credential ok: %s", cred.Org)
	}, worker.WithLoopCount(int32(len(creds))))
	if err != nil {
		return failure.NewError(ErrCritical, err)
	}

	w.Process(ctx)
	w.Wait()

	if atomic.LoadInt32(&failedCount) > 0 {
		return failure.NewError(ErrCritical,
			fmt.Errorf("%d of %d tenant credentials failed the pre-flight check", failedCount, len(creds)))
	}

	logger.OperatorLogger.Printf("prepare done: %d tenants ready", len(creds))
	return nil
}
