package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/isucon/isucandar"
	"github.com/isucon/isucandar/agent"
	"github.com/isucon/isucandar/failure"
	"github.com/isucon/isucandar/score"
	"github.com/pkg/profile"

	"github.com/callva-one/bench/logger"
	"github.com/callva-one/bench/model"
	"github.com/callva-one/bench/scenario"
	"github.com/callva-one/bench/service"
)

const (
	// error count that fails the run
	FAIL_ERROR_COUNT int64 = 100
)

var (
	COMMIT             string
	targetAddress      string
	credentialsPath    string
	useTLS             bool
	useStub            bool
	stubAddr           string
	exitStatusOnFail   bool
	noLoad             bool
	promOut            string
	profileDir         string
	showVersion        bool
	quota              int
	createUsers        int
	updateUsers        int
	readScheduledUsers int
	readHeavyUsers     int
	loadTimeout        time.Duration
	throttleInterval   time.Duration
)

// orgs synthesized when running against the stub
var stubOrgs = []string{"LoadTest1", "LoadTest2", "LoadTest3"}

func getEnv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val != "" {
		return val
	}
	return defaultValue
}

func init() {
	agent.DefaultTLSConfig.MinVersion = tls.VersionTLS12

	flag.StringVar(&targetAddress, "target", getEnv("TARGET_ADDRESS", "staging.api.callva.one"), "ex: staging.api.callva.one")
	flag.StringVar(&credentialsPath, "credentials", getEnv("CREDENTIALS_FILE", ""), "path to tenant credentials YAML")
	flag.BoolVar(&useTLS, "tls", true, "talk https to the target")
	flag.BoolVar(&useStub, "stub", false, "run against an in-process stub of the API")
	flag.StringVar(&stubAddr, "stub-addr", "127.0.0.1:8787", "stub api listen address")
	flag.BoolVar(&exitStatusOnFail, "exit-status", false, "set exit status non-zero when a benchmark result is failing")
	flag.BoolVar(&noLoad, "no-load", false, "exit on finished prepare")
	flag.StringVar(&promOut, "prom-out", "", "Prometheus textfile output path")
	flag.StringVar(&profileDir, "profile-dir", "", "write a CPU profile into this directory")
	flag.BoolVar(&showVersion, "version", false, "show version and exit 1")
	flag.IntVar(&quota, "quota", scenario.DefaultQuota, "calls to create per org before steady-state traffic unlocks")
	flag.IntVar(&createUsers, "create-users", scenario.DefaultUsersPerCategory, "create users to spawn")
	flag.IntVar(&updateUsers, "update-users", scenario.DefaultUsersPerCategory, "update users to spawn")
	flag.IntVar(&readScheduledUsers, "read-scheduled-users", scenario.DefaultUsersPerCategory, "scheduled-read users to spawn")
	flag.IntVar(&readHeavyUsers, "read-heavy-users", scenario.DefaultUsersPerCategory, "heavy-read users to spawn")

	timeoutDuration := ""
	flag.StringVar(&timeoutDuration, "timeout", "10s", "request timeout duration")
	loadDuration := ""
	flag.StringVar(&loadDuration, "duration", "180s", "load phase duration")
	throttleDuration := ""
	flag.StringVar(&throttleDuration, "throttle", "30s", "per-user interval between scheduled reads")

	flag.Parse()

	timeout, err := time.ParseDuration(timeoutDuration)
	if err != nil {
		panic(err)
	}
	agent.DefaultRequestTimeout = timeout

	loadTimeout, err = time.ParseDuration(loadDuration)
	if err != nil {
		panic(err)
	}
	throttleInterval, err = time.ParseDuration(throttleDuration)
	if err != nil {
		panic(err)
	}
}

func checkError(err error) (critical bool, timeout bool, deduction bool) {
	return scenario.CheckError(err)
}

func sendResult(s *scenario.Scenario, result *isucandar.BenchmarkResult, finish bool) bool {
	passed := true
	reason := "pass"
	errors := result.Errors.All()

	scoreRaw := result.Score.Sum()
	deduction := int64(0)
	timeoutCount := int64(0)

	breakdown := result.Score.Breakdown()
	scenario.SetScoreTags(breakdown)
	for tag, count := range breakdown {
		logger.AdminLogger.Printf("SCORE: %s: %d", tag, count)
	}

	for _, err := range errors {
		isCritical, isTimeout, isDeduction := checkError(err)

		switch true {
		case isCritical:
			passed = false
			reason = "Critical error"
		case isTimeout:
			timeoutCount++
		case isDeduction:
			deduction++
		}
	}
	deductionTotal := deduction + timeoutCount/10

	if passed && deduction > FAIL_ERROR_COUNT {
		passed = false
		reason = fmt.Sprintf("Error count over %d", FAIL_ERROR_COUNT)
	}

	score := scoreRaw - deductionTotal
	if passed && score < 0 {
		passed = false
		reason = "Score"
	}

	logger.OperatorLogger.Printf("score: %d(%d - %d) : %s", score, scoreRaw, deductionTotal, reason)
	logger.OperatorLogger.Printf("deduction: %d / timeout: %d", deduction, timeoutCount)

	if finish {
		for _, org := range s.Credentials.Orgs() {
			logger.OperatorLogger.Printf("[%s] calls created: %d/%d", org, s.Coordinator.Count(org), s.Coordinator.Quota())
		}
		writePromFile(promTags(s, breakdown, score, passed))
	}

	return passed
}

func promTags(s *scenario.Scenario, breakdown score.ScoreTable, total int64, passed bool) []string {
	tags := []string{
		fmt.Sprintf("callva_bench_score %d\n", total),
	}
	if passed {
		tags = append(tags, "callva_bench_passed 1\n")
	} else {
		tags = append(tags, "callva_bench_passed 0\n")
	}
	for tag, count := range breakdown {
		tags = append(tags, fmt.Sprintf("callva_bench_requests_total{class=%q} %d\n", strings.TrimSpace(string(tag)), count))
	}
	for _, org := range s.Credentials.Orgs() {
		tags = append(tags, fmt.Sprintf("callva_bench_calls_created{org=%q} %d\n", org, s.Coordinator.Count(org)))
	}
	return tags
}

func writePromFile(promTags []string) {
	if len(promOut) == 0 {
		return
	}

	promOutNew := fmt.Sprintf("%s.new", promOut)
	err := os.WriteFile(promOutNew, []byte(strings.Join(promTags, "")), 0644)
	if err != nil {
		logger.AdminLogger.Printf("Failed to write prom file: %s", err)
		return
	}
	err = os.Rename(promOutNew, promOut)
	if err != nil {
		logger.AdminLogger.Printf("Failed to write prom file: %s", err)
		return
	}
}

func buildCredentialPool() (*model.CredentialPool, error) {
	if useStub {
		creds := make([]model.Credential, 0, len(stubOrgs))
		for _, org := range stubOrgs {
			token, err := service.GenerateToken(org, time.Now())
			if err != nil {
				return nil, err
			}
			creds = append(creds, model.Credential{Org: org, Token: token})
		}
		return model.NewCredentialPool(creds)
	}
	if credentialsPath == "" {
		return nil, fmt.Errorf("either -credentials or -stub is required")
	}
	return model.LoadCredentialPool(credentialsPath)
}

// waitForStub polls until the stub accepts connections.
func waitForStub(addr string) error {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("stub api did not come up on %s", addr)
}

func main() {
	logger.AdminLogger.Printf("callva bench %s", COMMIT)

	if showVersion {
		os.Exit(1)
	}

	if profileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir)).Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := buildCredentialPool()
	if err != nil {
		logger.OperatorLogger.Printf("credential setup failed: %v", err)
		os.Exit(1)
	}

	s, err := scenario.NewScenario(pool, quota, throttleInterval)
	if err != nil {
		panic(err)
	}

	scheme := "http"
	if useTLS && !useStub {
		scheme = "https"
	}
	if useStub {
		targetAddress = stubAddr
	}
	s.BaseURL = fmt.Sprintf("%s://%s/", scheme, targetAddress)
	s.NoLoad = noLoad
	s.CreateUsers = createUsers
	s.UpdateUsers = updateUsers
	s.ReadScheduledUsers = readScheduledUsers
	s.ReadHeavyUsers = readHeavyUsers

	if useStub {
		stub := scenario.NewStubAPI()
		go stub.Run(ctx, stubAddr)
		if err := waitForStub(stubAddr); err != nil {
			logger.OperatorLogger.Printf("%v", err)
			os.Exit(1)
		}
	}

	b, err := isucandar.NewBenchmark(isucandar.WithLoadTimeout(loadTimeout), isucandar.WithoutPanicRecover())
	if err != nil {
		panic(err)
	}

	errorCount := int64(0)
	b.OnError(func(err error, step *isucandar.BenchmarkStep) {
		// load-phase timeouts are expected noise, keep them out of the log
		if failure.IsCode(err, failure.TimeoutErrorCode) && failure.IsCode(err, isucandar.ErrLoad) {
			return
		}

		critical, _, deduction := checkError(err)

		if critical || (deduction && atomic.AddInt64(&errorCount, 1) >= FAIL_ERROR_COUNT) {
			step.Cancel()
		}

		logger.OperatorLogger.Printf("ERR: %v", err)
	})

	b.AddScenario(s)

	wg := sync.WaitGroup{}
	b.Load(func(ctx context.Context, step *isucandar.BenchmarkStep) error {
		if s.NoLoad {
			return nil
		}

		wg.Add(1)
		defer wg.Done()

		// progress report every 3 seconds
		for {
			timer := time.After(3 * time.Second)
			sendResult(s, step.Result(), false)

			select {
			case <-timer:
			case <-ctx.Done():
				return nil
			}
		}
	})

	result := b.Start(ctx)

	wg.Wait()

	if !sendResult(s, result, true) && exitStatusOnFail {
		os.Exit(1)
	}
}
