package scenario

import "time"

// think-time bounds per user category
const (
	CreateWaitMin = 500 * time.Millisecond // aggressive creation
	CreateWaitMax = 2 * time.Second
	UpdateWaitMin = 500 * time.Millisecond
	UpdateWaitMax = 1500 * time.Millisecond
	ReadWaitMin   = 500 * time.Millisecond // check often, throttle internally
	ReadWaitMax   = time.Second
	ReadHeavyWait = 3 * time.Second
)

const DefaultUsersPerCategory = 10

// Calls to create per org before steady-state traffic unlocks.
const DefaultQuota = 350

// Minimum interval between scheduled-read executions of one user.
const DefaultThrottleInterval = 30 * time.Second

// ramp-up progress is logged every this many creations
const CreateProgressStep = 50

// scheduled-read query shape
const (
	ScheduledTimesCalledLT = 3
	ScheduledPerPage       = 10
	ScheduledLookback      = 24 * time.Hour
)

// heavy-read query shape
const (
	HeavyPerPage = 500
	HeavySort    = "-last_call_time"
)
