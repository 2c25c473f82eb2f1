package random

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalleeNameFromPool(t *testing.T) {
	pool := map[string]struct{}{}
	for _, n := range calleeNames {
		pool[n] = struct{}{}
	}
	for i := 0; i < 50; i++ {
		assert.Contains(t, pool, CalleeName())
	}
}

func TestPhoneFormat(t *testing.T) {
	re := regexp.MustCompile(`^\+1555\d{4}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, re, Phone())
	}
}

func TestCallAtIsMidnightUTC(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 42, 7, 123, time.FixedZone("JST", 9*60*60))
	at := CallAt(now)

	assert.Equal(t, time.UTC, at.Location())
	assert.Equal(t, 2026, at.Year())
	assert.Equal(t, time.August, at.Month())
	assert.Equal(t, 31, at.Day())
	assert.Zero(t, at.Hour())
	assert.Zero(t, at.Minute())
	assert.Zero(t, at.Second())
	assert.Zero(t, at.Nanosecond())
}
