package random

import (
	"fmt"
	"math/rand"
	"time"
)

// fixed pool so the generated traffic keeps a stable value distribution
var calleeNames = []string{
	"Lisa Anderson", "John Smith", "Maria Garcia", "James Wilson",
	"Anna Rodriguez", "Robert Brown", "Emma Martinez", "Michael Davis",
	"Sophia Lopez", "David Johnson", "Olivia Williams", "Daniel Miller",
}

func CalleeName() string {
	return calleeNames[rand.Intn(len(calleeNames))]
}

// Phone returns a number in the +1-555 test range.
func Phone() string {
	return fmt.Sprintf("+1555%01d%03d", rand.Intn(10), 100+rand.Intn(900))
}

// CallAt is the slot every synthetic call is scheduled into: midnight of
// the current day, UTC.
func CallAt(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
