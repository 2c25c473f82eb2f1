package model

import (
	"math/rand"

	"github.com/isucon/isucandar/agent"
)

// User is one simulated API client: a credential picked at startup plus
// the IDs of the calls it created itself. One scenario goroutine owns
// one User, so none of this needs locking.
type User struct {
	Cred  Credential
	Agent *agent.Agent

	callIDs []string
}

func NewUser(cred Credential) *User {
	return &User{Cred: cred}
}

func (u *User) AddCallID(id string) {
	u.callIDs = append(u.callIDs, id)
}

// SampleCallID returns a random call created by this user, used as a
// fallback when the shared list is empty.
func (u *User) SampleCallID() (string, bool) {
	if len(u.callIDs) == 0 {
		return "", false
	}
	return u.callIDs[rand.Intn(len(u.callIDs))], true
}

// DropCallID prunes an ID the server reported as gone.
func (u *User) DropCallID(id string) {
	for i, v := range u.callIDs {
		if v == id {
			u.callIDs[i] = u.callIDs[len(u.callIDs)-1]
			u.callIDs = u.callIDs[:len(u.callIDs)-1]
			return
		}
	}
}

func (u *User) CallIDCount() int {
	return len(u.callIDs)
}
