package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCallIDs(t *testing.T) {
	u := NewUser(Credential{Org: "LoadTest1", Token: "t"})

	_, ok := u.SampleCallID()
	assert.False(t, ok)

	u.AddCallID("a")
	u.AddCallID("b")
	assert.Equal(t, 2, u.CallIDCount())

	for i := 0; i < 20; i++ {
		id, ok := u.SampleCallID()
		require.True(t, ok)
		assert.Contains(t, []string{"a", "b"}, id)
	}

	u.DropCallID("a")
	assert.Equal(t, 1, u.CallIDCount())
	id, ok := u.SampleCallID()
	require.True(t, ok)
	assert.Equal(t, "b", id)

	u.DropCallID("b")
	_, ok = u.SampleCallID()
	assert.False(t, ok)
}
