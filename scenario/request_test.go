package scenario

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callva-one/bench/service"
)

func TestListCacheDeduplicates(t *testing.T) {
	c := &listCache{pages: map[uint64]*service.GetCallsResponse{}}
	raw := []byte(`{"calls":[],"total":0,"page":1,"per_page":10}`)

	first, err := c.getPage(raw)
	require.NoError(t, err)
	second, err := c.getPage(raw)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, c.pages, 1)
}

func TestListCacheStaysBounded(t *testing.T) {
	c := &listCache{pages: map[uint64]*service.GetCallsResponse{}}

	// every body unique, as heavy-read responses are in practice
	for i := 0; i < listCacheLimit*2; i++ {
		raw := []byte(fmt.Sprintf(`{"calls":[],"total":%d,"page":1,"per_page":500}`, i))
		_, err := c.getPage(raw)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, len(c.pages), listCacheLimit)
}

func TestListCacheBadBody(t *testing.T) {
	c := &listCache{pages: map[uint64]*service.GetCallsResponse{}}

	_, err := c.getPage([]byte(`{"calls": nope`))
	require.Error(t, err)
	assert.Empty(t, c.pages)
}
