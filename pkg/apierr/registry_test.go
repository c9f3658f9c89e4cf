package apierr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRegistries(t *testing.T) {
	statuses := DefaultStatusRegistry()
	text, ok := statuses.Lookup(600)
	assert.True(t, ok)
	assert.Equal(t, "Unparseable Response Headers", text)
	assert.False(t, statuses.Has(99))

	for _, errno := range DefaultErrnoRegistry().Codes() {
		assert.True(t, statuses.Has(errno/100), "errno %d has no status", errno)
	}
}

func TestRegistryIsolation(t *testing.T) {
	src := map[int]string{404: "Not Found"}
	r := NewRegistry(src)
	src[404] = "changed"
	text, _ := r.Lookup(404)
	assert.Equal(t, "Not Found", text)

	ext := r.Extend(map[int]string{404: "Missing", 499: "Client Closed Request"})
	text, _ = r.Lookup(404)
	assert.Equal(t, "Not Found", text)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 2, ext.Len())
	assert.Equal(t, []int{404, 499}, ext.Codes())
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	_, ok := r.Lookup(404)
	assert.False(t, ok)
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Codes())
	assert.Equal(t, 1, r.Extend(map[int]string{1: "a"}).Len())
}
