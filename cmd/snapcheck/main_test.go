package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCheck(t *testing.T) {
	assert.Equal(t, 0, check(write(t,
		`{"version":1,"entities":[{"id":"a","components":{"Position":{"x":1,"y":2}}}],"resources":{"Score":3}}`)))
	assert.Equal(t, 2, check(write(t,
		`{"version":1,"entities":[{"id":"a","components":{"Ghost":1}}],"resources":{}}`)))
	assert.Equal(t, 1, check(write(t, `{"version":2,"entities":[],"resources":{}}`)))
	assert.Equal(t, 1, check(write(t, `{"version":1,"entities":{},"resources":{}}`)))
	assert.Equal(t, 1, check(filepath.Join(t.TempDir(), "missing.json")))
}
