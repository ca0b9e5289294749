package publisher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The preflight cache is keyed by video path: the runner outlives a
// single publish call, so a later request with a different file must
// not see an earlier file's cached outcome.
func TestBrowserRunner_ProbeCachePerPath(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.mp4")
	second := filepath.Join(dir, "second.mp4")

	r := &browserRunner{}

	_, err := r.probe(first)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first.mp4")

	_, err = r.probe(second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second.mp4")
	assert.NotContains(t, err.Error(), "first.mp4")
}

func TestBrowserRunner_ProbeCachesPerPathResult(t *testing.T) {
	r := &browserRunner{}
	path := filepath.Join(t.TempDir(), "clip.mp4")

	_, err1 := r.probe(path)
	_, err2 := r.probe(path)

	require.Error(t, err1)
	assert.Same(t, err1, err2)
}
