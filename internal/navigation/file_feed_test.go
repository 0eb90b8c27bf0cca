package navigation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFeed_ReadsInitialContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location")
	require.NoError(t, os.WriteFile(path, []byte("https://github.com/a/b\n"), 0644))

	feed, err := NewFileFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	assert.Equal(t, "https://github.com/a/b", feed.Location())
	assert.Equal(t, path, feed.Path())
}

func TestFileFeed_MissingFileIsEmpty(t *testing.T) {
	feed, err := NewFileFeed(filepath.Join(t.TempDir(), "location"))
	require.NoError(t, err)
	defer feed.Close()

	assert.Empty(t, feed.Location())
}

func TestFileFeed_WritesBecomeBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "location")
	feed, err := NewFileFeed(path)
	require.NoError(t, err)
	defer feed.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, feed.Start(ctx))

	require.NoError(t, os.WriteFile(path, []byte("https://github.com/octocat/hello-world"), 0644))

	select {
	case batch := <-feed.Mutations():
		assert.Equal(t, 1, batch.AddedNodes)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch for file write")
	}
	assert.Eventually(t, func() bool {
		return feed.Location() == "https://github.com/octocat/hello-world"
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-feed.Mutations():
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFileFeed_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	feed, err := NewFileFeed(filepath.Join(dir, "location"))
	require.NoError(t, err)
	defer feed.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, feed.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0644))
	assert.Never(t, func() bool { return len(feed.Mutations()) > 0 }, 200*time.Millisecond, 20*time.Millisecond)
}
