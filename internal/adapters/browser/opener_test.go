package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type launch struct {
	args []string
	name string
}

func newRecordingOpener(browser string, err error) (*Opener, *[]launch) {
	var launches []launch
	o := NewOpener(browser)
	o.start = func(name string, args ...string) error {
		launches = append(launches, launch{args: args, name: name})
		return err
	}
	return o, &launches
}

func TestOpener_Priority(t *testing.T) {
	t.Setenv("REPOLINES_BROWSER", "firefox")
	t.Setenv("BROWSER", "chromium")

	o, launches := newRecordingOpener("lynx", nil)
	require.NoError(t, o.Open("http://localhost:5000/stats?owner=a&repo=b"))
	assert.Equal(t, "lynx", (*launches)[0].name)

	o, launches = newRecordingOpener("", nil)
	require.NoError(t, o.Open("https://example.com"))
	assert.Equal(t, "firefox", (*launches)[0].name)
	assert.Equal(t, []string{"https://example.com"}, (*launches)[0].args)

	t.Setenv("REPOLINES_BROWSER", "")
	o, launches = newRecordingOpener("", nil)
	require.NoError(t, o.Open("https://example.com"))
	assert.Equal(t, "chromium", (*launches)[0].name)
}

func TestOpener_RejectsNonHTTP(t *testing.T) {
	o, launches := newRecordingOpener("firefox", nil)

	assert.Error(t, o.Open("file:///etc/passwd"))
	assert.Error(t, o.Open("javascript:alert(1)"))
	assert.Empty(t, *launches)
}

func TestOpener_StartFailure(t *testing.T) {
	o, _ := newRecordingOpener("firefox", errors.New("not found"))

	err := o.Open("https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start browser")
}
