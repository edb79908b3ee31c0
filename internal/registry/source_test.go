package registry

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := NewSet("blackberry.app", "blackberry.event")

	ok, err := s.Available(context.Background(), "blackberry.app")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Available(context.Background(), "blackberry.ui.dialog")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDir(t *testing.T) {
	fsys := fstest.MapFS{
		"blackberry.app/manifest.json":   {Data: []byte(`{"namespace":"blackberry.app"}`)},
		"blackberry.app/index.js":        {Data: []byte("")},
		"blackberry.ui.dialog/client.js": {Data: []byte("")},
		"blackberry.dir/manifest.json/x": {Data: []byte("")},
	}
	d := NewDir(fsys)
	ctx := context.Background()

	tests := []struct {
		id   string
		want bool
	}{
		{"blackberry.app", true},
		{"blackberry.ui.dialog", false},
		{"blackberry.missing", false},
		{"blackberry.dir", false},
		{"", false},
		{"..", false},
		{"blackberry.app/../blackberry.app", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			ok, err := d.Available(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestDirCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDir(fstest.MapFS{}).Available(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

type failingSource struct{ err error }

func (f failingSource) Available(context.Context, string) (bool, error) {
	return false, f.err
}

func TestUnion(t *testing.T) {
	boom := errors.New("boom")
	u := Union{failingSource{err: boom}, NewSet("a")}
	ctx := context.Background()

	ok, err := u.Available(ctx, "a")
	require.NoError(t, err, "a yes from any member hides other members' errors")
	assert.True(t, ok)

	ok, err = u.Available(ctx, "b")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)

	ok, err = Union{NewSet("x")}.Available(ctx, "b")
	assert.NoError(t, err)
	assert.False(t, ok)
}
