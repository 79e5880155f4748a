package wizard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaVideo(t *testing.T) {
	m := NewMedia(9)
	require.NoError(t, m.AddVideo("v1"))
	assert.Equal(t, "v1", m.Video())

	err := m.AddVideo("v2")
	assert.ErrorIs(t, err, ErrVideoAlreadySet)
	assert.Equal(t, "v1", m.Video(), "first video must be kept")
}

func TestMediaPhotoLimit(t *testing.T) {
	m := NewMedia(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, m.AddPhoto(fmt.Sprintf("p%d", i)))
	}

	// Repeated uploads past the cap fail identically without side effects.
	for i := 0; i < 2; i++ {
		err := m.AddPhoto("extra")
		assert.ErrorIs(t, err, ErrPhotoLimit)
		assert.Equal(t, 3, m.PhotoCount())
	}
	assert.Equal(t, []string{"p0", "p1", "p2"}, m.Photos())
}

func TestMediaFinish(t *testing.T) {
	t.Run("any allows empty", func(t *testing.T) {
		assert.NoError(t, NewMedia(9).Finish(MediaAny))
	})

	t.Run("require_one rejects empty", func(t *testing.T) {
		assert.ErrorIs(t, NewMedia(9).Finish(MediaRequireOne), ErrMediaIncomplete)
	})

	t.Run("require_one passes with a photo", func(t *testing.T) {
		m := NewMedia(9)
		require.NoError(t, m.AddPhoto("p"))
		assert.NoError(t, m.Finish(MediaRequireOne))
	})

	t.Run("require_one passes with a video", func(t *testing.T) {
		m := NewMedia(9)
		require.NoError(t, m.AddVideo("v"))
		assert.NoError(t, m.Finish(MediaRequireOne))
	})
}

func TestMediaReset(t *testing.T) {
	m := NewMedia(9)
	require.NoError(t, m.AddVideo("v"))
	require.NoError(t, m.AddPhoto("p"))
	m.Reset()
	assert.True(t, m.Empty())
	assert.Equal(t, 9, m.MaxPhotos())
}

func TestPolicyFromString(t *testing.T) {
	assert.Equal(t, MediaRequireOne, PolicyFromString("require_one"))
	assert.Equal(t, MediaAny, PolicyFromString("any"))
	assert.Equal(t, MediaAny, PolicyFromString(""))
}
