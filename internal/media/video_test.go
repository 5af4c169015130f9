package media

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideo_PlayMutedSucceeds(t *testing.T) {
	v := newVideo("clip.mp4")
	require.NoError(t, v.Play())
	assert.True(t, v.Playing())
}

func TestVideo_PlayUnmutedIsBlocked(t *testing.T) {
	v := newVideo("clip.mp4")
	v.UnmuteAndPlay()
	v.Pause()

	err := v.Play()
	require.ErrorIs(t, err, ErrAutoplayBlocked)
	assert.False(t, v.Playing(), "blocked play must not change state")
}

func TestVideo_UnmuteAndPlay(t *testing.T) {
	v := newVideo("clip.mp4")
	v.UnmuteAndPlay()

	assert.False(t, v.Muted())
	assert.True(t, v.Playing())
}

func TestVideo_ResetForLoss(t *testing.T) {
	v := newVideo("clip.mp4")
	v.UnmuteAndPlay()
	v.Advance(3.5)
	require.Greater(t, v.Position(), 0.0)

	v.ResetForLoss()

	assert.False(t, v.Playing(), "reset pauses playback")
	assert.Equal(t, 0.0, v.Position(), "reset rewinds to the start")
	assert.True(t, v.Muted(), "reset re-mutes")
}

func TestVideo_AdvanceOnlyWhilePlaying(t *testing.T) {
	v := newVideo("clip.mp4")
	v.Advance(2)
	assert.Equal(t, 0.0, v.Position())

	require.NoError(t, v.Play())
	v.Advance(2)
	assert.Equal(t, 2.0, v.Position())
}

func TestVideo_ConcurrentMutationsDoNotTear(t *testing.T) {
	v := newVideo("clip.mp4")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = v.Play()
			v.Advance(0.01)
		}()
		go func() {
			defer wg.Done()
			v.ResetForLoss()
		}()
	}
	wg.Wait()

	// Whatever interleaving happened, nothing here unmutes, so a torn
	// play/reset pair is the only way muted could end up false.
	assert.True(t, v.Muted())
}
