package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSilentWav(t *testing.T, rate beep.SampleRate) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "silence.wav")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(file, generators.Silence(rate.N(time.Second/10)), format))
	return path
}

func TestToggle_WithoutTrackStaysOff(t *testing.T) {
	player := NewPlayer(Config{}, zerolog.Nop())

	assert.False(t, player.Toggle())
	assert.False(t, player.Enabled())
	assert.False(t, player.Toggle(), "every attempt fails the same way")
}

func TestToggle_MissingFileStaysOff(t *testing.T) {
	player := NewPlayer(Config{File: filepath.Join(t.TempDir(), "nope.mp3")}, zerolog.Nop())

	assert.False(t, player.Toggle())
	assert.False(t, player.Enabled())
}

func TestDecodeTrack_Errors(t *testing.T) {
	_, _, err := decodeTrack("   ")
	assert.ErrorIs(t, err, ErrNoTrack)

	_, _, err = decodeTrack("/music/track.ogg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = decodeTrack(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not riff"), 0o644))
	_, _, err = decodeTrack(garbage)
	assert.ErrorContains(t, err, "decode music file")
}

func TestDecodeTrack_Wav(t *testing.T) {
	path := writeSilentWav(t, 22050)

	source, format, err := decodeTrack(path)
	require.NoError(t, err)
	defer source.Close()

	assert.Equal(t, beep.SampleRate(22050), format.SampleRate)
	assert.Equal(t, 2, format.NumChannels)
	assert.Positive(t, source.Len())
}

func TestPlaybackRatio(t *testing.T) {
	assert.InDelta(t, 1.35, playbackRatio(44100, 1.35), 1e-9)
	assert.InDelta(t, 0.5, playbackRatio(22050, 1), 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, DefaultRate, ClampRate(0))
	assert.Equal(t, MinRate, ClampRate(0.1))
	assert.Equal(t, MaxRate, ClampRate(3))
	assert.Equal(t, 1.1, ClampRate(1.1))

	assert.Equal(t, MinVolume, ClampVolume(-10))
	assert.Equal(t, MaxVolume, ClampVolume(4))
	assert.Equal(t, -1.5, ClampVolume(-1.5))
}

func TestUpdateConfig_BeforePlayback(t *testing.T) {
	player := NewPlayer(Config{}, zerolog.Nop())

	player.UpdateConfig(Config{File: " /music/snowfall.mp3 ", Rate: 5})

	player.mu.Lock()
	defer player.mu.Unlock()
	assert.Equal(t, "/music/snowfall.mp3", player.config.File)
	assert.Equal(t, MaxRate, player.config.Rate)
	assert.Nil(t, player.current)
}

func TestClose_Idle(t *testing.T) {
	player := NewPlayer(Config{}, zerolog.Nop())
	assert.NotPanics(t, player.Close)
	assert.False(t, player.Enabled())
}
