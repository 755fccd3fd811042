package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"
)

const (
	DefaultRate = 1.35
	MinRate     = 0.5
	MaxRate     = 2.0
	MinVolume   = -5.0
	MaxVolume   = 1.0
)

const (
	speakerRate     beep.SampleRate = 44100
	resampleQuality                 = 4
)

var (
	// ErrNoTrack is returned when music is requested without a configured file.
	ErrNoTrack = errors.New("no music track configured")
	// ErrUnsupportedFormat is returned for files that are neither mp3 nor wav.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Config describes the background track.
type Config struct {
	File   string
	Rate   float64
	Volume float64
}

type track struct {
	file      string
	source    beep.StreamSeekCloser
	format    beep.Format
	resampler *beep.Resampler
	ctrl      *beep.Ctrl
	volume    *effects.Volume
}

// Player loops one background track on the speaker.
type Player struct {
	mu           sync.Mutex
	config       Config
	logger       zerolog.Logger
	enabled      bool
	current      *track
	speakerReady bool
}

// NewPlayer creates a paused player. Nothing is decoded until the first Toggle.
func NewPlayer(config Config, logger zerolog.Logger) *Player {
	return &Player{
		config: normalize(config),
		logger: logger.With().Str("component", "audio").Logger(),
	}
}

// Enabled reports whether music is currently playing.
func (player *Player) Enabled() bool {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.enabled
}

// Toggle flips music on or off and returns the new state.
// When the track cannot be played the failure is logged and music stays off.
func (player *Player) Toggle() bool {
	player.mu.Lock()
	defer player.mu.Unlock()

	if player.enabled {
		player.pauseLocked()
		player.enabled = false
		return false
	}

	if err := player.playLocked(); err != nil {
		player.logger.Warn().Err(err).Str("file", player.config.File).Msg("music unavailable")
		return false
	}
	player.enabled = true
	return true
}

// UpdateConfig applies new settings. Rate and volume change in place;
// a different file is reopened on the next play.
func (player *Player) UpdateConfig(config Config) {
	config = normalize(config)

	player.mu.Lock()
	defer player.mu.Unlock()

	previous := player.config
	player.config = config
	if player.current == nil {
		return
	}

	if config.File != previous.File {
		player.closeTrackLocked()
		if player.enabled {
			if err := player.playLocked(); err != nil {
				player.logger.Warn().Err(err).Str("file", config.File).Msg("music unavailable")
				player.enabled = false
			}
		}
		return
	}

	speaker.Lock()
	player.current.resampler.SetRatio(playbackRatio(player.current.format.SampleRate, config.Rate))
	player.current.volume.Volume = config.Volume
	speaker.Unlock()
}

// Close stops playback and releases the decoded track.
func (player *Player) Close() {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.closeTrackLocked()
	player.enabled = false
}

func (player *Player) playLocked() error {
	if player.current != nil {
		speaker.Lock()
		player.current.ctrl.Paused = false
		speaker.Unlock()
		return nil
	}

	source, format, err := decodeTrack(player.config.File)
	if err != nil {
		return err
	}
	if err := player.ensureSpeakerLocked(); err != nil {
		_ = source.Close()
		return err
	}

	resampler := beep.ResampleRatio(resampleQuality, playbackRatio(format.SampleRate, player.config.Rate), beep.Loop(-1, source))
	ctrl := &beep.Ctrl{Streamer: resampler}
	volume := &effects.Volume{Streamer: ctrl, Base: 2, Volume: player.config.Volume}

	player.current = &track{
		file:      player.config.File,
		source:    source,
		format:    format,
		resampler: resampler,
		ctrl:      ctrl,
		volume:    volume,
	}
	speaker.Play(volume)
	player.logger.Debug().Str("file", player.config.File).Float64("rate", player.config.Rate).Msg("music started")
	return nil
}

func (player *Player) pauseLocked() {
	if player.current == nil {
		return
	}
	speaker.Lock()
	player.current.ctrl.Paused = true
	speaker.Unlock()
}

func (player *Player) closeTrackLocked() {
	if player.current == nil {
		return
	}
	speaker.Clear()
	if err := player.current.source.Close(); err != nil {
		player.logger.Debug().Err(err).Str("file", player.current.file).Msg("close music file")
	}
	player.current = nil
}

func (player *Player) ensureSpeakerLocked() error {
	if player.speakerReady {
		return nil
	}
	if err := speaker.Init(speakerRate, speakerRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	player.speakerReady = true
	return nil
}

// decodeTrack opens file and returns its decoded stream.
func decodeTrack(file string) (beep.StreamSeekCloser, beep.Format, error) {
	if strings.TrimSpace(file) == "" {
		return nil, beep.Format{}, ErrNoTrack
	}

	ext := strings.ToLower(filepath.Ext(file))
	if ext != ".mp3" && ext != ".wav" {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	handle, err := os.Open(file)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open music file: %w", err)
	}

	var (
		source beep.StreamSeekCloser
		format beep.Format
	)
	if ext == ".mp3" {
		source, format, err = mp3.Decode(handle)
	} else {
		source, format, err = wav.Decode(handle)
	}
	if err != nil {
		_ = handle.Close()
		return nil, beep.Format{}, fmt.Errorf("decode music file: %w", err)
	}
	return source, format, nil
}

// playbackRatio combines sample rate conversion with the speed-up factor.
func playbackRatio(source beep.SampleRate, rate float64) float64 {
	return float64(source) / float64(speakerRate) * rate
}

func normalize(config Config) Config {
	config.File = strings.TrimSpace(config.File)
	config.Rate = ClampRate(config.Rate)
	config.Volume = ClampVolume(config.Volume)
	return config
}

// ClampRate keeps rate within [MinRate, MaxRate]; zero means DefaultRate.
func ClampRate(rate float64) float64 {
	if rate == 0 {
		return DefaultRate
	}
	if rate < MinRate {
		return MinRate
	}
	if rate > MaxRate {
		return MaxRate
	}
	return rate
}

// ClampVolume keeps the base-2 volume offset within [MinVolume, MaxVolume].
func ClampVolume(volume float64) float64 {
	if volume < MinVolume {
		return MinVolume
	}
	if volume > MaxVolume {
		return MaxVolume
	}
	return volume
}
