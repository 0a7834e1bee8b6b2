package pion

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jacobpatterson1549/trop-dur/ui/game/voice"
	"github.com/jacobpatterson1549/trop-dur/ui/log"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/pion/webrtc/v4/pkg/media/oggreader"
)

type (
	// Track is the local audio shared with every link.
	Track struct {
		local     *webrtc.TrackLocalStaticSample
		stop      chan struct{}
		closeOnce sync.Once
		// done is closed when the writer of the track stops, if there is one.
		done chan struct{}
	}

	// FileMicrophone captures audio by playing an Ogg/Opus file in a loop.
	FileMicrophone struct {
		// Path is the name of the file.  There is no device if it is empty.
		Path string
		// Log is used to log problems reading the file.
		Log log.Logger
	}
)

const (
	// opusSampleRate is the granule rate of Ogg/Opus pages.
	opusSampleRate = 48000
	// defaultPageDuration is used when a page has no granule position.
	defaultPageDuration = 20 * time.Millisecond
)

// Track implements the voice.AudioSource interface.
var _ voice.AudioSource = (*Track)(nil)

// FileMicrophone implements the voice.Microphone interface.
var _ voice.Microphone = (*FileMicrophone)(nil)

// NewTrack creates an opus track with a unique stream id.  Samples are written to it by the microphone.
func NewTrack() (*Track, error) {
	codec := webrtc.RTPCodecCapability{
		MimeType:  webrtc.MimeTypeOpus,
		ClockRate: opusSampleRate,
		Channels:  2,
	}
	local, err := webrtc.NewTrackLocalStaticSample(codec, "audio", "voice-"+uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("creating audio track: %w", err)
	}
	t := Track{
		local: local,
		stop:  make(chan struct{}),
	}
	return &t, nil
}

// Close stops writing samples to the track and waits for the writer to stop.
func (t *Track) Close() error {
	t.closeOnce.Do(func() {
		close(t.stop)
	})
	if t.done != nil {
		<-t.done
	}
	return nil
}

// Open starts playing the file on a new track.
func (m FileMicrophone) Open() (voice.AudioSource, error) {
	switch {
	case len(m.Path) == 0:
		return nil, voice.ErrNoDevice
	case m.Log == nil:
		return nil, fmt.Errorf("opening audio file: log required")
	}
	f, err := os.Open(m.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", voice.ErrNoDevice, err)
		}
		return nil, fmt.Errorf("opening audio file: %w", err)
	}
	r, _, err := oggreader.NewWith(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading ogg header: %w", err)
	}
	t, err := NewTrack()
	if err != nil {
		f.Close()
		return nil, err
	}
	t.done = make(chan struct{})
	go m.play(t, f, r)
	return t, nil
}

// play writes the pages of the file as samples, paced by their durations, until the track is closed.
// The file is replayed when it ends.
func (m FileMicrophone) play(t *Track, f *os.File, r *oggreader.OggReader) {
	defer close(t.done)
	defer f.Close()
	var lastGranule uint64
	pages := 0
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		page, header, err := r.ParseNextPage()
		switch {
		case err == io.EOF && pages == 0:
			m.Log.Error("audio file has no pages")
			return
		case err == io.EOF:
			if r, err = m.rewind(f); err != nil {
				m.Log.Error("replaying audio file: " + err.Error())
				return
			}
			lastGranule = 0
			pages = 0
			continue
		case err != nil:
			m.Log.Error("reading audio file: " + err.Error())
			return
		}
		pages++
		d := defaultPageDuration
		if header.GranulePosition > lastGranule {
			samples := header.GranulePosition - lastGranule
			d = time.Duration(samples) * time.Second / opusSampleRate
			lastGranule = header.GranulePosition
		}
		select {
		case <-t.stop:
			return
		case <-timer.C:
		}
		timer.Reset(d)
		if err := t.local.WriteSample(media.Sample{Data: page, Duration: d}); err != nil {
			m.Log.Warning("writing audio sample: " + err.Error())
		}
	}
}

// rewind starts reading the file from the beginning.
func (m FileMicrophone) rewind(f *os.File) (*oggreader.OggReader, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	r, _, err := oggreader.NewWith(f)
	return r, err
}
