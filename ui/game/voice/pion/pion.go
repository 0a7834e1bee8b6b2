// Package pion implements voice links with pion/webrtc.
package pion

import (
	"errors"
	"fmt"

	"github.com/jacobpatterson1549/trop-dur/game"
	"github.com/jacobpatterson1549/trop-dur/ui/game/voice"
	"github.com/jacobpatterson1549/trop-dur/ui/log"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
)

type (
	// Factory creates webrtc peer connections.
	Factory struct {
		config webrtc.Configuration
		Config
	}

	// Config contains the parameters to create a Factory.
	Config struct {
		// ICEServers are the stun urls used to find candidates.
		ICEServers []string
		// Log is used to log remote audio problems.
		Log log.Logger
		// Sink creates the writer for the audio of the remote player.  Remote audio is discarded when it is nil or returns nil.
		Sink func(remoteID game.PlayerID) media.Writer
	}

	// peer is a voice link backed by a webrtc peer connection.
	peer struct {
		remoteID game.PlayerID
		pc       *webrtc.PeerConnection
		log      log.Logger
	}
)

// DefaultICEServers are public stun servers.
var DefaultICEServers = []string{
	"stun:stun.l.google.com:19302",
	"stun:stun1.l.google.com:19302",
}

// errNotTrack is returned when the audio source was not opened by this package.
var errNotTrack = errors.New("audio source is not a pion track")

// Factory implements the voice.PeerFactory interface.
var _ voice.PeerFactory = (*Factory)(nil)

// NewFactory creates a peer factory.
func (cfg Config) NewFactory() (*Factory, error) {
	if cfg.Log == nil {
		return nil, fmt.Errorf("creating peer factory: log required")
	}
	var iceServers []webrtc.ICEServer
	if len(cfg.ICEServers) != 0 {
		iceServers = []webrtc.ICEServer{
			{URLs: cfg.ICEServers},
		}
	}
	f := Factory{
		config: webrtc.Configuration{
			ICEServers: iceServers,
		},
		Config: cfg,
	}
	return &f, nil
}

// NewPeer creates a connection that sends the track to the remote player.
func (f *Factory) NewPeer(remoteID game.PlayerID, src voice.AudioSource, cb voice.Callbacks) (voice.PeerConnection, error) {
	t, ok := src.(*Track)
	if !ok {
		return nil, errNotTrack
	}
	pc, err := webrtc.NewPeerConnection(f.config)
	if err != nil {
		return nil, fmt.Errorf("creating peer connection: %w", err)
	}
	sender, err := pc.AddTrack(t.local)
	if err != nil {
		pc.Close()
		return nil, fmt.Errorf("adding local audio: %w", err)
	}
	go drainRTCP(sender)
	p := peer{
		remoteID: remoteID,
		pc:       pc,
		log:      f.Log,
	}
	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil || cb.OnCandidate == nil {
			return // gathering complete
		}
		cb.OnCandidate(candidate(c.ToJSON()))
	})
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		if cb.OnStateChange != nil {
			cb.OnStateChange(peerState(s))
		}
	})
	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		var w media.Writer
		if f.Sink != nil {
			w = f.Sink(remoteID)
		}
		p.playRemote(track, w)
	})
	return &p, nil
}

// Offer creates and applies a local offer.
func (p *peer) Offer() (voice.Description, error) {
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return voice.Description{}, fmt.Errorf("creating offer: %w", err)
	}
	if err := p.pc.SetLocalDescription(offer); err != nil {
		return voice.Description{}, fmt.Errorf("setting offer: %w", err)
	}
	return description(offer), nil
}

// Answer applies the remote offer and creates the answer.
func (p *peer) Answer(offer voice.Description) (voice.Description, error) {
	if err := p.pc.SetRemoteDescription(sessionDescription(offer)); err != nil {
		return voice.Description{}, fmt.Errorf("setting remote offer: %w", err)
	}
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return voice.Description{}, fmt.Errorf("creating answer: %w", err)
	}
	if err := p.pc.SetLocalDescription(answer); err != nil {
		return voice.Description{}, fmt.Errorf("setting answer: %w", err)
	}
	return description(answer), nil
}

// Accept applies the remote answer.
func (p *peer) Accept(answer voice.Description) error {
	if err := p.pc.SetRemoteDescription(sessionDescription(answer)); err != nil {
		return fmt.Errorf("setting remote answer: %w", err)
	}
	return nil
}

// AddCandidate applies a remote candidate.
func (p *peer) AddCandidate(c voice.Candidate) error {
	ci := webrtc.ICECandidateInit{
		Candidate:        c.Candidate,
		SDPMid:           c.SDPMid,
		SDPMLineIndex:    c.SDPMLineIndex,
		UsernameFragment: c.UsernameFragment,
	}
	return p.pc.AddICECandidate(ci)
}

// Close stops the connection, which ends the remote audio.
func (p *peer) Close() error {
	return p.pc.Close()
}

// playRemote writes the remote audio until the track ends.
func (p *peer) playRemote(track *webrtc.TrackRemote, w media.Writer) {
	if w != nil {
		defer w.Close()
	}
	p.log.Debug(fmt.Sprintf("receiving %v audio from %v", track.Codec().MimeType, p.remoteID))
	for {
		pkt, _, err := track.ReadRTP()
		if err != nil {
			return
		}
		if w == nil {
			continue
		}
		if err := w.WriteRTP(pkt); err != nil {
			p.log.Warning(fmt.Sprintf("writing audio from %v: %v", p.remoteID, err))
			w = nil
		}
	}
}

// drainRTCP reads the control packets of the sender so the interceptors run.
func drainRTCP(sender *webrtc.RTPSender) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			return
		}
	}
}

func description(sd webrtc.SessionDescription) voice.Description {
	return voice.Description{
		Type: sd.Type.String(),
		SDP:  sd.SDP,
	}
}

func sessionDescription(d voice.Description) webrtc.SessionDescription {
	return webrtc.SessionDescription{
		Type: webrtc.NewSDPType(d.Type),
		SDP:  d.SDP,
	}
}

func candidate(ci webrtc.ICECandidateInit) voice.Candidate {
	return voice.Candidate{
		Candidate:        ci.Candidate,
		SDPMid:           ci.SDPMid,
		SDPMLineIndex:    ci.SDPMLineIndex,
		UsernameFragment: ci.UsernameFragment,
	}
}

func peerState(s webrtc.PeerConnectionState) voice.PeerState {
	switch s {
	case webrtc.PeerConnectionStateConnecting:
		return voice.PeerConnecting
	case webrtc.PeerConnectionStateConnected:
		return voice.PeerConnected
	case webrtc.PeerConnectionStateDisconnected:
		return voice.PeerDisconnected
	case webrtc.PeerConnectionStateFailed:
		return voice.PeerFailed
	case webrtc.PeerConnectionStateClosed:
		return voice.PeerClosed
	}
	return voice.PeerNew
}
