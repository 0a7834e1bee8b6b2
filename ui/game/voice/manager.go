package voice

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jacobpatterson1549/trop-dur/game"
	"github.com/jacobpatterson1549/trop-dur/game/message"
	"github.com/jacobpatterson1549/trop-dur/ui/log"
	"github.com/jacobpatterson1549/trop-dur/ui/metrics"
)

type (
	// Manager owns the links of the local player.
	// All methods must be called from the session loop.  Work from other goroutines is sent back through Config.Post.
	Manager struct {
		links   map[game.PlayerID]*Link
		source  AudioSource
		enabled bool
		// pending is true while the microphone is being opened.
		pending bool
		// attempt identifies the latest microphone open, so late results of abandoned attempts are released.
		attempt int
		Config
	}

	// Config contains the parameters to create a Manager.
	Config struct {
		// Room is the room the voice chat is in.
		Room string
		// PlayerID is the local player.
		PlayerID game.PlayerID
		// Log is used to log link problems.
		Log log.Logger
		// Sender sends signals to the server.
		Sender Sender
		// Alerter tells the user when the microphone cannot be used.
		Alerter Alerter
		// Microphone captures the local audio.
		Microphone Microphone
		// Peers creates the connections.
		Peers PeerFactory
		// Post runs the function on the session loop.  False is returned if the loop has stopped.
		Post func(f func()) bool
		// Metrics records link counts, optional.
		Metrics *metrics.Metrics
	}

	// Sender sends messages to the server.
	Sender interface {
		Send(m message.Message)
	}

	// Alerter shows a message to the user.
	Alerter interface {
		Alert(text string)
	}
)

// NewManager creates a voice manager with voice disabled.
func (cfg Config) NewManager() (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating voice manager: validation: %w", err)
	}
	m := Manager{
		links:  make(map[game.PlayerID]*Link),
		Config: cfg,
	}
	return &m, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case len(cfg.Room) == 0:
		return fmt.Errorf("room required")
	case len(cfg.PlayerID) == 0:
		return fmt.Errorf("player id required")
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Sender == nil:
		return fmt.Errorf("sender required")
	case cfg.Alerter == nil:
		return fmt.Errorf("alerter required")
	case cfg.Microphone == nil:
		return fmt.Errorf("microphone required")
	case cfg.Peers == nil:
		return fmt.Errorf("peer factory required")
	case cfg.Post == nil:
		return fmt.Errorf("post func required")
	}
	return nil
}

// Active determines if the local audio is captured and shared.
func (m *Manager) Active() bool {
	return m.enabled
}

// Pending determines if the microphone is being opened.
func (m *Manager) Pending() bool {
	return m.pending
}

// Enable starts opening the microphone.  Voice is active once it opens.
func (m *Manager) Enable() {
	if m.enabled || m.pending {
		return
	}
	m.pending = true
	m.attempt++
	attempt := m.attempt
	mic := m.Microphone
	post := m.Post
	go func() {
		src, err := mic.Open()
		if posted := post(func() { m.microphoneOpened(attempt, src, err) }); !posted && src != nil {
			src.Close()
		}
	}()
}

// microphoneOpened activates voice with the source if the attempt is still wanted.
func (m *Manager) microphoneOpened(attempt int, src AudioSource, err error) {
	if attempt != m.attempt || !m.pending {
		if src != nil {
			m.release(src)
		}
		return
	}
	m.pending = false
	if err != nil {
		m.Log.Warning("opening microphone: " + err.Error())
		m.Alerter.Alert(alertText(err))
		return
	}
	m.source = src
	m.enabled = true
	m.send(message.JoinVoice, message.Room{Room: m.Room})
	m.Log.Info("voice chat enabled")
}

// Disable closes every link, releases the microphone, and tells the server.
func (m *Manager) Disable() {
	if m.pending {
		m.pending = false
		return
	}
	if !m.enabled {
		return
	}
	m.teardown()
	m.send(message.LeaveVoice, message.Room{Room: m.Room})
	m.Log.Info("voice chat disabled")
}

// Toggle enables voice if it is disabled, and disables it otherwise.
func (m *Manager) Toggle() {
	if m.enabled || m.pending {
		m.Disable()
		return
	}
	m.Enable()
}

// Close releases everything.  It must be called when the session ends.
func (m *Manager) Close() {
	m.pending = false
	m.attempt++
	if !m.enabled {
		return
	}
	m.teardown()
	m.send(message.LeaveVoice, message.Room{Room: m.Room})
}

// Rejoin tells the server again that voice is active, after the socket reconnects.
func (m *Manager) Rejoin() {
	if !m.enabled {
		return
	}
	m.send(message.JoinVoice, message.Room{Room: m.Room})
}

// teardown closes all links and the source.
func (m *Manager) teardown() {
	for id := range m.links {
		m.closeLink(id)
	}
	if m.source != nil {
		m.release(m.source)
		m.source = nil
	}
	m.enabled = false
}

// HandleUserJoined offers a link to a player who enabled voice.
// An old link to the player is replaced.
func (m *Manager) HandleUserJoined(id game.PlayerID) {
	if !m.enabled || id == m.PlayerID || len(id) == 0 {
		return
	}
	if _, ok := m.links[id]; ok {
		m.closeLink(id)
	}
	l, err := m.newLink(id, Initiator)
	if err != nil {
		m.fail(id, "creating link", err)
		return
	}
	offer, err := l.conn.Offer()
	if err != nil {
		m.closeLink(id)
		m.fail(id, "creating offer", err)
		return
	}
	m.sendSignal(id, message.Offer, func(s *message.Signal, data json.RawMessage) { s.Offer = data }, offer)
}

// HandleUserLeft closes the link to the player, if any.
func (m *Manager) HandleUserLeft(id game.PlayerID) {
	if _, ok := m.links[id]; !ok {
		return
	}
	m.closeLink(id)
	m.Log.Debug(fmt.Sprintf("closed voice link to %v, who left", id))
}

// HandleOffer answers an offer from another player.
// A link that cannot accept a new offer is replaced.
func (m *Manager) HandleOffer(s message.Signal) {
	if !m.enabled {
		m.Log.Debug("ignoring voice offer while voice is disabled")
		return
	}
	if len(s.From) == 0 {
		m.Log.Debug("ignoring voice offer without sender")
		return
	}
	var offer Description
	if err := json.Unmarshal(s.Offer, &offer); err != nil {
		m.Log.Warning("decoding voice offer: " + err.Error())
		return
	}
	id := s.From
	var answer Description
	var err error
	if l, ok := m.links[id]; ok {
		answer, err = l.conn.Answer(offer)
		if err == nil {
			m.sendAnswer(id, answer)
			return
		}
		m.Log.Debug(fmt.Sprintf("replacing voice link to %v after offer failed: %v", id, err))
		m.closeLink(id)
	}
	l, err := m.newLink(id, Responder)
	if err != nil {
		m.fail(id, "creating link", err)
		return
	}
	answer, err = l.conn.Answer(offer)
	if err != nil {
		m.closeLink(id)
		m.fail(id, "answering offer", err)
		return
	}
	m.sendAnswer(id, answer)
}

// HandleAnswer applies an answer to the link that made the offer.
// Answers without a link are stale and ignored.
func (m *Manager) HandleAnswer(s message.Signal) {
	l, ok := m.links[s.From]
	if !ok {
		m.Log.Debug(fmt.Sprintf("ignoring stale voice answer from %q", s.From))
		return
	}
	var answer Description
	if err := json.Unmarshal(s.Answer, &answer); err != nil {
		m.Log.Warning("decoding voice answer: " + err.Error())
		return
	}
	if err := l.conn.Accept(answer); err != nil {
		m.closeLink(s.From)
		m.fail(s.From, "accepting answer", err)
	}
}

// HandleCandidate applies a candidate to the link of the sender.
// A candidate without a known sender is applied to the only link, if there is exactly one.
func (m *Manager) HandleCandidate(s message.Signal) {
	l, ok := m.links[s.From]
	if !ok {
		l, ok = m.soleLink()
	}
	if !ok {
		m.Log.Debug(fmt.Sprintf("ignoring voice candidate from %q", s.From))
		return
	}
	var c Candidate
	if err := json.Unmarshal(s.Candidate, &c); err != nil {
		m.Log.Warning("decoding voice candidate: " + err.Error())
		return
	}
	if err := l.conn.AddCandidate(c); err != nil {
		m.Log.Debug(fmt.Sprintf("adding voice candidate for %v: %v", l.RemoteID, err))
	}
}

// Len is the number of links.
func (m *Manager) Len() int {
	return len(m.links)
}

// Link gets a copy of the link to the player.
func (m *Manager) Link(id game.PlayerID) (Link, bool) {
	l, ok := m.links[id]
	if !ok {
		return Link{}, false
	}
	return *l, true
}

// Links gets copies of the links, ordered by remote id.
func (m *Manager) Links() []Link {
	links := make([]Link, 0, len(m.links))
	for _, l := range m.links {
		links = append(links, *l)
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].RemoteID < links[j].RemoteID
	})
	return links
}

// soleLink is the only link, if there is exactly one.
func (m *Manager) soleLink() (*Link, bool) {
	if len(m.links) != 1 {
		return nil, false
	}
	for _, l := range m.links {
		return l, true
	}
	return nil, false
}

// newLink creates and stores a negotiating link.
func (m *Manager) newLink(id game.PlayerID, r Role) (*Link, error) {
	l := &Link{
		RemoteID: id,
		Role:     r,
		State:    Negotiating,
	}
	cb := Callbacks{
		OnCandidate: func(c Candidate) {
			m.Post(func() { m.localCandidate(l, c) })
		},
		OnStateChange: func(s PeerState) {
			m.Post(func() { m.peerStateChanged(l, s) })
		},
	}
	conn, err := m.Peers.NewPeer(id, m.source, cb)
	if err != nil {
		return nil, err
	}
	l.conn = conn
	m.links[id] = l
	m.Metrics.SetVoiceLinks(len(m.links))
	return l, nil
}

// localCandidate sends a candidate found by the link, if the link is still used.
func (m *Manager) localCandidate(l *Link, c Candidate) {
	if m.links[l.RemoteID] != l {
		return
	}
	m.sendSignal(l.RemoteID, message.IceCandidate, func(s *message.Signal, data json.RawMessage) { s.Candidate = data }, c)
}

// peerStateChanged updates the link, removing it if the connection is lost for good.
func (m *Manager) peerStateChanged(l *Link, s PeerState) {
	if m.links[l.RemoteID] != l {
		return
	}
	switch s {
	case PeerConnected:
		l.State = Connected
		m.Log.Info(fmt.Sprintf("voice connected with %v", l.RemoteID))
	case PeerFailed:
		m.closeLink(l.RemoteID)
		m.fail(l.RemoteID, "connecting", errors.New("connection failed"))
	case PeerClosed:
		m.closeLink(l.RemoteID)
	}
}

// closeLink closes the connection before removing the link.
func (m *Manager) closeLink(id game.PlayerID) {
	l, ok := m.links[id]
	if !ok {
		return
	}
	l.State = Closed
	if err := l.conn.Close(); err != nil {
		m.Log.Debug(fmt.Sprintf("closing voice link to %v: %v", id, err))
	}
	delete(m.links, id)
	m.Metrics.SetVoiceLinks(len(m.links))
}

// fail logs a link problem.  Other links are not affected.
func (m *Manager) fail(id game.PlayerID, action string, err error) {
	m.Log.Warning(fmt.Sprintf("voice link to %v: %v: %v", id, action, err))
	m.Metrics.VoiceLinkFailed()
}

func (m *Manager) release(src AudioSource) {
	if err := src.Close(); err != nil {
		m.Log.Debug("releasing microphone: " + err.Error())
	}
}

func (m *Manager) sendAnswer(id game.PlayerID, answer Description) {
	m.sendSignal(id, message.Answer, func(s *message.Signal, data json.RawMessage) { s.Answer = data }, answer)
}

// sendSignal addresses the payload to the player.
func (m *Manager) sendSignal(to game.PlayerID, e message.Event, set func(s *message.Signal, data json.RawMessage), payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		m.Log.Error(fmt.Sprintf("encoding %v: %v", e, err))
		return
	}
	s := message.Signal{
		Room: m.Room,
		To:   to,
	}
	set(&s, data)
	m.send(e, s)
}

func (m *Manager) send(e message.Event, payload interface{}) {
	msg, err := message.New(e, payload)
	if err != nil {
		m.Log.Error(err.Error())
		return
	}
	m.Sender.Send(msg)
}

// alertText tells the user why voice chat could not start.
func alertText(err error) string {
	if errors.Is(err, ErrNoDevice) {
		return "No microphone found, voice chat is disabled."
	}
	return "Could not open the microphone, voice chat is disabled: " + err.Error()
}
