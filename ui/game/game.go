// Package game has the ui game logic.
package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jacobpatterson1549/trop-dur/game"
	"github.com/jacobpatterson1549/trop-dur/game/message"
	"github.com/jacobpatterson1549/trop-dur/game/stroke"
	"github.com/jacobpatterson1549/trop-dur/ui/game/canvas"
	"github.com/jacobpatterson1549/trop-dur/ui/game/socket"
	"github.com/jacobpatterson1549/trop-dur/ui/game/timer"
	"github.com/jacobpatterson1549/trop-dur/ui/game/view"
	"github.com/jacobpatterson1549/trop-dur/ui/game/voice"
	"github.com/jacobpatterson1549/trop-dur/ui/log"
	"github.com/jacobpatterson1549/trop-dur/ui/metrics"
	"github.com/jacobpatterson1549/trop-dur/ui/runner"
)

type (
	// Game is the session of the local player in a room.
	// It owns the view, the canvas mirror, the round timer, and the voice links, which are only changed on the goroutine of Run.
	Game struct {
		runner.Runner
		Config
		router    *socket.Router
		view      *view.View
		mirror    *canvas.Mirror
		timer     timer.Timer
		voice     *voice.Manager
		posts     chan func()
		closing   chan struct{}
		stopped   chan struct{}
		closeOnce sync.Once
		poll      ticker
		countdown ticker
	}

	// Config contains the parameters to create a Game.
	Config struct {
		// Room is the room of the game.
		Room string
		// PlayerID is the local player.
		PlayerID game.PlayerID
		// Host is true if the local player can start the next turn.
		Host bool
		// Log is used to log what happens in the game.
		Log log.Logger
		// Socket connects to the server.
		Socket Socket
		// Shell shows the game to the user.
		Shell Shell
		// Surface is where the drawing is mirrored.
		Surface canvas.Surface
		// Microphone captures the local audio for voice chat.
		Microphone voice.Microphone
		// Peers creates the voice connections.
		Peers voice.PeerFactory
		// Metrics records what happens in the game, optional.
		Metrics *metrics.Metrics
		// TickerFunc creates tickers.  Real tickers are used when it is nil.
		TickerFunc TickerFunc
		// NowFunc is the clock of the round timer.  The system clock is used when it is nil.
		NowFunc func() time.Time
	}

	// Socket sends messages to and receives messages from the server.
	Socket interface {
		// Run starts connecting.  The channel is closed when the socket stops.
		Run(ctx context.Context) (<-chan message.Message, error)
		// Send queues a message for the server.
		Send(m message.Message)
		// Err is the reason the socket stopped, if any.
		Err() error
	}

	// Shell is the outer surface that shows the game.
	Shell interface {
		// Render shows the view of the latest snapshot.
		Render(v view.View)
		// RenderTimer shows the round timer.
		RenderTimer(d timer.Display)
		// Chat shows a chat message.
		Chat(c message.Chat)
		// Alert tells the user about a problem.
		Alert(text string)
	}

	// TickerFunc creates a channel that receives the time repeatedly, and a function to stop it.
	TickerFunc func(d time.Duration) (c <-chan time.Time, stop func())

	// ticker is a running ticker, or nil channels if stopped.
	ticker struct {
		c    <-chan time.Time
		stop func()
	}
)

// NewGame creates a game for the player in the room.
func (cfg Config) NewGame() (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating game: validation: %w", err)
	}
	if cfg.TickerFunc == nil {
		cfg.TickerFunc = newTicker
	}
	if cfg.NowFunc == nil {
		cfg.NowFunc = time.Now
	}
	g := Game{
		Config:  cfg,
		router:  socket.NewRouter(),
		mirror:  canvas.NewMirror(cfg.Surface),
		posts:   make(chan func()),
		closing: make(chan struct{}),
		stopped: make(chan struct{}),
	}
	voiceCfg := voice.Config{
		Room:       cfg.Room,
		PlayerID:   cfg.PlayerID,
		Log:        cfg.Log,
		Sender:     cfg.Socket,
		Alerter:    cfg.Shell,
		Microphone: cfg.Microphone,
		Peers:      cfg.Peers,
		Post:       g.Post,
		Metrics:    cfg.Metrics,
	}
	v, err := voiceCfg.NewManager()
	if err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	g.voice = v
	if err := g.registerHandlers(); err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	return &g, nil
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
	case cfg.Socket == nil:
		return fmt.Errorf("socket required")
	case cfg.Shell == nil:
		return fmt.Errorf("shell required")
	case cfg.Surface == nil:
		return fmt.Errorf("surface required")
	}
	return nil
}

// newTicker creates a real ticker.
func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// registerHandlers adds a handler for each message the server sends.
func (g *Game) registerHandlers() error {
	handlers := map[message.Event]socket.Handler{
		message.Connected:         g.handleConnected,
		message.GameStateUpdated:  g.handleSnapshot,
		message.DrawEvent:         g.handleDrawEvent,
		message.StrokeHistorySync: g.handleStrokeHistory,
		message.ClearCanvas:       g.handleClearCanvas,
		message.ChatMessage:       g.handleChat,
		message.UserJoined:        g.handleUserJoined,
		message.UserLeft:          g.handleUserLeft,
		message.Offer:             g.handleOffer,
		message.Answer:            g.handleAnswer,
		message.IceCandidate:      g.handleCandidate,
	}
	for e, h := range handlers {
		if err := g.router.Handle(e, h); err != nil {
			return err
		}
	}
	return nil
}

// Run connects to the server and handles messages, intents, and ticks until the context is done, the game is closed, or the socket stops.
// The error of the socket is returned if it stopped.
func (g *Game) Run(ctx context.Context) error {
	if err := g.Runner.Run(); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	defer g.Runner.Finish()
	defer g.teardown()
	defer close(g.stopped) // callbacks of closing links must not wait on the loop
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	in, err := g.Socket.Run(ctx)
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	for { // BLOCKING
		select {
		case <-ctx.Done():
			return nil
		case <-g.closing:
			return nil
		case m, ok := <-in:
			if !ok {
				return g.Socket.Err()
			}
			g.receive(m)
		case f := <-g.posts:
			f()
		case <-g.poll.c:
			g.requestStrokeHistory()
		case now := <-g.countdown.c:
			g.tick(now)
		}
	}
}

// Post runs the function on the goroutine of Run.
// False is returned if the game has stopped, in which case the function is not run.
func (g *Game) Post(f func()) bool {
	select {
	case <-g.stopped:
		return false
	default:
	}
	select {
	case g.posts <- f:
		return true
	case <-g.stopped:
		return false
	}
}

// Close stops the game and waits for everything it owns to be released.  Closing more than once is a no-op.
func (g *Game) Close() {
	g.closeOnce.Do(func() {
		close(g.closing)
		if err := g.Runner.Run(); err == nil { // never run
			close(g.stopped)
			g.teardown()
			g.Runner.Finish()
			return
		}
		<-g.Runner.Done()
	})
}

// teardown releases the voice links and stops the tickers.
func (g *Game) teardown() {
	g.voice.Close()
	g.poll.Stop()
	g.countdown.Stop()
}

// receive dispatches the message to its handler.
func (g *Game) receive(m message.Message) {
	if err := g.router.Dispatch(m); err != nil {
		g.Log.Debug("ignoring message: " + err.Error())
	}
}

// decode reads the payload of the message, logging it if it cannot be read.
func (g *Game) decode(m message.Message, payload interface{}) bool {
	if err := m.Decode(payload); err != nil {
		g.Log.Warning(err.Error())
		return false
	}
	return true
}

func (g *Game) handleConnected(m message.Message) {
	g.Log.Info("joined room " + g.Room)
	g.voice.Rejoin()
	if g.poll.c != nil {
		g.requestStrokeHistory() // segments may have been missed while disconnected
	}
}

// handleSnapshot derives the view of the snapshot and applies the effects of the change.
func (g *Game) handleSnapshot(m message.Message) {
	var s game.Snapshot
	if !g.decode(m, &s) {
		return
	}
	if s.Phase == game.UnknownPhase {
		g.Log.Warning("snapshot has unknown phase")
	}
	id := view.Identity{
		PlayerID: g.PlayerID,
		Host:     g.Host,
	}
	next := view.Derive(s, id)
	e := view.Transition(g.view, next)
	if e.ClearMirror {
		g.mirror.Clear()
	}
	if e.StopPolling {
		g.poll.Stop()
	}
	if e.StartPolling {
		g.startPolling()
	}
	g.mirror.SetDrawer(next.AmDrawer)
	d := g.timer.Sync(next.RemainingTime, g.NowFunc())
	if g.timer.Running() {
		g.startCountdown()
	} else {
		g.countdown.Stop()
	}
	g.view = &next
	g.Shell.Render(next)
	g.Shell.RenderTimer(d)
}

func (g *Game) handleDrawEvent(m message.Message) {
	var s stroke.Segment
	if !g.decode(m, &s) {
		return
	}
	if g.mirror.ApplyLive(s) {
		g.Metrics.SegmentApplied()
	}
}

func (g *Game) handleStrokeHistory(m message.Message) {
	var h message.History
	if !g.decode(m, &h) {
		return
	}
	if g.mirror.Repair(h.Segments()) {
		g.Metrics.RepairApplied()
		g.Log.Debug(fmt.Sprintf("repaired drawing to %v segments", g.mirror.Len()))
	}
}

func (g *Game) handleClearCanvas(m message.Message) {
	g.mirror.Clear()
}

func (g *Game) handleChat(m message.Message) {
	var c message.Chat
	if !g.decode(m, &c) {
		return
	}
	g.Shell.Chat(c)
}

func (g *Game) handleUserJoined(m message.Message) {
	var p message.Presence
	if !g.decode(m, &p) {
		return
	}
	g.voice.HandleUserJoined(p.PlayerID)
}

func (g *Game) handleUserLeft(m message.Message) {
	var p message.Presence
	if !g.decode(m, &p) {
		return
	}
	g.voice.HandleUserLeft(p.PlayerID)
}

func (g *Game) handleOffer(m message.Message) {
	var s message.Signal
	if g.decode(m, &s) {
		g.voice.HandleOffer(s)
	}
}

func (g *Game) handleAnswer(m message.Message) {
	var s message.Signal
	if g.decode(m, &s) {
		g.voice.HandleAnswer(s)
	}
}

func (g *Game) handleCandidate(m message.Message) {
	var s message.Signal
	if g.decode(m, &s) {
		g.voice.HandleCandidate(s)
	}
}

// startPolling pulls the stroke history now and periodically.
func (g *Game) startPolling() {
	g.requestStrokeHistory()
	if g.poll.c == nil {
		g.poll = g.newTicker(canvas.PollInterval)
	}
}

func (g *Game) requestStrokeHistory() {
	g.send(message.RequestStrokeHistory, message.Room{Room: g.Room})
}

func (g *Game) startCountdown() {
	if g.countdown.c == nil {
		g.countdown = g.newTicker(timer.TickInterval)
	}
}

// tick shows the remaining time and tells the server when it runs out.
func (g *Game) tick(now time.Time) {
	d, expired := g.timer.Tick(now)
	g.Shell.RenderTimer(d)
	if !g.timer.Running() {
		g.countdown.Stop()
	}
	if expired {
		g.Metrics.TimerExpired()
		g.send(message.TimerExpired, message.Room{Room: g.Room})
	}
}

func (g *Game) newTicker(d time.Duration) ticker {
	c, stop := g.TickerFunc(d)
	return ticker{
		c:    c,
		stop: stop,
	}
}

// Stop stops the ticker if it is running.
func (t *ticker) Stop() {
	if t.stop != nil {
		t.stop()
	}
	*t = ticker{}
}

// send queues the message, logging it if the payload could not be encoded.
func (g *Game) send(e message.Event, payload interface{}) {
	m, err := message.New(e, payload)
	if err != nil {
		g.Log.Error(err.Error())
		return
	}
	g.Socket.Send(m)
}

// Draw draws the segment and sends it to the server if the local player is drawing.
func (g *Game) Draw(s stroke.Segment) {
	g.Post(func() {
		if g.view == nil || !g.view.CanvasInteractive {
			g.Log.Debug("ignoring segment drawn while not drawing")
			return
		}
		g.mirror.DrawLocal(s)
		g.send(message.DrawSegment, message.Draw{Room: g.Room, Segment: s})
	})
}

// ClearCanvas erases the drawing for everyone if the local player is drawing.
func (g *Game) ClearCanvas() {
	g.Post(func() {
		if g.view == nil || !g.view.CanvasInteractive {
			g.Log.Debug("ignoring clear while not drawing")
			return
		}
		g.mirror.Clear()
		g.send(message.ClearCanvas, message.Room{Room: g.Room})
	})
}

// SendGuess sends the trimmed text as a guess of the word.  Empty guesses are not sent.
func (g *Game) SendGuess(text string) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}
	g.Post(func() {
		if g.view != nil && !g.view.Chat.Enabled {
			g.Log.Debug("ignoring guess while chat is disabled")
			return
		}
		g.send(message.SendGuess, message.Guess{Room: g.Room, Text: text})
	})
}

// ValidateGuess approves the pending guess of the player.
func (g *Game) ValidateGuess(guesserID game.PlayerID) {
	g.Post(func() {
		if g.view == nil || !g.canValidate(guesserID) {
			g.Log.Debug(fmt.Sprintf("ignoring validation of guess by %q", guesserID))
			return
		}
		g.send(message.SendValidateGuess, message.ValidateGuess{Room: g.Room, GuesserID: guesserID})
	})
}

// canValidate determines if the local player can approve the guess.
func (g *Game) canValidate(guesserID game.PlayerID) bool {
	for _, a := range g.view.Approvals {
		if a.GuesserID == guesserID {
			return !a.ApprovedByMe
		}
	}
	return false
}

// ChooseWord chooses the word on the card at the index and designates the player to draw it.
func (g *Game) ChooseWord(index int, designatedID game.PlayerID) {
	g.Post(func() {
		if g.view == nil || g.view.Overlay != view.ChoosingOverlay {
			g.Log.Debug("ignoring word choice while not choosing")
			return
		}
		if index < 0 || index >= len(g.view.Choosing.Cards) {
			g.Log.Warning(fmt.Sprintf("no card %v to choose", index))
			return
		}
		g.send(message.SendChooseWord, message.ChooseWord{Room: g.Room, Index: index, DesignatedID: designatedID})
	})
}

// RequestNextTurn asks the server to start the next turn if the local player can.
func (g *Game) RequestNextTurn() {
	g.Post(func() {
		if g.view == nil || !g.view.RoundEnd.NextTurn {
			g.Log.Debug("ignoring next turn request")
			return
		}
		g.send(message.RequestNextTurn, message.Room{Room: g.Room})
	})
}

// EnableVoice starts sharing the local audio.
func (g *Game) EnableVoice() {
	g.Post(g.voice.Enable)
}

// DisableVoice stops sharing the local audio.
func (g *Game) DisableVoice() {
	g.Post(g.voice.Disable)
}

// ToggleVoice enables or disables voice.
func (g *Game) ToggleVoice() {
	g.Post(g.voice.Toggle)
}
