package game

import (
	"context"

	"github.com/jacobpatterson1549/trop-dur/game"
	"github.com/jacobpatterson1549/trop-dur/game/message"
	"github.com/jacobpatterson1549/trop-dur/game/stroke"
	"github.com/jacobpatterson1549/trop-dur/ui/game/timer"
	"github.com/jacobpatterson1549/trop-dur/ui/game/view"
	"github.com/jacobpatterson1549/trop-dur/ui/game/voice"
)

type mockSocket struct {
	RunFunc  func(ctx context.Context) (<-chan message.Message, error)
	SendFunc func(m message.Message)
	ErrFunc  func() error
}

func (s *mockSocket) Run(ctx context.Context) (<-chan message.Message, error) {
	return s.RunFunc(ctx)
}

func (s *mockSocket) Send(m message.Message) {
	s.SendFunc(m)
}

func (s *mockSocket) Err() error {
	return s.ErrFunc()
}

type mockShell struct {
	RenderFunc      func(v view.View)
	RenderTimerFunc func(d timer.Display)
	ChatFunc        func(c message.Chat)
	AlertFunc       func(text string)
}

func (s *mockShell) Render(v view.View) {
	s.RenderFunc(v)
}

func (s *mockShell) RenderTimer(d timer.Display) {
	s.RenderTimerFunc(d)
}

func (s *mockShell) Chat(c message.Chat) {
	s.ChatFunc(c)
}

func (s *mockShell) Alert(text string) {
	s.AlertFunc(text)
}

type mockSurface struct {
	ClearFunc       func()
	DrawSegmentFunc func(s stroke.Segment)
}

func (s *mockSurface) Clear() {
	s.ClearFunc()
}

func (s *mockSurface) DrawSegment(seg stroke.Segment) {
	s.DrawSegmentFunc(seg)
}

type mockMicrophone struct {
	OpenFunc func() (voice.AudioSource, error)
}

func (m *mockMicrophone) Open() (voice.AudioSource, error) {
	return m.OpenFunc()
}

type mockAudioSource struct {
	CloseFunc func() error
}

func (s *mockAudioSource) Close() error {
	return s.CloseFunc()
}

type mockPeerFactory struct {
	NewPeerFunc func(remoteID game.PlayerID, src voice.AudioSource, cb voice.Callbacks) (voice.PeerConnection, error)
}

func (f *mockPeerFactory) NewPeer(remoteID game.PlayerID, src voice.AudioSource, cb voice.Callbacks) (voice.PeerConnection, error) {
	return f.NewPeerFunc(remoteID, src, cb)
}

type mockPeerConnection struct {
	OfferFunc        func() (voice.Description, error)
	AnswerFunc       func(offer voice.Description) (voice.Description, error)
	AcceptFunc       func(answer voice.Description) error
	AddCandidateFunc func(c voice.Candidate) error
	CloseFunc        func() error
}

func (c *mockPeerConnection) Offer() (voice.Description, error) {
	return c.OfferFunc()
}

func (c *mockPeerConnection) Answer(offer voice.Description) (voice.Description, error) {
	return c.AnswerFunc(offer)
}

func (c *mockPeerConnection) Accept(answer voice.Description) error {
	return c.AcceptFunc(answer)
}

func (c *mockPeerConnection) AddCandidate(cand voice.Candidate) error {
	return c.AddCandidateFunc(cand)
}

func (c *mockPeerConnection) Close() error {
	return c.CloseFunc()
}
