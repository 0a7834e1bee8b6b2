package voice

import (
	"github.com/jacobpatterson1549/trop-dur/game"
	"github.com/jacobpatterson1549/trop-dur/game/message"
)

type mockSender struct {
	SendFunc func(m message.Message)
}

func (s *mockSender) Send(m message.Message) {
	s.SendFunc(m)
}

type mockAlerter struct {
	AlertFunc func(text string)
}

func (a *mockAlerter) Alert(text string) {
	a.AlertFunc(text)
}

type mockMicrophone struct {
	OpenFunc func() (AudioSource, error)
}

func (m *mockMicrophone) Open() (AudioSource, error) {
	return m.OpenFunc()
}

type mockAudioSource struct {
	CloseFunc func() error
}

func (s *mockAudioSource) Close() error {
	return s.CloseFunc()
}

type mockPeerFactory struct {
	NewPeerFunc func(remoteID game.PlayerID, src AudioSource, cb Callbacks) (PeerConnection, error)
}

func (f *mockPeerFactory) NewPeer(remoteID game.PlayerID, src AudioSource, cb Callbacks) (PeerConnection, error) {
	return f.NewPeerFunc(remoteID, src, cb)
}

type mockPeerConnection struct {
	OfferFunc        func() (Description, error)
	AnswerFunc       func(offer Description) (Description, error)
	AcceptFunc       func(answer Description) error
	AddCandidateFunc func(c Candidate) error
	CloseFunc        func() error
}

func (c *mockPeerConnection) Offer() (Description, error) {
	return c.OfferFunc()
}

func (c *mockPeerConnection) Answer(offer Description) (Description, error) {
	return c.AnswerFunc(offer)
}

func (c *mockPeerConnection) Accept(answer Description) error {
	return c.AcceptFunc(answer)
}

func (c *mockPeerConnection) AddCandidate(cand Candidate) error {
	return c.AddCandidateFunc(cand)
}

func (c *mockPeerConnection) Close() error {
	return c.CloseFunc()
}
