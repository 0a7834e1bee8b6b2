// Package voice connects the players who enabled voice chat to each other, one link per pair of players.
package voice

import (
	"errors"

	"github.com/jacobpatterson1549/trop-dur/game"
)

type (
	// Role tells which side of the link started the negotiation.
	Role int

	// State is the progress of a link.
	State int

	// PeerState is the connection state reported by a peer connection.
	PeerState int

	// Link is a connection to one other player.
	Link struct {
		RemoteID game.PlayerID
		Role     Role
		State    State
		conn     PeerConnection
	}

	// Description is a session description sent as an offer or answer.
	Description struct {
		Type string `json:"type"`
		SDP  string `json:"sdp"`
	}

	// Candidate is a connectivity candidate.
	Candidate struct {
		Candidate        string  `json:"candidate"`
		SDPMid           *string `json:"sdpMid,omitempty"`
		SDPMLineIndex    *uint16 `json:"sdpMLineIndex,omitempty"`
		UsernameFragment *string `json:"usernameFragment,omitempty"`
	}

	// AudioSource is the captured local audio.  It is released by closing it.
	AudioSource interface {
		Close() error
	}

	// Microphone opens the local audio.  Opening can block, so it is never called on the session loop.
	Microphone interface {
		Open() (AudioSource, error)
	}

	// PeerFactory creates connections to other players that send the local audio.
	PeerFactory interface {
		NewPeer(remoteID game.PlayerID, src AudioSource, cb Callbacks) (PeerConnection, error)
	}

	// Callbacks are called by a peer connection from its own goroutines.
	Callbacks struct {
		// OnCandidate is called for each local candidate found.
		OnCandidate func(c Candidate)
		// OnStateChange is called when the connection state changes.
		OnStateChange func(s PeerState)
	}

	// PeerConnection is the negotiation and media of a link.
	PeerConnection interface {
		// Offer creates and applies a local offer.
		Offer() (Description, error)
		// Answer applies the remote offer and creates and applies the local answer.
		Answer(offer Description) (Description, error)
		// Accept applies the remote answer to a previously created offer.
		Accept(answer Description) error
		// AddCandidate applies a remote candidate.
		AddCandidate(c Candidate) error
		// Close stops the connection and its audio.
		Close() error
	}
)

const (
	// Initiator sends the offer.  The player already in voice chat initiates links to players who join it.
	Initiator Role = iota
	// Responder answers the offer.
	Responder
)

const (
	// NoLink is the state of a player without a link.
	NoLink State = iota
	// Negotiating is the state of a link waiting for its connection.
	Negotiating
	// Connected is the state of a link with audio.
	Connected
	// Closed is the state of a link that is no longer used.
	Closed
)

const (
	// PeerNew is the state of a connection that has not started.
	PeerNew PeerState = iota
	// PeerConnecting is the state of a connection in progress.
	PeerConnecting
	// PeerConnected is the state of a connection with media flowing.
	PeerConnected
	// PeerDisconnected is the state of a connection that might recover.
	PeerDisconnected
	// PeerFailed is the state of a connection that will not recover.
	PeerFailed
	// PeerClosed is the state of a closed connection.
	PeerClosed
)

// ErrNoDevice is returned by a microphone when there is no audio to capture.
var ErrNoDevice = errors.New("no audio capture device")

func (r Role) String() string {
	if r == Initiator {
		return "initiator"
	}
	return "responder"
}

func (s State) String() string {
	switch s {
	case Negotiating:
		return "negotiating"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	}
	return "no-link"
}
