// Package message contains structures to pass between the ui and server.
package message

import (
	"encoding/json"
	"fmt"

	"github.com/jacobpatterson1549/trop-dur/game"
	"github.com/jacobpatterson1549/trop-dur/game/stroke"
)

type (
	// Event names the purpose of a message.
	Event string

	// Message is the envelope of every message to or from the server.
	Message struct {
		// Event is the purpose of the message.
		Event Event `json:"event"`
		// Data is the payload of the message, its shape depends on the event.
		Data json.RawMessage `json:"data,omitempty"`
	}

	// Room is the payload of messages that only name the room.
	Room struct {
		Room string `json:"room"`
	}

	// Draw is sent by the drawer for each segment drawn.
	Draw struct {
		Room    string         `json:"room"`
		Segment stroke.Segment `json:"draw_event"`
	}

	// Guess is a guess of the word by a player.
	Guess struct {
		Room string `json:"room"`
		Text string `json:"text"`
	}

	// ValidateGuess is sent by the picker or drawer to approve a pending guess.
	ValidateGuess struct {
		Room      string        `json:"room"`
		GuesserID game.PlayerID `json:"guesser_id"`
	}

	// ChooseWord is sent by the picker to choose the word from the card and the player to draw it.
	ChooseWord struct {
		Room         string        `json:"room"`
		Index        int           `json:"index"`
		DesignatedID game.PlayerID `json:"designated_id"`
	}

	// History is the full, ordered list of segments drawn in the current drawing phase.
	History struct {
		Strokes []stroke.Segment `json:"strokes"`
		// DrawData is the name older servers use for the strokes.
		DrawData []stroke.Segment `json:"draw_data,omitempty"`
	}

	// Chat is a line of the chat, usually a guess.
	Chat struct {
		PlayerName string        `json:"player_name"`
		Text       string        `json:"text"`
		Correct    bool          `json:"correct,omitempty"`
		Pending    bool          `json:"pending,omitempty"`
		GuesserID  game.PlayerID `json:"guesser_id,omitempty"`
		System     bool          `json:"system,omitempty"`
	}

	// Presence tells that a player joined or left the voice chat.
	Presence struct {
		PlayerID game.PlayerID `json:"player_id"`
	}

	// Signal carries voice negotiation data between two players through the server.
	// Exactly one of Offer, Answer, and Candidate is set.
	Signal struct {
		Room string `json:"room,omitempty"`
		// From is set by the server to the player who sent the signal.
		From game.PlayerID `json:"from,omitempty"`
		// To is the player the signal is meant for.
		To        game.PlayerID   `json:"to,omitempty"`
		Offer     json.RawMessage `json:"offer,omitempty"`
		Answer    json.RawMessage `json:"answer,omitempty"`
		Candidate json.RawMessage `json:"candidate,omitempty"`
	}
)

// Events the ui sends to the server.
const (
	JoinRoom             Event = "join_room"
	DrawSegment          Event = "draw"
	RequestStrokeHistory Event = "request_stroke_history"
	SendGuess            Event = "guess"
	SendValidateGuess    Event = "validate_guess"
	SendChooseWord       Event = "choose_word"
	RequestNextTurn      Event = "request_next_turn"
	TimerExpired         Event = "timer_expired"
	JoinVoice            Event = "join_voice"
	LeaveVoice           Event = "leave_voice"
)

// Events the server sends to the ui.
const (
	GameStateUpdated  Event = "game_state_updated"
	DrawEvent         Event = "draw_event"
	StrokeHistorySync Event = "stroke_history_sync"
	ChatMessage       Event = "chat_message"
	UserJoined        Event = "user_joined"
	UserLeft          Event = "user_left"
)

// Events sent in both directions.
const (
	// ClearCanvas is sent by the drawer and relayed to everyone else.
	ClearCanvas Event = "clear_canvas"
	// Offer, Answer, and IceCandidate are voice signals relayed between players.
	Offer        Event = "offer"
	Answer       Event = "answer"
	IceCandidate Event = "ice_candidate"
)

// Connected is not sent over the wire.  The socket delivers it after each time it (re)joins the room.
const Connected Event = "connected"

// New creates a message with the payload encoded as its data.
func New(e Event, payload interface{}) (Message, error) {
	m := Message{
		Event: e,
	}
	if payload == nil {
		return m, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encoding %v payload: %w", e, err)
	}
	m.Data = data
	return m, nil
}

// Decode reads the data of the message into the payload.
func (m Message) Decode(payload interface{}) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%v message has no data", m.Event)
	}
	if err := json.Unmarshal(m.Data, payload); err != nil {
		return fmt.Errorf("decoding %v payload: %w", m.Event, err)
	}
	return nil
}

// Segments gets the strokes of the history, falling back to the older field name.
func (h History) Segments() []stroke.Segment {
	if h.Strokes == nil {
		return h.DrawData
	}
	return h.Strokes
}
