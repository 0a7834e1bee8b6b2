package game

import (
	"encoding/json"
)

// Phase is the stage of the current turn, as decided by the server.
type Phase int

const (
	// UnknownPhase is the phase of a snapshot whose phase name is not recognized.
	UnknownPhase Phase = iota
	// Choosing is the phase where the picker selects the secret word and designates the drawer.
	Choosing
	// DrawingFirst is the phase where the designated player draws the word.
	DrawingFirst
	// DrawingSecond is the phase where the picker draws the word after the designated player ran out of time.
	DrawingSecond
	// RoundEnd is the phase where the word is revealed and the host can start the next turn.
	RoundEnd
	// GameOver is the phase after the last round, where the final ranking is shown.
	GameOver
)

// phaseNames are the wire names of the phases.
var phaseNames = map[Phase]string{
	Choosing:      "choosing",
	DrawingFirst:  "drawing_first",
	DrawingSecond: "drawing_second",
	RoundEnd:      "round_end",
	GameOver:      "game_over",
}

// legacyPhaseNames are accepted when decoding for servers that name the drawing phases after the players.
var legacyPhaseNames = map[string]Phase{
	"drawing_player2": DrawingFirst,
	"drawing_player1": DrawingSecond,
}

// String returns the wire name of the phase.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "?"
}

// Drawing determines if the phase is one of the drawing phases.
func (p Phase) Drawing() bool {
	return p == DrawingFirst || p == DrawingSecond
}

// ParsePhase converts a wire name to a phase.  Unknown names are the UnknownPhase.
func ParsePhase(name string) Phase {
	for p, n := range phaseNames {
		if n == name {
			return p
		}
	}
	if p, ok := legacyPhaseNames[name]; ok {
		return p
	}
	return UnknownPhase
}

// MarshalJSON implements the encoding/json.Marshaler interface to marshal phases into their names.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON implements the encoding/json.Unmarshaler interface to unmarshal phases from their names.
func (p *Phase) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = ParsePhase(s)
	return nil
}
