package game

type (
	// PlayerID identifies a participant in a room.
	PlayerID string

	// Snapshot is the whole state of the game, broadcast by the server.
	// Each snapshot replaces the previous one.  Fields that are not relevant to the phase are empty.
	Snapshot struct {
		// Phase is the stage of the current turn.
		Phase Phase `json:"phase"`
		// Round is the current round, starting at 1.
		Round int `json:"round"`
		// TotalRounds is the number of rounds in the game.
		TotalRounds int `json:"total_rounds"`
		// CurrentDrawerID is the player who draws in the drawing phases.
		CurrentDrawerID PlayerID `json:"current_drawer_id,omitempty"`
		// CurrentPickerID is the player who picks the word and designates the first drawer.
		CurrentPickerID PlayerID `json:"current_picker_id,omitempty"`
		// CurrentDrawerName and CurrentPickerName are the names the server gives to the special players, if any.
		CurrentDrawerName string `json:"current_drawer_name,omitempty"`
		CurrentPickerName string `json:"current_picker_name,omitempty"`
		// CurrentWord is only sent to the drawer, the picker, and to everyone when the word is revealed.
		CurrentWord string `json:"current_word,omitempty"`
		// WordHint is the masked word shown to the guessers.
		WordHint string `json:"word_hint,omitempty"`
		// RemainingTime is the number of seconds left in the drawing phase.  Zero means no timer is active.
		RemainingTime int `json:"remaining_time"`
		// Scores maps players to their points.
		Scores map[PlayerID]int `json:"scores,omitempty"`
		// PlayerNames is the roster, in the order the players joined.
		PlayerNames Roster `json:"player_names,omitempty"`
		// PendingGuesses are the guesses waiting for the picker and drawer to approve them.
		PendingGuesses map[PlayerID]Approval `json:"pending_guesses,omitempty"`
		// CardChoices are the words the picker can choose from.  Only sent to the picker while choosing.
		CardChoices []string `json:"card_choices,omitempty"`
		// DesignablePlayers are the players the picker can designate to draw.  Only sent to the picker while choosing.
		DesignablePlayers []Designable `json:"designable_players,omitempty"`
		// PointWinnerName is the player who won the point at the end of the round.
		PointWinnerName string `json:"point_winner_name,omitempty"`
		// Guessed is true when the round ended because the word was guessed.
		Guessed bool `json:"guessed,omitempty"`
	}

	// Approval records which special players have approved a pending guess.
	Approval struct {
		PickerApproved bool `json:"picker_approved"`
		DrawerApproved bool `json:"drawer_approved"`
	}

	// Designable is a player that can be designated to draw.
	Designable struct {
		ID   PlayerID `json:"id"`
		Name string   `json:"name"`
	}
)

// DrawerName is the name of the current drawer, looked up in the roster if the server did not send it.
func (s Snapshot) DrawerName() string {
	if len(s.CurrentDrawerName) != 0 {
		return s.CurrentDrawerName
	}
	return s.PlayerName(s.CurrentDrawerID)
}

// PickerName is the name of the current picker, looked up in the roster if the server did not send it.
func (s Snapshot) PickerName() string {
	if len(s.CurrentPickerName) != 0 {
		return s.CurrentPickerName
	}
	return s.PlayerName(s.CurrentPickerID)
}

// PlayerName gets the name of the player from the roster, or an empty string if the player is not in it.
func (s Snapshot) PlayerName(id PlayerID) string {
	name, _ := s.PlayerNames.Name(id)
	return name
}
