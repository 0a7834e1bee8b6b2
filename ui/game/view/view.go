// Package view derives everything the ui shows from the latest snapshot of the game.
package view

import (
	"strconv"

	"github.com/jacobpatterson1549/trop-dur/game"
)

type (
	// Identity is the local player, as known when the session starts.
	Identity struct {
		PlayerID game.PlayerID
		Host     bool
	}

	// Overlay is the modal panel shown over the canvas.
	Overlay int

	// View is what the ui shows for a snapshot.
	// Two snapshots with the same fields other than the remaining time derive views that only differ by RemainingTime.
	View struct {
		Phase     game.Phase
		RoundText string
		AmDrawer  bool
		AmPicker  bool
		// Drawing is true in both drawing phases.
		Drawing bool
		// PhaseInfo describes what is happening in the turn.
		PhaseInfo string
		// Word is the secret word, its hint, or the revealed word.
		Word string
		// Tools is true if the drawing tools are shown.
		Tools bool
		// CanvasInteractive is true if the local player can draw on the canvas.
		CanvasInteractive bool
		Chat              Chat
		Overlay           Overlay
		// Choosing is set for the ChoosingOverlay.
		Choosing Choosing
		// WaitingText is set for the WaitingChooseOverlay.
		WaitingText string
		// RoundEnd is set for the RoundEndOverlay.
		RoundEnd RoundEnd
		// GameOver is set for the GameOverOverlay.
		GameOver   GameOver
		Scoreboard []ScoreEntry
		// Approvals are the pending guesses the local player can validate.
		Approvals []Approval
		// Polling is true when the stroke history should be pulled periodically.
		Polling bool
		// RemainingTime is the anchor value of the round timer.
		RemainingTime int
	}

	// Chat is the state of the guess input.
	Chat struct {
		Enabled     bool
		Placeholder string
	}

	// Choosing is shown to the picker to pick the word and the drawer.
	Choosing struct {
		Cards      []string
		Designable []game.Designable
	}

	// RoundEnd reveals the word at the end of the round.
	RoundEnd struct {
		Word    string
		Message string
		// NextTurn is true if the local player can start the next turn.
		NextTurn bool
		// WaitingForHost is true if the local player must wait for the host to start the next turn.
		WaitingForHost bool
	}

	// GameOver is the final result.
	GameOver struct {
		Word    string
		Ranking []Rank
	}

	// Approval is a guess that the picker or drawer can validate.
	Approval struct {
		GuesserID    game.PlayerID
		Name         string
		ApprovedByMe bool
	}
)

const (
	// NoOverlay shows the canvas.
	NoOverlay Overlay = iota
	// ChoosingOverlay lets the picker choose the word and designate the drawer.
	ChoosingOverlay
	// WaitingChooseOverlay is shown while the picker chooses.
	WaitingChooseOverlay
	// RoundEndOverlay reveals the word.
	RoundEndOverlay
	// GameOverOverlay shows the ranking.
	GameOverOverlay
)

const (
	yourTurnText           = "Your turn to draw!"
	chooseWordText         = "Choose a word"
	drawerPlaceholder      = "You are drawing..."
	pickerPlaceholder      = "Validate the answers..."
	guessPlaceholder       = "Type your guess..."
	unknownWord            = "???"
	unknownName            = "???"
	waitingChooseTextTail  = " is choosing a word and designating a player..."
	guessedMessageTail     = " got the word guessed and wins 1 point!"
	notGuessedMessageStart = "Nobody guessed! "
	notGuessedMessageTail  = " wins 1 point."
)

// Derive creates the view of the snapshot for the player.
// It does not change the snapshot.
func Derive(s game.Snapshot, id Identity) View {
	amDrawer := len(s.CurrentDrawerID) != 0 && s.CurrentDrawerID == id.PlayerID
	amPicker := len(s.CurrentPickerID) != 0 && s.CurrentPickerID == id.PlayerID
	drawing := s.Phase.Drawing()
	v := View{
		Phase:             s.Phase,
		RoundText:         strconv.Itoa(s.Round) + "/" + strconv.Itoa(s.TotalRounds),
		AmDrawer:          amDrawer,
		AmPicker:          amPicker,
		Drawing:           drawing,
		PhaseInfo:         phaseInfo(s, amDrawer, amPicker),
		Word:              word(s, amDrawer || amPicker),
		Tools:             amDrawer && drawing,
		CanvasInteractive: amDrawer && drawing,
		Chat:              chat(drawing, amDrawer, amPicker),
		Scoreboard:        Scoreboard(s),
		Polling:           drawing && !amDrawer,
		RemainingTime:     s.RemainingTime,
	}
	if amDrawer || amPicker {
		v.Approvals = approvals(s, amPicker)
	}
	v.setOverlay(s, id, amPicker)
	return v
}

// phaseInfo describes what is happening.
func phaseInfo(s game.Snapshot, amDrawer, amPicker bool) string {
	switch {
	case s.Phase.Drawing() && amDrawer:
		return yourTurnText
	case s.Phase.Drawing():
		return nameOrUnknown(s.DrawerName()) + " is drawing"
	case s.Phase == game.Choosing && amPicker:
		return chooseWordText
	case s.Phase == game.Choosing:
		return nameOrUnknown(s.PickerName()) + " is choosing..."
	}
	return ""
}

// word is the secret word for the special players, the hint for the guessers, and the word when it is revealed.
func word(s game.Snapshot, special bool) string {
	switch {
	case special && len(s.CurrentWord) != 0:
		return s.CurrentWord
	case len(s.WordHint) != 0:
		return s.WordHint
	}
	return s.CurrentWord
}

// chat determines if the player can guess.
func chat(drawing, amDrawer, amPicker bool) Chat {
	switch {
	case amDrawer:
		return Chat{Placeholder: drawerPlaceholder}
	case amPicker:
		return Chat{Placeholder: pickerPlaceholder}
	}
	return Chat{
		Enabled:     drawing,
		Placeholder: guessPlaceholder,
	}
}

// approvals lists the pending guesses in roster order, followed by guessers not in the roster.
func approvals(s game.Snapshot, amPicker bool) []Approval {
	if len(s.PendingGuesses) == 0 {
		return nil
	}
	ids := make([]game.PlayerID, 0, len(s.PendingGuesses))
	for id := range s.PendingGuesses {
		ids = append(ids, id)
	}
	sortByRoster(ids, s.PlayerNames)
	approvals := make([]Approval, len(ids))
	for i, id := range ids {
		a := s.PendingGuesses[id]
		approvedByMe := a.DrawerApproved
		if amPicker {
			approvedByMe = a.PickerApproved
		}
		approvals[i] = Approval{
			GuesserID:    id,
			Name:         nameOrUnknown(s.PlayerName(id)),
			ApprovedByMe: approvedByMe,
		}
	}
	return approvals
}

// setOverlay sets the overlay and its payload.
// A picker without cards sees the waiting overlay rather than an empty choice.
func (v *View) setOverlay(s game.Snapshot, id Identity, amPicker bool) {
	switch s.Phase {
	case game.Choosing:
		if amPicker && len(s.CardChoices) != 0 {
			v.Overlay = ChoosingOverlay
			v.Choosing = Choosing{
				Cards:      s.CardChoices,
				Designable: s.DesignablePlayers,
			}
			return
		}
		v.Overlay = WaitingChooseOverlay
		v.WaitingText = nameOrUnknown(s.PickerName()) + waitingChooseTextTail
	case game.RoundEnd:
		w := s.CurrentWord
		if len(w) == 0 {
			w = unknownWord
		}
		v.Overlay = RoundEndOverlay
		v.RoundEnd = RoundEnd{
			Word:           w,
			Message:        roundEndMessage(s),
			NextTurn:       id.Host,
			WaitingForHost: !id.Host,
		}
	case game.GameOver:
		v.Overlay = GameOverOverlay
		v.GameOver = GameOver{
			Word:    s.CurrentWord,
			Ranking: Ranking(s),
		}
	}
}

// roundEndMessage tells who won the point.
func roundEndMessage(s game.Snapshot) string {
	switch {
	case len(s.PointWinnerName) == 0:
		return ""
	case s.Guessed:
		return s.PointWinnerName + guessedMessageTail
	}
	return notGuessedMessageStart + s.PointWinnerName + notGuessedMessageTail
}

// nameOrUnknown replaces a missing name.
func nameOrUnknown(name string) string {
	if len(name) == 0 {
		return unknownName
	}
	return name
}
