package main

import (
	"fmt"
	"strings"

	"github.com/jacobpatterson1549/trop-dur/game/message"
	"github.com/jacobpatterson1549/trop-dur/ui/game/timer"
	"github.com/jacobpatterson1549/trop-dur/ui/game/view"
	"github.com/jacobpatterson1549/trop-dur/ui/log"
)

// logShell shows the game by logging it.  Only what changed between renders is logged.
type logShell struct {
	log       log.Logger
	summary   string
	overlay   string
	timerText string
}

func newLogShell(log log.Logger) *logShell {
	s := logShell{
		log: log,
	}
	return &s
}

// Render logs the turn and the overlay when they change.
func (s *logShell) Render(v view.View) {
	if summary := summarize(v); summary != s.summary {
		s.summary = summary
		s.log.Info(summary)
	}
	if overlay := describeOverlay(v); overlay != s.overlay {
		s.overlay = overlay
		if len(overlay) != 0 {
			s.log.Info(overlay)
		}
	}
}

// RenderTimer logs the remaining time at debug level when its text changes.
func (s *logShell) RenderTimer(d timer.Display) {
	if d.Text == s.timerText {
		return
	}
	s.timerText = d.Text
	if d.Active {
		s.log.Debug("time left: " + d.Text)
	}
}

// Chat logs the chat message.
func (s *logShell) Chat(c message.Chat) {
	s.log.Chat(formatChat(c))
}

// Alert logs the alert as a warning.
func (s *logShell) Alert(text string) {
	s.log.Warning(text)
}

// summarize describes the turn, the word, and the scores.
func summarize(v view.View) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "round %v [%v]", v.RoundText, v.Phase)
	if len(v.PhaseInfo) != 0 {
		fmt.Fprintf(&sb, " %v", v.PhaseInfo)
	}
	if len(v.Word) != 0 {
		fmt.Fprintf(&sb, " word: %v", v.Word)
	}
	scores := make([]string, len(v.Scoreboard))
	for i, e := range v.Scoreboard {
		scores[i] = fmt.Sprintf("%v=%v", e.Name, e.Score)
	}
	if len(scores) != 0 {
		fmt.Fprintf(&sb, " scores: %v", strings.Join(scores, ", "))
	}
	if len(v.Approvals) != 0 {
		fmt.Fprintf(&sb, " (%v guesses to validate)", len(v.Approvals))
	}
	return sb.String()
}

// describeOverlay describes the modal panel, if any.
func describeOverlay(v view.View) string {
	switch v.Overlay {
	case view.ChoosingOverlay:
		designable := make([]string, len(v.Choosing.Designable))
		for i, d := range v.Choosing.Designable {
			designable[i] = fmt.Sprintf("%v (%v)", d.Name, d.ID)
		}
		return fmt.Sprintf("choose a card %q and a player to draw it: %v", v.Choosing.Cards, strings.Join(designable, ", "))
	case view.WaitingChooseOverlay:
		return v.WaitingText
	case view.RoundEndOverlay:
		text := fmt.Sprintf("the word was %v. %v", v.RoundEnd.Word, v.RoundEnd.Message)
		if v.RoundEnd.WaitingForHost {
			text += " Waiting for the host to start the next turn."
		}
		return text
	case view.GameOverOverlay:
		ranks := make([]string, len(v.GameOver.Ranking))
		for i, r := range v.GameOver.Ranking {
			ranks[i] = fmt.Sprintf("%v %v (%v)", r.Label, r.Name, r.Score)
		}
		return "game over: " + strings.Join(ranks, ", ")
	}
	return ""
}

// formatChat creates the line of the chat message.
func formatChat(c message.Chat) string {
	switch {
	case c.System:
		return c.Text
	case c.Correct:
		return fmt.Sprintf("%v guessed the word!", c.PlayerName)
	case c.Pending:
		return fmt.Sprintf("%v: %v (waiting for validation)", c.PlayerName, c.Text)
	}
	return fmt.Sprintf("%v: %v", c.PlayerName, c.Text)
}
