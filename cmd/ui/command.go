package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jacobpatterson1549/trop-dur/game"
	"github.com/jacobpatterson1549/trop-dur/ui/log"
)

// player is what the local player can do in the game.
type player interface {
	SendGuess(text string)
	ValidateGuess(guesserID game.PlayerID)
	ChooseWord(index int, designatedID game.PlayerID)
	RequestNextTurn()
	ClearCanvas()
	ToggleVoice()
}

const commandHelp = "commands: /choose <card number> <player id>, /validate <player id>, /next, /clear, /voice; other text is a guess"

// readCommands runs the command on each line of the reader until it ends.
func readCommands(r io.Reader, p player, log log.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() { // BLOCKING
		if err := runCommand(p, sc.Text()); err != nil {
			log.Warning(err.Error() + "; " + commandHelp)
		}
	}
}

// runCommand parses the line as a slash command or a guess.
func runCommand(p player, line string) error {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		p.SendGuess(line)
		return nil
	}
	fields := strings.Fields(line)
	args := fields[1:]
	switch fields[0] {
	case "/choose":
		if len(args) != 2 {
			return fmt.Errorf("choose needs a card number and a player id")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid card number: %q", args[0])
		}
		p.ChooseWord(n-1, game.PlayerID(args[1]))
	case "/validate":
		if len(args) != 1 {
			return fmt.Errorf("validate needs a player id")
		}
		p.ValidateGuess(game.PlayerID(args[0]))
	case "/next":
		p.RequestNextTurn()
	case "/clear":
		p.ClearCanvas()
	case "/voice":
		p.ToggleVoice()
	default:
		return fmt.Errorf("unknown command: %q", fields[0])
	}
	return nil
}
