package view

import (
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/jacobpatterson1549/trop-dur/game"
)

type (
	// Rank is the place of a player in the final ranking.
	Rank struct {
		PlayerID game.PlayerID
		Name     string
		Score    int
		// Position starts at 1.
		Position int
		Label    string
		Medal    Medal
	}

	// Medal is awarded to the first three positions.
	Medal int

	// ScoreEntry is a player card in the score panel.
	ScoreEntry struct {
		PlayerID    game.PlayerID
		Name        string
		Score       int
		Initial     string
		AvatarColor string
		Badge       Badge
	}

	// Badge marks a special player on the score panel while drawing.
	Badge int
)

const (
	// NoMedal is given after the third position.
	NoMedal Medal = iota
	// Gold is given to the first position.
	Gold
	// Silver is given to the second position.
	Silver
	// Bronze is given to the third position.
	Bronze
)

const (
	// NoBadge is for players who are not drawing or picking.
	NoBadge Badge = iota
	// DrawingBadge is for the drawer.
	DrawingBadge
	// PickingBadge is for the picker while someone else draws.
	PickingBadge
)

// AvatarColors are the backgrounds of the player avatars, indexed by roster position.
var AvatarColors = []string{
	"#e74c3c",
	"#3498db",
	"#2ecc71",
	"#f39c12",
	"#9b59b6",
	"#1abc9c",
}

// Ranking orders the scored players by descending score.
// Ties are kept in roster order.  Players missing from the roster come after those in it, by id.
func Ranking(s game.Snapshot) []Rank {
	ids := scoredPlayers(s)
	ranking := make([]Rank, len(ids))
	for i, id := range ids {
		position := i + 1
		ranking[i] = Rank{
			PlayerID: id,
			Name:     nameOrUnknown(s.PlayerName(id)),
			Score:    s.Scores[id],
			Position: position,
			Label:    Ordinal(position),
			Medal:    medal(position),
		}
	}
	return ranking
}

// Scoreboard lists the scored players in ranking order with their avatars and badges.
func Scoreboard(s game.Snapshot) []ScoreEntry {
	ids := scoredPlayers(s)
	if len(ids) == 0 {
		return nil
	}
	drawing := s.Phase.Drawing()
	entries := make([]ScoreEntry, len(ids))
	for i, id := range ids {
		name := nameOrUnknown(s.PlayerName(id))
		e := ScoreEntry{
			PlayerID:    id,
			Name:        name,
			Score:       s.Scores[id],
			Initial:     initial(name),
			AvatarColor: avatarColor(s.PlayerNames.Index(id)),
		}
		switch {
		case !drawing:
		case id == s.CurrentDrawerID:
			e.Badge = DrawingBadge
		case id == s.CurrentPickerID:
			e.Badge = PickingBadge
		}
		entries[i] = e
	}
	return entries
}

// Ordinal is the english label of the position: 1st, 2nd, 3rd, 4th, ...
func Ordinal(position int) string {
	suffix := "th"
	switch position % 100 {
	case 11, 12, 13:
	default:
		switch position % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(position) + suffix
}

// scoredPlayers are the ids of the scores, in ranking order.
func scoredPlayers(s game.Snapshot) []game.PlayerID {
	ids := make([]game.PlayerID, 0, len(s.Scores))
	for id := range s.Scores {
		ids = append(ids, id)
	}
	sortByRoster(ids, s.PlayerNames)
	sort.SliceStable(ids, func(i, j int) bool {
		return s.Scores[ids[i]] > s.Scores[ids[j]]
	})
	return ids
}

// sortByRoster orders the ids by their position in the roster.
// Ids missing from the roster are last, ordered by id.
func sortByRoster(ids []game.PlayerID, r game.Roster) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := r.Index(ids[i]), r.Index(ids[j])
		switch {
		case a < 0 && b < 0:
			return ids[i] < ids[j]
		case a < 0:
			return false
		case b < 0:
			return true
		}
		return a < b
	})
}

func medal(position int) Medal {
	switch position {
	case 1:
		return Gold
	case 2:
		return Silver
	case 3:
		return Bronze
	}
	return NoMedal
}

// avatarColor picks the color for the roster index.
func avatarColor(index int) string {
	if index < 0 {
		index = 0
	}
	return AvatarColors[index%len(AvatarColors)]
}

// initial is the uppercase first letter of the name.
func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
