package game

import (
	"encoding/json"
	"testing"
)

func TestPhaseString(t *testing.T) {
	t.Run("uniquePhaseStrings", func(t *testing.T) {
		phases := []Phase{
			Choosing,
			DrawingFirst,
			DrawingSecond,
			DrawingSecond,
			RoundEnd,
			GameOver,
			-1,
		}
		phaseStrings := make(map[string]struct{})
		for _, p := range phases {
			phaseStrings[p.String()] = struct{}{}
		}
		want := 6
		got := len(phaseStrings)
		if want != got {
			t.Errorf("wanted %v unique phase strings, got %v", want, got)
		}
	})
	t.Run("unknownPhaseString", func(t *testing.T) {
		unknownPhases := []Phase{
			UnknownPhase,
			GameOver + 1,
		}
		want := "?"
		for i, p := range unknownPhases {
			got := p.String()
			if want != got {
				t.Errorf("Test %v: wanted phase string of '%v' for phase %d, got '%v'", i, want, p, got)
			}
		}
	})
}

func TestPhaseJSON(t *testing.T) {
	phaseJSONTests := []struct {
		j    string
		want Phase
	}{
		{`"choosing"`, Choosing},
		{`"drawing_first"`, DrawingFirst},
		{`"drawing_second"`, DrawingSecond},
		{`"drawing_player2"`, DrawingFirst},
		{`"drawing_player1"`, DrawingSecond},
		{`"round_end"`, RoundEnd},
		{`"game_over"`, GameOver},
		{`"lobby"`, UnknownPhase},
	}
	for i, test := range phaseJSONTests {
		var got Phase
		if err := json.Unmarshal([]byte(test.j), &got); err != nil {
			t.Errorf("Test %v: unwanted error: %v", i, err)
			continue
		}
		if test.want != got {
			t.Errorf("Test %v: wanted %v, got %v", i, test.want, got)
		}
	}
	b, err := json.Marshal(DrawingSecond)
	switch {
	case err != nil:
		t.Errorf("unwanted error: %v", err)
	case string(b) != `"drawing_second"`:
		t.Errorf("wanted drawing_second, got %s", b)
	}
}

func TestPhaseDrawing(t *testing.T) {
	for p := UnknownPhase; p <= GameOver; p++ {
		want := p == DrawingFirst || p == DrawingSecond
		if got := p.Drawing(); want != got {
			t.Errorf("wanted %v.Drawing() to be %v", p, want)
		}
	}
}
