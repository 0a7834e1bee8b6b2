package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type (
	// Roster is the list of players in a game, in the order the server lists them.
	// It is sent as a JSON object of ids to names, so the order of the object keys is kept when decoding.
	Roster []Player

	// Player is a named participant.
	Player struct {
		ID   PlayerID
		Name string
	}
)

// Name gets the name of the player with the id.
func (r Roster) Name(id PlayerID) (string, bool) {
	if i := r.Index(id); i >= 0 {
		return r[i].Name, true
	}
	return "", false
}

// Index is the position of the player in the roster, or -1 if the player is not in it.
func (r Roster) Index(id PlayerID) int {
	for i, p := range r {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// MarshalJSON implements the encoding/json.Marshaler interface to write the roster as an object in roster order.
func (r Roster) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(p.ID))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements the encoding/json.Unmarshaler interface to read the roster from an object, keeping the key order.
// A repeated key keeps its first position and its last name.
func (r *Roster) UnmarshalJSON(b []byte) error {
	d := json.NewDecoder(bytes.NewReader(b))
	t, err := d.Token()
	if err != nil {
		return err
	}
	if t == nil {
		*r = nil
		return nil
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("roster must be an object, got %v", t)
	}
	roster := make(Roster, 0)
	for d.More() {
		t, err := d.Token()
		if err != nil {
			return err
		}
		key, ok := t.(string)
		if !ok {
			return fmt.Errorf("unexpected roster key: %v", t)
		}
		var name string
		if err := d.Decode(&name); err != nil {
			return fmt.Errorf("reading name of player %q: %w", key, err)
		}
		id := PlayerID(key)
		if i := roster.Index(id); i >= 0 {
			roster[i].Name = name
			continue
		}
		roster = append(roster, Player{ID: id, Name: name})
	}
	if _, err := d.Token(); err != nil {
		return err
	}
	*r = roster
	return nil
}
