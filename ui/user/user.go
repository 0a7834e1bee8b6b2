// Package user contains the identity of the player running the ui.
package user

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/jacobpatterson1549/trop-dur/game"
)

type (
	// User is the local participant of a game room.
	User struct {
		// ID is the player id the server knows the user by.
		ID game.PlayerID
		// Room is the room the user plays in.
		Room string
		// Host is true if the user may advance the game between rounds.
		Host bool
		// Token is the access token sent to the server when connecting, if any.
		Token string
	}

	// Claims are the fields of an access token issued by the server.
	// The player id is stored in Subject ("sub") field.
	Claims struct {
		Room string `json:"room"`
		Host bool   `json:"host,omitempty"`
		jwt.RegisteredClaims
	}
)

// ErrTokenExpired is returned when the access token is no longer valid.
var ErrTokenExpired = errors.New("access token expired")

// FromToken reads the user from the access token.
// The signature is not verified.  The server checks it when the socket connects.
func FromToken(tokenString string, now time.Time) (*User, error) {
	var claims Claims
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, &claims); err != nil {
		return nil, fmt.Errorf("parsing access token: %w", err)
	}
	if !claims.VerifyExpiresAt(now, false) {
		return nil, ErrTokenExpired
	}
	u := User{
		ID:    game.PlayerID(claims.Subject),
		Room:  claims.Room,
		Host:  claims.Host,
		Token: tokenString,
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("reading access token claims: %w", err)
	}
	return &u, nil
}

// Validate ensures the user can join a room.
func (u User) Validate() error {
	switch {
	case len(u.ID) == 0:
		return fmt.Errorf("player id required")
	case len(u.Room) == 0:
		return fmt.Errorf("room required")
	}
	return nil
}
