package main

import "github.com/jacobpatterson1549/trop-dur/game"

type mockPlayer struct {
	SendGuessFunc       func(text string)
	ValidateGuessFunc   func(guesserID game.PlayerID)
	ChooseWordFunc      func(index int, designatedID game.PlayerID)
	RequestNextTurnFunc func()
	ClearCanvasFunc     func()
	ToggleVoiceFunc     func()
}

func (m mockPlayer) SendGuess(text string) {
	m.SendGuessFunc(text)
}

func (m mockPlayer) ValidateGuess(guesserID game.PlayerID) {
	m.ValidateGuessFunc(guesserID)
}

func (m mockPlayer) ChooseWord(index int, designatedID game.PlayerID) {
	m.ChooseWordFunc(index, designatedID)
}

func (m mockPlayer) RequestNextTurn() {
	m.RequestNextTurnFunc()
}

func (m mockPlayer) ClearCanvas() {
	m.ClearCanvasFunc()
}

func (m mockPlayer) ToggleVoice() {
	m.ToggleVoiceFunc()
}
