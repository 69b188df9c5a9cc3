// Package wire implements the framed binary protocol between server and
// client. Frames are a big-endian uint32 payload length followed by the
// payload; the first payload byte is the MessageType tag. Numbers are
// fixed-width big-endian, strings are uint16-length-prefixed UTF-8, and
// enums travel as their ordinal.
package wire

import "github.com/bayou-games/bayou-bonanza/internal/game"

// MessageType tags every frame. Ordinals are part of the protocol.
type MessageType uint8

const (
	TagUserLogin MessageType = iota
	TagPlayerAssignment
	TagRequestMatchmaking
	TagWaitingForOpponent
	TagGameStart
	TagGameStateUpdate
	TagMoveToServer
	TagMoveRejected
	TagCardPlayToServer
	TagCardPlayRejected
	TagEndTurn
	TagSaveDeck
	TagDeckSaved
	TagDeckData
	TagCardCollectionData
	TagError
)

func (t MessageType) String() string {
	names := [...]string{
		"UserLogin", "PlayerAssignment", "RequestMatchmaking",
		"WaitingForOpponent", "GameStart", "GameStateUpdate",
		"MoveToServer", "MoveRejected", "CardPlayToServer",
		"CardPlayRejected", "EndTurn", "SaveDeck", "DeckSaved",
		"DeckData", "CardCollectionData", "Error",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "Unknown"
}

// Message is anything the codec can frame.
type Message interface {
	Type() MessageType
}

type UserLogin struct {
	Username string
}

type PlayerAssignment struct {
	Side game.Side
}

type RequestMatchmaking struct{}

type WaitingForOpponent struct{}

type GameStart struct {
	Player1Name   string
	Player1Rating int
	Player2Name   string
	Player2Rating int
	State         *game.State
}

type GameStateUpdate struct {
	State *game.State
}

type MoveToServer struct {
	Move game.Move
}

type MoveRejected struct {
	Reason string
}

type CardPlayToServer struct {
	CardIndex int
	Target    game.Position
}

type CardPlayRejected struct{}

type EndTurn struct{}

type SaveDeck struct {
	Deck []int
}

type DeckSaved struct{}

type DeckData struct {
	Deck []int
}

type CardCollectionData struct {
	Cards []int
}

// ErrorMessage is the generic server-side failure surfaced to the client.
type ErrorMessage struct {
	Message string
}

func (UserLogin) Type() MessageType          { return TagUserLogin }
func (PlayerAssignment) Type() MessageType   { return TagPlayerAssignment }
func (RequestMatchmaking) Type() MessageType { return TagRequestMatchmaking }
func (WaitingForOpponent) Type() MessageType { return TagWaitingForOpponent }
func (GameStart) Type() MessageType          { return TagGameStart }
func (GameStateUpdate) Type() MessageType    { return TagGameStateUpdate }
func (MoveToServer) Type() MessageType       { return TagMoveToServer }
func (MoveRejected) Type() MessageType       { return TagMoveRejected }
func (CardPlayToServer) Type() MessageType   { return TagCardPlayToServer }
func (CardPlayRejected) Type() MessageType   { return TagCardPlayRejected }
func (EndTurn) Type() MessageType            { return TagEndTurn }
func (SaveDeck) Type() MessageType           { return TagSaveDeck }
func (DeckSaved) Type() MessageType          { return TagDeckSaved }
func (DeckData) Type() MessageType           { return TagDeckData }
func (CardCollectionData) Type() MessageType { return TagCardCollectionData }
func (ErrorMessage) Type() MessageType       { return TagError }
