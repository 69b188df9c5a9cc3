package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/bayou-games/bayou-bonanza/internal/catalog"
	"github.com/bayou-games/bayou-bonanza/internal/game"
)

// MaxFrameSize bounds a single payload. A full game state is a few KB;
// anything near this limit is a broken or hostile peer.
const MaxFrameSize = 1 << 20

var (
	ErrFrameTooLarge  = errors.New("wire: frame exceeds size limit")
	ErrShortPayload   = errors.New("wire: truncated payload")
	ErrTrailingBytes  = errors.New("wire: trailing bytes after payload")
	ErrUnknownTag     = errors.New("wire: unknown message tag")
	ErrUnknownPiece   = errors.New("wire: unknown piece type")
	ErrOversizeString = errors.New("wire: string too long")
)

// Codec frames and unframes messages. Decoding piece data resolves type
// names against the shared catalog, so both ends must load the same one.
type Codec struct {
	Cat *catalog.Catalog
}

func NewCodec(cat *catalog.Catalog) *Codec { return &Codec{Cat: cat} }

// WriteFrame encodes msg and writes one length-prefixed frame to w.
func (c *Codec) WriteFrame(w io.Writer, msg Message) error {
	payload, err := c.Encode(msg)
	if err != nil {
		return err
	}
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed payload from r.
func ReadFrame(r io.Reader) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Encode serializes msg into a payload (tag byte included, no length prefix).
func (c *Codec) Encode(msg Message) ([]byte, error) {
	e := &encoder{}
	e.u8(uint8(msg.Type()))
	switch m := msg.(type) {
	case UserLogin:
		e.str(m.Username)
	case PlayerAssignment:
		e.u8(uint8(m.Side))
	case RequestMatchmaking, WaitingForOpponent, CardPlayRejected, EndTurn, DeckSaved:
	case GameStart:
		e.str(m.Player1Name)
		e.i32(m.Player1Rating)
		e.str(m.Player2Name)
		e.i32(m.Player2Rating)
		e.state(m.State)
	case GameStateUpdate:
		e.state(m.State)
	case MoveToServer:
		e.i32(m.Move.From.X)
		e.i32(m.Move.From.Y)
		e.i32(m.Move.To.X)
		e.i32(m.Move.To.Y)
		e.bool(m.Move.IsPromotion())
		if m.Move.IsPromotion() {
			e.str(m.Move.PromotionType)
		}
	case MoveRejected:
		e.str(m.Reason)
	case CardPlayToServer:
		e.i32(m.CardIndex)
		e.i32(m.Target.X)
		e.i32(m.Target.Y)
	case SaveDeck:
		e.ints(m.Deck)
	case DeckData:
		e.ints(m.Deck)
	case CardCollectionData:
		e.ints(m.Cards)
	case ErrorMessage:
		e.str(m.Message)
	default:
		return nil, fmt.Errorf("wire: cannot encode %T", msg)
	}
	return e.buf, e.err
}

// Decode parses one payload produced by Encode.
func (c *Codec) Decode(payload []byte) (Message, error) {
	d := &decoder{buf: payload, cat: c.Cat}
	tag := MessageType(d.u8())
	var msg Message
	switch tag {
	case TagUserLogin:
		msg = UserLogin{Username: d.str()}
	case TagPlayerAssignment:
		msg = PlayerAssignment{Side: game.Side(d.u8())}
	case TagRequestMatchmaking:
		msg = RequestMatchmaking{}
	case TagWaitingForOpponent:
		msg = WaitingForOpponent{}
	case TagGameStart:
		m := GameStart{
			Player1Name:   d.str(),
			Player1Rating: d.i32(),
			Player2Name:   d.str(),
			Player2Rating: d.i32(),
		}
		m.State = d.state()
		msg = m
	case TagGameStateUpdate:
		msg = GameStateUpdate{State: d.state()}
	case TagMoveToServer:
		m := MoveToServer{}
		m.Move.From = game.Position{X: d.i32(), Y: d.i32()}
		m.Move.To = game.Position{X: d.i32(), Y: d.i32()}
		if d.bool() {
			m.Move.PromotionType = d.str()
		}
		msg = m
	case TagMoveRejected:
		msg = MoveRejected{Reason: d.str()}
	case TagCardPlayToServer:
		m := CardPlayToServer{CardIndex: d.i32()}
		m.Target = game.Position{X: d.i32(), Y: d.i32()}
		msg = m
	case TagCardPlayRejected:
		msg = CardPlayRejected{}
	case TagEndTurn:
		msg = EndTurn{}
	case TagSaveDeck:
		msg = SaveDeck{Deck: d.ints()}
	case TagDeckSaved:
		msg = DeckSaved{}
	case TagDeckData:
		msg = DeckData{Deck: d.ints()}
	case TagCardCollectionData:
		msg = CardCollectionData{Cards: d.ints()}
	case TagError:
		msg = ErrorMessage{Message: d.str()}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, uint8(tag))
	}
	if d.err != nil {
		return nil, d.err
	}
	if len(d.buf) != 0 {
		return nil, ErrTrailingBytes
	}
	return msg, nil
}

type encoder struct {
	buf []byte
	err error
}

func (e *encoder) u8(v uint8) { e.buf = append(e.buf, v) }

func (e *encoder) bool(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *encoder) u16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

func (e *encoder) i32(v int) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(int32(v)))
}

func (e *encoder) str(s string) {
	if len(s) > math.MaxUint16 {
		if e.err == nil {
			e.err = ErrOversizeString
		}
		return
	}
	e.u16(uint16(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) ints(vs []int) {
	e.u16(uint16(len(vs)))
	for _, v := range vs {
		e.i32(v)
	}
}

func (e *encoder) piece(pc *game.Piece) {
	e.str(pc.Stats.TypeName)
	e.u8(uint8(pc.Side))
	e.i32(pc.CurrentHealth)
	e.bool(pc.HasMoved)
	e.i32(pc.StunRemaining)
}

func (e *encoder) state(s *game.State) {
	for y := 0; y < game.BoardSize; y++ {
		for x := 0; x < game.BoardSize; x++ {
			pc := s.Board.PieceAt(game.Position{X: x, Y: y})
			e.bool(pc != nil)
			if pc != nil {
				e.piece(pc)
			}
		}
	}
	e.i32(s.Player(game.PlayerOne).Steam)
	e.i32(s.Player(game.PlayerTwo).Steam)
	e.ints(s.Player(game.PlayerOne).Hand)
	e.ints(s.Player(game.PlayerTwo).Hand)
	e.ints(s.Player(game.PlayerOne).Deck)
	e.ints(s.Player(game.PlayerTwo).Deck)
	e.ints(s.Player(game.PlayerOne).Discard)
	e.ints(s.Player(game.PlayerTwo).Discard)
	e.u8(uint8(s.Active))
	e.u8(uint8(s.Phase))
	e.u8(uint8(s.Result))
	e.i32(s.TurnNumber)
}

type decoder struct {
	buf []byte
	cat *catalog.Catalog
	err error
}

func (d *decoder) fail() {
	if d.err == nil {
		d.err = ErrShortPayload
	}
}

func (d *decoder) u8() uint8 {
	if len(d.buf) < 1 {
		d.fail()
		return 0
	}
	v := d.buf[0]
	d.buf = d.buf[1:]
	return v
}

func (d *decoder) bool() bool { return d.u8() != 0 }

func (d *decoder) u16() uint16 {
	if len(d.buf) < 2 {
		d.fail()
		return 0
	}
	v := binary.BigEndian.Uint16(d.buf)
	d.buf = d.buf[2:]
	return v
}

func (d *decoder) i32() int {
	if len(d.buf) < 4 {
		d.fail()
		return 0
	}
	v := int32(binary.BigEndian.Uint32(d.buf))
	d.buf = d.buf[4:]
	return int(v)
}

func (d *decoder) str() string {
	n := int(d.u16())
	if len(d.buf) < n {
		d.fail()
		return ""
	}
	s := string(d.buf[:n])
	d.buf = d.buf[n:]
	return s
}

func (d *decoder) ints() []int {
	n := int(d.u16())
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.i32())
	}
	return out
}

func (d *decoder) piece() *game.Piece {
	typeName := d.str()
	side := game.Side(d.u8())
	health := d.i32()
	hasMoved := d.bool()
	stun := d.i32()
	if d.err != nil {
		return nil
	}
	stats, ok := d.cat.Stats(typeName)
	if !ok {
		d.err = fmt.Errorf("%w: %q", ErrUnknownPiece, typeName)
		return nil
	}
	return &game.Piece{
		Stats:         stats,
		Side:          side,
		CurrentHealth: health,
		HasMoved:      hasMoved,
		StunRemaining: stun,
	}
}

func (d *decoder) state() *game.State {
	s := game.NewState()
	for y := 0; y < game.BoardSize; y++ {
		for x := 0; x < game.BoardSize; x++ {
			if !d.bool() {
				continue
			}
			pc := d.piece()
			if pc == nil {
				return s
			}
			s.Board.Place(pc, game.Position{X: x, Y: y})
		}
	}
	s.Player(game.PlayerOne).Steam = d.i32()
	s.Player(game.PlayerTwo).Steam = d.i32()
	s.Player(game.PlayerOne).Hand = d.ints()
	s.Player(game.PlayerTwo).Hand = d.ints()
	s.Player(game.PlayerOne).Deck = d.ints()
	s.Player(game.PlayerTwo).Deck = d.ints()
	s.Player(game.PlayerOne).Discard = d.ints()
	s.Player(game.PlayerTwo).Discard = d.ints()
	s.Active = game.Side(d.u8())
	s.Phase = game.Phase(d.u8())
	s.Result = game.Result(d.u8())
	s.TurnNumber = d.i32()
	game.RecomputeInfluence(s.Board)
	return s
}
