// Command bonanza-client is a headless terminal client, mainly for smoke
// testing a running server: it logs in, queues for a match and accepts
// move/play/end commands on stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bayou-games/bayou-bonanza/internal/catalog"
	"github.com/bayou-games/bayou-bonanza/internal/game"
	"github.com/bayou-games/bayou-bonanza/internal/netclient"
	"github.com/bayou-games/bayou-bonanza/internal/obslog"
	"github.com/bayou-games/bayou-bonanza/internal/wire"
)

func main() {
	addr := flag.String("addr", "ws://127.0.0.1:4000/ws", "server websocket URL")
	user := flag.String("user", "", "username to log in as")
	catalogPath := flag.String("catalog", "", "piece catalog path (embedded default when empty)")
	flag.Parse()

	if err := obslog.InitFromEnv(); err != nil {
		panic(err)
	}
	log := obslog.L()

	if strings.TrimSpace(*user) == "" {
		fmt.Fprintln(os.Stderr, "usage: bonanza-client -user NAME [-addr ws://...]")
		os.Exit(2)
	}

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatal("load catalog", zap.Error(err))
	}

	ctx := context.Background()
	cli, err := netclient.Dial(ctx, *addr, cat)
	if err != nil {
		log.Fatal("connect", zap.Error(err))
	}
	defer func() { _ = cli.Close() }()

	if err := cli.Send(ctx, wire.UserLogin{Username: *user}); err != nil {
		log.Fatal("login", zap.Error(err))
	}
	if err := cli.Send(ctx, wire.RequestMatchmaking{}); err != nil {
		log.Fatal("matchmaking", zap.Error(err))
	}

	go receiveLoop(ctx, cli)

	sc := bufio.NewScanner(os.Stdin)
	fmt.Println("commands: move FX FY TX TY [PROMO] | play IDX X Y | end | quit")
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "move":
			if len(fields) < 5 {
				fmt.Println("move FX FY TX TY [PROMO]")
				continue
			}
			nums, ok := atoiAll(fields[1:5])
			if !ok {
				fmt.Println("coordinates must be integers")
				continue
			}
			mv := game.Move{
				From: game.Position{X: nums[0], Y: nums[1]},
				To:   game.Position{X: nums[2], Y: nums[3]},
			}
			if len(fields) > 5 {
				mv.PromotionType = fields[5]
			}
			send(ctx, cli, wire.MoveToServer{Move: mv})
		case "play":
			if len(fields) != 4 {
				fmt.Println("play IDX X Y")
				continue
			}
			nums, ok := atoiAll(fields[1:4])
			if !ok {
				fmt.Println("arguments must be integers")
				continue
			}
			send(ctx, cli, wire.CardPlayToServer{
				CardIndex: nums[0],
				Target:    game.Position{X: nums[1], Y: nums[2]},
			})
		case "end":
			send(ctx, cli, wire.EndTurn{})
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}

func send(ctx context.Context, cli *netclient.Client, msg wire.Message) {
	if err := cli.Send(ctx, msg); err != nil {
		obslog.L().Error("send", zap.Error(err))
	}
}

func atoiAll(fields []string) ([]int, bool) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func receiveLoop(ctx context.Context, cli *netclient.Client) {
	for {
		msg, err := cli.Recv(ctx)
		if err != nil {
			obslog.L().Info("connection closed", zap.Error(err))
			os.Exit(0)
		}
		switch m := msg.(type) {
		case wire.PlayerAssignment:
			fmt.Printf("\n>> you are %s\n", m.Side)
		case wire.WaitingForOpponent:
			fmt.Println("\n>> waiting for an opponent")
		case wire.GameStart:
			fmt.Printf("\n>> %s (%d) vs %s (%d)\n", m.Player1Name, m.Player1Rating, m.Player2Name, m.Player2Rating)
			printState(m.State)
		case wire.GameStateUpdate:
			printState(m.State)
		case wire.MoveRejected:
			fmt.Printf("\n>> move rejected: %s\n", m.Reason)
		case wire.CardPlayRejected:
			fmt.Println("\n>> card play rejected")
		case wire.DeckSaved:
			fmt.Println("\n>> deck saved")
		case wire.DeckData:
			fmt.Printf("\n>> deck: %v\n", m.Deck)
		case wire.CardCollectionData:
			fmt.Printf("\n>> collection: %v\n", m.Cards)
		case wire.ErrorMessage:
			fmt.Printf("\n>> error: %s\n", m.Message)
		}
	}
}

func printState(s *game.State) {
	fmt.Println()
	for y := 0; y < game.BoardSize; y++ {
		row := make([]string, 0, game.BoardSize)
		for x := 0; x < game.BoardSize; x++ {
			pc := s.Board.PieceAt(game.Position{X: x, Y: y})
			switch {
			case pc == nil:
				row = append(row, " .")
			case pc.Side == game.PlayerOne:
				row = append(row, " "+pc.Stats.Symbol)
			default:
				row = append(row, "*"+pc.Stats.Symbol)
			}
		}
		fmt.Printf("%d %s\n", y, strings.Join(row, " "))
	}
	p1, p2 := s.Player(game.PlayerOne), s.Player(game.PlayerTwo)
	fmt.Printf("steam p1=%d p2=%d | hand p1=%v p2=%v | turn %d, %s to act\n",
		p1.Steam, p2.Steam, p1.Hand, p2.Hand, s.TurnNumber, s.Active)
	if s.Over() {
		fmt.Printf("game over: result=%d\n", s.Result)
	}
}
