// Package admin serves the operational endpoints on a separate listener,
// kept off the game port so probes never share the websocket path.
package admin

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/bayou-games/bayou-bonanza/internal/obslog"
	"github.com/bayou-games/bayou-bonanza/internal/server"
)

// StatsProvider is implemented by the hub.
type StatsProvider interface {
	Snapshot() server.Stats
}

type Server struct {
	stats StatsProvider
}

func New(stats StatsProvider) *Server { return &Server{stats: stats} }

// ListenAndServe blocks serving /healthz and /statusz on addr.
func (s *Server) ListenAndServe(addr string) error {
	obslog.L().Info("admin listening", zap.String("addr", addr))
	return fasthttp.ListenAndServe(addr, s.handler)
}

func (s *Server) handler(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case "/statusz":
		body, err := json.Marshal(s.stats.Snapshot())
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
}
