package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/huddle/internal/app/orch"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"golang.org/x/time/rate"
)

// Options tune the socket pumps of every connection.
// A zero RateLimit leaves inbound traffic unthrottled.
type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendQueue  int
	RateLimit  float64
	RateBurst  int
}

func DefaultOptions() Options {
	return Options{
		ReadLimit:  64 << 10,
		PingPeriod: 25 * time.Second,
		PongWait:   60 * time.Second,
		WriteWait:  5 * time.Second,
		SendQueue:  64,
	}
}

type handlerFunc func(sid domain.ConnID, data []byte)

type SignalWSController struct {
	Orch *orch.Orchestrator

	opts     Options
	upgrader websocket.Upgrader
	validate *validator.Validate
	handlers map[protocol.Type]handlerFunc
	pumps    conc.WaitGroup
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	ctl := &SignalWSController{
		Orch: o,
		opts: opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	ctl.handlers = map[protocol.Type]handlerFunc{
		protocol.TypeJoinRoom:  ctl.handleJoin,
		protocol.TypeLeave:     ctl.handleLeave,
		protocol.TypeNegotiate: ctl.handleNegotiate,
		protocol.TypeDraw:      ctl.handleEvent(protocol.TypeDraw),
		protocol.TypeClear:     ctl.handleEvent(protocol.TypeClear),
		protocol.TypeUndo:      ctl.handleEvent(protocol.TypeUndo),
		protocol.TypeChat:      ctl.handleChat,
		protocol.TypePing:      ctl.handlePing,
		protocol.TypeWhoAmI:    ctl.handleWhoAmI,
	}
	return ctl
}

// wsSignalConn is the outbound half of a socket as seen by the orchestrator.
type wsSignalConn struct {
	conn    *websocket.Conn
	out     *core.Outbox
	limiter *rate.Limiter
	// throttled is set after a rejected frame and cleared by the next accepted one.
	// Only the read pump touches it.
	throttled bool

	closeOnce sync.Once
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	return c.out.TrySend(f)
}

func (c *wsSignalConn) Close() {
	c.closeOnce.Do(func() {
		c.out.Close()
		_ = c.conn.Close()
	})
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &wsSignalConn{
		conn:    ws,
		out:     core.NewOutbox(ctl.opts.SendQueue),
		limiter: newInboundLimiter(ctl.opts.RateLimit, ctl.opts.RateBurst),
	}

	meta := domain.NewConnection(domain.NewConnID(), token)
	ctx, cancel := context.WithCancel(ctx)
	if !ctl.Orch.Connect(meta, conn, cancel) {
		cancel()
		conn.Close()
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(meta.ID)).Str("ct", token).Msg("new WS connection")

	ctl.pumps.Go(func() { ctl.writePump(ctx, meta.ID, conn) })
	ctl.pumps.Go(func() { ctl.readPump(ctx, cancel, meta.ID, conn) })
}

// Wait blocks until every pump has exited.
func (ctl *SignalWSController) Wait() {
	ctl.pumps.Wait()
}

func (ctl *SignalWSController) reply(sid domain.ConnID, t protocol.Type, v any) {
	ctl.Orch.Reply(sid, t, v)
}

func (ctl *SignalWSController) replyError(sid domain.ConnID, code protocol.ErrorCode, msg string) {
	ctl.Orch.Reply(sid, protocol.TypeError, protocol.NewError(code, msg))
}
