package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/nightcouncil/mafia/internal/game"
	"github.com/nightcouncil/mafia/internal/gateway"
)

// ConnCtx is the per-connection context: which room the socket watches and as
// which player.
type ConnCtx struct {
	Code     string
	PlayerID string
}

// Server wires room subscriptions onto Socket.IO. Clients watch a room to
// receive change signals; state itself is always fetched per viewer through
// the gateway's projection, never broadcast raw.
type Server struct {
	gw *gateway.Gateway
	io *socketio.Server
}

func New(gw *gateway.Gateway) *Server {
	return &Server{gw: gw}
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.io = io

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// room:watch — subscribe to a room's change signals and receive this
	// viewer's current projection.
	io.OnEvent("/", "room:watch", func(s socketio.Conn, payload struct {
		RoomCode string `json:"roomCode"`
		PlayerID string `json:"playerId"`
	}) map[string]any {
		view, err := srv.gw.ViewRoom(payload.RoomCode, payload.PlayerID)
		if err != nil {
			return srv.err(s, "room_not_found", "Room not found")
		}
		s.SetContext(&ConnCtx{Code: payload.RoomCode, PlayerID: payload.PlayerID})
		s.Join(payload.RoomCode)
		log.Info().Str("sid", s.ID()).Str("code", payload.RoomCode).Msg("room:watch")
		s.Emit("room:state", view)
		return map[string]any{"ok": true}
	})

	// room:unwatch
	io.OnEvent("/", "room:unwatch", func(s socketio.Conn) map[string]any {
		ctx, _ := s.Context().(*ConnCtx)
		if ctx != nil && ctx.Code != "" {
			s.Leave(ctx.Code)
		}
		s.SetContext(&ConnCtx{})
		return map[string]any{"ok": true}
	})

	// room:state — re-fetch this viewer's projection on demand, typically in
	// response to a room:update signal.
	io.OnEvent("/", "room:state", func(s socketio.Conn) map[string]any {
		ctx, _ := s.Context().(*ConnCtx)
		if ctx == nil || ctx.Code == "" {
			return srv.err(s, "not_watching", "Watch a room first")
		}
		view, err := srv.gw.ViewRoom(ctx.Code, ctx.PlayerID)
		if err != nil {
			return srv.err(s, "room_not_found", "Room not found")
		}
		s.Emit("room:state", view)
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	return io
}

// PublishRoomUpdate implements gateway.Publisher. The payload is signal-only
// so one broadcast can go to every subscriber without leaking roles; clients
// respond by requesting their own projection.
func (srv *Server) PublishRoomUpdate(code string, phase game.Phase, dayNumber int) {
	if srv.io == nil {
		return
	}
	srv.io.BroadcastToRoom("/", code, "room:update", map[string]any{
		"phase":     string(phase),
		"dayNumber": dayNumber,
		"timestamp": time.Now().UnixMilli(),
	})
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}

// MountPreflight answers CORS preflight for the Socket.IO POST transport.
func MountPreflight(r *gin.Engine) {
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})
}
