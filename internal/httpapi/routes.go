package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nightcouncil/mafia/internal/game"
	"github.com/nightcouncil/mafia/internal/gateway"
)

// Register mounts the REST surface: one route per gateway operation.
func Register(r *gin.Engine, gw *gateway.Gateway) {
	api := r.Group("/api")

	api.POST("/rooms", func(c *gin.Context) {
		var req struct {
			HostName string `json:"hostName"`
			Avatar   string `json:"avatar"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		view, playerID, err := gw.CreateRoom(req.HostName, req.Avatar)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomCode": view.Code, "playerId": playerID, "room": view})
	})

	api.POST("/rooms/:code/join", func(c *gin.Context) {
		var req struct {
			Name   string `json:"name"`
			Avatar string `json:"avatar"`
		}
		if err := c.BindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name_required"})
			return
		}
		view, playerID, err := gw.JoinRoom(c.Param("code"), req.Name, req.Avatar)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"playerId": playerID, "room": view})
	})

	api.POST("/rooms/:code/start", func(c *gin.Context) {
		var req struct {
			PlayerID string `json:"playerId"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		if err := gw.StartGame(c.Param("code"), req.PlayerID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api.POST("/rooms/:code/action", func(c *gin.Context) {
		var req struct {
			PlayerID string `json:"playerId"`
			TargetID string `json:"targetId"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		if err := gw.SubmitNightAction(c.Param("code"), req.PlayerID, req.TargetID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api.POST("/rooms/:code/vote", func(c *gin.Context) {
		var req struct {
			PlayerID string `json:"playerId"`
			TargetID string `json:"targetId"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		lynched, err := gw.SubmitVote(c.Param("code"), req.PlayerID, req.TargetID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "processed": lynched})
	})

	api.POST("/rooms/:code/process", func(c *gin.Context) {
		if err := gw.ProcessPhaseExpiry(c.Param("code")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api.GET("/rooms/:code", func(c *gin.Context) {
		view, err := gw.ViewRoom(c.Param("code"), c.Query("playerId"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": view})
	})
}

// fail maps the error taxonomy onto status codes. Only the originating client
// ever sees a failure; nothing is published for rejected attempts.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room_not_found"})
	case errors.Is(err, game.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": "name_taken"})
	case errors.Is(err, game.ErrRoomFull):
		c.JSON(http.StatusForbidden, gin.H{"error": "room_full"})
	case errors.Is(err, game.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_transition"})
	case errors.Is(err, game.ErrInvalidActor):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_actor"})
	case errors.Is(err, game.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_target"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
