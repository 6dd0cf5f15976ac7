package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/nightcouncil/mafia/internal/config"
	"github.com/nightcouncil/mafia/internal/game"
	"github.com/nightcouncil/mafia/internal/gateway"
	"github.com/nightcouncil/mafia/internal/httpapi"
	"github.com/nightcouncil/mafia/internal/metrics"
	"github.com/nightcouncil/mafia/internal/store"
	"github.com/nightcouncil/mafia/internal/ws"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides config)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Night Council - Real-time Mafia game server

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080)

Environment Variables:
  MAFIA_SERVER_PORT                Port to listen on (default: 8080)
  MAFIA_DATABASE_DSN               Postgres DSN for the room store
                                   (empty: in-memory store)
  MAFIA_GAME_MIN_PLAYERS           Lobby minimum (default: 6)
  MAFIA_GAME_MAX_PLAYERS           Lobby maximum (default: 15)
  MAFIA_GAME_DAY_TIMER_SECONDS     Day phase length (default: 60)
  MAFIA_GAME_NIGHT_TIMER_SECONDS   Night phase length (default: 30)
  MAFIA_GAME_ENFORCE_MIN_PLAYERS   Refuse to start below the minimum
                                   (default: false)

Visit http://localhost:8080/health after starting the server.
`, os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Night Council %s\n", version)
		return
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("failed to load configuration")
	}
	port := *portFlag
	if port == "" {
		port = cfg.Server.Port
	}

	// Room store: postgres if configured, in-memory otherwise.
	var st store.Store
	if cfg.Database.DSN != "" {
		pg, err := store.NewPostgresStore(cfg.Database.DSN)
		if err != nil {
			zerologlog.Fatal().Err(err).Msg("failed to open postgres room store")
		}
		st = pg
		zerologlog.Info().Msg("using postgres room store")
	} else {
		st = store.NewMemoryStore()
		zerologlog.Info().Msg("using in-memory room store")
	}
	defer st.Close()

	gw := gateway.New(st, gateway.Config{
		DefaultSettings: game.Settings{
			MinPlayers:              cfg.Game.MinPlayers,
			MaxPlayers:              cfg.Game.MaxPlayers,
			DayTimerSeconds:         cfg.Game.DayTimerSeconds,
			NightTimerSeconds:       cfg.Game.NightTimerSeconds,
			RevealRoleOnElimination: cfg.Game.RevealRoleOnElimination,
		},
		EnforceMinPlayers: cfg.Game.EnforceMinPlayers,
		SweepInterval:     cfg.Game.SweepInterval,
	})
	gw.SetMetrics(metrics.New("mafia"))

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Socket server wired as the gateway's change publisher
	sock := ws.New(gw)
	io := sock.Mount(r)
	defer io.Close()
	ws.MountPreflight(r)
	gw.SetPublisher(sock)

	httpapi.Register(r, gw)

	// Phase-expiry sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gw.Sweep(ctx)

	zerologlog.Info().Str("port", port).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		zerologlog.Fatal().Err(err).Msg("server stopped")
	}
}
