package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nstehr/rampart/agent"
	"github.com/nstehr/rampart/config"
	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/rules"
)

const banner = `
 ____   __   _  _  ____   __   ____  ____
(  _ \ / _\ ( \/ )(  _ \ / _\ (  _ \(_  _)
 )   //    \/ \/ \ ) __//    \ )   /  )(
(__\_)\_/\_/\_)(_/(__)  \_/\_/(__\_) (__)

Simulation-Driven Tower Defense`

func main() {
	configPath := flag.String("config", "", "YAML config file (embedded defaults when empty)")
	socketPath := flag.String("socket", "/tmp/rampart.sock", "unix socket the engine connects to, empty to disable")
	httpAddr := flag.String("http", ":8089", "status and websocket listen address, empty to disable")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	engine, err := rules.NewEngine(cfg.BuildLists)
	if err != nil {
		slog.Error("failed to compile build lists", "error", err)
		os.Exit(1)
	}
	planner := agent.NewPlanner(cfg, engine)
	registry := agent.NewRegistry()

	slog.Info("starting rampart",
		"buildSteps", len(engine.Rules()),
		"attackKinds", cfg.Attack.Kinds,
		"firstAttack", cfg.Cadence.FirstAttackTurn,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *socketPath != "" {
		listener, err := listenUnix(*socketPath)
		if err != nil {
			slog.Error("failed to listen on socket", "path", *socketPath, "error", err)
			os.Exit(1)
		}
		defer listener.Close()
		defer os.Remove(*socketPath)
		slog.Info("listening on domain socket", "path", *socketPath)
		go acceptLoop(ctx, listener, planner, registry)
	}

	var srv *http.Server
	if *httpAddr != "" {
		srv = &http.Server{
			Addr:              *httpAddr,
			Handler:           agent.NewRouter(registry, agent.EngineHandler(planner, registry)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("status server listening", "addr", *httpAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("status server failed", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("status server shutdown", "error", err)
		}
	}
}

func listenUnix(path string) (net.Listener, error) {
	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("clean up socket: %w", err)
	}
	return net.Listen("unix", path)
}

func acceptLoop(ctx context.Context, listener net.Listener, planner *agent.Planner, registry *agent.Registry) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				slog.Error("failed to accept connection", "error", err)
				continue
			}
		}
		slog.Info("engine connected", "transport", "unix")
		go agent.Serve(ipc.NewStreamTransport(conn), planner, registry)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
