// Package main runs a headless client that plays a game room from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	uigame "github.com/jacobpatterson1549/trop-dur/ui/game"
	"github.com/jacobpatterson1549/trop-dur/ui/game/canvas"
	"github.com/jacobpatterson1549/trop-dur/ui/log"
	"github.com/joho/godotenv"
)

// main configures and runs the client.
func main() {
	ctx := context.Background()
	godotenv.Load() // the .env file is optional
	m := newMainFlags(os.Args, os.LookupEnv)
	log := newLog(os.Stderr, m.debug)
	if err := run(ctx, m, log); err != nil {
		log.Error("client stopped: " + err.Error())
		os.Exit(1)
	}
	log.Info("client stopped")
}

// run plays the game until it is interrupted or the server cannot be reached.
func run(ctx context.Context, m mainFlags, log *log.Log) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	u, err := m.identity(time.Now())
	if err != nil {
		return fmt.Errorf("reading user: %w", err)
	}
	mt, reg, err := newMetrics()
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}
	if len(m.metricsAddr) != 0 {
		srv := m.metricsServer(reg)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("serving metrics: " + err.Error())
			}
		}()
		defer srv.Shutdown(context.Background())
	}
	socketCfg := m.socketConfig(*u, log.With("socket"), mt)
	s, err := socketCfg.NewSocket()
	if err != nil {
		return err
	}
	voiceLog := log.With("voice")
	peers, err := m.peerFactory(voiceLog)
	if err != nil {
		return err
	}
	if m.canvasWidth <= 0 || m.canvasHeight <= 0 {
		return fmt.Errorf("positive canvas size required")
	}
	img := canvas.NewImage(m.canvasWidth, m.canvasHeight)
	shell := newLogShell(log.With("game"))
	gameCfg := m.gameConfig(*u, log.With("game"), s, shell, img, m.microphone(voiceLog), peers, mt)
	g, err := gameCfg.NewGame()
	if err != nil {
		return err
	}
	defer g.Close()
	errC := make(chan error, 1)
	go func() {
		errC <- g.Run(ctx)
	}()
	if m.voice {
		g.EnableVoice()
	}
	log.Info(commandHelp)
	go readCommands(os.Stdin, g, log.With("command"))
	err = <-errC // BLOCKING
	g.Close()
	if len(m.canvasPNG) != 0 {
		if err := writeCanvas(m.canvasPNG, img); err != nil {
			log.Error("saving drawing: " + err.Error())
		}
	}
	return err
}

// uigame.Game implements the player interface.
var _ player = (*uigame.Game)(nil)
