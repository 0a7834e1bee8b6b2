package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/jacobpatterson1549/trop-dur/game"
	uigame "github.com/jacobpatterson1549/trop-dur/ui/game"
	"github.com/jacobpatterson1549/trop-dur/ui/game/canvas"
	"github.com/jacobpatterson1549/trop-dur/ui/game/socket"
	"github.com/jacobpatterson1549/trop-dur/ui/game/voice"
	"github.com/jacobpatterson1549/trop-dur/ui/game/voice/pion"
	"github.com/jacobpatterson1549/trop-dur/ui/log"
	"github.com/jacobpatterson1549/trop-dur/ui/metrics"
	"github.com/jacobpatterson1549/trop-dur/ui/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// identity reads the local user from the access token, or from the flags if there is no token.
func (m mainFlags) identity(now time.Time) (*user.User, error) {
	if len(m.accessToken) != 0 {
		return user.FromToken(m.accessToken, now)
	}
	u := user.User{
		ID:   game.PlayerID(m.playerID),
		Room: m.room,
		Host: m.host,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// newLog creates the log, writing friendly lines to terminals and json otherwise.
func newLog(f *os.File, debug bool) *log.Log {
	if isTerminal(f) {
		return log.NewConsole(f, debug)
	}
	return log.New(f, debug)
}

// isTerminal determines if the file is a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// socketConfig creates the configuration of the connection to the server.
func (m mainFlags) socketConfig(u user.User, log log.Logger, mt *metrics.Metrics) socket.Config {
	cfg := socket.Config{
		URL:           m.serverURL,
		Room:          u.Room,
		AccessToken:   u.Token,
		Log:           log,
		ReconnectWait: m.reconnectWait,
		MaxReconnects: m.maxReconnects,
		Metrics:       mt,
		Debug:         m.debug,
	}
	return cfg
}

// peerFactory creates the voice peer connection factory.  Remote audio is not played.
func (m mainFlags) peerFactory(log log.Logger) (*pion.Factory, error) {
	cfg := pion.Config{
		ICEServers: m.stunServers(),
		Log:        log,
	}
	return cfg.NewFactory()
}

// microphone creates the microphone that plays the voice file.
func (m mainFlags) microphone(log log.Logger) voice.Microphone {
	mic := pion.FileMicrophone{
		Path: m.voiceFile,
		Log:  log,
	}
	return mic
}

// gameConfig creates the configuration of the game session.
func (m mainFlags) gameConfig(u user.User, log log.Logger, s uigame.Socket, shell uigame.Shell, surface canvas.Surface, mic voice.Microphone, peers voice.PeerFactory, mt *metrics.Metrics) uigame.Config {
	cfg := uigame.Config{
		Room:       u.Room,
		PlayerID:   u.ID,
		Host:       u.Host,
		Log:        log,
		Socket:     s,
		Shell:      shell,
		Surface:    surface,
		Microphone: mic,
		Peers:      peers,
		Metrics:    mt,
	}
	return cfg
}

// newMetrics creates the metrics of the client, including those of the go runtime, in a new registry.
func newMetrics() (*metrics.Metrics, *prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, nil, fmt.Errorf("registering go collector: %w", err)
	}
	mt, err := metrics.New(reg)
	if err != nil {
		return nil, nil, err
	}
	return mt, reg, nil
}

// metricsServer creates the server of the metrics endpoint.
func (m mainFlags) metricsServer(reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := http.Server{
		Addr:              m.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &srv
}

// writeCanvas writes the drawing as a png file.
func writeCanvas(path string, img *canvas.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating canvas file: %w", err)
	}
	if err := img.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
