package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jacobpatterson1549/trop-dur/ui/game/voice/pion"
)

const (
	environmentVariableServerURL     = "SERVER_URL"
	environmentVariableRoom          = "ROOM"
	environmentVariablePlayerID      = "PLAYER_ID"
	environmentVariableHost          = "HOST"
	environmentVariableAccessToken   = "ACCESS_TOKEN"
	environmentVariableVoice         = "VOICE"
	environmentVariableVoiceFile     = "VOICE_FILE"
	environmentVariableSTUNURLs      = "STUN_URLS"
	environmentVariableReconnectWait = "RECONNECT_WAIT"
	environmentVariableMaxReconnects = "MAX_RECONNECTS"
	environmentVariableMetricsAddr   = "METRICS_ADDR"
	environmentVariableCanvasPNG     = "CANVAS_PNG"
	environmentVariableCanvasWidth   = "CANVAS_WIDTH"
	environmentVariableCanvasHeight  = "CANVAS_HEIGHT"
	environmentVariableDebug         = "DEBUG"
)

// mainFlags are the configuration options which can be easily configured at run startup for different environments.
type mainFlags struct {
	serverURL     string
	room          string
	playerID      string
	host          bool
	accessToken   string
	voice         bool
	voiceFile     string
	stunURLs      string
	reconnectWait time.Duration
	maxReconnects int
	metricsAddr   string
	canvasPNG     string
	canvasWidth   int
	canvasHeight  int
	debug         bool
}

const (
	defaultServerURL     = "http://127.0.0.1:5000/socket"
	defaultReconnectWait = 2 * time.Second
	defaultMaxReconnects = 10
	defaultCanvasWidth   = 800
	defaultCanvasHeight  = 600
)

// usage prints how to run the client to the flagset's output.
func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariableServerURL,
		environmentVariableRoom,
		environmentVariablePlayerID,
		environmentVariableHost,
		environmentVariableAccessToken,
		environmentVariableVoice,
		environmentVariableVoiceFile,
		environmentVariableSTUNURLs,
		environmentVariableReconnectWait,
		environmentVariableMaxReconnects,
		environmentVariableMetricsAddr,
		environmentVariableCanvasPNG,
		environmentVariableCanvasWidth,
		environmentVariableCanvasHeight,
		environmentVariableDebug,
	}
	fmt.Fprintf(fs.Output(), "Plays a game room from the terminal\n")
	fmt.Fprintf(fs.Output(), "Reads environment variables and the .env file when possible: [%s]\n", strings.Join(envVars, ","))
	fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(osLookupEnvFunc func(string) (string, bool)) *flag.FlagSet {
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	fs.Usage = func() {
		usage(fs) // [lazy evaluation]
	}
	envValue := func(key, defaultValue string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return defaultValue
	}
	envValueInt := func(key string, defaultValue int) int {
		v1 := envValue(key, "")
		v2, err := strconv.Atoi(v1)
		if err != nil {
			return defaultValue
		}
		return v2
	}
	envValueDuration := func(key string, defaultValue time.Duration) time.Duration {
		v1 := envValue(key, "")
		v2, err := time.ParseDuration(v1)
		if err != nil {
			return defaultValue
		}
		return v2
	}
	envPresent := func(key string) bool {
		_, ok := osLookupEnvFunc(key)
		return ok
	}
	fs.StringVar(&m.serverURL, "server-url", envValue(environmentVariableServerURL, defaultServerURL), "The url of the game server socket.  Websockets are tried before http long-polling.")
	fs.StringVar(&m.room, "room", envValue(environmentVariableRoom, ""), "The code of the room to join.  Ignored if an access token is given.")
	fs.StringVar(&m.playerID, "player", envValue(environmentVariablePlayerID, ""), "The id of the local player.  Ignored if an access token is given.")
	fs.BoolVar(&m.host, "host", envPresent(environmentVariableHost), "Allows the local player to start the next turn.  Ignored if an access token is given.")
	fs.StringVar(&m.accessToken, "token", envValue(environmentVariableAccessToken, ""), "The access token (JWT) issued by the server.  Supplies the player, room, and host claims.")
	fs.BoolVar(&m.voice, "voice", envPresent(environmentVariableVoice), "Enables voice chat when the game starts.")
	fs.StringVar(&m.voiceFile, "voice-file", envValue(environmentVariableVoiceFile, ""), "The Ogg/Opus file played in a loop as the microphone.  Voice chat cannot be enabled without it.")
	fs.StringVar(&m.stunURLs, "stun", envValue(environmentVariableSTUNURLs, strings.Join(pion.DefaultICEServers, ",")), "The comma-separated STUN server urls used to connect voice chat.")
	fs.DurationVar(&m.reconnectWait, "reconnect-wait", envValueDuration(environmentVariableReconnectWait, defaultReconnectWait), "The least time between attempts to connect to the server.")
	fs.IntVar(&m.maxReconnects, "max-reconnects", envValueInt(environmentVariableMaxReconnects, defaultMaxReconnects), "The number of failed connection attempts in a row before giving up.  Zero retries forever.")
	fs.StringVar(&m.metricsAddr, "metrics-addr", envValue(environmentVariableMetricsAddr, ""), "The address to serve prometheus metrics on, such as :9090.  Metrics are not served if empty.")
	fs.StringVar(&m.canvasPNG, "canvas-png", envValue(environmentVariableCanvasPNG, ""), "The file to write the mirrored drawing to when the client stops.")
	fs.IntVar(&m.canvasWidth, "canvas-width", envValueInt(environmentVariableCanvasWidth, defaultCanvasWidth), "The width of the mirrored drawing, in pixels.")
	fs.IntVar(&m.canvasHeight, "canvas-height", envValueInt(environmentVariableCanvasHeight, defaultCanvasHeight), "The height of the mirrored drawing, in pixels.")
	fs.BoolVar(&m.debug, "debug", envPresent(environmentVariableDebug), "Logs the events of messages passed to and from the server.")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
// Fields are populated from command line arguments.
// If fields are not specified on the command line, environment variable values are used before defaulting to other defaults.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) mainFlags {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	programArgs := osArgs[1:]
	var m mainFlags
	fs := m.newFlagSet(osLookupEnvFunc)
	fs.Parse(programArgs)
	return m
}

// stunServers splits the stun flag into urls.
func (m mainFlags) stunServers() []string {
	var urls []string
	for _, u := range strings.Split(m.stunURLs, ",") {
		if u = strings.TrimSpace(u); len(u) != 0 {
			urls = append(urls, u)
		}
	}
	return urls
}
