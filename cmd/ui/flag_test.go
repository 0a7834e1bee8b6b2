package main

import (
	"bytes"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewMainFlags(t *testing.T) {
	defaults := mainFlags{
		serverURL:     defaultServerURL,
		stunURLs:      "stun:stun.l.google.com:19302,stun:stun1.l.google.com:19302",
		reconnectWait: defaultReconnectWait,
		maxReconnects: defaultMaxReconnects,
		canvasWidth:   defaultCanvasWidth,
		canvasHeight:  defaultCanvasHeight,
	}
	newMainFlagsTests := []struct {
		name    string
		osArgs  []string
		envVars map[string]string
		modify  func(m *mainFlags)
	}{
		{
			name: "defaults",
		},
		{
			name:   "not a flag",
			osArgs: []string{"", "room=AB12"},
		},
		{
			name:   "room flag",
			osArgs: []string{"", "-room=AB12"},
			modify: func(m *mainFlags) { m.room = "AB12" },
		},
		{
			name:    "room env",
			envVars: map[string]string{"ROOM": "CD34"},
			modify:  func(m *mainFlags) { m.room = "CD34" },
		},
		{
			name:    "flag over env",
			osArgs:  []string{"", "-room=AB12"},
			envVars: map[string]string{"ROOM": "CD34"},
			modify:  func(m *mainFlags) { m.room = "AB12" },
		},
		{
			name:    "present env",
			envVars: map[string]string{"HOST": "", "VOICE": "", "DEBUG": ""},
			modify: func(m *mainFlags) {
				m.host = true
				m.voice = true
				m.debug = true
			},
		},
		{
			name:    "bad numbers",
			envVars: map[string]string{"RECONNECT_WAIT": "soon", "MAX_RECONNECTS": "many"},
		},
		{
			name: "all command line",
			osArgs: []string{
				"",
				"-server-url=https://example.com/socket",
				"-room=1",
				"-player=2",
				"-host",
				"-token=3",
				"-voice",
				"-voice-file=4.ogg",
				"-stun=5",
				"-reconnect-wait=6s",
				"-max-reconnects=7",
				"-metrics-addr=:8",
				"-canvas-png=9.png",
				"-canvas-width=10",
				"-canvas-height=11",
				"-debug",
			},
			modify: func(m *mainFlags) {
				*m = mainFlags{
					serverURL:     "https://example.com/socket",
					room:          "1",
					playerID:      "2",
					host:          true,
					accessToken:   "3",
					voice:         true,
					voiceFile:     "4.ogg",
					stunURLs:      "5",
					reconnectWait: 6 * time.Second,
					maxReconnects: 7,
					metricsAddr:   ":8",
					canvasPNG:     "9.png",
					canvasWidth:   10,
					canvasHeight:  11,
					debug:         true,
				}
			},
		},
		{
			name: "all environment variables",
			envVars: map[string]string{
				"SERVER_URL":     "https://example.com/socket",
				"ROOM":           "1",
				"PLAYER_ID":      "2",
				"HOST":           "",
				"ACCESS_TOKEN":   "3",
				"VOICE":          "",
				"VOICE_FILE":     "4.ogg",
				"STUN_URLS":      "5",
				"RECONNECT_WAIT": "6s",
				"MAX_RECONNECTS": "7",
				"METRICS_ADDR":   ":8",
				"CANVAS_PNG":     "9.png",
				"CANVAS_WIDTH":   "10",
				"CANVAS_HEIGHT":  "11",
				"DEBUG":          "",
			},
			modify: func(m *mainFlags) {
				*m = mainFlags{
					serverURL:     "https://example.com/socket",
					room:          "1",
					playerID:      "2",
					host:          true,
					accessToken:   "3",
					voice:         true,
					voiceFile:     "4.ogg",
					stunURLs:      "5",
					reconnectWait: 6 * time.Second,
					maxReconnects: 7,
					metricsAddr:   ":8",
					canvasPNG:     "9.png",
					canvasWidth:   10,
					canvasHeight:  11,
					debug:         true,
				}
			},
		},
	}
	for _, test := range newMainFlagsTests {
		osLookupEnvFunc := func(key string) (string, bool) {
			v, ok := test.envVars[key]
			return v, ok
		}
		want := defaults
		if test.modify != nil {
			test.modify(&want)
		}
		got := newMainFlags(test.osArgs, osLookupEnvFunc)
		if diff := cmp.Diff(want, got, cmp.AllowUnexported(mainFlags{})); diff != "" {
			t.Errorf("%v: flags not equal (-want +got):\n%v", test.name, diff)
		}
	}
}

func TestUsage(t *testing.T) {
	osLookupEnvFunc := func(key string) (string, bool) {
		return "", false
	}
	var m mainFlags
	fs := m.newFlagSet(osLookupEnvFunc)
	var b bytes.Buffer
	fs.SetOutput(&b)
	fs.Init("mockProgramName", flag.ContinueOnError) // override ErrorHandling
	err := fs.Parse([]string{"-h"})
	if err != flag.ErrHelp {
		t.Errorf("wanted ErrHelp, got %v", err)
	}
	got := b.String()
	totalCommas := strings.Count(got, ",")
	b.Reset()
	fs.PrintDefaults()
	defaults := b.String()
	descriptionCommas := strings.Count(defaults, ",")
	envCommas := totalCommas - descriptionCommas
	wantEnvVarCount := envCommas + 1       // n+1 vars are joined with n commas
	wantLineCount := 3 + wantEnvVarCount*2 // 3 initial lines, 2 lines per env var
	gotLineCount := strings.Count(got, "\n")
	if wantLineCount != gotLineCount {
		t.Errorf("wanted usage to have %v lines, but got %v, each environment variable should have a flag:\n%v", wantLineCount, gotLineCount, got)
	}
}

func TestStunServers(t *testing.T) {
	stunServersTests := map[string][]string{
		"":                  nil,
		"stun:a":            {"stun:a"},
		" stun:a , ,stun:b": {"stun:a", "stun:b"},
	}
	for stun, want := range stunServersTests {
		m := mainFlags{stunURLs: stun}
		got := m.stunServers()
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%q: (-want +got):\n%v", stun, diff)
		}
	}
}
