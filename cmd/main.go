package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/rs/xid"

	"github.com/stillmatic/bobaline/pkg/agent"
	"github.com/stillmatic/bobaline/pkg/audio"
	"github.com/stillmatic/bobaline/pkg/bridge"
	"github.com/stillmatic/bobaline/pkg/console"
	"github.com/stillmatic/bobaline/pkg/events"
	"github.com/stillmatic/bobaline/pkg/logutil"
	"github.com/stillmatic/bobaline/pkg/notify"
	"github.com/stillmatic/bobaline/pkg/order"
)

var addr = flag.String("addr", "localhost:8080", "http service address")
var logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

var upgrader = websocket.Upgrader{
	// TODO: add origin check
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	store    *order.Store
	bus      *events.Bus
	notifier notify.Notifier
	settings agent.Settings

	agentURL     string
	agentAPIKey  string
	recordingDir string
}

// twilio handles one inbound call: upgrade the provider's media-stream
// websocket, dial the agent, and bridge the two until hangup.
func (s *Server) twilio(w http.ResponseWriter, r *http.Request) {
	logger.Info("received call", "remote", r.RemoteAddr)
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("error upgrading websocket connection", "error", err)
		return
	}
	defer c.Close()

	ctx := logutil.ContextWithLogger(r.Context(), logger)
	ctx = logutil.With(ctx, "remote", r.RemoteAddr)

	agentConn, err := agent.Dial(ctx, s.agentURL, s.agentAPIKey)
	if err != nil {
		logger.ErrorContext(ctx, "error dialing agent", "error", err)
		return
	}
	defer agentConn.Close()

	var recorder *audio.Recorder
	if s.recordingDir != "" {
		path := filepath.Join(s.recordingDir, fmt.Sprintf("call-%s.wav", xid.New()))
		recorder, err = audio.NewRecorder(path, audio.AgentInRate)
		if err != nil {
			logger.ErrorContext(ctx, "error opening call recording", "path", path, "error", err)
			recorder = nil
		}
	}

	b, err := bridge.New(bridge.Config{
		Telephony: c,
		Agent:     agentConn,
		Session:   order.NewSession(s.store),
		Store:     s.store,
		Notifier:  s.notifier,
		Bus:       s.bus,
		Settings:  s.settings,
		Recorder:  recorder,
	})
	if err != nil {
		logger.ErrorContext(ctx, "error creating bridge", "error", err)
		return
	}
	if err := b.Run(ctx); err != nil {
		logger.ErrorContext(ctx, "bridge ended with error", "error", err)
	}
}

func home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

func buildNotifier() notify.Notifier {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")
	if sid == "" || token == "" || from == "" {
		logger.Info("sms credentials not configured, texts will be logged only")
		return &notify.LogOnly{Logger: logger}
	}
	return notify.NewTwilioSMS(sid, token, from)
}

func loadSettings() agent.Settings {
	path := os.Getenv("AGENT_SETTINGS")
	if path == "" {
		return agent.DefaultSettings()
	}
	settings, err := agent.LoadSettings(path)
	if err != nil {
		log.Fatalf("error loading agent settings from %s: %v", path, err)
	}
	return settings
}

func ordersDir() string {
	if d := os.Getenv("ORDERS_DIR"); d != "" {
		return d
	}
	return "orders-data"
}

func main() {
	flag.Parse()
	log.SetFlags(0)
	godotenv.Load()

	shouldLogDebug := os.Getenv("DEBUG")
	if shouldLogDebug == "1" {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	store, err := order.OpenStore(order.StoreOptions{Dir: ordersDir()})
	if err != nil {
		log.Fatalf("error opening order store: %v", err)
	}
	defer store.Close()
	// the shop starts each day with an empty board
	if err := store.Reset(context.Background()); err != nil {
		log.Fatalf("error resetting order store: %v", err)
	}

	agentURL := os.Getenv("AGENT_URL")
	if agentURL == "" {
		agentURL = agent.DefaultConverseURL
	}

	ms := Server{
		store:        store,
		bus:          events.NewBus(),
		notifier:     buildNotifier(),
		settings:     loadSettings(),
		agentURL:     agentURL,
		agentAPIKey:  os.Getenv("DEEPGRAM_API_KEY"),
		recordingDir: os.Getenv("CALL_RECORDINGS_DIR"),
	}

	cs := &console.Server{
		Store:     store,
		Bus:       ms.bus,
		Notifier:  ms.notifier,
		VoiceHost: os.Getenv("VOICE_HOST"),
		WSScheme:  os.Getenv("WS_SCHEME"),
	}
	cs.Register(http.DefaultServeMux)

	http.HandleFunc("/twilio", ms.twilio)
	http.HandleFunc("/", home)
	logger.Info("listening", "addr", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
