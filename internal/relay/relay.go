// Package relay receives live AP-* event lines from a running game over a
// websocket and appends them to per-session tuning files, where the loader
// picks them up on the next generation run.
package relay

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wadrando/wadrando/internal/config"
	"github.com/wadrando/wadrando/pkg/events"
)

type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/tuning", s.handleTuning)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// handleTuning runs one relay session: every valid record line received on
// the socket is appended to a session-scoped tuning file for the named WAD.
// Invalid lines are dropped with a warning; a live play session should not
// die because the game emitted one bad record.
func (s *Server) handleTuning(w http.ResponseWriter, r *http.Request) {
	wadName := r.URL.Query().Get("wad")
	if wadName == "" || strings.ContainsAny(wadName, "/\\.") {
		http.Error(w, "missing or invalid wad parameter", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.New()
	log := s.logger.With("wad", wadName, "session", sessionID)

	if err := os.MkdirAll(s.cfg.TuningDir, 0o755); err != nil {
		log.Error("creating tuning dir", "error", err)
		return
	}
	path := filepath.Join(s.cfg.TuningDir, fmt.Sprintf("%s.%s.tuning", wadName, sessionID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error("opening tuning file", "error", err)
		return
	}
	defer f.Close()

	log.Info("relay session started", "file", path)

	session := &session{log: log, out: f}
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("relay session closed abnormally", "error", err)
			} else {
				log.Info("relay session closed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			session.feed(line)
		}
	}
}

// session accumulates multi-line payloads per connection, mirroring the
// loader's continuation rule. A completed record is written as one line no
// matter how it arrived, so the tuning file stays line-per-record.
type session struct {
	log *slog.Logger
	out *os.File
	buf strings.Builder
}

func (s *session) feed(line string) {
	if s.buf.Len() == 0 && !strings.HasPrefix(line, "AP-") {
		return
	}
	if !strings.HasSuffix(line, "}") {
		s.buf.WriteString(line)
		return
	}
	record := line
	if s.buf.Len() > 0 {
		record = s.buf.String() + line
		s.buf.Reset()
	}

	kind, payload, ok := strings.Cut(record, " ")
	if !ok {
		s.log.Warn("dropping malformed record", "line", record)
		return
	}
	if events.Ignored(events.Kind(kind)) {
		return
	}
	if err := events.Validate(events.Kind(kind), []byte(payload)); err != nil {
		s.log.Warn("dropping invalid record", "kind", kind, "error", err)
		return
	}
	if _, err := fmt.Fprintln(s.out, record); err != nil {
		s.log.Error("writing tuning record", "error", err)
	}
}
