// Package telemetry is an optional observability sink for the interpreter:
// a sqlite recorder for GC cycles and task lifecycle events, and an
// optional websocket stream of live stats for a connected debug client.
// Nothing in this package is required for the VM to run; cmd/sahlvm wires
// it in only when a flag asks for it.
package telemetry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	_ "modernc.org/sqlite"
)

// Recorder implements internal/vm's Tracer interface: GC(allocated, nextGC,
// freed), TaskSpawned(id), TaskJoined(id).
type Recorder struct {
	runID string
	db    *sql.DB
	trace bool

	mu          sync.Mutex
	activeTasks int

	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]bool
	clientMu sync.Mutex
}

// Open creates a Recorder. dbPath may be empty to skip the sqlite sink;
// wsAddr may be empty to skip the websocket stats server. trace gates the
// humanized GC summary line GC() logs (cmd/sahlvm's -trace flag); the sqlite
// and websocket sinks record every cycle regardless of trace.
func Open(dbPath, wsAddr string, trace bool) (*Recorder, error) {
	r := &Recorder{runID: uuid.NewString(), trace: trace, clients: map[*websocket.Conn]bool{}}

	if dbPath != "" {
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("telemetry: opening %s: %w", dbPath, err)
		}
		if err := migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		r.db = db
	}

	if wsAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/stats", r.handleWS)
		go func() {
			if err := http.ListenAndServe(wsAddr, mux); err != nil {
				log.Printf("telemetry: websocket server exited: %v", err)
			}
		}()
	}

	return r, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS gc_cycles (
			run_id TEXT NOT NULL,
			at DATETIME NOT NULL,
			allocated INTEGER NOT NULL,
			next_gc INTEGER NOT NULL,
			freed INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS task_events (
			run_id TEXT NOT NULL,
			at DATETIME NOT NULL,
			task_id INTEGER NOT NULL,
			event TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("telemetry: migrating schema: %w", err)
	}
	return nil
}

// GC records one collection cycle. The sqlite and websocket sinks always
// get it; the human-readable summary line (which renders the byte counts
// with go-humanize) only prints when trace is enabled.
func (r *Recorder) GC(allocated, nextGC uint64, freed int) {
	if r.trace {
		log.Printf("gc: allocated=%s next_gc=%s freed=%d",
			humanize.Bytes(allocated), humanize.Bytes(nextGC), freed)
	}

	if r.db != nil {
		_, err := r.db.Exec(
			`INSERT INTO gc_cycles (run_id, at, allocated, next_gc, freed) VALUES (?, ?, ?, ?, ?)`,
			r.runID, time.Now().UTC(), allocated, nextGC, freed,
		)
		if err != nil {
			log.Printf("telemetry: recording gc cycle: %v", err)
		}
	}

	r.broadcast(snapshot{
		RunID:       r.runID,
		Allocated:   allocated,
		NextGC:      nextGC,
		ActiveTasks: r.taskCount(),
	})
}

func (r *Recorder) TaskSpawned(id int) {
	r.mu.Lock()
	r.activeTasks++
	r.mu.Unlock()
	r.recordTaskEvent(id, "spawned")
}

func (r *Recorder) TaskJoined(id int) {
	r.mu.Lock()
	r.activeTasks--
	r.mu.Unlock()
	r.recordTaskEvent(id, "joined")
}

func (r *Recorder) recordTaskEvent(id int, event string) {
	if r.db == nil {
		return
	}
	_, err := r.db.Exec(
		`INSERT INTO task_events (run_id, at, task_id, event) VALUES (?, ?, ?, ?)`,
		r.runID, time.Now().UTC(), id, event,
	)
	if err != nil {
		log.Printf("telemetry: recording task event: %v", err)
	}
}

func (r *Recorder) taskCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeTasks
}

// Close releases the sqlite handle, if one is open.
func (r *Recorder) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

type snapshot struct {
	RunID       string `json:"run_id"`
	Allocated   uint64 `json:"allocated"`
	NextGC      uint64 `json:"next_gc"`
	ActiveTasks int    `json:"active_tasks"`
}

func (r *Recorder) handleWS(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("telemetry: websocket upgrade failed: %v", err)
		return
	}
	r.clientMu.Lock()
	r.clients[conn] = true
	r.clientMu.Unlock()
}

func (r *Recorder) broadcast(s snapshot) {
	r.clientMu.Lock()
	defer r.clientMu.Unlock()
	if len(r.clients) == 0 {
		return
	}
	msg, err := json.Marshal(s)
	if err != nil {
		return
	}
	for conn := range r.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(r.clients, conn)
		}
	}
}
