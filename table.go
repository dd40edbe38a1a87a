// Chronoselect tables
//
// A table is one shared touch surface. Everyone at the table puts a finger
// on the same screen; the server runs the selection game and streams frames
// back for the surface to draw.
//
// Features:
// - WebSockets per table ID: /table/:tableid and /table/:tableid/ws
// - One surface per table; a newer connection replaces the older one
// - Each table runs its own session on a frame ticker
// - Cues and vibrations are flushed ahead of each frame
// - Input is rate limited per connection
// - Tables auto-reaped after configurable idle timeout
// - Random 8-char table IDs via crypto/rand, with server-side collision check
// - QR code for the table URL, backed by go-qrcode

package main

import (
	"bytes"
	"crypto/rand"
	_ "embed"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/chronoselect/games/chrono"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 << 10
	sendBuffer     = 32
)

type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan any
	limiter *rate.Limiter
}

func newClient(cfg *Config, conn *websocket.Conn) *Client {
	return &Client{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan any, sendBuffer),
		limiter: rate.NewLimiter(rate.Limit(cfg.inputRate), cfg.inputRate),
	}
}

type inbound struct {
	client *Client
	msg    ClientMessage
}

type Table struct {
	id      string
	session *chrono.Session
	fx      *effectBuffer
	clock   clock.Clock
	frame   time.Duration
	log     zerolog.Logger

	surface *Client // owned by run

	register chan *Client
	unreg    chan *Client
	inbox    chan inbound
	quit     chan struct{}
	done     chan struct{}
	stop     sync.Once

	mu         sync.RWMutex
	createdAt  time.Time
	lastActive time.Time
}

func newTable(cfg *Config, id string, clk clock.Clock, settings chrono.Settings) *Table {
	now := clk.Now()
	fx := &effectBuffer{}
	logger := log.Logger.With().Str("table", id).Logger()

	return &Table{
		id: id,
		session: chrono.NewSession(now, chrono.Options{
			Settings: settings,
			Effects:  fx,
			Logger:   logger,
		}),
		fx:         fx,
		clock:      clk,
		frame:      cfg.frameInterval(),
		log:        logger,
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		inbox:      make(chan inbound, 16),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

func (t *Table) run() {
	defer close(t.done)

	ticker := t.clock.Ticker(t.frame)
	defer ticker.Stop()

	for {
		select {
		case <-t.quit:
			if t.surface != nil {
				close(t.surface.send)
				t.surface = nil
			}
			return

		case c := <-t.register:
			t.attach(c)

		case c := <-t.unreg:
			if c == t.surface {
				t.log.Debug().Str("client", c.id).Msg("surface left")
				close(c.send)
				t.surface = nil
				t.touch()
			}

		case in := <-t.inbox:
			if in.client != t.surface {
				continue
			}
			t.touch()
			t.handle(in.msg)
			t.publish()

		case <-ticker.C:
			t.session.Tick(t.clock.Now())
			t.publish()
		}
	}
}

// attach makes c the table's surface, evicting any previous one.
func (t *Table) attach(c *Client) {
	if old := t.surface; old != nil {
		t.log.Debug().Str("client", old.id).Str("by", c.id).Msg("surface replaced")
		select {
		case old.send <- SimpleMessage{Type: "replaced", Message: "This table was opened somewhere else."}:
		default:
		}
		close(old.send)
	}

	t.surface = c
	t.touch()
	t.log.Debug().Str("client", c.id).Msg("surface attached")

	t.deliver(StateMessage{Type: "state", State: t.session.Snapshot()})
}

func (t *Table) handle(msg ClientMessage) {
	now := t.clock.Now()

	switch msg.Type {
	case "contacts":
		t.session.Apply(now, msg.Events)
	case "reset":
		t.session.Reset(now)
	case "mode":
		mode, err := chrono.ParseMode(msg.Mode)
		if err == nil {
			err = t.session.SetMode(now, mode)
		}
		if err != nil {
			t.deliver(SimpleMessage{Type: "error", Message: err.Error()})
		}
	case "resize":
		t.session.Resize(msg.Width, msg.Height)
	default:
		t.log.Debug().Str("type", msg.Type).Msg("ignored message")
	}
}

// publish flushes pending effects, then the current frame.
func (t *Table) publish() {
	for _, m := range t.fx.drain() {
		t.deliver(m)
	}
	if t.surface != nil {
		t.deliver(StateMessage{Type: "state", State: t.session.Snapshot()})
	}
}

// deliver never blocks the hub; a surface that falls behind loses frames.
func (t *Table) deliver(msg any) {
	if t.surface == nil {
		return
	}
	select {
	case t.surface.send <- msg:
	default:
	}
}

func (t *Table) touch() {
	t.mu.Lock()
	t.lastActive = t.clock.Now()
	t.mu.Unlock()
}

func (t *Table) idleSince() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastActive
}

// Stop ends the table's loop and disconnects its surface.
func (t *Table) Stop() {
	t.stop.Do(func() { close(t.quit) })
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TableManager holds a set of tables keyed by table ID, so each
// $path/$tableid is its own isolated session.
type TableManager struct {
	mu          sync.Mutex
	tables      map[string]*Table
	cfg         *Config
	settings    chrono.Settings
	idleTimeout time.Duration
	clock       clock.Clock
	quit        chan struct{}
	closeOnce   sync.Once
}

func newTableManager(cfg *Config, clk clock.Clock) *TableManager {
	tm := &TableManager{
		tables:      make(map[string]*Table),
		cfg:         cfg,
		settings:    cfg.settings(),
		idleTimeout: cfg.sessionTimeout,
		clock:       clk,
		quit:        make(chan struct{}),
	}
	if tm.idleTimeout > 0 {
		go tm.reaperLoop(clk.Ticker(tm.idleTimeout / 2))
	}
	return tm
}

func (tm *TableManager) table(tableID string) *Table {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if t, ok := tm.tables[tableID]; ok {
		return t
	}

	t := newTable(tm.cfg, tableID, tm.clock, tm.settings)
	tm.tables[tableID] = t
	go t.run()

	logf(tm.cfg, "TABLES: Opened table %s", tableID)

	return t
}

func (tm *TableManager) lookup(tableID string) (*Table, bool) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	t, ok := tm.tables[tableID]
	return t, ok
}

func (tm *TableManager) Len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	return len(tm.tables)
}

const tableIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// newTableID generates a crypto-random table ID and ensures it doesn't
// collide with existing tables.
func (tm *TableManager) newTableID() string {
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = tableIDLetters[int(buf[i])%len(tableIDLetters)]
		}
		id := string(out)

		if _, exists := tm.lookup(id); !exists {
			return id
		}
	}
}

func validTableID(id string) bool {
	if id == "" || len(id) > 32 {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune(tableIDLetters, r) {
			return false
		}
	}
	return true
}

// reapIdle removes tables that have been idle longer than idleTimeout and
// returns their IDs.
func (tm *TableManager) reapIdle() []string {
	cutoff := tm.clock.Now().Add(-tm.idleTimeout)

	var reaped []string

	tm.mu.Lock()
	for id, t := range tm.tables {
		if t.idleSince().Before(cutoff) {
			delete(tm.tables, id)
			t.Stop()
			reaped = append(reaped, id)
		}
	}
	tm.mu.Unlock()

	for _, id := range reaped {
		logf(tm.cfg, "TABLES: Closed idle table %s", id)
	}

	return reaped
}

func (tm *TableManager) reaperLoop(ticker *clock.Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-tm.quit:
			return
		case <-ticker.C:
			tm.reapIdle()
		}
	}
}

// Close stops the reaper and every open table.
func (tm *TableManager) Close() {
	tm.closeOnce.Do(func() {
		close(tm.quit)

		tm.mu.Lock()
		defer tm.mu.Unlock()

		for id, t := range tm.tables {
			t.Stop()
			delete(tm.tables, id)
		}
	})
}

// WebSocket handler that picks the table based on :tableid
func serveTableSocket(cfg *Config, tm *TableManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tableID := ps.ByName("tableid")
		if !validTableID(tableID) {
			http.Error(w, "invalid table id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Str("remote", realIP(r)).Msg("upgrade")
			return
		}

		t := tm.table(tableID)
		client := newClient(cfg, conn)

		select {
		case t.register <- client:
		case <-t.quit:
			_ = conn.Close()
			return
		}

		logf(cfg, "TABLES: Surface %s connected to %s from %s", client.id, tableID, realIP(r))

		go client.writePump()
		client.readPump(t)
	}
}

func (c *Client) readPump(t *Table) {
	defer func() {
		select {
		case t.unreg <- c:
		case <-t.quit:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if !c.limiter.Allow() {
			t.log.Debug().Str("client", c.id).Str("type", msg.Type).Msg("rate limited")
			continue
		}

		select {
		case t.inbox <- inbound{client: c, msg: msg}:
		case <-t.quit:
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// QR handler: generates a PNG QR code for the current table URL using go-qrcode.
func serveTableQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validTableID(ps.ByName("tableid")) {
			http.Error(w, "invalid table id", http.StatusBadRequest)
			return
		}

		scheme := cfg.scheme()
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../:tableid/qr; strip trailing "/qr" to get the table URL.
		url := scheme + "://" + r.Host + strings.TrimSuffix(r.URL.Path, "/qr")

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

//go:embed chronoselect/index.html
var indexHTML []byte

func serveTablePage(cfg *Config, errs chan<- error) httprouter.Handle {
	page := bytes.ReplaceAll(indexHTML, []byte("{{prefix}}"), []byte(cfg.prefix))

	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validTableID(ps.ByName("tableid")) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			securityHeaders(cfg, w)
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(newPage(cfg, "Not Found", "No such table. Tap to start a new one.")))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		if _, err := w.Write(page); err != nil {
			errs <- err
		}
	}
}

// redirectNewTable handles GET /path by generating a new random table ID
// (with server-side collision detection) and redirecting to /path/:tableid.
func redirectNewTable(cfg *Config, path string, tm *TableManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		tableID := tm.newTableID()
		logf(cfg, "TABLES: Created table %s%s/%s", cfg.prefix, path, tableID)
		http.Redirect(w, r, cfg.prefix+path+"/"+tableID, http.StatusTemporaryRedirect)
	}
}

// registerTables sets up routes so that:
//   - $path                  → redirects to new random table (8-char ID)
//   - $path/:tableid         → HTML surface
//   - $path/:tableid/ws      → WebSocket for that table
//   - $path/:tableid/qr      → PNG QR code for that table URL
func registerTables(cfg *Config, path string, mux *httprouter.Router, tm *TableManager, errs chan<- error) {
	mux.GET(cfg.prefix+path, redirectNewTable(cfg, path, tm))

	mux.GET(cfg.prefix+path+"/:tableid", serveTablePage(cfg, errs))

	mux.GET(cfg.prefix+"/assets/chronoselect/:asset", serveAssets(cfg, errs))

	mux.GET(cfg.prefix+path+"/:tableid/ws", serveTableSocket(cfg, tm))

	mux.GET(cfg.prefix+path+"/:tableid/qr", serveTableQR(cfg, errs))
}
