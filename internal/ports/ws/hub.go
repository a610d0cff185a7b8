package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"skull/internal/domain"
)

// Options configures a Hub.
type Options struct {
	// AllowedOrigins lists browser origins that may connect. Empty allows any.
	AllowedOrigins []string
	Rules          domain.Rules
	// IdleTimeout closes rooms nobody is connected to. Zero keeps them forever.
	IdleTimeout time.Duration
}

// Hub tracks the open rooms and accepts websocket connections into them.
type Hub struct {
	opts         Options
	allowOrigins map[string]bool
	logger       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.RWMutex
	rooms map[string]*Room
}

// RoomInfo is the public listing entry for a room.
type RoomInfo struct {
	ID string `json:"id"`
	domain.LabelPayload
}

func NewHub(opts Options, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	allow := make(map[string]bool, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		if o != "" {
			allow[o] = true
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		opts:         opts,
		allowOrigins: allow,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		rooms:        make(map[string]*Room),
	}
}

// CreateRoom opens a new room and starts its loop.
func (h *Hub) CreateRoom() *Room {
	id := uuid.NewString()
	room := newRoom(id, h.opts.Rules, h.opts.IdleTimeout, h.logger.With(zap.String("match_id", id)))

	h.mu.Lock()
	h.rooms[id] = room
	h.mu.Unlock()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		room.run(h.ctx)
		h.mu.Lock()
		delete(h.rooms, id)
		h.mu.Unlock()
	}()

	h.logger.Info("room created", zap.String("match_id", id))
	return room
}

// Room returns the open room with id, or nil.
func (h *Hub) Room(id string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[id]
}

// Rooms lists open rooms ordered by id.
func (h *Hub) Rooms() []RoomInfo {
	h.mu.RLock()
	out := make([]RoomInfo, 0, len(h.rooms))
	for id, r := range h.rooms {
		out = append(out, RoomInfo{ID: id, LabelPayload: r.Label()})
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close stops every room and waits for their loops to exit.
func (h *Hub) Close() {
	h.cancel()
	h.wg.Wait()
}

// Routes mounts the hub's HTTP surface.
func (h *Hub) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", h.ServeWS)
	mux.HandleFunc("GET /rooms", h.handleListRooms)
	mux.HandleFunc("POST /rooms", h.handleCreateRoom)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (h *Hub) handleCreateRoom(w http.ResponseWriter, _ *http.Request) {
	room := h.CreateRoom()
	writeJSON(w, http.StatusCreated, map[string]string{"room": room.ID})
}

func (h *Hub) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Rooms())
}

// ServeWS upgrades GET /ws?room=<id>&user=<id> and attaches the socket to
// the room. The user id is trusted as given.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && len(h.allowOrigins) > 0 && !h.allowOrigins[origin] {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}
	userID := r.URL.Query().Get("user")
	if userID == "" {
		http.Error(w, "user is required", http.StatusBadRequest)
		return
	}
	room := h.Room(r.URL.Query().Get("room"))
	if room == nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	logger := room.logger.With(zap.String("user_id", userID))
	c := newClient(uuid.NewString(), userID, conn)
	if !room.register(c) {
		logger.Debug("room closed before join")
		return
	}

	ctx := r.Context()
	go c.writeLoop(ctx, logger)
	c.readLoop(ctx, room, logger)
	room.unregister(c)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
