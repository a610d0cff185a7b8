package ws

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"skull/internal/app"
	"skull/internal/domain"
)

type command struct {
	client *Client
	msg    inbound
}

// Room owns one match. All state changes happen on the run goroutine, so the
// game is never touched concurrently.
type Room struct {
	ID string

	logger      *zap.Logger
	svc         *app.Service
	game        *domain.GameState
	idleTimeout time.Duration

	clients  map[*Client]struct{}
	joins    chan *Client
	leaves   chan *Client
	commands chan command
	done     chan struct{}

	label atomic.Pointer[domain.LabelPayload]
}

func newRoom(id string, rules domain.Rules, idleTimeout time.Duration, logger *zap.Logger) *Room {
	r := &Room{
		ID:          id,
		logger:      logger,
		svc:         app.NewService(nil),
		game:        domain.NewGameState(rules),
		idleTimeout: idleTimeout,
		clients:     make(map[*Client]struct{}),
		joins:       make(chan *Client),
		leaves:      make(chan *Client),
		commands:    make(chan command, 16),
		done:        make(chan struct{}),
	}
	r.updateLabel()
	return r
}

// Label returns the last published summary of the room.
func (r *Room) Label() domain.LabelPayload {
	return *r.label.Load()
}

// Done is closed once the room has shut down.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) register(c *Client) bool {
	select {
	case r.joins <- c:
		return true
	case <-r.done:
		return false
	}
}

func (r *Room) unregister(c *Client) {
	select {
	case r.leaves <- c:
	case <-r.done:
	}
}

func (r *Room) submit(c *Client, msg inbound) {
	select {
	case r.commands <- command{client: c, msg: msg}:
	case <-r.done:
	}
}

func (r *Room) run(ctx context.Context) {
	defer close(r.done)
	defer r.closeClients()

	var idle *time.Timer
	var idleC <-chan time.Time
	if r.idleTimeout > 0 {
		idle = time.NewTimer(r.idleTimeout)
		defer idle.Stop()
		idleC = idle.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-r.joins:
			r.clients[c] = struct{}{}
			if idle != nil {
				idle.Stop()
			}
			r.logger.Info("client connected", zap.String("user_id", c.UserID))
			// A successful join already pushes state to everyone.
			if r.game.Player(c.UserID) != nil || !r.handle(c, domain.Action{Kind: domain.ActionJoin}) {
				r.sendState(c)
			}

		case c := <-r.leaves:
			if _, ok := r.clients[c]; !ok {
				continue
			}
			delete(r.clients, c)
			close(c.send)
			r.logger.Info("client disconnected", zap.String("user_id", c.UserID))
			if len(r.clients) == 0 && idle != nil {
				idle.Reset(r.idleTimeout)
			}

		case cmd := <-r.commands:
			if cmd.msg.T == MsgState {
				r.sendState(cmd.client)
				continue
			}
			action, err := cmd.msg.action()
			if err != nil {
				r.send(cmd.client, errorMsg(err))
				continue
			}
			r.handle(cmd.client, action)

		case <-idleC:
			if len(r.clients) == 0 {
				r.logger.Info("room idle, closing")
				return
			}
		}
	}
}

func (r *Room) handle(c *Client, action domain.Action) bool {
	events, err := r.svc.Dispatch(r.game, c.UserID, action)
	if err != nil {
		r.logger.Debug("action rejected",
			zap.String("user_id", c.UserID),
			zap.String("action", string(action.Kind)),
			zap.Error(err))
		r.send(c, errorMsg(err))
		return false
	}
	r.logger.Debug("action applied",
		zap.String("user_id", c.UserID),
		zap.String("action", string(action.Kind)),
		zap.String("stage", string(r.game.Stage)))

	for _, ev := range events {
		r.broadcast(ev)
	}
	for client := range r.clients {
		r.sendState(client)
	}
	r.updateLabel()
	return true
}

func (r *Room) broadcast(ev app.Event) {
	msg := Msg{T: string(ev.Kind), M: ev.Payload}
	for c := range r.clients {
		if len(ev.Recipients) > 0 && !slices.Contains(ev.Recipients, c.UserID) {
			continue
		}
		r.send(c, msg)
	}
}

func (r *Room) sendState(c *Client) {
	r.send(c, Msg{T: MsgState, M: domain.UserStateFor(r.game, c.UserID)})
}

// send never blocks the room; a client that cannot keep up loses messages
// and can ask for a fresh state.
func (r *Room) send(c *Client, msg Msg) {
	if _, ok := r.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		r.logger.Warn("client send buffer full, dropping message",
			zap.String("user_id", c.UserID),
			zap.String("type", msg.T))
	}
}

func (r *Room) updateLabel() {
	label := domain.ComputeLabel(r.game)
	r.label.Store(&label)
}

func (r *Room) closeClients() {
	for c := range r.clients {
		close(c.send)
		delete(r.clients, c)
	}
}
