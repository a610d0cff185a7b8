package nakama

import (
	"context"
	"database/sql"
	"slices"
	"strconv"

	"skull/internal/app"
	"skull/internal/bot"
	"skull/internal/config"
	"skull/internal/domain"
	"skull/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	rulesPath         = "data/skull_rules.json"
	botIdentitiesPath = "data/bot_identities.json"

	defaultBotMinDelay      = 1
	defaultBotMaxDelay      = 3
	defaultBotAutoFillDelay = 5
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	OwnerID              string                      // First connected human; only the owner may deal
	Tick                 int64                       // Current tick of the match
	Presences            map[string]runtime.Presence // Map UserId -> Presence for targeted messaging
	Names                map[string]string           // Display names for players and bots
	App                  *app.Service                // Skull use-cases
	Game                 *domain.GameState           // Canonical game state, created with the match
	BotsEnabled          bool                        // Whether AI players are allowed
	BotMinDelay          int                         // Min seconds a bot waits
	BotMaxDelay          int                         // Max seconds a bot waits
	BotAutoFillDelay     int                         // Seconds to wait before auto-filling with bots
	BotWaitUntil         int64                       // Tick when pending bots should act
	LastSinglePlayerTick int64                       // Tick when a single player started waiting
	Bots                 map[string]*bot.Agent       // Active bot agents
	Profiles             ports.ProfilePort           // Display name lookup
	label                string
}

func newMatchState(rules domain.Rules) *MatchState {
	return &MatchState{
		Presences:        make(map[string]runtime.Presence),
		Names:            make(map[string]string),
		App:              app.NewService(nil),
		Game:             domain.NewGameState(rules),
		BotMinDelay:      defaultBotMinDelay,
		BotMaxDelay:      defaultBotMaxDelay,
		BotAutoFillDelay: defaultBotAutoFillDelay,
		Bots:             make(map[string]*bot.Agent),
	}
}

func (ms *MatchState) isBot(userID string) bool {
	if _, ok := ms.Bots[userID]; ok {
		return true
	}
	return bot.IsBot(userID)
}

// connectedHumans returns seated players with a live presence, in seat order.
func (ms *MatchState) connectedHumans() []string {
	var out []string
	for _, p := range ms.Game.Players {
		if _, ok := ms.Presences[p.ID]; ok && !ms.isBot(p.ID) {
			out = append(out, p.ID)
		}
	}
	return out
}

// lobby reports whether no round has been dealt yet.
func (ms *MatchState) lobby() bool {
	return ms.Game.Round == 0
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig(rulesPath); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}

	state := newMatchState(config.Rules())
	if cfg := config.GetGameConfig(); cfg != nil && cfg.BotAutoFillDelaySeconds > 0 {
		state.BotAutoFillDelay = cfg.BotAutoFillDelaySeconds
	}
	if nk != nil {
		state.Profiles = NewNakamaProfileAdapter(nk)
	}
	applyEnv(ctx, state)

	label, err := matchLabel(state.Game)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	state.label = label

	tickRate := 1
	return state, tickRate, label
}

// applyEnv reads the bot settings from the runtime environment.
func applyEnv(ctx context.Context, state *MatchState) {
	env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if !ok {
		return
	}
	if val, ok := env["skull_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	readSeconds := func(key string, dst *int) {
		if i, err := strconv.Atoi(env[key]); err == nil && i > 0 {
			*dst = i
		}
	}
	readSeconds("skull_bot_min_delay_sec", &state.BotMinDelay)
	readSeconds("skull_bot_max_delay_sec", &state.BotMaxDelay)
	readSeconds("skull_bot_auto_fill_delay_sec", &state.BotAutoFillDelay)
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Seated players may always come back.
	if matchState.Game.Player(presence.GetUserId()) != nil {
		return state, true, ""
	}
	if domain.ComputeLabel(matchState.Game).Open <= 0 {
		return state, false, "Match is not accepting players"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	var joined []string
	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p
		matchState.Names[userID] = p.GetUsername()
		joined = append(joined, userID)

		if matchState.Game.Player(userID) != nil {
			logger.Debug("MatchJoin: User %s rejoined.", userID)
			continue
		}
		mh.apply(ctx, matchState, dispatcher, logger, userID, domain.Action{Kind: domain.ActionJoin})
	}
	mh.resolveNames(ctx, matchState, logger, joined)

	if owner := matchState.connectedHumans(); len(owner) > 0 && matchState.Presences[matchState.OwnerID] == nil {
		matchState.OwnerID = owner[0]
		logger.Debug("MatchJoin: Owner set to %s.", matchState.OwnerID)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastState(matchState, dispatcher, logger)
	return matchState
}

// resolveNames replaces usernames with display names where the profile port knows better.
func (mh *matchHandler) resolveNames(ctx context.Context, state *MatchState, logger runtime.Logger, userIDs []string) {
	if state.Profiles == nil || len(userIDs) == 0 {
		return
	}
	names, err := state.Profiles.DisplayNames(ctx, userIDs)
	if err != nil {
		logger.Warn("MatchJoin: Failed to resolve display names: %v", err)
		return
	}
	for id, name := range names {
		if name != "" {
			state.Names[id] = name
		}
	}
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		logger.Debug("MatchLeave: User %s disconnected.", p.GetUserId())
	}

	humans := matchState.connectedHumans()
	if len(humans) == 0 {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}
	if _, ok := matchState.Presences[matchState.OwnerID]; !ok {
		matchState.OwnerID = humans[0]
		logger.Debug("MatchLeave: Owner set to %s.", matchState.OwnerID)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastState(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		senderID := msg.GetUserId()
		switch msg.GetOpCode() {
		case OpRequestState:
			mh.sendState(matchState, dispatcher, logger, senderID)
		case OpStartGame:
			if senderID != matchState.OwnerID {
				logger.Warn("StartGame: User %s tried to start but is not owner (%s)", senderID, matchState.OwnerID)
				mh.sendError(matchState, dispatcher, logger, senderID, map[string]any{"code": "not_owner", "message": "only the table owner can deal"})
				continue
			}
			mh.handleAction(ctx, matchState, dispatcher, logger, msg)
		case OpJoin, OpPlaceCard, OpPlaceBid, OpPass, OpReveal:
			mh.handleAction(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) handleAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	action, err := actionFromMessage(msg.GetOpCode(), msg.GetData())
	if err != nil {
		logger.Warn("handleAction: Invalid message from %s (op %d): %v", senderID, msg.GetOpCode(), err)
		mh.sendError(state, dispatcher, logger, senderID, errorMessage(err))
		return
	}
	mh.apply(ctx, state, dispatcher, logger, senderID, action)
}

// apply runs one action through the app service and fans the outcome out:
// the events, then a fresh snapshot for every viewer.
func (mh *matchHandler) apply(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, action domain.Action) bool {
	events, err := state.App.Dispatch(state.Game, userID, action)
	if err != nil {
		logger.Warn("apply: User %s failed to %s: %v", userID, action.Kind, err)
		mh.sendError(state, dispatcher, logger, userID, errorMessage(err))
		return false
	}
	logger.Debug("apply: User %s did %s (stage=%s turn=%s)", userID, action.Kind, state.Game.Stage, state.Game.Turn)

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	if action.Kind != domain.ActionJoin {
		mh.broadcastState(state, dispatcher, logger)
	}
	mh.updateLabel(state, dispatcher, logger)
	return true
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	for id, agent := range state.Bots {
		if len(ev.Recipients) == 0 || slices.Contains(ev.Recipients, id) {
			agent.OnGameEvent(ev)
		}
	}

	opCode, body, err := eventMessage(ev)
	if err != nil {
		logger.Warn("broadcastEvent: %v", err)
		return
	}
	if ev.Kind == app.EventMatchEnded {
		logger.Info("Event: match_ended (champion=%s)", state.Game.Champion)
	}

	bytes, err := encodeMessage(body)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// Private events for bots or disconnected players must not leak to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("broadcastEvent: Failed to send %v: %v", ev.Kind, err)
	}
}

// broadcastState sends every connected presence its own redacted snapshot.
func (mh *matchHandler) broadcastState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for userID := range state.Presences {
		mh.sendState(state, dispatcher, logger, userID)
	}
}

func (mh *matchHandler) sendState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	view := domain.UserStateFor(state.Game, userID)
	bytes, err := encodeMessage(stateMessage(view, state.Names, state.OwnerID))
	if err != nil {
		logger.Error("sendState: Failed to marshal snapshot for %s: %v", userID, err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpState, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendState: Failed to send snapshot to %s: %v", userID, err)
	}
}

// sendError sends an error message to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, body map[string]any) {
	presence, ok := state.Presences[userID]
	if !ok {
		return
	}
	bytes, err := encodeMessage(body)
	if err != nil {
		logger.Error("Failed to marshal error message: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendError: Failed to send to %s: %v", userID, err)
	}
}

// updateLabel pushes the label to Nakama only when it changed.
func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state.Game)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if label == state.label {
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.label = label
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

var _ runtime.Match = (*matchHandler)(nil)
