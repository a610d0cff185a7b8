package nakama

import (
	"context"

	"skull/internal/bot"
	"skull/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	// botTableSize is how many seats auto-fill brings a solo lobby up to.
	botTableSize  = 4
	maxBotLookups = 32
)

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill lobby with bots if there's only one human player after delay
	if state.lobby() {
		if len(state.connectedHumans()) == 1 && len(state.Bots) == 0 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				target := botTableSize
				if limit := state.Game.Rules.MaxPlayers; limit > 0 && limit < target {
					target = limit
				}
				for len(state.Game.Players) < target {
					if !mh.addBot(ctx, state, dispatcher, logger) {
						break
					}
				}
				state.LastSinglePlayerTick = 0
				mh.broadcastState(state, dispatcher, logger)
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	// 2. Handle bot moves in-game
	pending := pendingBots(state)
	if len(pending) == 0 {
		state.BotWaitUntil = 0
		return
	}
	if state.BotWaitUntil == 0 {
		delay := state.App.Integer(state.BotMinDelay, state.BotMaxDelay)
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: %d bot(s) will act at tick %d (current %d)", len(pending), state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	for _, agent := range pending {
		move, ok, err := agent.Play(state.Game)
		if err != nil {
			logger.Error("processBots: Bot %s failed to calculate move: %v", agent.ID, err)
			continue
		}
		if !ok {
			continue
		}
		mh.apply(ctx, state, dispatcher, logger, agent.ID, move)
	}
}

// addBot seats the next unused identity. It reports false when no bot
// could be seated.
func (mh *matchHandler) addBot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) bool {
	for i := 0; i < maxBotLookups; i++ {
		identity := bot.GetBotIdentity(len(state.Bots) + i)
		if identity.UserID == "" {
			// Pool entry not provisioned in Nakama yet.
			identity.UserID = "bot-" + identity.Username
		}
		if state.Game.Player(identity.UserID) != nil {
			continue
		}

		agent, err := bot.NewAgent(identity)
		if err != nil {
			logger.Error("Failed to create bot agent for %s: %v", identity.UserID, err)
			return false
		}
		state.Bots[agent.ID] = agent
		state.Names[agent.ID] = agent.Name
		if !mh.apply(ctx, state, dispatcher, logger, agent.ID, domain.Action{Kind: domain.ActionJoin}) {
			delete(state.Bots, agent.ID)
			delete(state.Names, agent.ID)
			return false
		}
		logger.Info("processBots: Added bot %s (%s, %s)", agent.Name, agent.ID, identity.Difficulty)
		return true
	}
	return false
}

// pendingBots lists, in seat order, the bots that owe a move.
func pendingBots(state *MatchState) []*bot.Agent {
	var out []*bot.Agent
	for _, p := range state.Game.Players {
		agent, ok := state.Bots[p.ID]
		if !ok {
			continue
		}
		if bot.MustAct(domain.UserStateFor(state.Game, p.ID)) {
			out = append(out, agent)
		}
	}
	return out
}
