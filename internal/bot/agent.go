package bot

import (
	"skull/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for a bot identity. An identity naming a script
// plays that script instead of a built-in level.
func NewAgent(identity BotIdentity) (*Agent, error) {
	var strategy Brain
	var err error
	if identity.Script != "" {
		strategy, err = LoadScriptBot(identity.Script)
	} else {
		strategy, err = NewBrain(ParseLevel(identity.Difficulty))
	}
	if err != nil {
		return nil, err
	}
	name := identity.DisplayName
	if name == "" {
		name = identity.Username
	}
	return &Agent{ID: identity.UserID, Name: name, Strategy: strategy}, nil
}

// Play asks the agent for its move. ok is false when the agent has nothing
// to do in the current state.
func (a *Agent) Play(game *domain.GameState) (domain.Action, bool, error) {
	view := domain.UserStateFor(game, a.ID)
	if !MustAct(view) {
		return domain.Action{}, false, nil
	}
	move, err := a.Strategy.CalculateMove(view)
	if err != nil {
		return domain.Action{}, false, err
	}
	return move, true, nil
}

// OnGameEvent notifies the agent of a game event.
func (a *Agent) OnGameEvent(event any) {
	a.Strategy.OnEvent(event)
}
