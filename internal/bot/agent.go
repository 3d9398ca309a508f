package bot

import "fish/internal/domain"

// Agent is an autonomous seat. It owns a suggestion engine and decides from
// the same player-scoped view a human client receives.
type Agent struct {
	ID          string
	Name        string
	AvatarIndex int
	Engine      *Engine
}

// NewAgent builds an agent for an identity with the default engine.
func NewAgent(identity BotIdentity) *Agent {
	return &Agent{
		ID:          identity.UserID,
		Name:        identity.Name,
		AvatarIndex: identity.AvatarIndex,
		Engine:      NewEngine(),
	}
}

// Decide returns the agent's chosen move, or nil to pass.
func (a *Agent) Decide(v *domain.PlayerView) Suggestion {
	if v == nil || v.CurrentTurn != a.ID {
		return nil
	}
	return a.Engine.Decide(v)
}
