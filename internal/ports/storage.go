package ports

import (
	"context"
	"errors"

	"fish/internal/domain"
)

// ErrNotFound is returned when a game, code or workflow record is absent.
var ErrNotFound = errors.New("record not found")

// LobbyWorkflow is the durable record of a pre-game orchestration instance:
// current phase, partial roster and the tick deadline of the phase wait. It
// is persisted after every step so a restarted actor resumes mid-phase.
type LobbyWorkflow struct {
	InstanceID    string        `json:"instance_id"`
	GameID        string        `json:"game_id"`
	Phase         domain.Status `json:"phase"`
	Roster        []string      `json:"roster"`
	PhaseDeadline int64         `json:"phase_deadline"` // tick
}

// GameStore persists game aggregates, the join-code index and lobby workflow
// records. Game records are rewritten wholesale after each mutation; there
// is no append-only log.
type GameStore interface {
	SaveGame(ctx context.Context, game *domain.GameData) error
	LoadGame(ctx context.Context, gameID string) (*domain.GameData, error)

	SaveJoinCode(ctx context.Context, code, gameID string) error
	ResolveJoinCode(ctx context.Context, code string) (string, error)

	SaveWorkflow(ctx context.Context, wf *LobbyWorkflow) error
	LoadWorkflow(ctx context.Context, instanceID string) (*LobbyWorkflow, error)
}
