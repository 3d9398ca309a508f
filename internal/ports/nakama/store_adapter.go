package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"fish/internal/domain"
	"fish/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	gamesCollection     = "fish_games"
	joinCodesCollection = "fish_join_codes"
	workflowsCollection = "fish_lobby_workflows"
)

// storageAPI is the slice of runtime.NakamaModule the adapter needs; narrow
// so tests can fake it.
type storageAPI interface {
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
}

// StorageAdapter implements ports.GameStore on Nakama storage. Records are
// system-owned and rewritten wholesale after each mutation.
type StorageAdapter struct {
	nk storageAPI
}

// NewStorageAdapter creates a storage adapter.
func NewStorageAdapter(nk storageAPI) *StorageAdapter {
	return &StorageAdapter{nk: nk}
}

func (a *StorageAdapter) write(ctx context.Context, collection, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, key, err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      collection,
		Key:             key,
		Value:           string(data),
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	if err != nil {
		return fmt.Errorf("storage write %s/%s: %w", collection, key, err)
	}
	return nil
}

func (a *StorageAdapter) read(ctx context.Context, collection, key string, out any) error {
	objs, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: collection,
		Key:        key,
	}})
	if err != nil {
		return fmt.Errorf("storage read %s/%s: %w", collection, key, err)
	}
	if len(objs) == 0 {
		return ports.ErrNotFound
	}
	if err := json.Unmarshal([]byte(objs[0].GetValue()), out); err != nil {
		return fmt.Errorf("unmarshal %s/%s: %w", collection, key, err)
	}
	return nil
}

// SaveGame rewrites the full aggregate record for a game id.
func (a *StorageAdapter) SaveGame(ctx context.Context, game *domain.GameData) error {
	return a.write(ctx, gamesCollection, game.GameID, game)
}

// LoadGame reads back a full aggregate record.
func (a *StorageAdapter) LoadGame(ctx context.Context, gameID string) (*domain.GameData, error) {
	var game domain.GameData
	if err := a.read(ctx, gamesCollection, gameID, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

type joinCodeRecord struct {
	GameID string `json:"game_id"`
}

// SaveJoinCode writes the join-code -> game id index entry.
func (a *StorageAdapter) SaveJoinCode(ctx context.Context, code, gameID string) error {
	return a.write(ctx, joinCodesCollection, code, joinCodeRecord{GameID: gameID})
}

// ResolveJoinCode looks a join code up in the index.
func (a *StorageAdapter) ResolveJoinCode(ctx context.Context, code string) (string, error) {
	var rec joinCodeRecord
	if err := a.read(ctx, joinCodesCollection, code, &rec); err != nil {
		return "", err
	}
	return rec.GameID, nil
}

// SaveWorkflow persists a lobby workflow record.
func (a *StorageAdapter) SaveWorkflow(ctx context.Context, wf *ports.LobbyWorkflow) error {
	return a.write(ctx, workflowsCollection, wf.InstanceID, wf)
}

// LoadWorkflow reads a lobby workflow record.
func (a *StorageAdapter) LoadWorkflow(ctx context.Context, instanceID string) (*ports.LobbyWorkflow, error) {
	var wf ports.LobbyWorkflow
	if err := a.read(ctx, workflowsCollection, instanceID, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

var _ ports.GameStore = (*StorageAdapter)(nil)
