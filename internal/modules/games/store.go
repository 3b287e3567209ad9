package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/squadpick/squadpick-go/internal/modules/games/domain"

	"github.com/redis/go-redis/v9"
)

// TTL matches the party record's inactivity window so game snapshots never
// outlive the party they belong to.
const TTL = 2 * time.Hour

func OwnedKey(code, steamID string) string {
	return fmt.Sprintf("games:%s:%s", code, steamID)
}

func CommonKey(code string) string {
	return "common:" + code
}

// Snapshots stores per-member library snapshots and the memoized
// common-game result, both TTL-scoped JSON values.
type Snapshots struct {
	rdb *redis.Client
}

func NewSnapshots(rdb *redis.Client) *Snapshots {
	return &Snapshots{rdb: rdb}
}

func (s *Snapshots) SaveOwned(ctx context.Context, code, steamID string, games []domain.OwnedGame) error {
	data, err := json.Marshal(games)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, OwnedKey(code, steamID), data, TTL).Err()
}

func (s *Snapshots) GetOwned(ctx context.Context, code, steamID string) ([]domain.OwnedGame, bool, error) {
	raw, err := s.rdb.Get(ctx, OwnedKey(code, steamID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var games []domain.OwnedGame
	if err := json.Unmarshal([]byte(raw), &games); err != nil {
		return nil, false, err
	}

	return games, true, nil
}

func (s *Snapshots) SaveCommon(ctx context.Context, code string, games []domain.Game) error {
	data, err := json.Marshal(games)
	if err != nil {
		return err
	}

	return s.rdb.Set(ctx, CommonKey(code), data, TTL).Err()
}

func (s *Snapshots) GetCommon(ctx context.Context, code string) ([]domain.Game, bool, error) {
	raw, err := s.rdb.Get(ctx, CommonKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var games []domain.Game
	if err := json.Unmarshal([]byte(raw), &games); err != nil {
		return nil, false, err
	}

	return games, true, nil
}

func (s *Snapshots) InvalidateCommon(ctx context.Context, code string) error {
	return s.rdb.Del(ctx, CommonKey(code)).Err()
}

// RemovePartyGames drops every cache entry tied to a deleted party.
func (s *Snapshots) RemovePartyGames(ctx context.Context, code string, steamIDs []string) error {
	keys := make([]string, 0, len(steamIDs)+1)
	keys = append(keys, CommonKey(code))
	for _, steamID := range steamIDs {
		keys = append(keys, OwnedKey(code, steamID))
	}

	return s.rdb.Del(ctx, keys...).Err()
}
