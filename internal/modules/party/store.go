package party

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/squadpick/squadpick-go/internal/modules/party/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// TTL is the party inactivity window. Every successful write pushes
	// expiry out by this much again.
	TTL = 2 * time.Hour

	maxUpdateRetries = 5
)

var (
	ErrNotFound   = errors.New("party not found")
	ErrCodeExists = errors.New("party code already in use")
	ErrConflict   = errors.New("party was modified concurrently")
)

func Key(code string) string {
	return "party:" + code
}

// Store keeps party records in Redis as wholesale JSON values. Mutations run
// under WATCH so concurrent writers retry instead of silently overwriting
// each other.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Create(ctx context.Context, party domain.Party) error {
	data, err := json.Marshal(party)
	if err != nil {
		return err
	}

	created, err := s.rdb.SetNX(ctx, Key(party.Code), data, TTL).Result()
	if err != nil {
		return fmt.Errorf("create party %s: %w", party.Code, err)
	}

	if !created {
		return ErrCodeExists
	}

	return nil
}

func (s *Store) Get(ctx context.Context, code string) (domain.Party, error) {
	raw, err := s.rdb.Get(ctx, Key(code)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.Party{}, ErrNotFound
	}
	if err != nil {
		return domain.Party{}, fmt.Errorf("get party %s: %w", code, err)
	}

	var party domain.Party
	if err := json.Unmarshal([]byte(raw), &party); err != nil {
		return domain.Party{}, fmt.Errorf("decode party %s: %w", code, err)
	}

	return party, nil
}

// Update applies mutate to the current record inside an optimistic
// transaction and writes the result back with a refreshed TTL and a bumped
// version. A mutation that empties the member list deletes the record
// instead. Returns the party as written (empty members when deleted).
func (s *Store) Update(
	ctx context.Context,
	code string,
	mutate func(*domain.Party) error,
) (domain.Party, error) {
	key := Key(code)

	var result domain.Party

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Result()
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			if err != nil {
				return err
			}

			var party domain.Party
			if err := json.Unmarshal([]byte(raw), &party); err != nil {
				return fmt.Errorf("decode party %s: %w", code, err)
			}

			if err := mutate(&party); err != nil {
				return err
			}

			party.Version++

			data, err := json.Marshal(party)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if len(party.Members) == 0 {
					pipe.Del(ctx, key)
				} else {
					pipe.Set(ctx, key, data, TTL)
				}
				return nil
			})
			if err != nil {
				return err
			}

			result = party
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Party{}, err
		}

		return result, nil
	}

	return domain.Party{}, ErrConflict
}

func (s *Store) Delete(ctx context.Context, code string) error {
	return s.rdb.Del(ctx, Key(code)).Err()
}
