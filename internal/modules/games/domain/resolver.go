package domain

import (
	"context"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Metadata struct {
	IsMultiplayer bool
	Genres        []string
}

// MetadataSource resolves per-game metadata. A nil result with a nil error
// means the upstream had nothing usable for the app.
type MetadataSource interface {
	Lookup(ctx context.Context, appID int) (*Metadata, error)
}

// Resolver computes the common multiplayer library of a party. Metadata
// lookups run sequentially with a fixed pause between calls to stay under
// the storefront's rate limit, so resolution cost grows linearly with the
// size of the intersection.
type Resolver struct {
	metadata MetadataSource
	delay    time.Duration

	// includeUnknown keeps candidates whose metadata lookup failed,
	// with an empty genre set. Favors showing a playable game over
	// hiding one.
	includeUnknown bool
}

func NewResolver(metadata MetadataSource, delay time.Duration, includeUnknown bool) *Resolver {
	return &Resolver{
		metadata:       metadata,
		delay:          delay,
		includeUnknown: includeUnknown,
	}
}

// Resolve intersects the members' libraries, keeps multiplayer titles, and
// returns them annotated with genres, name-sorted. The first list is the
// enumeration basis; output carries no duplicate app IDs.
func (r *Resolver) Resolve(ctx context.Context, lists [][]OwnedGame) ([]Game, error) {
	candidates := Intersect(lists)

	resolved := make([]Game, 0, len(candidates))
	for i, candidate := range candidates {
		if i > 0 && r.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.delay):
			}
		}

		metadata, err := r.metadata.Lookup(ctx, candidate.AppID)
		if err != nil || metadata == nil {
			if r.includeUnknown {
				resolved = append(resolved, Game{
					AppID:  candidate.AppID,
					Name:   candidate.Name,
					Genres: []string{},
				})
			}
			continue
		}

		if !metadata.IsMultiplayer {
			continue
		}

		genres := metadata.Genres
		if genres == nil {
			genres = []string{}
		}

		resolved = append(resolved, Game{
			AppID:  candidate.AppID,
			Name:   candidate.Name,
			Genres: genres,
		})
	}

	collator := collate.New(language.English)
	sort.Slice(resolved, func(i, j int) bool {
		return collator.CompareString(resolved[i].Name, resolved[j].Name) < 0
	})

	return resolved, nil
}

// Intersect returns the games present in every list, in first-list order,
// deduplicated by app ID.
func Intersect(lists [][]OwnedGame) []OwnedGame {
	if len(lists) == 0 {
		return nil
	}

	ownedByAll := func(appID int) bool {
		for _, list := range lists[1:] {
			owned := false
			for _, g := range list {
				if g.AppID == appID {
					owned = true
					break
				}
			}
			if !owned {
				return false
			}
		}
		return true
	}

	seen := map[int]struct{}{}
	common := make([]OwnedGame, 0)
	for _, g := range lists[0] {
		if _, dup := seen[g.AppID]; dup {
			continue
		}
		seen[g.AppID] = struct{}{}

		if ownedByAll(g.AppID) {
			common = append(common, g)
		}
	}

	return common
}
