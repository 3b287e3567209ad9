package domain

import (
	"math/rand"
	"sort"

	partydomain "github.com/squadpick/squadpick-go/internal/modules/party/domain"
)

// AggregateVotes unions every member's genre votes. A genre is in the
// result as soon as one member voted for it.
func AggregateVotes(p partydomain.Party) []string {
	seen := map[string]struct{}{}
	genres := make([]string, 0)

	for _, member := range p.Members {
		for _, genre := range member.GenreVotes {
			if _, dup := seen[genre]; dup {
				continue
			}
			seen[genre] = struct{}{}
			genres = append(genres, genre)
		}
	}

	sort.Strings(genres)
	return genres
}

// FilterByGenres narrows games to those matching at least one selected
// genre. An empty selection applies no filter, and games without genre data
// always survive.
func FilterByGenres(games []Game, selected []string) []Game {
	if len(selected) == 0 {
		return games
	}

	selectedSet := map[string]struct{}{}
	for _, genre := range selected {
		selectedSet[genre] = struct{}{}
	}

	filtered := make([]Game, 0, len(games))
	for _, game := range games {
		if len(game.Genres) == 0 {
			filtered = append(filtered, game)
			continue
		}

		for _, genre := range game.Genres {
			if _, ok := selectedSet[genre]; ok {
				filtered = append(filtered, game)
				break
			}
		}
	}

	return filtered
}

// ExtractAllGenres lists every genre present across the games, sorted, for
// presenting vote options.
func ExtractAllGenres(games []Game) []string {
	seen := map[string]struct{}{}
	genres := make([]string, 0)

	for _, game := range games {
		for _, genre := range game.Genres {
			if _, dup := seen[genre]; dup {
				continue
			}
			seen[genre] = struct{}{}
			genres = append(genres, genre)
		}
	}

	sort.Strings(genres)
	return genres
}

// PickRandom returns a uniformly random game, or nil for an empty list. The
// roll normally happens client-side; this backs the server-side fallback.
func PickRandom(games []Game) *Game {
	if len(games) == 0 {
		return nil
	}
	return &games[rand.Intn(len(games))]
}
