package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/squadpick/squadpick-go/internal/steam"
)

type upstreamApp struct {
	Multiplayer bool
	Genres      []string
}

// fakeSteam stands in for both the Steam Web API and the storefront.
// Tests register libraries, profiles, and app metadata up front.
type fakeSteam struct {
	mu        sync.Mutex
	libraries map[string][]steam.OwnedGame
	profiles  map[string]steam.PlayerSummary
	apps      map[int]upstreamApp
	failures  map[string]bool
}

func newFakeSteam() *fakeSteam {
	return &fakeSteam{
		libraries: map[string][]steam.OwnedGame{},
		profiles:  map[string]steam.PlayerSummary{},
		apps:      map[int]upstreamApp{},
		failures:  map[string]bool{},
	}
}

func (s *fakeSteam) registerLibrary(steamID string, games []steam.OwnedGame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.libraries[steamID] = games
}

func (s *fakeSteam) registerProfile(profile steam.PlayerSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.SteamID] = profile
}

func (s *fakeSteam) registerApp(appID int, multiplayer bool, genres ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[appID] = upstreamApp{Multiplayer: multiplayer, Genres: genres}
}

// registerFailure makes GetOwnedGames calls for the given account fail with
// an upstream error.
func (s *fakeSteam) registerFailure(steamID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[steamID] = true
}

func (s *fakeSteam) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/IPlayerService/GetOwnedGames/v1/", s.handleOwnedGames)
	mux.HandleFunc("/ISteamUser/GetPlayerSummaries/v2/", s.handlePlayerSummaries)
	mux.HandleFunc("/api/appdetails", s.handleAppDetails)
	return mux
}

func (s *fakeSteam) handleOwnedGames(w http.ResponseWriter, r *http.Request) {
	steamID := r.URL.Query().Get("steamid")

	s.mu.Lock()
	failing := s.failures[steamID]
	library := s.libraries[steamID]
	s.mu.Unlock()

	if failing {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	games := make([]map[string]interface{}, 0, len(library))
	for _, g := range library {
		games = append(games, map[string]interface{}{"appid": g.AppID, "name": g.Name})
	}

	writeJSON(w, map[string]interface{}{
		"response": map[string]interface{}{
			"game_count": len(games),
			"games":      games,
		},
	})
}

func (s *fakeSteam) handlePlayerSummaries(w http.ResponseWriter, r *http.Request) {
	steamID := r.URL.Query().Get("steamids")

	s.mu.Lock()
	profile, found := s.profiles[steamID]
	s.mu.Unlock()

	players := []steam.PlayerSummary{}
	if found {
		players = append(players, profile)
	}

	writeJSON(w, map[string]interface{}{
		"response": map[string]interface{}{"players": players},
	})
}

func (s *fakeSteam) handleAppDetails(w http.ResponseWriter, r *http.Request) {
	appID, err := strconv.Atoi(r.URL.Query().Get("appids"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	app, found := s.apps[appID]
	s.mu.Unlock()

	key := strconv.Itoa(appID)

	if !found {
		writeJSON(w, map[string]interface{}{
			key: map[string]interface{}{"success": false},
		})
		return
	}

	categoryID := 2
	if app.Multiplayer {
		categoryID = 1
	}

	genres := make([]map[string]string, 0, len(app.Genres))
	for _, genre := range app.Genres {
		genres = append(genres, map[string]string{"description": genre})
	}

	writeJSON(w, map[string]interface{}{
		key: map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"categories": []map[string]int{{"id": categoryID}},
				"genres":     genres,
			},
		},
	})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		fmt.Println(err)
	}
}
