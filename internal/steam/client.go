package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrCatalogUnavailable = errors.New("steam catalog unavailable")
	ErrProfileNotFound    = errors.New("steam profile not found")
)

const (
	defaultAPIBase   = "https://api.steampowered.com"
	defaultStoreBase = "https://store.steampowered.com"

	communityLoginURL = "https://steamcommunity.com/openid/login"
)

// Category IDs Steam uses for anything multiplayer: Multi-player, Co-op,
// MMO, Cross-Platform Multiplayer, Online Multi-Player, Local Multi-Player,
// Online Co-op, Local Co-op, LAN Co-op, LAN PvP, PvP.
var multiplayerCategories = map[int]struct{}{
	1: {}, 9: {}, 20: {}, 27: {}, 36: {}, 37: {}, 38: {}, 39: {}, 47: {}, 48: {}, 49: {},
}

// genreMap collapses Steam's raw genre descriptions into the fixed set the
// voting UI presents. Unlisted genres pass through unchanged.
var genreMap = map[string]string{
	"Action":                "Action",
	"Adventure":             "Adventure",
	"Casual":                "Casual",
	"Indie":                 "Indie",
	"Massively Multiplayer": "MMO",
	"Racing":                "Racing",
	"RPG":                   "RPG",
	"Simulation":            "Simulation",
	"Sports":                "Sports",
	"Strategy":              "Strategy",
	"Free to Play":          "Free to Play",
	"Early Access":          "Early Access",
	"Violent":               "Action",
	"Gore":                  "Action",
}

type OwnedGame struct {
	AppID int    `json:"appId"`
	Name  string `json:"name"`
}

type PlayerSummary struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
	AvatarFull  string `json:"avatarfull"`
}

type AppDetails struct {
	IsMultiplayer bool
	Genres        []string
}

type ClientOption func(*Client)

func WithAPIBase(base string) ClientOption {
	return func(c *Client) {
		c.apiBase = base
	}
}

func WithStoreBase(base string) ClientOption {
	return func(c *Client) {
		c.storeBase = base
	}
}

func WithLoginBase(base string) ClientOption {
	return func(c *Client) {
		c.loginBase = base
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// Client talks to the Steam Web API and the storefront. It does no caching
// and no retries - callers own both policies.
type Client struct {
	apiKey    string
	apiBase   string
	storeBase string
	loginBase string
	http      *http.Client
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	client := Client{
		apiKey:    apiKey,
		apiBase:   defaultAPIBase,
		storeBase: defaultStoreBase,
		loginBase: communityLoginURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(&client)
	}

	return &client
}

func (c *Client) GetOwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("steamid", steamID)
	query.Set("include_appinfo", "true")
	query.Set("include_played_free_games", "true")
	query.Set("format", "json")

	endpoint := fmt.Sprintf("%s/IPlayerService/GetOwnedGames/v1/?%s", c.apiBase, query.Encode())

	var payload struct {
		Response struct {
			Games []struct {
				AppID int    `json:"appid"`
				Name  string `json:"name"`
			} `json:"games"`
		} `json:"response"`
	}

	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch owned games: %w", err)
	}

	games := make([]OwnedGame, 0, len(payload.Response.Games))
	for _, g := range payload.Response.Games {
		games = append(games, OwnedGame{AppID: g.AppID, Name: g.Name})
	}

	return games, nil
}

func (c *Client) GetPlayerSummary(ctx context.Context, steamID string) (*PlayerSummary, error) {
	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("steamids", steamID)

	endpoint := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v2/?%s", c.apiBase, query.Encode())

	var payload struct {
		Response struct {
			Players []PlayerSummary `json:"players"`
		} `json:"response"`
	}

	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch player summary: %w", err)
	}

	if len(payload.Response.Players) == 0 {
		return nil, ErrProfileNotFound
	}

	return &payload.Response.Players[0], nil
}

// GetAppDetails resolves multiplayer categories and normalized genres for a
// single app. A nil result with a nil error means the storefront had nothing
// usable - the caller decides what to do with that.
func (c *Client) GetAppDetails(ctx context.Context, appID int) (*AppDetails, error) {
	endpoint := fmt.Sprintf("%s/api/appdetails?appids=%d", c.storeBase, appID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var payload map[string]struct {
		Success bool `json:"success"`
		Data    struct {
			Categories []struct {
				ID int `json:"id"`
			} `json:"categories"`
			Genres []struct {
				Description string `json:"description"`
			} `json:"genres"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, nil
	}

	entry, found := payload[strconv.Itoa(appID)]
	if !found || !entry.Success {
		return nil, nil
	}

	details := AppDetails{}
	for _, category := range entry.Data.Categories {
		if _, ok := multiplayerCategories[category.ID]; ok {
			details.IsMultiplayer = true
			break
		}
	}

	seen := map[string]struct{}{}
	for _, genre := range entry.Data.Genres {
		normalized := genre.Description
		if mapped, ok := genreMap[genre.Description]; ok {
			normalized = mapped
		}

		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		details.Genres = append(details.Genres, normalized)
	}

	return &details, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
