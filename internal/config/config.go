package config

import (
	"net/url"
	"time"

	"github.com/squadpick/squadpick-go/internal/env"

	"go.uber.org/zap"
)

const (
	PortEnv     = "PORT"
	RedisURLEnv = "REDIS_URL"
	AppURLEnv   = "APP_URL"

	SteamAPIKeyEnv    = "STEAM_API_KEY"
	SteamAPIBaseEnv   = "STEAM_API_BASE"
	SteamStoreBaseEnv = "STEAM_STORE_BASE"

	SecureCookiesEnv       = "SECURE_COOKIES"
	IncludeUnknownGamesEnv = "INCLUDE_UNKNOWN_GAMES"
	MetadataDelayEnv       = "STEAM_METADATA_DELAY"
)

const (
	defaultSteamAPIBase   = "https://api.steampowered.com"
	defaultSteamStoreBase = "https://store.steampowered.com"

	// Pacing between storefront metadata lookups. Steam rate-limits the
	// appdetails endpoint aggressively.
	defaultMetadataDelay = 200 * time.Millisecond
)

type SteamConfiguration struct {
	APIKey    string
	APIBase   string
	StoreBase string

	// MetadataDelay is the fixed wait between consecutive appdetails calls.
	MetadataDelay time.Duration
}

type Config struct {
	Logger *zap.Logger

	Port     int
	RedisURL string

	// AppURL is the externally visible base URL, used for OpenID return
	// URLs and error redirects.
	AppURL *url.URL

	Steam SteamConfiguration

	SecureCookies bool

	// IncludeUnknownGames keeps a common game in the resolver output when
	// its storefront metadata cannot be fetched.
	IncludeUnknownGames bool
}

func Load() (Config, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return Config{}, err
	}

	port := env.MustGetInt(PortEnv)
	redisURL := env.MustGetString(RedisURLEnv)
	appURL := env.MustGetURL(AppURLEnv)

	steam := SteamConfiguration{
		APIKey:        env.MustGetString(SteamAPIKeyEnv),
		APIBase:       env.GetStringOrDefault(SteamAPIBaseEnv, defaultSteamAPIBase),
		StoreBase:     env.GetStringOrDefault(SteamStoreBaseEnv, defaultSteamStoreBase),
		MetadataDelay: env.GetDurationOrDefault(MetadataDelayEnv, defaultMetadataDelay),
	}

	return Config{
		Logger:              logger,
		Port:                port,
		RedisURL:            redisURL,
		AppURL:              appURL,
		Steam:               steam,
		SecureCookies:       env.GetBoolOrDefault(SecureCookiesEnv, false),
		IncludeUnknownGames: env.GetBoolOrDefault(IncludeUnknownGamesEnv, true),
	}, nil
}
