package server

import (
	"net"
	"net/http"
	"strconv"

	"github.com/squadpick/squadpick-go/internal/config"
	"github.com/squadpick/squadpick-go/internal/modules/auth"
	authcommands "github.com/squadpick/squadpick-go/internal/modules/auth/commands"
	"github.com/squadpick/squadpick-go/internal/modules/core"
	"github.com/squadpick/squadpick-go/internal/modules/games"
	gamescommands "github.com/squadpick/squadpick-go/internal/modules/games/commands"
	gamesdomain "github.com/squadpick/squadpick-go/internal/modules/games/domain"
	gamesqueries "github.com/squadpick/squadpick-go/internal/modules/games/queries"
	"github.com/squadpick/squadpick-go/internal/modules/party"
	partycommands "github.com/squadpick/squadpick-go/internal/modules/party/commands"
	partydomain "github.com/squadpick/squadpick-go/internal/modules/party/domain"
	partyqueries "github.com/squadpick/squadpick-go/internal/modules/party/queries"
	"github.com/squadpick/squadpick-go/internal/steam"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"
)

type Server interface {
	Start() error
	Stop() error
}

var _ Server = &HTTPServer{}

// HTTPServer acts as the composition root for the application.
type HTTPServer struct {
	server *http.Server
	rdb    *redis.Client
}

func NewHTTPServer(cfg config.Config) (Server, error) {
	core.SetLogger(cfg.Logger)

	redisOptions, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(redisOptions)

	steamClient := steam.NewClient(
		cfg.Steam.APIKey,
		steam.WithAPIBase(cfg.Steam.APIBase),
		steam.WithStoreBase(cfg.Steam.StoreBase),
	)

	partyStore := party.NewStore(rdb)
	snapshots := games.NewSnapshots(rdb)
	resolver := gamesdomain.NewResolver(
		games.NewSteamMetadataSource(steamClient),
		cfg.Steam.MetadataDelay,
		cfg.IncludeUnknownGames,
	)

	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: cfg.Logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: cfg.Logger}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	// handler registration

	// party

	err = mediator.RegisterRequestHandler[partycommands.CreatePartyCommand, partydomain.Party](
		partycommands.NewCreatePartyCommandHandler(partyStore),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[partycommands.JoinPartyCommand, partydomain.Party](
		partycommands.NewJoinPartyCommandHandler(partyStore, snapshots),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[partycommands.LeavePartyCommand, partycommands.LeavePartyResponse](
		partycommands.NewLeavePartyCommandHandler(partyStore, snapshots),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[partyqueries.GetPartyQuery, partydomain.Party](
		partyqueries.NewGetPartyQueryHandler(partyStore),
	)
	if err != nil {
		return nil, err
	}

	// games

	err = mediator.RegisterRequestHandler[gamescommands.LoadGamesCommand, gamescommands.LoadGamesResponse](
		gamescommands.NewLoadGamesCommandHandler(steamClient, snapshots, partyStore),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[gamescommands.VoteGenresCommand, gamescommands.VoteGenresResponse](
		gamescommands.NewVoteGenresCommandHandler(partyStore),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[gamesqueries.GetCommonGamesQuery, gamesqueries.GetCommonGamesResponse](
		gamesqueries.NewGetCommonGamesQueryHandler(partyStore, snapshots, resolver),
	)
	if err != nil {
		return nil, err
	}

	// auth

	err = mediator.RegisterRequestHandler[authcommands.LoginCommand, authcommands.LoginRedirect](
		authcommands.NewLoginCommandHandler(steamClient, cfg.AppURL),
	)
	if err != nil {
		return nil, err
	}

	err = mediator.RegisterRequestHandler[authcommands.CallbackCommand, authcommands.CallbackResult](
		authcommands.NewCallbackCommandHandler(steamClient),
	)
	if err != nil {
		return nil, err
	}

	// http

	router := chi.NewRouter()
	router.Use(core.CorrelationIDHTTPMiddleware)

	router.Get("/auth/steam/login", authcommands.HandleLogin(cfg.AppURL))
	router.Get("/auth/steam/callback", authcommands.HandleCallback(cfg.AppURL, cfg.SecureCookies))
	router.Get("/auth/logout", authcommands.HandleLogout(cfg.AppURL))

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthenticationMiddleware())

		r.Post("/parties", partycommands.HandleCreateParty)
		r.Get("/parties/{code}", partyqueries.HandleGetParty)

		r.Put("/parties/{code}/actions/join", partycommands.HandleJoinParty)
		r.Put("/parties/{code}/actions/leave", partycommands.HandleLeaveParty)
		r.Put("/parties/{code}/actions/votes", gamescommands.HandleVoteGenres)

		r.Post("/parties/{code}/actions/load-games", gamescommands.HandleLoadGames)
		r.Get("/parties/{code}/common-games", gamesqueries.HandleGetCommonGames)
	})

	server := &http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(cfg.Port)),
		Handler: router,
	}

	return &HTTPServer{server: server, rdb: rdb}, nil
}

func (s *HTTPServer) Start() error {
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop() error {
	if err := s.server.Close(); err != nil {
		return err
	}

	return s.rdb.Close()
}
