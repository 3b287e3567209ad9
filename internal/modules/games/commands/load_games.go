package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/squadpick/squadpick-go/internal/modules/core"
	"github.com/squadpick/squadpick-go/internal/modules/games"
	gamesdomain "github.com/squadpick/squadpick-go/internal/modules/games/domain"
	"github.com/squadpick/squadpick-go/internal/modules/party"
	partydomain "github.com/squadpick/squadpick-go/internal/modules/party/domain"
	"github.com/squadpick/squadpick-go/internal/steam"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

// OwnedGamesSource is the slice of the catalog client the load flow needs.
type OwnedGamesSource interface {
	GetOwnedGames(ctx context.Context, steamID string) ([]steam.OwnedGame, error)
}

type LoadGamesCommand struct {
	Code    string
	SteamID string
}

func (c LoadGamesCommand) Validate() error {
	if !partydomain.ValidCode(c.Code) {
		return fmt.Errorf("invalid join code - '%s'", c.Code)
	}

	if c.SteamID == "" {
		return fmt.Errorf("invalid SteamID - '%s'", c.SteamID)
	}

	return nil
}

type LoadGamesResponse struct {
	GameCount int `json:"gameCount"`
}

func HandleLoadGames(w http.ResponseWriter, r *http.Request) {
	command := LoadGamesCommand{
		Code:    partydomain.NormalizeCode(chi.URLParam(r, "code")),
		SteamID: core.Session(r.Context()).SteamID,
	}

	response, err := mediator.Send[LoadGamesCommand, LoadGamesResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type LoadGamesCommandHandler struct {
	catalog   OwnedGamesSource
	snapshots *games.Snapshots
	parties   *party.Store
}

func NewLoadGamesCommandHandler(
	catalog OwnedGamesSource,
	snapshots *games.Snapshots,
	parties *party.Store,
) *LoadGamesCommandHandler {
	return &LoadGamesCommandHandler{catalog, snapshots, parties}
}

func (h *LoadGamesCommandHandler) Handle(
	ctx context.Context,
	request LoadGamesCommand,
) (LoadGamesResponse, error) {
	owned, err := h.catalog.GetOwnedGames(ctx, request.SteamID)
	if err != nil {
		return LoadGamesResponse{}, core.NewCommandError(
			502,
			"catalog_unavailable",
			core.WithReason(err.Error()),
		)
	}

	snapshot := core.Map(owned, func(g steam.OwnedGame) gamesdomain.OwnedGame {
		return gamesdomain.OwnedGame{AppID: g.AppID, Name: g.Name}
	})

	if err := h.snapshots.SaveOwned(ctx, request.Code, request.SteamID, snapshot); err != nil {
		return LoadGamesResponse{}, err
	}

	_, err = h.parties.Update(ctx, request.Code, func(p *partydomain.Party) error {
		if !p.SetGamesLoaded(request.SteamID) {
			return core.NewCommandError(404, "member_not_found")
		}
		return nil
	})
	if err != nil {
		return LoadGamesResponse{}, partyStoreError(err)
	}

	// A fresh snapshot can change the intersection.
	if err := h.snapshots.InvalidateCommon(ctx, request.Code); err != nil {
		return LoadGamesResponse{}, err
	}

	return LoadGamesResponse{GameCount: len(snapshot)}, nil
}

func partyStoreError(err error) error {
	switch {
	case errors.Is(err, party.ErrNotFound):
		return core.NewCommandError(404, "party_not_found", core.WithReason(err.Error()))
	case errors.Is(err, party.ErrConflict):
		return core.NewCommandError(409, "party_conflict", core.WithReason(err.Error()))
	default:
		return err
	}
}
