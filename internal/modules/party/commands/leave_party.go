package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/squadpick/squadpick-go/internal/modules/core"
	"github.com/squadpick/squadpick-go/internal/modules/party"
	"github.com/squadpick/squadpick-go/internal/modules/party/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

// GameCacheCleaner additionally removes every per-member game snapshot when
// the party itself goes away.
type GameCacheCleaner interface {
	GameCacheInvalidator
	RemovePartyGames(ctx context.Context, code string, steamIDs []string) error
}

type LeavePartyCommand struct {
	Code    string
	SteamID string
}

func (c LeavePartyCommand) Validate() error {
	if !domain.ValidCode(c.Code) {
		return fmt.Errorf("invalid join code - '%s'", c.Code)
	}

	if c.SteamID == "" {
		return fmt.Errorf("invalid SteamID - '%s'", c.SteamID)
	}

	return nil
}

type LeavePartyResponse struct {
	Deleted bool          `json:"deleted"`
	Party   *domain.Party `json:"party,omitempty"`
}

func HandleLeaveParty(w http.ResponseWriter, r *http.Request) {
	command := LeavePartyCommand{
		Code:    domain.NormalizeCode(chi.URLParam(r, "code")),
		SteamID: core.Session(r.Context()).SteamID,
	}

	response, err := mediator.Send[LeavePartyCommand, LeavePartyResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type LeavePartyCommandHandler struct {
	store *party.Store
	games GameCacheCleaner
}

func NewLeavePartyCommandHandler(store *party.Store, games GameCacheCleaner) *LeavePartyCommandHandler {
	return &LeavePartyCommandHandler{store, games}
}

func (h *LeavePartyCommandHandler) Handle(
	ctx context.Context,
	request LeavePartyCommand,
) (LeavePartyResponse, error) {
	var memberIDs []string

	p, err := h.store.Update(ctx, request.Code, func(p *domain.Party) error {
		memberIDs = p.MemberIDs()
		p.Leave(request.SteamID)
		return nil
	})
	if err != nil {
		return LeavePartyResponse{}, storeError(err)
	}

	if len(p.Members) == 0 {
		if err := h.games.RemovePartyGames(ctx, request.Code, memberIDs); err != nil {
			return LeavePartyResponse{}, err
		}
		return LeavePartyResponse{Deleted: true}, nil
	}

	if err := h.games.InvalidateCommon(ctx, request.Code); err != nil {
		return LeavePartyResponse{}, err
	}

	return LeavePartyResponse{Party: &p}, nil
}
