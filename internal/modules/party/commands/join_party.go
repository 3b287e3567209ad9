package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/squadpick/squadpick-go/internal/modules/core"
	"github.com/squadpick/squadpick-go/internal/modules/party"
	"github.com/squadpick/squadpick-go/internal/modules/party/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

// GameCacheInvalidator drops the memoized common-game result for a party.
// Membership changes make the cached intersection stale.
type GameCacheInvalidator interface {
	InvalidateCommon(ctx context.Context, code string) error
}

type JoinPartyCommand struct {
	Code   string
	Member domain.Member
}

func (c JoinPartyCommand) Validate() error {
	if !domain.ValidCode(c.Code) {
		return fmt.Errorf("invalid join code - '%s'", c.Code)
	}

	if c.Member.SteamID == "" {
		return fmt.Errorf("invalid member SteamID - '%s'", c.Member.SteamID)
	}

	return nil
}

func HandleJoinParty(w http.ResponseWriter, r *http.Request) {
	session := core.Session(r.Context())

	command := JoinPartyCommand{
		Code: domain.NormalizeCode(chi.URLParam(r, "code")),
		Member: domain.Member{
			SteamID:     session.SteamID,
			DisplayName: session.DisplayName,
			AvatarURL:   session.AvatarURL,
		},
	}

	response, err := mediator.Send[JoinPartyCommand, domain.Party](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, map[string]interface{}{"party": response})
}

type JoinPartyCommandHandler struct {
	store *party.Store
	games GameCacheInvalidator
}

func NewJoinPartyCommandHandler(store *party.Store, games GameCacheInvalidator) *JoinPartyCommandHandler {
	return &JoinPartyCommandHandler{store, games}
}

func (h *JoinPartyCommandHandler) Handle(
	ctx context.Context,
	request JoinPartyCommand,
) (domain.Party, error) {
	joined := false

	p, err := h.store.Update(ctx, request.Code, func(p *domain.Party) error {
		joined = p.Join(request.Member)
		return nil
	})
	if err != nil {
		return domain.Party{}, storeError(err)
	}

	if joined {
		if err := h.games.InvalidateCommon(ctx, request.Code); err != nil {
			return domain.Party{}, err
		}
	}

	return p, nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, party.ErrNotFound):
		return core.NewCommandError(404, "party_not_found", core.WithReason(err.Error()))
	case errors.Is(err, party.ErrConflict):
		return core.NewCommandError(409, "party_conflict", core.WithReason(err.Error()))
	default:
		return err
	}
}
