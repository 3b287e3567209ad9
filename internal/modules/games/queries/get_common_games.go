package queries

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/squadpick/squadpick-go/internal/modules/core"
	"github.com/squadpick/squadpick-go/internal/modules/games"
	"github.com/squadpick/squadpick-go/internal/modules/games/domain"
	"github.com/squadpick/squadpick-go/internal/modules/party"
	partydomain "github.com/squadpick/squadpick-go/internal/modules/party/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

type GetCommonGamesQuery struct {
	Code string

	// Pick additionally rolls one game from the filtered set. The client
	// usually rolls on its own - this is for clients that want the server
	// to do it.
	Pick bool
}

func (q GetCommonGamesQuery) Validate() error {
	if !partydomain.ValidCode(q.Code) {
		return fmt.Errorf("invalid join code - '%s'", q.Code)
	}

	return nil
}

type GetCommonGamesResponse struct {
	Ready  bool          `json:"ready"`
	Loaded int           `json:"loaded"`
	Total  int           `json:"total"`
	Games  []domain.Game `json:"games,omitempty"`
	Genres []string      `json:"genres,omitempty"`
	Count  int           `json:"count"`
	Pick   *domain.Game  `json:"pick,omitempty"`
}

func HandleGetCommonGames(w http.ResponseWriter, r *http.Request) {
	query := GetCommonGamesQuery{
		Code: partydomain.NormalizeCode(chi.URLParam(r, "code")),
		Pick: r.URL.Query().Get("pick") == "true",
	}

	response, err := mediator.Send[GetCommonGamesQuery, GetCommonGamesResponse](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetCommonGamesQueryHandler struct {
	parties   *party.Store
	snapshots *games.Snapshots
	resolver  *domain.Resolver
}

func NewGetCommonGamesQueryHandler(
	parties *party.Store,
	snapshots *games.Snapshots,
	resolver *domain.Resolver,
) *GetCommonGamesQueryHandler {
	return &GetCommonGamesQueryHandler{parties, snapshots, resolver}
}

func (h *GetCommonGamesQueryHandler) Handle(
	ctx context.Context,
	request GetCommonGamesQuery,
) (GetCommonGamesResponse, error) {
	p, err := h.parties.Get(ctx, request.Code)
	if errors.Is(err, party.ErrNotFound) {
		return GetCommonGamesResponse{}, core.NewCommandError(404, "party_not_found", core.WithReason(err.Error()))
	}
	if err != nil {
		return GetCommonGamesResponse{}, err
	}

	if !p.AllGamesLoaded() {
		return GetCommonGamesResponse{
			Ready:  false,
			Loaded: p.LoadedCount(),
			Total:  len(p.Members),
		}, nil
	}

	common, found, err := h.snapshots.GetCommon(ctx, request.Code)
	if err != nil {
		return GetCommonGamesResponse{}, err
	}

	if !found {
		lists := make([][]domain.OwnedGame, 0, len(p.Members))
		available := 0

		for _, member := range p.Members {
			owned, ok, err := h.snapshots.GetOwned(ctx, request.Code, member.SteamID)
			if err != nil {
				return GetCommonGamesResponse{}, err
			}
			if !ok {
				// Snapshot expired between the loaded flag and now -
				// report progress, the member has to reload.
				continue
			}

			available++
			lists = append(lists, owned)
		}

		if available != len(p.Members) {
			return GetCommonGamesResponse{
				Ready:  false,
				Loaded: available,
				Total:  len(p.Members),
			}, nil
		}

		common, err = h.resolver.Resolve(ctx, lists)
		if err != nil {
			return GetCommonGamesResponse{}, err
		}

		if err := h.snapshots.SaveCommon(ctx, request.Code, common); err != nil {
			return GetCommonGamesResponse{}, err
		}
	}

	filtered := domain.FilterByGenres(common, domain.AggregateVotes(p))

	response := GetCommonGamesResponse{
		Ready:  true,
		Loaded: len(p.Members),
		Total:  len(p.Members),
		Games:  filtered,
		Genres: domain.ExtractAllGenres(common),
		Count:  len(filtered),
	}

	if request.Pick {
		response.Pick = domain.PickRandom(filtered)
	}

	return response, nil
}
