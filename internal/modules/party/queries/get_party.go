package queries

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

type GetPartyQuery struct {
	Code string
}

func (q GetPartyQuery) Validate() error {
	if !domain.ValidCode(q.Code) {
		return fmt.Errorf("invalid join code - '%s'", q.Code)
	}

	return nil
}

func HandleGetParty(w http.ResponseWriter, r *http.Request) {
	query := GetPartyQuery{Code: domain.NormalizeCode(chi.URLParam(r, "code"))}

	response, err := mediator.Send[GetPartyQuery, domain.Party](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, map[string]interface{}{"party": response})
}

type GetPartyQueryHandler struct {
	store *party.Store
}

func NewGetPartyQueryHandler(store *party.Store) *GetPartyQueryHandler {
	return &GetPartyQueryHandler{store}
}

func (h *GetPartyQueryHandler) Handle(
	ctx context.Context,
	request GetPartyQuery,
) (domain.Party, error) {
	p, err := h.store.Get(ctx, request.Code)
	if errors.Is(err, party.ErrNotFound) {
		return domain.Party{}, core.NewCommandError(404, "party_not_found", core.WithReason(err.Error()))
	}
	if err != nil {
		return domain.Party{}, err
	}

	return p, nil
}
