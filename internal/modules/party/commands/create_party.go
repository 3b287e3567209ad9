package commands

import (
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/squadpick/squadpick-go/internal/modules/core"
	"github.com/squadpick/squadpick-go/internal/modules/party"
	"github.com/squadpick/squadpick-go/internal/modules/party/domain"

	"github.com/eskrenkovic/mediator-go"
)

// A freshly generated code can collide with a live party. The create
// handler regenerates up to this many times before giving up.
const codeGenerationAttempts = 10

type CreatePartyCommand struct {
	Host domain.Member
}

func (c CreatePartyCommand) Validate() error {
	if c.Host.SteamID == "" {
		return fmt.Errorf("invalid host SteamID - '%s'", c.Host.SteamID)
	}

	return nil
}

func HandleCreateParty(w http.ResponseWriter, r *http.Request) {
	session := core.Session(r.Context())

	command := CreatePartyCommand{
		Host: domain.Member{
			SteamID:     session.SteamID,
			DisplayName: session.DisplayName,
			AvatarURL:   session.AvatarURL,
		},
	}

	response, err := mediator.Send[CreatePartyCommand, domain.Party](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join(r.Host, "parties", response.Code)
	core.WriteCreated(w, r, location, map[string]interface{}{"party": response})
}

type CreatePartyCommandHandler struct {
	store *party.Store
}

func NewCreatePartyCommandHandler(store *party.Store) *CreatePartyCommandHandler {
	return &CreatePartyCommandHandler{store}
}

func (h *CreatePartyCommandHandler) Handle(
	ctx context.Context,
	request CreatePartyCommand,
) (domain.Party, error) {
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		p := domain.NewParty(domain.GenerateCode(), request.Host)

		err := h.store.Create(ctx, p)
		switch {
		case err == party.ErrCodeExists:
			continue
		case err != nil:
			return domain.Party{}, err
		}

		return p, nil
	}

	return domain.Party{}, core.NewCommandError(500, "failed to allocate a unique party code")
}
