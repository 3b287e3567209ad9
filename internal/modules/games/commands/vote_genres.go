package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/squadpick/squadpick-go/internal/modules/core"
	"github.com/squadpick/squadpick-go/internal/modules/party"
	partydomain "github.com/squadpick/squadpick-go/internal/modules/party/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
)

type VoteGenresCommand struct {
	Code    string
	SteamID string
	Genres  []string
}

func (c VoteGenresCommand) Validate() error {
	if !partydomain.ValidCode(c.Code) {
		return fmt.Errorf("invalid join code - '%s'", c.Code)
	}

	if c.SteamID == "" {
		return fmt.Errorf("invalid SteamID - '%s'", c.SteamID)
	}

	if c.Genres == nil {
		return fmt.Errorf("genres must be a list")
	}

	return nil
}

type MemberVotes struct {
	SteamID     string   `json:"steamId"`
	DisplayName string   `json:"displayName"`
	GenreVotes  []string `json:"genreVotes"`
}

type VoteGenresResponse struct {
	Votes []MemberVotes `json:"votes"`
}

type voteGenresRequest struct {
	Genres []string `json:"genres"`
}

func HandleVoteGenres(w http.ResponseWriter, r *http.Request) {
	body, err := core.RequestBody[voteGenresRequest](r)
	if err != nil {
		core.WriteBadRequest(w, r, map[string]string{"error": "malformed request body"})
		return
	}

	command := VoteGenresCommand{
		Code:    partydomain.NormalizeCode(chi.URLParam(r, "code")),
		SteamID: core.Session(r.Context()).SteamID,
		Genres:  body.Genres,
	}

	response, err := mediator.Send[VoteGenresCommand, VoteGenresResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type VoteGenresCommandHandler struct {
	parties *party.Store
}

func NewVoteGenresCommandHandler(parties *party.Store) *VoteGenresCommandHandler {
	return &VoteGenresCommandHandler{parties}
}

func (h *VoteGenresCommandHandler) Handle(
	ctx context.Context,
	request VoteGenresCommand,
) (VoteGenresResponse, error) {
	p, err := h.parties.Update(ctx, request.Code, func(p *partydomain.Party) error {
		if !p.SetGenreVotes(request.SteamID, request.Genres) {
			return core.NewCommandError(404, "member_not_found")
		}
		return nil
	})
	if err != nil {
		return VoteGenresResponse{}, partyStoreError(err)
	}

	votes := core.Map(p.Members, func(m partydomain.Member) MemberVotes {
		genreVotes := m.GenreVotes
		if genreVotes == nil {
			genreVotes = []string{}
		}

		return MemberVotes{
			SteamID:     m.SteamID,
			DisplayName: m.DisplayName,
			GenreVotes:  genreVotes,
		}
	})

	return VoteGenresResponse{Votes: votes}, nil
}
