package commands

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/squadpick/squadpick-go/internal/modules/auth/domain"
	partydomain "github.com/squadpick/squadpick-go/internal/modules/party/domain"
	"github.com/squadpick/squadpick-go/internal/steam"

	"github.com/eskrenkovic/mediator-go"
)

// ProfileSource resolves a Steam ID into public profile data.
type ProfileSource interface {
	GetPlayerSummary(ctx context.Context, steamID string) (*steam.PlayerSummary, error)
}

type CallbackCommand struct {
	Mode      string
	ClaimedID string
	JoinCode  string
}

// CallbackResult carries either a session plus redirect target or one of
// the documented error codes - callback failures surface as redirects, not
// HTTP statuses.
type CallbackResult struct {
	Session      domain.Session
	RedirectPath []string
	ErrorCode    string
}

func HandleCallback(appURL *url.URL, secureCookies bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		joinCode := partydomain.NormalizeCode(query.Get("join"))
		if !partydomain.ValidCode(joinCode) {
			joinCode = ""
		}

		command := CallbackCommand{
			Mode:      query.Get("openid.mode"),
			ClaimedID: query.Get("openid.claimed_id"),
			JoinCode:  joinCode,
		}

		result, err := mediator.Send[CallbackCommand, CallbackResult](r.Context(), command)
		if err != nil {
			http.Redirect(w, r, ErrorRedirectURL(appURL, "auth_error"), http.StatusFound)
			return
		}

		if result.ErrorCode != "" {
			http.Redirect(w, r, ErrorRedirectURL(appURL, result.ErrorCode), http.StatusFound)
			return
		}

		cookie, err := domain.NewCookie(result.Session, secureCookies)
		if err != nil {
			http.Redirect(w, r, ErrorRedirectURL(appURL, "auth_error"), http.StatusFound)
			return
		}

		http.SetCookie(w, cookie)
		http.Redirect(w, r, appURL.JoinPath(result.RedirectPath...).String(), http.StatusFound)
	}
}

type CallbackCommandHandler struct {
	profiles ProfileSource
}

func NewCallbackCommandHandler(profiles ProfileSource) *CallbackCommandHandler {
	return &CallbackCommandHandler{profiles}
}

func (h *CallbackCommandHandler) Handle(
	ctx context.Context,
	request CallbackCommand,
) (CallbackResult, error) {
	if request.Mode != "id_res" {
		return CallbackResult{ErrorCode: "auth_failed"}, nil
	}

	if request.ClaimedID == "" {
		return CallbackResult{ErrorCode: "no_claimed_id"}, nil
	}

	steamID := steam.ExtractSteamID(request.ClaimedID)
	if steamID == "" {
		return CallbackResult{ErrorCode: "invalid_steam_id"}, nil
	}

	profile, err := h.profiles.GetPlayerSummary(ctx, steamID)
	switch {
	case errors.Is(err, steam.ErrProfileNotFound):
		return CallbackResult{ErrorCode: "profile_not_found"}, nil
	case err != nil:
		return CallbackResult{ErrorCode: "auth_error"}, nil
	}

	session := domain.Session{
		SteamID:     steamID,
		DisplayName: profile.PersonaName,
		AvatarURL:   profile.AvatarFull,
	}

	redirect := []string{"dashboard"}
	if request.JoinCode != "" {
		redirect = []string{"party", request.JoinCode}
	}

	return CallbackResult{Session: session, RedirectPath: redirect}, nil
}
