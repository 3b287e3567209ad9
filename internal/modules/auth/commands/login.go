package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/squadpick/squadpick-go/internal/modules/core"
	partydomain "github.com/squadpick/squadpick-go/internal/modules/party/domain"

	"github.com/eskrenkovic/mediator-go"
)

// LoginURLBuilder builds the identity provider's authorization redirect for
// a given callback URL.
type LoginURLBuilder interface {
	LoginURL(returnTo *url.URL) string
}

type LoginCommand struct {
	// JoinCode optionally rides through the identity round trip so the
	// member lands directly in a party after authenticating. Empty or
	// already-normalized.
	JoinCode string
}

func (c LoginCommand) Validate() error {
	if c.JoinCode != "" && !partydomain.ValidCode(c.JoinCode) {
		return fmt.Errorf("invalid join code - '%s'", c.JoinCode)
	}

	return nil
}

type LoginRedirect struct {
	URL string
}

// HandleLogin starts the Steam OpenID round trip. A malformed join code is
// rejected here, before any redirect to the identity provider happens.
func HandleLogin(appURL *url.URL) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		joinCode := r.URL.Query().Get("join")
		if joinCode != "" {
			joinCode = partydomain.NormalizeCode(joinCode)
			if !partydomain.ValidCode(joinCode) {
				http.Redirect(w, r, ErrorRedirectURL(appURL, "invalid_code"), http.StatusFound)
				return
			}
		}

		response, err := mediator.Send[LoginCommand, LoginRedirect](r.Context(), LoginCommand{JoinCode: joinCode})
		if err != nil {
			core.WriteCommandError(w, r, err)
			return
		}

		http.Redirect(w, r, response.URL, http.StatusFound)
	}
}

type LoginCommandHandler struct {
	steam  LoginURLBuilder
	appURL *url.URL
}

func NewLoginCommandHandler(steam LoginURLBuilder, appURL *url.URL) *LoginCommandHandler {
	return &LoginCommandHandler{steam, appURL}
}

func (h *LoginCommandHandler) Handle(
	ctx context.Context,
	request LoginCommand,
) (LoginRedirect, error) {
	returnTo := h.appURL.JoinPath("auth", "steam", "callback")

	if request.JoinCode != "" {
		query := returnTo.Query()
		query.Set("join", request.JoinCode)
		returnTo.RawQuery = query.Encode()
	}

	return LoginRedirect{URL: h.steam.LoginURL(returnTo)}, nil
}

// ErrorRedirectURL points the browser back home with one of the documented
// error query values.
func ErrorRedirectURL(appURL *url.URL, code string) string {
	u := *appURL
	query := u.Query()
	query.Set("error", code)
	u.RawQuery = query.Encode()
	return u.String()
}
