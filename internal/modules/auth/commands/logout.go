package commands

import (
	"net/http"
	"net/url"

	"github.com/squadpick/squadpick-go/internal/modules/auth/domain"
)

func HandleLogout(appURL *url.URL) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, domain.ExpiredCookie())
		http.Redirect(w, r, appURL.String(), http.StatusFound)
	}
}
