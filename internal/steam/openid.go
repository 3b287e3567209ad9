package steam

import (
	"net/url"
	"regexp"
)

const openidNS = "http://specs.openid.net/auth/2.0"

var claimedIDPattern = regexp.MustCompile(`/openid/id/(\d+)`)

// LoginURL builds the OpenID 2.0 checkid_setup redirect to the Steam
// community login page. returnTo must be the absolute callback URL.
func (c *Client) LoginURL(returnTo *url.URL) string {
	realm := url.URL{Scheme: returnTo.Scheme, Host: returnTo.Host}

	params := url.Values{}
	params.Set("openid.ns", openidNS)
	params.Set("openid.mode", "checkid_setup")
	params.Set("openid.return_to", returnTo.String())
	params.Set("openid.realm", realm.String())
	params.Set("openid.identity", openidNS+"/identifier_select")
	params.Set("openid.claimed_id", openidNS+"/identifier_select")

	return c.loginBase + "?" + params.Encode()
}

// ExtractSteamID pulls the numeric account ID out of an OpenID claimed-id
// URL. Returns the empty string when the URL does not match.
func ExtractSteamID(claimedID string) string {
	match := claimedIDPattern.FindStringSubmatch(claimedID)
	if match == nil {
		return ""
	}
	return match[1]
}
