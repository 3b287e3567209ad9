package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"testing"

	authdomain "github.com/squadpick/squadpick-go/internal/modules/auth/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func randomSteamID() string {
	return fmt.Sprintf("7656119%010d", rand.Int63n(1e10))
}

func newSession() authdomain.Session {
	return authdomain.Session{
		SteamID:     randomSteamID(),
		DisplayName: uuid.New().String(),
		AvatarURL:   "https://avatars.example/" + uuid.New().String() + ".jpg",
	}
}

// sendAuthenticated issues a request carrying the given session's cookie and
// decodes the JSON response body into TResp. The raw response comes back for
// status and header assertions.
func sendAuthenticated[TResp any](
	t *testing.T,
	session authdomain.Session,
	method string,
	path string,
	body interface{},
) (*http.Response, TResp) {
	t.Helper()

	var decoded TResp

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, fixture.baseURL+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	cookie, err := authdomain.NewCookie(session, false)
	require.NoError(t, err)
	req.AddCookie(cookie)

	resp, err := fixture.client.Do(req)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if len(payload) > 0 {
		require.NoError(t, json.Unmarshal(payload, &decoded), "response body: %s", payload)
	}

	return resp, decoded
}
