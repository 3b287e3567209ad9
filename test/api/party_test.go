package main

import (
	"net/http"
	"strings"
	"testing"

	authdomain "github.com/squadpick/squadpick-go/internal/modules/auth/domain"
	partydomain "github.com/squadpick/squadpick-go/internal/modules/party/domain"

	"github.com/stretchr/testify/require"
)

type partyEnvelope struct {
	Party partydomain.Party `json:"party"`
}

func createParty(t *testing.T, host authdomain.Session) partydomain.Party {
	t.Helper()

	resp, envelope := sendAuthenticated[partyEnvelope](t, host, http.MethodPost, "/parties", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return envelope.Party
}

func Test_CreateParty_Returns_Party_With_Host_As_Only_Member(t *testing.T) {
	// Arrange
	host := newSession()

	// Act
	resp, envelope := sendAuthenticated[partyEnvelope](t, host, http.MethodPost, "/parties", nil)

	// Assert
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Location"))

	party := envelope.Party
	require.True(t, partydomain.ValidCode(party.Code))
	require.Equal(t, host.SteamID, party.HostSteamID)

	require.Len(t, party.Members, 1)
	require.Equal(t, host.SteamID, party.Members[0].SteamID)
	require.Equal(t, host.DisplayName, party.Members[0].DisplayName)
	require.False(t, party.Members[0].GamesLoaded)
}

func Test_CreateParty_Requires_Authentication(t *testing.T) {
	// Act
	resp, err := fixture.client.Post(fixture.baseURL+"/parties", "application/json", nil)

	// Assert
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_GetParty_Returns_Party_By_Code(t *testing.T) {
	// Arrange
	host := newSession()
	created := createParty(t, host)

	// Act
	resp, envelope := sendAuthenticated[partyEnvelope](t, host, http.MethodGet, "/parties/"+created.Code, nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created.Code, envelope.Party.Code)
	require.Len(t, envelope.Party.Members, 1)
}

func Test_GetParty_Accepts_Lowercase_Code(t *testing.T) {
	// Arrange
	host := newSession()
	created := createParty(t, host)

	// Act
	resp, envelope := sendAuthenticated[partyEnvelope](
		t,
		host,
		http.MethodGet,
		"/parties/"+strings.ToLower(created.Code),
		nil,
	)

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, created.Code, envelope.Party.Code)
}

func Test_GetParty_Returns_404_For_Unknown_Code(t *testing.T) {
	// Arrange
	session := newSession()

	// Act
	resp, _ := sendAuthenticated[partyEnvelope](t, session, http.MethodGet, "/parties/ZZZZZ9", nil)

	// Assert
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_JoinParty_Adds_Member_Once(t *testing.T) {
	// Arrange
	host := newSession()
	member := newSession()
	created := createParty(t, host)

	joinPath := "/parties/" + created.Code + "/actions/join"

	// Act
	resp, envelope := sendAuthenticated[partyEnvelope](t, member, http.MethodPut, joinPath, nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, envelope.Party.Members, 2)

	// Act - joining again is a no-op
	resp, envelope = sendAuthenticated[partyEnvelope](t, member, http.MethodPut, joinPath, nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, envelope.Party.Members, 2)
	require.Equal(t, host.SteamID, envelope.Party.HostSteamID)
}

func Test_JoinParty_Returns_404_For_Unknown_Code(t *testing.T) {
	// Arrange
	member := newSession()

	// Act
	resp, _ := sendAuthenticated[partyEnvelope](t, member, http.MethodPut, "/parties/ZZZZZ9/actions/join", nil)

	// Assert
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type leaveResponse struct {
	Deleted bool               `json:"deleted"`
	Party   *partydomain.Party `json:"party"`
}

func Test_LeaveParty_Reassigns_Host_When_Host_Leaves(t *testing.T) {
	// Arrange
	host := newSession()
	member := newSession()
	created := createParty(t, host)

	resp, _ := sendAuthenticated[partyEnvelope](t, member, http.MethodPut, "/parties/"+created.Code+"/actions/join", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Act
	resp, left := sendAuthenticated[leaveResponse](t, host, http.MethodPut, "/parties/"+created.Code+"/actions/leave", nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, left.Deleted)
	require.NotNil(t, left.Party)
	require.Equal(t, member.SteamID, left.Party.HostSteamID)
	require.Len(t, left.Party.Members, 1)
}

func Test_LeaveParty_Deletes_Party_When_Last_Member_Leaves(t *testing.T) {
	// Arrange
	host := newSession()
	created := createParty(t, host)

	// Act
	resp, left := sendAuthenticated[leaveResponse](t, host, http.MethodPut, "/parties/"+created.Code+"/actions/leave", nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, left.Deleted)
	require.Nil(t, left.Party)

	resp, _ = sendAuthenticated[partyEnvelope](t, host, http.MethodGet, "/parties/"+created.Code, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
