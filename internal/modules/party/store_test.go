package party

import (
	"context"
	"testing"
	"time"

	"github.com/squadpick/squadpick-go/internal/modules/party/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	return NewStore(rdb), mr
}

func testParty(code string) domain.Party {
	return domain.NewParty(code, domain.Member{SteamID: "100", DisplayName: "host"})
}

func Test_Create_Stores_Party_With_TTL(t *testing.T) {
	// Arrange
	store, mr := newTestStore(t)

	// Act
	err := store.Create(context.Background(), testParty("AB12C3"))

	// Assert
	require.NoError(t, err)
	require.True(t, mr.Exists(Key("AB12C3")))
	require.Equal(t, TTL, mr.TTL(Key("AB12C3")))
}

func Test_Create_With_Taken_Code_Returns_ErrCodeExists(t *testing.T) {
	// Arrange
	store, _ := newTestStore(t)
	require.NoError(t, store.Create(context.Background(), testParty("AB12C3")))

	// Act
	err := store.Create(context.Background(), testParty("AB12C3"))

	// Assert
	require.ErrorIs(t, err, ErrCodeExists)
}

func Test_Get_Unknown_Code_Returns_ErrNotFound(t *testing.T) {
	// Arrange
	store, _ := newTestStore(t)

	// Act
	_, err := store.Get(context.Background(), "ZZZZZZ")

	// Assert
	require.ErrorIs(t, err, ErrNotFound)
}

func Test_Get_Roundtrips_Party(t *testing.T) {
	// Arrange
	store, _ := newTestStore(t)
	created := testParty("AB12C3")
	require.NoError(t, store.Create(context.Background(), created))

	// Act
	fetched, err := store.Get(context.Background(), "AB12C3")

	// Assert
	require.NoError(t, err)
	require.Equal(t, created.Code, fetched.Code)
	require.Equal(t, created.HostSteamID, fetched.HostSteamID)
	require.Equal(t, created.MemberIDs(), fetched.MemberIDs())
}

func Test_Update_Applies_Mutation_And_Bumps_Version(t *testing.T) {
	// Arrange
	store, _ := newTestStore(t)
	require.NoError(t, store.Create(context.Background(), testParty("AB12C3")))

	// Act
	updated, err := store.Update(context.Background(), "AB12C3", func(p *domain.Party) error {
		p.Join(domain.Member{SteamID: "200"})
		return nil
	})

	// Assert
	require.NoError(t, err)
	require.Equal(t, int64(1), updated.Version)
	require.Equal(t, []string{"100", "200"}, updated.MemberIDs())

	fetched, err := store.Get(context.Background(), "AB12C3")
	require.NoError(t, err)
	require.Equal(t, updated.MemberIDs(), fetched.MemberIDs())
}

func Test_Update_Refreshes_TTL(t *testing.T) {
	// Arrange
	store, mr := newTestStore(t)
	require.NoError(t, store.Create(context.Background(), testParty("AB12C3")))

	mr.FastForward(1 * time.Hour)

	// Act
	_, err := store.Update(context.Background(), "AB12C3", func(p *domain.Party) error {
		p.SetGamesLoaded("100")
		return nil
	})

	// Assert
	require.NoError(t, err)
	require.Equal(t, TTL, mr.TTL(Key("AB12C3")))
}

func Test_Update_Emptying_Members_Deletes_Record(t *testing.T) {
	// Arrange
	store, mr := newTestStore(t)
	require.NoError(t, store.Create(context.Background(), testParty("AB12C3")))

	// Act
	updated, err := store.Update(context.Background(), "AB12C3", func(p *domain.Party) error {
		p.Leave("100")
		return nil
	})

	// Assert
	require.NoError(t, err)
	require.Empty(t, updated.Members)
	require.False(t, mr.Exists(Key("AB12C3")))
}

func Test_Update_Unknown_Code_Returns_ErrNotFound(t *testing.T) {
	// Arrange
	store, _ := newTestStore(t)

	// Act
	_, err := store.Update(context.Background(), "ZZZZZZ", func(p *domain.Party) error {
		return nil
	})

	// Assert
	require.ErrorIs(t, err, ErrNotFound)
}

func Test_Update_Propagates_Mutation_Error(t *testing.T) {
	// Arrange
	store, _ := newTestStore(t)
	require.NoError(t, store.Create(context.Background(), testParty("AB12C3")))

	wantErr := context.DeadlineExceeded

	// Act
	_, err := store.Update(context.Background(), "AB12C3", func(p *domain.Party) error {
		return wantErr
	})

	// Assert
	require.ErrorIs(t, err, wantErr)
}

func Test_Party_Expires_After_TTL(t *testing.T) {
	// Arrange
	store, mr := newTestStore(t)
	require.NoError(t, store.Create(context.Background(), testParty("AB12C3")))

	// Act
	mr.FastForward(TTL + time.Second)

	// Assert
	_, err := store.Get(context.Background(), "AB12C3")
	require.ErrorIs(t, err, ErrNotFound)
}
