package games

import (
	"context"
	"testing"
	"time"

	"github.com/squadpick/squadpick-go/internal/modules/games/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestSnapshots(t *testing.T) (*Snapshots, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	return NewSnapshots(rdb), mr
}

func Test_SaveOwned_Roundtrips_Snapshot_With_TTL(t *testing.T) {
	// Arrange
	snapshots, mr := newTestSnapshots(t)
	owned := []domain.OwnedGame{{AppID: 1, Name: "A"}, {AppID: 2, Name: "B"}}

	// Act
	err := snapshots.SaveOwned(context.Background(), "AB12C3", "100", owned)

	// Assert
	require.NoError(t, err)
	require.Equal(t, TTL, mr.TTL(OwnedKey("AB12C3", "100")))

	fetched, found, err := snapshots.GetOwned(context.Background(), "AB12C3", "100")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, owned, fetched)
}

func Test_GetOwned_Missing_Snapshot_Reports_Not_Found(t *testing.T) {
	// Arrange
	snapshots, _ := newTestSnapshots(t)

	// Act
	_, found, err := snapshots.GetOwned(context.Background(), "AB12C3", "100")

	// Assert
	require.NoError(t, err)
	require.False(t, found)
}

func Test_Common_Games_Memoization_Roundtrip(t *testing.T) {
	// Arrange
	snapshots, _ := newTestSnapshots(t)
	common := []domain.Game{{AppID: 1, Name: "A", Genres: []string{"Action"}}}

	// Act
	require.NoError(t, snapshots.SaveCommon(context.Background(), "AB12C3", common))

	// Assert
	fetched, found, err := snapshots.GetCommon(context.Background(), "AB12C3")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, common, fetched)
}

func Test_InvalidateCommon_Drops_Memoized_Result(t *testing.T) {
	// Arrange
	snapshots, _ := newTestSnapshots(t)
	common := []domain.Game{{AppID: 1, Name: "A", Genres: []string{}}}
	require.NoError(t, snapshots.SaveCommon(context.Background(), "AB12C3", common))

	// Act
	require.NoError(t, snapshots.InvalidateCommon(context.Background(), "AB12C3"))

	// Assert
	_, found, err := snapshots.GetCommon(context.Background(), "AB12C3")
	require.NoError(t, err)
	require.False(t, found)
}

func Test_RemovePartyGames_Drops_All_Party_Keys(t *testing.T) {
	// Arrange
	snapshots, mr := newTestSnapshots(t)
	ctx := context.Background()

	require.NoError(t, snapshots.SaveOwned(ctx, "AB12C3", "100", []domain.OwnedGame{{AppID: 1, Name: "A"}}))
	require.NoError(t, snapshots.SaveOwned(ctx, "AB12C3", "200", []domain.OwnedGame{{AppID: 1, Name: "A"}}))
	require.NoError(t, snapshots.SaveCommon(ctx, "AB12C3", []domain.Game{{AppID: 1, Name: "A", Genres: []string{}}}))

	// Act
	require.NoError(t, snapshots.RemovePartyGames(ctx, "AB12C3", []string{"100", "200"}))

	// Assert
	require.False(t, mr.Exists(OwnedKey("AB12C3", "100")))
	require.False(t, mr.Exists(OwnedKey("AB12C3", "200")))
	require.False(t, mr.Exists(CommonKey("AB12C3")))
}

func Test_Snapshots_Expire_After_TTL(t *testing.T) {
	// Arrange
	snapshots, mr := newTestSnapshots(t)
	require.NoError(t, snapshots.SaveOwned(context.Background(), "AB12C3", "100", []domain.OwnedGame{{AppID: 1, Name: "A"}}))

	// Act
	mr.FastForward(TTL + time.Second)

	// Assert
	_, found, err := snapshots.GetOwned(context.Background(), "AB12C3", "100")
	require.NoError(t, err)
	require.False(t, found)
}
