package games

import (
	"context"

	"github.com/squadpick/squadpick-go/internal/modules/games/domain"
	"github.com/squadpick/squadpick-go/internal/steam"
)

var _ domain.MetadataSource = (*SteamMetadataSource)(nil)

// SteamMetadataSource adapts the storefront client to the resolver's
// metadata contract.
type SteamMetadataSource struct {
	client *steam.Client
}

func NewSteamMetadataSource(client *steam.Client) *SteamMetadataSource {
	return &SteamMetadataSource{client: client}
}

func (s *SteamMetadataSource) Lookup(ctx context.Context, appID int) (*domain.Metadata, error) {
	details, err := s.client.GetAppDetails(ctx, appID)
	if err != nil || details == nil {
		return nil, err
	}

	return &domain.Metadata{
		IsMultiplayer: details.IsMultiplayer,
		Genres:        details.Genres,
	}, nil
}
