package domain

import "time"

type Member struct {
	SteamID     string   `json:"steamId"`
	DisplayName string   `json:"displayName"`
	AvatarURL   string   `json:"avatarUrl"`
	GamesLoaded bool     `json:"gamesLoaded"`
	GenreVotes  []string `json:"genreVotes,omitempty"`
}

// Party is the record stored wholesale in the cache. Version is bumped on
// every successful write and backs the store's optimistic concurrency check.
type Party struct {
	Code        string    `json:"code"`
	HostSteamID string    `json:"hostSteamId"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int64     `json:"version"`
}

func NewParty(code string, host Member) Party {
	return Party{
		Code:        code,
		HostSteamID: host.SteamID,
		Members:     []Member{host},
		CreatedAt:   time.Now().UTC(),
	}
}

// Join adds a member, keeping join order. Rejoining with a known identity is
// a no-op; the return value reports whether the member list actually changed.
func (p *Party) Join(member Member) bool {
	if p.Member(member.SteamID) != nil {
		return false
	}

	p.Members = append(p.Members, member)
	return true
}

// Leave removes the member and reassigns the host to the first remaining
// member in join order when the host departed. Returns true when the party
// has no members left and must be deleted.
func (p *Party) Leave(steamID string) bool {
	remaining := make([]Member, 0, len(p.Members))
	for _, m := range p.Members {
		if m.SteamID != steamID {
			remaining = append(remaining, m)
		}
	}
	p.Members = remaining

	if len(p.Members) == 0 {
		return true
	}

	if p.HostSteamID == steamID {
		p.HostSteamID = p.Members[0].SteamID
	}

	return false
}

func (p *Party) Member(steamID string) *Member {
	for i := range p.Members {
		if p.Members[i].SteamID == steamID {
			return &p.Members[i]
		}
	}
	return nil
}

func (p *Party) SetGamesLoaded(steamID string) bool {
	member := p.Member(steamID)
	if member == nil {
		return false
	}

	member.GamesLoaded = true
	return true
}

func (p *Party) SetGenreVotes(steamID string, genres []string) bool {
	member := p.Member(steamID)
	if member == nil {
		return false
	}

	member.GenreVotes = genres
	return true
}

func (p Party) AllGamesLoaded() bool {
	for _, m := range p.Members {
		if !m.GamesLoaded {
			return false
		}
	}
	return true
}

func (p Party) LoadedCount() int {
	count := 0
	for _, m := range p.Members {
		if m.GamesLoaded {
			count++
		}
	}
	return count
}

func (p Party) MemberIDs() []string {
	ids := make([]string, 0, len(p.Members))
	for _, m := range p.Members {
		ids = append(ids, m.SteamID)
	}
	return ids
}
