package core

import "context"

type ContextKey string

const SessionContextKey ContextKey = "session"

// ContextSession is the authenticated Steam identity attached to a request
// by the auth middleware.
type ContextSession struct {
	SteamID     string
	DisplayName string
	AvatarURL   string
}

func (s ContextSession) Authenticated() bool {
	return s.SteamID != ""
}

func Session(ctx context.Context) ContextSession {
	rawVal := ctx.Value(SessionContextKey)
	if rawVal == nil {
		return ContextSession{}
	}

	session, ok := rawVal.(ContextSession)
	if !ok {
		return ContextSession{}
	}

	return session
}
