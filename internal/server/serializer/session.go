package serializer

import "github.com/mdouchement/impulsestop/internal/model"

// Session serializes the render of a session.
func Session(m *model.Session) map[string]interface{} {
	return map[string]interface{}{
		"uuid":          m.ID,
		"created_at":    m.CreatedAt,
		"expire_at":     m.ExpireAt,
		"user_agent":    m.UserAgent,
		"access_token":  m.AccessToken,
		"refresh_token": m.RefreshToken,
	}
}
