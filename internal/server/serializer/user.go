package serializer

import "github.com/mdouchement/impulsestop/internal/model"

// User serializes the render of a user.
func User(m *model.User) map[string]interface{} {
	return map[string]interface{}{
		"uuid":       m.ID,
		"created_at": m.CreatedAt.UTC(),
		"updated_at": m.UpdatedAt.UTC(),
		"email":      m.Email,
		"anonymous":  m.Anonymous,
	}
}
