package model

// User is the read-only projection of a forum member consumed by mention
// resolution and report snapshots.
type User struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Handle string `json:"handle" db:"handle"`
}

// AuthUser is the authenticated caller extracted from a bearer token.
type AuthUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	IsModerator bool   `json:"is_moderator"`
	IsAdmin     bool   `json:"is_admin"`
}

// CanModerate reports whether the user passes the moderator gate.
func (u *AuthUser) CanModerate() bool {
	return u != nil && (u.IsModerator || u.IsAdmin)
}
