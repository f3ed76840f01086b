package domain

// AccessToken is an opaque bearer credential. It identifies a user only
// through the token store binding and never embeds user data itself.
type AccessToken string

// AuthorizedUser is the principal of a single request: the presented token
// and the user it resolved to. It is built per request and never persisted.
type AuthorizedUser struct {
	AccessToken AccessToken
	User        User
}

// ID returns the principal's user id.
func (a AuthorizedUser) ID() string {
	return a.User.ID
}

// IsAdmin is the authorization gate for admin-only operations.
func (a AuthorizedUser) IsAdmin() bool {
	switch a.User.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	}
	return false
}
