package identity

// Profile is the public slice of an identity provider user record.
// Only the fields safe to expose to clients are carried; everything else
// (emails, sessions, metadata) stays inside the provider.
type Profile struct {
	ID              string  `json:"id"`
	Username        *string `json:"username"`
	ProfileImageURL string  `json:"profileImageUrl"`
}

// HasUsername reports whether the profile carries a usable username.
// Provider accounts created via OAuth can lack one.
func (p Profile) HasUsername() bool {
	return p.Username != nil && *p.Username != ""
}
