package domain

import "time"

// BirthdayLayout is the wire format of User.Birthday.
const BirthdayLayout = "2006-01-02"

// User is a stored credential record: the public profile plus the password hash.
// The hash never leaves the service layer; use Identity for anything outward facing.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Birthday     time.Time `json:"birthday"`
	Favorites    []string  `json:"favorites"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the authenticated, request-scoped view of a user.
type Identity struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Birthday  time.Time `json:"birthday"`
	Favorites []string  `json:"favorites"`
}

// Identity strips the credential material from u.
func (u *User) Identity() *Identity {
	favs := make([]string, len(u.Favorites))
	copy(favs, u.Favorites)
	return &Identity{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Birthday:  u.Birthday,
		Favorites: favs,
	}
}

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Birthday     *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil && p.Birthday == nil
}
