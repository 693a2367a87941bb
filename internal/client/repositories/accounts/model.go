// Package accounts keeps the collection of registered accounts as a single
// JSON blob in a metadata.Repository.
//
// The collection is read and written whole on every operation: there is no
// index and no transaction, so concurrent writers through different stores
// follow "last write wins".
package accounts

// Account is a registered identity. The password is kept verbatim.
type Account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Patch describes a partial update. A nil field leaves the stored value
// unchanged.
type Patch struct {
	Name     *string
	Email    *string
	Password *string
}

// IsEmpty reports whether applying p would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}

// ChangesEmail reports whether p sets an email different from current.
func (p Patch) ChangesEmail(current string) bool {
	return p.Email != nil && *p.Email != current
}

func (p Patch) apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.Password != nil {
		a.Password = *p.Password
	}
}
