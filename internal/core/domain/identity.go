package domain

// Claims are the identity attributes embedded in a session token.
type Claims struct {
	AccountID int64
	FirstName string
	LastName  string
	Email     string
	Role      Role
}

// Identity is the per-request caller state: either Anonymous or
// Authenticated with a claim set. The zero value is Anonymous.
//
// Consumers must go through Claims() rather than inspecting fields, so the
// anonymous case is always handled explicitly.
type Identity struct {
	claims *Claims
}

// Anonymous returns the identity of a caller without a valid session.
func Anonymous() Identity {
	return Identity{}
}

// Authenticated returns the identity of a caller holding claims.
func Authenticated(c Claims) Identity {
	return Identity{claims: &c}
}

// Claims returns a copy of the claim set and true for an authenticated
// identity, or the zero Claims and false for an anonymous one.
func (i Identity) Claims() (Claims, bool) {
	if i.claims == nil {
		return Claims{}, false
	}
	return *i.claims, true
}

// IsAuthenticated reports whether the caller presented a valid session.
func (i Identity) IsAuthenticated() bool {
	return i.claims != nil
}

// HasRole reports whether the caller is authenticated with one of roles.
func (i Identity) HasRole(roles ...Role) bool {
	c, ok := i.Claims()
	if !ok {
		return false
	}
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// AccountID returns the caller's account id, or 0 when anonymous.
func (i Identity) AccountID() int64 {
	if i.claims == nil {
		return 0
	}
	return i.claims.AccountID
}
