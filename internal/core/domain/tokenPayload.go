package domain

// TokenPayload is the verified content of a session token.
type TokenPayload struct {
	UserID int64
	Email  string
	Roles  []string
}

func (p *TokenPayload) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}
