package user

// Session is the mock authentication collaborator: picking a role signs in
// the matching demo account, no credentials involved.
type Session struct {
	current *User
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Login(role Role) (User, error) {
	var u User
	switch role {
	case RoleAdmin:
		u = MockAdmin
	case RoleCustomer:
		u = MockCustomer
	default:
		return User{}, ErrInvalidRole
	}
	s.current = &u
	return u, nil
}

func (s *Session) Logout() {
	s.current = nil
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *User {
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// Restore reinstates a persisted user; nil signs out.
func (s *Session) Restore(u *User) {
	if u == nil {
		s.current = nil
		return
	}
	cp := *u
	s.current = &cp
}
