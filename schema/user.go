package schema

type (
	// Role is an authorization role assigned to a user.
	Role struct {
		Id   int    `json:"id"`
		Name string `json:"name"`
	}

	// User is an administrated account.
	User struct {
		Id    int    `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Roles []Role `json:"roles,omitempty"`
	}

	// UserProfile is the identity returned with a login token.
	UserProfile struct {
		Id    int    `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Roles []Role `json:"roles,omitempty"`
	}

	// Credentials is the login body.
	Credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	// Registration is the register body.
	Registration struct {
		Name                 string `json:"name"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}

	// LoginResult is the login response.
	LoginResult struct {
		Token string       `json:"token"`
		User  *UserProfile `json:"user,omitempty"`
	}

	// RoleAssignment is the body used to grant a role.
	RoleAssignment struct {
		Role string `json:"role"`
	}
)

func (u User) Key() int { return u.Id }

// HasRole returns true if the profile carries the named role.
func (p *UserProfile) HasRole(name string) bool {
	if p == nil {
		return false
	}
	for _, role := range p.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}
