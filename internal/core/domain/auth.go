package domain

import "time"

// AuthResult is the envelope returned by every credential operation.
type AuthResult struct {
	StatusCode   int       `json:"statusCode"`
	Message      string    `json:"message"`
	Token        string    `json:"token,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	User         *UserView `json:"user,omitempty"`
}

// UserView is the public projection of a User. It never carries the hash.
type UserView struct {
	ID               string     `json:"id,omitempty"`
	Name             string     `json:"name"`
	Surnames         string     `json:"surnames"`
	Telephone        string     `json:"telephone"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	CreationDate     time.Time  `json:"creationDate"`
	LastModifiedDate *time.Time `json:"lastModifiedDate,omitempty"`
}

// NewUserView builds the view used by register, login and the admin directory.
func NewUserView(u *User) *UserView {
	return &UserView{
		ID:           u.ID,
		Name:         u.Name,
		Surnames:     u.Surnames,
		Telephone:    u.Telephone,
		Email:        u.Email,
		Role:         u.Role.String(),
		CreationDate: u.CreatedAt,
	}
}

// NewUpdatedUserView builds the view returned after a profile update. It omits
// the id and includes the last modification date.
func NewUpdatedUserView(u *User) *UserView {
	modified := u.UpdatedAt
	return &UserView{
		Name:             u.Name,
		Surnames:         u.Surnames,
		Telephone:        u.Telephone,
		Email:            u.Email,
		Role:             u.Role.String(),
		CreationDate:     u.CreatedAt,
		LastModifiedDate: &modified,
	}
}

// RegistrationRequest carries the data needed to create an account. Role is
// optional and defaults to RoleCustomer.
type RegistrationRequest struct {
	Name      string
	Surnames  string
	Email     string
	Telephone string
	Password  string
	Role      Role
}

// ProfileUpdate is a partial user; nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string
	Surnames  *string
	Email     *string
	Telephone *string
}

// UserPage is one page of a directory search.
type UserPage struct {
	Items      []*UserView `json:"content"`
	Page       int         `json:"page"`
	Size       int         `json:"size"`
	Total      int64       `json:"totalElements"`
	TotalPages int         `json:"totalPages"`
}
