package schema

import (
	"time"
	"unicode/utf8"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// UserCreateRequest is the registration payload.
type UserCreateRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	LastName  string `json:"last_name"`
	Birthday  Date   `json:"birthday"`
}

// Validate normalizes the payload in place and reports every violated
// constraint at once.
func (r *UserCreateRequest) Validate() error {
	v := &fault.ValidationError{}

	r.Username = checkUsername(v, "username", r.Username)
	r.Email = checkEmail(v, "email", r.Email)
	if n := utf8.RuneCountInString(r.Password); n < 4 || n > 128 {
		v.Add("password", "must be 4-128 characters")
	}
	r.Firstname = checkName(v, "firstname", r.Firstname, 50)
	r.LastName = checkName(v, "last_name", r.LastName, 50)

	if r.Birthday.IsZero() {
		v.Add("birthday", "is required")
	} else if r.Birthday.After(time.Now()) {
		v.Add("birthday", "must not be in the future")
	}

	return v.OrNil()
}

// UserUpdateRequest carries the optional fields of a partial user update.
type UserUpdateRequest struct {
	Email     *string `json:"email"`
	Firstname *string `json:"firstname"`
	LastName  *string `json:"last_name"`
	Birthday  *Date   `json:"birthday"`
}

// Validate normalizes the supplied fields in place.
func (r *UserUpdateRequest) Validate() error {
	v := &fault.ValidationError{}

	if r.Email != nil {
		*r.Email = checkEmail(v, "email", *r.Email)
	}
	if r.Firstname != nil {
		*r.Firstname = checkName(v, "firstname", *r.Firstname, 50)
	}
	if r.LastName != nil {
		*r.LastName = checkName(v, "last_name", *r.LastName, 50)
	}
	if r.Birthday != nil {
		if r.Birthday.IsZero() {
			v.Add("birthday", "must be a valid date")
		} else if r.Birthday.After(time.Now()) {
			v.Add("birthday", "must not be in the future")
		}
	}

	return v.OrNil()
}

// ApplyTo copies only the supplied fields onto the stored user. Absent
// fields are left untouched.
func (r *UserUpdateRequest) ApplyTo(u *models.User) {
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.Firstname != nil {
		u.Firstname = *r.Firstname
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Birthday != nil {
		u.Birthday = r.Birthday.Time
	}
}

// UserResponse is the output projection of a user. It never carries the
// password hash or the internal uuid.
type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	LastName  string `json:"last_name"`
	Birthday  string `json:"birthday"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// NewUserResponse projects a stored user into its response shape.
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Firstname: u.Firstname,
		LastName:  u.LastName,
		Birthday:  u.Birthday.Format("2006-01-02"),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02"),
	}
}

// NewUserResponses projects a page of users.
func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
