package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

func validUserCreate() UserCreateRequest {
	return UserCreateRequest{
		Username:  "john_doe",
		Email:     "john@example.com",
		Password:  "1234",
		Firstname: "John",
		LastName:  "Doe",
		Birthday:  Date{Time: time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
}

func TestUserCreateValidate(t *testing.T) {
	req := validUserCreate()
	assert.NoError(t, req.Validate())
}

func TestUserCreateNormalizes(t *testing.T) {
	req := validUserCreate()
	req.Username = "  John_Doe  "
	req.Email = " JOHN@Example.COM "
	req.Firstname = "  John "

	require.NoError(t, req.Validate())
	assert.Equal(t, "john_doe", req.Username)
	assert.Equal(t, "john@example.com", req.Email)
	assert.Equal(t, "John", req.Firstname)
}

func TestUserCreateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UserCreateRequest)
		field  string
	}{
		{"short username", func(r *UserCreateRequest) { r.Username = "ab" }, "username"},
		{"username with spaces", func(r *UserCreateRequest) { r.Username = "john doe" }, "username"},
		{"bad email", func(r *UserCreateRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *UserCreateRequest) { r.Password = "abc" }, "password"},
		{"long password", func(r *UserCreateRequest) { r.Password = string(make([]byte, 129)) }, "password"},
		{"digits in firstname", func(r *UserCreateRequest) { r.Firstname = "John99" }, "firstname"},
		{"single char last name", func(r *UserCreateRequest) { r.LastName = "D" }, "last_name"},
		{"missing birthday", func(r *UserCreateRequest) { r.Birthday = Date{} }, "birthday"},
		{"future birthday", func(r *UserCreateRequest) {
			r.Birthday = Date{Time: time.Now().AddDate(1, 0, 0)}
		}, "birthday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUserCreate()
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)

			ve, ok := err.(*fault.ValidationError)
			require.True(t, ok)
			found := false
			for _, f := range ve.Fields {
				if f.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected a violation on %s, got %v", tt.field, ve.Fields)
		})
	}
}

func TestUserCreateCyrillicNames(t *testing.T) {
	req := validUserCreate()
	req.Firstname = "Анна"
	req.LastName = "Иванова"
	assert.NoError(t, req.Validate())
}

func TestNameLengthCountsCharactersNotBytes(t *testing.T) {
	// 29 characters but 56 bytes: within the 50-character maximum
	req := validUserCreate()
	req.LastName = "Александрова-Вознесенская ааа"
	assert.NoError(t, req.Validate())

	// 1 character but 2 bytes: below the 2-character minimum
	req = validUserCreate()
	req.Firstname = "Я"
	err := req.Validate()
	require.Error(t, err)

	ve, ok := err.(*fault.ValidationError)
	require.True(t, ok)
	assert.Equal(t, "firstname", ve.Fields[0].Field)
}

func TestUserCreateReportsAllViolations(t *testing.T) {
	req := UserCreateRequest{}

	err := req.Validate()
	require.Error(t, err)

	ve, ok := err.(*fault.ValidationError)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(ve.Fields), 5)
}

func TestUserUpdateApplyToPartial(t *testing.T) {
	user := models.User{
		ID:        7,
		Username:  "john_doe",
		Email:     "john@example.com",
		Firstname: "John",
		LastName:  "Doe",
		Birthday:  time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
	}

	email := "new.email@example.com"
	req := UserUpdateRequest{Email: &email}
	require.NoError(t, req.Validate())
	req.ApplyTo(&user)

	assert.Equal(t, "new.email@example.com", user.Email)
	// absent fields untouched
	assert.Equal(t, "John", user.Firstname)
	assert.Equal(t, "Doe", user.LastName)
	assert.Equal(t, 1990, user.Birthday.Year())
}

func TestUserUpdateEmptyPayloadIsNoop(t *testing.T) {
	user := models.User{Firstname: "John", LastName: "Doe", Email: "john@example.com"}
	before := user

	req := UserUpdateRequest{}
	require.NoError(t, req.Validate())
	req.ApplyTo(&user)

	assert.Equal(t, before, user)
}

func TestUserResponseExcludesPassword(t *testing.T) {
	user := models.User{
		ID:             1,
		Username:       "john_doe",
		Email:          "john@example.com",
		HashedPassword: "$2a$10$secret",
		Firstname:      "John",
		LastName:       "Doe",
		Birthday:       time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
		CreatedAt:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	resp := NewUserResponse(&user)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "1990-01-15", resp.Birthday)
	assert.Equal(t, "2024-03-01", resp.CreatedAt)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "$2a$10$secret")
}
