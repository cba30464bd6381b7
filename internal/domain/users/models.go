package users

import "github.com/foodgram/foodgram/foodgram/database/models"

// Profile is the public view of a user. IsSubscribed is relative to the
// viewer and always false for anonymous viewers.
type Profile struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	IsSubscribed bool
}

func NewProfile(user *models.User, subscribed bool) *Profile {
	return &Profile{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}
