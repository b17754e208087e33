// Package transport defines the JSON bodies exchanged over HTTP.
package transport

import "github.com/Skotchmaster/userauth/internal/models"

type RegisterRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest leaves a field untouched when it is absent or null.
type ProfileUpdateRequest struct {
	Firstname      *string `json:"firstname"`
	Lastname       *string `json:"lastname"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	ProfilePicture *string `json:"profile_picture"`
}

func (r ProfileUpdateRequest) ToModel() models.ProfileUpdate {
	return models.ProfileUpdate{
		Firstname:      r.Firstname,
		Lastname:       r.Lastname,
		Email:          r.Email,
		Password:       r.Password,
		ProfilePicture: r.ProfilePicture,
	}
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type PhotoResponse struct {
	URL  string       `json:"url"`
	User *models.User `json:"user"`
}

type DirectoryResponse struct {
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Users []models.User `json:"users"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
