package service

import (
	"context"
	"errors"
	"io"

	"github.com/Skotchmaster/userauth/internal/apperr"
	"github.com/Skotchmaster/userauth/internal/directory"
	"github.com/Skotchmaster/userauth/internal/events"
	"github.com/Skotchmaster/userauth/internal/logging"
	"github.com/Skotchmaster/userauth/internal/models"
)

type ImageStore interface {
	Save(filename string, r io.Reader) (string, error)
}

type ProfileService struct {
	Users  UserStore
	Images ImageStore
	notifier
}

func NewProfileService(users UserStore, images ImageStore, pub events.Publisher, dir directory.Directory) *ProfileService {
	return &ProfileService{
		Users:    users,
		Images:   images,
		notifier: notifier{Events: pub, Directory: dir},
	}
}

// Update applies the provided fields to user's profile. Role and login statistics are never
// touched here.
func (s *ProfileService) Update(ctx context.Context, user *models.User, upd models.ProfileUpdate) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "profile.update")

	clean, err := validateUpdate(upd)
	if err != nil {
		l.Info("profile_update_rejected", "status", 400, "reason", err.Error())
		return nil, err
	}

	updated, err := s.Users.UpdateProfile(ctx, user.ID, clean)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrDuplicateEmail):
			l.Info("profile_update_rejected", "status", 409, "reason", "email already registered")
		case errors.Is(err, apperr.ErrNotFound):
			l.Warn("profile_update_rejected", "status", 401, "reason", "user vanished")
		default:
			l.Error("profile_update_error", "status", 500, "error", err)
		}
		return nil, err
	}

	if !clean.Empty() {
		l.Info("profile_updated")
		s.notify(ctx, events.ProfileUpdated, updated)
	}
	return updated, nil
}

func validateUpdate(upd models.ProfileUpdate) (models.ProfileUpdate, error) {
	var out models.ProfileUpdate
	if upd.Firstname != nil {
		v, err := validateName("firstname", *upd.Firstname)
		if err != nil {
			return out, err
		}
		out.Firstname = &v
	}
	if upd.Lastname != nil {
		v, err := validateName("lastname", *upd.Lastname)
		if err != nil {
			return out, err
		}
		out.Lastname = &v
	}
	if upd.Email != nil {
		v, err := validateEmail(*upd.Email)
		if err != nil {
			return out, err
		}
		out.Email = &v
	}
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return out, err
		}
		out.Password = upd.Password
	}
	if upd.ProfilePicture != nil {
		if err := validateProfilePicture(*upd.ProfilePicture); err != nil {
			return out, err
		}
		out.ProfilePicture = upd.ProfilePicture
	}
	return out, nil
}

// SetPhoto stores the uploaded image and points the user's profile picture at it.
func (s *ProfileService) SetPhoto(ctx context.Context, user *models.User, filename string, r io.Reader) (string, *models.User, error) {
	l := logging.FromContext(ctx).With("svc", "profile.photo")

	url, err := s.Images.Save(filename, r)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			l.Info("photo_rejected", "status", 400, "reason", err.Error())
		} else {
			l.Error("photo_error", "status", 500, "reason", "cannot store image", "error", err)
		}
		return "", nil, err
	}

	updated, err := s.Users.UpdateProfile(ctx, user.ID, models.ProfileUpdate{ProfilePicture: &url})
	if err != nil {
		l.Error("photo_error", "status", 500, "reason", "cannot update profile", "error", err)
		return "", nil, err
	}

	l.Info("photo_updated", "url", url)
	s.notify(ctx, events.ProfileUpdated, updated)
	return url, updated, nil
}
