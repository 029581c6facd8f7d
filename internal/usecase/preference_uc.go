// File: internal/usecase/preference_uc.go
package usecase

import (
	"context"
	"errors"

	"mealplan-ai-subscription/internal/domain"
	"mealplan-ai-subscription/internal/domain/model"
	"mealplan-ai-subscription/internal/domain/ports/repository"
)

var _ PreferenceUseCase = (*preferenceUC)(nil)

type PreferenceUseCase interface {
	// Get returns the user's saved preferences, or the defaults when no
	// profile exists yet.
	Get(ctx context.Context, userID string) (model.Preferences, error)
	// Update writes preferences, lazily creating the profile on first save.
	Update(ctx context.Context, userID, email string, prefs model.Preferences) (model.Preferences, error)
}

type preferenceUC struct {
	profiles repository.ProfileRepository
}

func NewPreferenceUseCase(profiles repository.ProfileRepository) *preferenceUC {
	return &preferenceUC{profiles: profiles}
}

func (u *preferenceUC) Get(ctx context.Context, userID string) (model.Preferences, error) {
	if userID == "" {
		return model.Preferences{}, domain.ErrInvalidArgument
	}
	profile, err := u.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return model.DefaultPreferences(), nil
		}
		return model.Preferences{}, err
	}
	return profile.Preferences.Normalize(), nil
}

func (u *preferenceUC) Update(ctx context.Context, userID, email string, prefs model.Preferences) (model.Preferences, error) {
	if userID == "" {
		return model.Preferences{}, domain.ErrInvalidArgument
	}
	prefs = prefs.Normalize()
	if err := u.profiles.UpsertPreferences(ctx, userID, email, prefs); err != nil {
		return model.Preferences{}, err
	}
	return prefs, nil
}
