package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/olive/pkg/domain/interfaces"
	"github.com/secmon-lab/olive/pkg/domain/model"
	"github.com/secmon-lab/olive/pkg/utils/errutil"
	"github.com/secmon-lab/olive/pkg/utils/logging"
)

// KV keys for couple and onboarding state
const (
	CoupleNamesKey = "olive:couple_names"
	CurrentUserKey = "olive:current_user"
	OnboardingKey  = "olive:onboarding"

	onboardingCompleted = "completed"
)

// CoupleUseCase manages partner names, the partner currently capturing notes
// and the onboarding flag. Unlike notes these values are read through from
// the KV store on every call.
type CoupleUseCase struct {
	kv interfaces.KVStore
	mu sync.Mutex
}

// NewCoupleUseCase creates a CoupleUseCase
func NewCoupleUseCase(kv interfaces.KVStore) *CoupleUseCase {
	return &CoupleUseCase{kv: kv}
}

// Couple returns the partners and current user. Missing or unreadable names
// fall back to the default partner names. When names are stored but the
// current user is missing or stale, partner 1 becomes current and is persisted.
func (uc *CoupleUseCase) Couple(ctx context.Context) *model.Couple {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.coupleLocked(ctx)
}

func (uc *CoupleUseCase) coupleLocked(ctx context.Context) *model.Couple {
	names := model.CoupleNames{
		Partner1: model.DefaultPartner1,
		Partner2: model.DefaultPartner2,
	}
	stored := false

	data, ok, err := uc.kv.Get(ctx, CoupleNamesKey)
	switch {
	case err != nil:
		errutil.Warn(ctx, err, "failed to read couple names, using defaults")
	case ok:
		var v model.CoupleNames
		if err := json.Unmarshal(data, &v); err != nil {
			errutil.Warn(ctx, goerr.Wrap(err, "failed to parse couple names"), "stored couple names are corrupted, using defaults")
		} else if err := v.Validate(); err != nil {
			errutil.Warn(ctx, err, "stored couple names are invalid, using defaults")
		} else {
			names = v
			stored = true
		}
	}

	couple := &model.Couple{
		Partner1:    names.Partner1,
		Partner2:    names.Partner2,
		CurrentUser: names.Partner1,
	}

	current, ok, err := uc.kv.Get(ctx, CurrentUserKey)
	if err != nil {
		errutil.Warn(ctx, err, "failed to read current user, using partner 1")
		return couple
	}
	if ok {
		if user := string(current); user == names.Partner1 || user == names.Partner2 {
			couple.CurrentUser = user
			return couple
		}
	}

	if stored {
		if err := uc.kv.Set(ctx, CurrentUserKey, []byte(couple.CurrentUser)); err != nil {
			errutil.Handle(ctx, goerr.Wrap(err, "failed to save current user"), "failed to persist default current user")
		}
	}
	return couple
}

// SaveCoupleNames stores the partner names and resets the current user to
// partner 1.
func (uc *CoupleUseCase) SaveCoupleNames(ctx context.Context, names model.CoupleNames) (*model.Couple, error) {
	names.Partner1 = strings.TrimSpace(names.Partner1)
	names.Partner2 = strings.TrimSpace(names.Partner2)
	if err := names.Validate(); err != nil {
		return nil, err
	}

	data, err := json.Marshal(names)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal couple names")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.kv.Set(ctx, CoupleNamesKey, data); err != nil {
		return nil, goerr.Wrap(err, "failed to save couple names")
	}
	if err := uc.kv.Set(ctx, CurrentUserKey, []byte(names.Partner1)); err != nil {
		return nil, goerr.Wrap(err, "failed to save current user")
	}

	logging.From(ctx).Info("couple names saved")
	return &model.Couple{
		Partner1:    names.Partner1,
		Partner2:    names.Partner2,
		CurrentUser: names.Partner1,
	}, nil
}

// SwitchUser makes the other partner the current user
func (uc *CoupleUseCase) SwitchUser(ctx context.Context) (*model.Couple, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	couple := uc.coupleLocked(ctx)
	couple.CurrentUser = couple.Other()
	if err := uc.kv.Set(ctx, CurrentUserKey, []byte(couple.CurrentUser)); err != nil {
		return nil, goerr.Wrap(err, "failed to save current user")
	}

	logging.From(ctx).Info("current user switched", AuthorKey, couple.CurrentUser)
	return couple, nil
}

// IsOnboarded reports whether onboarding has been completed. A read failure
// is logged and reported as not onboarded.
func (uc *CoupleUseCase) IsOnboarded(ctx context.Context) bool {
	data, ok, err := uc.kv.Get(ctx, OnboardingKey)
	if err != nil {
		errutil.Warn(ctx, err, "failed to read onboarding flag")
		return false
	}
	return ok && string(data) == onboardingCompleted
}

// CompleteOnboarding marks onboarding as done
func (uc *CoupleUseCase) CompleteOnboarding(ctx context.Context) error {
	if err := uc.kv.Set(ctx, OnboardingKey, []byte(onboardingCompleted)); err != nil {
		return goerr.Wrap(err, "failed to save onboarding flag")
	}
	return nil
}

// ResetOnboarding clears the onboarding flag together with partner names and
// the current user.
func (uc *CoupleUseCase) ResetOnboarding(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.kv.Delete(ctx, OnboardingKey, CoupleNamesKey, CurrentUserKey); err != nil {
		return goerr.Wrap(err, "failed to reset onboarding")
	}
	logging.From(ctx).Info("onboarding reset")
	return nil
}
