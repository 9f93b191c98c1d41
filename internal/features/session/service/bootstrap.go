package service

import (
	"context"
	"fmt"
	"sync"

	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/common/logger"
	themes "wishlist-tool-client/internal/features/theme/models"
	themeservice "wishlist-tool-client/internal/features/theme/service"
	"wishlist-tool-client/internal/features/user/models"
	"wishlist-tool-client/internal/features/user/repository"
	"wishlist-tool-client/internal/platform/telegram"
)

// Session is the result of one activation.
type Session struct {
	User  *models.User `json:"user"`
	Theme themes.Theme `json:"theme"`
	// IsNew is set when the lookup found no user for the launch identity.
	IsNew bool `json:"is_new"`
	// Registered is false when the register-or-get write failed; the
	// session still runs with the theme that was applied.
	Registered  bool  `json:"registered"`
	RegisterErr error `json:"-"`
}

// Bootstrapper identifies the launching user and resolves the theme, once
// per activation.
type Bootstrapper struct {
	users  repository.UserRepository
	theme  *themeservice.State
	launch telegram.Launch

	mu      sync.Mutex
	done    bool
	session *Session
	err     error
}

func NewBootstrapper(users repository.UserRepository, theme *themeservice.State, launch telegram.Launch) *Bootstrapper {
	return &Bootstrapper{
		users:  users,
		theme:  theme,
		launch: launch,
	}
}

// Run performs the bootstrap. Later and concurrent calls get the first
// run's result.
func (b *Bootstrapper) Run(ctx context.Context) (*Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return b.session, b.err
	}
	b.session, b.err = b.run(ctx)
	b.done = true
	return b.session, b.err
}

// Session returns the finished session, or nil before Run completed.
func (b *Bootstrapper) Session() *Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

func (b *Bootstrapper) run(ctx context.Context) (*Session, error) {
	id := b.launch.Identity
	if id.TelegramID <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "launch identity is missing")
	}

	// render with the cached hint while the lookup is in flight
	hint, hasHint := b.theme.ApplyHint(ctx)

	ambient := themes.FromScheme(b.launch.AmbientScheme)
	s := &Session{}
	var resolved themes.Theme

	existing, err := b.users.GetByTelegramID(ctx, id.TelegramID)
	switch {
	case err == nil:
		s.User = existing
		resolved = existing.ThemeColor
		if !resolved.Valid() {
			resolved = ambient
		}
	case apperrors.IsNotFound(err):
		s.IsNew = true
		resolved = ambient
	default:
		resolved = ambient
		if hasHint {
			resolved = hint
		}
		logger.Warn().
			Err(err).
			Int64("telegram_id", id.TelegramID).
			Str("code", string(apperrors.CodeOf(err))).
			Str("theme", string(resolved)).
			Msg("User lookup failed, continuing with fallback theme")
	}

	// applied before the write so the screen never switches twice
	if err := b.theme.ApplyResolved(ctx, resolved); err != nil {
		logger.Warn().Err(err).Msg("Failed to persist resolved theme")
	}

	req := registerRequest(id)
	if s.IsNew {
		// a manual pick made meanwhile is what the new record should keep
		theme := b.theme.Current()
		if !theme.Valid() {
			theme = resolved
		}
		req.ThemeColor = &theme
	}
	user, created, err := b.users.RegisterOrGet(ctx, req)
	if err != nil {
		s.RegisterErr = err
		logger.Error().
			Err(err).
			Int64("telegram_id", id.TelegramID).
			Str("code", string(apperrors.CodeOf(err))).
			Msg("Register-or-get failed")
	} else {
		s.User = user
		s.Registered = true
		s.IsNew = s.IsNew || created
		b.syncTheme(ctx, s, created && req.ThemeColor == nil)
	}

	s.Theme = b.theme.Current()
	logger.Info().
		Int64("telegram_id", id.TelegramID).
		Bool("new", s.IsNew).
		Bool("registered", s.Registered).
		Str("theme", string(s.Theme)).
		Msg("Session started")
	return s, nil
}

// syncTheme writes the applied theme to the user record when the write did
// not carry it: a manual choice made before the session had a user, or a
// record created after a failed lookup. Failures are logged only.
func (b *Bootstrapper) syncTheme(ctx context.Context, s *Session, createdBare bool) {
	theme := b.theme.Current()
	if !theme.Valid() || s.User.ThemeColor == theme {
		return
	}
	if !b.theme.Manual() && !createdBare {
		return
	}
	user, err := b.users.Update(ctx, s.User.ID, &models.UpdateRequest{ThemeColor: &theme})
	if err != nil {
		logger.Warn().
			Err(err).
			Int64("user_id", s.User.ID).
			Str("theme", string(theme)).
			Msg("Failed to store theme on user")
		return
	}
	s.User = user
}

// ChangeTheme applies a manual choice and stores it on the user record.
// Before the session has a user only the local state changes.
func (b *Bootstrapper) ChangeTheme(ctx context.Context, theme themes.Theme) (*models.User, error) {
	if !theme.Valid() {
		return nil, fmt.Errorf("unknown theme %q", theme)
	}
	if err := b.theme.SetManual(ctx, theme); err != nil {
		logger.Warn().Err(err).Msg("Failed to persist manual theme")
	}

	s := b.Session()
	if s == nil || s.User == nil {
		return nil, nil
	}
	user, err := b.users.Update(ctx, s.User.ID, &models.UpdateRequest{ThemeColor: &theme})
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.session.User = user
	b.session.Theme = theme
	b.mu.Unlock()
	return user, nil
}

func registerRequest(id telegram.Identity) *models.RegisterRequest {
	req := &models.RegisterRequest{
		TelegramID: id.TelegramID,
		FirstName:  id.FirstName,
		LastName:   optString(id.LastName),
		Username:   optString(id.Username),
		PhotoURL:   optString(id.PhotoURL),
		Language:   optString(id.LanguageCode),
		StartParam: optString(id.StartParam),
	}
	return req
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
