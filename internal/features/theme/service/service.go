package service

import (
	"context"
	"fmt"
	"sync"

	"wishlist-tool-client/internal/common/logger"
	"wishlist-tool-client/internal/features/theme/models"
	"wishlist-tool-client/internal/features/theme/repository"
)

// Source tells who asked for a theme change.
type Source string

const (
	SourceHint     Source = "hint"
	SourceResolved Source = "resolved"
	SourceManual   Source = "manual"
)

// Listener is called after the applied theme changes.
type Listener func(theme models.Theme, source Source)

// State is the process-wide applied theme. All writes go through one
// setter that persists the value and notifies listeners on change.
type State struct {
	store repository.Store

	mu        sync.Mutex
	current   models.Theme
	manual    bool
	listeners map[int]Listener
	nextID    int
}

func NewState(store repository.Store) *State {
	return &State{
		store:     store,
		listeners: make(map[int]Listener),
	}
}

// Current returns the applied theme, or "" before anything was applied.
func (s *State) Current() models.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Manual reports whether the user picked the theme in this session.
func (s *State) Manual() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manual
}

// Subscribe registers l and returns a func that removes it.
func (s *State) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Hint reads the persisted theme without applying it.
func (s *State) Hint(ctx context.Context) (models.Theme, bool) {
	theme, ok, err := s.store.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read theme hint")
		return "", false
	}
	return theme, ok
}

// ApplyHint applies the persisted theme at startup. It does nothing once
// the user picked a theme or when nothing is stored.
func (s *State) ApplyHint(ctx context.Context) (models.Theme, bool) {
	theme, ok := s.Hint(ctx)
	if !ok {
		return "", false
	}
	if err := s.set(ctx, theme, SourceHint); err != nil {
		logger.Warn().Err(err).Msg("Failed to apply theme hint")
	}
	return theme, true
}

// ApplyResolved applies the theme the session settled on, unless the user
// already picked one.
func (s *State) ApplyResolved(ctx context.Context, theme models.Theme) error {
	return s.set(ctx, theme, SourceResolved)
}

// SetManual applies an explicit user choice. Later hints and resolved
// themes no longer override it.
func (s *State) SetManual(ctx context.Context, theme models.Theme) error {
	return s.set(ctx, theme, SourceManual)
}

func (s *State) set(ctx context.Context, theme models.Theme, source Source) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}

	s.mu.Lock()
	if s.manual && source != SourceManual {
		s.mu.Unlock()
		logger.Debug().Str("theme", string(theme)).Str("source", string(source)).Msg("Manual theme kept")
		return nil
	}
	if source == SourceManual {
		s.manual = true
	}
	if s.current == theme {
		s.mu.Unlock()
		return nil
	}
	s.current = theme
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(theme, source)
	}
	logger.Debug().Str("theme", string(theme)).Str("source", string(source)).Msg("Theme applied")

	if source == SourceHint {
		return nil
	}
	if err := s.store.Save(ctx, theme); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}
