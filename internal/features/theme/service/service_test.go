package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist-tool-client/internal/features/theme/models"
	"wishlist-tool-client/internal/features/theme/repository/memory"
)

type countingStore struct {
	theme models.Theme
	saves int
	err   error
}

func (s *countingStore) Load(context.Context) (models.Theme, bool, error) {
	return s.theme, s.theme.Valid(), s.err
}

func (s *countingStore) Save(_ context.Context, t models.Theme) error {
	if s.err != nil {
		return s.err
	}
	s.theme = t
	s.saves++
	return nil
}

type change struct {
	theme  models.Theme
	source Source
}

func record(s *State) *[]change {
	var got []change
	s.Subscribe(func(t models.Theme, src Source) {
		got = append(got, change{t, src})
	})
	return &got
}

func TestSetterNotifiesOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{}
	s := NewState(store)
	got := record(s)

	require.NoError(t, s.ApplyResolved(ctx, models.Dark))
	require.NoError(t, s.ApplyResolved(ctx, models.Dark))
	require.NoError(t, s.ApplyResolved(ctx, models.Light))

	assert.Equal(t, []change{{models.Dark, SourceResolved}, {models.Light, SourceResolved}}, *got)
	assert.Equal(t, 2, store.saves)
	assert.Equal(t, models.Light, store.theme)
	assert.Equal(t, models.Light, s.Current())
}

func TestHintIsAppliedNotRewritten(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{theme: models.Ozon}
	s := NewState(store)
	got := record(s)

	theme, ok := s.ApplyHint(ctx)
	assert.True(t, ok)
	assert.Equal(t, models.Ozon, theme)
	assert.Equal(t, models.Ozon, s.Current())
	assert.Equal(t, []change{{models.Ozon, SourceHint}}, *got)
	assert.Zero(t, store.saves)
}

func TestNoHint(t *testing.T) {
	s := NewState(memory.NewThemeRepository())
	_, ok := s.ApplyHint(context.Background())
	assert.False(t, ok)
	assert.Equal(t, models.Theme(""), s.Current())
}

func TestManualChoiceWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewThemeRepository()
	require.NoError(t, store.Save(ctx, models.Light))
	s := NewState(store)

	require.NoError(t, s.SetManual(ctx, models.Ozon))
	assert.True(t, s.Manual())

	_, _ = s.ApplyHint(ctx)
	require.NoError(t, s.ApplyResolved(ctx, models.Dark))
	assert.Equal(t, models.Ozon, s.Current())

	require.NoError(t, s.SetManual(ctx, models.Dark))
	assert.Equal(t, models.Dark, s.Current())
	stored, _, _ := store.Load(ctx)
	assert.Equal(t, models.Dark, stored)
}

func TestUnsubscribe(t *testing.T) {
	s := NewState(memory.NewThemeRepository())
	calls := 0
	stop := s.Subscribe(func(models.Theme, Source) { calls++ })
	require.NoError(t, s.ApplyResolved(context.Background(), models.Dark))
	stop()
	require.NoError(t, s.ApplyResolved(context.Background(), models.Light))
	assert.Equal(t, 1, calls)
}

func TestInvalidAndFailingStore(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	store := &countingStore{err: boom}
	s := NewState(store)

	assert.Error(t, s.ApplyResolved(ctx, models.Theme("neon")))
	assert.Equal(t, models.Theme(""), s.Current())

	// the theme is applied even when it cannot be persisted
	err := s.SetManual(ctx, models.Dark)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, models.Dark, s.Current())

	_, ok := s.Hint(ctx)
	assert.False(t, ok)
}
