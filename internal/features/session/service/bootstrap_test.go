package service

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wishlist-tool-client/internal/common/errors"
	themes "wishlist-tool-client/internal/features/theme/models"
	themerepo "wishlist-tool-client/internal/features/theme/repository"
	"wishlist-tool-client/internal/features/theme/repository/memory"
	themeservice "wishlist-tool-client/internal/features/theme/service"
	userhttp "wishlist-tool-client/internal/features/user/repository/http"
	"wishlist-tool-client/internal/platform/api"
	"wishlist-tool-client/internal/platform/api/apitest"
	"wishlist-tool-client/internal/platform/telegram"
)

const (
	registerPath = "/api/users/register_or_get/"
	lookupPath   = "/api/users/by_telegram_id/"
)

type fixture struct {
	srv   *apitest.Server
	store themerepo.Store
	state *themeservice.State
}

func setup(t *testing.T) *fixture {
	store := memory.NewThemeRepository()
	return &fixture{
		srv:   apitest.New(t),
		store: store,
		state: themeservice.NewState(store),
	}
}

func (f *fixture) bootstrapper(scheme themes.Scheme) *Bootstrapper {
	users := userhttp.NewUserRepository(api.New(api.Config{BaseURL: f.srv.URL}))
	return NewBootstrapper(users, f.state, telegram.Launch{
		Identity: telegram.Identity{
			TelegramID:   777,
			FirstName:    "Anna",
			Username:     "anna",
			LanguageCode: "en",
		},
		AmbientScheme: scheme,
	})
}

func (f *fixture) stored(t *testing.T) themes.Theme {
	theme, _, err := f.store.Load(context.Background())
	require.NoError(t, err)
	return theme
}

func TestExistingUserKeepsStoredTheme(t *testing.T) {
	f := setup(t)
	f.srv.AddUser(apitest.User{TelegramID: 777, FirstName: "Anna", ThemeColor: "ozon"})

	s, err := f.bootstrapper(themes.SchemeDark).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, themes.Ozon, s.Theme)
	assert.False(t, s.IsNew)
	assert.True(t, s.Registered)
	require.NotNil(t, s.User)
	assert.Equal(t, themes.Ozon, s.User.ThemeColor)
	assert.Equal(t, themes.Ozon, f.stored(t))

	calls := f.srv.CallsTo(http.MethodPost, registerPath)
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Body, "theme_color")
	assert.Equal(t, "Anna", calls[0].Body["first_name"])
	assert.Equal(t, "en", calls[0].Body["language"])
	assert.NotContains(t, calls[0].Body, "photo_url")
}

func TestNewUserGetsAmbientTheme(t *testing.T) {
	for _, tt := range []struct {
		scheme themes.Scheme
		want   themes.Theme
	}{
		{themes.SchemeDark, themes.Dark},
		{themes.SchemeLight, themes.Light},
	} {
		t.Run(string(tt.scheme), func(t *testing.T) {
			f := setup(t)

			s, err := f.bootstrapper(tt.scheme).Run(context.Background())
			require.NoError(t, err)
			assert.True(t, s.IsNew)
			assert.True(t, s.Registered)
			assert.Equal(t, tt.want, s.Theme)
			assert.Equal(t, tt.want, f.stored(t))

			calls := f.srv.CallsTo(http.MethodPost, registerPath)
			require.Len(t, calls, 1)
			assert.Equal(t, string(tt.want), calls[0].Body["theme_color"])

			stored, ok := f.srv.User(s.User.ID)
			require.True(t, ok)
			assert.Equal(t, string(tt.want), stored.ThemeColor)
		})
	}
}

func TestThemeAppliedBeforeWrite(t *testing.T) {
	f := setup(t)
	var registeredAtApply []int
	f.state.Subscribe(func(themes.Theme, themeservice.Source) {
		registeredAtApply = append(registeredAtApply, len(f.srv.CallsTo(http.MethodPost, registerPath)))
	})

	_, err := f.bootstrapper(themes.SchemeDark).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0}, registeredAtApply)
}

func TestCachedHintUsedWhenLookupFails(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.store.Save(context.Background(), themes.Ozon))
	f.srv.AddUser(apitest.User{TelegramID: 777, FirstName: "Anna", ThemeColor: "light"})
	f.srv.FailNext(http.MethodGet, lookupPath, http.StatusBadGateway, `{"detail": "upstream"}`)

	var applied []themeservice.Source
	f.state.Subscribe(func(_ themes.Theme, src themeservice.Source) { applied = append(applied, src) })

	s, err := f.bootstrapper(themes.SchemeDark).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, s.IsNew)
	assert.True(t, s.Registered)
	assert.Equal(t, themes.Ozon, s.Theme)
	// the hint was shown and the fallback resolution kept it
	assert.Equal(t, []themeservice.Source{themeservice.SourceHint}, applied)
	assert.NotContains(t, f.srv.CallsTo(http.MethodPost, registerPath)[0].Body, "theme_color")
}

func TestRegisterFailureDoesNotBlock(t *testing.T) {
	f := setup(t)
	f.srv.FailNext(http.MethodPost, registerPath, http.StatusServiceUnavailable, `{"detail": "maintenance"}`)

	s, err := f.bootstrapper(themes.SchemeDark).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	assert.False(t, s.Registered)
	assert.Nil(t, s.User)
	assert.Equal(t, apperrors.ErrCodeServer, apperrors.CodeOf(s.RegisterErr))
	assert.Equal(t, themes.Dark, s.Theme)
	assert.Equal(t, themes.Dark, f.state.Current())
}

func TestRunsOnce(t *testing.T) {
	f := setup(t)
	b := f.bootstrapper(themes.SchemeLight)

	var wg sync.WaitGroup
	sessions := make([]*Session, 5)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], _ = b.Run(context.Background())
		}(i)
	}
	wg.Wait()

	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
	assert.Len(t, f.srv.CallsTo(http.MethodGet, lookupPath), 1)
	assert.Len(t, f.srv.CallsTo(http.MethodPost, registerPath), 1)
}

func TestManualChoiceNotClobbered(t *testing.T) {
	ctx := context.Background()

	t.Run("existing user", func(t *testing.T) {
		f := setup(t)
		f.srv.AddUser(apitest.User{TelegramID: 777, FirstName: "Anna", ThemeColor: "dark"})
		require.NoError(t, f.state.SetManual(ctx, themes.Ozon))

		s, err := f.bootstrapper(themes.SchemeDark).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, themes.Ozon, s.Theme)
		assert.Equal(t, themes.Ozon, f.stored(t))
		assert.Equal(t, themes.Ozon, s.User.ThemeColor)
	})

	t.Run("new user", func(t *testing.T) {
		f := setup(t)
		require.NoError(t, f.state.SetManual(ctx, themes.Ozon))

		s, err := f.bootstrapper(themes.SchemeDark).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, themes.Ozon, s.Theme)
		assert.Equal(t, "ozon", f.srv.CallsTo(http.MethodPost, registerPath)[0].Body["theme_color"])
	})
}

func TestChangeTheme(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	stored := f.srv.AddUser(apitest.User{TelegramID: 777, FirstName: "Anna", ThemeColor: "light"})
	b := f.bootstrapper(themes.SchemeLight)

	// before bootstrap only the local state changes
	user, err := b.ChangeTheme(ctx, themes.Dark)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Zero(t, f.srv.Mutations())

	// the early choice reaches the record once the session has a user
	s, err := b.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, themes.Dark, f.state.Current())
	assert.Equal(t, themes.Dark, s.User.ThemeColor)
	assert.NotContains(t, f.srv.CallsTo(http.MethodPost, registerPath)[0].Body, "theme_color")

	user, err = b.ChangeTheme(ctx, themes.Ozon)
	require.NoError(t, err)
	assert.Equal(t, themes.Ozon, user.ThemeColor)
	assert.Equal(t, themes.Ozon, b.Session().Theme)
	assert.Equal(t, themes.Ozon, f.stored(t))

	patch := f.srv.CallsTo(http.MethodPatch, "/api/users/"+strconv.FormatInt(stored.ID, 10)+"/")
	require.Len(t, patch, 2)
	assert.Equal(t, map[string]interface{}{"theme_color": "dark"}, patch[0].Body)
	assert.Equal(t, map[string]interface{}{"theme_color": "ozon"}, patch[1].Body)

	_, err = b.ChangeTheme(ctx, themes.Theme("neon"))
	assert.Error(t, err)
}

func TestManualChoiceSurvivesNextActivation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.srv.AddUser(apitest.User{TelegramID: 777, FirstName: "Anna", ThemeColor: "light"})

	first := f.bootstrapper(themes.SchemeLight)
	_, err := first.ChangeTheme(ctx, themes.Dark)
	require.NoError(t, err)
	s, err := first.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Theme, s.User.ThemeColor)

	// next launch: fresh state over the same store and server
	f.state = themeservice.NewState(f.store)
	next, err := f.bootstrapper(themes.SchemeLight).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, themes.Dark, next.Theme)
	assert.Equal(t, themes.Dark, next.User.ThemeColor)
}

func TestCreatedAfterFailedLookupGetsTheme(t *testing.T) {
	f := setup(t)
	f.srv.FailNext(http.MethodGet, lookupPath, http.StatusBadGateway, `{"detail": "upstream"}`)

	s, err := f.bootstrapper(themes.SchemeDark).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, s.IsNew)
	assert.Equal(t, themes.Dark, s.Theme)
	require.NotNil(t, s.User)
	assert.Equal(t, themes.Dark, s.User.ThemeColor)

	stored, ok := f.srv.User(s.User.ID)
	require.True(t, ok)
	assert.Equal(t, "dark", stored.ThemeColor)
	assert.NotContains(t, f.srv.CallsTo(http.MethodPost, registerPath)[0].Body, "theme_color")
}

func TestThemeSyncFailureDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	stored := f.srv.AddUser(apitest.User{TelegramID: 777, FirstName: "Anna", ThemeColor: "light"})
	f.srv.FailNext(http.MethodPatch, "/api/users/"+strconv.FormatInt(stored.ID, 10)+"/", http.StatusServiceUnavailable, "")
	require.NoError(t, f.state.SetManual(ctx, themes.Ozon))

	s, err := f.bootstrapper(themes.SchemeLight).Run(ctx)
	require.NoError(t, err)
	assert.True(t, s.Registered)
	assert.Equal(t, themes.Ozon, s.Theme)
	assert.Equal(t, themes.Light, s.User.ThemeColor)
}

func TestMissingIdentity(t *testing.T) {
	f := setup(t)
	users := userhttp.NewUserRepository(api.New(api.Config{BaseURL: f.srv.URL}))
	b := NewBootstrapper(users, f.state, telegram.Launch{})

	_, err := b.Run(context.Background())
	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.CodeOf(err))
	assert.Empty(t, f.srv.Calls())
}
