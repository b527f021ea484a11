package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gdp-connector/internal/core/domain"
)

func TestTokenStore_LoadEmpty(t *testing.T) {
	store := NewTokenStore()

	tok, err := store.Load(context.Background())

	assert.Nil(t, tok)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestTokenStore_SaveAndLoad(t *testing.T) {
	store := NewTokenStore()
	want := domain.Token{
		AccessToken:  "ya29.a",
		RefreshToken: "1//r",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Scopes:       []string{"https://www.googleapis.com/auth/drive"},
	}

	require.NoError(t, store.Save(context.Background(), want))
	got, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestTokenStore_Overwrite(t *testing.T) {
	store := NewTokenStore()
	require.NoError(t, store.Save(context.Background(), domain.Token{AccessToken: "old"}))
	require.NoError(t, store.Save(context.Background(), domain.Token{AccessToken: "new"}))

	got, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "new", got.AccessToken)
}

func TestTokenStore_ReturnsCopies(t *testing.T) {
	store := NewTokenStore()
	scopes := []string{"a"}
	require.NoError(t, store.Save(context.Background(), domain.Token{AccessToken: "x", Scopes: scopes}))

	scopes[0] = "changed"
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	got.AccessToken = "mutated"
	got.Scopes[0] = "mutated"

	again, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", again.AccessToken)
	assert.Equal(t, []string{"a"}, again.Scopes)
}

func TestTokenStore_Location(t *testing.T) {
	assert.Equal(t, ":memory:", NewTokenStore().Location())
}

func TestTokenStore_ConcurrentAccess(t *testing.T) {
	store := NewTokenStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Save(context.Background(), domain.Token{AccessToken: "t"})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Load(context.Background())
		}()
	}
	wg.Wait()

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t", got.AccessToken)
}
