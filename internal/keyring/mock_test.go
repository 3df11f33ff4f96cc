package keyring

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_SetGetDelete(t *testing.T) {
	store := NewMockStore()

	require.NoError(t, store.Set(ServiceName, KeyToken, "token-1"))
	require.NoError(t, store.Set(ServiceName, KeyToken, "token-2"))

	got, err := store.Get(ServiceName, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "token-2", got)

	require.NoError(t, store.Delete(ServiceName, KeyToken))
	_, err = store.Get(ServiceName, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockStore_KeysAreScopedByService(t *testing.T) {
	store := NewMockStore().WithData("other", KeyToken, "foreign")

	_, err := store.Get(ServiceName, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockStore_RecordsCalls(t *testing.T) {
	store := NewMockStore().WithData(ServiceName, KeyToken, "seeded")

	_, _ = store.Get(ServiceName, KeyToken)
	_ = store.Delete(ServiceName, KeyToken)

	assert.Equal(t, []string{
		"get io.stocksage.sage/session_token",
		"delete io.stocksage.sage/session_token",
	}, store.Calls())
}

func TestMockStore_InjectedErrors(t *testing.T) {
	boom := errors.New("keyring locked")

	_, err := NewMockStore().WithGetError(boom).Get(ServiceName, KeyToken)
	assert.ErrorIs(t, err, boom)

	err = NewMockStore().WithSetError(boom).Set(ServiceName, KeyToken, "x")
	assert.ErrorIs(t, err, boom)

	err = NewMockStore().WithDeleteError(boom).Delete(ServiceName, KeyToken)
	assert.ErrorIs(t, err, boom)
}

func TestMockStore_ConcurrentAccess(t *testing.T) {
	store := NewMockStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set(ServiceName, KeyToken, "t")
			_, _ = store.Get(ServiceName, KeyToken)
			_ = store.Delete(ServiceName, KeyToken)
		}()
	}
	wg.Wait()

	assert.Len(t, store.Calls(), 60)
}
