package storage

import (
	"testing"

	"github.com/multichain-wallet/multichain-wallet/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVRoundtrip(t *testing.T) {
	kv := NewMemoryKV()

	_, ok, err := kv.Get(t.Context(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(t.Context(), "k", []byte("v")))
	got, ok, err := kv.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, kv.Delete(t.Context(), "k"))
	_, ok, err = kv.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryKVApplySwapsRecords(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(t.Context(), "old", []byte("1")))

	err := kv.Apply(t.Context(), map[string][]byte{"new": []byte("2")}, []string{"old"})
	require.NoError(t, err)

	_, ok, err := kv.Get(t.Context(), "old")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := kv.Get(t.Context(), "new")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), got)
}

func TestMemoryKVCopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	value := []byte("secret")
	require.NoError(t, kv.Set(t.Context(), "k", value))

	value[0] = 'X'
	got, _, err := kv.Get(t.Context(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), got, "stored value is isolated from the caller's buffer")
}

func TestMemoryTokenStoreInsertionOrder(t *testing.T) {
	store := NewMemoryTokenStore()

	first := types.TokenDescriptor{ChainID: "ethereum", Address: "0x1", Symbol: "AAA"}
	second := types.TokenDescriptor{ChainID: "ethereum", Address: "0x2", Symbol: "BBB"}
	require.NoError(t, store.Add(t.Context(), first))
	require.NoError(t, store.Add(t.Context(), second))

	tokens, err := store.ListByChain(t.Context(), "ethereum")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "AAA", tokens[0].Symbol)

	other, err := store.ListByChain(t.Context(), "polygon")
	require.NoError(t, err)
	assert.Empty(t, other)
}
