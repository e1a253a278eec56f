package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func exerciseLedger(t *testing.T, l Ledger) {
	t.Helper()
	ctx := context.Background()

	seen, err := l.Seen(ctx, "papers", "oai:1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, l.Record(ctx, "papers", "oai:1", "doc-1"))
	require.NoError(t, l.Record(ctx, "papers", "oai:1", "doc-other"), "recording twice is not an error")

	seen, err = l.Seen(ctx, "papers", "oai:1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = l.Seen(ctx, "other", "oai:1")
	require.NoError(t, err)
	assert.False(t, seen, "entries are per collection")

	// the first document id was kept, so forgetting the second is a no-op
	require.NoError(t, l.Forget(ctx, "papers", "doc-other"))
	seen, err = l.Seen(ctx, "papers", "oai:1")
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, l.Forget(ctx, "papers", "doc-1"))
	seen, err = l.Seen(ctx, "papers", "oai:1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemory(t *testing.T) {
	exerciseLedger(t, NewMemory())
}

func TestNew_DisabledUsesMemory(t *testing.T) {
	l, err := New(Params{Config: DefaultConfig()})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, l)
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "host=localhost port=5432 user=postgres password= dbname=scholar_index sslmode=disable", cfg.DSN())
	assert.NoError(t, cfg.Validate())

	cfg.Enabled = true
	assert.NoError(t, cfg.Validate())

	cfg.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, TranslateError(nil))

	err := TranslateError(gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	other := errors.New("boom")
	assert.Equal(t, other, TranslateError(other))
}
