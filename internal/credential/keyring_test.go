package credential

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/dailytasks/internal/model"
)

func TestResolveDSN(t *testing.T) {
	t.Parallel()

	lookup := func(key string) (string, error) {
		if key == "db" {
			return "postgres://secret@localhost/daily", nil
		}
		return "", ErrNotFound
	}

	dsn, err := resolveDSN(model.DatabaseConfig{DSN: "/tmp/x.db"}, lookup)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", dsn)

	dsn, err = resolveDSN(model.DatabaseConfig{DSN: "ignored", CredentialKey: "db"}, lookup)
	require.NoError(t, err)
	assert.Equal(t, "postgres://secret@localhost/daily", dsn)

	_, err = resolveDSN(model.DatabaseConfig{CredentialKey: "missing"}, lookup)
	assert.True(t, errors.Is(err, ErrNotFound))
}
