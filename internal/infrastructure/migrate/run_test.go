package migrate

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationsDir = "../../../migrations"

func TestMigrationsArePaired(t *testing.T) {
	src, err := (&file.File{}).Open("file://" + migrationsDir)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	version, err := src.First()
	require.NoError(t, err)
	for {
		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "version %d has no up migration", version)
		up.Close()
		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "version %d has no down migration", version)
		down.Close()

		next, err := src.Next(version)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, version+1, next)
		version = next
	}
	assert.Equal(t, uint(4), version)
}

func TestPaymentCodesAreUnbounded(t *testing.T) {
	src, err := (&file.File{}).Open("file://" + migrationsDir)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	up, _, err := src.ReadUp(4)
	require.NoError(t, err)
	defer up.Close()
	raw, err := io.ReadAll(up)
	require.NoError(t, err)

	sql := string(raw)
	assert.Contains(t, sql, "response_code TYPE TEXT")
	assert.Contains(t, sql, "auth_code TYPE TEXT")
	assert.False(t, strings.Contains(sql, "VARCHAR"))
}
