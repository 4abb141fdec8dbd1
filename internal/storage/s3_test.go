package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	t.Parallel()

	key1 := ObjectKey("backups", "dump.sql.gz")
	key2 := ObjectKey("backups", "dump.sql.gz")

	assert.True(t, strings.HasPrefix(key1, "backups/"))
	assert.True(t, strings.HasSuffix(key1, "-dump.sql.gz"))
	assert.NotEqual(t, key1, key2)
}
