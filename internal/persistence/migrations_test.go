package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingMigrations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		filenames []string
		applied   map[string]bool
		want      []string
	}{
		{
			name:      "fresh database applies everything in order",
			filenames: []string{"0002_add_index.sql", "0001_create_users.sql"},
			applied:   map[string]bool{},
			want:      []string{"0001_create_users.sql", "0002_add_index.sql"},
		},
		{
			name:      "applied versions are skipped",
			filenames: []string{"0001_create_users.sql", "0002_add_index.sql"},
			applied:   map[string]bool{"0001_create_users.sql": true},
			want:      []string{"0002_add_index.sql"},
		},
		{
			name:      "up to date database has nothing pending",
			filenames: []string{"0001_create_users.sql"},
			applied:   map[string]bool{"0001_create_users.sql": true},
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pendingMigrations(tt.filenames, tt.applied))
		})
	}
}
