package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/rowanfield/cartsync/internal/model"
)

// The blob format is a compatibility surface: older snapshots must keep
// loading after upgrades. The golden file pins the serialized form.
func TestSQLite_BlobFormat_Golden(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "cartsync.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 5, 1, 10, 5, 0, 0, time.UTC)

	items := []model.Item{
		{ID: "srv-1", Name: "Milk", Quantity: 2, UnitPrice: 3.5, Total: 7, CreatedAt: created, UpdatedAt: updated},
		{ID: "local-0001", Name: "Eggs", Quantity: 1, UnitPrice: 4.25, Total: 4.25, Completed: true, CreatedAt: created, UpdatedAt: created},
	}
	require.NoError(t, s.Save(ctx, items))

	var blob string
	require.NoError(t, s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshots WHERE key = 'items'`).Scan(&blob))

	g := goldie.New(t)
	g.Assert(t, "items_blob", []byte(blob))
}
