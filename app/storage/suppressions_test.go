package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tg-censor/tg-censor/app/storage/engine"
)

func TestSuppressions_New(t *testing.T) {
	forEachEngine(t, func(t *testing.T, ctx context.Context, db *engine.SQL) {
		t.Run("create new table", func(t *testing.T) {
			_, err := NewSuppressions(ctx, db)
			require.NoError(t, err)
			defer db.Exec("DROP TABLE suppressions")

			var count int
			err = db.Get(&count, "SELECT COUNT(*) FROM suppressions")
			require.NoError(t, err)
			assert.Equal(t, 0, count) // empty but exists
		})

		t.Run("nil db connection", func(t *testing.T) {
			_, err := NewSuppressions(ctx, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "db connection is nil")
		})
	})
}

func TestSuppressions_Write(t *testing.T) {
	forEachEngine(t, func(t *testing.T, ctx context.Context, db *engine.SQL) {
		supps, err := NewSuppressions(ctx, db)
		require.NoError(t, err)
		defer db.Exec("DROP TABLE suppressions")

		t.Run("single record", func(t *testing.T) {
			sup := Suppression{
				UserID:   123,
				UserName: "mip5",
				Message:  "some classic insult",
				Matches:  []string{"class", "insult"},
			}
			err := supps.Write(ctx, sup)
			require.NoError(t, err)

			res, err := supps.Read(ctx, 10)
			require.NoError(t, err)
			require.Len(t, res, 1)
			assert.Equal(t, int64(123), res[0].UserID)
			assert.Equal(t, "mip5", res[0].UserName)
			assert.Equal(t, "some classic insult", res[0].Message)
			assert.Equal(t, []string{"class", "insult"}, res[0].Matches)
			assert.Equal(t, db.GID(), res[0].GID)
			assert.WithinDuration(t, time.Now(), res[0].Timestamp, 5*time.Second)
		})

		t.Run("nil matches", func(t *testing.T) {
			sup := Suppression{UserID: 456, UserName: "other", Message: "no details"}
			err := supps.Write(ctx, sup)
			require.NoError(t, err)

			res, err := supps.Read(ctx, 10)
			require.NoError(t, err)
			require.NotEmpty(t, res)
			assert.Empty(t, res[0].Matches)
		})
	})
}

func TestSuppressions_Read(t *testing.T) {
	forEachEngine(t, func(t *testing.T, ctx context.Context, db *engine.SQL) {
		supps, err := NewSuppressions(ctx, db)
		require.NoError(t, err)
		defer db.Exec("DROP TABLE suppressions")

		t.Run("empty table", func(t *testing.T) {
			res, err := supps.Read(ctx, 10)
			require.NoError(t, err)
			assert.Empty(t, res)
		})

		t.Run("limit and ordering", func(t *testing.T) {
			base := time.Now().Add(-time.Hour).Truncate(time.Second)
			for i := 0; i < 3; i++ {
				sup := Suppression{
					UserID:    int64(i + 1),
					UserName:  fmt.Sprintf("user%d", i+1),
					Message:   fmt.Sprintf("msg %d", i+1),
					Matches:   []string{"ass"},
					Timestamp: base.Add(time.Duration(i) * time.Minute),
				}
				require.NoError(t, supps.Write(ctx, sup))
			}

			res, err := supps.Read(ctx, 2)
			require.NoError(t, err)
			require.Len(t, res, 2)
			// newest first
			assert.Equal(t, "msg 3", res[0].Message)
			assert.Equal(t, "msg 2", res[1].Message)

			res, err = supps.Read(ctx, 10)
			require.NoError(t, err)
			assert.Len(t, res, 3)
		})
	})
}

func TestSuppressions_Count(t *testing.T) {
	forEachEngine(t, func(t *testing.T, ctx context.Context, db *engine.SQL) {
		supps, err := NewSuppressions(ctx, db)
		require.NoError(t, err)
		defer db.Exec("DROP TABLE suppressions")

		count, err := supps.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		for i := 0; i < 5; i++ {
			sup := Suppression{UserID: int64(i), UserName: fmt.Sprintf("user%d", i), Message: "blocked"}
			require.NoError(t, supps.Write(ctx, sup))
		}

		count, err = supps.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})
}
