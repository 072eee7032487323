package supabase

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestILike(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `title.ilike."*dune*"`, ILike("title", "dune"))
	assert.Equal(t, `title.ilike."*a, b (c)*"`, ILike("title", "a, b (c)"))
	assert.Equal(t, `title.ilike."*say \"hi\"*"`, ILike("title", `say "hi"`))
}

func TestParseContentRangeTotal(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"0-9/23": 23,
		"*/0":    0,
		"*/57":   57,
		"0-9/*":  0,
		"":       0,
	}
	for header, want := range tests {
		assert.Equal(t, want, parseContentRangeTotal(header), "header %q", header)
	}
}

func TestQueryExecute(t *testing.T) {
	t.Parallel()

	t.Run("count and filters", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/books", r.URL.Path)
			assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
			q := r.URL.Query()
			assert.Equal(t, "*", q.Get("select"))
			assert.Equal(t, "eq.fiction", q.Get("category"))
			assert.Equal(t, "10", q.Get("limit"))
			assert.Equal(t, "20", q.Get("offset"))
			w.Header().Set("Content-Range", "20-20/21")
			_, _ = w.Write([]byte(`[{"id":"b1"}]`))
		})

		var rows []map[string]any
		total, err := c.From("books").Select("*").Eq("category", "fiction").
			CountExact().Limit(10).Offset(20).Execute(context.Background(), &rows)
		require.NoError(t, err)
		assert.Equal(t, 21, total)
		assert.Len(t, rows, 1)
	})

	t.Run("range past end", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Range", "*/5")
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			_, _ = w.Write([]byte(`{"code":"PGRST103","message":"Requested range not satisfiable"}`))
		})

		var rows []map[string]any
		total, err := c.From("books").CountExact().Limit(10).Offset(50).Execute(context.Background(), &rows)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Empty(t, rows)
	})

	t.Run("no count requested", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Prefer"))
			_, _ = w.Write([]byte(`[]`))
		})

		var rows []map[string]any
		total, err := c.From("books").Execute(context.Background(), &rows)
		require.NoError(t, err)
		assert.Equal(t, -1, total)
	})
}

func TestQueryUpsertAndDelete(t *testing.T) {
	t.Parallel()

	t.Run("upsert", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "user_id,book_id", r.URL.Query().Get("on_conflict"))
			assert.Equal(t, "resolution=merge-duplicates,return=representation", r.Header.Get("Prefer"))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`[{"user_id":"u1","book_id":"b1"}]`))
		})

		var rows []map[string]any
		err := c.From("user_books").Upsert(context.Background(),
			map[string]string{"user_id": "u1", "book_id": "b1"}, "user_id,book_id", &rows)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "eq.u1", r.URL.Query().Get("id"))
			w.WriteHeader(http.StatusNoContent)
		})

		require.NoError(t, c.From("profiles").Eq("id", "u1").Delete(context.Background()))
	})
}
