package response_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexios-labs/nexios-go/core/response"
)

func TestStream(t *testing.T) {
	t.Parallel()

	t.Run("writes chunks", func(t *testing.T) {
		t.Parallel()

		resp := response.Stream(func(w io.Writer) error {
			for i := 0; i < 3; i++ {
				if _, err := fmt.Fprintf(w, "chunk %d\n", i); err != nil {
					return err
				}
			}
			return nil
		})

		w := httptest.NewRecorder()
		require.NoError(t, resp(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
		assert.Equal(t, "chunk 0\nchunk 1\nchunk 2\n", w.Body.String())
	})

	t.Run("writer error surfaces after headers", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("source broke")
		resp := response.Stream(func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return wantErr
		})

		w := httptest.NewRecorder()
		err := resp(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})
}

func TestStreamJSON(t *testing.T) {
	t.Parallel()

	type row struct {
		ID int `json:"id"`
	}

	t.Run("renders ndjson", func(t *testing.T) {
		t.Parallel()

		items := make(chan any, 3)
		items <- row{ID: 1}
		items <- row{ID: 2}
		items <- row{ID: 3}
		close(items)

		w := httptest.NewRecorder()
		require.NoError(t, response.StreamJSON(items)(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))
		assert.Equal(t, "{\"id\":1}\n{\"id\":2}\n{\"id\":3}\n", w.Body.String())
	})

	t.Run("stops on context cancel", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		items := make(chan any) // never closed
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

		require.NoError(t, response.StreamJSON(items)(w, r))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("encode failure reports and continues", func(t *testing.T) {
		t.Parallel()

		items := make(chan any, 2)
		items <- make(chan int) // not marshalable
		items <- row{ID: 9}
		close(items)

		var reported []error
		opt := response.WithStreamErrorHandler(func(_ context.Context, err error) {
			reported = append(reported, err)
		})

		w := httptest.NewRecorder()
		require.NoError(t, response.StreamJSON(items, opt)(w, httptest.NewRequest(http.MethodGet, "/", nil)))

		require.Len(t, reported, 1)
		assert.Contains(t, w.Body.String(), `{"id":9}`)
	})
}
