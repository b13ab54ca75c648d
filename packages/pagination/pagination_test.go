package pagination_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/bag"
	"github.com/telnet2/orb-sdk-go/packages/pagination"
)

type item struct{ bag.Bag }

func (r item) ID() (string, error) { return bag.Get[string](&r.Bag, "id") }

func pagedServer(t *testing.T, seen *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = append(*seen, r.URL.RawQuery)
		assert.Equal(t, "/v1/items", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"data":[{"id":"a"},{"id":"b"}],"pagination_metadata":{"has_more":true,"next_cursor":"c1"}}`)
		case "c1":
			fmt.Fprint(w, `{"data":[],"pagination_metadata":{"has_more":true,"next_cursor":"c2"}}`)
		case "c2":
			fmt.Fprint(w, `{"data":[{"id":"c"}],"pagination_metadata":{"has_more":false,"next_cursor":null}}`)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func firstPage(t *testing.T, srv *httptest.Server) (*pagination.Page[item], error) {
	var page *pagination.Page[item]
	err := requestconfig.ExecuteNewRequest(context.Background(), http.MethodGet, "items", nil, &page,
		option.WithBaseURL(srv.URL+"/v1/"),
		option.WithQuery("limit", "2"),
	)
	return page, err
}

func TestPageGetNextPage(t *testing.T) {
	var seen []string
	srv := pagedServer(t, &seen)

	page, err := firstPage(t, srv)
	require.NoError(t, err)
	require.NotNil(t, page)
	require.NoError(t, page.Validate())

	data, err := page.Data()
	require.NoError(t, err)
	assert.Len(t, data, 2)

	meta, err := page.PaginationMetadata()
	require.NoError(t, err)
	more, _ := meta.HasMore()
	assert.True(t, more)

	next, err := page.GetNextPage()
	require.NoError(t, err)
	require.NotNil(t, next)
	data, err = next.Data()
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Contains(t, seen[1], "cursor=c1")
	assert.Contains(t, seen[1], "limit=2")

	last, err := next.GetNextPage()
	require.NoError(t, err)
	end, err := last.GetNextPage()
	require.NoError(t, err)
	assert.Nil(t, end)
}

func TestPageAutoPager(t *testing.T) {
	var seen []string
	srv := pagedServer(t, &seen)

	page, err := firstPage(t, srv)
	iter := pagination.NewPageAutoPager(page, err)
	var ids []string
	for iter.Next() {
		id, err := iter.Current().ID()
		require.NoError(t, err)
		ids = append(ids, id)
		assert.Equal(t, len(ids)-1, iter.Index())
	}
	require.NoError(t, iter.Err())
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Len(t, seen, 3)
}

func TestPageAutoPagerInitialError(t *testing.T) {
	iter := pagination.NewPageAutoPager[item](nil, fmt.Errorf("boom"))
	assert.False(t, iter.Next())
	assert.EqualError(t, iter.Err(), "boom")
}

func TestPageWithoutRequest(t *testing.T) {
	var page pagination.Page[item]
	require.NoError(t, page.UnmarshalJSON([]byte(`{"data":[],"pagination_metadata":{"has_more":true,"next_cursor":"x"}}`)))
	_, err := page.GetNextPage()
	assert.Error(t, err)
}
