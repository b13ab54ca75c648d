package apiquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/orb-sdk-go/packages/bag"
)

func TestMarshalBag(t *testing.T) {
	var b bag.Bag
	b.Set("limit", 20)
	b.Set("cursor", "abc")
	b.Set("created_at", map[string]any{"gte": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	b.Set("status", []string{"issued", "paid"})
	b.SetNull("external_customer_id")
	b.Set("debug", true)

	q, err := MarshalWithSettings(b, QuerySettings{
		ArrayFormat:  ArrayQueryFormatComma,
		NestedFormat: NestedQueryFormatBrackets,
	})
	require.NoError(t, err)

	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "abc", q.Get("cursor"))
	assert.Equal(t, "2024-01-02T00:00:00Z", q.Get("created_at[gte]"))
	assert.Equal(t, "issued,paid", q.Get("status"))
	assert.Equal(t, "true", q.Get("debug"))
	assert.False(t, q.Has("external_customer_id"))
}

func TestArrayFormats(t *testing.T) {
	var b bag.Bag
	b.Set("id", []string{"a", "b"})

	q, err := MarshalWithSettings(b, QuerySettings{ArrayFormat: ArrayQueryFormatRepeat})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, q["id"])

	q, err = MarshalWithSettings(b, QuerySettings{ArrayFormat: ArrayQueryFormatBrackets})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, q["id[]"])
}

func TestNestedDots(t *testing.T) {
	var b bag.Bag
	b.Set("timeframe", map[string]string{"start": "x"})
	q, err := MarshalWithSettings(b, QuerySettings{NestedFormat: NestedQueryFormatDots})
	require.NoError(t, err)
	assert.Equal(t, "x", q.Get("timeframe.start"))
}

func TestMarshalEmptyAndInvalid(t *testing.T) {
	q, err := Marshal(bag.Bag{})
	require.NoError(t, err)
	assert.Empty(t, q)

	_, err = Marshal([]string{"a"})
	assert.Error(t, err)
}
