package orb

import (
	"net/url"
	"reflect"
	"time"

	"github.com/telnet2/orb-sdk-go/internal/apiquery"
	"github.com/telnet2/orb-sdk-go/packages/bag"
)

var querySettings = apiquery.QuerySettings{
	ArrayFormat:  apiquery.ArrayQueryFormatComma,
	NestedFormat: apiquery.NestedQueryFormatBrackets,
}

// PageParams are the paging parameters accepted by every list endpoint.
type PageParams struct {
	bag.Bag
}

// SetLimit sets the number of items per page. The API defaults to 20.
func (r *PageParams) SetLimit(v int64) {
	r.Set("limit", v)
}

// SetCursor resumes a listing from a page's next_cursor.
func (r *PageParams) SetCursor(v string) {
	r.Set("cursor", v)
}

// URLQuery serializes the params into query parameters.
func (r PageParams) URLQuery() (v url.Values, err error) {
	return apiquery.MarshalWithSettings(r.Bag, querySettings)
}

// TimeFilter narrows a listing by a timestamp field. Zero bounds are not
// sent.
type TimeFilter struct {
	Gt, Gte, Lt, Lte time.Time
}

func (f TimeFilter) apply(b *bag.Bag, field string) {
	bounds := []struct {
		op string
		t  time.Time
	}{{"gt", f.Gt}, {"gte", f.Gte}, {"lt", f.Lt}, {"lte", f.Lte}}
	for _, bound := range bounds {
		if !bound.t.IsZero() {
			b.Set(field+"["+bound.op+"]", bound.t)
		}
	}
}

// Metadata is the free-form string map attached to most resources. Setting a
// key to null in an update removes it.
type Metadata map[string]string

// isNilBody reports whether a params interface is nil or holds a nil pointer.
func isNilBody(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
