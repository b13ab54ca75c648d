package orb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"

	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/bag"
	"github.com/telnet2/orb-sdk-go/packages/enum"
	"github.com/telnet2/orb-sdk-go/packages/pagination"
)

// MetricService contains methods and other services that help with
// interacting with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewMetricService] method instead.
type MetricService struct {
	Options []option.RequestOption
}

// NewMetricService generates a new service that applies the given options to
// each request. These options are applied after the parent client's options (if
// there is one), and before any request-specific options.
func NewMetricService(opts ...option.RequestOption) (r MetricService) {
	r = MetricService{}
	r.Options = opts
	return
}

// New creates a metric from a SQL query over the events table.
func (r *MetricService) New(ctx context.Context, body MetricNewParams, opts ...option.RequestOption) (res *BillableMetric, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "metrics"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

func (r *MetricService) Get(ctx context.Context, metricID string, opts ...option.RequestOption) (res *BillableMetric, err error) {
	opts = slices.Concat(r.Options, opts)
	if metricID == "" {
		err = errors.New("missing required metric_id parameter")
		return
	}
	path := fmt.Sprintf("metrics/%s", url.PathEscape(metricID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

func (r *MetricService) List(ctx context.Context, query MetricListParams, opts ...option.RequestOption) (res *pagination.Page[BillableMetric], err error) {
	opts = slices.Concat(r.Options, opts)
	path := "metrics"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

func (r *MetricService) ListAutoPaging(ctx context.Context, query MetricListParams, opts ...option.RequestOption) *pagination.PageAutoPager[BillableMetric] {
	return pagination.NewPageAutoPager(r.List(ctx, query, opts...))
}

// BillableMetric aggregates usage events into a quantity that usage prices
// are billed on.
type BillableMetric struct {
	bag.Bag
}

func (r BillableMetric) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r BillableMetric) Name() (string, error) {
	return bag.Get[string](&r.Bag, "name")
}

func (r BillableMetric) Description() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "description")
}

func (r BillableMetric) Status() (enum.Value[MetricStatus], error) {
	return bag.Get[enum.Value[MetricStatus]](&r.Bag, "status")
}

func (r BillableMetric) Item() (Item, error) {
	return bag.Get[Item](&r.Bag, "item")
}

func (r BillableMetric) Metadata() (Metadata, error) {
	return bag.Get[Metadata](&r.Bag, "metadata")
}

func (r BillableMetric) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.Name()),
		bag.Check(r.Description()),
		bag.Check(r.Status()),
		bag.Check(r.Item()),
		bag.Check(r.Metadata()),
	)
}

type MetricStatus string

const (
	MetricStatusActive   MetricStatus = "active"
	MetricStatusDraft    MetricStatus = "draft"
	MetricStatusArchived MetricStatus = "archived"
)

func (r MetricStatus) IsKnown() bool {
	switch r {
	case MetricStatusActive, MetricStatusDraft, MetricStatusArchived:
		return true
	}
	return false
}

func (MetricStatus) Values() []MetricStatus {
	return []MetricStatus{MetricStatusActive, MetricStatusDraft, MetricStatusArchived}
}

type MetricNewParams struct {
	bag.Bag
}

func NewMetricNewParams(name, itemID, sql string) MetricNewParams {
	var r MetricNewParams
	r.Set("name", name)
	r.Set("item_id", itemID)
	r.Set("sql", sql)
	return r
}

func (r *MetricNewParams) SetDescription(v string) { r.Set("description", v) }

func (r *MetricNewParams) SetMetadata(v Metadata) { r.Set("metadata", v) }

type MetricListParams struct {
	PageParams
}

func (r *MetricListParams) SetCreatedAt(f TimeFilter) {
	f.apply(&r.Bag, "created_at")
}
