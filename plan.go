package orb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/bag"
	"github.com/telnet2/orb-sdk-go/packages/enum"
	"github.com/telnet2/orb-sdk-go/packages/pagination"
)

// PlanService contains methods and other services that help with interacting
// with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewPlanService] method instead.
type PlanService struct {
	Options []option.RequestOption
}

// NewPlanService generates a new service that applies the given options to
// each request. These options are applied after the parent client's options (if
// there is one), and before any request-specific options.
func NewPlanService(opts ...option.RequestOption) (r PlanService) {
	r = PlanService{}
	r.Options = opts
	return
}

// New creates a plan with its prices.
func (r *PlanService) New(ctx context.Context, body PlanNewParams, opts ...option.RequestOption) (res *Plan, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "plans"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

func (r *PlanService) Get(ctx context.Context, planID string, opts ...option.RequestOption) (res *Plan, err error) {
	opts = slices.Concat(r.Options, opts)
	if planID == "" {
		err = errors.New("missing required plan_id parameter")
		return
	}
	path := fmt.Sprintf("plans/%s", url.PathEscape(planID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

// List returns the plans of the account, most recently created first.
func (r *PlanService) List(ctx context.Context, query PlanListParams, opts ...option.RequestOption) (res *pagination.Page[Plan], err error) {
	opts = slices.Concat(r.Options, opts)
	path := "plans"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

// ListAutoPaging iterates over every plan, requesting pages as needed.
func (r *PlanService) ListAutoPaging(ctx context.Context, query PlanListParams, opts ...option.RequestOption) *pagination.PageAutoPager[Plan] {
	return pagination.NewPageAutoPager(r.List(ctx, query, opts...))
}

// The Plan resource represents a plan that can be subscribed to by a customer.
// Plans define the billing behavior of the subscription.
type Plan struct {
	bag.Bag
}

func (r Plan) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r Plan) Name() (string, error) {
	return bag.Get[string](&r.Bag, "name")
}

func (r Plan) Description() (string, error) {
	return bag.Get[string](&r.Bag, "description")
}

func (r Plan) ExternalPlanID() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "external_plan_id")
}

func (r Plan) Status() (enum.Value[PlanStatus], error) {
	return bag.Get[enum.Value[PlanStatus]](&r.Bag, "status")
}

func (r Plan) Currency() (string, error) {
	return bag.Get[string](&r.Bag, "currency")
}

// Prices are the prices billed by the plan, each of any pricing model.
func (r Plan) Prices() ([]Price, error) {
	return bag.Get[[]Price](&r.Bag, "prices")
}

func (r Plan) DefaultInvoiceMemo() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "default_invoice_memo")
}

func (r Plan) NetTerms() (bag.Opt[int64], error) {
	return bag.GetNullable[int64](&r.Bag, "net_terms")
}

func (r Plan) Metadata() (Metadata, error) {
	return bag.Get[Metadata](&r.Bag, "metadata")
}

func (r Plan) CreatedAt() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "created_at")
}

func (r Plan) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.Name()),
		bag.Check(r.Description()),
		bag.Check(r.ExternalPlanID()),
		bag.Check(r.Status()),
		bag.Check(r.Currency()),
		bag.Check(r.Prices()),
		bag.Check(r.DefaultInvoiceMemo()),
		bag.Check(r.NetTerms()),
		bag.Check(r.Metadata()),
		bag.Check(r.CreatedAt()),
	)
}

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusArchived PlanStatus = "archived"
	PlanStatusDraft    PlanStatus = "draft"
)

func (r PlanStatus) IsKnown() bool {
	switch r {
	case PlanStatusActive, PlanStatusArchived, PlanStatusDraft:
		return true
	}
	return false
}

func (PlanStatus) Values() []PlanStatus {
	return []PlanStatus{PlanStatusActive, PlanStatusArchived, PlanStatusDraft}
}

type PlanNewParams struct {
	bag.Bag
}

func NewPlanNewParams(name, currency string, prices ...PriceNewParams) PlanNewParams {
	var r PlanNewParams
	r.Set("name", name)
	r.Set("currency", currency)
	if prices == nil {
		prices = []PriceNewParams{}
	}
	r.Set("prices", prices)
	return r
}

func (r *PlanNewParams) SetExternalPlanID(v string) { r.Set("external_plan_id", v) }

func (r *PlanNewParams) SetDefaultInvoiceMemo(v string) { r.Set("default_invoice_memo", v) }

func (r *PlanNewParams) SetNetTerms(v int64) { r.Set("net_terms", v) }

func (r *PlanNewParams) SetMetadata(v Metadata) { r.Set("metadata", v) }

// SetStatus creates the plan as a draft instead of active.
func (r *PlanNewParams) SetStatus(v PlanStatus) { r.Set("status", v) }

type PlanListParams struct {
	PageParams
}

func (r *PlanListParams) SetStatus(v PlanStatus) { r.Set("status", v) }

func (r *PlanListParams) SetCreatedAt(f TimeFilter) {
	f.apply(&r.Bag, "created_at")
}
