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

// SubscriptionService contains methods and other services that help with
// interacting with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewSubscriptionService] method instead.
type SubscriptionService struct {
	Options []option.RequestOption
}

// NewSubscriptionService generates a new service that applies the given
// options to each request. These options are applied after the parent client's
// options (if there is one), and before any request-specific options.
func NewSubscriptionService(opts ...option.RequestOption) (r SubscriptionService) {
	r = SubscriptionService{}
	r.Options = opts
	return
}

// New subscribes a customer to a plan.
func (r *SubscriptionService) New(ctx context.Context, body SubscriptionNewParams, opts ...option.RequestOption) (res *Subscription, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "subscriptions"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

func (r *SubscriptionService) Get(ctx context.Context, subscriptionID string, opts ...option.RequestOption) (res *Subscription, err error) {
	opts = slices.Concat(r.Options, opts)
	if subscriptionID == "" {
		err = errors.New("missing required subscription_id parameter")
		return
	}
	path := fmt.Sprintf("subscriptions/%s", url.PathEscape(subscriptionID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

func (r *SubscriptionService) List(ctx context.Context, query SubscriptionListParams, opts ...option.RequestOption) (res *pagination.Page[Subscription], err error) {
	opts = slices.Concat(r.Options, opts)
	path := "subscriptions"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

func (r *SubscriptionService) ListAutoPaging(ctx context.Context, query SubscriptionListParams, opts ...option.RequestOption) *pagination.PageAutoPager[Subscription] {
	return pagination.NewPageAutoPager(r.List(ctx, query, opts...))
}

// Cancel ends a subscription, immediately, at the end of its term or on a
// requested date.
func (r *SubscriptionService) Cancel(ctx context.Context, subscriptionID string, body SubscriptionCancelParams, opts ...option.RequestOption) (res *Subscription, err error) {
	opts = slices.Concat(r.Options, opts)
	if subscriptionID == "" {
		err = errors.New("missing required subscription_id parameter")
		return
	}
	path := fmt.Sprintf("subscriptions/%s/cancel", url.PathEscape(subscriptionID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

// Subscription binds a customer to a plan for a period of time.
type Subscription struct {
	bag.Bag
}

func (r Subscription) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r Subscription) Customer() (Customer, error) {
	return bag.Get[Customer](&r.Bag, "customer")
}

func (r Subscription) Plan() (Plan, error) {
	return bag.Get[Plan](&r.Bag, "plan")
}

func (r Subscription) Status() (enum.Value[SubscriptionStatus], error) {
	return bag.Get[enum.Value[SubscriptionStatus]](&r.Bag, "status")
}

func (r Subscription) StartDate() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "start_date")
}

func (r Subscription) EndDate() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "end_date")
}

func (r Subscription) CurrentBillingPeriodStartDate() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "current_billing_period_start_date")
}

func (r Subscription) CurrentBillingPeriodEndDate() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "current_billing_period_end_date")
}

// AutoCollection falls back to the customer's setting when null.
func (r Subscription) AutoCollection() (bag.Opt[bool], error) {
	return bag.GetNullable[bool](&r.Bag, "auto_collection")
}

func (r Subscription) NetTerms() (int64, error) {
	return bag.Get[int64](&r.Bag, "net_terms")
}

func (r Subscription) Metadata() (Metadata, error) {
	return bag.Get[Metadata](&r.Bag, "metadata")
}

func (r Subscription) CreatedAt() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "created_at")
}

func (r Subscription) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.Customer()),
		bag.Check(r.Plan()),
		bag.Check(r.Status()),
		bag.Check(r.StartDate()),
		bag.Check(r.EndDate()),
		bag.Check(r.CurrentBillingPeriodStartDate()),
		bag.Check(r.CurrentBillingPeriodEndDate()),
		bag.Check(r.AutoCollection()),
		bag.Check(r.NetTerms()),
		bag.Check(r.Metadata()),
		bag.Check(r.CreatedAt()),
	)
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusEnded    SubscriptionStatus = "ended"
	SubscriptionStatusUpcoming SubscriptionStatus = "upcoming"
)

func (r SubscriptionStatus) IsKnown() bool {
	switch r {
	case SubscriptionStatusActive, SubscriptionStatusEnded, SubscriptionStatusUpcoming:
		return true
	}
	return false
}

func (SubscriptionStatus) Values() []SubscriptionStatus {
	return []SubscriptionStatus{SubscriptionStatusActive, SubscriptionStatusEnded, SubscriptionStatusUpcoming}
}

type SubscriptionCancelOption string

const (
	SubscriptionCancelOptionEndOfSubscriptionTerm SubscriptionCancelOption = "end_of_subscription_term"
	SubscriptionCancelOptionImmediate             SubscriptionCancelOption = "immediate"
	SubscriptionCancelOptionRequestedDate         SubscriptionCancelOption = "requested_date"
)

func (r SubscriptionCancelOption) IsKnown() bool {
	switch r {
	case SubscriptionCancelOptionEndOfSubscriptionTerm, SubscriptionCancelOptionImmediate, SubscriptionCancelOptionRequestedDate:
		return true
	}
	return false
}

func (SubscriptionCancelOption) Values() []SubscriptionCancelOption {
	return []SubscriptionCancelOption{
		SubscriptionCancelOptionEndOfSubscriptionTerm,
		SubscriptionCancelOptionImmediate,
		SubscriptionCancelOptionRequestedDate,
	}
}

type SubscriptionNewParams struct {
	bag.Bag
}

func (r *SubscriptionNewParams) SetCustomerID(v string) { r.Set("customer_id", v) }

func (r *SubscriptionNewParams) SetExternalCustomerID(v string) { r.Set("external_customer_id", v) }

func (r *SubscriptionNewParams) SetPlanID(v string) { r.Set("plan_id", v) }

func (r *SubscriptionNewParams) SetExternalPlanID(v string) { r.Set("external_plan_id", v) }

func (r *SubscriptionNewParams) SetStartDate(v time.Time) { r.Set("start_date", v) }

func (r *SubscriptionNewParams) SetNetTerms(v int64) { r.Set("net_terms", v) }

func (r *SubscriptionNewParams) SetAutoCollection(v bool) { r.Set("auto_collection", v) }

func (r *SubscriptionNewParams) SetCouponRedemptionCode(v string) {
	r.Set("coupon_redemption_code", v)
}

func (r *SubscriptionNewParams) SetMetadata(v Metadata) { r.Set("metadata", v) }

// Validate reports a request naming neither a customer nor a plan.
func (r SubscriptionNewParams) Validate() error {
	if !r.Has("customer_id") && !r.Has("external_customer_id") {
		return fmt.Errorf("%w customer_id or external_customer_id", bag.ErrMissingField)
	}
	if !r.Has("plan_id") && !r.Has("external_plan_id") {
		return fmt.Errorf("%w plan_id or external_plan_id", bag.ErrMissingField)
	}
	return nil
}

type SubscriptionListParams struct {
	PageParams
}

func (r *SubscriptionListParams) SetCustomerID(v string) { r.Set("customer_id", v) }

func (r *SubscriptionListParams) SetExternalCustomerID(v string) { r.Set("external_customer_id", v) }

func (r *SubscriptionListParams) SetStatus(v SubscriptionStatus) { r.Set("status", v) }

func (r *SubscriptionListParams) SetCreatedAt(f TimeFilter) {
	f.apply(&r.Bag, "created_at")
}

type SubscriptionCancelParams struct {
	bag.Bag
}

func NewSubscriptionCancelParams(cancelOption SubscriptionCancelOption) SubscriptionCancelParams {
	var r SubscriptionCancelParams
	r.Set("cancel_option", cancelOption)
	return r
}

// SetCancellationDate is required with [SubscriptionCancelOptionRequestedDate].
func (r *SubscriptionCancelParams) SetCancellationDate(v time.Time) {
	r.Set("cancellation_date", v)
}

func (r SubscriptionCancelParams) Validate() error {
	cancelOption, err := bag.Get[enum.Value[SubscriptionCancelOption]](&r.Bag, "cancel_option")
	if err != nil {
		return err
	}
	if err := cancelOption.Validate(); err != nil {
		return err
	}
	if cancelOption.Is(SubscriptionCancelOptionRequestedDate) {
		return bag.Check(bag.Get[time.Time](&r.Bag, "cancellation_date"))
	}
	return nil
}
