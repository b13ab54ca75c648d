package orb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/bag"
	"github.com/telnet2/orb-sdk-go/packages/enum"
	"github.com/telnet2/orb-sdk-go/packages/pagination"
	"github.com/telnet2/orb-sdk-go/packages/union"
)

// CustomerCreditService contains methods and other services that help with
// interacting with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewCustomerCreditService] method instead.
type CustomerCreditService struct {
	Options []option.RequestOption
	Ledger  CustomerCreditLedgerService
}

// NewCustomerCreditService generates a new service that applies the given
// options to each request. These options are applied after the parent client's
// options (if there is one), and before any request-specific options.
func NewCustomerCreditService(opts ...option.RequestOption) (r CustomerCreditService) {
	r = CustomerCreditService{}
	r.Options = opts
	r.Ledger = NewCustomerCreditLedgerService(opts...)
	return
}

// Returns a paginated list of unexpired, non-zero credit blocks for a
// customer.
func (r *CustomerCreditService) List(ctx context.Context, customerID string, query CustomerCreditListParams, opts ...option.RequestOption) (res *pagination.Page[CreditBlock], err error) {
	opts = slices.Concat(r.Options, opts)
	if customerID == "" {
		err = errors.New("missing required customer_id parameter")
		return
	}
	path := fmt.Sprintf("customers/%s/credits", url.PathEscape(customerID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

// ListAutoPaging iterates over every credit block of the customer.
func (r *CustomerCreditService) ListAutoPaging(ctx context.Context, customerID string, query CustomerCreditListParams, opts ...option.RequestOption) *pagination.PageAutoPager[CreditBlock] {
	return pagination.NewPageAutoPager(r.List(ctx, customerID, query, opts...))
}

// CreditBlock is a balance of prepaid credits with its own cost basis and
// expiry.
type CreditBlock struct {
	bag.Bag
}

func (r CreditBlock) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r CreditBlock) Balance() (float64, error) {
	return bag.Get[float64](&r.Bag, "balance")
}

func (r CreditBlock) EffectiveDate() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "effective_date")
}

func (r CreditBlock) ExpiryDate() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "expiry_date")
}

// ExpiryPolicy describes when the block expires, either as a date or as a
// duration from its effective date.
func (r CreditBlock) ExpiryPolicy() (bag.Opt[ExpiryPolicy], error) {
	return bag.GetOptional[ExpiryPolicy](&r.Bag, "expiry_policy")
}

func (r CreditBlock) MaximumInitialBalance() (bag.Opt[float64], error) {
	return bag.GetNullable[float64](&r.Bag, "maximum_initial_balance")
}

func (r CreditBlock) PerUnitCostBasis() (bag.Opt[decimal.Decimal], error) {
	return bag.GetNullable[decimal.Decimal](&r.Bag, "per_unit_cost_basis")
}

func (r CreditBlock) Status() (enum.Value[CreditBlockStatus], error) {
	return bag.Get[enum.Value[CreditBlockStatus]](&r.Bag, "status")
}

func (r CreditBlock) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.Balance()),
		bag.Check(r.EffectiveDate()),
		bag.Check(r.ExpiryDate()),
		bag.Check(r.ExpiryPolicy()),
		bag.Check(r.MaximumInitialBalance()),
		bag.Check(r.PerUnitCostBasis()),
		bag.Check(r.Status()),
	)
}

type CreditBlockStatus string

const (
	CreditBlockStatusActive         CreditBlockStatus = "active"
	CreditBlockStatusPendingPayment CreditBlockStatus = "pending_payment"
)

func (r CreditBlockStatus) IsKnown() bool {
	switch r {
	case CreditBlockStatusActive, CreditBlockStatusPendingPayment:
		return true
	}
	return false
}

func (CreditBlockStatus) Values() []CreditBlockStatus {
	return []CreditBlockStatus{CreditBlockStatusActive, CreditBlockStatusPendingPayment}
}

// ExpiryPolicyVariant is implemented by [ExpiryPolicyDate] and
// [ExpiryPolicyDuration].
type ExpiryPolicyVariant interface {
	implExpiryPolicy()
}

// ExpiryPolicyDate expires the block at a fixed time. It is sent as an
// RFC 3339 string.
type ExpiryPolicyDate struct {
	time.Time
}

func (ExpiryPolicyDate) implExpiryPolicy() {}

// ExpiryPolicyDuration expires the block a number of units after it takes
// effect.
type ExpiryPolicyDuration struct {
	bag.Bag
}

// NewExpiryPolicyDuration returns a policy expiring the block n units after
// it takes effect.
func NewExpiryPolicyDuration(n int64, unit ExpiryDurationUnit) ExpiryPolicyDuration {
	var r ExpiryPolicyDuration
	r.Set("duration", n)
	r.Set("duration_unit", unit)
	return r
}

func (ExpiryPolicyDuration) implExpiryPolicy() {}

func (r ExpiryPolicyDuration) Duration() (int64, error) {
	return bag.Get[int64](&r.Bag, "duration")
}

func (r ExpiryPolicyDuration) DurationUnit() (enum.Value[ExpiryDurationUnit], error) {
	return bag.Get[enum.Value[ExpiryDurationUnit]](&r.Bag, "duration_unit")
}

func (r ExpiryPolicyDuration) Validate() error {
	return bag.First(
		bag.Check(r.Duration()),
		bag.Check(r.DurationUnit()),
	)
}

type ExpiryDurationUnit string

const (
	ExpiryDurationUnitDay   ExpiryDurationUnit = "day"
	ExpiryDurationUnitMonth ExpiryDurationUnit = "month"
)

func (r ExpiryDurationUnit) IsKnown() bool {
	switch r {
	case ExpiryDurationUnitDay, ExpiryDurationUnitMonth:
		return true
	}
	return false
}

func (ExpiryDurationUnit) Values() []ExpiryDurationUnit {
	return []ExpiryDurationUnit{ExpiryDurationUnitDay, ExpiryDurationUnitMonth}
}

var expiryPolicyResolver = union.Trial[ExpiryPolicyVariant]("ExpiryPolicy",
	union.Case[ExpiryPolicyVariant, ExpiryPolicyDate](""),
	union.Case[ExpiryPolicyVariant, ExpiryPolicyDuration](""),
)

// ExpiryPolicy is one of [ExpiryPolicyDate] or [ExpiryPolicyDuration]. The
// payload carries no discriminator; the first shape that decodes and
// validates is used.
type ExpiryPolicy struct {
	union.Value[ExpiryPolicyVariant]
}

// NewExpiryPolicy wraps a policy shape to send it in a request.
func NewExpiryPolicy(variant ExpiryPolicyVariant) ExpiryPolicy {
	return ExpiryPolicy{union.New(variant)}
}

func (r *ExpiryPolicy) UnmarshalJSON(data []byte) error {
	return expiryPolicyResolver.UnmarshalInto(data, &r.Value)
}

type CustomerCreditListParams struct {
	PageParams
}

// SetCurrency limits the blocks to one currency. Credits in the custom
// pricing unit are returned when unset.
func (r *CustomerCreditListParams) SetCurrency(v string) {
	r.Set("currency", v)
}

// SetIncludeAllBlocks also returns expired and depleted blocks.
func (r *CustomerCreditListParams) SetIncludeAllBlocks(v bool) {
	r.Set("include_all_blocks", v)
}
