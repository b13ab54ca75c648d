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
	"github.com/telnet2/orb-sdk-go/packages/pagination"
	"github.com/telnet2/orb-sdk-go/shared"
)

// CouponService contains methods and other services that help with
// interacting with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewCouponService] method instead.
type CouponService struct {
	Options []option.RequestOption
}

// NewCouponService generates a new service that applies the given options to
// each request. These options are applied after the parent client's options (if
// there is one), and before any request-specific options.
func NewCouponService(opts ...option.RequestOption) (r CouponService) {
	r = CouponService{}
	r.Options = opts
	return
}

// New creates a coupon that can be redeemed on subscriptions with its
// redemption code.
func (r *CouponService) New(ctx context.Context, body CouponNewParams, opts ...option.RequestOption) (res *Coupon, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "coupons"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

func (r *CouponService) Get(ctx context.Context, couponID string, opts ...option.RequestOption) (res *Coupon, err error) {
	opts = slices.Concat(r.Options, opts)
	if couponID == "" {
		err = errors.New("missing required coupon_id parameter")
		return
	}
	path := fmt.Sprintf("coupons/%s", url.PathEscape(couponID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

// List returns the coupons of the account. Archived coupons are only
// included when asked for.
func (r *CouponService) List(ctx context.Context, query CouponListParams, opts ...option.RequestOption) (res *pagination.Page[Coupon], err error) {
	opts = slices.Concat(r.Options, opts)
	path := "coupons"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

func (r *CouponService) ListAutoPaging(ctx context.Context, query CouponListParams, opts ...option.RequestOption) *pagination.PageAutoPager[Coupon] {
	return pagination.NewPageAutoPager(r.List(ctx, query, opts...))
}

// Archive stops a coupon from being redeemed. Existing redemptions are kept.
func (r *CouponService) Archive(ctx context.Context, couponID string, opts ...option.RequestOption) (res *Coupon, err error) {
	opts = slices.Concat(r.Options, opts)
	if couponID == "" {
		err = errors.New("missing required coupon_id parameter")
		return
	}
	path := fmt.Sprintf("coupons/%s/archive", url.PathEscape(couponID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, nil, &res, opts...)
	return
}

// A coupon represents a reusable discount configuration that can be applied
// either as a fixed or percentage amount to an invoice or subscription.
type Coupon struct {
	bag.Bag
}

func (r Coupon) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r Coupon) RedemptionCode() (string, error) {
	return bag.Get[string](&r.Bag, "redemption_code")
}

func (r Coupon) Discount() (shared.Discount, error) {
	return bag.Get[shared.Discount](&r.Bag, "discount")
}

func (r Coupon) TimesRedeemed() (int64, error) {
	return bag.Get[int64](&r.Bag, "times_redeemed")
}

// DurationInMonths is the number of months the discount applies for, null
// for an unlimited duration.
func (r Coupon) DurationInMonths() (bag.Opt[int64], error) {
	return bag.GetNullable[int64](&r.Bag, "duration_in_months")
}

func (r Coupon) MaxRedemptions() (bag.Opt[int64], error) {
	return bag.GetNullable[int64](&r.Bag, "max_redemptions")
}

func (r Coupon) ArchivedAt() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "archived_at")
}

func (r Coupon) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.RedemptionCode()),
		bag.Check(r.Discount()),
		bag.Check(r.TimesRedeemed()),
		bag.Check(r.DurationInMonths()),
		bag.Check(r.MaxRedemptions()),
		bag.Check(r.ArchivedAt()),
	)
}

type CouponNewParams struct {
	bag.Bag
}

// NewCouponNewParams returns the params of a coupon granting discount, which
// is a [shared.PercentageDiscount] or a [shared.AmountDiscount].
func NewCouponNewParams(redemptionCode string, discount shared.DiscountVariant) CouponNewParams {
	var r CouponNewParams
	r.Set("redemption_code", redemptionCode)
	r.Set("discount", shared.NewDiscount(discount))
	return r
}

func (r *CouponNewParams) SetDurationInMonths(v int64) { r.Set("duration_in_months", v) }

func (r *CouponNewParams) SetMaxRedemptions(v int64) { r.Set("max_redemptions", v) }

type CouponListParams struct {
	PageParams
}

func (r *CouponListParams) SetRedemptionCode(v string) { r.Set("redemption_code", v) }

func (r *CouponListParams) SetShowArchived(v bool) { r.Set("show_archived", v) }
