// Package shared holds the models used by more than one service.
package shared

import (
	"github.com/shopspring/decimal"

	"github.com/telnet2/orb-sdk-go/packages/bag"
	"github.com/telnet2/orb-sdk-go/packages/enum"
	"github.com/telnet2/orb-sdk-go/packages/pagination"
	"github.com/telnet2/orb-sdk-go/packages/union"
)

// PaginationMetadata is the cursor block of every list response.
type PaginationMetadata = pagination.Metadata

// CustomerMinified identifies a customer inside another resource.
type CustomerMinified struct {
	bag.Bag
}

func (r CustomerMinified) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r CustomerMinified) ExternalCustomerID() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "external_customer_id")
}

func (r CustomerMinified) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.ExternalCustomerID()),
	)
}

// ItemSlim identifies an item inside another resource.
type ItemSlim struct {
	bag.Bag
}

func (r ItemSlim) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r ItemSlim) Name() (string, error) {
	return bag.Get[string](&r.Bag, "name")
}

func (r ItemSlim) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.Name()),
	)
}

// BillingCycleRelativeDate anchors a change to the billing cycle.
type BillingCycleRelativeDate string

const (
	BillingCycleRelativeDateStartOfTerm BillingCycleRelativeDate = "start_of_term"
	BillingCycleRelativeDateEndOfTerm   BillingCycleRelativeDate = "end_of_term"
)

func (r BillingCycleRelativeDate) IsKnown() bool {
	switch r {
	case BillingCycleRelativeDateStartOfTerm, BillingCycleRelativeDateEndOfTerm:
		return true
	}
	return false
}

func (BillingCycleRelativeDate) Values() []BillingCycleRelativeDate {
	return []BillingCycleRelativeDate{BillingCycleRelativeDateStartOfTerm, BillingCycleRelativeDateEndOfTerm}
}

// DiscountType is the discriminator of [Discount].
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeAmount     DiscountType = "amount"
	DiscountTypeTrial      DiscountType = "trial"
	DiscountTypeUsage      DiscountType = "usage"
)

func (r DiscountType) IsKnown() bool {
	switch r {
	case DiscountTypePercentage, DiscountTypeAmount, DiscountTypeTrial, DiscountTypeUsage:
		return true
	}
	return false
}

func (DiscountType) Values() []DiscountType {
	return []DiscountType{DiscountTypePercentage, DiscountTypeAmount, DiscountTypeTrial, DiscountTypeUsage}
}

// DiscountVariant is implemented by [PercentageDiscount], [AmountDiscount],
// [TrialDiscount] and [UsageDiscount].
type DiscountVariant interface {
	DiscountType() (enum.Value[DiscountType], error)
	AppliesToPriceIDs() ([]string, error)
	Reason() (bag.Opt[string], error)
	implDiscount()
}

// discountCommon holds the fields every discount shape carries.
type discountCommon struct {
	bag.Bag
}

func (r discountCommon) DiscountType() (enum.Value[DiscountType], error) {
	return bag.Get[enum.Value[DiscountType]](&r.Bag, "discount_type")
}

// AppliesToPriceIDs lists the prices the discount applies to. An empty list
// applies it to every price.
func (r discountCommon) AppliesToPriceIDs() ([]string, error) {
	return bag.Get[[]string](&r.Bag, "applies_to_price_ids")
}

func (r discountCommon) Reason() (bag.Opt[string], error) {
	return bag.GetOptional[string](&r.Bag, "reason")
}

func (r discountCommon) validate() error {
	return bag.First(
		bag.Check(r.DiscountType()),
		bag.Check(r.AppliesToPriceIDs()),
		bag.Check(r.Reason()),
	)
}

type PercentageDiscount struct {
	discountCommon
}

// NewPercentageDiscount builds a discount of percentage (between 0 and 1) on
// the given prices.
func NewPercentageDiscount(percentage float64, priceIDs ...string) PercentageDiscount {
	var r PercentageDiscount
	r.Set("discount_type", DiscountTypePercentage)
	r.Set("percentage_discount", percentage)
	r.Set("applies_to_price_ids", nonNil(priceIDs))
	return r
}

func (PercentageDiscount) implDiscount() {}

// PercentageDiscount is between 0 and 1.
func (r PercentageDiscount) PercentageDiscount() (float64, error) {
	return bag.Get[float64](&r.Bag, "percentage_discount")
}

func (r PercentageDiscount) Validate() error {
	return bag.First(r.validate(), bag.Check(r.PercentageDiscount()))
}

type AmountDiscount struct {
	discountCommon
}

// NewAmountDiscount builds a fixed amount discount on the given prices.
func NewAmountDiscount(amount decimal.Decimal, priceIDs ...string) AmountDiscount {
	var r AmountDiscount
	r.Set("discount_type", DiscountTypeAmount)
	r.Set("amount_discount", amount)
	r.Set("applies_to_price_ids", nonNil(priceIDs))
	return r
}

func (AmountDiscount) implDiscount() {}

func (r AmountDiscount) AmountDiscount() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "amount_discount")
}

func (r AmountDiscount) Validate() error {
	return bag.First(r.validate(), bag.Check(r.AmountDiscount()))
}

type TrialDiscount struct {
	discountCommon
}

func (TrialDiscount) implDiscount() {}

func (r TrialDiscount) TrialAmountDiscount() (bag.Opt[decimal.Decimal], error) {
	return bag.GetOptional[decimal.Decimal](&r.Bag, "trial_amount_discount")
}

func (r TrialDiscount) TrialPercentageDiscount() (bag.Opt[float64], error) {
	return bag.GetOptional[float64](&r.Bag, "trial_percentage_discount")
}

func (r TrialDiscount) Validate() error {
	return bag.First(
		r.validate(),
		bag.Check(r.TrialAmountDiscount()),
		bag.Check(r.TrialPercentageDiscount()),
	)
}

type UsageDiscount struct {
	discountCommon
}

func (UsageDiscount) implDiscount() {}

// UsageDiscount is the number of usage units discounted.
func (r UsageDiscount) UsageDiscount() (float64, error) {
	return bag.Get[float64](&r.Bag, "usage_discount")
}

func (r UsageDiscount) Validate() error {
	return bag.First(r.validate(), bag.Check(r.UsageDiscount()))
}

var discountResolver = union.Discriminated[DiscountVariant]("Discount", "discount_type",
	union.Case[DiscountVariant, PercentageDiscount](string(DiscountTypePercentage)),
	union.Case[DiscountVariant, AmountDiscount](string(DiscountTypeAmount)),
	union.Case[DiscountVariant, TrialDiscount](string(DiscountTypeTrial)),
	union.Case[DiscountVariant, UsageDiscount](string(DiscountTypeUsage)),
)

// Discount is one of [PercentageDiscount], [AmountDiscount], [TrialDiscount]
// or [UsageDiscount], selected by "discount_type". Discounts of any other
// type fail to decode.
type Discount struct {
	union.Value[DiscountVariant]
}

// NewDiscount wraps a discount shape, typically to send it in a request.
func NewDiscount(variant DiscountVariant) Discount {
	return Discount{union.New(variant)}
}

func (r *Discount) UnmarshalJSON(data []byte) error {
	return discountResolver.UnmarshalInto(data, &r.Value)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
