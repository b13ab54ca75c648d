package orb

import (
	"context"
	"encoding/json"
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
	"github.com/telnet2/orb-sdk-go/shared"
)

// PriceService contains methods and other services that help with interacting
// with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewPriceService] method instead.
type PriceService struct {
	Options []option.RequestOption
}

// NewPriceService generates a new service that applies the given options to
// each request. These options are applied after the parent client's options (if
// there is one), and before any request-specific options.
func NewPriceService(opts ...option.RequestOption) (r PriceService) {
	r = PriceService{}
	r.Options = opts
	return
}

// New creates a price outside of any plan. The pricing model is selected by
// the params shape, see [PriceNewParams].
func (r *PriceService) New(ctx context.Context, body PriceNewParams, opts ...option.RequestOption) (res *Price, err error) {
	opts = slices.Concat(r.Options, opts)
	if isNilBody(body) {
		err = errors.New("missing required price body")
		return
	}
	path := "prices"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

// List returns every price of the account, including plan prices.
func (r *PriceService) List(ctx context.Context, query PriceListParams, opts ...option.RequestOption) (res *pagination.Page[Price], err error) {
	opts = slices.Concat(r.Options, opts)
	path := "prices"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

// ListAutoPaging iterates over every price, requesting pages as needed.
func (r *PriceService) ListAutoPaging(ctx context.Context, query PriceListParams, opts ...option.RequestOption) *pagination.PageAutoPager[Price] {
	return pagination.NewPageAutoPager(r.List(ctx, query, opts...))
}

func (r *PriceService) Get(ctx context.Context, priceID string, opts ...option.RequestOption) (res *Price, err error) {
	opts = slices.Concat(r.Options, opts)
	if priceID == "" {
		err = errors.New("missing required price_id parameter")
		return
	}
	path := fmt.Sprintf("prices/%s", url.PathEscape(priceID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

type PriceModelType string

const (
	PriceModelTypeUnit    PriceModelType = "unit"
	PriceModelTypePackage PriceModelType = "package"
	PriceModelTypeMatrix  PriceModelType = "matrix"
	PriceModelTypeTiered  PriceModelType = "tiered"
	PriceModelTypeBulk    PriceModelType = "bulk"
)

func (r PriceModelType) IsKnown() bool {
	switch r {
	case PriceModelTypeUnit, PriceModelTypePackage, PriceModelTypeMatrix, PriceModelTypeTiered, PriceModelTypeBulk:
		return true
	}
	return false
}

func (PriceModelType) Values() []PriceModelType {
	return []PriceModelType{PriceModelTypeUnit, PriceModelTypePackage, PriceModelTypeMatrix, PriceModelTypeTiered, PriceModelTypeBulk}
}

type PriceCadence string

const (
	PriceCadenceOneTime    PriceCadence = "one_time"
	PriceCadenceMonthly    PriceCadence = "monthly"
	PriceCadenceQuarterly  PriceCadence = "quarterly"
	PriceCadenceSemiAnnual PriceCadence = "semi_annual"
	PriceCadenceAnnual     PriceCadence = "annual"
	PriceCadenceCustom     PriceCadence = "custom"
)

func (r PriceCadence) IsKnown() bool {
	switch r {
	case PriceCadenceOneTime, PriceCadenceMonthly, PriceCadenceQuarterly, PriceCadenceSemiAnnual, PriceCadenceAnnual, PriceCadenceCustom:
		return true
	}
	return false
}

func (PriceCadence) Values() []PriceCadence {
	return []PriceCadence{PriceCadenceOneTime, PriceCadenceMonthly, PriceCadenceQuarterly, PriceCadenceSemiAnnual, PriceCadenceAnnual, PriceCadenceCustom}
}

type PricePriceType string

const (
	PricePriceTypeUsagePrice PricePriceType = "usage_price"
	PricePriceTypeFixedPrice PricePriceType = "fixed_price"
)

func (r PricePriceType) IsKnown() bool {
	switch r {
	case PricePriceTypeUsagePrice, PricePriceTypeFixedPrice:
		return true
	}
	return false
}

// PriceVariant is implemented by every pricing model. The fields common to
// all prices can be read without a type switch.
type PriceVariant interface {
	ID() (string, error)
	Name() (string, error)
	ModelType() (enum.Value[PriceModelType], error)
	Cadence() (enum.Value[PriceCadence], error)
	Currency() (string, error)
	Item() (shared.ItemSlim, error)
	implPrice()
}

// PriceCommon holds the fields shared by every price.
type PriceCommon struct {
	bag.Bag
}

func (PriceCommon) implPrice() {}

func (r PriceCommon) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r PriceCommon) Name() (string, error) {
	return bag.Get[string](&r.Bag, "name")
}

func (r PriceCommon) ExternalPriceID() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "external_price_id")
}

func (r PriceCommon) ModelType() (enum.Value[PriceModelType], error) {
	return bag.Get[enum.Value[PriceModelType]](&r.Bag, "model_type")
}

func (r PriceCommon) PriceType() (enum.Value[PricePriceType], error) {
	return bag.Get[enum.Value[PricePriceType]](&r.Bag, "price_type")
}

func (r PriceCommon) Cadence() (enum.Value[PriceCadence], error) {
	return bag.Get[enum.Value[PriceCadence]](&r.Bag, "cadence")
}

func (r PriceCommon) Currency() (string, error) {
	return bag.Get[string](&r.Bag, "currency")
}

func (r PriceCommon) Item() (shared.ItemSlim, error) {
	return bag.Get[shared.ItemSlim](&r.Bag, "item")
}

// BillableMetric is the metric a usage price is billed on, null for fixed
// prices.
func (r PriceCommon) BillableMetric() (bag.Opt[PriceBillableMetric], error) {
	return bag.GetNullable[PriceBillableMetric](&r.Bag, "billable_metric")
}

func (r PriceCommon) FixedPriceQuantity() (bag.Opt[float64], error) {
	return bag.GetNullable[float64](&r.Bag, "fixed_price_quantity")
}

func (r PriceCommon) PlanPhaseOrder() (bag.Opt[int64], error) {
	return bag.GetNullable[int64](&r.Bag, "plan_phase_order")
}

func (r PriceCommon) Discount() (bag.Opt[shared.Discount], error) {
	return bag.GetNullable[shared.Discount](&r.Bag, "discount")
}

func (r PriceCommon) CreatedAt() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "created_at")
}

func (r PriceCommon) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.Name()),
		bag.Check(r.ExternalPriceID()),
		bag.Check(r.ModelType()),
		bag.Check(r.PriceType()),
		bag.Check(r.Cadence()),
		bag.Check(r.Currency()),
		bag.Check(r.Item()),
		bag.Check(r.BillableMetric()),
		bag.Check(r.FixedPriceQuantity()),
		bag.Check(r.PlanPhaseOrder()),
		bag.Check(r.Discount()),
		bag.Check(r.CreatedAt()),
	)
}

type PriceBillableMetric struct {
	bag.Bag
}

func (r PriceBillableMetric) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r PriceBillableMetric) Validate() error {
	return bag.Check(r.ID())
}

// UnitPrice charges a fixed amount per unit of usage.
type UnitPrice struct {
	PriceCommon
}

func (r UnitPrice) UnitConfig() (UnitConfig, error) {
	return bag.Get[UnitConfig](&r.Bag, "unit_config")
}

func (r UnitPrice) Validate() error {
	return bag.First(r.PriceCommon.Validate(), bag.Check(r.UnitConfig()))
}

type UnitConfig struct {
	bag.Bag
}

func NewUnitConfig(unitAmount decimal.Decimal) UnitConfig {
	var r UnitConfig
	r.Set("unit_amount", unitAmount)
	return r
}

func (r UnitConfig) UnitAmount() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "unit_amount")
}

func (r UnitConfig) Validate() error {
	return bag.Check(r.UnitAmount())
}

// PackagePrice charges per started package of units.
type PackagePrice struct {
	PriceCommon
}

func (r PackagePrice) PackageConfig() (PackageConfig, error) {
	return bag.Get[PackageConfig](&r.Bag, "package_config")
}

func (r PackagePrice) Validate() error {
	return bag.First(r.PriceCommon.Validate(), bag.Check(r.PackageConfig()))
}

type PackageConfig struct {
	bag.Bag
}

func NewPackageConfig(packageAmount decimal.Decimal, packageSize int64) PackageConfig {
	var r PackageConfig
	r.Set("package_amount", packageAmount)
	r.Set("package_size", packageSize)
	return r
}

func (r PackageConfig) PackageAmount() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "package_amount")
}

func (r PackageConfig) PackageSize() (int64, error) {
	return bag.Get[int64](&r.Bag, "package_size")
}

func (r PackageConfig) Validate() error {
	return bag.First(bag.Check(r.PackageAmount()), bag.Check(r.PackageSize()))
}

// MatrixPrice charges a unit amount that depends on event dimensions.
type MatrixPrice struct {
	PriceCommon
}

func (r MatrixPrice) MatrixConfig() (MatrixConfig, error) {
	return bag.Get[MatrixConfig](&r.Bag, "matrix_config")
}

func (r MatrixPrice) Validate() error {
	return bag.First(r.PriceCommon.Validate(), bag.Check(r.MatrixConfig()))
}

type MatrixConfig struct {
	bag.Bag
}

func (r MatrixConfig) DefaultUnitAmount() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "default_unit_amount")
}

// Dimensions are the event properties the matrix is keyed on. A null entry
// matches events missing the property.
func (r MatrixConfig) Dimensions() ([]*string, error) {
	return bag.Get[[]*string](&r.Bag, "dimensions")
}

func (r MatrixConfig) MatrixValues() ([]MatrixValue, error) {
	return bag.Get[[]MatrixValue](&r.Bag, "matrix_values")
}

func (r MatrixConfig) Validate() error {
	return bag.First(
		bag.Check(r.DefaultUnitAmount()),
		bag.Check(r.Dimensions()),
		bag.Check(r.MatrixValues()),
	)
}

type MatrixValue struct {
	bag.Bag
}

func (r MatrixValue) DimensionValues() ([]*string, error) {
	return bag.Get[[]*string](&r.Bag, "dimension_values")
}

func (r MatrixValue) UnitAmount() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "unit_amount")
}

func (r MatrixValue) Validate() error {
	return bag.First(bag.Check(r.DimensionValues()), bag.Check(r.UnitAmount()))
}

// TieredPrice charges each unit at the amount of the tier it falls in.
type TieredPrice struct {
	PriceCommon
}

func (r TieredPrice) TieredConfig() (TierConfig, error) {
	return bag.Get[TierConfig](&r.Bag, "tiered_config")
}

func (r TieredPrice) Validate() error {
	return bag.First(r.PriceCommon.Validate(), bag.Check(r.TieredConfig()))
}

// BulkPrice charges every unit at the amount of the tier the total falls in.
type BulkPrice struct {
	PriceCommon
}

func (r BulkPrice) BulkConfig() (TierConfig, error) {
	return bag.Get[TierConfig](&r.Bag, "bulk_config")
}

func (r BulkPrice) Validate() error {
	return bag.First(r.PriceCommon.Validate(), bag.Check(r.BulkConfig()))
}

type TierConfig struct {
	bag.Bag
}

func NewTierConfig(tiers ...Tier) TierConfig {
	var r TierConfig
	r.Set("tiers", tiers)
	return r
}

func (r TierConfig) Tiers() ([]Tier, error) {
	return bag.Get[[]Tier](&r.Bag, "tiers")
}

func (r TierConfig) Validate() error {
	return bag.Check(r.Tiers())
}

// Tier is one band of a tiered or bulk price. Tiered prices bound it with
// first_unit and last_unit, bulk prices with maximum_units.
type Tier struct {
	bag.Bag
}

func NewTier(unitAmount decimal.Decimal) Tier {
	var r Tier
	r.Set("unit_amount", unitAmount)
	return r
}

func (r *Tier) SetFirstUnit(v float64) { r.Set("first_unit", v) }
func (r *Tier) SetLastUnit(v float64) { r.Set("last_unit", v) }
func (r *Tier) SetMaximumUnits(v float64) { r.Set("maximum_units", v) }

func (r Tier) UnitAmount() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "unit_amount")
}

func (r Tier) FirstUnit() (bag.Opt[float64], error) {
	return bag.GetOptional[float64](&r.Bag, "first_unit")
}

func (r Tier) LastUnit() (bag.Opt[float64], error) {
	return bag.GetOptional[float64](&r.Bag, "last_unit")
}

func (r Tier) MaximumUnits() (bag.Opt[float64], error) {
	return bag.GetOptional[float64](&r.Bag, "maximum_units")
}

func (r Tier) Validate() error {
	return bag.First(
		bag.Check(r.UnitAmount()),
		bag.Check(r.FirstUnit()),
		bag.Check(r.LastUnit()),
		bag.Check(r.MaximumUnits()),
	)
}

// UnknownPrice holds a price of a model_type this version of the client does
// not know. Its common fields can still be read.
type UnknownPrice struct {
	PriceCommon
}

var priceResolver = union.Discriminated[PriceVariant]("Price", "model_type",
	union.Case[PriceVariant, UnitPrice](string(PriceModelTypeUnit)),
	union.Case[PriceVariant, PackagePrice](string(PriceModelTypePackage)),
	union.Case[PriceVariant, MatrixPrice](string(PriceModelTypeMatrix)),
	union.Case[PriceVariant, TieredPrice](string(PriceModelTypeTiered)),
	union.Case[PriceVariant, BulkPrice](string(PriceModelTypeBulk)),
).WithUnknown(func(raw json.RawMessage) PriceVariant {
	var r UnknownPrice
	_ = r.UnmarshalJSON(raw)
	return r
})

// Price is a price of any pricing model, selected by "model_type". Prices of
// models added to the API later decode as [UnknownPrice] and fail Validate.
type Price struct {
	union.Value[PriceVariant]
}

func (r *Price) UnmarshalJSON(data []byte) error {
	return priceResolver.UnmarshalInto(data, &r.Value)
}

// PriceNewParams is the body of [PriceService.New] and the price entries of
// [PlanNewParams]. It is implemented by [UnitPriceParams],
// [PackagePriceParams], [TieredPriceParams] and [BulkPriceParams].
type PriceNewParams interface {
	implPriceNewParams()
}

// priceParams holds the fields every new price accepts.
type priceParams struct {
	bag.Bag
}

func (priceParams) implPriceNewParams() {}

func (r *priceParams) init(model PriceModelType, name, itemID string, cadence PriceCadence, currency string) {
	r.Set("model_type", model)
	r.Set("name", name)
	r.Set("item_id", itemID)
	r.Set("cadence", cadence)
	r.Set("currency", currency)
}

// SetBillableMetricID makes the price a usage price on the metric.
func (r *priceParams) SetBillableMetricID(v string) { r.Set("billable_metric_id", v) }

func (r *priceParams) SetExternalPriceID(v string) { r.Set("external_price_id", v) }

// SetFixedPriceQuantity makes the price a fixed price of the given quantity.
func (r *priceParams) SetFixedPriceQuantity(v float64) { r.Set("fixed_price_quantity", v) }

func (r *priceParams) SetInvoiceGroupingKey(v string) { r.Set("invoice_grouping_key", v) }

func (r priceParams) Validate() error {
	return bag.First(
		bag.Check(bag.Get[enum.Value[PriceModelType]](&r.Bag, "model_type")),
		bag.Check(bag.Get[string](&r.Bag, "name")),
		bag.Check(bag.Get[string](&r.Bag, "item_id")),
		bag.Check(bag.Get[enum.Value[PriceCadence]](&r.Bag, "cadence")),
		bag.Check(bag.Get[string](&r.Bag, "currency")),
	)
}

type UnitPriceParams struct {
	priceParams
}

func NewUnitPriceParams(name, itemID string, cadence PriceCadence, currency string, config UnitConfig) *UnitPriceParams {
	r := &UnitPriceParams{}
	r.init(PriceModelTypeUnit, name, itemID, cadence, currency)
	r.Set("unit_config", config)
	return r
}

func (r UnitPriceParams) Validate() error {
	return bag.First(
		r.priceParams.Validate(),
		bag.Check(bag.Get[UnitConfig](&r.Bag, "unit_config")),
	)
}

type PackagePriceParams struct {
	priceParams
}

func NewPackagePriceParams(name, itemID string, cadence PriceCadence, currency string, config PackageConfig) *PackagePriceParams {
	r := &PackagePriceParams{}
	r.init(PriceModelTypePackage, name, itemID, cadence, currency)
	r.Set("package_config", config)
	return r
}

func (r PackagePriceParams) Validate() error {
	return bag.First(
		r.priceParams.Validate(),
		bag.Check(bag.Get[PackageConfig](&r.Bag, "package_config")),
	)
}

type TieredPriceParams struct {
	priceParams
}

func NewTieredPriceParams(name, itemID string, cadence PriceCadence, currency string, config TierConfig) *TieredPriceParams {
	r := &TieredPriceParams{}
	r.init(PriceModelTypeTiered, name, itemID, cadence, currency)
	r.Set("tiered_config", config)
	return r
}

func (r TieredPriceParams) Validate() error {
	return bag.First(
		r.priceParams.Validate(),
		bag.Check(bag.Get[TierConfig](&r.Bag, "tiered_config")),
	)
}

type BulkPriceParams struct {
	priceParams
}

func NewBulkPriceParams(name, itemID string, cadence PriceCadence, currency string, config TierConfig) *BulkPriceParams {
	r := &BulkPriceParams{}
	r.init(PriceModelTypeBulk, name, itemID, cadence, currency)
	r.Set("bulk_config", config)
	return r
}

func (r BulkPriceParams) Validate() error {
	return bag.First(
		r.priceParams.Validate(),
		bag.Check(bag.Get[TierConfig](&r.Bag, "bulk_config")),
	)
}

type PriceListParams struct {
	PageParams
}
