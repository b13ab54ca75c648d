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

// CustomerCreditLedgerService contains methods and other services that help
// with interacting with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewCustomerCreditLedgerService] method instead.
type CustomerCreditLedgerService struct {
	Options []option.RequestOption
}

// NewCustomerCreditLedgerService generates a new service that applies the
// given options to each request. These options are applied after the parent
// client's options (if there is one), and before any request-specific options.
func NewCustomerCreditLedgerService(opts ...option.RequestOption) (r CustomerCreditLedgerService) {
	r = CustomerCreditLedgerService{}
	r.Options = opts
	return
}

// The credits ledger provides auditing functionality over Orb's credits
// system with a list of actions that have taken place to modify a customer's
// credit balance. Entries are returned in reverse chronological order.
func (r *CustomerCreditLedgerService) List(ctx context.Context, customerID string, query CustomerCreditLedgerListParams, opts ...option.RequestOption) (res *pagination.Page[LedgerEntry], err error) {
	opts = slices.Concat(r.Options, opts)
	if customerID == "" {
		err = errors.New("missing required customer_id parameter")
		return
	}
	path := fmt.Sprintf("customers/%s/credits/ledger", url.PathEscape(customerID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

// ListAutoPaging iterates over every ledger entry of the customer.
func (r *CustomerCreditLedgerService) ListAutoPaging(ctx context.Context, customerID string, query CustomerCreditLedgerListParams, opts ...option.RequestOption) *pagination.PageAutoPager[LedgerEntry] {
	return pagination.NewPageAutoPager(r.List(ctx, customerID, query, opts...))
}

// New adds an entry to the customer's credit ledger. The kind of entry is
// selected by the params shape, see [LedgerEntryParams].
func (r *CustomerCreditLedgerService) New(ctx context.Context, customerID string, body LedgerEntryParams, opts ...option.RequestOption) (res *LedgerEntry, err error) {
	opts = slices.Concat(r.Options, opts)
	if customerID == "" {
		err = errors.New("missing required customer_id parameter")
		return
	}
	if isNilBody(body) {
		err = errors.New("missing required ledger entry body")
		return
	}
	path := fmt.Sprintf("customers/%s/credits/ledger_entry", url.PathEscape(customerID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

type LedgerEntryType string

const (
	LedgerEntryTypeIncrement        LedgerEntryType = "increment"
	LedgerEntryTypeDecrement        LedgerEntryType = "decrement"
	LedgerEntryTypeExpirationChange LedgerEntryType = "expiration_change"
	LedgerEntryTypeVoid             LedgerEntryType = "void"
	LedgerEntryTypeAmendment        LedgerEntryType = "amendment"
)

func (r LedgerEntryType) IsKnown() bool {
	switch r {
	case LedgerEntryTypeIncrement, LedgerEntryTypeDecrement, LedgerEntryTypeExpirationChange, LedgerEntryTypeVoid, LedgerEntryTypeAmendment:
		return true
	}
	return false
}

func (LedgerEntryType) Values() []LedgerEntryType {
	return []LedgerEntryType{
		LedgerEntryTypeIncrement,
		LedgerEntryTypeDecrement,
		LedgerEntryTypeExpirationChange,
		LedgerEntryTypeVoid,
		LedgerEntryTypeAmendment,
	}
}

type LedgerEntryStatus string

const (
	LedgerEntryStatusCommitted LedgerEntryStatus = "committed"
	LedgerEntryStatusPending   LedgerEntryStatus = "pending"
)

func (r LedgerEntryStatus) IsKnown() bool {
	switch r {
	case LedgerEntryStatusCommitted, LedgerEntryStatusPending:
		return true
	}
	return false
}

func (LedgerEntryStatus) Values() []LedgerEntryStatus {
	return []LedgerEntryStatus{LedgerEntryStatusCommitted, LedgerEntryStatusPending}
}

// LedgerEntryVariant is implemented by every ledger entry shape. The fields
// common to all entries can be read without a type switch.
type LedgerEntryVariant interface {
	ID() (string, error)
	EntryType() (enum.Value[LedgerEntryType], error)
	EntryStatus() (enum.Value[LedgerEntryStatus], error)
	Amount() (float64, error)
	StartingBalance() (float64, error)
	EndingBalance() (float64, error)
	CreatedAt() (time.Time, error)
	implLedgerEntry()
}

// LedgerEntryCommon holds the fields shared by every ledger entry.
type LedgerEntryCommon struct {
	bag.Bag
}

func (LedgerEntryCommon) implLedgerEntry() {}

func (r LedgerEntryCommon) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r LedgerEntryCommon) EntryType() (enum.Value[LedgerEntryType], error) {
	return bag.Get[enum.Value[LedgerEntryType]](&r.Bag, "entry_type")
}

func (r LedgerEntryCommon) EntryStatus() (enum.Value[LedgerEntryStatus], error) {
	return bag.Get[enum.Value[LedgerEntryStatus]](&r.Bag, "entry_status")
}

func (r LedgerEntryCommon) LedgerSequenceNumber() (int64, error) {
	return bag.Get[int64](&r.Bag, "ledger_sequence_number")
}

func (r LedgerEntryCommon) Amount() (float64, error) {
	return bag.Get[float64](&r.Bag, "amount")
}

func (r LedgerEntryCommon) StartingBalance() (float64, error) {
	return bag.Get[float64](&r.Bag, "starting_balance")
}

func (r LedgerEntryCommon) EndingBalance() (float64, error) {
	return bag.Get[float64](&r.Bag, "ending_balance")
}

func (r LedgerEntryCommon) Currency() (string, error) {
	return bag.Get[string](&r.Bag, "currency")
}

func (r LedgerEntryCommon) Customer() (shared.CustomerMinified, error) {
	return bag.Get[shared.CustomerMinified](&r.Bag, "customer")
}

func (r LedgerEntryCommon) CreditBlock() (LedgerCreditBlock, error) {
	return bag.Get[LedgerCreditBlock](&r.Bag, "credit_block")
}

func (r LedgerEntryCommon) Description() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "description")
}

func (r LedgerEntryCommon) Metadata() (Metadata, error) {
	return bag.Get[Metadata](&r.Bag, "metadata")
}

func (r LedgerEntryCommon) CreatedAt() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "created_at")
}

func (r LedgerEntryCommon) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.EntryType()),
		bag.Check(r.EntryStatus()),
		bag.Check(r.LedgerSequenceNumber()),
		bag.Check(r.Amount()),
		bag.Check(r.StartingBalance()),
		bag.Check(r.EndingBalance()),
		bag.Check(r.Currency()),
		bag.Check(r.Customer()),
		bag.Check(r.CreditBlock()),
		bag.Check(r.Description()),
		bag.Check(r.Metadata()),
		bag.Check(r.CreatedAt()),
	)
}

// LedgerCreditBlock is the block a ledger entry applies to.
type LedgerCreditBlock struct {
	bag.Bag
}

func (r LedgerCreditBlock) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r LedgerCreditBlock) ExpiryDate() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "expiry_date")
}

func (r LedgerCreditBlock) PerUnitCostBasis() (bag.Opt[decimal.Decimal], error) {
	return bag.GetNullable[decimal.Decimal](&r.Bag, "per_unit_cost_basis")
}

func (r LedgerCreditBlock) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.ExpiryDate()),
		bag.Check(r.PerUnitCostBasis()),
	)
}

// IncrementLedgerEntry adds credits to a block.
type IncrementLedgerEntry struct {
	LedgerEntryCommon
}

// DecrementLedgerEntry deducts credits, either manually or for usage.
type DecrementLedgerEntry struct {
	LedgerEntryCommon
}

// EventID is the usage event that caused the deduction, if any.
func (r DecrementLedgerEntry) EventID() (bag.Opt[string], error) {
	return bag.GetOptional[string](&r.Bag, "event_id")
}

func (r DecrementLedgerEntry) InvoiceID() (bag.Opt[string], error) {
	return bag.GetOptional[string](&r.Bag, "invoice_id")
}

func (r DecrementLedgerEntry) PriceID() (bag.Opt[string], error) {
	return bag.GetOptional[string](&r.Bag, "price_id")
}

func (r DecrementLedgerEntry) Validate() error {
	return bag.First(
		r.LedgerEntryCommon.Validate(),
		bag.Check(r.EventID()),
		bag.Check(r.InvoiceID()),
		bag.Check(r.PriceID()),
	)
}

// ExpirationChangeLedgerEntry moves the expiry date of a block.
type ExpirationChangeLedgerEntry struct {
	LedgerEntryCommon
}

func (r ExpirationChangeLedgerEntry) NewBlockExpiryDate() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "new_block_expiry_date")
}

func (r ExpirationChangeLedgerEntry) Validate() error {
	return bag.First(r.LedgerEntryCommon.Validate(), bag.Check(r.NewBlockExpiryDate()))
}

// VoidLedgerEntry cancels the remaining balance of a block.
type VoidLedgerEntry struct {
	LedgerEntryCommon
}

func (r VoidLedgerEntry) VoidAmount() (float64, error) {
	return bag.Get[float64](&r.Bag, "void_amount")
}

func (r VoidLedgerEntry) VoidReason() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "void_reason")
}

func (r VoidLedgerEntry) Validate() error {
	return bag.First(
		r.LedgerEntryCommon.Validate(),
		bag.Check(r.VoidAmount()),
		bag.Check(r.VoidReason()),
	)
}

// AmendmentLedgerEntry corrects the balance of a block.
type AmendmentLedgerEntry struct {
	LedgerEntryCommon
}

// UnknownLedgerEntry holds an entry whose entry_type this version of the
// client does not know. Its common fields can still be read.
type UnknownLedgerEntry struct {
	LedgerEntryCommon
}

var ledgerEntryResolver = union.Discriminated[LedgerEntryVariant]("LedgerEntry", "entry_type",
	union.Case[LedgerEntryVariant, IncrementLedgerEntry](string(LedgerEntryTypeIncrement)),
	union.Case[LedgerEntryVariant, DecrementLedgerEntry](string(LedgerEntryTypeDecrement)),
	union.Case[LedgerEntryVariant, ExpirationChangeLedgerEntry](string(LedgerEntryTypeExpirationChange)),
	union.Case[LedgerEntryVariant, VoidLedgerEntry](string(LedgerEntryTypeVoid)),
	union.Case[LedgerEntryVariant, AmendmentLedgerEntry](string(LedgerEntryTypeAmendment)),
).WithUnknown(func(raw json.RawMessage) LedgerEntryVariant {
	var r UnknownLedgerEntry
	_ = r.UnmarshalJSON(raw)
	return r
})

// LedgerEntry is one entry of a customer's credit ledger, selected by
// "entry_type". Entries of types added to the API later decode as
// [UnknownLedgerEntry] and fail Validate.
type LedgerEntry struct {
	union.Value[LedgerEntryVariant]
}

func (r *LedgerEntry) UnmarshalJSON(data []byte) error {
	return ledgerEntryResolver.UnmarshalInto(data, &r.Value)
}

type CustomerCreditLedgerListParams struct {
	PageParams
}

func (r *CustomerCreditLedgerListParams) SetCurrency(v string) {
	r.Set("currency", v)
}

func (r *CustomerCreditLedgerListParams) SetEntryType(v LedgerEntryType) {
	r.Set("entry_type", v)
}

func (r *CustomerCreditLedgerListParams) SetEntryStatus(v LedgerEntryStatus) {
	r.Set("entry_status", v)
}

// SetMinimumAmount only returns entries of at least this absolute amount.
func (r *CustomerCreditLedgerListParams) SetMinimumAmount(v string) {
	r.Set("minimum_amount", v)
}

func (r *CustomerCreditLedgerListParams) SetCreatedAt(f TimeFilter) {
	f.apply(&r.Bag, "created_at")
}

// LedgerEntryParams is the body of [CustomerCreditLedgerService.New]. It is
// implemented by [LedgerIncrementParams], [LedgerDecrementParams],
// [LedgerExpirationChangeParams], [LedgerVoidParams] and
// [LedgerAmendmentParams], each of which sets its own entry_type.
type LedgerEntryParams interface {
	implLedgerEntryParams()
}

// ledgerParams holds the fields every ledger entry request accepts.
type ledgerParams struct {
	bag.Bag
}

func (ledgerParams) implLedgerEntryParams() {}

// SetCurrency sets the currency or custom pricing unit of the entry.
func (r *ledgerParams) SetCurrency(v string) { r.Set("currency", v) }
func (r *ledgerParams) SetDescription(v string) { r.Set("description", v) }
func (r *ledgerParams) SetMetadata(v Metadata) { r.Set("metadata", v) }

func (r ledgerParams) Validate() error {
	return bag.Check(bag.Get[enum.Value[LedgerEntryType]](&r.Bag, "entry_type"))
}

type LedgerIncrementParams struct {
	ledgerParams
}

func NewLedgerIncrementParams(amount float64) *LedgerIncrementParams {
	r := &LedgerIncrementParams{}
	r.Set("entry_type", LedgerEntryTypeIncrement)
	r.Set("amount", amount)
	return r
}

func (r *LedgerIncrementParams) SetEffectiveDate(v time.Time) { r.Set("effective_date", v) }
func (r *LedgerIncrementParams) SetExpiryDate(v time.Time) { r.Set("expiry_date", v) }

// SetPerUnitCostBasis sets the cost basis of each credit, used for revenue
// recognition.
func (r *LedgerIncrementParams) SetPerUnitCostBasis(v decimal.Decimal) {
	r.Set("per_unit_cost_basis", v)
}

// SetExpiryPolicy sets the expiry as a date or as a duration.
func (r *LedgerIncrementParams) SetExpiryPolicy(v ExpiryPolicyVariant) {
	r.Set("expiry_policy", NewExpiryPolicy(v))
}

type LedgerDecrementParams struct {
	ledgerParams
}

func NewLedgerDecrementParams(amount float64) *LedgerDecrementParams {
	r := &LedgerDecrementParams{}
	r.Set("entry_type", LedgerEntryTypeDecrement)
	r.Set("amount", amount)
	return r
}

type LedgerExpirationChangeParams struct {
	ledgerParams
}

// NewLedgerExpirationChangeParams moves the credits expiring at
// expiryDate to targetExpiryDate.
func NewLedgerExpirationChangeParams(targetExpiryDate time.Time) *LedgerExpirationChangeParams {
	r := &LedgerExpirationChangeParams{}
	r.Set("entry_type", LedgerEntryTypeExpirationChange)
	r.Set("target_expiry_date", targetExpiryDate.Format(time.DateOnly))
	return r
}

func (r *LedgerExpirationChangeParams) SetBlockID(v string) { r.Set("block_id", v) }
func (r *LedgerExpirationChangeParams) SetExpiryDate(v time.Time) { r.Set("expiry_date", v) }
func (r *LedgerExpirationChangeParams) SetAmount(v float64) { r.Set("amount", v) }

type LedgerVoidParams struct {
	ledgerParams
}

func NewLedgerVoidParams(blockID string, amount float64) *LedgerVoidParams {
	r := &LedgerVoidParams{}
	r.Set("entry_type", LedgerEntryTypeVoid)
	r.Set("block_id", blockID)
	r.Set("amount", amount)
	return r
}

type LedgerVoidReason string

const (
	LedgerVoidReasonRefund LedgerVoidReason = "refund"
)

func (r LedgerVoidReason) IsKnown() bool {
	return r == LedgerVoidReasonRefund
}

func (r *LedgerVoidParams) SetVoidReason(v LedgerVoidReason) { r.Set("void_reason", v) }

type LedgerAmendmentParams struct {
	ledgerParams
}

func NewLedgerAmendmentParams(blockID string, amount float64) *LedgerAmendmentParams {
	r := &LedgerAmendmentParams{}
	r.Set("entry_type", LedgerEntryTypeAmendment)
	r.Set("block_id", blockID)
	r.Set("amount", amount)
	return r
}
