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
	"github.com/telnet2/orb-sdk-go/shared"
)

// InvoiceService contains methods and other services that help with
// interacting with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewInvoiceService] method instead.
type InvoiceService struct {
	Options []option.RequestOption
}

// NewInvoiceService generates a new service that applies the given options to
// each request. These options are applied after the parent client's options (if
// there is one), and before any request-specific options.
func NewInvoiceService(opts ...option.RequestOption) (r InvoiceService) {
	r = InvoiceService{}
	r.Options = opts
	return
}

// New creates a one-off invoice for a customer.
func (r *InvoiceService) New(ctx context.Context, body InvoiceNewParams, opts ...option.RequestOption) (res *Invoice, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "invoices"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

func (r *InvoiceService) Get(ctx context.Context, invoiceID string, opts ...option.RequestOption) (res *Invoice, err error) {
	opts = slices.Concat(r.Options, opts)
	if invoiceID == "" {
		err = errors.New("missing required invoice_id parameter")
		return
	}
	path := fmt.Sprintf("invoices/%s", url.PathEscape(invoiceID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

// List returns the invoices of the account, most recently issued first.
// Draft invoices are only included when asked for by status.
func (r *InvoiceService) List(ctx context.Context, query InvoiceListParams, opts ...option.RequestOption) (res *pagination.Page[Invoice], err error) {
	opts = slices.Concat(r.Options, opts)
	path := "invoices"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

func (r *InvoiceService) ListAutoPaging(ctx context.Context, query InvoiceListParams, opts ...option.RequestOption) *pagination.PageAutoPager[Invoice] {
	return pagination.NewPageAutoPager(r.List(ctx, query, opts...))
}

// Issue moves a draft invoice to issued, sending it to the customer when
// email delivery is enabled.
func (r *InvoiceService) Issue(ctx context.Context, invoiceID string, body InvoiceIssueParams, opts ...option.RequestOption) (res *Invoice, err error) {
	opts = slices.Concat(r.Options, opts)
	if invoiceID == "" {
		err = errors.New("missing required invoice_id parameter")
		return
	}
	path := fmt.Sprintf("invoices/%s/issue", url.PathEscape(invoiceID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

// Void marks an issued invoice as void. Credits applied to it are returned
// to the customer.
func (r *InvoiceService) Void(ctx context.Context, invoiceID string, opts ...option.RequestOption) (res *Invoice, err error) {
	opts = slices.Concat(r.Options, opts)
	if invoiceID == "" {
		err = errors.New("missing required invoice_id parameter")
		return
	}
	path := fmt.Sprintf("invoices/%s/void", url.PathEscape(invoiceID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, nil, &res, opts...)
	return
}

// MarkPaid records a payment received outside of Orb.
func (r *InvoiceService) MarkPaid(ctx context.Context, invoiceID string, body InvoiceMarkPaidParams, opts ...option.RequestOption) (res *Invoice, err error) {
	opts = slices.Concat(r.Options, opts)
	if invoiceID == "" {
		err = errors.New("missing required invoice_id parameter")
		return
	}
	path := fmt.Sprintf("invoices/%s/mark_paid", url.PathEscape(invoiceID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

// An Invoice is a fundamental billing entity, representing the request for
// payment for a single subscription.
type Invoice struct {
	bag.Bag
}

func (r Invoice) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r Invoice) InvoiceNumber() (string, error) {
	return bag.Get[string](&r.Bag, "invoice_number")
}

func (r Invoice) Customer() (shared.CustomerMinified, error) {
	return bag.Get[shared.CustomerMinified](&r.Bag, "customer")
}

func (r Invoice) Subscription() (bag.Opt[InvoiceSubscription], error) {
	return bag.GetNullable[InvoiceSubscription](&r.Bag, "subscription")
}

func (r Invoice) Status() (enum.Value[InvoiceStatus], error) {
	return bag.Get[enum.Value[InvoiceStatus]](&r.Bag, "status")
}

func (r Invoice) Currency() (string, error) {
	return bag.Get[string](&r.Bag, "currency")
}

func (r Invoice) AmountDue() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "amount_due")
}

func (r Invoice) Subtotal() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "subtotal")
}

func (r Invoice) Total() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "total")
}

func (r Invoice) Discounts() ([]shared.Discount, error) {
	return bag.Get[[]shared.Discount](&r.Bag, "discounts")
}

func (r Invoice) LineItems() ([]InvoiceLineItem, error) {
	return bag.Get[[]InvoiceLineItem](&r.Bag, "line_items")
}

func (r Invoice) Memo() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "memo")
}

func (r Invoice) HostedInvoiceURL() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "hosted_invoice_url")
}

func (r Invoice) InvoiceDate() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "invoice_date")
}

func (r Invoice) DueDate() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "due_date")
}

func (r Invoice) IssuedAt() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "issued_at")
}

func (r Invoice) PaidAt() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "paid_at")
}

func (r Invoice) VoidedAt() (bag.Opt[time.Time], error) {
	return bag.GetNullable[time.Time](&r.Bag, "voided_at")
}

func (r Invoice) Metadata() (Metadata, error) {
	return bag.Get[Metadata](&r.Bag, "metadata")
}

func (r Invoice) CreatedAt() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "created_at")
}

func (r Invoice) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.InvoiceNumber()),
		bag.Check(r.Customer()),
		bag.Check(r.Subscription()),
		bag.Check(r.Status()),
		bag.Check(r.Currency()),
		bag.Check(r.AmountDue()),
		bag.Check(r.Subtotal()),
		bag.Check(r.Total()),
		bag.Check(r.Discounts()),
		bag.Check(r.LineItems()),
		bag.Check(r.Memo()),
		bag.Check(r.HostedInvoiceURL()),
		bag.Check(r.InvoiceDate()),
		bag.Check(r.DueDate()),
		bag.Check(r.IssuedAt()),
		bag.Check(r.PaidAt()),
		bag.Check(r.VoidedAt()),
		bag.Check(r.Metadata()),
		bag.Check(r.CreatedAt()),
	)
}

type InvoiceStatus string

const (
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusPaid   InvoiceStatus = "paid"
	InvoiceStatusSynced InvoiceStatus = "synced"
	InvoiceStatusVoid   InvoiceStatus = "void"
	InvoiceStatusDraft  InvoiceStatus = "draft"
)

func (r InvoiceStatus) IsKnown() bool {
	switch r {
	case InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusSynced, InvoiceStatusVoid, InvoiceStatusDraft:
		return true
	}
	return false
}

func (InvoiceStatus) Values() []InvoiceStatus {
	return []InvoiceStatus{InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusSynced, InvoiceStatusVoid, InvoiceStatusDraft}
}

type InvoiceSubscription struct {
	bag.Bag
}

func (r InvoiceSubscription) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r InvoiceSubscription) Validate() error {
	return bag.Check(r.ID())
}

type InvoiceLineItem struct {
	bag.Bag
}

func (r InvoiceLineItem) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r InvoiceLineItem) Name() (string, error) {
	return bag.Get[string](&r.Bag, "name")
}

func (r InvoiceLineItem) Quantity() (float64, error) {
	return bag.Get[float64](&r.Bag, "quantity")
}

func (r InvoiceLineItem) Amount() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "amount")
}

func (r InvoiceLineItem) StartDate() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "start_date")
}

func (r InvoiceLineItem) EndDate() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "end_date")
}

// Price is the price billed by the line item, null for adjustments.
func (r InvoiceLineItem) Price() (bag.Opt[Price], error) {
	return bag.GetNullable[Price](&r.Bag, "price")
}

func (r InvoiceLineItem) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.Name()),
		bag.Check(r.Quantity()),
		bag.Check(r.Amount()),
		bag.Check(r.StartDate()),
		bag.Check(r.EndDate()),
		bag.Check(r.Price()),
	)
}

type InvoiceNewParams struct {
	bag.Bag
}

// NewInvoiceNewParams returns the params of an invoice dated invoiceDate.
// netTerms is the number of days until the invoice is due.
func NewInvoiceNewParams(currency string, invoiceDate time.Time, netTerms int64, lineItems ...InvoiceLineItemParams) InvoiceNewParams {
	var r InvoiceNewParams
	r.Set("currency", currency)
	r.Set("invoice_date", invoiceDate)
	r.Set("net_terms", netTerms)
	if lineItems == nil {
		lineItems = []InvoiceLineItemParams{}
	}
	r.Set("line_items", lineItems)
	return r
}

func (r *InvoiceNewParams) SetCustomerID(v string) { r.Set("customer_id", v) }

func (r *InvoiceNewParams) SetExternalCustomerID(v string) { r.Set("external_customer_id", v) }

func (r *InvoiceNewParams) SetMemo(v string) { r.Set("memo", v) }

func (r *InvoiceNewParams) SetMetadata(v Metadata) { r.Set("metadata", v) }

// SetWillAutoIssue issues the invoice right away instead of leaving it as a
// draft.
func (r *InvoiceNewParams) SetWillAutoIssue(v bool) { r.Set("will_auto_issue", v) }

// InvoiceLineItemParams is a unit priced line of a one-off invoice.
type InvoiceLineItemParams struct {
	bag.Bag
}

func NewInvoiceLineItemParams(name, itemID string, quantity float64, unitAmount decimal.Decimal, start, end time.Time) InvoiceLineItemParams {
	var r InvoiceLineItemParams
	r.Set("name", name)
	r.Set("item_id", itemID)
	r.Set("quantity", quantity)
	r.Set("model_type", PriceModelTypeUnit)
	r.Set("unit_config", NewUnitConfig(unitAmount))
	r.Set("start_date", start.Format(time.DateOnly))
	r.Set("end_date", end.Format(time.DateOnly))
	return r
}

type InvoiceListParams struct {
	PageParams
}

func (r *InvoiceListParams) SetCustomerID(v string) { r.Set("customer_id", v) }

func (r *InvoiceListParams) SetExternalCustomerID(v string) { r.Set("external_customer_id", v) }

func (r *InvoiceListParams) SetSubscriptionID(v string) { r.Set("subscription_id", v) }

// SetStatus filters by any of the given statuses.
func (r *InvoiceListParams) SetStatus(v ...InvoiceStatus) { r.Set("status", v) }

func (r *InvoiceListParams) SetDueDate(f TimeFilter) {
	f.apply(&r.Bag, "due_date")
}

type InvoiceIssueParams struct {
	bag.Bag
}

// SetSynchronous waits for the invoice to be synced to the payment provider
// before returning.
func (r *InvoiceIssueParams) SetSynchronous(v bool) { r.Set("synchronous", v) }

type InvoiceMarkPaidParams struct {
	bag.Bag
}

func NewInvoiceMarkPaidParams(paymentReceivedDate time.Time) InvoiceMarkPaidParams {
	var r InvoiceMarkPaidParams
	r.Set("payment_received_date", paymentReceivedDate.Format(time.DateOnly))
	return r
}

func (r *InvoiceMarkPaidParams) SetExternalID(v string) { r.Set("external_id", v) }

func (r *InvoiceMarkPaidParams) SetNotes(v string) { r.Set("notes", v) }
