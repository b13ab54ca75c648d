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

// CreditNoteService contains methods and other services that help with
// interacting with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewCreditNoteService] method instead.
type CreditNoteService struct {
	Options []option.RequestOption
}

// NewCreditNoteService generates a new service that applies the given options
// to each request. These options are applied after the parent client's options
// (if there is one), and before any request-specific options.
func NewCreditNoteService(opts ...option.RequestOption) (r CreditNoteService) {
	r = CreditNoteService{}
	r.Options = opts
	return
}

func (r *CreditNoteService) Get(ctx context.Context, creditNoteID string, opts ...option.RequestOption) (res *CreditNote, err error) {
	opts = slices.Concat(r.Options, opts)
	if creditNoteID == "" {
		err = errors.New("missing required credit_note_id parameter")
		return
	}
	path := fmt.Sprintf("credit_notes/%s", url.PathEscape(creditNoteID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

func (r *CreditNoteService) List(ctx context.Context, query CreditNoteListParams, opts ...option.RequestOption) (res *pagination.Page[CreditNote], err error) {
	opts = slices.Concat(r.Options, opts)
	path := "credit_notes"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

func (r *CreditNoteService) ListAutoPaging(ctx context.Context, query CreditNoteListParams, opts ...option.RequestOption) *pagination.PageAutoPager[CreditNote] {
	return pagination.NewPageAutoPager(r.List(ctx, query, opts...))
}

// The CreditNote resource represents a credit that has been applied to a
// particular invoice.
type CreditNote struct {
	bag.Bag
}

func (r CreditNote) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r CreditNote) CreditNoteNumber() (string, error) {
	return bag.Get[string](&r.Bag, "credit_note_number")
}

func (r CreditNote) InvoiceID() (string, error) {
	return bag.Get[string](&r.Bag, "invoice_id")
}

func (r CreditNote) Customer() (shared.CustomerMinified, error) {
	return bag.Get[shared.CustomerMinified](&r.Bag, "customer")
}

func (r CreditNote) Type() (enum.Value[CreditNoteType], error) {
	return bag.Get[enum.Value[CreditNoteType]](&r.Bag, "type")
}

func (r CreditNote) Reason() (bag.Opt[enum.Value[CreditNoteReason]], error) {
	return bag.GetNullable[enum.Value[CreditNoteReason]](&r.Bag, "reason")
}

func (r CreditNote) Subtotal() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "subtotal")
}

func (r CreditNote) Total() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "total")
}

func (r CreditNote) MinimumAmountRefunded() (bag.Opt[decimal.Decimal], error) {
	return bag.GetNullable[decimal.Decimal](&r.Bag, "minimum_amount_refunded")
}

func (r CreditNote) CreditNotePDF() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "credit_note_pdf")
}

func (r CreditNote) LineItems() ([]CreditNoteLineItem, error) {
	return bag.Get[[]CreditNoteLineItem](&r.Bag, "line_items")
}

func (r CreditNote) CreatedAt() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "created_at")
}

func (r CreditNote) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.CreditNoteNumber()),
		bag.Check(r.InvoiceID()),
		bag.Check(r.Customer()),
		bag.Check(r.Type()),
		bag.Check(r.Reason()),
		bag.Check(r.Subtotal()),
		bag.Check(r.Total()),
		bag.Check(r.MinimumAmountRefunded()),
		bag.Check(r.CreditNotePDF()),
		bag.Check(r.LineItems()),
		bag.Check(r.CreatedAt()),
	)
}

type CreditNoteType string

const (
	CreditNoteTypeRefund     CreditNoteType = "refund"
	CreditNoteTypeAdjustment CreditNoteType = "adjustment"
)

func (r CreditNoteType) IsKnown() bool {
	switch r {
	case CreditNoteTypeRefund, CreditNoteTypeAdjustment:
		return true
	}
	return false
}

func (CreditNoteType) Values() []CreditNoteType {
	return []CreditNoteType{CreditNoteTypeRefund, CreditNoteTypeAdjustment}
}

type CreditNoteReason string

const (
	CreditNoteReasonDuplicate             CreditNoteReason = "Duplicate"
	CreditNoteReasonFraudulent            CreditNoteReason = "Fraudulent"
	CreditNoteReasonOrderChange           CreditNoteReason = "Order change"
	CreditNoteReasonProductUnsatisfactory CreditNoteReason = "Product unsatisfactory"
)

func (r CreditNoteReason) IsKnown() bool {
	switch r {
	case CreditNoteReasonDuplicate, CreditNoteReasonFraudulent, CreditNoteReasonOrderChange, CreditNoteReasonProductUnsatisfactory:
		return true
	}
	return false
}

func (CreditNoteReason) Values() []CreditNoteReason {
	return []CreditNoteReason{
		CreditNoteReasonDuplicate,
		CreditNoteReasonFraudulent,
		CreditNoteReasonOrderChange,
		CreditNoteReasonProductUnsatisfactory,
	}
}

type CreditNoteLineItem struct {
	bag.Bag
}

func (r CreditNoteLineItem) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r CreditNoteLineItem) Name() (string, error) {
	return bag.Get[string](&r.Bag, "name")
}

func (r CreditNoteLineItem) Amount() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "amount")
}

func (r CreditNoteLineItem) Subtotal() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "subtotal")
}

func (r CreditNoteLineItem) Quantity() (bag.Opt[float64], error) {
	return bag.GetNullable[float64](&r.Bag, "quantity")
}

func (r CreditNoteLineItem) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.Name()),
		bag.Check(r.Amount()),
		bag.Check(r.Subtotal()),
		bag.Check(r.Quantity()),
	)
}

type CreditNoteListParams struct {
	PageParams
}
