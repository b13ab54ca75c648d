package orb_test

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/internal/testutil"
	"github.com/telnet2/orb-sdk-go/shared"
)

var _ = Describe("Invoices", func() {
	It("reads amounts, discounts and line items", func() {
		api.JSON(http.MethodGet, "/invoices/{id}", http.StatusOK, testutil.InvoiceJSON)

		invoice := must(client.Invoices.Get(ctx, "inv_1"))
		Expect(invoice.Validate()).To(Succeed())
		Expect(must(invoice.Status()).Is(orb.InvoiceStatusIssued)).To(BeTrue())
		Expect(must(invoice.AmountDue()).String()).To(Equal("99"))
		Expect(must(invoice.PaidAt()).Valid).To(BeFalse())

		discounts := must(invoice.Discounts())
		Expect(discounts).To(HaveLen(1))
		amount, ok := discounts[0].Variant().(shared.AmountDiscount)
		Expect(ok).To(BeTrue())
		Expect(must(amount.AmountDiscount()).Equal(decimal.RequireFromString("11"))).To(BeTrue())

		lines := must(invoice.LineItems())
		Expect(lines).To(HaveLen(1))
		price := must(lines[0].Price())
		Expect(price.Valid).To(BeTrue())
		Expect(price.Value.Variant()).To(BeAssignableToTypeOf(orb.UnitPrice{}))
	})

	It("filters the list by status and due date", func() {
		api.JSON(http.MethodGet, "/invoices", http.StatusOK, testutil.Page("", testutil.InvoiceJSON))

		var params orb.InvoiceListParams
		params.SetStatus(orb.InvoiceStatusIssued, orb.InvoiceStatusPaid)
		params.SetDueDate(orb.TimeFilter{Lt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)})
		params.SetCustomerID("cus_1")
		page := must(client.Invoices.List(ctx, params))
		Expect(must(page.Data())).To(HaveLen(1))

		query := api.LastRequest().Query
		Expect(query).To(ContainSubstring("status=issued%2Cpaid"))
		Expect(query).To(ContainSubstring("due_date%5Blt%5D=2024-04-01T00%3A00%3A00Z"))
		Expect(query).To(ContainSubstring("customer_id=cus_1"))
	})

	It("creates a one-off invoice", func() {
		api.JSON(http.MethodPost, "/invoices", http.StatusOK, testutil.InvoiceJSON)

		start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		line := orb.NewInvoiceLineItemParams("Setup", "item_1", 1, decimal.RequireFromString("250"), start, start.AddDate(0, 1, 0))
		params := orb.NewInvoiceNewParams("USD", start, 30, line)
		params.SetCustomerID("cus_1")
		must(client.Invoices.New(ctx, params))

		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"currency": "USD",
			"invoice_date": "2024-02-01T00:00:00Z",
			"net_terms": 30,
			"line_items": [{
				"name": "Setup",
				"item_id": "item_1",
				"quantity": 1,
				"model_type": "unit",
				"unit_config": {"unit_amount": "250"},
				"start_date": "2024-02-01",
				"end_date": "2024-03-01"
			}],
			"customer_id": "cus_1"
		}`))
	})

	It("issues, voids and marks invoices paid", func() {
		api.JSON(http.MethodPost, "/invoices/{id}/issue", http.StatusOK, testutil.InvoiceJSON)
		api.JSON(http.MethodPost, "/invoices/{id}/void", http.StatusOK, testutil.InvoiceJSON)
		api.JSON(http.MethodPost, "/invoices/{id}/mark_paid", http.StatusOK, testutil.InvoiceJSON)

		var issue orb.InvoiceIssueParams
		issue.SetSynchronous(true)
		must(client.Invoices.Issue(ctx, "inv_1", issue))
		Expect(api.LastRequest().Path).To(Equal("/v1/invoices/inv_1/issue"))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{"synchronous": true}`))

		must(client.Invoices.Void(ctx, "inv_1"))
		Expect(api.LastRequest().Path).To(Equal("/v1/invoices/inv_1/void"))

		paid := orb.NewInvoiceMarkPaidParams(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))
		paid.SetExternalID("wire-42")
		must(client.Invoices.MarkPaid(ctx, "inv_1", paid))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{"payment_received_date": "2024-03-05", "external_id": "wire-42"}`))
	})

	It("validates ids before sending", func() {
		_, err := client.Invoices.Void(ctx, "")
		Expect(err).To(MatchError(ContainSubstring("invoice_id")))
		Expect(api.Requests()).To(BeEmpty())
	})
})
