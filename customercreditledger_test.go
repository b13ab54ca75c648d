package orb_test

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/internal/testutil"
	"github.com/telnet2/orb-sdk-go/packages/union"
)

var _ = Describe("Credit ledger", func() {
	BeforeEach(func() {
		api.JSON(http.MethodGet, "/customers/{id}/credits/ledger", http.StatusOK, testutil.Page("",
			testutil.LedgerEntryJSON("e1", "increment", ""),
			testutil.LedgerEntryJSON("e2", "decrement", `"event_id": "evt_1", "invoice_id": null, "price_id": "price_unit"`),
			testutil.LedgerEntryJSON("e3", "expiration_change", `"new_block_expiry_date": "2025-06-01T00:00:00Z"`),
			testutil.LedgerEntryJSON("e4", "void", `"void_amount": 5, "void_reason": null`),
			testutil.LedgerEntryJSON("e5", "amendment", ""),
			testutil.LedgerEntryJSON("e6", "credit_transfer", `"target_customer_id": "cus_2"`),
		))
	})

	It("resolves each entry to its variant", func() {
		page := must(client.Customers.Credits.Ledger.List(ctx, "cus_1", orb.CustomerCreditLedgerListParams{}))
		entries := must(page.Data())
		Expect(entries).To(HaveLen(6))

		var kinds []string
		for _, entry := range entries {
			switch v := entry.Variant().(type) {
			case orb.IncrementLedgerEntry:
				kinds = append(kinds, "increment")
			case orb.DecrementLedgerEntry:
				Expect(must(v.EventID()).Value).To(Equal("evt_1"))
				Expect(must(v.InvoiceID()).Valid).To(BeFalse())
				kinds = append(kinds, "decrement")
			case orb.ExpirationChangeLedgerEntry:
				expiry := must(v.NewBlockExpiryDate())
				Expect(expiry.Value).To(BeTemporally("==", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
				kinds = append(kinds, "expiration_change")
			case orb.VoidLedgerEntry:
				Expect(must(v.VoidAmount())).To(Equal(5.0))
				kinds = append(kinds, "void")
			case orb.AmendmentLedgerEntry:
				kinds = append(kinds, "amendment")
			case orb.UnknownLedgerEntry:
				kinds = append(kinds, "unknown")
			}
		}
		Expect(kinds).To(Equal([]string{"increment", "decrement", "expiration_change", "void", "amendment", "unknown"}))

		for _, entry := range entries[:5] {
			Expect(entry.Validate()).To(Succeed())
		}
	})

	It("keeps the common fields of unknown entries readable", func() {
		page := must(client.Customers.Credits.Ledger.List(ctx, "cus_1", orb.CustomerCreditLedgerListParams{}))
		entries := must(page.Data())

		unknown := entries[5]
		Expect(unknown.IsUnknown()).To(BeTrue())
		Expect(unknown.Tag()).To(Equal("credit_transfer"))
		Expect(unknown.Validate()).To(MatchError(union.ErrUnknownVariant))

		v := unknown.Variant()
		Expect(must(v.ID())).To(Equal("e6"))
		Expect(must(v.EndingBalance())).To(Equal(10.0))
		Expect(must(v.EntryType()).Raw()).To(Equal("credit_transfer"))
		Expect(string(unknown.RawJSON())).To(ContainSubstring("target_customer_id"))
	})

	It("filters by entry type and status", func() {
		var params orb.CustomerCreditLedgerListParams
		params.SetEntryType(orb.LedgerEntryTypeDecrement)
		params.SetEntryStatus(orb.LedgerEntryStatusCommitted)
		params.SetCreatedAt(orb.TimeFilter{Gte: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
		must(client.Customers.Credits.Ledger.List(ctx, "cus_1", params))

		req := api.LastRequest()
		Expect(req.Path).To(Equal("/v1/customers/cus_1/credits/ledger"))
		Expect(req.Query).To(ContainSubstring("entry_type=decrement"))
		Expect(req.Query).To(ContainSubstring("entry_status=committed"))
		Expect(req.Query).To(ContainSubstring("created_at%5Bgte%5D=2024-01-01T00%3A00%3A00Z"))
	})

	It("creates entries from typed params", func() {
		api.JSON(http.MethodPost, "/customers/{id}/credits/ledger_entry", http.StatusOK,
			testutil.LedgerEntryJSON("e7", "void", `"void_amount": 5, "void_reason": "refund"`))

		params := orb.NewLedgerVoidParams("blk_1", 5)
		params.SetVoidReason(orb.LedgerVoidReasonRefund)
		params.SetDescription("refunded")

		entry := must(client.Customers.Credits.Ledger.New(ctx, "cus_1", params))
		void, ok := entry.Variant().(orb.VoidLedgerEntry)
		Expect(ok).To(BeTrue())
		Expect(must(void.VoidReason()).Value).To(Equal("refund"))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"entry_type": "void",
			"block_id": "blk_1",
			"amount": 5,
			"void_reason": "refund",
			"description": "refunded"
		}`))
	})

	It("sends an expiry policy of either shape", func() {
		api.JSON(http.MethodPost, "/customers/{id}/credits/ledger_entry", http.StatusOK,
			testutil.LedgerEntryJSON("e8", "increment", ""))

		params := orb.NewLedgerIncrementParams(100)
		params.SetExpiryPolicy(orb.NewExpiryPolicyDuration(12, orb.ExpiryDurationUnitMonth))
		must(client.Customers.Credits.Ledger.New(ctx, "cus_1", params))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"entry_type": "increment",
			"amount": 100,
			"expiry_policy": {"duration": 12, "duration_unit": "month"}
		}`))

		params = orb.NewLedgerIncrementParams(100)
		params.SetExpiryPolicy(orb.ExpiryPolicyDate{Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})
		must(client.Customers.Credits.Ledger.New(ctx, "cus_1", params))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"entry_type": "increment",
			"amount": 100,
			"expiry_policy": "2025-01-01T00:00:00Z"
		}`))
	})

	It("formats the target expiry as a date", func() {
		params := orb.NewLedgerExpirationChangeParams(time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC))
		Expect(params.Validate()).To(Succeed())
		Expect(params.String()).To(ContainSubstring(`"target_expiry_date":"2025-06-01"`))
	})

	It("rejects a nil body", func() {
		_, err := client.Customers.Credits.Ledger.New(ctx, "cus_1", nil)
		Expect(err).To(HaveOccurred())
		_, err = client.Customers.Credits.Ledger.New(ctx, "cus_1", (*orb.LedgerVoidParams)(nil))
		Expect(err).To(HaveOccurred())
		Expect(api.Requests()).To(BeEmpty())
	})
})

var _ = Describe("Credit blocks", func() {
	It("resolves the expiry policy by shape", func() {
		api.JSON(http.MethodGet, "/customers/{id}/credits", http.StatusOK,
			testutil.Page("", testutil.CreditBlockDateJSON, testutil.CreditBlockDurationJSON))

		var params orb.CustomerCreditListParams
		params.SetIncludeAllBlocks(true)
		page := must(client.Customers.Credits.List(ctx, "cus_1", params))
		Expect(api.LastRequest().Query).To(ContainSubstring("include_all_blocks=true"))
		Expect(page.Validate()).To(Succeed())

		blocks := must(page.Data())
		Expect(blocks).To(HaveLen(2))

		date := must(blocks[0].ExpiryPolicy())
		Expect(date.Value.Variant()).To(BeAssignableToTypeOf(orb.ExpiryPolicyDate{}))

		duration := must(blocks[1].ExpiryPolicy())
		d, ok := duration.Value.Variant().(orb.ExpiryPolicyDuration)
		Expect(ok).To(BeTrue())
		Expect(must(d.Duration())).To(Equal(int64(12)))
		Expect(must(d.DurationUnit()).Is(orb.ExpiryDurationUnitMonth)).To(BeTrue())
		Expect(must(blocks[1].Status()).Raw()).To(Equal("pending_payment"))
	})

	It("reports a policy matching neither shape", func() {
		api.JSON(http.MethodGet, "/customers/{id}/credits", http.StatusOK,
			testutil.Page("", `{"id":"blk_3","balance":1,"expiry_policy":42,"status":"active"}`))

		page := must(client.Customers.Credits.List(ctx, "cus_1", orb.CustomerCreditListParams{}))
		blocks := must(page.Data())
		_, err := blocks[0].ExpiryPolicy()
		Expect(err).To(MatchError(union.ErrResolution))
	})
})
