package orb_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/internal/testutil"
	"github.com/telnet2/orb-sdk-go/packages/union"
	"github.com/telnet2/orb-sdk-go/shared"
)

var _ = Describe("Plans", func() {
	It("creates a plan with prices of different models", func() {
		api.JSON(http.MethodPost, "/plans", http.StatusOK, testutil.PlanJSON)

		unit := orb.NewUnitPriceParams("API calls", "item_1", orb.PriceCadenceMonthly, "USD",
			orb.NewUnitConfig(decimal.RequireFromString("0.25")))
		pkg := orb.NewPackagePriceParams("Seats", "item_3", orb.PriceCadenceMonthly, "USD",
			orb.NewPackageConfig(decimal.RequireFromString("50"), 10))
		params := orb.NewPlanNewParams("Pro", "USD", unit, pkg)
		params.SetNetTerms(30)

		plan := must(client.Plans.New(ctx, params))
		Expect(plan.Validate()).To(Succeed())
		Expect(must(plan.Status()).Is(orb.PlanStatusActive)).To(BeTrue())

		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"name": "Pro",
			"currency": "USD",
			"prices": [
				{"model_type": "unit", "name": "API calls", "item_id": "item_1", "cadence": "monthly", "currency": "USD", "unit_config": {"unit_amount": "0.25"}},
				{"model_type": "package", "name": "Seats", "item_id": "item_3", "cadence": "monthly", "currency": "USD", "package_config": {"package_amount": "50", "package_size": 10}}
			],
			"net_terms": 30
		}`))
	})

	It("sends an empty price list", func() {
		api.JSON(http.MethodPost, "/plans", http.StatusOK, testutil.PlanJSON)
		must(client.Plans.New(ctx, orb.NewPlanNewParams("Empty", "USD")))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{"name": "Empty", "currency": "USD", "prices": []}`))
	})
})

var _ = Describe("Items and metrics", func() {
	It("creates an item", func() {
		api.JSON(http.MethodPost, "/items", http.StatusOK, testutil.ItemJSON)

		item := must(client.Items.New(ctx, orb.NewItemNewParams("API calls")))
		Expect(item.Validate()).To(Succeed())
		Expect(must(item.ExternalConnections())).To(BeEmpty())
	})

	It("reads a metric with its item", func() {
		api.JSON(http.MethodGet, "/metrics/{id}", http.StatusOK, testutil.MetricJSON)

		metric := must(client.Metrics.Get(ctx, "metric_1"))
		Expect(metric.Validate()).To(Succeed())
		Expect(must(must(metric.Item()).Name())).To(Equal("API calls"))
		Expect(must(metric.Description()).Valid).To(BeFalse())
	})

	It("creates a metric from SQL", func() {
		api.JSON(http.MethodPost, "/metrics", http.StatusOK, testutil.MetricJSON)

		params := orb.NewMetricNewParams("API calls", "item_1", "SELECT count(*) FROM events WHERE event_name = 'api_call'")
		params.SetDescription("Counts API calls")
		must(client.Metrics.New(ctx, params))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"name": "API calls",
			"item_id": "item_1",
			"sql": "SELECT count(*) FROM events WHERE event_name = 'api_call'",
			"description": "Counts API calls"
		}`))
	})
})

var _ = Describe("Coupons", func() {
	It("creates a coupon with a discount variant", func() {
		api.JSON(http.MethodPost, "/coupons", http.StatusOK, testutil.CouponJSON)

		params := orb.NewCouponNewParams("WELCOME", shared.NewPercentageDiscount(0.2))
		params.SetDurationInMonths(6)
		coupon := must(client.Coupons.New(ctx, params))
		Expect(coupon.Validate()).To(Succeed())

		discount := must(coupon.Discount())
		Expect(discount.Variant()).To(BeAssignableToTypeOf(shared.PercentageDiscount{}))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"redemption_code": "WELCOME",
			"discount": {"discount_type": "percentage", "percentage_discount": 0.2, "applies_to_price_ids": []},
			"duration_in_months": 6
		}`))
	})

	It("fails hard on a discount type it does not know", func() {
		api.JSON(http.MethodGet, "/coupons/{id}", http.StatusOK,
			`{"id": "coupon_2", "redemption_code": "X", "discount": {"discount_type": "bogo", "applies_to_price_ids": []}, "times_redeemed": 0}`)

		coupon := must(client.Coupons.Get(ctx, "coupon_2"))
		_, err := coupon.Discount()
		Expect(err).To(MatchError(union.ErrResolution))
		Expect(err.Error()).To(ContainSubstring(`"bogo"`))
	})

	It("archives a coupon", func() {
		api.JSON(http.MethodPost, "/coupons/{id}/archive", http.StatusOK, testutil.CouponJSON)
		must(client.Coupons.Archive(ctx, "coupon_1"))
		Expect(api.LastRequest().Path).To(Equal("/v1/coupons/coupon_1/archive"))
	})
})

var _ = Describe("Credit notes", func() {
	It("reads a credit note", func() {
		api.JSON(http.MethodGet, "/credit_notes", http.StatusOK, testutil.Page("", testutil.CreditNoteJSON))

		page := must(client.CreditNotes.List(ctx, orb.CreditNoteListParams{}))
		Expect(page.Validate()).To(Succeed())
		notes := must(page.Data())
		Expect(notes).To(HaveLen(1))

		reason := must(notes[0].Reason())
		Expect(reason.Value.Is(orb.CreditNoteReasonDuplicate)).To(BeTrue())
		Expect(must(notes[0].Type()).Is(orb.CreditNoteTypeRefund)).To(BeTrue())
		lines := must(notes[0].LineItems())
		Expect(must(lines[0].Quantity()).Valid).To(BeFalse())
	})
})
