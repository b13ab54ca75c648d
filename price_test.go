package orb_test

import (
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/internal/testutil"
	"github.com/telnet2/orb-sdk-go/packages/bag"
	"github.com/telnet2/orb-sdk-go/packages/union"
	"github.com/telnet2/orb-sdk-go/shared"
)

var _ = Describe("Prices", func() {
	It("resolves a unit price by model_type", func() {
		api.JSON(http.MethodGet, "/prices/{id}", http.StatusOK, testutil.UnitPriceJSON)

		price := must(client.Prices.Get(ctx, "price_unit"))
		Expect(price.Tag()).To(Equal("unit"))
		Expect(price.IsUnknown()).To(BeFalse())
		Expect(price.Validate()).To(Succeed())

		unit, ok := price.Variant().(orb.UnitPrice)
		Expect(ok).To(BeTrue())
		config := must(unit.UnitConfig())
		Expect(must(config.UnitAmount()).Equal(decimal.RequireFromString("0.25"))).To(BeTrue())
		Expect(must(unit.Item()).Name()).To(Equal("API calls"))
	})

	It("reads the nested discount union of a tiered price", func() {
		api.JSON(http.MethodGet, "/prices/{id}", http.StatusOK, testutil.TieredPriceJSON)

		price := must(client.Prices.Get(ctx, "price_tiered"))
		tiered, ok := price.Variant().(orb.TieredPrice)
		Expect(ok).To(BeTrue())

		tiers := must(must(tiered.TieredConfig()).Tiers())
		Expect(tiers).To(HaveLen(2))
		Expect(must(tiers[1].LastUnit()).Valid).To(BeFalse())

		discount := must(tiered.Discount())
		Expect(discount.Valid).To(BeTrue())
		pct, ok := discount.Value.Variant().(shared.PercentageDiscount)
		Expect(ok).To(BeTrue())
		Expect(must(pct.PercentageDiscount())).To(Equal(0.1))
		Expect(price.Validate()).To(Succeed())
	})

	It("falls back for a pricing model it does not know", func() {
		api.JSON(http.MethodGet, "/prices/{id}", http.StatusOK, testutil.UnknownPriceJSON)

		price := must(client.Prices.Get(ctx, "price_future"))
		Expect(price.IsUnknown()).To(BeTrue())
		Expect(price.Tag()).To(Equal("threshold_total_amount"))
		Expect(price.Validate()).To(MatchError(union.ErrUnknownVariant))

		unknown, ok := price.Variant().(orb.UnknownPrice)
		Expect(ok).To(BeTrue())
		Expect(must(unknown.ID())).To(Equal("price_future"))
		Expect(must(unknown.Cadence()).Raw()).To(Equal("annual"))
		Expect(unknown.Has("threshold_total_amount_config")).To(BeTrue())

		out := must(json.Marshal(price))
		Expect(string(out)).To(MatchJSON(testutil.UnknownPriceJSON))
	})

	It("lists prices of mixed models", func() {
		api.JSON(http.MethodGet, "/prices", http.StatusOK,
			testutil.Page("", testutil.UnitPriceJSON, testutil.TieredPriceJSON, testutil.UnknownPriceJSON))

		page := must(client.Prices.List(ctx, orb.PriceListParams{}))
		prices := must(page.Data())
		Expect(prices).To(HaveLen(3))
		Expect(prices[0].Variant()).To(BeAssignableToTypeOf(orb.UnitPrice{}))
		Expect(prices[1].Variant()).To(BeAssignableToTypeOf(orb.TieredPrice{}))
		Expect(prices[2].IsUnknown()).To(BeTrue())
		Expect(page.Validate()).To(MatchError(union.ErrUnknownVariant))
	})

	It("creates a price from typed params", func() {
		api.JSON(http.MethodPost, "/prices", http.StatusOK, testutil.UnitPriceJSON)

		params := orb.NewUnitPriceParams("API calls", "item_1", orb.PriceCadenceMonthly, "USD",
			orb.NewUnitConfig(decimal.RequireFromString("0.25")))
		params.SetBillableMetricID("metric_1")
		Expect(params.Validate()).To(Succeed())

		price := must(client.Prices.New(ctx, params))
		Expect(price.Variant()).To(BeAssignableToTypeOf(orb.UnitPrice{}))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"model_type": "unit",
			"name": "API calls",
			"item_id": "item_1",
			"cadence": "monthly",
			"currency": "USD",
			"unit_config": {"unit_amount": "0.25"},
			"billable_metric_id": "metric_1"
		}`))
	})

	It("sends tier boundaries", func() {
		api.JSON(http.MethodPost, "/prices", http.StatusOK, testutil.TieredPriceJSON)

		first := orb.NewTier(decimal.RequireFromString("1"))
		first.SetFirstUnit(0)
		first.SetLastUnit(100)
		rest := orb.NewTier(decimal.RequireFromString("0.5"))
		rest.SetFirstUnit(100)

		params := orb.NewTieredPriceParams("Storage", "item_2", orb.PriceCadenceMonthly, "USD", orb.NewTierConfig(first, rest))
		must(client.Prices.New(ctx, params))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"model_type": "tiered",
			"name": "Storage",
			"item_id": "item_2",
			"cadence": "monthly",
			"currency": "USD",
			"tiered_config": {"tiers": [
				{"unit_amount": "1", "first_unit": 0, "last_unit": 100},
				{"unit_amount": "0.5", "first_unit": 100}
			]}
		}`))
	})

	It("rejects a nil body", func() {
		_, err := client.Prices.New(ctx, nil)
		Expect(err).To(HaveOccurred())
		_, err = client.Prices.New(ctx, (*orb.UnitPriceParams)(nil))
		Expect(err).To(MatchError(ContainSubstring("missing required price body")))
		Expect(api.Requests()).To(BeEmpty())
	})

	It("validates the model config of new prices", func() {
		params := orb.NewUnitPriceParams("API calls", "item_1", orb.PriceCadenceMonthly, "USD", orb.UnitConfig{})
		err := params.Validate()
		Expect(err).To(MatchError(bag.ErrMissingField))
		Expect(err.Error()).To(ContainSubstring("unit_amount"))

		params.Delete("unit_config")
		Expect(params.Validate()).To(MatchError(ContainSubstring("missing required field unit_config")))

		valid := orb.NewBulkPriceParams("Seats", "item_3", orb.PriceCadenceAnnual, "USD",
			orb.NewTierConfig(orb.NewTier(decimal.RequireFromString("5"))))
		Expect(valid.Validate()).To(Succeed())
	})
})
