package orb_test

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/internal/testutil"
	"github.com/telnet2/orb-sdk-go/packages/bag"
)

var _ = Describe("Subscriptions", func() {
	It("reads the nested customer and plan", func() {
		api.JSON(http.MethodGet, "/subscriptions/{id}", http.StatusOK, testutil.SubscriptionJSON)

		sub := must(client.Subscriptions.Get(ctx, "sub_1"))
		Expect(sub.Validate()).To(Succeed())

		customer := must(sub.Customer())
		Expect(must(customer.Name())).To(Equal("Acme Inc."))
		plan := must(sub.Plan())
		prices := must(plan.Prices())
		Expect(prices).To(HaveLen(2))
		Expect(must(sub.AutoCollection()).Valid).To(BeFalse())
	})

	It("creates a subscription", func() {
		api.JSON(http.MethodPost, "/subscriptions", http.StatusOK, testutil.SubscriptionJSON)

		var params orb.SubscriptionNewParams
		params.SetExternalCustomerID("acme")
		params.SetExternalPlanID("pro")
		params.SetStartDate(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
		Expect(params.Validate()).To(Succeed())

		must(client.Subscriptions.New(ctx, params))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{
			"external_customer_id": "acme",
			"external_plan_id": "pro",
			"start_date": "2024-02-01T00:00:00Z"
		}`))
	})

	It("needs a date to cancel on a requested date", func() {
		params := orb.NewSubscriptionCancelParams(orb.SubscriptionCancelOptionRequestedDate)
		Expect(params.Validate()).To(MatchError(bag.ErrMissingField))

		params.SetCancellationDate(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
		Expect(params.Validate()).To(Succeed())

		Expect(orb.NewSubscriptionCancelParams(orb.SubscriptionCancelOptionImmediate).Validate()).To(Succeed())
	})

	It("cancels a subscription", func() {
		api.JSON(http.MethodPost, "/subscriptions/{id}/cancel", http.StatusOK, testutil.SubscriptionJSON)

		must(client.Subscriptions.Cancel(ctx, "sub_1", orb.NewSubscriptionCancelParams(orb.SubscriptionCancelOptionEndOfSubscriptionTerm)))
		req := api.LastRequest()
		Expect(req.Path).To(Equal("/v1/subscriptions/sub_1/cancel"))
		Expect(string(req.Body)).To(MatchJSON(`{"cancel_option": "end_of_subscription_term"}`))
	})

	It("lists by status", func() {
		api.JSON(http.MethodGet, "/subscriptions", http.StatusOK, testutil.Page("", testutil.SubscriptionJSON))

		var params orb.SubscriptionListParams
		params.SetStatus(orb.SubscriptionStatusActive)
		iter := client.Subscriptions.ListAutoPaging(ctx, params)
		Expect(iter.Next()).To(BeTrue())
		Expect(must(iter.Current().ID())).To(Equal("sub_1"))
		Expect(iter.Next()).To(BeFalse())
		Expect(iter.Err()).NotTo(HaveOccurred())
		Expect(api.LastRequest().Query).To(Equal("status=active"))
	})
})
