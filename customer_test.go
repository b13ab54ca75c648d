package orb_test

import (
	"encoding/json"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/internal/testutil"
	"github.com/telnet2/orb-sdk-go/packages/bag"
	"github.com/telnet2/orb-sdk-go/packages/enum"
)

var _ = Describe("Customers", func() {
	It("creates a customer", func() {
		api.JSON(http.MethodPost, "/customers", http.StatusOK, testutil.CustomerJSON)

		params := orb.NewCustomerNewParams("Acme Inc.", "billing@acme.test")
		params.SetExternalCustomerID("acme")
		params.SetPaymentProvider(orb.CustomerPaymentProviderStripeCharge)
		var addr orb.AddressParams
		addr.SetCity("Berlin")
		addr.SetCountry("DE")
		params.SetBillingAddress(addr)
		Expect(params.Validate()).To(Succeed())

		customer := must(client.Customers.New(ctx, params))
		Expect(customer.Validate()).To(Succeed())
		Expect(must(customer.ID())).To(Equal("cus_1"))

		req := api.LastRequest()
		Expect(req.Header.Get("Authorization")).To(Equal("Bearer test-key"))
		Expect(req.Header.Get("Idempotency-Key")).NotTo(BeEmpty())
		Expect(string(req.Body)).To(MatchJSON(`{
			"name": "Acme Inc.",
			"email": "billing@acme.test",
			"external_customer_id": "acme",
			"payment_provider": "stripe_charge",
			"billing_address": {"city": "Berlin", "country": "DE"}
		}`))
	})

	It("reports missing required params", func() {
		var params orb.CustomerNewParams
		params.SetName("Acme")
		err := params.Validate()
		Expect(err).To(MatchError(bag.ErrMissingField))
		Expect(err.Error()).To(Equal("missing required field email"))
	})

	It("reads every field of a customer", func() {
		api.JSON(http.MethodGet, "/customers/{id}", http.StatusOK, testutil.CustomerJSON)

		customer := must(client.Customers.Get(ctx, "cus_1"))
		Expect(api.LastRequest().Path).To(Equal("/v1/customers/cus_1"))

		Expect(must(customer.Balance()).Equal(decimal.RequireFromString("12.5"))).To(BeTrue())
		Expect(must(customer.ExternalCustomerID())).To(Equal(bag.Some("acme")))
		Expect(must(customer.ShippingAddress()).Valid).To(BeFalse())

		billing := must(customer.BillingAddress())
		Expect(billing.Valid).To(BeTrue())
		Expect(must(billing.Value.City()).Value).To(Equal("Berlin"))
		Expect(must(billing.Value.Line2()).Valid).To(BeFalse())

		provider := must(customer.PaymentProvider())
		Expect(provider.Value.Is(orb.CustomerPaymentProviderStripeCharge)).To(BeTrue())
		Expect(must(customer.Metadata())).To(HaveKeyWithValue("tier", "gold"))
	})

	It("keeps fields it does not model", func() {
		api.JSON(http.MethodGet, "/customers/{id}", http.StatusOK, testutil.CustomerJSON)

		customer := must(client.Customers.Get(ctx, "cus_1"))
		Expect(customer.Has("tax_id")).To(BeTrue())
		Expect(customer.IsNull("tax_id")).To(BeTrue())

		out := must(json.Marshal(customer))
		Expect(string(out)).To(MatchJSON(testutil.CustomerJSON))
	})

	It("reads unknown enum values without failing", func() {
		var customer orb.Customer
		Expect(json.Unmarshal([]byte(`{"payment_provider":"stripe_chrage"}`), &customer)).To(Succeed())

		provider := must(customer.PaymentProvider())
		Expect(provider.Value.Raw()).To(Equal("stripe_chrage"))

		_, err := provider.Value.Known()
		Expect(err).To(MatchError(enum.ErrUnrecognized))
		var uerr *enum.UnknownValueError
		Expect(errors.As(err, &uerr)).To(BeTrue())
		Expect(uerr.Suggestion).To(Equal("stripe_charge"))
	})

	It("fails validation for a missing required field", func() {
		var customer orb.Customer
		Expect(json.Unmarshal([]byte(`{"id":"cus_1"}`), &customer)).To(Succeed())
		err := customer.Validate()
		Expect(err).To(MatchError(bag.ErrMissingField))
		Expect(err.Error()).To(Equal("missing required field external_customer_id"))
	})

	It("fetches by external id", func() {
		api.JSON(http.MethodGet, "/customers/external_customer_id/{id}", http.StatusOK, testutil.CustomerJSON)

		customer := must(client.Customers.GetByExternalID(ctx, "acme"))
		Expect(must(customer.ID())).To(Equal("cus_1"))
		Expect(api.LastRequest().Path).To(Equal("/v1/customers/external_customer_id/acme"))
	})

	It("updates and deletes", func() {
		api.JSON(http.MethodPut, "/customers/{id}", http.StatusOK, testutil.CustomerJSON)
		api.JSON(http.MethodDelete, "/customers/{id}", http.StatusOK, ``)

		var params orb.CustomerUpdateParams
		params.SetEmail("new@acme.test")
		params.SetMetadata(orb.Metadata{"tier": "platinum"})
		must(client.Customers.Update(ctx, "cus_1", params))
		Expect(string(api.LastRequest().Body)).To(MatchJSON(`{"email":"new@acme.test","metadata":{"tier":"platinum"}}`))

		Expect(client.Customers.Delete(ctx, "cus_1")).To(Succeed())
		req := api.LastRequest()
		Expect(req.Method).To(Equal(http.MethodDelete))
		Expect(req.Body).To(BeEmpty())
	})

	It("rejects an empty id before sending", func() {
		_, err := client.Customers.Get(ctx, "")
		Expect(err).To(MatchError(ContainSubstring("customer_id")))
		Expect(api.Requests()).To(BeEmpty())
	})

	It("pages through customers", func() {
		api.Handle(http.MethodGet, "/customers", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("cursor") == "" {
				testutil.WriteJSON(w, http.StatusOK, testutil.Page("next", `{"id":"cus_1"}`, `{"id":"cus_2"}`))
				return
			}
			testutil.WriteJSON(w, http.StatusOK, testutil.Page("", `{"id":"cus_3"}`))
		})

		var params orb.CustomerListParams
		params.SetLimit(2)
		iter := client.Customers.ListAutoPaging(ctx, params)
		var ids []string
		for iter.Next() {
			ids = append(ids, must(iter.Current().ID()))
		}
		Expect(iter.Err()).NotTo(HaveOccurred())
		Expect(ids).To(Equal([]string{"cus_1", "cus_2", "cus_3"}))

		reqs := api.Requests()
		Expect(reqs).To(HaveLen(2))
		Expect(reqs[1].Query).To(ContainSubstring("cursor=next"))
		Expect(reqs[1].Query).To(ContainSubstring("limit=2"))
	})

	It("surfaces API errors", func() {
		api.JSON(http.MethodGet, "/customers/{id}", http.StatusNotFound,
			`{"type":"https://docs.withorb.com/reference/error-responses#404-not-found","status":404,"title":"Not Found"}`)

		_, err := client.Customers.Get(ctx, "missing")
		var apierr *orb.Error
		Expect(errors.As(err, &apierr)).To(BeTrue())
		Expect(apierr.StatusCode).To(Equal(http.StatusNotFound))
		Expect(must(apierr.Title()).Value).To(Equal("Not Found"))
		Expect(api.Requests()).To(HaveLen(1))
	})
})
