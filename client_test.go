package orb_test

import (
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/internal/testutil"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/bag"
)

var _ = Describe("Client", func() {
	It("pings the API", func() {
		api.JSON(http.MethodGet, "/ping", http.StatusOK, `{"response": "Orb API is reachable"}`)

		res := must(client.TopLevel.Ping(ctx))
		Expect(res.Validate()).To(Succeed())
		Expect(must(res.Response())).To(Equal("Orb API is reachable"))
		Expect(api.LastRequest().Header.Get("User-Agent")).To(HavePrefix("Orb/Go"))
	})

	It("reaches undocumented endpoints with Execute", func() {
		api.JSON(http.MethodPost, "/alerts", http.StatusOK, `{"id": "alert_1", "enabled": true}`)

		var res bag.Bag
		Expect(client.Post(ctx, "alerts", []byte(`{"type":"credit_balance_depleted"}`), &res)).To(Succeed())
		Expect(res.Has("enabled")).To(BeTrue())
		Expect(string(api.LastRequest().Body)).To(Equal(`{"type":"credit_balance_depleted"}`))
	})

	It("retries retryable statuses with the same idempotency key", func() {
		api.Sequence(http.MethodPost, "/customers",
			testutil.Response{Status: http.StatusServiceUnavailable, Body: `{"title": "Unavailable"}`},
			testutil.Response{Status: http.StatusTooManyRequests, Header: map[string]string{"Retry-After-Ms": "1"}, Body: `{}`},
			testutil.Response{Status: http.StatusOK, Body: testutil.CustomerJSON},
		)

		must(client.Customers.New(ctx, orb.NewCustomerNewParams("Acme Inc.", "billing@acme.test")))

		reqs := api.Requests()
		Expect(reqs).To(HaveLen(3))
		key := reqs[0].Header.Get("Idempotency-Key")
		for i, req := range reqs {
			Expect(req.Header.Get("Idempotency-Key")).To(Equal(key))
			Expect(req.Body).To(Equal(reqs[0].Body))
			if i > 0 {
				Expect(req.Header.Get("X-Orb-Retry-Count")).NotTo(BeEmpty())
			}
		}
	})

	It("gives up after the configured retries", func() {
		api.JSON(http.MethodGet, "/customers/{id}", http.StatusInternalServerError, `{"title": "Internal"}`)

		_, err := client.Customers.Get(ctx, "cus_1", option.WithMaxRetries(0))
		var apierr *orb.Error
		Expect(errors.As(err, &apierr)).To(BeTrue())
		Expect(apierr.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(api.Requests()).To(HaveLen(1))
	})

	It("reports connection failures", func() {
		dead := orb.NewClient(option.WithBaseURL("http://127.0.0.1:1/v1/"), option.WithMaxRetries(0))
		_, err := dead.TopLevel.Ping(ctx)
		var connErr *orb.ConnectionError
		Expect(errors.As(err, &connErr)).To(BeTrue())
		Expect(connErr.Attempts).To(Equal(1))
	})

	It("exposes the raw response", func() {
		api.Handle(http.MethodGet, "/ping", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Request-Id", "req_1")
			testutil.WriteJSON(w, http.StatusOK, `{"response": "ok"}`)
		})

		var raw *http.Response
		must(client.TopLevel.Ping(ctx, option.WithResponseInto(&raw)))
		Expect(raw.Header.Get("X-Request-Id")).To(Equal("req_1"))
	})

	It("applies per-request options after client options", func() {
		api.JSON(http.MethodGet, "/ping", http.StatusOK, `{"response": "ok"}`)

		must(client.TopLevel.Ping(ctx, option.WithAPIKey("other-key"), option.WithHeader("X-Trace", "1")))
		req := api.LastRequest()
		Expect(req.Header.Get("Authorization")).To(Equal("Bearer other-key"))
		Expect(req.Header.Get("X-Trace")).To(Equal("1"))
	})
})
