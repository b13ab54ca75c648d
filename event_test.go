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

var _ = Describe("Events", func() {
	ts := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)

	It("ingests a batch with the debug flag in the query", func() {
		api.JSON(http.MethodPost, "/ingest", http.StatusOK, `{
			"validation_failed": [{"idempotency_key": "k2", "validation_errors": ["timestamp is in the future"]}],
			"debug": {"duplicate": [], "ingested": ["k1"]}
		}`)

		first := orb.NewEventParams("api_call", "k1", ts, map[string]any{"count": 2})
		first.SetExternalCustomerID("acme")
		second := orb.NewEventParams("api_call", "k2", ts.AddDate(1, 0, 0), nil)
		second.SetCustomerID("cus_1")

		params := orb.NewEventIngestParams(first, second)
		params.SetDebug(true)
		Expect(params.Validate()).To(Succeed())

		res := must(client.Events.Ingest(ctx, params))
		Expect(res.Validate()).To(Succeed())

		failed := must(res.ValidationFailed())
		Expect(failed).To(HaveLen(1))
		Expect(must(failed[0].IdempotencyKey())).To(Equal("k2"))
		debug := must(res.Debug())
		Expect(must(debug.Value.Ingested())).To(Equal([]string{"k1"}))

		req := api.LastRequest()
		Expect(req.Path).To(Equal("/v1/ingest"))
		Expect(req.Query).To(Equal("debug=true"))
		Expect(string(req.Body)).To(MatchJSON(`{"events": [
			{"event_name": "api_call", "idempotency_key": "k1", "timestamp": "2024-02-10T12:00:00Z", "properties": {"count": 2}, "external_customer_id": "acme"},
			{"event_name": "api_call", "idempotency_key": "k2", "timestamp": "2025-02-10T12:00:00Z", "properties": {}, "customer_id": "cus_1"}
		]}`))
	})

	It("requires a customer on every event", func() {
		params := orb.NewEventIngestParams(orb.NewEventParams("api_call", "k1", ts, nil))
		err := params.Validate()
		Expect(err).To(MatchError(bag.ErrMissingField))
		Expect(err.Error()).To(ContainSubstring("customer_id or external_customer_id"))
	})

	It("parses events from either batch shape", func() {
		array := []byte(`[{"event_name": "a", "idempotency_key": "k1", "timestamp": "2024-02-10T12:00:00Z", "properties": {}, "customer_id": "cus_1"}]`)
		wrapped := []byte(`{"events": ` + string(array) + `}`)

		for _, data := range [][]byte{array, wrapped} {
			events := must(orb.ParseEvents(data))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Validate()).To(Succeed())
		}

		_, err := orb.ParseEvents([]byte(`"nope"`))
		Expect(err).To(HaveOccurred())
	})

	It("searches, amends and deprecates events", func() {
		api.JSON(http.MethodPost, "/events/search", http.StatusOK, `{"data": [`+testutil.EventJSON+`]}`)
		api.JSON(http.MethodPut, "/events/{id}", http.StatusOK, `{"amended": "evt_1"}`)
		api.JSON(http.MethodPut, "/events/{id}/deprecate", http.StatusOK, `{"deprecated": "evt_1"}`)

		search := orb.NewEventSearchParams("evt_1")
		search.SetTimeframeStart(ts.AddDate(0, -1, 0))
		found := must(client.Events.Search(ctx, search))
		events := must(found.Data())
		Expect(events).To(HaveLen(1))
		Expect(must(events[0].Properties())).To(HaveKeyWithValue("region", "eu"))
		Expect(found.Validate()).To(Succeed())

		update := orb.NewEventUpdateParams("api_call", ts, map[string]any{"count": 3})
		update.SetCustomerID("cus_1")
		amended := must(client.Events.Update(ctx, "evt_1", update))
		Expect(must(amended.Amended())).To(Equal("evt_1"))
		Expect(api.LastRequest().Method).To(Equal(http.MethodPut))

		deprecated := must(client.Events.Deprecate(ctx, "evt_1"))
		Expect(must(deprecated.Deprecated())).To(Equal("evt_1"))
		Expect(api.LastRequest().Path).To(Equal("/v1/events/evt_1/deprecate"))
	})
})
