package orb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/telnet2/orb-sdk-go/internal/apiquery"
	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/bag"
)

// EventService contains methods and other services that help with interacting
// with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewEventService] method instead.
type EventService struct {
	Options []option.RequestOption
}

// NewEventService generates a new service that applies the given options to
// each request. These options are applied after the parent client's options (if
// there is one), and before any request-specific options.
func NewEventService(opts ...option.RequestOption) (r EventService) {
	r = EventService{}
	r.Options = opts
	return
}

// Ingest sends a batch of usage events. Events are deduplicated by their
// idempotency_key; events failing validation are reported in the response
// and the others are accepted.
func (r *EventService) Ingest(ctx context.Context, body EventIngestParams, opts ...option.RequestOption) (res *EventIngestResponse, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "ingest"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

// Update amends a single event by replacing its properties. The event must
// belong to an open billing period.
func (r *EventService) Update(ctx context.Context, eventID string, body EventUpdateParams, opts ...option.RequestOption) (res *EventUpdateResponse, err error) {
	opts = slices.Concat(r.Options, opts)
	if eventID == "" {
		err = errors.New("missing required event_id parameter")
		return
	}
	path := fmt.Sprintf("events/%s", url.PathEscape(eventID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPut, path, body, &res, opts...)
	return
}

// Deprecate excludes an event from billing calculations.
func (r *EventService) Deprecate(ctx context.Context, eventID string, opts ...option.RequestOption) (res *EventDeprecateResponse, err error) {
	opts = slices.Concat(r.Options, opts)
	if eventID == "" {
		err = errors.New("missing required event_id parameter")
		return
	}
	path := fmt.Sprintf("events/%s/deprecate", url.PathEscape(eventID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPut, path, nil, &res, opts...)
	return
}

// Search fetches events by ID. Deprecated events are included.
func (r *EventService) Search(ctx context.Context, body EventSearchParams, opts ...option.RequestOption) (res *EventSearchResponse, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "events/search"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

// Event is a usage event as stored by Orb.
type Event struct {
	bag.Bag
}

func (r Event) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r Event) CustomerID() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "customer_id")
}

func (r Event) ExternalCustomerID() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "external_customer_id")
}

func (r Event) EventName() (string, error) {
	return bag.Get[string](&r.Bag, "event_name")
}

func (r Event) Properties() (map[string]any, error) {
	return bag.Get[map[string]any](&r.Bag, "properties")
}

func (r Event) Timestamp() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "timestamp")
}

func (r Event) Deprecated() (bool, error) {
	return bag.Get[bool](&r.Bag, "deprecated")
}

func (r Event) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.CustomerID()),
		bag.Check(r.ExternalCustomerID()),
		bag.Check(r.EventName()),
		bag.Check(r.Properties()),
		bag.Check(r.Timestamp()),
		bag.Check(r.Deprecated()),
	)
}

// EventParams is one event of an ingestion batch. Either the customer ID or
// the external customer ID must be set.
type EventParams struct {
	bag.Bag
}

func NewEventParams(eventName, idempotencyKey string, timestamp time.Time, properties map[string]any) EventParams {
	var r EventParams
	r.Set("event_name", eventName)
	r.Set("idempotency_key", idempotencyKey)
	r.Set("timestamp", timestamp)
	if properties == nil {
		properties = map[string]any{}
	}
	r.Set("properties", properties)
	return r
}

func (r *EventParams) SetCustomerID(v string) { r.Set("customer_id", v) }

func (r *EventParams) SetExternalCustomerID(v string) { r.Set("external_customer_id", v) }

func (r EventParams) Validate() error {
	hasCustomer := r.Has("customer_id") && !r.IsNull("customer_id")
	hasExternal := r.Has("external_customer_id") && !r.IsNull("external_customer_id")
	if !hasCustomer && !hasExternal {
		return fmt.Errorf("%w customer_id or external_customer_id", bag.ErrMissingField)
	}
	return bag.First(
		bag.Check(bag.Get[string](&r.Bag, "event_name")),
		bag.Check(bag.Get[string](&r.Bag, "idempotency_key")),
		bag.Check(bag.Get[time.Time](&r.Bag, "timestamp")),
		bag.Check(bag.Get[map[string]any](&r.Bag, "properties")),
	)
}

// EventIngestParams is a batch of events. The debug and backfill flags are
// sent as query parameters, the events as the body.
type EventIngestParams struct {
	bag.Bag
	query bag.Bag
}

func NewEventIngestParams(events ...EventParams) EventIngestParams {
	var r EventIngestParams
	r.Set("events", events)
	return r
}

// SetDebug asks Orb to report which events were ingested and which were
// duplicates.
func (r *EventIngestParams) SetDebug(v bool) { r.query.Set("debug", v) }

// SetBackfillID ingests the events into a pending backfill.
func (r *EventIngestParams) SetBackfillID(v string) { r.query.Set("backfill_id", v) }

func (r EventIngestParams) URLQuery() (v url.Values, err error) {
	return apiquery.MarshalWithSettings(r.query, querySettings)
}

func (r EventIngestParams) Validate() error {
	return bag.Check(bag.Get[[]EventParams](&r.Bag, "events"))
}

type EventIngestResponse struct {
	bag.Bag
}

// ValidationFailed lists the events that were rejected.
func (r EventIngestResponse) ValidationFailed() ([]EventValidationFailure, error) {
	return bag.Get[[]EventValidationFailure](&r.Bag, "validation_failed")
}

// Debug is only present when the debug flag was set.
func (r EventIngestResponse) Debug() (bag.Opt[EventIngestDebug], error) {
	return bag.GetOptional[EventIngestDebug](&r.Bag, "debug")
}

func (r EventIngestResponse) Validate() error {
	return bag.First(bag.Check(r.ValidationFailed()), bag.Check(r.Debug()))
}

type EventValidationFailure struct {
	bag.Bag
}

func (r EventValidationFailure) IdempotencyKey() (string, error) {
	return bag.Get[string](&r.Bag, "idempotency_key")
}

func (r EventValidationFailure) ValidationErrors() ([]string, error) {
	return bag.Get[[]string](&r.Bag, "validation_errors")
}

func (r EventValidationFailure) Validate() error {
	return bag.First(bag.Check(r.IdempotencyKey()), bag.Check(r.ValidationErrors()))
}

type EventIngestDebug struct {
	bag.Bag
}

// Duplicate lists the idempotency keys that were already ingested.
func (r EventIngestDebug) Duplicate() ([]string, error) {
	return bag.Get[[]string](&r.Bag, "duplicate")
}

func (r EventIngestDebug) Ingested() ([]string, error) {
	return bag.Get[[]string](&r.Bag, "ingested")
}

func (r EventIngestDebug) Validate() error {
	return bag.First(bag.Check(r.Duplicate()), bag.Check(r.Ingested()))
}

type EventUpdateParams struct {
	bag.Bag
}

func NewEventUpdateParams(eventName string, timestamp time.Time, properties map[string]any) EventUpdateParams {
	var r EventUpdateParams
	r.Set("event_name", eventName)
	r.Set("timestamp", timestamp)
	r.Set("properties", properties)
	return r
}

func (r *EventUpdateParams) SetCustomerID(v string) { r.Set("customer_id", v) }

func (r *EventUpdateParams) SetExternalCustomerID(v string) { r.Set("external_customer_id", v) }

type EventUpdateResponse struct {
	bag.Bag
}

// Amended is the ID of the amended event.
func (r EventUpdateResponse) Amended() (string, error) {
	return bag.Get[string](&r.Bag, "amended")
}

type EventDeprecateResponse struct {
	bag.Bag
}

// Deprecated is the ID of the deprecated event.
func (r EventDeprecateResponse) Deprecated() (string, error) {
	return bag.Get[string](&r.Bag, "deprecated")
}

type EventSearchParams struct {
	bag.Bag
}

// NewEventSearchParams searches for up to 500 event IDs.
func NewEventSearchParams(eventIDs ...string) EventSearchParams {
	var r EventSearchParams
	r.Set("event_ids", eventIDs)
	return r
}

func (r *EventSearchParams) SetTimeframeStart(v time.Time) { r.Set("timeframe_start", v) }

func (r *EventSearchParams) SetTimeframeEnd(v time.Time) { r.Set("timeframe_end", v) }

type EventSearchResponse struct {
	bag.Bag
}

func (r EventSearchResponse) Data() ([]Event, error) {
	return bag.Get[[]Event](&r.Bag, "data")
}

func (r EventSearchResponse) Validate() error {
	return bag.Check(r.Data())
}

// ParseEvents reads a batch of events from JSON, either an array of events or
// an object with an "events" array.
func ParseEvents(data []byte) ([]EventParams, error) {
	var batch struct {
		Events []EventParams `json:"events"`
	}
	if err := json.Unmarshal(data, &batch); err == nil && batch.Events != nil {
		return batch.Events, nil
	}
	var events []EventParams
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("events: expected an array or an object with events: %w", err)
	}
	return events, nil
}
