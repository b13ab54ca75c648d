package testutil

import "fmt"

// Fixture payloads shaped like real Orb API responses.
const (
	CustomerJSON = `{
  "id": "cus_1",
  "external_customer_id": "acme",
  "name": "Acme Inc.",
  "email": "billing@acme.test",
  "additional_emails": [],
  "currency": "USD",
  "balance": "12.50",
  "timezone": "Etc/UTC",
  "auto_collection": true,
  "email_delivery": true,
  "payment_provider": "stripe_charge",
  "payment_provider_id": "cus_stripe",
  "billing_address": {"city": "Berlin", "country": "DE", "line1": "Main St 1", "line2": null, "postal_code": "10115", "state": null},
  "shipping_address": null,
  "metadata": {"tier": "gold"},
  "portal_url": null,
  "created_at": "2024-01-02T03:04:05Z",
  "tax_id": null
}`

	ItemJSON = `{"id": "item_1", "name": "API calls", "external_connections": [], "created_at": "2024-01-01T00:00:00Z"}`

	UnitPriceJSON = `{
  "id": "price_unit",
  "name": "API calls",
  "external_price_id": null,
  "model_type": "unit",
  "price_type": "usage_price",
  "cadence": "monthly",
  "currency": "USD",
  "item": {"id": "item_1", "name": "API calls"},
  "billable_metric": {"id": "metric_1"},
  "fixed_price_quantity": null,
  "plan_phase_order": null,
  "discount": null,
  "created_at": "2024-01-01T00:00:00Z",
  "unit_config": {"unit_amount": "0.25"}
}`

	TieredPriceJSON = `{
  "id": "price_tiered",
  "name": "Storage",
  "external_price_id": "storage",
  "model_type": "tiered",
  "price_type": "usage_price",
  "cadence": "monthly",
  "currency": "USD",
  "item": {"id": "item_2", "name": "Storage"},
  "billable_metric": null,
  "fixed_price_quantity": null,
  "plan_phase_order": null,
  "discount": {"discount_type": "percentage", "percentage_discount": 0.1, "applies_to_price_ids": ["price_tiered"]},
  "created_at": "2024-01-01T00:00:00Z",
  "tiered_config": {"tiers": [{"first_unit": 0, "last_unit": 100, "unit_amount": "1.00"}, {"first_unit": 100, "unit_amount": "0.50"}]}
}`

	// UnknownPriceJSON has a pricing model this client does not know.
	UnknownPriceJSON = `{
  "id": "price_future",
  "name": "Future",
  "external_price_id": null,
  "model_type": "threshold_total_amount",
  "price_type": "usage_price",
  "cadence": "annual",
  "currency": "USD",
  "item": {"id": "item_1", "name": "API calls"},
  "billable_metric": null,
  "fixed_price_quantity": null,
  "plan_phase_order": null,
  "discount": null,
  "created_at": "2024-01-01T00:00:00Z",
  "threshold_total_amount_config": {"consumption_table": []}
}`

	PlanJSON = `{
  "id": "plan_1",
  "name": "Pro",
  "description": "Pro plan",
  "external_plan_id": "pro",
  "status": "active",
  "currency": "USD",
  "prices": [` + UnitPriceJSON + `, ` + TieredPriceJSON + `],
  "default_invoice_memo": null,
  "net_terms": 30,
  "metadata": {},
  "created_at": "2024-01-01T00:00:00Z"
}`

	SubscriptionJSON = `{
  "id": "sub_1",
  "customer": ` + CustomerJSON + `,
  "plan": ` + PlanJSON + `,
  "status": "active",
  "start_date": "2024-02-01T00:00:00Z",
  "end_date": null,
  "current_billing_period_start_date": "2024-02-01T00:00:00Z",
  "current_billing_period_end_date": "2024-03-01T00:00:00Z",
  "auto_collection": null,
  "net_terms": 30,
  "metadata": {},
  "created_at": "2024-02-01T00:00:00Z"
}`

	InvoiceJSON = `{
  "id": "inv_1",
  "invoice_number": "INV-0001",
  "customer": {"id": "cus_1", "external_customer_id": "acme"},
  "subscription": {"id": "sub_1"},
  "status": "issued",
  "currency": "USD",
  "amount_due": "99.00",
  "subtotal": "110.00",
  "total": "99.00",
  "discounts": [{"discount_type": "amount", "amount_discount": "11.00", "applies_to_price_ids": []}],
  "line_items": [{"id": "li_1", "name": "API calls", "quantity": 440, "amount": "110.00", "start_date": "2024-02-01T00:00:00Z", "end_date": "2024-03-01T00:00:00Z", "price": ` + UnitPriceJSON + `}],
  "memo": null,
  "hosted_invoice_url": "https://invoices.test/inv_1",
  "invoice_date": "2024-03-01T00:00:00Z",
  "due_date": "2024-03-31T00:00:00Z",
  "issued_at": "2024-03-01T00:00:00Z",
  "paid_at": null,
  "voided_at": null,
  "metadata": {},
  "created_at": "2024-03-01T00:00:00Z"
}`

	CouponJSON = `{
  "id": "coupon_1",
  "redemption_code": "WELCOME",
  "discount": {"discount_type": "percentage", "percentage_discount": 0.2, "applies_to_price_ids": []},
  "times_redeemed": 3,
  "duration_in_months": 6,
  "max_redemptions": null,
  "archived_at": null
}`

	CreditNoteJSON = `{
  "id": "cn_1",
  "credit_note_number": "CN-0001",
  "invoice_id": "inv_1",
  "customer": {"id": "cus_1", "external_customer_id": "acme"},
  "type": "refund",
  "reason": "Duplicate",
  "subtotal": "10.00",
  "total": "10.00",
  "minimum_amount_refunded": null,
  "credit_note_pdf": null,
  "line_items": [{"id": "cnli_1", "name": "API calls", "amount": "10.00", "subtotal": "10.00", "quantity": null}],
  "created_at": "2024-03-02T00:00:00Z"
}`

	MetricJSON = `{
  "id": "metric_1",
  "name": "API calls",
  "description": null,
  "status": "active",
  "item": ` + ItemJSON + `,
  "metadata": {}
}`

	EventJSON = `{
  "id": "evt_1",
  "customer_id": "cus_1",
  "external_customer_id": null,
  "event_name": "api_call",
  "properties": {"region": "eu", "count": 2},
  "timestamp": "2024-02-10T12:00:00Z",
  "deprecated": false
}`

	CreditBlockDateJSON = `{
  "id": "blk_1",
  "balance": 100,
  "effective_date": "2024-01-01T00:00:00Z",
  "expiry_date": "2025-01-01T00:00:00Z",
  "expiry_policy": "2025-01-01T00:00:00Z",
  "maximum_initial_balance": null,
  "per_unit_cost_basis": "0.10",
  "status": "active"
}`

	CreditBlockDurationJSON = `{
  "id": "blk_2",
  "balance": 50,
  "effective_date": null,
  "expiry_date": null,
  "expiry_policy": {"duration": 12, "duration_unit": "month"},
  "maximum_initial_balance": 50,
  "per_unit_cost_basis": null,
  "status": "pending_payment"
}`
)

// LedgerEntryJSON returns a ledger entry of entryType with the given extra
// members, e.g. `"void_amount": 5, "void_reason": null`.
func LedgerEntryJSON(id, entryType, extra string) string {
	if extra != "" {
		extra = ", " + extra
	}
	return fmt.Sprintf(`{
  "id": %q,
  "entry_type": %q,
  "entry_status": "committed",
  "ledger_sequence_number": 1,
  "amount": 10,
  "starting_balance": 0,
  "ending_balance": 10,
  "currency": "USD",
  "customer": {"id": "cus_1", "external_customer_id": null},
  "credit_block": {"id": "blk_1", "expiry_date": null, "per_unit_cost_basis": "0.10"},
  "description": null,
  "metadata": {},
  "created_at": "2024-01-01T00:00:00Z"%s
}`, id, entryType, extra)
}

// Page wraps items into a list response.
func Page(nextCursor string, items ...string) string {
	cursor, more := "null", "false"
	if nextCursor != "" {
		cursor, more = fmt.Sprintf("%q", nextCursor), "true"
	}
	data := ""
	for i, item := range items {
		if i > 0 {
			data += ","
		}
		data += item
	}
	return fmt.Sprintf(`{"data":[%s],"pagination_metadata":{"has_more":%s,"next_cursor":%s}}`, data, more, cursor)
}
