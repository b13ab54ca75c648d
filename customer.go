package orb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/bag"
	"github.com/telnet2/orb-sdk-go/packages/enum"
	"github.com/telnet2/orb-sdk-go/packages/pagination"
)

// CustomerService contains methods and other services that help with
// interacting with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewCustomerService] method instead.
type CustomerService struct {
	Options []option.RequestOption
	Credits CustomerCreditService
}

// NewCustomerService generates a new service that applies the given options to
// each request. These options are applied after the parent client's options (if
// there is one), and before any request-specific options.
func NewCustomerService(opts ...option.RequestOption) (r CustomerService) {
	r = CustomerService{}
	r.Options = opts
	r.Credits = NewCustomerCreditService(opts...)
	return
}

// This operation is used to create an Orb customer, who is party to the core
// billing relationship.
func (r *CustomerService) New(ctx context.Context, body CustomerNewParams, opts ...option.RequestOption) (res *Customer, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "customers"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

// This endpoint can be used to update the payment provider, payment provider
// ID, name, email, email delivery, tax ID, auto collection, additional emails,
// shipping address, billing address, and metadata of an existing customer.
// Other fields on a customer are currently immutable.
func (r *CustomerService) Update(ctx context.Context, customerID string, body CustomerUpdateParams, opts ...option.RequestOption) (res *Customer, err error) {
	opts = slices.Concat(r.Options, opts)
	if customerID == "" {
		err = errors.New("missing required customer_id parameter")
		return
	}
	path := fmt.Sprintf("customers/%s", url.PathEscape(customerID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPut, path, body, &res, opts...)
	return
}

// This endpoint returns a list of all customers for an account. The list of
// customers is ordered starting from the most recently created customer.
func (r *CustomerService) List(ctx context.Context, query CustomerListParams, opts ...option.RequestOption) (res *pagination.Page[Customer], err error) {
	opts = slices.Concat(r.Options, opts)
	path := "customers"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

// ListAutoPaging iterates over every customer, requesting pages as needed.
func (r *CustomerService) ListAutoPaging(ctx context.Context, query CustomerListParams, opts ...option.RequestOption) *pagination.PageAutoPager[Customer] {
	return pagination.NewPageAutoPager(r.List(ctx, query, opts...))
}

// This performs a deletion of this customer, its subscriptions, and its
// invoices. The deletion is processed asynchronously.
func (r *CustomerService) Delete(ctx context.Context, customerID string, opts ...option.RequestOption) (err error) {
	opts = slices.Concat(r.Options, opts)
	if customerID == "" {
		err = errors.New("missing required customer_id parameter")
		return
	}
	path := fmt.Sprintf("customers/%s", url.PathEscape(customerID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodDelete, path, nil, nil, opts...)
	return
}

// This endpoint is used to fetch customer details given an identifier.
func (r *CustomerService) Get(ctx context.Context, customerID string, opts ...option.RequestOption) (res *Customer, err error) {
	opts = slices.Concat(r.Options, opts)
	if customerID == "" {
		err = errors.New("missing required customer_id parameter")
		return
	}
	path := fmt.Sprintf("customers/%s", url.PathEscape(customerID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

// This endpoint is used to fetch customer details given an
// external_customer_id.
func (r *CustomerService) GetByExternalID(ctx context.Context, externalCustomerID string, opts ...option.RequestOption) (res *Customer, err error) {
	opts = slices.Concat(r.Options, opts)
	if externalCustomerID == "" {
		err = errors.New("missing required external_customer_id parameter")
		return
	}
	path := fmt.Sprintf("customers/external_customer_id/%s", url.PathEscape(externalCustomerID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

// A customer is a buyer of your products, and the other party to the billing
// relationship.
type Customer struct {
	bag.Bag
}

func (r Customer) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

// ExternalCustomerID is an optional user-defined ID for this customer
// resource, used throughout the system as an alias for this customer.
func (r Customer) ExternalCustomerID() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "external_customer_id")
}

func (r Customer) Name() (string, error) {
	return bag.Get[string](&r.Bag, "name")
}

func (r Customer) Email() (string, error) {
	return bag.Get[string](&r.Bag, "email")
}

func (r Customer) AdditionalEmails() ([]string, error) {
	return bag.Get[[]string](&r.Bag, "additional_emails")
}

// Currency is set on the first subscription or invoice of the customer.
func (r Customer) Currency() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "currency")
}

// Balance is the customer's current balance in their currency.
func (r Customer) Balance() (decimal.Decimal, error) {
	return bag.Get[decimal.Decimal](&r.Bag, "balance")
}

// Timezone is an IANA name such as "America/Los_Angeles".
func (r Customer) Timezone() (string, error) {
	return bag.Get[string](&r.Bag, "timezone")
}

func (r Customer) AutoCollection() (bool, error) {
	return bag.Get[bool](&r.Bag, "auto_collection")
}

func (r Customer) EmailDelivery() (bool, error) {
	return bag.Get[bool](&r.Bag, "email_delivery")
}

func (r Customer) PaymentProvider() (bag.Opt[enum.Value[CustomerPaymentProvider]], error) {
	return bag.GetNullable[enum.Value[CustomerPaymentProvider]](&r.Bag, "payment_provider")
}

// PaymentProviderID is the customer's ID in the payment provider.
func (r Customer) PaymentProviderID() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "payment_provider_id")
}

func (r Customer) BillingAddress() (bag.Opt[Address], error) {
	return bag.GetNullable[Address](&r.Bag, "billing_address")
}

func (r Customer) ShippingAddress() (bag.Opt[Address], error) {
	return bag.GetNullable[Address](&r.Bag, "shipping_address")
}

func (r Customer) Metadata() (Metadata, error) {
	return bag.Get[Metadata](&r.Bag, "metadata")
}

func (r Customer) PortalURL() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "portal_url")
}

func (r Customer) CreatedAt() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "created_at")
}

func (r Customer) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.ExternalCustomerID()),
		bag.Check(r.Name()),
		bag.Check(r.Email()),
		bag.Check(r.AdditionalEmails()),
		bag.Check(r.Currency()),
		bag.Check(r.Balance()),
		bag.Check(r.Timezone()),
		bag.Check(r.AutoCollection()),
		bag.Check(r.EmailDelivery()),
		bag.Check(r.PaymentProvider()),
		bag.Check(r.PaymentProviderID()),
		bag.Check(r.BillingAddress()),
		bag.Check(r.ShippingAddress()),
		bag.Check(r.Metadata()),
		bag.Check(r.PortalURL()),
		bag.Check(r.CreatedAt()),
	)
}

// This is used for creating charges or invoices in an external system via
// Orb. When not in test mode, the connection must first be configured in the
// Orb webapp.
type CustomerPaymentProvider string

const (
	CustomerPaymentProviderQuickbooks    CustomerPaymentProvider = "quickbooks"
	CustomerPaymentProviderBillCom       CustomerPaymentProvider = "bill.com"
	CustomerPaymentProviderStripeCharge  CustomerPaymentProvider = "stripe_charge"
	CustomerPaymentProviderStripeInvoice CustomerPaymentProvider = "stripe_invoice"
	CustomerPaymentProviderNetsuite      CustomerPaymentProvider = "netsuite"
)

func (r CustomerPaymentProvider) IsKnown() bool {
	switch r {
	case CustomerPaymentProviderQuickbooks, CustomerPaymentProviderBillCom, CustomerPaymentProviderStripeCharge, CustomerPaymentProviderStripeInvoice, CustomerPaymentProviderNetsuite:
		return true
	}
	return false
}

func (CustomerPaymentProvider) Values() []CustomerPaymentProvider {
	return []CustomerPaymentProvider{
		CustomerPaymentProviderQuickbooks,
		CustomerPaymentProviderBillCom,
		CustomerPaymentProviderStripeCharge,
		CustomerPaymentProviderStripeInvoice,
		CustomerPaymentProviderNetsuite,
	}
}

// Address is a postal address. Every line is nullable.
type Address struct {
	bag.Bag
}

func (r Address) City() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "city")
}

// Country is a two-letter ISO 3166 country code.
func (r Address) Country() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "country")
}

func (r Address) Line1() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "line1")
}

func (r Address) Line2() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "line2")
}

func (r Address) PostalCode() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "postal_code")
}

func (r Address) State() (bag.Opt[string], error) {
	return bag.GetNullable[string](&r.Bag, "state")
}

func (r Address) Validate() error {
	return bag.First(
		bag.Check(r.City()),
		bag.Check(r.Country()),
		bag.Check(r.Line1()),
		bag.Check(r.Line2()),
		bag.Check(r.PostalCode()),
		bag.Check(r.State()),
	)
}

// AddressParams is an address sent in a request. Unset lines are omitted.
type AddressParams struct {
	bag.Bag
}

func (r *AddressParams) SetCity(v string) { r.Set("city", v) }
func (r *AddressParams) SetCountry(v string) { r.Set("country", v) }
func (r *AddressParams) SetLine1(v string) { r.Set("line1", v) }
func (r *AddressParams) SetLine2(v string) { r.Set("line2", v) }
func (r *AddressParams) SetPostalCode(v string) { r.Set("postal_code", v) }
func (r *AddressParams) SetState(v string) { r.Set("state", v) }

// customerParams are the fields shared by the create and update requests.
type customerParams struct {
	bag.Bag
}

func (r *customerParams) SetName(v string) { r.Set("name", v) }
func (r *customerParams) SetEmail(v string) { r.Set("email", v) }

func (r *customerParams) SetAdditionalEmails(v ...string) {
	r.Set("additional_emails", v)
}

func (r *customerParams) SetAutoCollection(v bool) { r.Set("auto_collection", v) }
func (r *customerParams) SetEmailDelivery(v bool) { r.Set("email_delivery", v) }

func (r *customerParams) SetPaymentProvider(v CustomerPaymentProvider) {
	r.Set("payment_provider", v)
}

func (r *customerParams) SetPaymentProviderID(v string) {
	r.Set("payment_provider_id", v)
}

func (r *customerParams) SetBillingAddress(v AddressParams) {
	r.Set("billing_address", v)
}

func (r *customerParams) SetShippingAddress(v AddressParams) {
	r.Set("shipping_address", v)
}

func (r *customerParams) SetMetadata(v Metadata) {
	r.Set("metadata", v)
}

type CustomerNewParams struct {
	customerParams
}

// NewCustomerNewParams returns the params with the required name and email.
func NewCustomerNewParams(name, email string) CustomerNewParams {
	var r CustomerNewParams
	r.SetName(name)
	r.SetEmail(email)
	return r
}

// SetExternalCustomerID sets the alias used to refer to the customer. It
// cannot be changed later.
func (r *CustomerNewParams) SetExternalCustomerID(v string) {
	r.Set("external_customer_id", v)
}

func (r *CustomerNewParams) SetCurrency(v string) { r.Set("currency", v) }
func (r *CustomerNewParams) SetTimezone(v string) { r.Set("timezone", v) }

// Validate reports missing required fields.
func (r CustomerNewParams) Validate() error {
	return bag.First(
		bag.Check(bag.Get[string](&r.Bag, "name")),
		bag.Check(bag.Get[string](&r.Bag, "email")),
		bag.Check(bag.GetOptional[enum.Value[CustomerPaymentProvider]](&r.Bag, "payment_provider")),
	)
}

type CustomerUpdateParams struct {
	customerParams
}

type CustomerListParams struct {
	PageParams
}

func (r *CustomerListParams) SetCreatedAt(f TimeFilter) {
	f.apply(&r.Bag, "created_at")
}
