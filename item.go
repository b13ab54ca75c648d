package orb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/bag"
	"github.com/telnet2/orb-sdk-go/packages/enum"
	"github.com/telnet2/orb-sdk-go/packages/pagination"
)

// ItemService contains methods and other services that help with interacting
// with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewItemService] method instead.
type ItemService struct {
	Options []option.RequestOption
}

// NewItemService generates a new service that applies the given options to
// each request. These options are applied after the parent client's options (if
// there is one), and before any request-specific options.
func NewItemService(opts ...option.RequestOption) (r ItemService) {
	r = ItemService{}
	r.Options = opts
	return
}

func (r *ItemService) New(ctx context.Context, body ItemNewParams, opts ...option.RequestOption) (res *Item, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "items"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodPost, path, body, &res, opts...)
	return
}

func (r *ItemService) Get(ctx context.Context, itemID string, opts ...option.RequestOption) (res *Item, err error) {
	opts = slices.Concat(r.Options, opts)
	if itemID == "" {
		err = errors.New("missing required item_id parameter")
		return
	}
	path := fmt.Sprintf("items/%s", url.PathEscape(itemID))
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

func (r *ItemService) List(ctx context.Context, query ItemListParams, opts ...option.RequestOption) (res *pagination.Page[Item], err error) {
	opts = slices.Concat(r.Options, opts)
	path := "items"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, query, &res, opts...)
	return
}

func (r *ItemService) ListAutoPaging(ctx context.Context, query ItemListParams, opts ...option.RequestOption) *pagination.PageAutoPager[Item] {
	return pagination.NewPageAutoPager(r.List(ctx, query, opts...))
}

// Item is a product or service that prices are attached to.
type Item struct {
	bag.Bag
}

func (r Item) ID() (string, error) {
	return bag.Get[string](&r.Bag, "id")
}

func (r Item) Name() (string, error) {
	return bag.Get[string](&r.Bag, "name")
}

func (r Item) ExternalConnections() ([]ItemExternalConnection, error) {
	return bag.Get[[]ItemExternalConnection](&r.Bag, "external_connections")
}

func (r Item) CreatedAt() (time.Time, error) {
	return bag.Get[time.Time](&r.Bag, "created_at")
}

func (r Item) Validate() error {
	return bag.First(
		bag.Check(r.ID()),
		bag.Check(r.Name()),
		bag.Check(r.ExternalConnections()),
		bag.Check(r.CreatedAt()),
	)
}

// ItemExternalConnection links the item to an accounting or tax system.
type ItemExternalConnection struct {
	bag.Bag
}

func (r ItemExternalConnection) ExternalConnectionName() (enum.Value[ExternalConnectionName], error) {
	return bag.Get[enum.Value[ExternalConnectionName]](&r.Bag, "external_connection_name")
}

func (r ItemExternalConnection) ExternalEntityID() (string, error) {
	return bag.Get[string](&r.Bag, "external_entity_id")
}

func (r ItemExternalConnection) Validate() error {
	return bag.First(bag.Check(r.ExternalConnectionName()), bag.Check(r.ExternalEntityID()))
}

type ExternalConnectionName string

const (
	ExternalConnectionNameStripe     ExternalConnectionName = "stripe"
	ExternalConnectionNameQuickbooks ExternalConnectionName = "quickbooks"
	ExternalConnectionNameBillCom    ExternalConnectionName = "bill.com"
	ExternalConnectionNameNetsuite   ExternalConnectionName = "netsuite"
	ExternalConnectionNameTaxjar     ExternalConnectionName = "taxjar"
	ExternalConnectionNameAvalara    ExternalConnectionName = "avalara"
	ExternalConnectionNameAnrok      ExternalConnectionName = "anrok"
)

func (r ExternalConnectionName) IsKnown() bool {
	switch r {
	case ExternalConnectionNameStripe, ExternalConnectionNameQuickbooks, ExternalConnectionNameBillCom, ExternalConnectionNameNetsuite, ExternalConnectionNameTaxjar, ExternalConnectionNameAvalara, ExternalConnectionNameAnrok:
		return true
	}
	return false
}

func (ExternalConnectionName) Values() []ExternalConnectionName {
	return []ExternalConnectionName{
		ExternalConnectionNameStripe,
		ExternalConnectionNameQuickbooks,
		ExternalConnectionNameBillCom,
		ExternalConnectionNameNetsuite,
		ExternalConnectionNameTaxjar,
		ExternalConnectionNameAvalara,
		ExternalConnectionNameAnrok,
	}
}

type ItemNewParams struct {
	bag.Bag
}

func NewItemNewParams(name string) ItemNewParams {
	var r ItemNewParams
	r.Set("name", name)
	return r
}

type ItemListParams struct {
	PageParams
}
