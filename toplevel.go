package orb

import (
	"context"
	"net/http"
	"slices"

	"github.com/telnet2/orb-sdk-go/internal/requestconfig"
	"github.com/telnet2/orb-sdk-go/option"
	"github.com/telnet2/orb-sdk-go/packages/bag"
)

// TopLevelService contains methods and other services that help with
// interacting with the orb API.
//
// Note, unlike clients, this service does not read variables from the environment
// automatically. You should not instantiate this service directly, and instead use
// the [NewTopLevelService] method instead.
type TopLevelService struct {
	Options []option.RequestOption
}

// NewTopLevelService generates a new service that applies the given options to
// each request. These options are applied after the parent client's options (if
// there is one), and before any request-specific options.
func NewTopLevelService(opts ...option.RequestOption) (r TopLevelService) {
	r = TopLevelService{}
	r.Options = opts
	return
}

// This endpoint allows you to test your connection to the Orb API and check the
// validity of your API key.
func (r *TopLevelService) Ping(ctx context.Context, opts ...option.RequestOption) (res *TopLevelPingResponse, err error) {
	opts = slices.Concat(r.Options, opts)
	path := "ping"
	err = requestconfig.ExecuteNewRequest(ctx, http.MethodGet, path, nil, &res, opts...)
	return
}

type TopLevelPingResponse struct {
	bag.Bag
}

func (r TopLevelPingResponse) Response() (string, error) {
	return bag.Get[string](&r.Bag, "response")
}

func (r TopLevelPingResponse) Validate() error {
	return bag.Check(r.Response())
}
