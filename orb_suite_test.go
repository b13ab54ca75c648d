package orb_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/telnet2/orb-sdk-go"
	"github.com/telnet2/orb-sdk-go/internal/testutil"
	"github.com/telnet2/orb-sdk-go/option"
)

var (
	api    *testutil.MockAPI
	client orb.Client
	ctx    context.Context
)

func TestOrb(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Orb Suite")
}

var _ = BeforeSuite(func() {
	testutil.LoadEnv()
})

var _ = BeforeEach(func() {
	api = testutil.NewMockAPI()
	client = orb.NewClient(
		option.WithBaseURL(api.URL()),
		option.WithAPIKey("test-key"),
		option.WithRetryBackoff(time.Millisecond, 2*time.Millisecond),
	)
	ctx = context.Background()
})

var _ = AfterEach(func() {
	api.Close()
})

// must returns v, failing the running test on err.
func must[T any](v T, err error) T {
	GinkgoHelper()
	Expect(err).NotTo(HaveOccurred())
	return v
}
