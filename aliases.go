package orb

import (
	"github.com/telnet2/orb-sdk-go/internal/apierror"
	"github.com/telnet2/orb-sdk-go/shared"
)

type Error = apierror.Error

type ConnectionError = apierror.ConnectionError

// This is an alias to an internal type.
type Discount = shared.Discount

// This is an alias to an internal type.
type DiscountVariant = shared.DiscountVariant

// This is an alias to an internal type.
type DiscountType = shared.DiscountType

// This is an alias to an internal value.
const DiscountTypePercentage = shared.DiscountTypePercentage

// This is an alias to an internal value.
const DiscountTypeAmount = shared.DiscountTypeAmount

// This is an alias to an internal value.
const DiscountTypeTrial = shared.DiscountTypeTrial

// This is an alias to an internal value.
const DiscountTypeUsage = shared.DiscountTypeUsage

// This is an alias to an internal type.
type PercentageDiscount = shared.PercentageDiscount

// This is an alias to an internal type.
type AmountDiscount = shared.AmountDiscount

// This is an alias to an internal type.
type TrialDiscount = shared.TrialDiscount

// This is an alias to an internal type.
type UsageDiscount = shared.UsageDiscount

// This is an alias to an internal type.
type CustomerMinified = shared.CustomerMinified

// This is an alias to an internal type.
type ItemSlim = shared.ItemSlim

// This is an alias to an internal type.
type PaginationMetadata = shared.PaginationMetadata

// This is an alias to an internal type.
type BillingCycleRelativeDate = shared.BillingCycleRelativeDate
