package shared_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telnet2/orb-sdk-go/packages/union"
	"github.com/telnet2/orb-sdk-go/shared"
)

func TestDiscountResolvesByType(t *testing.T) {
	var d shared.Discount
	require.NoError(t, json.Unmarshal([]byte(`{"discount_type":"amount","amount_discount":"5.00","applies_to_price_ids":["p1"],"reason":"loyalty"}`), &d))

	amount, ok := d.Variant().(shared.AmountDiscount)
	require.True(t, ok)
	v, err := amount.AmountDiscount()
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(5)))

	reason, err := amount.Reason()
	require.NoError(t, err)
	assert.Equal(t, "loyalty", reason.Value)
	assert.NoError(t, d.Validate())
}

func TestDiscountRejectsUnknownType(t *testing.T) {
	var d shared.Discount
	err := json.Unmarshal([]byte(`{"discount_type":"bogo","applies_to_price_ids":[]}`), &d)
	require.ErrorIs(t, err, union.ErrResolution)

	var uerr *union.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "bogo", uerr.Discriminant)
	assert.Contains(t, uerr.Eligible, "shared.UsageDiscount")
}

func TestDiscountRequiresDiscriminator(t *testing.T) {
	var d shared.Discount
	err := json.Unmarshal([]byte(`{"percentage_discount":0.1}`), &d)
	require.ErrorIs(t, err, union.ErrResolution)
	assert.Contains(t, err.Error(), "missing discount_type")
}

func TestNewDiscountMarshalsVariant(t *testing.T) {
	d := shared.NewDiscount(shared.NewPercentageDiscount(0.25, "p1"))
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"discount_type":"percentage","percentage_discount":0.25,"applies_to_price_ids":["p1"]}`, string(out))
	assert.NoError(t, d.Validate())

	var back shared.Discount
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "percentage", back.Tag())
	assert.IsType(t, shared.PercentageDiscount{}, back.Variant())
}

func TestDiscountValidateChecksVariantFields(t *testing.T) {
	var d shared.Discount
	require.NoError(t, json.Unmarshal([]byte(`{"discount_type":"usage","applies_to_price_ids":[]}`), &d))
	assert.Error(t, d.Validate())
}
