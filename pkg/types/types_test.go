package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDerivePaymentStatus(t *testing.T) {
	price := decimal.NewFromInt(300)
	cases := []struct {
		paid string
		want PaymentStatus
	}{
		{"300", PaymentStatusPaid},
		{"350", PaymentStatusPaid},
		{"150", PaymentStatusPartial},
		{"0.01", PaymentStatusPartial},
		{"0", PaymentStatusUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.paid, func(t *testing.T) {
			require.Equal(t, tc.want, DerivePaymentStatus(price, decimal.RequireFromString(tc.paid)))
		})
	}
	require.Equal(t, PaymentStatusPaid, DerivePaymentStatus(decimal.Zero, decimal.Zero))
}

func TestPaymentMethod(t *testing.T) {
	require.True(t, PaymentMethodCard.Valid())
	require.False(t, PaymentMethod("barter").Valid())
	require.True(t, PaymentMethodTransfer.RequiresBankDetails())
	require.False(t, PaymentMethodCheck.RequiresBankDetails())
}

func TestDateJSON(t *testing.T) {
	var v struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
		Due   Date  `json:"due"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-01-10","end":"2024-02-10","due":null}`), &v))
	require.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), v.Start.Time)
	require.Equal(t, "2024-02-10", v.End.String())
	require.True(t, v.Due.IsZero())
	require.Nil(t, v.Due.Ptr())

	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `{"start":"2024-01-10","end":"2024-02-10","due":null}`, string(b))

	require.Error(t, json.Unmarshal([]byte(`{"start":"10/01/2024"}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"start":20240110}`), &v))
}

func TestWhitelistResolve(t *testing.T) {
	w := Whitelist{"member_id": "subscriptions.member_id"}

	out, err := w.Resolve([]*CommonFilter{{Field: "member_id", Operator: CommonFilterOperatorEq, Values: []any{1}}})
	require.NoError(t, err)
	require.Equal(t, "subscriptions.member_id", out[0].Field)

	_, err = w.Resolve([]*CommonFilter{{Field: "price_gross; DROP TABLE", Operator: CommonFilterOperatorEq, Values: []any{1}}})
	require.Error(t, err)
	_, err = w.Resolve([]*CommonFilter{{Field: "member_id", Operator: "like", Values: []any{1}}})
	require.Error(t, err)
	_, err = w.Resolve([]*CommonFilter{{Field: "member_id", Operator: CommonFilterOperatorRange, Values: []any{1}}})
	require.Error(t, err)
	_, err = w.Resolve([]*CommonFilter{{Field: "member_id", Operator: CommonFilterOperatorIn}})
	require.Error(t, err)
}
