package enrollment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fatflowers/clubdesk/internal/app/service/ledger"
	"github.com/fatflowers/clubdesk/internal/models"
	"github.com/fatflowers/clubdesk/pkg/apperr"
	"github.com/fatflowers/clubdesk/pkg/types"
)

func TestRenew_IndividualDerivesNextPeriod(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()

	req := baseRequest()
	req.Members = req.Members[:1]
	old := create(t, svc, req).SubscriptionIDs[0]

	res, err := svc.Renew(ctx, &RenewRequest{
		SubscriptionID:   old,
		FirstInstallment: &ledger.Installment{Amount: decimal.NewFromInt(120), PaymentMethod: types.PaymentMethodCheck},
	})
	require.NoError(t, err)
	require.False(t, res.IsPack)
	require.Equal(t, old, res.PreviousSubscriptionID)
	require.Equal(t, "2024-01-10", res.OldPeriodStart.String())
	require.Equal(t, "2024-02-10", res.OldPeriodEnd.String())
	require.Equal(t, "2024-02-11", res.NewPeriodStart.String())
	require.Equal(t, "2024-03-11", res.NewPeriodEnd.String())
	require.True(t, decimal.NewFromInt(300).Equal(res.NewPrice))
	require.True(t, decimal.NewFromInt(120).Equal(res.PaidAmount))

	var next models.Subscription
	require.NoError(t, gdb.First(&next, res.SubscriptionID).Error)
	require.Equal(t, uint(1), next.MemberID)
	require.Equal(t, uint(10), *next.CourseID)
	require.Equal(t, 1, next.DurationMonths)
	require.True(t, decimal.NewFromInt(120).Equal(next.PaidAmount))

	var copied []models.PackMembership
	require.NoError(t, gdb.Where("subscription_id = ?", next.ID).Find(&copied).Error)
	require.Len(t, copied, 1)
	require.Equal(t, uint(11), *copied[0].CourseID)
	require.Equal(t, "2024-01-11 - 2024-02-11", copied[0].MembershipPeriod)

	var roster models.GroupRoster
	require.NoError(t, gdb.Where("group_id = ?", 110).First(&roster).Error)
	require.Equal(t, next.ID, roster.SubscriptionID)

	var entries []models.PaymentEntry
	require.NoError(t, gdb.Where("subscription_id = ?", next.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
}

func TestRenew_ExplicitDates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	old := create(t, svc, baseRequest()).SubscriptionIDs[0]

	price := decimal.NewFromInt(800)
	res, err := svc.Renew(ctx, &RenewRequest{
		SubscriptionID: old,
		PriceGross:     &price,
		PeriodStart:    types.NewDate(day(2024, 3, 1)),
		PeriodEnd:      types.NewDate(day(2024, 6, 1)),
	})
	require.NoError(t, err)
	require.Equal(t, "2024-06-01", res.NewPeriodEnd.String())
	require.True(t, decimal.NewFromInt(300).Equal(res.OldPrice))
	require.True(t, price.Equal(res.NewPrice))

	next, err := svc.packs.TriplesOf(ctx, svc.db, res.SubscriptionID)
	require.NoError(t, err)
	require.Len(t, next, 1)

	var stored models.Subscription
	require.NoError(t, svc.db.First(&stored, res.SubscriptionID).Error)
	require.Equal(t, 3, stored.DurationMonths)

	cases := []*RenewRequest{
		{SubscriptionID: old, PeriodStart: types.NewDate(day(2024, 3, 1)), PeriodEnd: types.NewDate(day(2024, 3, 20))},
		{SubscriptionID: old, PeriodStart: types.NewDate(day(2024, 3, 1))},
		{SubscriptionID: old, PeriodStart: types.NewDate(day(2024, 3, 1)), PeriodEnd: types.NewDate(day(2024, 2, 1))},
	}
	for _, req := range cases {
		_, err := svc.Renew(ctx, req)
		require.True(t, apperr.IsValidationError(err), "got %v", err)
	}

	_, err = svc.Renew(ctx, &RenewRequest{SubscriptionID: 999})
	require.True(t, apperr.IsNotFoundError(err))
}

func TestRenew_PackReattachesEveryTriple(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()

	req := baseRequest()
	req.PackCategoryID = id(5)
	old := create(t, svc, req).SubscriptionIDs[0]

	res, err := svc.Renew(ctx, &RenewRequest{SubscriptionID: old})
	require.NoError(t, err)
	require.True(t, res.IsPack)

	var rows []models.PackMembership
	require.NoError(t, gdb.Where("subscription_id = ?", res.SubscriptionID).Order("id").Find(&rows).Error)
	require.Len(t, rows, 3)
	for _, r := range rows {
		require.Equal(t, "2024-02-12", r.AttachmentDate.Format(types.DateLayout))
		require.Equal(t, "2024-02-12 - 2024-03-12", r.MembershipPeriod)
	}

	var next models.Subscription
	require.NoError(t, gdb.First(&next, res.SubscriptionID).Error)
	require.Equal(t, uint(5), *next.PackCategoryID)
	require.True(t, next.PaidAmount.IsZero())
}

func TestRenew_PackWithoutMembersIsNotFound(t *testing.T) {
	svc, gdb := newTestService(t)
	ctx := context.Background()

	req := baseRequest()
	req.PackCategoryID = id(5)
	old := create(t, svc, req).SubscriptionIDs[0]
	require.NoError(t, gdb.Where("subscription_id = ?", old).Delete(&models.PackMembership{}).Error)

	_, err := svc.Renew(ctx, &RenewRequest{SubscriptionID: old, FirstInstallment: &ledger.Installment{Amount: decimal.NewFromInt(10)}})
	require.True(t, apperr.IsNotFoundError(err), "got %v", err)
	require.EqualValues(t, 1, count(t, gdb, &models.Subscription{}))
	require.Zero(t, count(t, gdb, &models.PaymentEntry{}))
}
