package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/internal/domain/order"
	"github.com/xiebiao/catalog/internal/domain/user"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

func TestOrderCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	client := seedUser(t, db, "alex@gmail.com", user.AuthorityClient)
	products := NewProductRepository(db)
	tv := catalog.NewProduct("Smart TV", "", 2190, "", time.Now(), nil)
	pc := catalog.NewProduct("PC Gamer", "", 1200, "", time.Now(), nil)
	require.NoError(t, products.Create(ctx, tv))
	require.NoError(t, products.Create(ctx, pc))

	repo := NewOrderRepository(db)
	o := order.NewOrder(client.ID, []order.Item{
		{ProductID: pc.ID, Quantity: 2, Price: pc.Price},
		{ProductID: tv.ID, Quantity: 1, Price: tv.Price},
	})
	require.NoError(t, repo.Create(ctx, o))
	require.NotZero(t, o.ID)

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusWaitingPayment, got.Status)
	assert.Equal(t, client.ID, got.ClientID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Smart TV", got.Items[0].ProductName)
	assert.Equal(t, 4590.0, got.Total())

	require.NoError(t, got.Pay())
	require.NoError(t, repo.UpdateStatus(ctx, got))
	again, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, again.Status)

	_, err = repo.FindByID(ctx, 77)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestOrderCreateUnknownProductRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	client := seedUser(t, db, "alex@gmail.com", user.AuthorityClient)

	err := NewOrderRepository(db).Create(ctx, order.NewOrder(client.ID, []order.Item{{ProductID: 404, Quantity: 1}}))
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)

	var n int64
	require.NoError(t, db.Model(&OrderModel{}).Count(&n).Error)
	assert.Zero(t, n)
}
