package cart

import (
	"errors"
	"testing"

	"github.com/granddizzy/orders/client"
	"github.com/granddizzy/orders/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Add(t *testing.T) {
	ledger := New()
	desk := schema.Product{Id: 1, Name: "Desk", Price: decimal.RequireFromString("120.50")}
	chair := schema.Product{Id: 2, Name: "Chair", Price: decimal.RequireFromString("45.10")}

	require.NoError(t, ledger.Add(desk, 1))
	require.NoError(t, ledger.Add(chair, 3))
	require.NoError(t, ledger.Add(desk, 2))

	lines := ledger.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].Quantity, "existing line is incremented")
	assert.Equal(t, "496.8", ledger.Total().String())

	err := ledger.Add(desk, 0)
	var validation *client.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestLedger_SetQuantity(t *testing.T) {
	testCases := []struct {
		description string
		productId   int
		quantity    int
		expectLen   int
		expectErr   bool
	}{
		{description: "update", productId: 1, quantity: 5, expectLen: 1},
		{description: "zero removes", productId: 1, quantity: 0, expectLen: 0},
		{description: "negative rejected", productId: 1, quantity: -1, expectLen: 1, expectErr: true},
		{description: "missing line", productId: 9, quantity: 2, expectLen: 1, expectErr: true},
	}
	for _, testCase := range testCases {
		ledger := New()
		require.NoError(t, ledger.Add(schema.Product{Id: 1, Price: decimal.NewFromInt(2)}, 1))
		err := ledger.SetQuantity(testCase.productId, testCase.quantity)
		assert.Equal(t, testCase.expectErr, err != nil, testCase.description)
		assert.Equal(t, testCase.expectLen, ledger.Len(), testCase.description)
	}
}

func TestLedger_Order(t *testing.T) {
	ledger := New()
	_, err := ledger.Order(1, "")
	assert.ErrorIs(t, err, ErrEmpty)

	require.NoError(t, ledger.Add(schema.Product{Id: 7, Price: decimal.NewFromInt(10)}, 2))
	_, err = ledger.Order(0, "")
	assert.Error(t, err)

	order, err := ledger.Order(3, "asap")
	require.NoError(t, err)
	assert.Equal(t, 3, order.ContractorId)
	assert.Equal(t, schema.OrderStatusNew, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, schema.OrderLine{ProductId: 7, Quantity: 2, Price: decimal.NewFromInt(10)}, order.Items[0])

	assert.True(t, ledger.Remove(7))
	assert.False(t, ledger.Remove(7))
	ledger.Clear()
	assert.True(t, ledger.Total().IsZero())
}
