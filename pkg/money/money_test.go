package money_test

import (
	"math"
	"testing"

	"github.com/innofund/escrow/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m, err := money.New(12.50)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), m.Cents())
	assert.InDelta(t, 12.50, m.Float(), 0.0001)
}

func TestNew_RejectsSubCentPrecision(t *testing.T) {
	_, err := money.New(0.001)
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestNew_RejectsNegative(t *testing.T) {
	_, err := money.New(-1)
	assert.ErrorIs(t, err, money.ErrNegativeAmount)
}

func TestNew_RejectsNaNAndInf(t *testing.T) {
	_, err := money.New(math.NaN())
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
	_, err = money.New(math.Inf(1))
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestFromCents_RejectsNegative(t *testing.T) {
	_, err := money.FromCents(-100)
	assert.ErrorIs(t, err, money.ErrNegativeAmount)
}

func TestAdd_Overflow(t *testing.T) {
	a := money.MustFromCents(math.MaxInt64)
	b := money.MustFromCents(1)
	_, err := a.Add(b)
	assert.ErrorIs(t, err, money.ErrAmountExceedsMaxSafeInt)
}

func TestSub_NeverNegative(t *testing.T) {
	a := money.MustFromCents(100)
	b := money.MustFromCents(250)
	_, err := a.Sub(b)
	assert.ErrorIs(t, err, money.ErrNegativeAmount)

	got, err := b.Sub(a)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got.Cents())
}

func TestString(t *testing.T) {
	assert.Equal(t, "4.05", money.MustFromCents(405).String())
	assert.Equal(t, "0.00", money.Zero().String())
}
