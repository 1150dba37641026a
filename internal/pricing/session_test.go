package pricing_test

import (
	"testing"

	"ktmobile/internal/domain"
	"ktmobile/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Transitions(t *testing.T) {
	s := pricing.NewSession(sampleRecord())
	assert.Equal(t, pricing.NoSelection, s.State())

	require.NoError(t, s.SetAddOns(domain.AddOns{Warranty: domain.Warranty12}))
	assert.Equal(t, pricing.NoSelection, s.State())
	_, ok := s.Quote()
	assert.False(t, ok)

	require.NoError(t, s.SelectStorage("256GB"))
	assert.Equal(t, pricing.StorageSelected, s.State())

	require.NoError(t, s.SelectCondition(domain.Excellent))
	assert.Equal(t, pricing.Priced, s.State())
	q, ok := s.Quote()
	require.True(t, ok)
	assert.Equal(t, 999, q.TotalPrice)

	require.NoError(t, s.SetAddOns(domain.AddOns{}))
	q, _ = s.Quote()
	assert.Equal(t, 900, q.TotalPrice)

	require.NoError(t, s.SelectCondition(domain.Good))
	q, _ = s.Quote()
	assert.Equal(t, 855, q.TotalPrice)
}

func TestSession_ConditionBeforeStorage(t *testing.T) {
	s := pricing.NewSession(sampleRecord())
	assert.ErrorIs(t, s.SelectCondition(domain.Good), domain.ErrInvalidVariant)
	assert.Equal(t, pricing.NoSelection, s.State())
}

func TestSession_StorageChangeDropsQuote(t *testing.T) {
	s := pricing.NewSession(sampleRecord())
	require.NoError(t, s.SelectStorage("256GB"))
	require.NoError(t, s.SelectCondition(domain.Fair))

	err := s.SelectStorage("512GB")
	assert.ErrorIs(t, err, domain.ErrPricingNotConfigured)
	_, ok := s.Quote()
	assert.False(t, ok, "stale quote must not survive a selection change")
	assert.Equal(t, pricing.ConditionSelected, s.State())
}

func TestSession_RejectsUnknownStorage(t *testing.T) {
	s := pricing.NewSession(sampleRecord())
	assert.ErrorIs(t, s.SelectStorage("64GB"), domain.ErrInvalidVariant)
}

func TestConditions(t *testing.T) {
	cs := pricing.Conditions()
	require.Len(t, cs, 3)
	assert.Equal(t, domain.Excellent, cs[0].Grade)
	assert.Equal(t, domain.Fair, cs[2].Grade)
	_, ok := pricing.Describe("mint")
	assert.False(t, ok)
}
