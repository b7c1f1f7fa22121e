package setting

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapRepo struct {
	values map[string]string
	err    error
}

func (m mapRepo) GetValue(_ context.Context, key string) (Setting, error) {
	if m.err != nil {
		return Setting{}, m.err
	}
	v, ok := m.values[key]
	if !ok {
		return Setting{}, ErrSettingNotFound
	}
	return Setting{Key: key, Value: decimal.RequireFromString(v)}, nil
}

func TestResolver_FallsBackPerKey(t *testing.T) {
	repo := mapRepo{values: map[string]string{
		KeyPFPercentage:        "10",
		KeyLateDeductionPerDay: "50",
	}}

	rates, err := NewResolver(repo, DefaultRates()).Resolve(context.Background())
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(10).Equal(rates.PFPercentage))
	assert.True(t, decimal.NewFromInt(50).Equal(rates.LateDeductionPerDay))
	assert.True(t, decimal.RequireFromString("0.75").Equal(rates.ESIPercentage))
	assert.True(t, decimal.NewFromInt(200).Equal(rates.ProfessionalTax))
	assert.True(t, decimal.NewFromInt(2).Equal(rates.OvertimeRateMultiplier))
}

func TestResolver_StoreErrorIsNotDefaulted(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewResolver(mapRepo{err: boom}, DefaultRates()).Resolve(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestResolver_RejectsNegativeRate(t *testing.T) {
	repo := mapRepo{values: map[string]string{KeyESIPercentage: "-1"}}
	_, err := NewResolver(repo, DefaultRates()).Resolve(context.Background())

	assert.ErrorIs(t, err, ErrNegativeRate)
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pf_percentage: \"13\"\nprofessional_tax: \"0\"\n"), 0o600))

	rates, err := LoadDefaults(path)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(13).Equal(rates.PFPercentage))
	assert.True(t, rates.ProfessionalTax.IsZero())
	assert.True(t, decimal.RequireFromString("0.75").Equal(rates.ESIPercentage))
}

func TestLoadDefaults_EmptyPath(t *testing.T) {
	rates, err := LoadDefaults("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRates(), rates)
}

func TestLoadDefaults_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bonus_percentage: \"5\"\n"), 0o600))

	_, err := LoadDefaults(path)
	assert.Error(t, err)
}
