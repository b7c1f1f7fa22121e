package setting

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Resolver looks up the payroll rates, falling back to its defaults per key.
type Resolver struct {
	repo     SettingRepository
	defaults Rates
}

func NewResolver(repo SettingRepository, defaults Rates) *Resolver {
	return &Resolver{repo: repo, defaults: defaults}
}

func (r *Resolver) Resolve(ctx context.Context) (Rates, error) {
	var (
		rates Rates
		err   error
	)

	if rates.PFPercentage, err = r.get(ctx, KeyPFPercentage, r.defaults.PFPercentage); err != nil {
		return Rates{}, err
	}
	if rates.ESIPercentage, err = r.get(ctx, KeyESIPercentage, r.defaults.ESIPercentage); err != nil {
		return Rates{}, err
	}
	if rates.ProfessionalTax, err = r.get(ctx, KeyProfessionalTax, r.defaults.ProfessionalTax); err != nil {
		return Rates{}, err
	}
	if rates.OvertimeRateMultiplier, err = r.get(ctx, KeyOvertimeRateMultiplier, r.defaults.OvertimeRateMultiplier); err != nil {
		return Rates{}, err
	}
	if rates.LateDeductionPerDay, err = r.get(ctx, KeyLateDeductionPerDay, r.defaults.LateDeductionPerDay); err != nil {
		return Rates{}, err
	}

	return rates, nil
}

func (r *Resolver) get(ctx context.Context, key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	s, err := r.repo.GetValue(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return fallback, nil
		}
		return decimal.Zero, fmt.Errorf("failed to resolve setting %s: %w", key, err)
	}
	if s.Value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNegativeRate, key)
	}
	return s.Value, nil
}

// LoadDefaults reads rate defaults from a YAML file. Keys absent from the
// file keep their built-in value.
func LoadDefaults(path string) (Rates, error) {
	rates := DefaultRates()
	if path == "" {
		return rates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rates{}, fmt.Errorf("failed to read rates file: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Rates{}, fmt.Errorf("failed to parse rates file: %w", err)
	}

	fields := map[string]*decimal.Decimal{
		KeyPFPercentage:           &rates.PFPercentage,
		KeyESIPercentage:          &rates.ESIPercentage,
		KeyProfessionalTax:        &rates.ProfessionalTax,
		KeyOvertimeRateMultiplier: &rates.OvertimeRateMultiplier,
		KeyLateDeductionPerDay:    &rates.LateDeductionPerDay,
	}
	for key, value := range raw {
		field, ok := fields[key]
		if !ok {
			return Rates{}, fmt.Errorf("unknown rate key %q in rates file", key)
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return Rates{}, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if d.IsNegative() {
			return Rates{}, fmt.Errorf("%w: %s", ErrNegativeRate, key)
		}
		*field = d
	}

	return rates, nil
}
