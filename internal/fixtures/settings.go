package fixtures

import (
	"github.com/sentryforce/guard-payroll/internal/domain/setting"
)

func strPtr(s string) *string { return &s }

// DefaultSettings returns one row per rate key, valued from rates.
func DefaultSettings(rates setting.Rates) []setting.Setting {
	system := strPtr("system")

	return []setting.Setting{
		{
			Key:         setting.KeyPFPercentage,
			Value:       rates.PFPercentage,
			Description: strPtr("Provident Fund, percent of earned basic"),
			UpdatedBy:   system,
		},
		{
			Key:         setting.KeyESIPercentage,
			Value:       rates.ESIPercentage,
			Description: strPtr("Employee State Insurance, percent of gross up to 21000"),
			UpdatedBy:   system,
		},
		{
			Key:         setting.KeyProfessionalTax,
			Value:       rates.ProfessionalTax,
			Description: strPtr("Flat professional tax per month"),
			UpdatedBy:   system,
		},
		{
			Key:         setting.KeyOvertimeRateMultiplier,
			Value:       rates.OvertimeRateMultiplier,
			Description: strPtr("Multiplier applied to the hourly rate for overtime"),
			UpdatedBy:   system,
		},
		{
			Key:         setting.KeyLateDeductionPerDay,
			Value:       rates.LateDeductionPerDay,
			Description: strPtr("Amount deducted per late day"),
			UpdatedBy:   system,
		},
	}
}
