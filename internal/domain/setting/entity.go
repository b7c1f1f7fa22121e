package setting

import (
	"time"

	"github.com/shopspring/decimal"
)

// Setting keys read by the payroll engine.
const (
	KeyPFPercentage           = "pf_percentage"
	KeyESIPercentage          = "esi_percentage"
	KeyProfessionalTax        = "professional_tax"
	KeyOvertimeRateMultiplier = "overtime_rate_multiplier"
	KeyLateDeductionPerDay    = "late_deduction_per_day"
)

// Setting is a named numeric configuration value.
type Setting struct {
	Key         string
	Value       decimal.Decimal
	Description *string
	UpdatedBy   *string
	UpdatedAt   time.Time
}

// Rates are the resolved values the calculators work with.
type Rates struct {
	PFPercentage           decimal.Decimal `json:"pf_percentage"`
	ESIPercentage          decimal.Decimal `json:"esi_percentage"`
	ProfessionalTax        decimal.Decimal `json:"professional_tax"`
	OvertimeRateMultiplier decimal.Decimal `json:"overtime_rate_multiplier"`
	LateDeductionPerDay    decimal.Decimal `json:"late_deduction_per_day"`
}

// DefaultRates are used for any key missing from the settings store.
func DefaultRates() Rates {
	return Rates{
		PFPercentage:           decimal.NewFromInt(12),
		ESIPercentage:          decimal.RequireFromString("0.75"),
		ProfessionalTax:        decimal.NewFromInt(200),
		OvertimeRateMultiplier: decimal.NewFromInt(2),
		LateDeductionPerDay:    decimal.Zero,
	}
}
