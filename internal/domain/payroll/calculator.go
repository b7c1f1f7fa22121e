package payroll

import (
	"github.com/sentryforce/guard-payroll/internal/domain/attendance"
	"github.com/sentryforce/guard-payroll/internal/domain/guard"
	"github.com/sentryforce/guard-payroll/internal/domain/setting"
	"github.com/shopspring/decimal"
)

var (
	// StandardWorkingDays is the monthly day basis for pro-ration and daily rates.
	StandardWorkingDays = decimal.NewFromInt(26)
	// StandardShiftHours is the length of one shift for the hourly rate.
	StandardShiftHours = decimal.NewFromInt(8)
	// ESIWageCeiling is the statutory gross above which ESI is not deducted.
	ESIWageCeiling = decimal.NewFromInt(21000)

	half    = decimal.RequireFromString("0.5")
	hundred = decimal.NewFromInt(100)
)

// roundAmount rounds half-up to whole currency units.
func roundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

func pick(override *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return fallback
}

// ComputeInput carries everything needed to price one guard-month.
type ComputeInput struct {
	Guard      guard.Guard
	Attendance attendance.Summary
	Rates      setting.Rates
	Earnings   EarningsOverride
	Deductions DeductionsOverride
}

// Compute produces itemized earnings and deductions for a guard-month.
func Compute(in ComputeInput) (Earnings, Deductions) {
	earnings := CalculateEarnings(in.Guard, in.Attendance, in.Rates.OvertimeRateMultiplier, in.Earnings)

	deductions := CalculateDeductions(DeductionInput{
		PFEligible:    in.Guard.PFEligible,
		ESIEligible:   in.Guard.ESIEligible,
		Rates:         in.Rates,
		Attendance:    in.Attendance,
		ContractBasic: pick(in.Earnings.Basic, in.Guard.BasicSalary),
		EarnedBasic:   earnings.Basic,
		GrossSalary:   earnings.Total(),
		Overrides:     in.Deductions,
	})

	return earnings, deductions
}

// CalculateEarnings assembles each component from override, guard configuration
// or zero, prices overtime on the contract basic, and then pro-rates basic by
// attendance. Allowances are not pro-rated.
func CalculateEarnings(g guard.Guard, att attendance.Summary, overtimeMultiplier decimal.Decimal, o EarningsOverride) Earnings {
	e := Earnings{
		Basic:     pick(o.Basic, g.BasicSalary),
		HRA:       pick(o.HRA, g.Allowances.HRA),
		Travel:    pick(o.Travel, g.Allowances.Travel),
		Food:      pick(o.Food, g.Allowances.Food),
		Medical:   pick(o.Medical, g.Allowances.Medical),
		Special:   pick(o.Special, g.Allowances.Special),
		Bonus:     pick(o.Bonus, decimal.Zero),
		Incentive: pick(o.Incentive, decimal.Zero),
		Arrears:   pick(o.Arrears, decimal.Zero),
		Other:     pick(o.Other, decimal.Zero),
	}

	if o.Overtime != nil {
		e.Overtime = *o.Overtime
	} else {
		// hours × (basic ÷ 26 ÷ 8) × multiplier
		e.Overtime = roundAmount(att.OvertimeHours.
			Mul(e.Basic).
			Mul(overtimeMultiplier).
			Div(StandardWorkingDays.Mul(StandardShiftHours)))
	}

	effectiveDays := decimal.NewFromInt(int64(att.PresentDays)).
		Add(decimal.NewFromInt(int64(att.HalfDays)).Mul(half))
	e.Basic = roundAmount(e.Basic.Mul(effectiveDays).Div(StandardWorkingDays))

	return e
}

// DeductionInput carries the inputs of CalculateDeductions.
type DeductionInput struct {
	PFEligible  bool
	ESIEligible bool
	Rates       setting.Rates
	Attendance  attendance.Summary
	// ContractBasic is the monthly basic before pro-ration.
	ContractBasic decimal.Decimal
	// EarnedBasic is the pro-rated basic actually earned in the period.
	EarnedBasic decimal.Decimal
	GrossSalary decimal.Decimal
	Overrides   DeductionsOverride
}

// CalculateDeductions prices statutory and attendance deductions.
func CalculateDeductions(in DeductionInput) Deductions {
	o := in.Overrides

	d := Deductions{
		ProfessionalTax: pick(o.ProfessionalTax, in.Rates.ProfessionalTax),
		IncomeTax:       pick(o.IncomeTax, decimal.Zero),
		Loan:            pick(o.Loan, decimal.Zero),
		Advance:         pick(o.Advance, decimal.Zero),
		Uniform:         pick(o.Uniform, decimal.Zero),
		Other:           pick(o.Other, decimal.Zero),
	}

	switch {
	case o.PF != nil:
		d.PF = *o.PF
	case in.PFEligible:
		d.PF = roundAmount(in.EarnedBasic.Mul(in.Rates.PFPercentage).Div(hundred))
	default:
		d.PF = decimal.Zero
	}

	switch {
	case o.ESI != nil:
		d.ESI = *o.ESI
	case in.ESIEligible && in.GrossSalary.LessThanOrEqual(ESIWageCeiling):
		d.ESI = roundAmount(in.GrossSalary.Mul(in.Rates.ESIPercentage).Div(hundred))
	default:
		d.ESI = decimal.Zero
	}

	if o.Absence != nil {
		d.Absence = *o.Absence
	} else {
		absent := decimal.NewFromInt(int64(in.Attendance.AbsentDays))
		d.Absence = roundAmount(absent.Mul(in.ContractBasic).Div(StandardWorkingDays))
	}

	if o.Late != nil {
		d.Late = *o.Late
	} else {
		d.Late = decimal.NewFromInt(int64(in.Attendance.LateDays)).Mul(in.Rates.LateDeductionPerDay)
	}

	return d
}
