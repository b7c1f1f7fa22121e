package payroll

import (
	"testing"

	"github.com/sentryforce/guard-payroll/internal/domain/attendance"
	"github.com/sentryforce/guard-payroll/internal/domain/guard"
	"github.com/sentryforce/guard-payroll/internal/domain/setting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func zeroRates() setting.Rates {
	return setting.Rates{
		PFPercentage:           decimal.Zero,
		ESIPercentage:          decimal.Zero,
		ProfessionalTax:        decimal.Zero,
		OvertimeRateMultiplier: dec("2"),
		LateDeductionPerDay:    decimal.Zero,
	}
}

func TestCalculateEarnings_Proration(t *testing.T) {
	g := guard.Guard{BasicSalary: dec("15000")}

	tests := []struct {
		name      string
		present   int
		halfDays  int
		wantBasic string
	}{
		{name: "full month keeps basic", present: 26, wantBasic: "15000"},
		{name: "zero attendance", present: 0, wantBasic: "0"},
		{name: "24 of 26 days", present: 24, wantBasic: "13846"},
		{name: "half days count as half", present: 20, halfDays: 4, wantBasic: "12692"},
		{name: "half month", present: 13, wantBasic: "7500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att := attendance.Summary{PresentDays: tt.present, HalfDays: tt.halfDays}
			e := CalculateEarnings(g, att, dec("2"), EarningsOverride{})
			assertDecimal(t, tt.wantBasic, e.Basic)
		})
	}
}

func TestCalculateEarnings_RoundsHalfUp(t *testing.T) {
	// 13 × 1 ÷ 26 = 0.5
	e := CalculateEarnings(guard.Guard{BasicSalary: dec("13")}, attendance.Summary{PresentDays: 1}, dec("2"), EarningsOverride{})
	assertDecimal(t, "1", e.Basic)
}

func TestCalculateEarnings_AllowancesNotProrated(t *testing.T) {
	g := guard.Guard{
		BasicSalary: dec("10400"),
		Allowances: guard.Allowances{
			HRA:     dec("1000"),
			Travel:  dec("500"),
			Food:    dec("300"),
			Medical: dec("200"),
			Special: dec("100"),
		},
	}

	e := CalculateEarnings(g, attendance.Summary{PresentDays: 13}, dec("2"), EarningsOverride{})

	assertDecimal(t, "5200", e.Basic)
	assertDecimal(t, "1000", e.HRA)
	assertDecimal(t, "500", e.Travel)
	assertDecimal(t, "300", e.Food)
	assertDecimal(t, "200", e.Medical)
	assertDecimal(t, "100", e.Special)
	assertDecimal(t, "0", e.Bonus)
	assertDecimal(t, "7300", e.Total())
}

func TestCalculateEarnings_OvertimeUsesContractBasic(t *testing.T) {
	g := guard.Guard{BasicSalary: dec("20800")}
	att := attendance.Summary{PresentDays: 13, OvertimeHours: dec("10")}

	e := CalculateEarnings(g, att, dec("2"), EarningsOverride{})

	// 10h × (20800 ÷ 26 ÷ 8 = 100/h) × 2
	assertDecimal(t, "2000", e.Overtime)
	assertDecimal(t, "10400", e.Basic)
}

func TestCalculateEarnings_Overrides(t *testing.T) {
	g := guard.Guard{
		BasicSalary: dec("15000"),
		Allowances:  guard.Allowances{HRA: dec("1000")},
	}
	att := attendance.Summary{PresentDays: 26, OvertimeHours: dec("4")}

	e := CalculateEarnings(g, att, dec("2"), EarningsOverride{
		Basic:    decPtr("26000"),
		HRA:      decPtr("500"),
		Overtime: decPtr("750"),
		Bonus:    decPtr("1200"),
	})

	assertDecimal(t, "26000", e.Basic)
	assertDecimal(t, "500", e.HRA)
	assertDecimal(t, "750", e.Overtime)
	assertDecimal(t, "1200", e.Bonus)
}

func TestCalculateDeductions_ESIThreshold(t *testing.T) {
	rates := zeroRates()
	rates.ESIPercentage = dec("0.75")

	tests := []struct {
		name     string
		eligible bool
		gross    string
		wantESI  string
	}{
		{name: "at ceiling", eligible: true, gross: "21000", wantESI: "158"},
		{name: "above ceiling", eligible: true, gross: "21001", wantESI: "0"},
		{name: "not eligible", eligible: false, gross: "15000", wantESI: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CalculateDeductions(DeductionInput{
				ESIEligible: tt.eligible,
				Rates:       rates,
				GrossSalary: dec(tt.gross),
			})
			assertDecimal(t, tt.wantESI, d.ESI)
		})
	}
}

func TestCalculateDeductions_PFAndPenalties(t *testing.T) {
	rates := zeroRates()
	rates.PFPercentage = dec("12")
	rates.ProfessionalTax = dec("200")
	rates.LateDeductionPerDay = dec("50")

	d := CalculateDeductions(DeductionInput{
		PFEligible:    true,
		Rates:         rates,
		Attendance:    attendance.Summary{AbsentDays: 2, LateDays: 3},
		ContractBasic: dec("15000"),
		EarnedBasic:   dec("13846"),
		GrossSalary:   dec("13846"),
	})

	assertDecimal(t, "1662", d.PF)
	assertDecimal(t, "1154", d.Absence)
	assertDecimal(t, "150", d.Late)
	assertDecimal(t, "200", d.ProfessionalTax)
	assertDecimal(t, "0", d.Loan)
}

func TestCalculateDeductions_NotPFEligible(t *testing.T) {
	rates := zeroRates()
	rates.PFPercentage = dec("12")

	d := CalculateDeductions(DeductionInput{
		PFEligible:  false,
		Rates:       rates,
		EarnedBasic: dec("13846"),
	})

	assertDecimal(t, "0", d.PF)
}

func TestCalculateDeductions_Overrides(t *testing.T) {
	rates := zeroRates()
	rates.PFPercentage = dec("12")
	rates.ProfessionalTax = dec("200")

	d := CalculateDeductions(DeductionInput{
		PFEligible:    true,
		Rates:         rates,
		Attendance:    attendance.Summary{AbsentDays: 5},
		ContractBasic: dec("26000"),
		EarnedBasic:   dec("21000"),
		Overrides: DeductionsOverride{
			PF:              decPtr("0"),
			ProfessionalTax: decPtr("150"),
			Absence:         decPtr("100"),
			Loan:            decPtr("1000"),
		},
	})

	assertDecimal(t, "0", d.PF)
	assertDecimal(t, "150", d.ProfessionalTax)
	assertDecimal(t, "100", d.Absence)
	assertDecimal(t, "1000", d.Loan)
}

func TestCompute_EndToEnd(t *testing.T) {
	rates := zeroRates()
	rates.PFPercentage = dec("12")

	g := guard.Guard{
		BasicSalary: dec("15000"),
		PFEligible:  true,
		ESIEligible: true,
	}
	att := attendance.Summary{TotalDays: 26, PresentDays: 24, AbsentDays: 2}

	earnings, deductions := Compute(ComputeInput{Guard: g, Attendance: att, Rates: rates})

	record := PayrollRecord{Earnings: earnings, Deductions: deductions}
	record.Recalculate()

	assertDecimal(t, "13846", record.Earnings.Basic)
	assertDecimal(t, "13846", record.GrossSalary)
	assertDecimal(t, "1662", record.Deductions.PF)
	assertDecimal(t, "0", record.Deductions.ESI)
	assertDecimal(t, "1154", record.Deductions.Absence)
	assertDecimal(t, "2816", record.TotalDeductions)
	assertDecimal(t, "11030", record.NetSalary)
}

func TestCompute_ESIUsesGrossAfterProration(t *testing.T) {
	rates := zeroRates()
	rates.ESIPercentage = dec("1")

	g := guard.Guard{BasicSalary: dec("26000"), ESIEligible: true}

	// Full month: gross 26000 is over the ceiling.
	_, full := Compute(ComputeInput{Guard: g, Attendance: attendance.Summary{PresentDays: 26}, Rates: rates})
	assertDecimal(t, "0", full.ESI)

	// 20 days: gross 20000 is under it.
	_, partial := Compute(ComputeInput{Guard: g, Attendance: attendance.Summary{PresentDays: 20}, Rates: rates})
	assertDecimal(t, "200", partial.ESI)
}
