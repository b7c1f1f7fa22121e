package guard

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusInactive   EmploymentStatus = "inactive"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Guard is the payroll-relevant projection of a guard from the directory.
type Guard struct {
	ID               string
	GuardCode        string
	FullName         string
	EmploymentStatus EmploymentStatus
	BasicSalary      decimal.Decimal
	Allowances       Allowances
	PFEligible       bool
	ESIEligible      bool
	Bank             BankDetails
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Allowances are the fixed monthly components configured on the guard.
type Allowances struct {
	HRA     decimal.Decimal
	Travel  decimal.Decimal
	Food    decimal.Decimal
	Medical decimal.Decimal
	Special decimal.Decimal
}

type BankDetails struct {
	BankName          string
	AccountHolderName *string
	AccountNumber     string
	IFSCCode          string
	UPIID             *string
}

func (g Guard) IsActive() bool {
	return g.EmploymentStatus == EmploymentStatusActive
}
