package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sentryforce/guard-payroll/internal/domain/guard"
	"github.com/sentryforce/guard-payroll/internal/pkg/database"
	"github.com/sentryforce/guard-payroll/internal/pkg/validator"
)

type guardRepositoryImpl struct {
	db *database.DB
}

func NewGuardRepository(db *database.DB) guard.GuardRepository {
	return &guardRepositoryImpl{db: db}
}

const guardColumns = `
	id, guard_code, full_name, employment_status, basic_salary,
	hra, travel_allowance, food_allowance, medical_allowance, special_allowance,
	pf_eligible, esi_eligible,
	bank_name, account_holder_name, account_number, ifsc_code, upi_id,
	created_at, updated_at`

func scanGuard(row rowScanner) (guard.Guard, error) {
	var (
		g      guard.Guard
		status string
	)
	err := row.Scan(
		&g.ID, &g.GuardCode, &g.FullName, &status, &g.BasicSalary,
		&g.Allowances.HRA, &g.Allowances.Travel, &g.Allowances.Food, &g.Allowances.Medical, &g.Allowances.Special,
		&g.PFEligible, &g.ESIEligible,
		&g.Bank.BankName, &g.Bank.AccountHolderName, &g.Bank.AccountNumber, &g.Bank.IFSCCode, &g.Bank.UPIID,
		&g.CreatedAt, &g.UpdatedAt,
	)
	g.EmploymentStatus = guard.EmploymentStatus(status)
	return g, err
}

// GetByID implements guard.GuardRepository.
func (r *guardRepositoryImpl) GetByID(ctx context.Context, id string) (guard.Guard, error) {
	if !validator.IsUUID(id) {
		return guard.Guard{}, fmt.Errorf("guard with id %s: %w", id, guard.ErrGuardNotFound)
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + guardColumns + ` FROM guards WHERE id = $1`

	g, err := scanGuard(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return guard.Guard{}, fmt.Errorf("guard with id %s: %w", id, guard.ErrGuardNotFound)
		}
		return guard.Guard{}, fmt.Errorf("failed to get guard by id: %w", err)
	}
	return g, nil
}

// ListActive implements guard.GuardRepository.
func (r *guardRepositoryImpl) ListActive(ctx context.Context) ([]guard.Guard, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + guardColumns + ` FROM guards WHERE employment_status = 'active' ORDER BY guard_code ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active guards: %w", err)
	}
	defer rows.Close()

	var guards []guard.Guard
	for rows.Next() {
		g, err := scanGuard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guard: %w", err)
		}
		guards = append(guards, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guards: %w", err)
	}

	return guards, nil
}
