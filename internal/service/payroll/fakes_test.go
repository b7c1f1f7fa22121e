package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sentryforce/guard-payroll/internal/domain/attendance"
	"github.com/sentryforce/guard-payroll/internal/domain/audit"
	"github.com/sentryforce/guard-payroll/internal/domain/guard"
	"github.com/sentryforce/guard-payroll/internal/domain/payroll"
	"github.com/sentryforce/guard-payroll/internal/domain/setting"
	"github.com/shopspring/decimal"
)

// ---- payroll repository ----

type fakePayrollRepo struct {
	mu        sync.Mutex
	records   map[string]payroll.PayrollRecord
	sequences map[string]int

	// hideExisting makes the guard-period lookup miss so the unique index has to catch duplicates.
	hideExisting bool
	// beforeSave runs inside SavePayrollRecord before the version check.
	beforeSave func(id string)
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		records:   make(map[string]payroll.PayrollRecord),
		sequences: make(map[string]int),
	}
}

func cloneRecord(r payroll.PayrollRecord) payroll.PayrollRecord {
	r.Adjustments = append([]payroll.Adjustment{}, r.Adjustments...)
	r.Revisions = append([]payroll.RevisionSnapshot{}, r.Revisions...)
	return r
}

func (f *fakePayrollRepo) NextPayrollSequence(_ context.Context, year, month int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d-%d", year, month)
	f.sequences[key]++
	return f.sequences[key], nil
}

func (f *fakePayrollRepo) CreatePayrollRecord(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.records {
		if existing.GuardID == record.GuardID && existing.PeriodMonth == record.PeriodMonth && existing.PeriodYear == record.PeriodYear {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
	}
	record.Version = 1
	f.records[record.ID] = cloneRecord(record)
	return cloneRecord(record), nil
}

func (f *fakePayrollRepo) GetPayrollRecordByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return cloneRecord(rec), nil
}

func (f *fakePayrollRepo) GetPayrollRecordByGuardPeriod(_ context.Context, guardID string, month, year int) (payroll.PayrollRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hideExisting {
		for _, rec := range f.records {
			if rec.GuardID == guardID && rec.PeriodMonth == month && rec.PeriodYear == year {
				return cloneRecord(rec), nil
			}
		}
	}
	return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
}

func (f *fakePayrollRepo) ListPayrollRecords(_ context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayrollRecord
	for _, rec := range f.records {
		if filter.Status != nil && string(rec.Status) != *filter.Status {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	return out, int64(len(out)), nil
}

func (f *fakePayrollRepo) SavePayrollRecord(_ context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	if f.beforeSave != nil {
		f.beforeSave(record.ID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.records[record.ID]
	if !ok || stored.Version != record.Version || stored.IsLocked {
		return payroll.PayrollRecord{}, payroll.ErrConcurrentModification
	}
	record.Version++
	f.records[record.ID] = cloneRecord(record)
	return cloneRecord(record), nil
}

func (f *fakePayrollRepo) DeletePayrollRecord(_ context.Context, id string, expectedVersion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.records[id]
	if !ok || stored.Version != expectedVersion || stored.IsLocked {
		return payroll.ErrConcurrentModification
	}
	delete(f.records, id)
	return nil
}

func (f *fakePayrollRepo) GetPayrollSummary(_ context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := payroll.PayrollSummaryResponse{PeriodMonth: month, PeriodYear: year}
	for _, rec := range f.records {
		if rec.PeriodMonth == month && rec.PeriodYear == year {
			summary.TotalRecords++
		}
	}
	return summary, nil
}

func (f *fakePayrollRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// ---- collaborators ----

type fakeGuardRepo struct {
	guards map[string]guard.Guard
}

func (f fakeGuardRepo) GetByID(_ context.Context, id string) (guard.Guard, error) {
	g, ok := f.guards[id]
	if !ok {
		return guard.Guard{}, fmt.Errorf("guard with id %s: %w", id, guard.ErrGuardNotFound)
	}
	return g, nil
}

func (f fakeGuardRepo) ListActive(_ context.Context) ([]guard.Guard, error) {
	var out []guard.Guard
	for _, g := range f.guards {
		if g.IsActive() {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	records map[string][]attendance.Attendance
}

func (f fakeAttendanceRepo) ListByGuardAndDateRange(_ context.Context, guardID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range f.records[guardID] {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fixedRates setting.Rates

func (r fixedRates) Resolve(context.Context) (setting.Rates, error) {
	return setting.Rates(r), nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []audit.Entry
	err     error
}

func (f *fakeAuditRepo) Create(_ context.Context, entry audit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) actions() []audit.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]audit.Action, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ---- fixtures ----

var fixedNow = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testRates() setting.Rates {
	return setting.Rates{
		PFPercentage:           dec("12"),
		ESIPercentage:          decimal.Zero,
		ProfessionalTax:        decimal.Zero,
		OvertimeRateMultiplier: dec("2"),
		LateDeductionPerDay:    decimal.Zero,
	}
}

func testGuard(id string) guard.Guard {
	return guard.Guard{
		ID:               id,
		GuardCode:        "G-" + id,
		FullName:         "Guard " + id,
		EmploymentStatus: guard.EmploymentStatusActive,
		BasicSalary:      dec("15000"),
		PFEligible:       true,
		ESIEligible:      true,
	}
}

// marchAttendance returns present days on the 1st..present and absent days after them.
func marchAttendance(guardID string, present, absent int) []attendance.Attendance {
	var out []attendance.Attendance
	day := 1
	for i := 0; i < present; i++ {
		out = append(out, attendance.Attendance{
			GuardID:     guardID,
			Date:        time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
			Status:      attendance.StatusPresent,
			WorkedHours: dec("8"),
		})
		day++
	}
	for i := 0; i < absent; i++ {
		out = append(out, attendance.Attendance{
			GuardID: guardID,
			Date:    time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC),
			Status:  attendance.StatusAbsent,
		})
		day++
	}
	return out
}

type testEnv struct {
	svc      *PayrollServiceImpl
	payrolls *fakePayrollRepo
	audits   *fakeAuditRepo
}

func newTestEnv(guards ...guard.Guard) testEnv {
	guardMap := make(map[string]guard.Guard)
	attendanceMap := make(map[string][]attendance.Attendance)
	for _, g := range guards {
		guardMap[g.ID] = g
		attendanceMap[g.ID] = marchAttendance(g.ID, 24, 2)
	}

	payrolls := newFakePayrollRepo()
	audits := &fakeAuditRepo{}

	svc := NewPayrollService(
		passthroughTx{},
		payrolls,
		fakeGuardRepo{guards: guardMap},
		fakeAttendanceRepo{records: attendanceMap},
		fixedRates(testRates()),
		audits,
	).(*PayrollServiceImpl)
	svc.now = func() time.Time { return fixedNow }

	return testEnv{svc: svc, payrolls: payrolls, audits: audits}
}
