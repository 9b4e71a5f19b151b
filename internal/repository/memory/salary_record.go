package memory

import (
	"cmp"
	"context"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/salary"
)

type salaryRecordRepository struct {
	// mu serialises the duplicate check with the insert.
	mu sync.Mutex
	t  *table[salary.SalaryRecord]
}

func NewSalaryRecordRepository() salary.SalaryRecordRepository {
	return &salaryRecordRepository{t: newTable[salary.SalaryRecord]()}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s|%04d-%02d", employeeID, year, month)
}

func (r *salaryRecordRepository) find(employeeID string, month, year int) (salary.SalaryRecord, bool) {
	key := periodKey(employeeID, month, year)
	rows := r.t.filter(func(rec salary.SalaryRecord) bool {
		return periodKey(rec.EmployeeID, rec.Month, rec.Year) == key
	}, nil)
	if len(rows) == 0 {
		return salary.SalaryRecord{}, false
	}
	return rows[0], true
}

func (r *salaryRecordRepository) Create(ctx context.Context, rec salary.SalaryRecord) (salary.SalaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.find(rec.EmployeeID, rec.Month, rec.Year); ok {
		return salary.SalaryRecord{}, salary.ErrSalaryRecordExists
	}
	r.t.put(rec.ID, rec)
	return rec, nil
}

func (r *salaryRecordRepository) Update(ctx context.Context, rec salary.SalaryRecord) error {
	if _, ok := r.t.get(rec.ID); !ok {
		return salary.ErrSalaryRecordNotFound
	}
	r.t.put(rec.ID, rec)
	return nil
}

func (r *salaryRecordRepository) Delete(ctx context.Context, id string) error {
	if !r.t.remove(id) {
		return salary.ErrSalaryRecordNotFound
	}
	return nil
}

func (r *salaryRecordRepository) GetByID(ctx context.Context, id string) (salary.SalaryRecord, error) {
	rec, ok := r.t.get(id)
	if !ok {
		return salary.SalaryRecord{}, salary.ErrSalaryRecordNotFound
	}
	return rec, nil
}

func (r *salaryRecordRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (salary.SalaryRecord, error) {
	rec, ok := r.find(employeeID, month, year)
	if !ok {
		return salary.SalaryRecord{}, salary.ErrSalaryRecordNotFound
	}
	return rec, nil
}

func (r *salaryRecordRepository) ExistsForPeriod(ctx context.Context, employeeID string, month, year int) (bool, error) {
	_, ok := r.find(employeeID, month, year)
	return ok, nil
}

// newest period first, then by employee name
func byPeriodDesc(a, b salary.SalaryRecord) int {
	if c := cmp.Compare(b.Year, a.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Month, a.Month); c != 0 {
		return c
	}
	return cmp.Compare(a.EmployeeName, b.EmployeeName)
}

func (r *salaryRecordRepository) List(ctx context.Context, f salary.SalaryRecordFilter) ([]salary.SalaryRecord, error) {
	rows := r.t.filter(func(rec salary.SalaryRecord) bool {
		if f.Month != nil && rec.Month != *f.Month {
			return false
		}
		if f.Year != nil && rec.Year != *f.Year {
			return false
		}
		if f.EmployeeID != nil && rec.EmployeeID != *f.EmployeeID {
			return false
		}
		if f.Status != nil && rec.Status != *f.Status {
			return false
		}
		if f.Role != nil && rec.Role != *f.Role {
			return false
		}
		return true
	}, byPeriodDesc)
	return page(rows, f.Limit, 0), nil
}
