package domain

import "time"

// MembershipStatus статус абонемента
type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusInactive MembershipStatus = "inactive"
	MembershipStatusExpired  MembershipStatus = "expired"
)

// Membership абонемент пользователя
// Хранит только текущий период: при автопродлении запись перезаписывается
// на месте, истории периодов нет (решение зафиксировано в DESIGN.md)
type Membership struct {
	ID     string
	UserID string
	PlanID string

	// Снапшот тарифа на момент покупки/продления
	PlanName       string
	Price          float64
	DurationMonths int

	StartDate     time.Time
	EndDate       time.Time
	Status        MembershipStatus
	Active        bool // инвариант: Active == true <=> Status == active
	RenewalOption bool

	ExpiredAt *time.Time // момент перевода в expired; определяет окно автопродления

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если абонемент действует
func (m *Membership) IsActive() bool {
	return m.Status == MembershipStatusActive
}

// IsExpiredPast возвращает true, если период абонемента закончился до указанной даты
func (m *Membership) IsExpiredPast(today time.Time) bool {
	end := time.Date(m.EndDate.Year(), m.EndDate.Month(), m.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return end.Before(day)
}

// RenewalPeriod вычисляет границы нового периода при автопродлении:
// новый период начинается на следующий день после конца старого
func (m *Membership) RenewalPeriod(durationMonths int) (start, end time.Time) {
	start = m.EndDate.AddDate(0, 0, 1)
	end = start.AddDate(0, durationMonths, 0)
	return start, end
}

// Plan тариф абонемента из каталога
// Читается при автопродлении для пересчёта периода и снапшота
type Plan struct {
	ID             string
	Name           string
	DurationMonths int
	Price          float64
	Description    string
}
