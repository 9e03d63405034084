package events

import "time"

const SalaryLifecycleTopic = "hr.salary.lifecycle.v1"

type SalaryPaidEvent struct {
	EventType      string    `json:"event_type"`
	SalaryRecordID int64     `json:"salary_record_id"`
	EmployeeID     int64     `json:"employee_id"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	NetSalary      string    `json:"net_salary"`
	PaymentMethod  string    `json:"payment_method,omitempty"`
	PaymentRef     string    `json:"payment_ref,omitempty"`
	PaidAt         time.Time `json:"paid_at"`
}
