package integration

import "github.com/nateesoft/management-hrm-service/internal/identity"

type UserWebhookPayload struct {
	ID       int64  `json:"id" binding:"required"`
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

// SyncResult tallies one sync-users run.
type SyncResult struct {
	Synced  int      `json:"synced"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type EmployeeStub struct {
	ID           int64  `json:"id"`
	EmployeeCode string `json:"employeeCode"`
}

type WebhookResult struct {
	Status   string        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Employee *EmployeeStub `json:"employee,omitempty"`
}

type UnlinkedUsersResponse struct {
	Users []identity.User `json:"users"`
}
