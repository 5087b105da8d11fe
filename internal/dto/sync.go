package dto

import "github.com/retrovault/backend/internal/models"

type UserInfo struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

func (u *UserInfo) Empty() bool {
	return u == nil || (u.DisplayName == "" && u.Email == "" && u.PhotoURL == "")
}

type SyncRequest struct {
	UserID       string    `json:"userId" validate:"required"`
	UserInfo     *UserInfo `json:"userInfo"`
	ForceRefresh bool      `json:"forceRefresh"`
}

type SyncResult struct {
	UserID           string                  `json:"userId"`
	Created          bool                    `json:"created"`
	Refreshed        bool                    `json:"refreshed"`
	Status           models.MigrationStatus  `json:"status"`
	FinancialSummary models.FinancialSummary `json:"financialSummary"`
	SyncStatus       models.SyncStatus       `json:"syncStatus"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
