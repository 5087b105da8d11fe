package models

import "time"

type Goal struct {
	GoalID        string    `firestore:"-" json:"goalId"`
	UserID        string    `firestore:"userId" json:"userId"`
	NessieID      string    `firestore:"nessieId" json:"nessieId"`
	Name          string    `firestore:"name" json:"name"`
	TargetAmount  float64   `firestore:"targetAmount" json:"targetAmount"`
	CurrentAmount float64   `firestore:"currentAmount" json:"currentAmount"`
	TargetDate    time.Time `firestore:"targetDate" json:"targetDate"`
	Category      string    `firestore:"category" json:"category"`
	Priority      string    `firestore:"priority" json:"priority"` // low | medium | high
	IsCompleted   bool      `firestore:"isCompleted" json:"isCompleted"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}
