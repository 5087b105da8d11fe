package models

import "time"

type MigrationStatus int

const (
	StatusPending MigrationStatus = iota
	StatusMigrated
)

func (s MigrationStatus) String() string {
	switch s {
	case StatusMigrated:
		return "migrated"
	default:
		return "pending"
	}
}

func (s MigrationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func StatusFromDataVersion(version string) MigrationStatus {
	if version == DataVersionMigrated {
		return StatusMigrated
	}
	return StatusPending
}

// MigrationStep names one stage of a user's migration, in execution order.
type MigrationStep string

const (
	StepProfile      MigrationStep = "profile"
	StepAccounts     MigrationStep = "accounts"
	StepTransactions MigrationStep = "transactions"
	StepBudgets      MigrationStep = "budgets"
	StepGoals        MigrationStep = "goals"
	StepAggregates   MigrationStep = "aggregates"
	StepFinalize     MigrationStep = "finalize"
)

var MigrationSteps = []MigrationStep{
	StepProfile,
	StepAccounts,
	StepTransactions,
	StepBudgets,
	StepGoals,
	StepAggregates,
	StepFinalize,
}

// Checkpoint lives at migrations/{uid} while a user's migration is in flight.
type Checkpoint struct {
	UID            string          `firestore:"uid" json:"uid"`
	RunID          string          `firestore:"runId" json:"runId"`
	CompletedSteps []MigrationStep `firestore:"completedSteps" json:"completedSteps"`
	StartedAt      time.Time       `firestore:"startedAt" json:"startedAt"`
	UpdatedAt      time.Time       `firestore:"updatedAt" json:"updatedAt"`
}

func (c *Checkpoint) Done(step MigrationStep) bool {
	if c == nil {
		return false
	}
	for _, s := range c.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}
