package models

import "time"

type ApprovalWorkflow struct {
	Id         int       `db:"id" json:"id"`
	WorkflowId string    `db:"workflow_id" json:"workflowId"`
	EntityType string    `db:"entity_type" json:"entityType"`
	EntityId   int       `db:"entity_id" json:"entityId"`
	Status     string    `db:"status" json:"status"`
	NextStep   string    `db:"next_step" json:"nextStep"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
