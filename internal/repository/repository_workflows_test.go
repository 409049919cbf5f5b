package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"procurement/internal/models"
)

func addTestWorkflow(t *testing.T, repo *Repository, entityType string, entityId, actorId int) models.ApprovalWorkflow {
	workflow, err := repo.AddWorkflow(context.Background(), models.ApprovalWorkflow{
		WorkflowId: fmt.Sprintf("WF-%08d", time.Now().UnixNano()%100000000),
		EntityType: entityType,
		EntityId:   entityId,
		Status:     "open",
		NextStep:   "technical_review",
	}, actorId)
	if err != nil {
		t.Fatalf("Could not add workflow: %s", err)
	}
	return workflow
}

func TestAddWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	admin := users[models.RoleAdmin]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)

	workflow := addTestWorkflow(t, repo, models.EntityTender, tender.Id, admin.Id)
	require.Equal(t, "open", workflow.Status)

	// one workflow per entity
	_, err := repo.AddWorkflow(ctx, models.ApprovalWorkflow{
		WorkflowId: "WF-DISTINCT1",
		EntityType: models.EntityTender,
		EntityId:   tender.Id,
		Status:     "open",
	}, admin.Id)
	require.ErrorIs(t, err, models.ErrConflict)

	// the same id is free for a different entity type
	second := addTestWorkflow(t, repo, models.EntityContract, tender.Id, admin.Id)

	fetched, err := repo.WorkflowByEntity(ctx, models.EntityTender, tender.Id)
	require.NoError(t, err)
	require.Equal(t, workflow.Id, fetched.Id)

	_, err = repo.WorkflowByEntity(ctx, models.EntityInvoice, tender.Id)
	require.ErrorIs(t, err, models.ErrNotFound)

	workflows, err := repo.Workflows(ctx, 0, 0, models.EntityContract)
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	require.Equal(t, second.Id, workflows[0].Id)

	workflows, err = repo.Workflows(ctx, 0, 0, "")
	require.NoError(t, err)
	require.Len(t, workflows, 2)
}

func TestAdvanceWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	admin := users[models.RoleAdmin]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	workflow := addTestWorkflow(t, repo, models.EntityTender, tender.Id, admin.Id)

	advanced, err := repo.AdvanceWorkflow(ctx, workflow.Id, "in_progress", "financial_review", admin.Id)
	require.NoError(t, err)
	require.Equal(t, "in_progress", advanced.Status)
	require.Equal(t, "financial_review", advanced.NextStep)

	fetched, err := repo.WorkflowById(ctx, workflow.Id)
	require.NoError(t, err)
	require.Equal(t, "in_progress", fetched.Status)

	_, err = repo.AdvanceWorkflow(ctx, 999999, "done", "", admin.Id)
	require.ErrorIs(t, err, models.ErrNotFound)
}
