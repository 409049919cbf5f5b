package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"procurement/internal/models"
)

func addTestMilestone(t *testing.T, repo *Repository, tenderId, actorId int) models.Milestone {
	milestone, err := repo.AddMilestone(context.Background(), models.Milestone{
		TenderId:         tenderId,
		Title:            "first delivery",
		Description:      "phase one hardware",
		Status:           models.MilestonePending,
		InspectionStatus: models.InspectionPending,
	}, actorId)
	if err != nil {
		t.Fatalf("Could not add milestone: %s", err)
	}
	return milestone
}

func TestAddMilestone(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	admin := users[models.RoleAdmin]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)

	milestone := addTestMilestone(t, repo, tender.Id, admin.Id)
	require.Equal(t, models.MilestonePending, milestone.Status)
	require.Equal(t, models.InspectionPending, milestone.InspectionStatus)

	_, err := repo.AddMilestone(ctx, models.Milestone{
		TenderId:         999999,
		Title:            "orphan",
		Status:           models.MilestonePending,
		InspectionStatus: models.InspectionPending,
	}, admin.Id)
	require.ErrorIs(t, err, models.ErrNotFound)

	milestones, err := repo.Milestones(ctx, 0, 0, tender.Id)
	require.NoError(t, err)
	require.Len(t, milestones, 1)
}

func TestUpdateMilestone(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	admin := users[models.RoleAdmin]
	technical := users[models.RoleTechnical]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)
	milestone := addTestMilestone(t, repo, tender.Id, admin.Id)

	// sparse update touches only supplied fields
	status := models.MilestoneInProgress
	proof := "https://storage.example.com/proof/1.pdf"
	updated, err := repo.UpdateMilestone(ctx, milestone.Id, models.MilestoneUpdate{
		Status:   &status,
		ProofURL: &proof,
	}, technical.Id)
	require.NoError(t, err)
	require.Equal(t, models.MilestoneInProgress, updated.Status)
	require.Equal(t, proof, updated.ProofURL)
	require.Equal(t, milestone.Title, updated.Title)

	// a passed inspection forces the milestone to completed
	passed := models.InspectionPassed
	remarks := "meets acceptance criteria"
	updated, err = repo.UpdateMilestone(ctx, milestone.Id, models.MilestoneUpdate{
		InspectionStatus: &passed,
		QualityRemarks:   &remarks,
	}, technical.Id)
	require.NoError(t, err)
	require.Equal(t, models.InspectionPassed, updated.InspectionStatus)
	require.Equal(t, models.MilestoneCompleted, updated.Status)

	_, err = repo.UpdateMilestone(ctx, 999999, models.MilestoneUpdate{Status: &status}, technical.Id)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestMilestonesOrdering(t *testing.T) {
	ctx := context.Background()
	repo := OpenTestRepo(t)
	defer repo.Close()

	users := SeedUsers(t, repo)
	admin := users[models.RoleAdmin]
	tender := SeedTender(t, repo, users[models.RoleClient].Id)

	var ids []int
	for i := 0; i < 3; i++ {
		ids = append(ids, addTestMilestone(t, repo, tender.Id, admin.Id).Id)
	}

	// listed in creation order
	milestones, err := repo.Milestones(ctx, 0, 0, tender.Id)
	require.NoError(t, err)
	require.Len(t, milestones, 3)
	for i, milestone := range milestones {
		require.Equal(t, ids[i], milestone.Id)
	}
}
