package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_Create_NormalizesCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := &domain.Project{Name: "Website Relaunch", Code: " web01 "}
	require.NoError(t, env.Projects.Create(ctx, p, testActor))
	assert.NotEmpty(t, p.ID, "UUID should be generated")
	assert.Equal(t, "WEB01", p.Code)

	byCode, err := env.Projects.Resolve(ctx, "web01")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byCode.ID)

	byID, err := env.Projects.Resolve(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website Relaunch", byID.Name)
}

func TestProjectService_Create_InvalidCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"no digits", "WEBSITE"},
		{"too short letters", "WE01"},
		{"too long letters", "WEBSITES01"},
		{"only digits", "12345"},
		{"special chars", "WE!01"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := env.Projects.Create(ctx, &domain.Project{Name: "Test", Code: tc.code}, testActor)
			assert.ErrorIs(t, err, ErrValidation, "code %q should be rejected", tc.code)
		})
	}
}

func TestProjectService_Create_DuplicateCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Projects.Create(ctx, &domain.Project{Name: "One", Code: "DUP01"}, testActor))
	err := env.Projects.Create(ctx, &domain.Project{Name: "Two", Code: "dup01"}, testActor)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, false)

	updated, err := env.Projects.Update(ctx, p.ID, ProjectPatch{
		Name:         ptr("Renamed"),
		StartDate:    ptr(day("2026-01-05")),
		EndDate:      ptr(day("2026-06-30")),
		AutoSchedule: ptr(true),
	}, testActor)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.AutoSchedule)

	_, err = env.Projects.Update(ctx, p.ID, ProjectPatch{EndDate: ptr(day("2025-12-31"))}, testActor)
	assert.ErrorIs(t, err, ErrValidation)

	history, err := env.History.ListByEntity(ctx, domain.EntityProject, p.ID)
	require.NoError(t, err)
	fields := map[string]bool{}
	for _, c := range history {
		fields[c.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["autoSchedule"])

	require.NoError(t, env.Projects.Delete(ctx, p.ID, testActor))
	_, err = env.Projects.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	live, err := env.Projects.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, live)
}
