package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string     { return &s }
func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{
			Code: "PLN01",
			Name: "Plan",
		},
		Tasks: []TaskImport{
			{Ref: "t1", Title: "Task 1"},
		},
	}
}

func validFullSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{
			Code:         "LAUNCH01",
			Name:         "Launch",
			StartDate:    ptrStr("2025-02-01"),
			EndDate:      ptrStr("2025-06-30"),
			AutoSchedule: true,
		},
		Tasks: []TaskImport{
			{Ref: "design", Type: "summary", Title: "Design"},
			{Ref: "spec", ParentRef: ptrStr("design"), Title: "Write spec", StartDate: ptrStr("2025-02-03"), EndDate: ptrStr("2025-02-07"), EstimatePd: ptrFloat(5)},
			{Ref: "review", ParentRef: ptrStr("design"), Title: "Review", StartDate: ptrStr("2025-02-10"), EndDate: ptrStr("2025-02-11"), Progress: ptrInt(50), Status: "InProgress"},
			{Ref: "ship", Type: "milestone", Title: "Ship", EndDate: ptrStr("2025-02-14")},
		},
		Dependencies: []DependencyImport{
			{PredecessorRef: "spec", SuccessorRef: "review"},
			{PredecessorRef: "review", SuccessorRef: "ship", Type: "FS", LagDays: 2},
		},
	}
}

func errorsContain(errs []error, substr string) bool {
	for _, err := range errs {
		if strings.Contains(err.Error(), substr) {
			return true
		}
	}
	return false
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_ValidFull(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validFullSchema()))
}

func TestValidateImportSchema_ProjectErrors(t *testing.T) {
	schema := validMinimalSchema()
	schema.Project.Code = "bad"
	schema.Project.Name = ""
	schema.Project.StartDate = ptrStr("2025-03-01")
	schema.Project.EndDate = ptrStr("2025-02-01")

	errs := ValidateImportSchema(schema)
	assert.True(t, errorsContain(errs, "project.name is required"))
	assert.True(t, errorsContain(errs, "project.code"))
	assert.True(t, errorsContain(errs, "project.end_date"))
}

func TestValidateImportSchema_TaskErrors(t *testing.T) {
	tests := []struct {
		name string
		task TaskImport
		want string
	}{
		{"missing ref", TaskImport{Title: "x"}, "tasks[1].ref is required"},
		{"duplicate ref", TaskImport{Ref: "t1", Title: "x"}, "duplicate ref"},
		{"missing title", TaskImport{Ref: "t2"}, "tasks[1].title is required"},
		{"long title", TaskImport{Ref: "t2", Title: strings.Repeat("a", 201)}, "at most 200"},
		{"bad type", TaskImport{Ref: "t2", Title: "x", Type: "epic"}, "tasks[1].type"},
		{"bad status", TaskImport{Ref: "t2", Title: "x", Status: "Paused"}, "tasks[1].status"},
		{"progress range", TaskImport{Ref: "t2", Title: "x", Progress: ptrInt(101)}, "between 0 and 100"},
		{"negative estimate", TaskImport{Ref: "t2", Title: "x", EstimatePd: ptrFloat(-1)}, "estimate_pd"},
		{"unknown parent", TaskImport{Ref: "t2", Title: "x", ParentRef: ptrStr("nope")}, "must appear earlier"},
		{"self parent", TaskImport{Ref: "t2", Title: "x", ParentRef: ptrStr("t2")}, "must appear earlier"},
		{"bad date", TaskImport{Ref: "t2", Title: "x", StartDate: ptrStr("02/03/2025")}, "invalid date format"},
		{"end before start", TaskImport{Ref: "t2", Title: "x", StartDate: ptrStr("2025-02-05"), EndDate: ptrStr("2025-02-04")}, "must not be before"},
		{"summary with dates", TaskImport{Ref: "t2", Title: "x", Type: "summary", StartDate: ptrStr("2025-02-05")}, "calculated from children"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := validMinimalSchema()
			schema.Tasks = append(schema.Tasks, tt.task)
			errs := ValidateImportSchema(schema)
			require.NotEmpty(t, errs)
			assert.True(t, errorsContain(errs, tt.want), "errors %v should mention %q", errs, tt.want)
		})
	}
}

func TestValidateImportSchema_DependencyErrors(t *testing.T) {
	tests := []struct {
		name string
		deps []DependencyImport
		want string
	}{
		{"missing predecessor", []DependencyImport{{SuccessorRef: "spec"}}, "predecessor_ref is required"},
		{"unknown successor", []DependencyImport{{PredecessorRef: "spec", SuccessorRef: "ghost"}}, "not found in tasks"},
		{"self dependency", []DependencyImport{{PredecessorRef: "spec", SuccessorRef: "spec"}}, "self-dependency"},
		{"unsupported type", []DependencyImport{{PredecessorRef: "spec", SuccessorRef: "review", Type: "SS"}}, "only FS"},
		{"duplicate", []DependencyImport{
			{PredecessorRef: "spec", SuccessorRef: "review"},
			{PredecessorRef: "spec", SuccessorRef: "review"},
		}, "duplicate dependency"},
		{"cycle", []DependencyImport{
			{PredecessorRef: "spec", SuccessorRef: "review"},
			{PredecessorRef: "review", SuccessorRef: "ship"},
			{PredecessorRef: "ship", SuccessorRef: "spec"},
		}, "circular dependency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := validFullSchema()
			schema.Dependencies = tt.deps
			errs := ValidateImportSchema(schema)
			require.NotEmpty(t, errs)
			assert.True(t, errorsContain(errs, tt.want), "errors %v should mention %q", errs, tt.want)
		})
	}
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	schema := &ImportSchema{
		Tasks: []TaskImport{
			{Title: "no ref"},
			{Ref: "a"},
		},
		Dependencies: []DependencyImport{{PredecessorRef: "a", SuccessorRef: "b"}},
	}
	errs := ValidateImportSchema(schema)
	assert.GreaterOrEqual(t, len(errs), 5)
}
