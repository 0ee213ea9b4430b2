package service

import (
	"testing"
	"time"

	"github.com/alexanderramin/wbs/internal/domain"
	"github.com/alexanderramin/wbs/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNumberTasks_DepthFirstWithOrphans(t *testing.T) {
	root1 := testutil.NewTestTask("p", "Root 1", testutil.AsSummary(), testutil.WithOrderIndex(0))
	root2 := testutil.NewTestTask("p", "Root 2", testutil.WithOrderIndex(1))
	childB := testutil.NewTestTask("p", "Child B", testutil.WithParentID(root1.ID), testutil.WithOrderIndex(1))
	childA := testutil.NewTestTask("p", "Child A", testutil.WithParentID(root1.ID), testutil.WithOrderIndex(0))
	grandchild := testutil.NewTestTask("p", "Grandchild", testutil.WithParentID(childA.ID))

	gone := testutil.NewTestTask("p", "Gone", testutil.AsSummary(), testutil.WithOrderIndex(2))
	deletedAt := time.Now().UTC()
	gone.DeletedAt = &deletedAt
	orphan := testutil.NewTestTask("p", "Orphan", testutil.WithParentID(gone.ID), testutil.WithOrderIndex(5))

	views := numberTasks([]*domain.Task{root2, childB, gone, grandchild, root1, orphan, childA})

	var titles, numbers []string
	for _, v := range views {
		titles = append(titles, v.Title)
		numbers = append(numbers, v.WBS)
	}
	assert.Equal(t, []string{"Root 1", "Child A", "Grandchild", "Child B", "Root 2", "Orphan", "Gone"}, titles)
	assert.Equal(t, []string{"1", "1.1", "1.1.1", "1.2", "2", "3", ""}, numbers)
	assert.Equal(t, 2, views[2].Depth)
}
