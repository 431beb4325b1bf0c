package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopbooks/internal/core/apperror"
)

func TestRunAllStepsSucceed(t *testing.T) {
	var order []string
	step := func(name string) Step {
		return Step{Name: name, Run: func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	outcomes, err := Run(context.Background(), "test op", []Step{
		step("one"), step("two"), step("three"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, order)
	require.Len(t, outcomes, 3)
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
		assert.False(t, o.Skipped)
	}
}

func TestRunContinuesPastFailure(t *testing.T) {
	var ran []string
	boom := errors.New("boom")

	outcomes, err := Run(context.Background(), "delete bill", []Step{
		{Name: "restore_stock", Run: func(ctx context.Context) error {
			ran = append(ran, "restore_stock")
			return boom
		}},
		{Name: "remove_document", Run: func(ctx context.Context) error {
			ran = append(ran, "remove_document")
			return nil
		}},
	})

	// Failure of one step must not stop the next.
	assert.Equal(t, []string{"restore_stock", "remove_document"}, ran)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePartialFailure, appErr.Code)
	assert.Equal(t, []string{"restore_stock"}, appErr.Details["failed_steps"])

	require.Len(t, outcomes, 2)
	assert.ErrorIs(t, outcomes[0].Err, boom)
	assert.NoError(t, outcomes[1].Err)
}

func TestRunCriticalFailureSkipsRest(t *testing.T) {
	var ran []string

	outcomes, err := Run(context.Background(), "test op", []Step{
		{Name: "first", Critical: true, Run: func(ctx context.Context) error {
			ran = append(ran, "first")
			return errors.New("boom")
		}},
		{Name: "second", Run: func(ctx context.Context) error {
			ran = append(ran, "second")
			return nil
		}},
	})

	assert.Equal(t, []string{"first"}, ran)
	require.Error(t, err)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[1].Skipped)
}

func TestRunAggregatesMultipleFailures(t *testing.T) {
	fail := func(name string) Step {
		return Step{Name: name, Run: func(ctx context.Context) error {
			return errors.New(name + " failed")
		}}
	}

	_, err := Run(context.Background(), "test op", []Step{fail("a"), fail("b")})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, appErr.Details["failed_steps"])
}
