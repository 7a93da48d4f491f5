package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

func TestClassifierFor(t *testing.T) {
	tests := []struct {
		op   retryclass.OperationType
		want interface{}
	}{
		{retryclass.OperationRead, &ReadClassifier{}},
		{retryclass.OperationWrite, &WriteClassifier{}},
		{retryclass.OperationChangeStream, &ChangeStreamClassifier{}},
	}

	for _, tt := range tests {
		c, err := ClassifierFor(tt.op)
		require.NoError(t, err)
		assert.IsType(t, tt.want, c)
	}

	_, err := ClassifierFor("delete")
	assert.Error(t, err)
}

func TestWriteClassifier_LabelsThenTrustsLabel(t *testing.T) {
	c := NewWriteClassifier()

	err := retryclass.NewCommandError(retryclass.HostUnreachable)
	assert.True(t, c.IsTransient(err))
	assert.True(t, err.Labels.Has(retryclass.RetryableWriteErrorLabel))

	fatal := retryclass.NewCommandError(retryclass.NotPrimary)
	assert.False(t, c.IsTransient(fatal))

	serverLabelled := retryclass.NewCommandError(retryclass.NotPrimary, retryclass.RetryableWriteErrorLabel)
	assert.True(t, c.IsTransient(serverLabelled))
}

func TestReadAndChangeStreamClassifiers(t *testing.T) {
	cursorGone := retryclass.NewLocalError(retryclass.KindCursorNotFound, nil)

	assert.False(t, NewReadClassifier().IsTransient(cursorGone))
	assert.True(t, NewChangeStreamClassifier().IsTransient(cursorGone))
}

func TestClassify(t *testing.T) {
	t.Run("cursor not found", func(t *testing.T) {
		v := Classify(retryclass.NewLocalError(retryclass.KindCursorNotFound, nil))
		assert.Equal(t, Verdict{
			Shape:     retryclass.ShapeLocal,
			ShapeName: "local",
			Resumable: true,
		}, v)
	})

	t.Run("write concern error does not get mutated", func(t *testing.T) {
		err := mustWriteConcernError(t, retryclass.NotPrimary)
		v := Classify(err)

		assert.Equal(t, retryclass.ShapeWriteConcern, v.Shape)
		assert.True(t, v.ShouldLabelWrite)
		assert.True(t, v.RetryableWrite)
		assert.False(t, v.RetryableRead)
		assert.Equal(t, 0, err.Labels.Len())
	})

	t.Run("labels reported", func(t *testing.T) {
		v := Classify(retryclass.NewCommandError(retryclass.CursorKilled, retryclass.RetryableWriteErrorLabel))
		assert.Equal(t, []string{retryclass.RetryableWriteErrorLabel}, v.Labels)
		assert.True(t, v.RetryableWrite)
		assert.False(t, v.ShouldLabelWrite)
		assert.False(t, v.Resumable)
	})

	t.Run("foreign error", func(t *testing.T) {
		v := Classify(assert.AnError)
		assert.Equal(t, "none", v.ShapeName)
		assert.False(t, v.Resumable || v.RetryableRead || v.ShouldLabelWrite || v.RetryableWrite)
	})
}
