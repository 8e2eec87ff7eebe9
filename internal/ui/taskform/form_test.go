package taskform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"draft", "send"}, SplitLines("  draft\n\n send \n"))
	assert.Nil(t, SplitLines(""))
}

func TestFormatDays(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Mon, Wed", FormatDays([]int{1, 3}))
	assert.Equal(t, "never", FormatDays(nil))
}

func TestFormBindingsInput(t *testing.T) {
	t.Parallel()
	fb := &formBindings{title: " Gym ", days: []int{5, 1, 5}, subtasks: "warm up\n\nlift"}
	in := fb.input()
	assert.Equal(t, "Gym", in.Title)
	assert.Equal(t, []int{1, 5}, in.Days)
	assert.Equal(t, []string{"warm up", "lift"}, in.Subtasks)
}

func TestValidateRequired(t *testing.T) {
	t.Parallel()
	v := validateRequired("Title")
	assert.Error(t, v("  "))
	assert.NoError(t, v("ok"))
}
