// Package taskform prompts for a new recurring task in the terminal.
package taskform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/tracker"
)

// WeekdayNames maps ISO weekday numbers to short labels.
var WeekdayNames = map[int]string{
	model.Monday:    "Mon",
	model.Tuesday:   "Tue",
	model.Wednesday: "Wed",
	model.Thursday:  "Thu",
	model.Friday:    "Fri",
	model.Saturday:  "Sat",
	model.Sunday:    "Sun",
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers stay valid.
type formBindings struct {
	title    string
	days     []int
	subtasks string
}

// Prompt runs the interactive form, prefilled from in, and returns the
// completed input. huh.ErrUserAborted is returned when the user cancels.
func Prompt(in tracker.CreateTaskInput) (tracker.CreateTaskInput, error) {
	fb := &formBindings{
		title:    in.Title,
		days:     in.Days,
		subtasks: strings.Join(in.Subtasks, "\n"),
	}

	if err := build(fb).Run(); err != nil {
		return tracker.CreateTaskInput{}, err
	}
	return fb.input(), nil
}

func build(fb *formBindings) *huh.Form {
	opts := make([]huh.Option[int], 0, 7)
	for d := model.Monday; d <= model.Sunday; d++ {
		opts = append(opts, huh.NewOption(WeekdayNames[d], d))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What do you want to do?").
				Value(&fb.title).
				Validate(validateRequired("Title")),
			huh.NewMultiSelect[int]().
				Title("Repeat on").
				Options(opts...).
				Value(&fb.days),
			huh.NewText().
				Title("Subtasks").
				Placeholder("One per line (optional)").
				Value(&fb.subtasks),
		),
	)
}

func (fb *formBindings) input() tracker.CreateTaskInput {
	return tracker.CreateTaskInput{
		Title:    strings.TrimSpace(fb.title),
		Days:     model.NormalizeDays(fb.days),
		Subtasks: SplitLines(fb.subtasks),
	}
}

// SplitLines turns a multi-line answer into trimmed, non-blank entries.
func SplitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// FormatDays renders a recurrence set as "Mon, Wed".
func FormatDays(days []int) string {
	if len(days) == 0 {
		return "never"
	}
	names := make([]string, len(days))
	for i, d := range days {
		name, ok := WeekdayNames[d]
		if !ok {
			name = fmt.Sprintf("day %d", d)
		}
		names[i] = name
	}
	return strings.Join(names, ", ")
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
