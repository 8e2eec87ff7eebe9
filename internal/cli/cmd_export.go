package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/dailytasks/internal/model"
	"github.com/nhle/dailytasks/internal/tracker"
)

// exportVersion is bumped when the document layout changes.
const exportVersion = 1

// exportDoc is the portable form of a user's task definitions. Completion
// history is not included.
type exportDoc struct {
	Version    int          `json:"version" yaml:"version"`
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Tasks      []exportTask `json:"tasks" yaml:"tasks"`
}

type exportTask struct {
	Title    string   `json:"title" yaml:"title"`
	Days     []int    `json:"days" yaml:"days,flow"`
	Active   bool     `json:"active" yaml:"active"`
	Subtasks []string `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
}

func toExport(tasks []model.Task, now time.Time) exportDoc {
	doc := exportDoc{Version: exportVersion, ExportedAt: now.UTC(), Tasks: make([]exportTask, 0, len(tasks))}
	for _, t := range tasks {
		et := exportTask{Title: t.Title, Days: t.Days, Active: t.Active}
		for _, st := range t.Subtasks {
			et.Subtasks = append(et.Subtasks, st.Title)
		}
		doc.Tasks = append(doc.Tasks, et)
	}
	return doc
}

func newExportCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export task definitions as YAML or JSON",
		Long: `Export every task (including archived ones) with its days and subtasks.

Example:
  dailytasks export > tasks.yaml
  dailytasks export --format json -o tasks.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()

			user, err := e.requireUser()
			if err != nil {
				return err
			}
			tasks, err := e.svc.AllTasks(cmd.Context(), user)
			if err != nil {
				return err
			}
			doc := toExport(tasks, time.Now())

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := encodeExport(w, format, doc); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", len(doc.Tasks), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func encodeExport(w io.Writer, format string, doc exportDoc) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		return writeJSON(w, doc)
	default:
		return fmt.Errorf("unknown format %q: use yaml or json", format)
	}
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create tasks from an exported YAML or JSON file",
		Long: `Create one task per entry of an export document. Tasks are always
added; existing tasks are left alone. Archived entries are created
archived.

Each entry is its own transaction. If an entry fails, the ones before it
stay imported and the rest are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readExport(args[0])
			if err != nil {
				return err
			}

			e, err := openEnv(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()

			user, err := e.requireUser()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			for i, et := range doc.Tasks {
				_, err := e.svc.CreateTask(ctx, user, tracker.CreateTaskInput{
					Title:    et.Title,
					Days:     et.Days,
					Active:   &et.Active,
					Subtasks: et.Subtasks,
				})
				if err != nil {
					return fmt.Errorf("task %d (%q), %d imported before it: %w", i+1, et.Title, i, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(doc.Tasks))
			return nil
		},
	}
}

// readExport decodes an export file. JSON is accepted by extension; anything
// else is parsed as YAML.
func readExport(path string) (exportDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return exportDoc{}, fmt.Errorf("read import file: %w", err)
	}

	var doc exportDoc
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return exportDoc{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Version > exportVersion {
		return exportDoc{}, fmt.Errorf("unsupported export version %d", doc.Version)
	}
	return doc, nil
}
