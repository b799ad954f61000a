// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chassis-cli/chassis/lib/command"
	"github.com/chassis-cli/chassis/lib/config"
	"github.com/chassis-cli/chassis/lib/output"
	"github.com/chassis-cli/chassis/lib/schema"
)

// Task is the demo domain object.
type Task struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// taskStore is an in-memory store seeded with sample data; the demo
// exists to exercise the engine, not persistence.
type taskStore struct {
	tasks  []Task
	nextID int
}

func newTaskStore() *taskStore {
	store := &taskStore{nextID: 1}
	for i, title := range []string{
		"triage inbox", "update dependencies", "write release notes",
		"fix flaky integration test", "review open proposals",
	} {
		status := "open"
		if i%2 == 1 {
			status = "done"
		}
		store.add(title, "normal", status)
	}
	return store
}

func (s *taskStore) add(title, priority, status string) Task {
	task := Task{ID: s.nextID, Title: title, Status: status, Priority: priority}
	s.nextID++
	s.tasks = append(s.tasks, task)
	return task
}

func (s *taskStore) list(status string) []Task {
	if status == "all" {
		return s.tasks
	}
	var filtered []Task
	for _, task := range s.tasks {
		if task.Status == status {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

func (s *taskStore) remove(id int) (Task, bool) {
	for i, task := range s.tasks {
		if task.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return task, true
		}
	}
	return Task{}, false
}

// listInput is the schema for "task list"; its fields become --status
// and --tag automatically.
type listInput struct {
	Status string  `json:"status" enum:"open,done,all" default:"open" desc:"filter by task status"`
	Tag    *string `json:"tag" desc:"only tasks whose title contains this text"`
}

// addInput is the schema for "task add".
type addInput struct {
	Priority string `json:"priority" enum:"low,normal,high" default:"normal" desc:"task priority"`
}

// verbosityPreset is a reusable flag bundle: two boolean flags
// resolved into a single typed verbosity field. The resolver reads
// both source keys and never mutates the bag.
var verbosityPreset = &command.Preset{
	ID: "verbosity",
	Options: []command.FlagDefinition{
		command.BoolFlag("verbose", "include per-task detail in log output"),
		command.BoolFlag("quiet", "suppress non-essential log output"),
	},
	Resolve: func(raw map[string]any) schema.Values {
		switch {
		case raw["quiet"] == true:
			return schema.Values{"verbosity": "silent"}
		case raw["verbose"] == true:
			return schema.Values{"verbosity": "debug"}
		default:
			return schema.Values{"verbosity": "normal"}
		}
	},
}

// buildTree assembles the demo command tree. The store is shared by
// all handlers through their context factories.
func buildTree(configuration *config.Config) *command.Command {
	store := newTaskStore()

	listCommand := command.New("list").
		Summary("list tasks").
		Description("List tasks, optionally filtered by status, with paginated output.").
		Input(schema.MustNew(listInput{})).
		Use(verbosityPreset).
		ReadOnly(true).
		Paginate(pageLimit(configuration)).
		RelatedTo("add", "create another task").
		Example("list open tasks as JSON", "chassis-demo task list --json").
		Render(renderTasks).
		Build(func(ctx *command.Context) (any, error) {
			tasks := store.list(ctx.String("status", "open"))
			if tag := ctx.String("tag", ""); tag != "" {
				tasks = filterByTitle(tasks, tag)
			}
			if ctx.String("verbosity", "normal") == "debug" {
				ctx.Logger.Info("listing tasks", "count", len(tasks))
			}
			return tasks, nil
		})

	addCommand := command.New("add", "<title>").
		Summary("create a task").
		Input(schema.MustNew(addInput{})).
		Use(verbosityPreset).
		RelatedTo("list", "see the task in context").
		Build(func(ctx *command.Context) (any, error) {
			if len(ctx.Args) == 0 {
				return nil, command.Validationf("add requires a <title> argument")
			}
			task := store.add(ctx.Args[0], ctx.String("priority", "normal"), "open")
			return task, nil
		})

	removeCommand := command.New("remove", "<id>").
		Summary("delete a task").
		Destructive(true).
		RelatedTo("list", "verify the remaining tasks").
		Build(func(ctx *command.Context) (any, error) {
			if len(ctx.Args) == 0 {
				return nil, command.Validationf("remove requires an <id> argument")
			}
			var id int
			if _, err := fmt.Sscanf(ctx.Args[0], "%d", &id); err != nil {
				return nil, command.Validationf("task id must be a number, got %q", ctx.Args[0])
			}
			if ctx.DryRun {
				return map[string]any{"wouldRemove": id}, nil
			}
			task, found := store.remove(id)
			if !found {
				return nil, command.NotFoundf("no task with id %d", id)
			}
			return task, nil
		})

	importCommand := command.New("import", "<titles>...").
		Summary("bulk-create tasks, streaming progress").
		Use(verbosityPreset).
		ContextFactory(func(ctx context.Context, input schema.Values) (any, error) {
			return store, nil
		}).
		RelatedTo("list", "review the imported tasks").
		Build(func(ctx *command.Context) (any, error) {
			target := ctx.Custom.(*taskStore)
			var created []Task
			for i, title := range ctx.Args {
				ctx.Progress("importing", map[string]any{"index": i, "title": title})
				created = append(created, target.add(title, "normal", "open"))
			}
			ctx.Step("imported", len(created))
			return created, nil
		})

	taskGroup := command.Group("task", "manage tasks",
		listCommand, addCommand, removeCommand, importCommand)

	return command.Group("chassis-demo", "chassis reference tool", taskGroup)
}

func pageLimit(configuration *config.Config) int {
	if configuration.Output.Limit > 0 {
		return configuration.Output.Limit
	}
	return 20
}

func filterByTitle(tasks []Task, fragment string) []Task {
	var filtered []Task
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), strings.ToLower(fragment)) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}

// renderTasks is the human-mode renderer for "task list".
func renderTasks(w io.Writer, result any) error {
	tasks, ok := result.([]Task)
	if !ok {
		return output.WriteJSON(w, result)
	}
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  ID\tSTATUS\tPRIORITY\tTITLE\n")
	for _, task := range tasks {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", task.ID, task.Status, task.Priority, task.Title)
	}
	return tw.Flush()
}
