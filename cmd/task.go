package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/batch"
)

// taskScope selects whose tasks a listing command shows.
type taskScope struct {
	owner string
	all   bool
}

func (s *taskScope) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.owner, "owner", "", "Owner e-mail (default: the configured or signed-in user)")
	cmd.Flags().BoolVar(&s.all, "all", false, "Show tasks of every owner")
}

// completionFilter maps --completed/--open onto the store's filter.
type completionFilter struct {
	completed bool
	open      bool
}

func (f *completionFilter) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.completed, "completed", false, "Only completed tasks")
	cmd.Flags().BoolVar(&f.open, "open", false, "Only tasks not completed")
	cmd.MarkFlagsMutuallyExclusive("completed", "open")
}

func (f completionFilter) value() *bool {
	switch {
	case f.completed:
		return model.Bool(true)
	case f.open:
		return model.Bool(false)
	default:
		return nil
	}
}

func newTaskCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, list and complete tasks",
	}

	cmd.AddCommand(newTaskListCmd(opts))
	cmd.AddCommand(newTaskSearchCmd(opts))
	cmd.AddCommand(newTaskRangeCmd(opts))
	cmd.AddCommand(newTaskAddCmd(opts))
	cmd.AddCommand(newTaskEditCmd(opts))
	cmd.AddCommand(newTaskCompletionCmd(opts, "done", "Mark tasks as completed", true))
	cmd.AddCommand(newTaskCompletionCmd(opts, "undo", "Mark tasks as not completed", false))
	cmd.AddCommand(newTaskRemoveCmd(opts))

	return cmd
}

func newTaskListCmd(opts *rootOptions) *cobra.Command {
	var (
		scope  taskScope
		filter completionFilter
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskSearch(cmd, opts, scope, "", filter.value())
		},
	}
	scope.register(cmd)
	filter.register(cmd)
	return cmd
}

func newTaskSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		scope  taskScope
		filter completionFilter
	)

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "List tasks whose title contains text, ignoring case",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskSearch(cmd, opts, scope, strings.Join(args, " "), filter.value())
		},
	}
	scope.register(cmd)
	filter.register(cmd)
	return cmd
}

func runTaskSearch(cmd *cobra.Command, opts *rootOptions, scope taskScope, text string, completed *bool) error {
	p, err := newPrinter(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return err
	}

	return opts.withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		if scope.all {
			if err := a.sc.Tasks().LoadAll(ctx); err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}
		} else {
			owner, err := a.owner(ctx, scope.owner)
			if err != nil {
				return err
			}
			if err := a.sc.Tasks().LoadByOwner(ctx, owner); err != nil {
				return fmt.Errorf("failed to load tasks: %w", err)
			}
		}
		return p.tasks(a.sc.Tasks().FilterByTitleAndCompletion(text, completed))
	})
}

func newTaskRangeCmd(opts *rootOptions) *cobra.Command {
	var (
		scope    taskScope
		from, to string
	)

	cmd := &cobra.Command{
		Use:   "range",
		Short: "List tasks due within a time range",
		Long: `List tasks whose due time lies within [--from, --to]. Either bound may be
omitted. Times are ISO-8601, e.g. 2024-05-01 or 2024-05-01T09:00:00Z. A bare
--to date includes that whole day.

Examples:
  uptodo task range --from 2024-05-01 --to 2024-05-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseTimeFlag("from", from, model.ParseTime)
			if err != nil {
				return err
			}
			end, err := parseTimeFlag("to", to, model.ParseRangeEnd)
			if err != nil {
				return err
			}
			p, err := newPrinter(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}

			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				owner := ""
				if !scope.all {
					if owner, err = a.owner(ctx, scope.owner); err != nil {
						return err
					}
				}
				if err := a.sc.Tasks().FilterByDateRange(ctx, start, end); err != nil {
					return fmt.Errorf("failed to load tasks: %w", err)
				}

				tasks := a.sc.Tasks().Tasks()
				if owner != "" {
					kept := tasks[:0]
					for _, t := range tasks {
						if t.UserEmail == owner {
							kept = append(kept, t)
						}
					}
					tasks = kept
				}
				return p.tasks(tasks)
			})
		},
	}
	scope.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "Range start (ISO-8601)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (ISO-8601)")
	return cmd
}

func newTaskAddCmd(opts *rootOptions) *cobra.Command {
	var (
		owner string
		task  model.Task
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Example: `  uptodo task add Buy milk --due 2024-05-01T09:00:00Z --priority 2
  uptodo task add "Call the bank" --category c1 -d "about the card"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}

			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				t := task
				t.Title = strings.Join(args, " ")
				if t.UserEmail, err = a.owner(ctx, owner); err != nil {
					return err
				}

				created, err := a.sc.Tasks().Create(ctx, t)
				if err != nil {
					return fmt.Errorf("failed to create task: %w", err)
				}
				return p.message(fmt.Sprintf("Created task %s: %s", created.ID, created.Title), created)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Owner e-mail (default: the configured or signed-in user)")
	cmd.Flags().StringVarP(&task.Description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&task.Time, "due", "", "Due time (ISO-8601)")
	cmd.Flags().StringVar(&task.CategoryID, "category", "", "Category ID")
	cmd.Flags().StringVarP(&task.Priority, "priority", "p", "", "Priority from 0 to 10")
	return cmd
}

func newTaskEditCmd(opts *rootOptions) *cobra.Command {
	var title, description, due, category, priority string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long: `Change fields of a task. Only the flags given are sent; pass an empty value
to clear a field, e.g. --due "".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			patch := model.TaskPatch{}
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("due") {
				patch.Time = &due
			}
			if flags.Changed("category") {
				patch.CategoryID = &category
			}
			if flags.Changed("priority") {
				patch.Priority = &priority
			}

			p, err := newPrinter(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}

			id := args[0]
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if err := a.sc.Tasks().Update(ctx, id, patch); err != nil {
					return fmt.Errorf("failed to update task: %w", err)
				}
				return p.message(fmt.Sprintf("Updated task %s", id), map[string]any{
					"id":      id,
					"changed": patch.Fields(),
				})
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&due, "due", "", "New due time (ISO-8601)")
	cmd.Flags().StringVar(&category, "category", "", "New category ID")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority from 0 to 10")
	return cmd
}

func newTaskCompletionCmd(opts *rootOptions, use, short string, completed bool) *cobra.Command {
	state := "not completed"
	if completed {
		state = "completed"
	}

	return &cobra.Command{
		Use:   use + " <id> [id...]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskBatch(cmd, opts, args, func(ctx context.Context, a *app, id string) (string, error) {
				if err := a.sc.Tasks().SetCompleted(ctx, id, completed); err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %s marked %s", id, state), nil
			})
		},
	}
}

func newTaskRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id> [id...]",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskBatch(cmd, opts, args, func(ctx context.Context, a *app, id string) (string, error) {
				if err := a.sc.Tasks().Remove(ctx, id); err != nil {
					return "", err
				}
				return fmt.Sprintf("Task %s deleted", id), nil
			})
		},
	}
}

// runTaskBatch applies fn to every id, prints the outcomes and fails when
// any id failed.
func runTaskBatch(cmd *cobra.Command, opts *rootOptions, ids []string, fn func(ctx context.Context, a *app, id string) (string, error)) error {
	p, err := newPrinter(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return err
	}

	return opts.withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		results := batch.Process(ctx, ids, func(ctx context.Context, id string) (string, error) {
			return fn(ctx, a, id)
		})
		if err := p.results(results); err != nil {
			return err
		}

		summary := batch.Summarize(results)
		if failed := summary.Failed + summary.Skipped; failed > 0 {
			return fmt.Errorf("%d of %d task(s) failed", failed, summary.Total)
		}
		return nil
	})
}

// owner returns override when set and otherwise the session's owner.
func (a *app) owner(ctx context.Context, override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return override, nil
	}
	owner, err := a.sc.OwnerID(ctx)
	if err != nil {
		return "", fmt.Errorf("no owner: pass --owner, set 'owner' in the config or run 'uptodo auth url' (%w)", err)
	}
	return owner, nil
}

func parseTimeFlag(name, value string, parse func(string) (time.Time, error)) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: want an ISO-8601 time such as 2024-05-01T09:00:00Z", name, value)
	}
	return t, nil
}
