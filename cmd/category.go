package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
)

func newCategoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "List and create task categories",
	}
	cmd.AddCommand(newCategoryListCmd(opts))
	cmd.AddCommand(newCategoryAddCmd(opts))
	return cmd
}

func newCategoryListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				if err := a.sc.Categories().LoadAll(ctx); err != nil {
					return fmt.Errorf("failed to load categories: %w", err)
				}
				return p.categories(a.sc.Categories().Categories())
			})
		},
	}
}

func newCategoryAddCmd(opts *rootOptions) *cobra.Command {
	var color, icon string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a category",
		Long: fmt.Sprintf(`Create a category. --color takes a #RGB or #RRGGBB value; the palette
offered by the app is:
  %s`, strings.Join(model.DefaultCategoryColors, " ")),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd.OutOrStdout(), opts.output)
			if err != nil {
				return err
			}
			c := model.Category{Title: strings.Join(args, " "), Color: color, Icon: icon}

			return opts.withApp(cmd.Context(), func(ctx context.Context, a *app) error {
				created, err := a.sc.Categories().Create(ctx, c)
				if err != nil {
					return fmt.Errorf("failed to create category: %w", err)
				}
				return p.message(fmt.Sprintf("Created category %s: %s", created.ID, created.Title), created)
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", model.DefaultCategoryColors[0], "Hex color")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon name")
	return cmd
}
