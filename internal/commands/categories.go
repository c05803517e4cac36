package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

func newCategoriesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(
		newCategoriesListCommand(a),
		newCategoriesCreateCommand(a),
		newCategoriesUpdateCommand(a),
		newCategoriesDeleteCommand(a),
	)
	return cmd
}

func newCategoriesListCommand(a *app) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show categories as a tree",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			cats, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printed := 0
			for _, root := range model.CategoryTree(cats) {
				if kind != "" && string(root.Kind) != kind {
					continue
				}
				printed += printCategory(out, root, 0)
			}
			if printed == 0 {
				fmt.Fprintln(out, "No categories")
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only trees whose root has this kind")
	return cmd
}

func printCategory(w io.Writer, n *model.CategoryNode, depth int) int {
	fmt.Fprintf(w, "%s%s [%s] #%d\n", strings.Repeat("  ", depth), n.Name, n.Kind.Label(), n.ID)
	count := 1
	for _, child := range n.Children {
		count += printCategory(w, child, depth+1)
	}
	return count
}

type categoryFlags struct {
	name   string
	kind   string
	parent int64
}

func (f *categoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "category name")
	cmd.Flags().StringVar(&f.kind, "kind", string(model.CategoryKindExpense), "category kind (income, expense, transfer, investment)")
	cmd.Flags().Int64Var(&f.parent, "parent", 0, "parent category id (0 for a root)")
}

func (f *categoryFlags) apply(cmd *cobra.Command, in *model.CategoryInput) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = f.name
	}
	if flags.Changed("kind") {
		in.Kind = model.CategoryKind(f.kind)
	}
	if flags.Changed("parent") {
		in.ParentID = optionalID(f.parent)
	}
	if !in.Kind.Known() {
		return fmt.Errorf("--kind: unknown category kind %q", in.Kind)
	}
	return nil
}

func newCategoriesCreateCommand(a *app) *cobra.Command {
	var f categoryFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			in := model.CategoryInput{Name: f.name, Kind: model.CategoryKind(f.kind), ParentID: optionalID(f.parent)}
			if err := f.apply(cmd, &in); err != nil {
				return err
			}
			cat, err := a.client.CreateCategory(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %d (%s)\n", cat.ID, cat.Name)
			return nil
		}),
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesUpdateCommand(a *app) *cobra.Command {
	var f categoryFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename, re-kind or move a category",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cats, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			var in *model.CategoryInput
			for _, c := range cats {
				if c.ID == id {
					in = &model.CategoryInput{Name: c.Name, Kind: c.Kind, ParentID: c.ParentID}
					break
				}
			}
			if in == nil {
				return fmt.Errorf("category %d not found", id)
			}
			if err := f.apply(cmd, in); err != nil {
				return err
			}
			if in.ParentID != nil && *in.ParentID == id {
				return fmt.Errorf("category %d cannot be its own parent", id)
			}

			cat, err := a.client.UpdateCategory(cmd.Context(), id, *in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated category %d (%s)\n", id, cat.Name)
			return nil
		}),
	}

	f.register(cmd)
	return cmd
}

func newCategoriesDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteCategory(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %d\n", id)
			return nil
		}),
	}
}
