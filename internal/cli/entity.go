package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/buxgalter/internal/render"
	"github.com/mesh-intelligence/buxgalter/internal/workspace"
	"github.com/mesh-intelligence/buxgalter/pkg/tableview"
	"github.com/mesh-intelligence/buxgalter/pkg/types"
)

// addField is an "add" flag that sets one record field.
type addField struct {
	flag  string
	key   string
	usage string
}

// entityDef describes the CLI surface of one table.
type entityDef[T types.Mutable[T]] struct {
	name       string
	short      string
	columns    []render.Column
	searchKeys []string
	addFields  []addField
	collection func(*workspace.Workspace) *workspace.Collection[T]
	// draft returns the defaults for a new record given the loaded rows.
	draft func(a *app, existing []T) T
}

func entityCmd[T types.Mutable[T]](a *app, def entityDef[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.name,
		Short: def.short,
	}
	cmd.AddCommand(listCmd(a, def))
	cmd.AddCommand(addCmd(a, def))
	cmd.AddCommand(updateCmd(a, def))
	cmd.AddCommand(deleteCmd(a, def))
	return cmd
}

type listOptions struct {
	search   string
	filters  []string
	sort     string
	desc     bool
	page     int
	pageSize int
	csv      bool
}

func listCmd[T types.Mutable[T]](a *app, def entityDef[T]) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + def.name + " with search, filters, sorting and paging",
		Example: fmt.Sprintf("  buxgalter %s list --search baraka\n  buxgalter %s list --filter %s --sort %s --desc --page 2",
			def.name, def.name, exampleFilter(def), def.columns[len(def.columns)-1].Key),
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(a, cmd, def, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "s", "", "case-insensitive substring match on "+strings.Join(def.searchKeys, ", "))
	f.StringArrayVarP(&opts.filters, "filter", "f", nil, "exact key=value match, repeatable (value \"all\" disables)")
	f.StringVar(&opts.sort, "sort", "", "field to sort by")
	f.BoolVar(&opts.desc, "desc", false, "sort descending")
	f.IntVarP(&opts.page, "page", "p", 1, "page number, clamped to the last page")
	f.IntVar(&opts.pageSize, "page-size", 0, "rows per page (default: page_size from config)")
	f.BoolVar(&opts.csv, "csv", false, "output the page as CSV")
	return cmd
}

func exampleFilter[T types.Mutable[T]](def entityDef[T]) string {
	var zero T
	if _, ok := zero.Field("status"); ok {
		return "status=paid"
	}
	return def.searchKeys[0] + "=..."
}

func runList[T types.Mutable[T]](a *app, cmd *cobra.Command, def entityDef[T], opts listOptions) error {
	filters, err := parseAssignments(opts.filters)
	if err != nil {
		return err
	}
	for key := range filters {
		if err := checkField[T](key); err != nil {
			return err
		}
	}
	viewOpts := []tableview.Option{tableview.WithLocale(a.locale()), tableview.WithFilters(filters)}
	if opts.sort != "" {
		if err := checkField[T](opts.sort); err != nil {
			return err
		}
		order := tableview.Asc
		if opts.desc {
			order = tableview.Desc
		}
		viewOpts = append(viewOpts, tableview.WithSort(opts.sort, order))
	}
	pageSize := opts.pageSize
	if pageSize == 0 {
		pageSize = a.settings.store.PageSize
	}
	view, err := tableview.NewView[T](pageSize, def.searchKeys, viewOpts...)
	if err != nil {
		return userError(err)
	}
	view.SetSearch(opts.search)
	view.SetPage(opts.page)

	ws, done, err := a.openWorkspace()
	if err != nil {
		return err
	}
	defer done()
	items, err := def.collection(ws).Load(a.context(cmd))
	if err != nil {
		return err
	}

	res := view.Compute(items)
	p := a.printer()
	switch {
	case a.flags.jsonMode:
		return p.JSON(res)
	case opts.csv:
		return p.CSV(def.columns, render.Records(res.Rows))
	}
	if err := p.Table(def.columns, render.Records(res.Rows)); err != nil {
		return err
	}
	return p.Footer(res.Page, res.TotalPages, res.TotalItems)
}

func addCmd[T types.Mutable[T]](a *app, def entityDef[T]) *cobra.Command {
	values := make(map[string]*string, len(def.addFields))
	cmd := &cobra.Command{
		Use:   "add [key=value...]",
		Short: "Add a record to " + def.name,
		RunE: func(cmd *cobra.Command, kv []string) error {
			patch, err := parsePatch(kv)
			if err != nil {
				return err
			}
			for _, f := range def.addFields {
				if cmd.Flags().Changed(f.flag) {
					patch[f.key] = *values[f.flag]
				}
			}

			ws, done, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer done()
			coll := def.collection(ws)
			existing, err := coll.Load(a.context(cmd))
			if err != nil {
				return err
			}
			draft, err := def.draft(a, existing).Apply(patch)
			if err != nil {
				return userError(err)
			}
			item, err := coll.Add(a.context(cmd), draft)
			if err != nil {
				return err
			}
			return printRecord(a, def, item, "added")
		},
	}
	for _, f := range def.addFields {
		values[f.flag] = cmd.Flags().String(f.flag, "", f.usage)
	}
	return cmd
}

func updateCmd[T types.Mutable[T]](a *app, def entityDef[T]) *cobra.Command {
	return &cobra.Command{
		Use:     "update <id> key=value...",
		Short:   "Update fields of a record in " + def.name,
		Example: fmt.Sprintf("  buxgalter %s update 0192f1c4-... %s=...", def.name, def.searchKeys[0]),
		Args:    args(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			patch, err := parsePatch(argv[1:])
			if err != nil {
				return err
			}
			ws, done, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer done()
			coll := def.collection(ws)
			if _, err := coll.Load(a.context(cmd)); err != nil {
				return err
			}
			item, err := coll.Update(a.context(cmd), argv[0], patch)
			if err != nil {
				return err
			}
			return printRecord(a, def, item, "updated")
		},
	}
}

func deleteCmd[T types.Mutable[T]](a *app, def entityDef[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record from " + def.name,
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			ws, done, err := a.openWorkspace()
			if err != nil {
				return err
			}
			defer done()
			coll := def.collection(ws)
			if _, err := coll.Load(a.context(cmd)); err != nil {
				return err
			}
			if err := coll.Remove(a.context(cmd), argv[0]); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return a.printer().JSON(map[string]string{"deleted": argv[0]})
			}
			return a.printer().Line("deleted %s", argv[0])
		},
	}
}

func printRecord[T types.Mutable[T]](a *app, def entityDef[T], item T, verb string) error {
	p := a.printer()
	if a.flags.jsonMode {
		return p.JSON(item)
	}
	if err := p.Table(def.columns, []types.Record{item}); err != nil {
		return err
	}
	return p.Line("%s %s", verb, item.RecordID())
}

// parseAssignments splits key=value arguments.
func parseAssignments(kv []string) (map[string]string, error) {
	out := make(map[string]string, len(kv))
	for _, arg := range kv {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, userError(fmt.Errorf("invalid argument %q (expected key=value)", arg))
		}
		out[key] = value
	}
	return out, nil
}

func parsePatch(kv []string) (types.Patch, error) {
	m, err := parseAssignments(kv)
	if err != nil {
		return nil, err
	}
	patch := make(types.Patch, len(m))
	for k, v := range m {
		patch[k] = v
	}
	return patch, nil
}

// checkField rejects keys the record type does not expose.
func checkField[T types.Record](key string) error {
	var zero T
	if _, ok := zero.Field(key); !ok {
		return userError(fmt.Errorf("field %q: %w", key, types.ErrUnknownField))
	}
	return nil
}

// nextNumber returns prefix followed by one more than the highest numeric
// suffix among numbers, zero-padded to width.
func nextNumber(prefix string, width int, numbers []string) string {
	highest := 0
	for _, n := range numbers {
		if rest, ok := strings.CutPrefix(n, prefix); ok {
			if v, err := strconv.Atoi(rest); err == nil && v > highest {
				highest = v
			}
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, highest+1)
}
