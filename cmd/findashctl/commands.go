package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/google/subcommands"

	"findash/internal/core"
	"findash/internal/services"
	"findash/internal/snapshot"
)

var commands = []subcommands.Command{
	&getCmd{variant: variantFinance},
	&saveCmd{variant: variantFinance},
	&updateCmd{variant: variantFinance},
	&resetCmd{variant: variantFinance},
	&clearCmd{variant: variantFinance},
	&editCmd{},
	&summaryCmd{},
	&violationsCmd{},
}

// run opens the environment, calls fn and maps its error to an exit status.
func run(ctx context.Context, fn func(*env) error) subcommands.ExitStatus {
	e, err := openEnv(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	if err := fn(e); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type getCmd struct {
	variant variant
	path    string
}

func (*getCmd) Name() string     { return "get" }
func (*getCmd) Synopsis() string { return "print the stored snapshot" }
func (*getCmd) Usage() string {
	return `get [-variant finance|dashboard] [-path <jsonpath>]

  Prints the snapshot as JSON, seeding the defaults when none is stored.
  -path selects part of it, e.g. "$.balance.amount" or "$.goals.items[*].name".
`
}

func (c *getCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.variant, "variant", "record to read: finance or dashboard")
	f.StringVar(&c.path, "path", "", "JSONPath expression applied to the snapshot")
}

func (c *getCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(e *env) error {
		var (
			record any
			err    error
		)
		switch c.variant {
		case variantDashboard:
			record, err = e.stores.Dashboard.Get(ctx)
		default:
			record, err = e.stores.Finance.Get(ctx)
		}
		if err != nil {
			return err
		}
		v, err := query(ctx, record, c.path)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, v)
	})
}

type saveCmd struct {
	variant variant
	file    string
}

func (*saveCmd) Name() string     { return "save" }
func (*saveCmd) Synopsis() string { return "replace the stored snapshot with a JSON file" }
func (*saveCmd) Usage() string {
	return `save [-variant finance|dashboard] -f <file|->

  Replaces the whole snapshot. Unknown keys in the file are rejected.
`
}

func (c *saveCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.variant, "variant", "record to write: finance or dashboard")
	f.StringVar(&c.file, "f", "", "JSON file to save, - for stdin (required)")
}

func (c *saveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	data, err := readInput(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(e *env) error {
		if c.variant == variantDashboard {
			return saveRecord(ctx, e.stores.Dashboard, data)
		}
		return saveRecord(ctx, e.stores.Finance, data)
	})
}

func saveRecord[T any](ctx context.Context, store *snapshot.Store[T], data []byte) error {
	var v T
	if err := decodeStrict(data, &v); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	return store.Save(ctx, v)
}

type updateCmd struct {
	variant variant
	file    string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "merge a partial JSON object into the stored snapshot" }
func (*updateCmd) Usage() string {
	return `update [-variant finance|dashboard] -f <file|->

  Each top-level key in the file replaces the stored section wholesale.
  Sections not in the file are left untouched. Prints the merged snapshot.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.variant, "variant", "record to update: finance or dashboard")
	f.StringVar(&c.file, "f", "", "JSON file with the partial record, - for stdin (required)")
}

func (c *updateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	data, err := readInput(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(e *env) error {
		if c.variant == variantDashboard {
			return updateRecord[core.DashboardData, core.DashboardPatch](ctx, e.stores.Dashboard, data)
		}
		return updateRecord[core.FinanceData, core.FinancePatch](ctx, e.stores.Finance, data)
	})
}

func updateRecord[T, P any](ctx context.Context, store *snapshot.Store[T], data []byte) error {
	var patch P
	if err := decodeStrict(data, &patch); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	v, err := store.Update(ctx, patch)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, v)
}

type resetCmd struct {
	variant variant
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "overwrite the stored snapshot with the defaults" }
func (*resetCmd) Usage() string {
	return `reset [-variant finance|dashboard]
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.variant, "variant", "record to reset: finance or dashboard")
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(e *env) error {
		var err error
		if c.variant == variantDashboard {
			_, err = e.stores.Dashboard.Reset(ctx)
		} else {
			_, err = e.stores.Finance.Reset(ctx)
		}
		return err
	})
}

type clearCmd struct {
	variant variant
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "remove the stored snapshot" }
func (*clearCmd) Usage() string {
	return `clear [-variant finance|dashboard]

  Deletes the stored blob. The next read seeds the defaults again.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.variant, "variant", "record to clear: finance or dashboard")
}

func (c *clearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(e *env) error {
		if c.variant == variantDashboard {
			return e.stores.Dashboard.Clear(ctx)
		}
		return e.stores.Finance.Clear(ctx)
	})
}

type editCmd struct{}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "apply settings form edits to the finance snapshot" }
func (*editCmd) Usage() string {
	return `edit <field>=<value> ...

  Applies every edit or none. Goal fields take an index:
    findashctl edit user.name=Ada payments.successful=70 'goals.name[1]=Savings'
`
}

func (*editCmd) SetFlags(*flag.FlagSet) {}

var editArg = regexp.MustCompile(`^([a-z.]+)(?:\[(\d+)\])?=(.*)$`)

// parseEdit parses field=value or field[index]=value.
func parseEdit(arg string) (services.Edit, error) {
	m := editArg.FindStringSubmatch(arg)
	if m == nil {
		return services.Edit{}, fmt.Errorf("malformed edit %q: want field=value", arg)
	}
	e := services.Edit{Field: services.Field(m[1]), Value: m[3]}
	if m[2] != "" {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return services.Edit{}, fmt.Errorf("malformed index in %q: %w", arg, err)
		}
		e.Index = idx
	}
	return e, nil
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one field=value edit is required.")
		return subcommands.ExitUsageError
	}
	edits := make([]services.Edit, 0, f.NArg())
	for _, arg := range f.Args() {
		e, err := parseEdit(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		edits = append(edits, e)
	}
	return run(ctx, func(e *env) error {
		_, err := services.NewSettingsService(e.stores.Finance, e.logger).ApplyEdits(ctx, edits)
		return err
	})
}

type summaryCmd struct {
	plain bool
	width int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "render the dashboard summary" }
func (*summaryCmd) Usage() string {
	return `summary [-plain] [-width <n>]

  Renders the finance snapshot as a terminal report. -plain prints markdown.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.plain, "plain", false, "print raw markdown")
	f.IntVar(&c.width, "width", 100, "word wrap width")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(e *env) error {
		s, err := services.NewDashboardService(e.stores.Finance).Summary(ctx)
		if err != nil {
			return err
		}
		md := summaryMarkdown(s)
		if c.plain {
			fmt.Print(md)
			return nil
		}
		out, err := renderMarkdown(md, c.width)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	})
}

type violationsCmd struct {
	strict bool
}

func (*violationsCmd) Name() string     { return "violations" }
func (*violationsCmd) Synopsis() string { return "list advisory invariant violations" }
func (*violationsCmd) Usage() string {
	return `violations [-strict]

  Lists broken soft invariants of the finance snapshot. With -strict the
  command fails when any is found.
`
}

func (c *violationsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.strict, "strict", false, "exit with failure when violations exist")
}

func (c *violationsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return run(ctx, func(e *env) error {
		v, err := services.NewDashboardService(e.stores.Finance).Violations(ctx)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			fmt.Println("no violations")
			return nil
		}
		for _, line := range v {
			fmt.Println(line)
		}
		if c.strict {
			return fmt.Errorf("%d violation(s)", len(v))
		}
		return nil
	})
}
