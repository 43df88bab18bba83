package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"freightflow/internal/infrastructure/reliability/backoff"
	"freightflow/internal/infrastructure/sandbox"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "sandboxctl",
		Short:        "Inspect the deterministic carrier sandbox",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newProfilesCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newBackoffCommand())
	rootCmd.AddCommand(newFaultsCommand())

	return rootCmd
}

func newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List sandbox profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeProfiles(cmd.OutOrStdout())
		},
	}
}

func writeProfiles(out io.Writer) error {
	table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "PROFILE\tLATENCY\tJITTER\tRPM\tBURST\tLAG\tDROP\tDUPLICATE\tREORDER")
	for _, name := range sandbox.ProfileNames() {
		profile := sandbox.ResolveProfile(name)
		fmt.Fprintf(
			table,
			"%s\t%s\t%s\t%g\t%g\t%s\t%g\t%g\t%g\n",
			profile.Name,
			profile.Latency.Base,
			profile.Latency.Jitter,
			profile.RateLimit.RequestsPerMinute,
			profile.RateLimit.Burst,
			profile.ConsistencyLag,
			profile.WebhookChaos.DropRate,
			profile.WebhookChaos.DuplicateRate,
			profile.WebhookChaos.ReorderRate,
		)
	}
	return table.Flush()
}

type planOptions struct {
	seed          int64
	profile       string
	events        int
	duplicateMode string
	chaos         bool
}

func newPlanCommand() *cobra.Command {
	opts := planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the webhook chaos plan for a seed and profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writePlan(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().Int64Var(&opts.seed, "seed", sandbox.DefaultSeed, "sandbox seed")
	cmd.Flags().StringVar(&opts.profile, "profile", sandbox.DefaultProfileName, "sandbox profile")
	cmd.Flags().IntVarP(&opts.events, "events", "n", 10, "number of events to plan")
	cmd.Flags().StringVar(&opts.duplicateMode, "duplicate-mode", string(sandbox.DuplicateModeMixed), "sameEventId, newEventId or mixed")
	cmd.Flags().BoolVar(&opts.chaos, "chaos", true, "apply webhook chaos")

	return cmd
}

func writePlan(out io.Writer, opts planOptions) error {
	if !sandbox.IsKnownProfile(opts.profile) {
		return fmt.Errorf("unknown profile %q", opts.profile)
	}
	if opts.events < 1 {
		return fmt.Errorf("events must be greater than zero")
	}

	events := make([]string, 0, opts.events)
	for i := 1; i <= opts.events; i++ {
		events = append(events, fmt.Sprintf("evt-%d", i))
	}

	plan := sandbox.BuildEventPlan(events, sandbox.PlanOptions{
		Rng:           sandbox.NewSeededRng(opts.seed + sandbox.WebhookSeedOffset),
		DuplicateMode: sandbox.ParseDuplicateMode(opts.duplicateMode),
		ChaosEnabled:  opts.chaos,
		Profile:       sandbox.ResolveProfile(opts.profile),
	})

	table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "POSITION\tEVENT\tDROP\tDUPLICATE\tNEW_EVENT_ID")
	for position, entry := range plan {
		fmt.Fprintf(
			table,
			"%d\t%s\t%t\t%t\t%t\n",
			position+1,
			entry.Event,
			entry.Drop,
			entry.Duplicate,
			entry.DuplicateWithNewEventID,
		)
	}
	return table.Flush()
}

type backoffOptions struct {
	attempts int
	base     time.Duration
	max      time.Duration
	jitter   string
	seed     int64
}

func newBackoffCommand() *cobra.Command {
	opts := backoffOptions{}

	cmd := &cobra.Command{
		Use:   "backoff",
		Short: "Print a backoff schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeBackoff(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.attempts, "attempts", "n", 5, "number of attempts")
	cmd.Flags().DurationVar(&opts.base, "base", time.Second, "base delay")
	cmd.Flags().DurationVar(&opts.max, "max", backoff.DefaultMaxDelay, "maximum delay")
	cmd.Flags().StringVar(&opts.jitter, "jitter", string(backoff.JitterEqual), "none, full or equal")
	cmd.Flags().Int64Var(&opts.seed, "seed", sandbox.DefaultSeed, "seed for the jitter sequence")

	return cmd
}

func writeBackoff(out io.Writer, opts backoffOptions) error {
	if opts.attempts < 1 {
		return fmt.Errorf("attempts must be greater than zero")
	}
	jitter := backoff.Jitter(opts.jitter)
	switch jitter {
	case backoff.JitterNone, backoff.JitterFull, backoff.JitterEqual:
	default:
		return fmt.Errorf("unknown jitter %q", opts.jitter)
	}

	rng := sandbox.NewSeededRng(opts.seed)
	backoffOpts := backoff.Options{
		BaseDelay: opts.base,
		MaxDelay:  opts.max,
		Jitter:    jitter,
		Random:    rng.Next,
	}

	table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "ATTEMPT\tDELAY")
	for attempt := 1; attempt <= opts.attempts; attempt++ {
		fmt.Fprintf(table, "%d\t%s\n", attempt, backoff.Delay(attempt, backoffOpts))
	}
	return table.Flush()
}

type faultsOptions struct {
	profile   string
	operation string
	samples   int
	seed      int64
}

func newFaultsCommand() *cobra.Command {
	opts := faultsOptions{}

	cmd := &cobra.Command{
		Use:   "faults",
		Short: "Sample the fault table of a profile operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeFaults(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.profile, "profile", sandbox.DefaultProfileName, "sandbox profile")
	cmd.Flags().StringVar(&opts.operation, "operation", string(sandbox.OperationQuote), "quote, shipment, label, tracking or webhook")
	cmd.Flags().IntVarP(&opts.samples, "samples", "n", 10000, "number of draws")
	cmd.Flags().Int64Var(&opts.seed, "seed", sandbox.DefaultSeed, "sandbox seed")

	return cmd
}

func writeFaults(out io.Writer, opts faultsOptions) error {
	if !sandbox.IsKnownProfile(opts.profile) {
		return fmt.Errorf("unknown profile %q", opts.profile)
	}
	operation := sandbox.Operation(opts.operation)
	switch operation {
	case sandbox.OperationQuote, sandbox.OperationShipment, sandbox.OperationLabel, sandbox.OperationTracking, sandbox.OperationWebhook:
	default:
		return fmt.Errorf("unknown operation %q", opts.operation)
	}
	if opts.samples < 1 {
		return fmt.Errorf("samples must be greater than zero")
	}

	rates := sandbox.ResolveProfile(opts.profile).Rates(operation)
	rng := sandbox.NewSeededRng(opts.seed)
	counts := map[sandbox.FaultKind]int{}
	for i := 0; i < opts.samples; i++ {
		counts[sandbox.PickFaultKind(rng.Next(), rates)]++
	}

	kinds := make([]sandbox.FaultKind, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if counts[kinds[i]] != counts[kinds[j]] {
			return counts[kinds[i]] > counts[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})

	table := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "FAULT\tCOUNT\tSHARE\tTRANSIENT")
	for _, kind := range kinds {
		fmt.Fprintf(
			table,
			"%s\t%d\t%.4f\t%t\n",
			kind,
			counts[kind],
			float64(counts[kind])/float64(opts.samples),
			sandbox.IsTransientFault(kind),
		)
	}
	return table.Flush()
}
