package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roivaz/docsplit/internal/config"
	"github.com/roivaz/docsplit/internal/logging"
	"github.com/roivaz/docsplit/internal/service"
)

var rootCmd = &cobra.Command{
	Use:          "docsplit",
	Short:        "Split documents into overlapping chunks",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
	},
}

var splittersCmd = &cobra.Command{
	Use:   "splitters",
	Short: "List the available splitter types and default parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		catalog := svc.Catalog()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(catalog)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tUNIT\tPARAMETERS\tDESCRIPTION")
		for _, k := range catalog.Kinds {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", k.Kind, k.Unit, strings.Join(k.Parameters, ","), k.Description)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		d := svc.Defaults()
		heading := color.New(color.Bold, color.FgCyan)
		heading.Printf("\ndefaults:")
		fmt.Printf(" splitter_type=%s chunk_size=%d chunk_overlap=%d\n", d.Kind, d.ChunkSize, d.ChunkOverlap)
		return nil
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the presets loaded from the presets file",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		presets := svc.Presets()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(presets)
		}
		if len(presets) == 0 {
			color.New(color.FgYellow).Fprintln(os.Stderr, "no presets loaded (set presets_file)")
			return nil
		}
		bold := color.New(color.Bold).SprintFunc()
		for _, name := range presets.Names() {
			p := presets[name]
			fmt.Printf("%s\t%s\n", bold(name), p.Description)
		}
		return nil
	},
}

func newService() (*service.Service, error) {
	base, err := logging.ForLevel(config.LogLevel())
	if err != nil {
		return nil, err
	}
	return config.Service(logging.New(base))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
	return ctx, cancel
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("presets-file", "", "YAML file with named splitter presets")
	pf.String("output-dir", "outputs", "Directory used by split --write")
	pf.Int("workers", 4, "Files split in parallel")
	pf.Bool("token-estimates", false, "Annotate chunks with model token estimates")
	pf.Int("max-chunk-size", 10000, "Largest accepted chunk_size")
	pf.Int("max-chunk-overlap", 1000, "Largest accepted chunk_overlap")
	pf.Bool("no-color", false, "Disable colored output")

	splittersCmd.Flags().Bool("json", false, "Print as JSON")
	presetsCmd.Flags().Bool("json", false, "Print as JSON")
	addSplitFlags(splitCmd.Flags())
	addParamFlags(documentsCmd.Flags())
	documentsCmd.Flags().BoolP("quiet", "q", false, "Do not print the summary")

	config.Init(rootCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(splittersCmd)
	rootCmd.AddCommand(presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("docsplit: %v", err)
	}
}
