package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/analysis"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/comments"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/config"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/export"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/loader"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/session"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/ui"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/watcher"
)

const version = "0.3.0"

func main() {
	input := flag.String("input", "", "Work-order export CSV to analyze")
	configPath := flag.String("config", "rdm.yaml", "Configuration file")
	exportDir := flag.String("export", "", "Export directory (overrides config)")
	watch := flag.Bool("watch", false, "Re-analyze when the input file changes")
	reportMode := flag.Bool("report", false, "Print a plain report and write the export bundle, no TUI")
	hashPassword := flag.String("hash-password", "", "Print a bcrypt hash for the credentials list and exit")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Println("rdm version " + version)
		return
	}

	if *hashPassword != "" {
		hash, err := session.HashPassword(*hashPassword)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Println(hash)
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: rdm -input workorders.csv [options]")
		fmt.Fprintln(os.Stderr, "\nFlags recurring aircraft defects that were not effectively resolved.")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("%v", err)
	}
	if *exportDir != "" {
		cfg.ExportDir = *exportDir
	}

	res, err := loader.LoadFile(*input)
	if err != nil {
		fatalf("%v", err)
	}
	for _, rowErr := range res.RowErrors {
		log.Printf("warning: %s", rowErr)
	}
	if len(res.Records) == 0 {
		fatalf("no analyzable work orders in %s", *input)
	}

	store, err := comments.Open(cfg.CommentDBPath)
	if err != nil {
		fatalf("%v", err)
	}
	defer store.Close()

	if *reportMode || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runReport(res, cfg, store); err != nil {
			fatalf("%v", err)
		}
		return
	}

	m, err := ui.NewModel(ui.Deps{
		Records:   res.Records,
		RowErrors: res.RowErrors,
		Store:     store,
		Auth:      session.NewAuthenticator(cfg),
		Analysis:  cfg.AnalysisConfig(),
		ExportDir: cfg.ExportDir,
	})
	if err != nil {
		fatalf("%v", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	if *watch {
		w, err := watcher.Watch(*input, watcher.DefaultDebounce, func() {
			reloaded, err := loader.LoadFile(*input)
			if err != nil {
				log.Printf("warning: reload failed: %v", err)
				return
			}
			p.Send(ui.ReloadMsg{Result: reloaded})
		})
		if err != nil {
			log.Printf("warning: watch disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fatalf("dashboard error: %v", err)
	}
}

// runReport is the non-interactive path: print a summary, write the
// bundle.
func runReport(res *loader.Result, cfg *config.Config, store *comments.Store) error {
	report, err := analysis.Analyze(res.Records, cfg.AnalysisConfig())
	if err != nil {
		return err
	}

	stored, err := store.All()
	if err != nil {
		return err
	}
	if err := export.WriteBundle(cfg.ExportDir, report, stored); err != nil {
		return err
	}

	flags := report.RedFlags()
	fmt.Printf("Analyzed %d work orders in %d defect groups, %d recurring (%d unparsable rows, %d scheduled excluded)\n",
		report.TotalWorkOrders(), len(report.Groups), report.RecurringCount(), len(res.RowErrors), report.ExcludedScheduled)
	fmt.Printf("Red flags: %d\n\n", len(flags))

	for i := range flags {
		g := &flags[i]
		fmt.Printf("  %s  ATA %-6s  x%-2d  %s\n", g.Aircraft, g.ATA, g.RepeatCount(), g.Conclusion.Label())
		if c, ok := stored[g.Key]; ok && c.Text != "" {
			fmt.Printf("      note (%s): %s\n", c.Author, analysis.FirstSentence(c.Text))
		}
	}
	if len(flags) > 0 {
		fmt.Println()
	}
	fmt.Printf("Export written to %s\n", cfg.ExportDir)
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "rdm: "+format+"\n", args...)
	os.Exit(1)
}
