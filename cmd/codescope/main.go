package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"codescope/internal/config"
	"codescope/internal/report"
	"codescope/internal/session"
	"codescope/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:   "codescope",
		Short: "Symbol indexing and call-graph analysis for source trees",
	}
	cfgPath    string
	dbPath     string
	maxDepth   int
	direction  string
	reportPath string
	typeSearch bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "codescope.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the SQLite index database (defaults to config)")

	scanCmd.Flags().StringVar(&reportPath, "report", "", "Write a schema-validated JSON report to this path")
	searchCmd.Flags().BoolVar(&typeSearch, "types", false, "Search type/struct/class names instead of functions")
	traceCmd.Flags().IntVar(&maxDepth, "depth", -1, "Maximum trace depth (negative = configured default)")
	pathCmd.Flags().IntVar(&maxDepth, "depth", -1, "Maximum path length (negative = configured default)")
	flowchartCmd.Flags().IntVar(&maxDepth, "depth", -1, "Maximum trace depth (negative = configured default)")
	flowchartCmd.Flags().StringVar(&direction, "direction", "", "Diagram direction (TD or LR)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(conceptCmd)
	rootCmd.AddCommand(complexityCmd)
	rootCmd.AddCommand(flowchartCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", cfgPath, err)
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	return cfg
}

// openSession builds an indexed session for root: loaded from the SQLite
// database when one exists, otherwise scanned and indexed in memory.
func openSession(root string, cfg *config.Config) *session.Session {
	if _, err := os.Stat(cfg.Storage.DBPath); err == nil {
		store, err := storage.NewStore(cfg.Storage.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database %s: %v", cfg.Storage.DBPath, err)
		}
		defer store.Close()

		idx, err := store.LoadIndex(context.Background(), root, cfg.Scan.IgnorePatterns)
		if err != nil {
			log.Fatalf("Failed to load index: %v", err)
		}
		if len(idx.Files()) > 0 {
			return session.FromIndex(idx, cfg)
		}
	}

	sess := session.New(root, cfg)
	if scan := sess.Scan(nil); scan.Error != "" {
		log.Fatalf("Scan failed: %s", scan.Error)
	}
	sess.IndexAll()
	return sess
}

func printJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(b))
}

func argOrDot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan and index a repository, persisting the symbol index",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := argOrDot(args)
		cfg := loadConfig()

		sess := session.New(root, cfg)
		scanResult := sess.Scan(nil)
		if scanResult.Error != "" {
			log.Fatalf("Scan failed: %s", scanResult.Error)
		}
		fmt.Printf("Scanned %d files\n", scanResult.TotalFiles)

		indexResult := sess.IndexAll()
		fmt.Printf("Indexed %d files (%d errors): %d functions, %d types\n",
			indexResult.Indexed, indexResult.Errors,
			indexResult.TotalFunctions, indexResult.TotalTypes)

		store, err := storage.NewStore(cfg.Storage.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database %s: %v", cfg.Storage.DBPath, err)
		}
		defer store.Close()
		if err := store.SaveIndex(context.Background(), sess.Index()); err != nil {
			log.Fatalf("Failed to save index: %v", err)
		}
		fmt.Printf("Saved index to %s\n", cfg.Storage.DBPath)

		if reportPath != "" {
			if err := report.Save(reportPath, report.New(root, scanResult, indexResult)); err != nil {
				log.Fatalf("Failed to write report: %v", err)
			}
			fmt.Printf("Wrote report to %s\n", reportPath)
		}
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword> [path]",
	Short: "Search indexed function or type names by substring",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		sess := openSession(argOrDot(args[1:]), cfg)

		if typeSearch {
			printJSON(sess.SearchTypes(args[0]))
			return
		}
		printJSON(sess.SearchFunctions(args[0]))
	},
}

var traceCmd = &cobra.Command{
	Use:   "trace <function> [path]",
	Short: "Build a depth-limited call tree for a function",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		sess := openSession(argOrDot(args[1:]), cfg)
		printJSON(sess.TraceFunctionFlow(args[0], maxDepth))
	},
}

var pathCmd = &cobra.Command{
	Use:   "path <from> <to> [path]",
	Short: "Find call paths between two functions",
	Args:  cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		sess := openSession(argOrDot(args[2:]), cfg)
		printJSON(sess.FindCallPath(args[0], args[1], maxDepth))
	},
}

var complexityCmd = &cobra.Command{
	Use:   "complexity <function> [path]",
	Short: "Compute approximate complexity metrics for a function",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		sess := openSession(argOrDot(args[1:]), cfg)
		printJSON(sess.FunctionComplexity(args[0]))
	},
}

var conceptCmd = &cobra.Command{
	Use:   "concept <name> <keywords> [path]",
	Short: "Collect functions related to a concept by keyword, with snippets",
	Long: `Collect functions related to a concept by keyword, with snippets.

Keywords are comma-separated:

  codescope concept "memory allocation" malloc,alloc,kmalloc .`,
	Args: cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		sess := openSession(argOrDot(args[2:]), cfg)

		var keywords []string
		for _, k := range strings.Split(args[1], ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		printJSON(sess.AnalyzeConcept(args[0], keywords))
	},
}

var flowchartCmd = &cobra.Command{
	Use:   "flowchart <tree|path|deps> [args...] ",
	Short: "Render analysis results as a Mermaid diagram",
	Long: `Render analysis results as a Mermaid diagram.

  flowchart tree <function> [path]   call tree of a function
  flowchart path <from> <to> [path]  call paths between two functions
  flowchart deps [path]              file dependency graph from imports`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		var result session.FlowchartResult
		switch args[0] {
		case "tree":
			if len(args) < 2 {
				log.Fatal("flowchart tree requires a function name")
			}
			sess := openSession(argOrDot(args[2:]), cfg)
			result = sess.CallTreeFlowchart(args[1], maxDepth, direction)
		case "path":
			if len(args) < 3 {
				log.Fatal("flowchart path requires <from> and <to>")
			}
			sess := openSession(argOrDot(args[3:]), cfg)
			result = sess.CallPathFlowchart(args[1], args[2], maxDepth, direction)
		case "deps":
			sess := openSession(argOrDot(args[1:]), cfg)
			result = sess.DependencyFlowchart(direction)
		default:
			log.Fatalf("unknown flowchart kind: %s", args[0])
		}

		if result.Error != "" {
			log.Fatalf("Flowchart failed: %s", result.Error)
		}
		fmt.Println(result.Mermaid)
	},
}
