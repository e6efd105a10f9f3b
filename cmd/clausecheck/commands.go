package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nmisra/clausecheck/internal/analyzer"
	"github.com/nmisra/clausecheck/internal/audit"
	"github.com/nmisra/clausecheck/internal/config"
	"github.com/nmisra/clausecheck/internal/llm"
	"github.com/nmisra/clausecheck/internal/refdata"
	"github.com/nmisra/clausecheck/internal/render"
	"github.com/nmisra/clausecheck/internal/schema"
)

// runAnalysis is the shared front half of analyze and ask: load config,
// load reference data, read the contract, run the pipeline.
func runAnalysis(path, hint, refPath string) (*config.Config, *schema.AnalysisResult, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if refPath == "" {
		refPath = cfg.RefData
	}
	ref, err := refdata.Load(refPath)
	if err != nil {
		return nil, nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read contract: %w", err)
	}
	res := analyzer.New(ref).Analyze(string(raw), schema.ContractType(hint))
	return cfg, &res, nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		hint     string
		refPath  string
		output   string
		auditLog bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <contract-file>",
		Short: "Analyze a contract: clauses, entities, risk, compliance, similarity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, res, err := runAnalysis(args[0], hint, refPath)
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Output
			}
			switch output {
			case "json":
				b, err := render.RenderJSON(res)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
			case "markdown", "md":
				fmt.Fprint(cmd.OutOrStdout(), render.RenderMarkdown(res))
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			if auditLog || cfg.Audit.Enabled {
				if err := writeAudit(cfg, res); err != nil {
					// The analysis already succeeded; a broken audit log
					// is worth a warning, not a failure.
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: audit log: %v\n", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hint, "type", "", "contract type hint (e.g. EMPLOYMENT_AGREEMENT)")
	cmd.Flags().StringVar(&refPath, "refdata", "", "path to a reference-data YAML file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: json or markdown")
	cmd.Flags().BoolVar(&auditLog, "audit", false, "record this run in the audit log")
	return cmd
}

func writeAudit(cfg *config.Config, res *schema.AnalysisResult) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Audit.Path), 0o755); err != nil {
		return err
	}
	logger, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		return err
	}
	defer logger.Close()
	_, err = logger.LogResult(res)
	return err
}

func newAskCmd() *cobra.Command {
	var (
		hint     string
		refPath  string
		provider string
		model    string
	)
	cmd := &cobra.Command{
		Use:   "ask <contract-file> <question>",
		Short: "Analyze a contract and ask an LLM a question about the findings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, res, err := runAnalysis(args[0], hint, refPath)
			if err != nil {
				return err
			}
			opts := llm.Options{
				Provider:    cfg.LLM.Provider,
				Model:       cfg.LLM.Model,
				MaxTokens:   cfg.LLM.MaxTokens,
				Temperature: cfg.LLM.Temperature,
			}
			if provider != "" {
				opts.Provider = provider
			}
			if model != "" {
				opts.Model = model
			}
			answer, err := llm.Ask(cmd.Context(), res, args[1], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().StringVar(&hint, "type", "", "contract type hint")
	cmd.Flags().StringVar(&refPath, "refdata", "", "path to a reference-data YAML file")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: anthropic, openai, google")
	cmd.Flags().StringVar(&model, "model", "", "model name")
	return cmd
}

func newLawsCmd() *cobra.Command {
	var refPath string
	cmd := &cobra.Command{
		Use:   "laws",
		Short: "List the compliance checklists and their requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := refdata.Load(refPath)
			if err != nil {
				return err
			}
			for _, law := range schema.Laws {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", law)
				for _, req := range ref.RequirementsFor(law, schema.TypeUnknown) {
					marker := " "
					if req.Critical {
						marker = "!"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "  %s %-20s %s\n", marker, req.ID, req.Name)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&refPath, "refdata", "", "path to a reference-data YAML file")
	return cmd
}

func newLogCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent audit log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := audit.Open(cfg.Audit.Path)
			if err != nil {
				return err
			}
			defer logger.Close()
			recs, err := logger.Recent(limit)
			if err != nil {
				return err
			}
			for _, r := range recs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-26s  %s %.2f  %s\n",
					r.Timestamp.Format("2006-01-02 15:04:05"), r.ID[:8],
					r.ContractType, r.RiskLevel, r.RiskScore, r.DocSHA256[:12])
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries to show")
	return cmd
}
