package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ruraldraft-backend/agent"
	"ruraldraft-backend/internal/logger"
	"ruraldraft-backend/models"
	"ruraldraft-backend/ptbr"
	"ruraldraft-backend/render"
	"ruraldraft-backend/rules"
	"ruraldraft-backend/salary"
	"ruraldraft-backend/service"
)

// clock is replaced in tests.
var clock = time.Now

func newTableCmd() *cobra.Command {
	var (
		start   string
		periods int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the payment table for a benefit start date",
		Example: `  ruraldraft table --start 2024-03-10
  ruraldraft table --start 2024-03-10 --periods 6 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := ptbr.ParseDate(start)
			if err != nil {
				return fmt.Errorf("invalid --start %q: %w", start, err)
			}

			table := salary.DefaultTable(salary.WithClock(clock))
			rows := table.BuildPaymentTable(d, periods)
			base, total := salary.Totals(rows)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"rows":           salary.Models(rows),
					"total_base":     base,
					"total":          total,
					"total_in_words": ptbr.MoneyToWords(total),
				})
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COMPETÊNCIA\tVALOR BASE\tVALOR REAJUSTADO")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Period, ptbr.FormatMoney(r.Base), ptbr.FormatMoney(r.Adjusted))
			}
			fmt.Fprintf(w, "TOTAL\t%s\t%s\n", ptbr.FormatMoney(base), ptbr.FormatMoney(total))
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", ptbr.MoneyToWords(total))
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "benefit start date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().IntVar(&periods, "periods", salary.DefaultPeriods, "number of monthly periods")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "words <amount>",
		Short:   "Write a money amount in Portuguese words",
		Example: `  ruraldraft words "R$ 6.072,00"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := models.ParseAmount(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ptbr.MoneyToWords(v))
			return nil
		},
	}
}

func newCityCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "city <text>",
		Short:   "Normalize a free-text location to City-UF",
		Example: `  ruraldraft city "Subseção Judiciária de Araguaína - TO"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			city := ptbr.NormalizeCityUF(strings.Join(args, " "))
			if city == "" {
				return fmt.Errorf("no location found")
			}
			fmt.Fprintln(cmd.OutOrStdout(), city)
			return nil
		},
	}
}

// renderInput is the JSON file read by the render command.
type renderInput struct {
	AgentType   string                   `json:"agent_type"`
	CaseData    models.CaseData          `json:"case_data"`
	Result      *models.StructuredResult `json:"result"`
	Signers     []models.Signer          `json:"signers"`
	Office      *models.Office           `json:"office"`
	GeneratedBy string                   `json:"generated_by"`
}

func newRenderCmd() *cobra.Command {
	var (
		input  string
		output string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a petition preview from a case file without calling a backend",
		Long: `Reads a JSON file with agent_type, case_data and an optional partial result,
merges the local payment table and priorities, and writes the rendered HTML.`,
		Example: `  ruraldraft render --input caso.json --out peticao.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(input)
			if err != nil {
				return err
			}
			var in renderInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("invalid input file: %w", err)
			}
			if in.AgentType == "" {
				in.AgentType = agent.MaternityType
			}

			svc, err := previewService()
			if err != nil {
				return err
			}
			doc, err := svc.Preview(context.Background(), service.PreviewRequest{
				AgentType:   in.AgentType,
				CaseData:    in.CaseData,
				Result:      in.Result,
				Signers:     in.Signers,
				Office:      in.Office,
				GeneratedBy: in.GeneratedBy,
			})
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), doc.HTML)
				return err
			}
			if err := os.WriteFile(output, []byte(doc.HTML), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s written (%s, total %s)\n", output, doc.ID, ptbr.FormatMoney(doc.Total))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "case JSON file")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output HTML file (default stdout)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func previewService() (*service.DocumentService, error) {
	log := logger.NewNoOpLogger()
	table := salary.DefaultTable(salary.WithClock(clock))

	registry := agent.NewRegistry(agent.RegistryWithLogger(log))
	registry.Register(agent.NewMaternityAgent(agent.MaternityWithTable(table)))

	priorities, err := rules.NewPriorityEngine()
	if err != nil {
		return nil, err
	}

	orchestrator := service.NewOrchestrator(
		service.OrchestratorWithRegistry(registry),
		service.OrchestratorWithPriorityRules(priorities),
		service.OrchestratorWithClock(clock),
		service.OrchestratorWithLogger(log),
	)
	return service.NewDocumentService(
		service.DocumentWithPipeline(orchestrator),
		service.DocumentWithRenderer(render.New(render.WithClock(clock), render.WithLogger(log))),
		service.DocumentWithLogger(log),
	), nil
}
