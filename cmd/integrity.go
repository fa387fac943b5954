package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"library-manager/feature/catalog/orphans"
	"library-manager/feature/integrity"
	"library-manager/feature/integrity/checks"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the bucket, the catalog schema and asset references",
	Long: `Runs the storage, schema and asset checks. The database is optional; checks
that need it are reported as failed when it is unreachable. Outputs tables by
default or a detailed JSON file with --json.`,
	RunE: runIntegrity,
}

func init() {
	integrityCmd.Flags().Bool("json", false, "Save the detailed report as JSON")
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrity(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	logg := e.logger

	svc := integrity.NewService(e.client, e.cfg.Storage.Bucket, logg, e.db, e.cfg.Catalog)
	logg.Info("Running integrity checks...")
	report := svc.CheckAll(cmd.Context())

	if jsonOutput {
		filename := fmt.Sprintf("integrity_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	printIntegrityReport(report)

	logg.Info("Integrity checks completed",
		zap.Bool("healthy", report.Healthy),
		zap.Int("failed_checks", len(report.Errors)),
		zap.Duration("execution_time", time.Since(startTime)),
	)
	return nil
}

func printIntegrityReport(report *integrity.Report) {
	if s := report.Storage; s != nil {
		rows := make([][]string, 0, len(s.ByKind)+1)
		kinds := make([]string, 0, len(s.ByKind))
		for k := range s.ByKind {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			rows = append(rows, []string{k, strconv.Itoa(s.ByKind[orphans.Kind(k)])})
		}
		rows = append(rows, []string{"total", strconv.Itoa(s.Objects)})
		fmt.Println(renderTable([]string{"Objects in " + s.Bucket, "Count"}, rows, 1))
	}

	if s := report.Schema; s != nil {
		var rows [][]string
		tables := make([]string, 0, len(s.Tables))
		for t := range s.Tables {
			tables = append(tables, t)
		}
		sort.Strings(tables)
		for _, t := range tables {
			tbl := s.Tables[t]
			rows = append(rows, []string{t, tbl.Status, strings.Join(tbl.MissingColumns, ", "), strings.Join(tbl.TypeMismatches, "; ")})
		}
		for _, msg := range s.Errors {
			rows = append(rows, []string{"", "error", "", msg})
		}
		fmt.Println(renderTable([]string{"Table", "Status", "Missing Columns", "Type Mismatches"}, rows))
	}

	if a := report.Assets; a != nil {
		fmt.Println(renderTable([]string{"Assets", "Count"}, [][]string{
			{"records", strconv.Itoa(a.Records)},
			{"missing", strconv.Itoa(len(a.Missing))},
			{"duplicates", strconv.Itoa(len(a.Duplicates))},
			{"misfiled", strconv.Itoa(len(a.Misfiled))},
			{"invalid", strconv.Itoa(len(a.Invalid))},
		}, 1))
		printAssetIssues(a)
	}

	if len(report.Errors) > 0 {
		names := make([]string, 0, len(report.Errors))
		for n := range report.Errors {
			names = append(names, n)
		}
		sort.Strings(names)
		rows := make([][]string, len(names))
		for i, n := range names {
			rows[i] = []string{n, report.Errors[n]}
		}
		fmt.Println(renderTable([]string{"Failed Check", "Error"}, rows))
	}
}

func printAssetIssues(a *checks.AssetReport) {
	var rows [][]string
	for _, m := range a.Missing {
		rows = append(rows, []string{strconv.Itoa(m.RecordID), "missing", string(m.Field), m.Key})
	}
	for _, m := range a.Misfiled {
		rows = append(rows, []string{strconv.Itoa(m.RecordID), "misfiled as " + string(m.Kind), string(m.Field), m.Key})
	}
	for _, inv := range a.Invalid {
		rows = append(rows, []string{strconv.Itoa(inv.RecordID), "invalid", inv.Title, strings.Join(inv.Warnings, "; ")})
	}
	if len(rows) > 0 {
		fmt.Println(renderTable([]string{"Record", "Issue", "Field", "Detail"}, rows, 0))
	}
}
