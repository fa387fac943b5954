package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"library-manager/core/reconcile"
	"library-manager/feature/catalog"
	"library-manager/feature/catalog/orphans"
	catalogReconcile "library-manager/feature/catalog/reconcile"
	"library-manager/feature/catalog/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportOutput  string
	dryRun        bool
	yesConfirm    bool
	migrateVerify bool
)

// catalogCmd is the parent command for snapshot and scan operations.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Export, import and scan the library catalog",
	Long: `Export the catalog to an xlsx snapshot, edit it offline and import it back.
Imports insert new rows and update changed ones; nothing is ever deleted.`,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the catalog snapshot to an xlsx file",
	Long: `Writes every record to the "Media Assets" sheet, adds a pre-filled row for each
unreferenced e-book and lists unreferenced audiobooks on the "New Audiobooks" sheet.`,
	RunE: runCatalogExport,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Reconcile an edited snapshot into the database",
	Long: `Parses the snapshot, prints the planned inserts and updates and applies them after
confirmation. Writes stop at the first failure; rows written before it stay committed.

Examples:
  # Show the plan only
  catalog import library.xlsx --dry-run

  # Apply without the interactive prompt
  catalog import library.xlsx --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

var catalogScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Report unreferenced, duplicated and missing assets",
	RunE:  runCatalogScan,
}

var catalogMatchMobiCmd = &cobra.Command{
	Use:   "match-mobi",
	Short: "Link unreferenced secondary e-books to their records",
	Long: `For every record with an e-book but no secondary e-book, looks for an unreferenced
secondary e-book with the same name (a.epub -> a.mobi, a.azw3) and sets it on the record
after confirmation.

Examples:
  # Show the matches only
  catalog match-mobi --dry-run

  # Apply without the interactive prompt
  catalog match-mobi --yes`,
	RunE: runCatalogMatchMobi,
}

var catalogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	RunE:  runCatalogMigrate,
}

func init() {
	catalogExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default library-YYYYMMDD.xlsx)")
	catalogImportCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan only, write nothing")
	catalogImportCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm writes (non-interactive)")
	catalogMatchMobiCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show matches only, write nothing")
	catalogMatchMobiCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm writes (non-interactive)")
	catalogMigrateCmd.Flags().BoolVar(&migrateVerify, "verify", false, "Only report missing columns, do not migrate")

	catalogCmd.AddCommand(catalogExportCmd, catalogImportCmd, catalogScanCmd, catalogMatchMobiCmd, catalogMigrateCmd)
	RootCmd.AddCommand(catalogCmd)
}

func newCatalogService() (*catalog.Service, *env, error) {
	e, err := loadEnv(true)
	if err != nil {
		return nil, nil, err
	}
	return catalog.NewService(e.client, e.cfg.Storage.Bucket, e.logger, e.db, e.cfg.Catalog), e, nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	svc, e, err := newCatalogService()
	if err != nil {
		return err
	}

	data, err := svc.Export(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}

	path := exportOutput
	if path == "" {
		path = fmt.Sprintf("library-%s.xlsx", time.Now().Format("20060102"))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	e.logger.Info("Snapshot saved", zap.String("file", path), zap.Int("bytes", len(data)))
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, e, err := newCatalogService()
	if err != nil {
		return err
	}
	l := e.logger

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	// Step 1: Plan (always runs)
	l.Info("Planning import...", zap.String("file", args[0]))
	plan, err := svc.PlanImport(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to plan import: %w", err)
	}

	// Step 2: Print report
	printImportPlan(plan)

	pending := len(plan.Pending())
	if pending == 0 {
		l.Info("Catalog already matches the snapshot. Nothing to do.")
		return nil
	}
	if dryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	// Step 3: Apply (if confirmed)
	if !confirmWrites(pending) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying plan...")
	result, err := svc.Apply(ctx, plan, reconcile.Options{Confirmed: true})
	if err != nil {
		if result != nil {
			l.Error("Import stopped; earlier rows remain committed", zap.Int("executed", result.Executed))
		}
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	l.Info("Successfully executed actions", zap.Int("count", result.Executed))
	return nil
}

// printImportPlan prints the summary and every entry that needs a write.
func printImportPlan(plan *catalogReconcile.Plan) {
	s := plan.Summary
	summary := [][]string{
		{"Rows", strconv.Itoa(s.TotalRows)},
		{"Insert", strconv.Itoa(s.Inserts)},
		{"Update tags", strconv.Itoa(s.UpdateTags)},
		{"Update metadata", strconv.Itoa(s.UpdateMetadata)},
		{"Update tags and metadata", strconv.Itoa(s.UpdateTagsAndMetadata)},
		{"No change", strconv.Itoa(s.NoOps)},
		{"With warnings", strconv.Itoa(s.Warnings)},
	}
	fmt.Println(renderTable([]string{"Plan", "Count"}, summary, 1))

	var rows [][]string
	for _, entry := range plan.Pending() {
		id := "new"
		if v, ok := entry.Record.RecordID(); ok {
			id = strconv.Itoa(v)
		}
		rows = append(rows, []string{
			strconv.Itoa(entry.Row),
			id,
			string(entry.Action),
			entry.Record.DisplayTitle(),
			strings.Join(entry.Warnings, "; "),
		})
	}
	if len(rows) > 0 {
		fmt.Println(renderTable([]string{"Row", "ID", "Action", "Title", "Warnings"}, rows, 0, 1))
	}
}

// confirmWrites prompts the user for confirmation or uses --yes flag.
func confirmWrites(n int) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to write %d change(s) to the catalog: ", n)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

func runCatalogScan(cmd *cobra.Command, args []string) error {
	svc, e, err := newCatalogService()
	if err != nil {
		return err
	}

	report, err := svc.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to scan assets: %w", err)
	}

	printScanReport(report)
	if report.Clean() {
		e.logger.Info("Every object is referenced and every reference exists.")
	}
	return nil
}

func printScanReport(report *orphans.Report) {
	var rows [][]string
	for _, kind := range []orphans.Kind{orphans.KindPrimaryEbook, orphans.KindSecondaryEbook, orphans.KindAudiobook, orphans.KindUnrecognized} {
		for _, key := range report.Orphans(kind) {
			rows = append(rows, []string{"unreferenced", string(kind), key, ""})
		}
	}
	for _, d := range report.Duplicates {
		ids := make([]string, len(d.RecordIDs))
		for i, id := range d.RecordIDs {
			ids[i] = strconv.Itoa(id)
		}
		rows = append(rows, []string{"duplicate", string(d.Field), d.Key, strings.Join(ids, ", ")})
	}
	for _, m := range report.Missing {
		rows = append(rows, []string{"missing", string(m.Field), m.Key, strconv.Itoa(m.RecordID)})
	}
	for _, m := range report.Matches {
		rows = append(rows, []string{"matches record", string(orphans.KindSecondaryEbook), m.Key, strconv.Itoa(m.RecordID)})
	}
	if len(rows) > 0 {
		fmt.Println(renderTable([]string{"Issue", "Kind", "Key", "Records"}, rows))
	}
}

func runCatalogMatchMobi(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, e, err := newCatalogService()
	if err != nil {
		return err
	}
	l := e.logger

	report, err := svc.Scan(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan assets: %w", err)
	}
	if len(report.Matches) == 0 {
		l.Info("No unreferenced secondary e-book matches a record")
		return nil
	}

	rows := make([][]string, len(report.Matches))
	for i, m := range report.Matches {
		rows[i] = []string{strconv.Itoa(m.RecordID), m.PrimaryKey, m.Key}
	}
	fmt.Println(renderTable([]string{"ID", "E-book", "Secondary"}, rows, 0))

	if dryRun {
		l.Info("Dry-run mode: No changes were made.", zap.Int("matches", len(report.Matches)))
		return nil
	}
	if !confirmWrites(len(report.Matches)) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	result, err := svc.LinkSecondary(ctx, report.Matches, reconcile.Options{Confirmed: true})
	if err != nil {
		return fmt.Errorf("linked %d record(s) before failing: %w", result.Linked, err)
	}
	l.Info("Secondary e-books linked", zap.Int("linked", result.Linked), zap.Ints("skipped", result.Skipped))
	return nil
}

func runCatalogMigrate(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(true)
	if err != nil {
		return err
	}
	return migrateCatalog(cmd.Context(), store.New(e.db), e.logger)
}

func migrateCatalog(ctx context.Context, st *store.Store, l *zap.Logger) error {
	if !migrateVerify {
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		l.Info("Catalog schema migrated")
	}

	missing, err := st.VerifySchema(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		l.Info("Catalog schema is complete")
		return nil
	}
	for table, cols := range missing {
		l.Warn("Missing columns", zap.String("table", table), zap.Strings("columns", cols))
	}
	return fmt.Errorf("catalog schema is missing columns in %d table(s)", len(missing))
}
