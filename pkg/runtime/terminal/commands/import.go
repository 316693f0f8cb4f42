package commands

import (
	"fmt"

	"github.com/VasiliyTop/AI-finanalitik/pkg/adapters"
	"github.com/VasiliyTop/AI-finanalitik/pkg/models/store"
	"github.com/VasiliyTop/AI-finanalitik/pkg/services/ingest"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb"
	"github.com/VasiliyTop/AI-finanalitik/pkg/store/duckdb/transactions"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	env     env
	format  string
	formats ingest.Registry
}

func NewImportCmd(formats ingest.Registry) *cobra.Command {
	ic := &ImportCmd{formats: formats}
	cmd := &cobra.Command{
		Use:   "import [statement]",
		Short: "Import a statement export into the ledger store",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}

	ic.env.bindFlags(cmd)
	cmd.Flags().StringVar(&ic.format, "format", "", "Vendor format of the statement (see formats)")

	_ = cmd.MarkFlagRequired("format")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	txns, err := ic.env.parseStatement(ctx, ic.formats, ic.format, args[0])
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ic.env.dbPath})
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", ic.env.dbPath, err)
	}
	defer db.Close()

	txnStore, err := transactions.NewStore(db)
	if err != nil {
		return err
	}

	records := make([]store.Transaction, 0, len(txns))
	for _, txn := range txns {
		records = append(records, adapters.MapDomainTransactionToStore(txn))
	}
	stored, err := txnStore.Add(ctx, ic.env.ledger, records)
	if err != nil {
		return fmt.Errorf("failed to store transactions: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d transactions into ledger %q (%d duplicates skipped)\n",
		stored, len(records), ic.env.ledger, len(records)-stored)

	ledgerStore, err := transactions.NewLedgerStore(db, ic.env.ledger)
	if err != nil {
		return err
	}
	stats, err := ledgerStore.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read ledger stats: %w", err)
	}
	if stats.FirstRecordDate != nil && stats.LastRecordDate != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Ledger holds %d transactions from %s to %s\n",
			stats.RecordsCount,
			stats.FirstRecordDate.Format("2006-01-02"),
			stats.LastRecordDate.Format("2006-01-02"))
	}

	return nil
}
