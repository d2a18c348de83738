// trovectl loads card catalogs, merchant deal feeds, and provider transaction
// exports into a Trove database from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"trove/internal/catalog"
	"trove/internal/database"
	"trove/internal/ingest"
	"trove/internal/logger"
)

var (
	dealCardName string
	dealIssuer   string
	billsPath    string
	noWipe       bool
)

var rootCmd = &cobra.Command{
	Use:   "trovectl",
	Short: "Trove data loading tools",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var loadCardsCmd = &cobra.Command{
	Use:   "load-cards [json_path] [db_path]",
	Short: "Load a card catalog JSON and rebuild the deals table",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		jsonPath, dbPath := pathArgs(args, "perk_data.json")

		db, err := openDB(dbPath)
		if err != nil {
			return err
		}

		loader := catalog.NewLoader(db, catalog.CatalogMapper{})
		if err := loader.Load(jsonPath); err != nil {
			return err
		}

		fmt.Printf("Loaded cards and deals from %s into %s\n", jsonPath, dbPath)
		return nil
	},
}

var loadDealsCmd = &cobra.Command{
	Use:   "load-deals [json_path] [db_path]",
	Short: "Load a merchant deal feed JSON for a single card",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		jsonPath, dbPath := pathArgs(args, "deals_data.json")

		db, err := openDB(dbPath)
		if err != nil {
			return err
		}

		mapper := catalog.MerchantDealMapper{CardName: dealCardName, Issuer: dealIssuer}
		loader := catalog.NewLoader(db, mapper)
		if err := loader.Load(jsonPath); err != nil {
			return err
		}

		fmt.Printf("Loaded deals from %s into %s\n", jsonPath, dbPath)
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [json_path] [db_path]",
	Short: "Reload the transaction tables from a provider export",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		jsonPath, dbPath := pathArgs(args, "plaid_latest.json")

		db, err := openDB(dbPath)
		if err != nil {
			return err
		}

		counts, err := ingest.NewIngestor(db).Sync(jsonPath, billsPath, !noWipe)
		if err != nil {
			return err
		}

		fmt.Printf("Synced %s into %s\n", jsonPath, dbPath)
		for _, table := range ingest.CountedTables {
			fmt.Printf("  %-24s %d\n", table, counts[table])
		}
		return nil
	},
}

func pathArgs(args []string, defaultJSON string) (jsonPath, dbPath string) {
	jsonPath, dbPath = defaultJSON, "db.sqlite3"
	if len(args) > 0 {
		jsonPath = args[0]
	}
	if len(args) > 1 {
		dbPath = args[1]
	}
	return jsonPath, dbPath
}

func openDB(path string) (*gorm.DB, error) {
	manager, err := database.NewManager(database.SQLiteConfig(path))
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := manager.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate database %s: %w", path, err)
	}
	return manager.DB(), nil
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	loadDealsCmd.Flags().StringVar(&dealCardName, "card-name", "Chase Freedom Flex", "card the deals belong to")
	loadDealsCmd.Flags().StringVar(&dealIssuer, "issuer", "Chase", "issuer of the card")
	syncCmd.Flags().StringVar(&billsPath, "bills", "bills.json", "optional bills export to merge")
	syncCmd.Flags().BoolVar(&noWipe, "no-wipe", false, "append instead of wiping existing transactions")

	rootCmd.AddCommand(loadCardsCmd, loadDealsCmd, syncCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
