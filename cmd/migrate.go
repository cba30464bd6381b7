package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/foodgram/foodgram/foodgram/database"
	"github.com/foodgram/foodgram/foodgram/database/repositories"
	"github.com/foodgram/foodgram/foodgram/migration"
)

var (
	ingredientsFile string
	tagsFile        string
	resetTables     bool
	batchSize       int
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and seed the tag and ingredient catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig("Foodgram-Migrate")
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			return err
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		if resetTables {
			if err := db.ResetAppTables(ctx); err != nil {
				return err
			}
		}

		importer := migration.NewImporter(
			repositories.NewTagRepository(db.BunDB()),
			repositories.NewIngredientRepository(db.BunDB()),
		)
		importer.SetBatchSize(batchSize)
		importer.UsePool(db.GetPool())

		if tagsFile != "" {
			records, err := migration.ReadFile[migration.CatalogTag](tagsFile)
			if err != nil {
				return err
			}
			if err := importer.ImportTags(ctx, records); err != nil {
				return err
			}
		}

		if ingredientsFile != "" {
			records, err := migration.ReadFile[migration.CatalogIngredient](ingredientsFile)
			if err != nil {
				return err
			}
			if err := importer.ImportIngredients(ctx, records); err != nil {
				return err
			}
		}

		stats := importer.Stats()
		for _, table := range stats.Tables {
			slog.Info("Import summary",
				slog.String("table", table.TableName),
				slog.Int("processed", table.Processed),
				slog.Int("inserted", table.Inserted),
				slog.Int("skipped", table.Skipped),
				slog.Int("invalid", table.Invalid))
		}
		slog.Info("Migration completed successfully!",
			slog.Duration("took", stats.EndTime.Sub(stats.StartTime)))

		return nil
	},
}

func init() {
	migrateCMD.Flags().StringVar(&ingredientsFile, "ingredients", "", "ingredient seed file (.json or .bson)")
	migrateCMD.Flags().StringVar(&tagsFile, "tags", "", "tag seed file (.json or .bson)")
	migrateCMD.Flags().BoolVar(&resetTables, "reset", false, "truncate application tables first")
	migrateCMD.Flags().IntVar(&batchSize, "batch-size", 0, "rows per import batch")
	rootCmd.AddCommand(migrateCMD)
}
