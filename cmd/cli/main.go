package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"unitestats/adapters/excel"
	"unitestats/app"
	"unitestats/domain/catalog"
	"unitestats/domain/core"
	"unitestats/domain/daterange"
	"unitestats/internal/config"
	"unitestats/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "unitestats",
		Short:         "Win-rate statistics: query, daily aggregation and data loading",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// a missing .env is fine; the environment may be set directly
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newWindowCmd(),
		newQueryCmd(),
		newAggregateCmd(),
		newMigrateCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config and builds the container, connecting the database
// when requireDB is set or a DATABASE_URL is present
func setup(requireDB bool) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}

	if requireDB || cfg.HasDatabase() {
		db, err := container.ConnectDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if err := c.InitWithDatabase(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return c, nil
}

func newWindowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "window",
		Short: "Print the selectable date window and the default range (JST)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := daterange.NewPolicy(nil)
			printWindow(cmd.OutOrStdout(), app.WindowInfo{
				Today:        policy.Today(),
				Window:       policy.CurrentWindow(),
				DefaultRange: policy.DefaultRange(),
			})
			return nil
		},
	}
}

func printWindow(w io.Writer, info app.WindowInfo) {
	fmt.Fprintf(w, "Today (JST):   %s\n", info.Today)
	fmt.Fprintf(w, "Window:        %s\n", info.Window)
	fmt.Fprintf(w, "Default range: %s\n", info.DefaultRange)
}

func newQueryCmd() *cobra.Command {
	var start, end, category, xlsxPath string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Fetch, enrich and print win rates for a date range",
		Long: `Fetch raw counters for a date range, join them with the reference catalog
and print one row per subject, most played first.

Example: unitestats query --start 2024-03-08 --end 2024-03-14 --category supporter --xlsx stats.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildQueryRequest(start, end, category)
			if err != nil {
				return err
			}

			c, err := setup(false)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())
			if err := c.Ready(); err != nil {
				return err
			}

			result, err := c.StatsService.Query(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), result)

			if xlsxPath != "" {
				if err := excel.WriteStats(xlsxPath, excel.StatsExport{
					Range:    result.Range,
					Category: result.Category,
					Games:    result.TotalGames,
					Records:  result.Records,
					Summary:  result.Summary,
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", xlsxPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date YYYY-MM-DD (default: 7 days ago, JST)")
	cmd.Flags().StringVar(&end, "end", "", "End date YYYY-MM-DD (default: yesterday, JST)")
	cmd.Flags().StringVar(&category, "category", "all", "Category slug or label (attacker, all-rounder, speedster, defender, supporter, all)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the result to this .xlsx file")

	return cmd
}

// buildQueryRequest parses flag values. Missing dates stay zero for the
// caller to default.
func buildQueryRequest(start, end, category string) (app.QueryRequest, error) {
	var req app.QueryRequest

	cat, err := catalog.ParseCategory(category)
	if err != nil {
		return req, err
	}
	req.Category = cat

	if start != "" {
		if req.Range.Start, err = core.ParseDate(start); err != nil {
			return req, err
		}
	}
	if end != "" {
		if req.Range.End, err = core.ParseDate(end); err != nil {
			return req, err
		}
	}
	return req, nil
}

func printResult(w io.Writer, result *app.QueryResult) {
	fmt.Fprintf(w, "Range: %s  Category: %s  Games: %d\n\n", result.Range, result.Category, result.TotalGames)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tID\tName\tCategory\tGames\tWins\tWin%\t")
	for i, rec := range result.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%.1f\t\n",
			i+1, rec.SubjectID, rec.Reference.Name, rec.Reference.Category.Slug(),
			rec.GamesPlayed, rec.Wins, rec.WinRatePercent)
	}
	tw.Flush()

	s := result.Summary
	fmt.Fprintf(w, "\nSubjects: %d  Mean: %.1f%%  Median: %.1f%%  StdDev: %.1f  Weighted: %.1f%%\n",
		s.Subjects, s.MeanWinRate, s.MedianWinRate, s.StdDevWinRate, s.WeightedWinRate)

	if len(result.Diagnostics) > 0 {
		fmt.Fprintf(w, "\n%d diagnostics:\n", len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  [%s] %s\n", d.Kind, d.Message)
		}
	}
}

func newAggregateCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate one JST day of match records into daily_results",
		Long: `Aggregate one day of match records. The day defaults to yesterday (JST);
--date, then the TARGET_DATE environment variable, override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(true)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			override := date
			if override == "" {
				override = c.Config.Batch.TargetDate
			}
			target, err := c.Aggregation.TargetDate(override)
			if err != nil {
				return err
			}

			result, err := c.Aggregation.AggregateDay(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Aggregated %s: %d games, %d subjects\n",
				result.Date, result.NumberOfGames, len(result.ResultPerPokemon))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Target date YYYY-MM-DD (default: yesterday, JST)")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(true)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			if err := c.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-load match records from a .json, .csv or .xlsx file",
		Long: `Bulk-load match records. Tabular files need the columns
match_id, pokemon, winlose (0/1 or win/lose) and started_at; timestamps
without an offset are read as JST.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(true)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			records, err := excel.NewDataReader(file, c.Logger).ReadMatches()
			if err != nil {
				return err
			}
			n, err := c.MatchRepo.ImportMatches(cmd.Context(), records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d match records\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the match records file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
