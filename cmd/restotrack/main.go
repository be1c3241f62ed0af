// cmd/restotrack/main.go
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/restotrack-io/backend-go/internal/config"
	"github.com/restotrack-io/backend-go/internal/domain"
	"github.com/restotrack-io/backend-go/internal/service"
	"github.com/restotrack-io/backend-go/internal/store"
	"github.com/restotrack-io/backend-go/internal/store/postgres"
	"github.com/restotrack-io/backend-go/internal/storage"
	"github.com/restotrack-io/backend-go/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newFilterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "brand", Usage: "Limit to one brand"},
		&cli.StringFlag{Name: "outlet", Usage: "Limit to one outlet"},
		&cli.StringFlag{Name: "from", Usage: "Start date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "to", Usage: "End date (YYYY-MM-DD)"},
	}
}

func openStore(c *cli.Context) (*postgres.Store, func(), error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pgStore := postgres.NewStore(sqlx.NewDb(db, "pgx"))
	if err := pgStore.EnsureSchema(c.Context); err != nil {
		db.Close()
		return nil, nil, err
	}
	return pgStore, func() { db.Close() }, nil
}

func newService(rs store.RecordStore) *service.MetricsService {
	return service.NewMetricsService(rs, nil, config.Load().Thresholds)
}

func parseFilter(c *cli.Context) domain.Filter {
	return domain.Filter{
		Brand:  c.String("brand"),
		Outlet: c.String("outlet"),
		From:   domain.ParseDate(c.String("from")),
		To:     domain.ParseDate(c.String("to")),
	}
}

func importCollections(c *cli.Context) error {
	rs, closeDB, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeDB()

	dataDir := c.String("data-dir")
	collections := []string{
		store.CollectionSales, store.CollectionPurchases, store.CollectionWaste,
		store.CollectionLabor, store.CollectionOverhead, store.CollectionInventory,
		store.CollectionRecipes, store.CollectionMenuSales,
		store.CollectionReconciliationInputs, store.CollectionAlertRules,
	}

	for _, collection := range collections {
		path := filepath.Join(dataDir, collection+".json")
		payload, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var rows json.RawMessage
		if err := json.Unmarshal(payload, &rows); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if err := rs.Write(c.Context, collection, rows); err != nil {
			return err
		}
		logger.Log.Info().Str("collection", collection).Str("file", path).Msg("collection imported")
	}

	return nil
}

func printReport(c *cli.Context) error {
	rs, closeDB, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeDB()

	filter := parseFilter(c)
	snap := newService(rs).Kpis(c.Context, filter)

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func printVariances(c *cli.Context) error {
	rs, closeDB, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeDB()

	rows := newService(rs).Variances(c.Context, parseFilter(c), c.Bool("only-exceeding"))

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func exportSnapshot(c *cli.Context) error {
	rs, closeDB, err := openStore(c)
	if err != nil {
		return err
	}
	defer closeDB()

	filter := parseFilter(c)
	dashboard, err := newService(rs).Dashboard(c.Context, filter)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}

	client, err := storage.NewS3Client(config.Load().Archive)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("snapshots/%s.json", time.Now().UTC().Format("20060102T150405Z"))
	if err := client.UploadObject(c.Context, key, payload); err != nil {
		return err
	}

	logger.Log.Info().Str("key", key).Msg("snapshot archived")
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "restotrack",
		Usage: "Restaurant operations KPI and reconciliation tooling",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import collection JSON files into the record store",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "data-dir",
						Usage: "Directory containing <collection>.json files",
						Value: "./data",
					},
				},
				Action: importCollections,
			},
			{
				Name:   "report",
				Usage:  "Print the financial KPI snapshot for a filtered view",
				Flags:  append([]cli.Flag{newDBURLFlag()}, newFilterFlags()...),
				Action: printReport,
			},
			{
				Name:  "variance",
				Usage: "Print per-item inventory variance rows",
				Flags: append([]cli.Flag{
					newDBURLFlag(),
					&cli.BoolFlag{Name: "only-exceeding", Usage: "Only rows over the configured thresholds"},
				}, newFilterFlags()...),
				Action: printVariances,
			},
			{
				Name:   "export",
				Usage:  "Archive the computed dashboard snapshot to object storage",
				Flags:  append([]cli.Flag{newDBURLFlag()}, newFilterFlags()...),
				Action: exportSnapshot,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}
