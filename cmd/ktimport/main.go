package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"ktmobile/internal/events"
	applog "ktmobile/internal/log"
	"ktmobile/internal/repos"
	"ktmobile/internal/services"
	"ktmobile/internal/sources"
)

func main() {
	app := &cli.App{
		Name:  "ktimport",
		Usage: "import competitor price sheets into the ktmobile catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Value: "ktmobile.db", EnvVars: []string{"DB_DSN"}, Usage: "sqlite database holding the catalog"},
			&cli.StringFlag{Name: "key", Value: repos.DefaultCatalogKey, EnvVars: []string{"CATALOG_KEY"}, Usage: "catalog store key"},
			&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "merge sheets (highest offer wins) and create or refresh records",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "sheet", Aliases: []string{"s"}, Usage: "YAML price sheet, repeatable"},
					&cli.BoolFlag{Name: "seed", Usage: "include the bundled competitor sheets"},
				},
				Action: runImport,
			},
			{
				Name:   "stats",
				Usage:  "print catalog statistics",
				Action: runStats,
			},
			{
				Name:   "export",
				Usage:  "print the catalog blob as JSON",
				Action: runExport,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ktimport:", err)
		os.Exit(1)
	}
}

func openCatalog(c *cli.Context) (*services.CatalogService, *zap.Logger, func(), error) {
	lg, err := applog.New(c.String("log-level"), "")
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := repos.OpenDB(c.String("db"))
	if err != nil {
		return nil, nil, nil, err
	}
	repo := repos.NewCatalogRepo(repos.NewSQLiteStore(db), c.String("key"))
	svc := services.NewCatalogService(repo, events.NewBus(), lg.Named("catalog"))
	return svc, lg, func() {
		_ = db.Close()
		_ = lg.Sync()
	}, nil
}

func runImport(c *cli.Context) error {
	var sheets []sources.Sheet
	if c.Bool("seed") {
		seed, err := sources.Seed()
		if err != nil {
			return err
		}
		sheets = append(sheets, seed...)
	}
	for _, f := range c.StringSlice("sheet") {
		sh, err := sources.Load(f)
		if err != nil {
			return err
		}
		sheets = append(sheets, sh)
	}
	if len(sheets) == 0 {
		return cli.Exit("nothing to import: pass --sheet or --seed", 2)
	}

	svc, lg, closeFn, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer closeFn()
	rep, err := services.NewImportService(svc, nil, lg.Named("import")).Run(c.Context, sheets)
	if err != nil {
		return err
	}
	return printJSON(rep)
}

func runStats(c *cli.Context) error {
	svc, _, closeFn, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer closeFn()
	st, err := svc.Stats(c.Context)
	if err != nil {
		return err
	}
	return printJSON(st)
}

func runExport(c *cli.Context) error {
	svc, _, closeFn, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer closeFn()
	recs, err := svc.List(c.Context)
	if err != nil {
		return err
	}
	raw, err := repos.EncodeCatalog(recs)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(raw, '\n'))
	return err
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
