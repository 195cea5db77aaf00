// Command ledgerctl works on the shared ledger from a terminal. It opens the
// same local store and sync endpoint as the server.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"sharedledger/internal/config"
	"sharedledger/internal/identity"
	"sharedledger/internal/ledger"
	"sharedledger/internal/models"
	"sharedledger/internal/presets"
	"sharedledger/internal/remote"
	"sharedledger/internal/statement"
	"sharedledger/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "ledgerctl",
		Usage:  "inspect and edit the shared provider/client ledger",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Value: string(identity.RoleProvider), Usage: "act as `ROLE` (provider or client)", EnvVars: []string{"LEDGER_ROLE"}},
			&cli.StringFlag{Name: "data", Usage: "file store at `PATH`, overriding LEDGER_DATA_PATH"},
			&cli.BoolFlag{Name: "ephemeral", Usage: "use an in-memory store that is discarded on exit"},
			&cli.StringFlag{Name: "env-file", Usage: "load settings from `FILE` instead of .env"},
		},
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "show totals, balance and recent activity",
				Action: summaryAction,
			},
			{
				Name:   "feed",
				Usage:  "list entries, newest first",
				Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Usage: "show at most `N` entries"}},
				Action: feedAction,
			},
			{
				Name:  "add-cost",
				Usage: "record a cost",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "amount", Required: true},
					&cli.StringFlag{Name: "extra", Usage: "extra charges"},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "category"},
					&cli.BoolFlag{Name: "save-preset", Usage: "remember description and amount as a preset"},
				},
				Action: addCostAction,
			},
			{
				Name:  "add-payment",
				Usage: "record a payment",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "amount", Required: true},
					&cli.StringFlag{Name: "method"},
					&cli.StringFlag{Name: "note"},
				},
				Action: addPaymentAction,
			},
			{
				Name:      "delete",
				Usage:     "delete an entry",
				ArgsUsage: "cost|payment ID",
				Action:    deleteAction,
			},
			{
				Name:  "presets",
				Usage: "manage quick-bill presets",
				Subcommands: []*cli.Command{
					{Name: "list", Action: presetsListAction},
					{
						Name: "add",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "label", Required: true},
							&cli.Float64Flag{Name: "amount", Required: true},
							&cli.StringFlag{Name: "category"},
						},
						Action: presetsAddAction,
					},
					{
						Name:      "update",
						ArgsUsage: "ID",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "label", Required: true},
							&cli.Float64Flag{Name: "amount", Required: true},
						},
						Action: presetsUpdateAction,
					},
					{Name: "delete", ArgsUsage: "ID", Action: presetsDeleteAction},
				},
			},
			{
				Name:  "sync-url",
				Usage: "show or change the remote endpoint",
				Subcommands: []*cli.Command{
					{Name: "get", Action: syncURLGetAction},
					{Name: "set", ArgsUsage: "[URL]", Usage: "set the endpoint, or clear it when URL is omitted", Action: syncURLSetAction},
				},
			},
			{
				Name:   "export",
				Usage:  "write the PDF statement",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "out", Usage: "output `FILE` (default statement-<date>.pdf)"}},
				Action: exportAction,
			},
		},
	}
}

// session is everything a command needs, opened from the global flags
type session struct {
	local     *store.Local
	registry  *presets.Registry
	engine    *ledger.Engine
	directory *identity.Directory
	close     func()
}

func openSession(c *cli.Context) (*session, error) {
	var files []string
	if f := c.String("env-file"); f != "" {
		files = append(files, f)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	kv, closeStore, err := openStore(c, cfg)
	if err != nil {
		return nil, err
	}

	local := store.NewLocal(kv)
	if err := local.SeedSyncURL(c.Context, cfg.SyncURL); err != nil {
		closeStore()
		return nil, err
	}

	client := remote.NewClient(local, nil)
	registry := presets.New(local)
	return &session{
		local:     local,
		registry:  registry,
		engine:    ledger.New(local, client, client, registry),
		directory: cfg.Directory(),
		close:     closeStore,
	}, nil
}

func openStore(c *cli.Context, cfg *config.Config) (store.KV, func(), error) {
	switch {
	case c.Bool("ephemeral"):
		return store.NewMemoryKV(), func() {}, nil
	case c.String("data") != "":
		kv, err := store.NewFileKV(c.String("data"))
		return kv, func() {}, err
	case cfg.Store == config.StorePostgres:
		// the server owns migrations
		pool, err := pgxpool.New(c.Context, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, fmt.Errorf("create connection pool: %w", err)
		}
		return store.NewPostgresKV(pool), pool.Close, nil
	default:
		kv, err := store.NewFileKV(cfg.DataPath)
		return kv, func() {}, err
	}
}

// actor resolves the --role flag
func (s *session) actor(c *cli.Context) (identity.Identity, error) {
	role, err := identity.ParseRole(c.String("role"))
	if err != nil {
		return identity.Identity{}, err
	}
	return s.directory.Lookup(role)
}

// withSession opens a session for the duration of fn
func withSession(fn func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := openSession(c)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(c, s)
	}
}

func load(ctx context.Context, s *session) (ledger.Snapshot, error) {
	snap, _, err := s.engine.Load(ctx)
	return snap, err
}

var summaryAction = withSession(func(c *cli.Context, s *session) error {
	snap, err := load(c.Context, s)
	if err != nil {
		return err
	}
	renderOverview(c.App.Writer, ledger.BuildOverview(snap.Costs, snap.Payments, time.Now().UTC()), snap.Source)
	return nil
})

var feedAction = withSession(func(c *cli.Context, s *session) error {
	snap, err := load(c.Context, s)
	if err != nil {
		return err
	}
	items := ledger.MergeFeed(snap.Costs, snap.Payments)
	if limit := c.Int("limit"); limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	renderFeed(c.App.Writer, items)
	return nil
})

var addCostAction = withSession(func(c *cli.Context, s *session) error {
	who, err := s.actor(c)
	if err != nil {
		return err
	}
	cost, receipt, err := s.engine.AddCost(c.Context, ledger.CostInput{
		Amount:       c.String("amount"),
		ExtraCharges: c.String("extra"),
		Description:  c.String("description"),
		Category:     c.String("category"),
		SaveAsPreset: c.Bool("save-preset"),
	}, who)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Added cost %s for %s\n", cost.ID, statement.Money(cost.Total()))
	renderReceipt(c.App.Writer, receipt)
	return nil
})

var addPaymentAction = withSession(func(c *cli.Context, s *session) error {
	who, err := s.actor(c)
	if err != nil {
		return err
	}
	payment, receipt, err := s.engine.AddPayment(c.Context, ledger.PaymentInput{
		Amount: c.String("amount"),
		Method: c.String("method"),
		Note:   c.String("note"),
	}, who)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Added payment %s for %s\n", payment.ID, statement.Money(payment.Amount))
	renderReceipt(c.App.Writer, receipt)
	return nil
})

var deleteAction = withSession(func(c *cli.Context, s *session) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: delete cost|payment ID")
	}
	kind := models.EntryKind(strings.ToUpper(c.Args().Get(0)))
	if !kind.Valid() {
		return fmt.Errorf("unknown entry kind %q", c.Args().Get(0))
	}
	who, err := s.actor(c)
	if err != nil {
		return err
	}
	receipt, err := s.engine.DeleteEntry(c.Context, c.Args().Get(1), kind, who)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Deleted %s %s\n", strings.ToLower(string(kind)), c.Args().Get(1))
	renderReceipt(c.App.Writer, receipt)
	return nil
})

var presetsListAction = withSession(func(c *cli.Context, s *session) error {
	list, err := s.registry.List(c.Context)
	if err != nil {
		return err
	}
	renderPresets(c.App.Writer, list)
	return nil
})

var presetsAddAction = withSession(func(c *cli.Context, s *session) error {
	preset, err := s.registry.Add(c.Context, c.String("label"), c.Float64("amount"), c.String("category"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Added preset %s (%s)\n", preset.ID, preset.Label)
	return nil
})

var presetsUpdateAction = withSession(func(c *cli.Context, s *session) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: presets update --label LABEL --amount AMOUNT ID")
	}
	preset, err := s.registry.Update(c.Context, c.Args().First(), c.String("label"), c.Float64("amount"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Updated preset %s (%s)\n", preset.ID, preset.Label)
	return nil
})

var presetsDeleteAction = withSession(func(c *cli.Context, s *session) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: presets delete ID")
	}
	if err := s.registry.Delete(c.Context, c.Args().First()); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Deleted preset %s\n", c.Args().First())
	return nil
})

var syncURLGetAction = withSession(func(c *cli.Context, s *session) error {
	current, err := s.local.SyncURL(c.Context)
	if err != nil {
		return err
	}
	if current == "" {
		fmt.Fprintln(c.App.Writer, mutedStyle.Render("No sync url configured"))
		return nil
	}
	fmt.Fprintln(c.App.Writer, current)
	return nil
})

var syncURLSetAction = withSession(func(c *cli.Context, s *session) error {
	raw := c.Args().First()
	if err := remote.ValidateURL(raw); err != nil {
		return err
	}
	if err := s.local.SetSyncURL(c.Context, raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		fmt.Fprintln(c.App.Writer, "Sync url cleared")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Sync url set to %s\n", strings.TrimSpace(raw))
	return nil
})

var exportAction = withSession(func(c *cli.Context, s *session) error {
	snap, err := load(c.Context, s)
	if err != nil {
		return err
	}

	provider, _ := s.directory.Lookup(identity.RoleProvider)
	client, _ := s.directory.Lookup(identity.RoleClient)
	now := time.Now().UTC()

	path := c.String("out")
	if path == "" {
		path = fmt.Sprintf("statement-%s.pdf", now.Format("2006-01-02"))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := statement.Render(f, statement.New(provider.Name, client.Name, snap, now)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
})
