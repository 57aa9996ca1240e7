package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/listingscore/internal/config"
	"github.com/dotcommander/listingscore/internal/discovery"
	"github.com/dotcommander/listingscore/internal/drafts"
	"github.com/dotcommander/listingscore/internal/listing"
	"github.com/dotcommander/listingscore/internal/output"
)

// openDraftStore connects to the configured draft store. Tests replace it
// with an in-memory store.
var openDraftStore = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (drafts.Store, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("drafts need a Redis address (--redis-addr or LISTINGSCORE_REDIS_ADDR)")
	}
	ttl, err := cfg.Redis.TTLDuration()
	if err != nil {
		return nil, err
	}
	return drafts.NewRedisStore(ctx, drafts.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      ttl,
	}, logger)
}

func newDraftCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Keep unsaved listings in Redis and score them",
		Long: `Drafts are listings that are being edited but not yet published. They
live in Redis under their listing id and expire after --ttl.`,
		Example: `  listingscore draft save shop/japandi.listing.md --report reports/japandi.json
  listingscore draft score japandi --fail-on warning
  listingscore draft list`,
	}

	flags := cmd.PersistentFlags()
	flags.String("redis-addr", "", "Redis address (host:port)")
	flags.String("ttl", "24h", "How long a saved draft lives")
	_ = a.v.BindPFlag("redis.addr", flags.Lookup("redis-addr"))
	_ = a.v.BindPFlag("redis.ttl", flags.Lookup("ttl"))

	cmd.AddCommand(
		newDraftSaveCmd(a),
		newDraftShowCmd(a),
		newDraftScoreCmd(a),
		newDraftDropCmd(a),
		newDraftListCmd(a),
	)
	return cmd
}

// withDraftStore opens the store for the duration of fn.
func withDraftStore(cmd *cobra.Command, a *app, fn func(ctx context.Context, s drafts.Store) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openDraftStore(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			a.logger.Warn("Failed to close draft store", zap.Error(cerr))
		}
	}()
	return fn(ctx, store)
}

func newDraftSaveCmd(a *app) *cobra.Command {
	var id, report string

	cmd := &cobra.Command{
		Use:   "save <listing-file>",
		Short: "Save a listing file as a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := discovery.ValidateFilePath(args[0])
			if err != nil {
				return err
			}
			file, err := listing.Load(absPath)
			if err != nil {
				return err
			}
			ac, err := resolveReport(a.logger, file, report, false)
			if err != nil {
				return err
			}
			if id == "" {
				id = file.Listing.ID
			}

			return withDraftStore(cmd, a, func(ctx context.Context, s drafts.Store) error {
				d := drafts.Draft{Listing: file.Listing, Report: ac, SavedAt: time.Now().UTC()}
				if err := s.Save(ctx, id, d); err != nil {
					return err
				}
				a.logger.Info("Draft saved", zap.String("id", id), zap.Bool("report", ac != nil))
				if !a.cfg.Quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Draft saved: %s\n", id)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Draft id (default: the listing id)")
	cmd.Flags().StringVar(&report, "report", "", "Autocomplete report to keep with the draft")
	return cmd
}

// draftView is the YAML shape printed by draft show.
type draftView struct {
	ID      string                `yaml:"id"`
	SavedAt time.Time             `yaml:"saved_at"`
	Listing listing.Listing       `yaml:"listing"`
	Report  *listing.Autocomplete `yaml:"autocomplete,omitempty"`
}

func newDraftShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a draft as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraftStore(cmd, a, func(ctx context.Context, s drafts.Store) error {
				d, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(draftView{ID: args[0], SavedAt: d.SavedAt, Listing: d.Listing, Report: d.Report})
				if err != nil {
					return fmt.Errorf("failed to render draft: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
}

func newDraftScoreCmd(a *app) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "score <id>",
		Short: "Score a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}

			var r *output.Report
			err = withDraftStore(cmd, a, func(ctx context.Context, s drafts.Store) error {
				d, err := s.Get(ctx, args[0])
				if err != nil {
					return err
				}
				report := d.Report
				if offline {
					report = nil
				}
				res := engine.Score(d.Listing, report)
				a.logger.Info("Scored draft", zap.String("id", args[0]), zap.Int("total", res.Total), zap.String("grade", res.Grade))
				r = output.Single("draft:"+args[0], d.Listing.ID, res)
				return nil
			})
			if err != nil {
				return err
			}
			if err := a.render(cmd, r); err != nil {
				return err
			}
			return a.checkFailOn(r)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Ignore the stored autocomplete report")
	return cmd
}

func newDraftDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "drop <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a draft",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraftStore(cmd, a, func(ctx context.Context, s drafts.Store) error {
				if err := s.Delete(ctx, args[0]); err != nil {
					return err
				}
				if !a.cfg.Quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Draft dropped: %s\n", args[0])
				}
				return nil
			})
		},
	}
}

func newDraftListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List draft ids",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDraftStore(cmd, a, func(ctx context.Context, s drafts.Store) error {
				ids, err := s.List(ctx)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
}
