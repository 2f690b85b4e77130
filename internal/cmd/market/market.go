// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package market is the terminal client of the marketplace.

It wires the API client, the bbolt state file, the session store, the route
guard and the screen models, then runs one command per invocation:

	market lang ru
	market login -email aibek@toikana.kg -password ...
	market list places -q зал -sort price_asc
	market create places -set name=Ала-Тоо -set price=15000 -image hall.jpg
	market users
	market role <user-id> partner

Every command runs as a navigation first; a denied route prints the redirect
instead of running.
*/
package market

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/toikana/marketplace/internal/app/admin"
	"github.com/toikana/marketplace/internal/app/draft"
	"github.com/toikana/marketplace/internal/app/guard"
	"github.com/toikana/marketplace/internal/app/listing"
	"github.com/toikana/marketplace/internal/app/notify"
	"github.com/toikana/marketplace/internal/app/session"
	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/client"
	"github.com/toikana/marketplace/internal/platform/config"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/localstore"
)

// Errors reported to the shell.
var (
	ErrUsage  = errors.New("market: invalid usage")
	ErrDenied = errors.New("market: navigation denied")
)

// App is one client process.
type App struct {
	cfg    *config.Client
	out    io.Writer
	logger *slog.Logger

	local    *localstore.Store
	api      *client.Client
	notifier *notify.Notifier
	session  *session.Store
	guard    *guard.Guard
	lister   *listing.Lister
	drafts   *draft.Store
	console  *admin.Console
}

// New opens the state file and wires the client.
//
// The UI language comes from cfg.Language, then the remembered choice, then
// the default.
func New(ctx context.Context, cfg *config.Client, out io.Writer, logger *slog.Logger) (*App, error) {
	local, err := localstore.Open(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	lang := i18n.Default
	var remembered string
	if err := local.Get(ctx, localstore.KeyLanguage, &remembered); err == nil {
		lang = i18n.ParseOrDefault(remembered)
	}
	if cfg.Language != "" {
		lang = i18n.ParseOrDefault(cfg.Language)
	}

	var httpClient *http.Client
	if cfg.Timeout > 0 {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	api := client.New(client.Options{
		BaseURL:    cfg.APIURL,
		HTTPClient: httpClient,
		Tokens:     client.LocalTokens{Store: local},
		Language:   lang,
		Logger:     logger,
	})

	notifier := notify.New(notify.NewWriter(out), api.Language)
	store := session.NewStore(api, api, logger)

	sources := map[catalog.Kind]listing.Source{}
	deleters := map[catalog.Kind]admin.Deleter{}
	for _, kind := range catalog.Kinds() {
		sources[kind] = api.Collection(kind)
		deleters[kind] = api.Collection(kind)
	}
	lister := listing.NewLister(sources, notifier, logger)

	return &App{
		cfg:      cfg,
		out:      out,
		logger:   logger,
		local:    local,
		api:      api,
		notifier: notifier,
		session:  store,
		guard:    guard.New(store),
		lister:   lister,
		drafts:   draft.NewStore(local),
		console:  admin.NewConsole(api, deleters, lister, notifier, logger),
	}, nil
}

// Close releases the state file.
func (app *App) Close() error {
	app.session.Close()
	return app.local.Close()
}

// command is one subcommand.
type command struct {
	usage string
	run   func(app *App, ctx context.Context, args []string) error
}

func commands() map[string]command {
	return map[string]command{
		"lang":     {"lang [ky|ru]", (*App).runLang},
		"login":    {"login -email E -password P", (*App).runLogin},
		"register": {"register -email E -password P [-name N]", (*App).runRegister},
		"logout":   {"logout", (*App).runLogout},
		"whoami":   {"whoami", (*App).runWhoAmI},
		"profile":  {"profile [-name N] [-phone P] [-avatar URL]", (*App).runProfile},
		"forgot":   {"forgot -email E [-redirect URL]", (*App).runForgot},
		"reset":    {"reset -password P [-token T]", (*App).runReset},
		"list":     {"list KIND [-q TEXT] [-sort default|price_asc|price_desc]", (*App).runList},
		"show":     {"show KIND ID", (*App).runShow},
		"mine":     {"mine KIND", (*App).runMine},
		"create":   {"create KIND [-set key=value]... [-image PATH] [-draft]", (*App).runCreate},
		"edit":     {"edit KIND ID [-set key=value]... [-image PATH] [-remove-image]", (*App).runEdit},
		"delete":   {"delete KIND ID...", (*App).runDelete},
		"users":    {"users", (*App).runUsers},
		"role":     {"role USER_ID user|partner|admin", (*App).runRole},
		"open":     {"open PATH", (*App).runOpen},
	}
}

// Run restores the session and executes args[0].
func (app *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		app.usage()
		return ErrUsage
	}

	cmd, ok := commands()[args[0]]
	if !ok {
		app.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	if err := app.session.Initialize(ctx); err != nil {
		app.logger.WarnContext(ctx, "session_restore_failed", slog.Any("error", err))
	}

	return cmd.run(app, ctx, args[1:])
}

func (app *App) usage() {
	all := commands()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(app.out, "usage: market <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(app.out, "  %s\n", all[name].usage)
	}
}

// navigate runs location through the guard and prints the outcome when the
// route does not render.
func (app *App) navigate(ctx context.Context, location string) (guard.Decision, error) {
	decision := app.guard.Open(ctx, location)

	switch decision.Outcome {
	case guard.OutcomeRender:
		return decision, nil
	case guard.OutcomeRedirect:
		if decision.Location == guard.PathAuth {
			fmt.Fprintf(app.out, "-> %s (sign in to open %s)\n", guard.PathAuth, decision.From)
		} else {
			fmt.Fprintf(app.out, "-> %s\n", decision.Location)
		}
	case guard.OutcomeNotFound:
		fmt.Fprintf(app.out, "404 %s\n", location)
	default:
		fmt.Fprintln(app.out, "...")
	}
	return decision, ErrDenied
}

func parseKind(value string) (catalog.Kind, error) {
	kind, ok := catalog.ParseKind(value)
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q (places, artists, rentals)", ErrUsage, value)
	}
	return kind, nil
}

// assignments collects repeated -set key=value flags.
type assignments []string

func (a *assignments) String() string { return strings.Join(*a, ",") }

func (a *assignments) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*a = append(*a, value)
	return nil
}
