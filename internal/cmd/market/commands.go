// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package market

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/toikana/marketplace/internal/app/listingform"
	"github.com/toikana/marketplace/internal/app/wizard"
	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/client"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/platform/localstore"
	"github.com/toikana/marketplace/internal/platform/sec"
	"github.com/toikana/marketplace/internal/users/profile"
	"github.com/toikana/marketplace/pkg/pointer"
	"github.com/toikana/marketplace/pkg/slice"
)

// progressDelay paces the simulated image progress.
const progressDelay = 40 * time.Millisecond

// render writes rows as a table. The first row is the header.
func (app *App) render(rows [][]string) error {
	table := tablewriter.NewWriter(app.out)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func (app *App) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.out)
	return fs
}

// # Preferences

func (app *App) runLang(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(app.out, app.api.Language())
		return nil
	}

	lang, ok := i18n.Parse(args[0])
	if !ok {
		return fmt.Errorf("%w: unsupported language %q", ErrUsage, args[0])
	}
	app.api.SetLanguage(lang)
	if err := app.local.Put(ctx, localstore.KeyLanguage, lang.String()); err != nil {
		return err
	}
	fmt.Fprintln(app.out, lang)
	return nil
}

// # Authentication

func (app *App) authFailed(err error) error {
	app.notifier.Error(i18n.KeyAuthFailed, client.Message(err))
	return err
}

func (app *App) runLogin(ctx context.Context, args []string) error {
	fs := app.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := app.session.SignIn(ctx, *email, *password); err != nil {
		return app.authFailed(err)
	}
	app.notifier.Success(i18n.KeyAuthSignedIn)
	return nil
}

func (app *App) runRegister(ctx context.Context, args []string) error {
	fs := app.flags("register")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (at least 8 characters)")
	name := fs.String("name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := app.session.SignUp(ctx, *email, *password, *name); err != nil {
		return app.authFailed(err)
	}
	app.notifier.Success(i18n.KeyAuthSignedUp)
	return nil
}

func (app *App) runLogout(ctx context.Context, _ []string) error {
	if err := app.session.SignOut(ctx); err != nil {
		return app.authFailed(err)
	}
	app.notifier.Success(i18n.KeyAuthSignedOut)
	return nil
}

func (app *App) runWhoAmI(_ context.Context, _ []string) error {
	state := app.session.State()
	if state.Identity == nil {
		fmt.Fprintln(app.out, "anonymous")
		return nil
	}

	role := "?"
	name := ""
	if state.Profile != nil {
		role = string(state.Profile.Role)
		name = pointer.Val(state.Profile.FullName)
	}
	fmt.Fprintf(app.out, "%s\t%s\t%s\t%s\n", state.Identity.ID, state.Identity.Email, role, name)
	return nil
}

func (app *App) runProfile(ctx context.Context, args []string) error {
	if _, err := app.navigate(ctx, "/profile/settings"); err != nil {
		return err
	}

	fs := app.flags("profile")
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	avatar := fs.String("avatar", "", "avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	patch := profile.Patch{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.FullName = name
		case "phone":
			patch.Phone = phone
		case "avatar":
			patch.AvatarURL = avatar
		}
	})
	if patch.IsEmpty() {
		return app.runWhoAmI(ctx, nil)
	}

	if err := app.session.UpdateProfile(ctx, patch); err != nil {
		app.notifier.Error(i18n.KeyProfileFailed)
		return err
	}
	app.notifier.Success(i18n.KeyProfileUpdated)
	return nil
}

func (app *App) runForgot(ctx context.Context, args []string) error {
	fs := app.flags("forgot")
	email := fs.String("email", "", "account email")
	redirect := fs.String("redirect", "", "page the reset link opens")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := app.session.RequestPasswordReset(ctx, *email, *redirect); err != nil {
		return app.authFailed(err)
	}
	app.notifier.Success(i18n.KeyAuthResetSent)
	return nil
}

// runReset sets a new password, either with a reset token from the email link
// or for the signed-in identity.
func (app *App) runReset(ctx context.Context, args []string) error {
	fs := app.flags("reset")
	token := fs.String("token", "", "reset token from the email link")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *token != "" {
		err = app.api.ResetPasswordWithToken(ctx, *token, *password)
	} else {
		err = app.session.ResetPassword(ctx, *password)
	}
	if err != nil {
		return app.authFailed(err)
	}
	app.notifier.Success(i18n.KeyAuthPasswordUpdated)
	return nil
}

// # Catalog

func (app *App) printItems(items []catalog.Item) error {
	if len(items) == 0 {
		app.notifier.Info(i18n.KeyCatalogEmpty)
		return nil
	}

	lang := app.api.Language()
	rows := [][]string{{"ID", "Name", "Price", "Rating"}}
	for _, item := range items {
		base := item.Base()
		rows = append(rows, []string{
			base.ID,
			i18n.Resolve(item, catalog.FieldName, lang),
			base.Price,
			fmt.Sprintf("%.1f", base.Rating),
		})
	}
	return app.render(rows)
}

func (app *App) runList(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: list KIND", ErrUsage)
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	fs := app.flags("list")
	search := fs.String(catalog.QuerySearch, "", "search in name and description")
	order := fs.String(catalog.QuerySort, string(catalog.SortDefault), "price sort")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if _, err := app.navigate(ctx, "/catalog"); err != nil {
		return err
	}
	return app.printItems(app.lister.View(ctx, kind, *search, catalog.ParseSort(*order)))
}

func (app *App) runShow(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: show KIND ID", ErrUsage)
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	if _, err := app.navigate(ctx, "/"+string(kind)+"/"+args[1]); err != nil {
		return err
	}

	item, ok := app.lister.Item(ctx, kind, args[1])
	if !ok {
		return nil
	}

	lang := app.api.Language()
	rows := [][]string{{"Field", "Value"}}
	for _, field := range catalog.Fields(kind) {
		rows = append(rows, []string{string(field), i18n.Resolve(item, field, lang)})
	}
	base := item.Base()
	rows = append(rows,
		[]string{"price", base.Price},
		[]string{"rating", fmt.Sprintf("%.1f", base.Rating)},
	)
	if venue, ok := item.(*catalog.Venue); ok {
		rows = append(rows, []string{"capacity", strconv.Itoa(venue.Capacity)})
	}
	if image := base.Image(); image != "" {
		rows = append(rows, []string{"image", image})
	}
	return app.render(rows)
}

func (app *App) runMine(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: mine KIND", ErrUsage)
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	if _, err := app.navigate(ctx, "/profile/services"); err != nil {
		return err
	}

	items, err := app.mine(ctx, kind)
	if err != nil {
		app.notifier.Error(i18n.KeyCatalogLoadFailed)
		return nil
	}
	return app.printItems(items)
}

func (app *App) mine(ctx context.Context, kind catalog.Kind) ([]catalog.Item, error) {
	switch kind {
	case catalog.KindPlaces:
		return asItems(app.api.Venues().Mine(ctx))
	case catalog.KindArtists:
		return asItems(app.api.Artists().Mine(ctx))
	default:
		return asItems(app.api.Rentals().Mine(ctx))
	}
}

func asItems[T catalog.Item](items []T, err error) ([]catalog.Item, error) {
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(item T) catalog.Item { return item }), nil
}

// # Forms

type formFlags struct {
	set         assignments
	image       string
	removeImage bool
	draft       bool
}

func (app *App) parseForm(name string, args []string, edit bool) (*formFlags, error) {
	fs := app.flags(name)
	values := &formFlags{}
	fs.Var(&values.set, "set", "field assignment key=value (repeatable)")
	fs.StringVar(&values.image, "image", "", "local image file")
	if edit {
		fs.BoolVar(&values.removeImage, "remove-image", false, "detach the current image")
	} else {
		fs.BoolVar(&values.draft, "draft", false, "start from the saved draft")
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return values, nil
}

func (app *App) formDeps(kind catalog.Kind) listingform.Dependencies {
	return listingform.Dependencies{
		Collection:  app.api.Collection(kind),
		Uploader:    app.api,
		Drafts:      app.drafts,
		Invalidator: app.lister,
		Notifier:    app.notifier,
		Logger:      app.logger,
		Progress: func(percent int) {
			app.notifier.Info(i18n.KeyImageUploadState, percent)
		},
		ProgressDelay: progressDelay,
	}
}

// apply writes assignments keyed by storage name: "name" fills the base
// (default-language) field, "name_ru" its Russian shadow, anything else a
// plain input.
func (app *App) apply(form *listingform.Form, values assignments) {
	writable := map[string]func(value string){}
	for _, field := range catalog.Fields(form.Kind()) {
		for _, lang := range i18n.Supported() {
			writable[i18n.WritableField(field, lang)] = func(value string) { form.Set(field, lang, value) }
		}
	}

	for _, assignment := range values {
		key, value, _ := strings.Cut(assignment, "=")
		if set, ok := writable[key]; ok {
			set(value)
			continue
		}
		form.SetValue(key, value)
	}
}

// complete walks the wizard to the last step and submits.
func (app *App) complete(ctx context.Context, form *listingform.Form) error {
	for !form.Wizard().IsLast() {
		if err := form.Next(ctx); err != nil {
			if errors.Is(err, wizard.ErrStepInvalid) {
				app.printFieldErrors(form)
			}
			return err
		}
	}

	saved, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "%s\t%s\n", saved.Base().ID, i18n.Resolve(saved, catalog.FieldName, app.api.Language()))
	return nil
}

func (app *App) printFieldErrors(form *listingform.Form) {
	for _, fieldErr := range form.Errors() {
		fmt.Fprintf(app.out, "  %s: %s\n", fieldErr.Field, fieldErr.Message)
	}
}

func (app *App) runCreate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: create KIND", ErrUsage)
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	values, err := app.parseForm("create", args[1:], false)
	if err != nil {
		return err
	}
	if _, err := app.navigate(ctx, "/create-service/"+string(kind)); err != nil {
		return err
	}

	form := listingform.NewCreate(app.formDeps(kind))
	if values.draft {
		if err := form.LoadDraft(ctx); err != nil {
			return err
		}
	}
	app.apply(form, values.set)
	if values.image != "" {
		if err := form.PickFile(values.image); err != nil {
			return err
		}
	}
	return app.complete(ctx, form)
}

func (app *App) runEdit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: edit KIND ID", ErrUsage)
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	id := args[1]
	values, err := app.parseForm("edit", args[2:], true)
	if err != nil {
		return err
	}
	if _, err := app.navigate(ctx, "/edit-service/"+string(kind)+"/"+id); err != nil {
		return err
	}

	form, err := listingform.NewEdit(ctx, app.formDeps(kind), id)
	if err != nil {
		return err
	}
	app.apply(form, values.set)
	if values.removeImage || values.image != "" {
		form.RemoveImage()
	}
	if values.image != "" {
		if err := form.PickFile(values.image); err != nil {
			return err
		}
	}
	return app.complete(ctx, form)
}

func (app *App) runDelete(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: delete KIND ID...", ErrUsage)
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	if _, err := app.navigate(ctx, "/profile/services"); err != nil {
		return err
	}

	deleted := app.console.DeleteItems(ctx, kind, args[1:]...)
	for _, id := range deleted {
		fmt.Fprintln(app.out, id)
	}
	return nil
}

// # Admin

func (app *App) runUsers(ctx context.Context, _ []string) error {
	if _, err := app.navigate(ctx, "/admin"); err != nil {
		return err
	}

	rows := [][]string{{"ID", "Email", "Role", "Name"}}
	for _, user := range app.console.Users(ctx) {
		rows = append(rows, []string{user.ID, user.Email, string(user.Role), pointer.Val(user.FullName)})
	}
	return app.render(rows)
}

func (app *App) runRole(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: role USER_ID ROLE", ErrUsage)
	}
	role, ok := sec.ParseRole(args[1])
	if !ok {
		return fmt.Errorf("%w: unknown role %q", ErrUsage, args[1])
	}
	if _, err := app.navigate(ctx, "/admin"); err != nil {
		return err
	}
	return app.console.ChangeRole(ctx, args[0], role)
}

// # Navigation

func (app *App) runOpen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: open PATH", ErrUsage)
	}
	decision, err := app.navigate(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "%s %s\n", decision.Route.Name, decision.Location)
	return nil
}
