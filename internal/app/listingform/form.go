// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package listingform binds a [wizard.Wizard] to the fields of one catalog kind.

A form runs in create mode (owner = caller, drafts available) or in edit mode
(loaded from an existing row, no drafts). Localizable inputs are written per
language: the default language fills the base field, the other language its
shadow field.

# Image

At most one image. A picked file is checked against the 5 MiB and image-type
rules, previewed from its local path and given a cosmetic progress run. The
file is only uploaded on submit; its public URL then replaces the preview.
*/
package listingform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/toikana/marketplace/internal/app/draft"
	"github.com/toikana/marketplace/internal/app/notify"
	"github.com/toikana/marketplace/internal/app/wizard"
	"github.com/toikana/marketplace/internal/catalog"
	"github.com/toikana/marketplace/internal/client"
	"github.com/toikana/marketplace/internal/platform/i18n"
	"github.com/toikana/marketplace/internal/upload"
	"github.com/toikana/marketplace/pkg/media"
)

// Mode distinguishes new records from edits.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// # Collaborators

// Collection is the write side of one catalog kind.
type Collection interface {
	Kind() catalog.Kind
	Item(ctx context.Context, id string) (catalog.Item, error)
	CreateItem(ctx context.Context, fields map[string]any) (catalog.Item, error)
	UpdateItem(ctx context.Context, id string, fields map[string]any) (catalog.Item, error)
}

// Uploader stores listing images.
type Uploader interface {
	UploadImage(ctx context.Context, kind catalog.Kind, filename, contentType string, data []byte) (*upload.Result, error)
}

// Drafts persists create-mode snapshots. Implemented by [draft.Store].
type Drafts interface {
	Save(ctx context.Context, kind catalog.Kind, snapshot draft.Draft) error
	Load(ctx context.Context, kind catalog.Kind) (draft.Draft, bool, error)
	Clear(ctx context.Context, kind catalog.Kind) error
}

// Invalidator drops cached collections after a save.
type Invalidator interface {
	Invalidate(kind catalog.Kind)
}

// Dependencies wires a [Form].
type Dependencies struct {
	Collection  Collection
	Uploader    Uploader
	Drafts      Drafts
	Invalidator Invalidator
	Notifier    *notify.Notifier
	Logger      *slog.Logger

	// Progress receives the simulated upload percentage after a file is picked.
	Progress func(percent int)

	// ProgressDelay paces the simulated progress. Zero runs it instantly.
	ProgressDelay time.Duration

	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Errors returned alongside a notification.
var (
	ErrImageLimit = errors.New("listingform: an image is already attached")
	ErrEditDraft  = errors.New("listingform: drafts are only kept for new listings")
)

// PendingImage is a picked file waiting for submit.
type PendingImage struct {
	Path        string
	ContentType string
	Data        []byte
}

// Form is one create or edit session.
type Form struct {
	deps   Dependencies
	kind   catalog.Kind
	mode   Mode
	id     string
	steps  []layout
	values map[string]string

	pending  *PendingImage
	imageURL string

	wizard *wizard.Wizard
}

// NewCreate opens an empty form for a new listing of the collection's kind.
func NewCreate(deps Dependencies) *Form {
	form := newForm(deps, ModeCreate, "")
	form.wizard = wizard.New(form.wizardSteps(), deps.Notifier, wizard.WithDraft(form.SaveDraft))
	return form
}

// NewEdit opens the listing id for editing.
func NewEdit(ctx context.Context, deps Dependencies, id string) (*Form, error) {
	item, err := deps.Collection.Item(ctx, id)
	if err != nil {
		deps.Notifier.Error(i18n.KeyErrNotFound)
		return nil, err
	}

	form := newForm(deps, ModeEdit, id)
	form.fill(item)
	form.wizard = wizard.New(form.wizardSteps(), deps.Notifier)
	return form, nil
}

func newForm(deps Dependencies, mode Mode, id string) *Form {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard()
	}
	if deps.ReadFile == nil {
		deps.ReadFile = os.ReadFile
	}

	kind := deps.Collection.Kind()
	return &Form{
		deps:   deps,
		kind:   kind,
		mode:   mode,
		id:     id,
		steps:  layouts(kind),
		values: map[string]string{},
	}
}

func (form *Form) wizardSteps() []wizard.Step {
	steps := make([]wizard.Step, len(form.steps))
	for i, step := range form.steps {
		steps[i] = wizard.Step{
			ID:    step.id,
			Title: i18n.KeyStepPrefix + step.id,
			Valid: func() bool { return len(form.check(step)) == 0 },
		}
	}
	return steps
}

// fill copies an existing row into the form values.
func (form *Form) fill(item catalog.Item) {
	for _, field := range catalog.Fields(form.kind) {
		text, ok := item.Localized(field)
		if !ok {
			continue
		}
		for _, lang := range i18n.Supported() {
			key := i18n.WritableField(field, lang)
			if lang.IsDefault() {
				form.values[key] = text.Base
			} else if shadow := text.Shadow(lang); shadow != nil {
				form.values[key] = *shadow
			}
		}
	}

	base := item.Base()
	form.values[FieldPrice] = base.Price
	form.imageURL = base.Image()
	if venue, ok := item.(*catalog.Venue); ok {
		form.values[FieldCapacity] = strconv.Itoa(venue.Capacity)
	}
}

// # Accessors

// Kind returns the catalog kind of the form.
func (form *Form) Kind() catalog.Kind { return form.kind }

// Mode returns create or edit.
func (form *Form) Mode() Mode { return form.mode }

// Wizard exposes step navigation.
func (form *Form) Wizard() *wizard.Wizard { return form.wizard }

// Inputs lists the writable keys of the current step for lang.
func (form *Form) Inputs(lang i18n.Language) []string {
	step := form.steps[form.wizard.Index()]
	inputs := make([]string, 0, len(step.localized)+len(step.plain))
	for _, field := range step.localized {
		inputs = append(inputs, i18n.WritableField(field, lang))
	}
	return append(inputs, step.plain...)
}

// Values returns a copy of the form values keyed by writable field name.
func (form *Form) Values() map[string]string {
	out := make(map[string]string, len(form.values))
	for key, value := range form.values {
		out[key] = value
	}
	return out
}

// Value returns the text typed into field for lang.
func (form *Form) Value(field i18n.Field, lang i18n.Language) string {
	return form.values[i18n.WritableField(field, lang)]
}

// Set writes a localizable input in lang.
func (form *Form) Set(field i18n.Field, lang i18n.Language, value string) {
	form.values[i18n.WritableField(field, lang)] = value
}

// SetValue writes a non-localized input (price, capacity).
func (form *Form) SetValue(name, value string) {
	form.values[name] = value
}

// Errors returns the field errors of the current step.
func (form *Form) Errors() []*client.ValidationError {
	return form.check(form.steps[form.wizard.Index()])
}

func (form *Form) check(step layout) []*client.ValidationError {
	return checkStep(form.deps.Notifier.Language(), step, form.values)
}

// # Navigation

// Next advances when the current step is valid (and saves a draft in create mode).
func (form *Form) Next(ctx context.Context) error { return form.wizard.Next(ctx) }

// Previous goes back one step.
func (form *Form) Previous() error { return form.wizard.Previous() }

// GoTo jumps to a step index.
func (form *Form) GoTo(index int) error { return form.wizard.GoTo(index) }

// # Image

// Preview returns what the image slot shows: the local path of a pending
// file, else the stored URL.
func (form *Form) Preview() string {
	if form.pending != nil {
		return form.pending.Path
	}
	return form.imageURL
}

// Pending returns the picked file waiting for submit, or nil.
func (form *Form) Pending() *PendingImage { return form.pending }

// ImageURL returns the stored image URL.
func (form *Form) ImageURL() string { return form.imageURL }

/*
PickImage attaches a local file.

A rejected file leaves the previous image state untouched and notifies the
reason. The progress callback runs to 100 before PickImage returns.
*/
func (form *Form) PickImage(path, contentType string, data []byte) error {
	if form.pending != nil || form.imageURL != "" {
		form.deps.Notifier.Error(i18n.KeyImageLimit)
		return ErrImageLimit
	}

	if err := client.CheckImage(int64(len(data)), contentType); err != nil {
		var uploadErr *client.UploadError
		switch {
		case !errors.As(err, &uploadErr):
			form.deps.Notifier.Error(i18n.KeyImageNotImage)
		case uploadErr.Reason == i18n.KeyImageTooLarge:
			form.deps.Notifier.Error(uploadErr.Reason, media.MaxImageSizeMB)
		default:
			form.deps.Notifier.Error(uploadErr.Reason)
		}
		return err
	}

	form.pending = &PendingImage{Path: path, ContentType: contentType, Data: data}
	form.simulateProgress()
	return nil
}

// PickFile reads path from disk and attaches it with [Form.PickImage].
func (form *Form) PickFile(path string) error {
	data, err := form.deps.ReadFile(path)
	if err != nil {
		form.deps.Notifier.Error(i18n.KeyImageUploadFail)
		return &client.UploadError{Reason: i18n.KeyImageUploadFail, Cause: err}
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return form.PickImage(path, media.DetectContentType(path, head), data)
}

// RemoveImage detaches both the pending file and the stored URL.
func (form *Form) RemoveImage() {
	form.pending = nil
	form.imageURL = ""
}

func (form *Form) simulateProgress() {
	if form.deps.Progress == nil {
		return
	}
	for percent := 20; percent <= 100; percent += 20 {
		if form.deps.ProgressDelay > 0 {
			time.Sleep(form.deps.ProgressDelay)
		}
		form.deps.Progress(percent)
	}
}

// # Drafts

// SaveDraft stores the values and the image reference. Edit forms have no
// drafts and return [ErrEditDraft].
func (form *Form) SaveDraft(ctx context.Context) error {
	if form.mode != ModeCreate {
		return ErrEditDraft
	}
	return form.deps.Drafts.Save(ctx, form.kind, draft.Draft{Values: form.Values(), Image: form.Preview()})
}

// LoadDraft overwrites the form with the stored draft, notifying when there
// is none.
func (form *Form) LoadDraft(ctx context.Context) error {
	if form.mode != ModeCreate {
		return ErrEditDraft
	}

	snapshot, found, err := form.deps.Drafts.Load(ctx, form.kind)
	if err != nil {
		form.deps.Notifier.Error(i18n.KeyDraftFailed)
		return err
	}
	if !found {
		form.deps.Notifier.Info(i18n.KeyDraftNotFound)
		return nil
	}

	form.values = snapshot.Values
	form.pending, form.imageURL = nil, ""

	switch ref := snapshot.Image; {
	case ref == "":
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		form.imageURL = ref
	default:
		if err := form.PickFile(ref); err != nil {
			form.deps.Logger.WarnContext(ctx, "draft_image_unavailable",
				slog.String("path", ref),
				slog.Any("error", err),
			)
		}
	}

	form.deps.Notifier.Success(i18n.KeyDraftLoaded)
	return nil
}

// ClearDraft removes the stored draft.
func (form *Form) ClearDraft(ctx context.Context) error {
	if form.mode != ModeCreate {
		return ErrEditDraft
	}
	return form.deps.Drafts.Clear(ctx, form.kind)
}

// # Submit

/*
Submit validates every step, uploads the pending image and saves the listing.

  - Upload failure: notified, the pending file stays attached, nothing saved.
  - Save failure: notified; an uploaded URL is kept so a retry does not
    upload again.
  - Create success: the draft is cleared.

The wizard index is unchanged; the caller navigates afterwards.
*/
func (form *Form) Submit(ctx context.Context) (catalog.Item, error) {
	var saved catalog.Item

	err := form.wizard.Submit(ctx, func(ctx context.Context) error {
		if err := form.uploadPending(ctx); err != nil {
			return err
		}

		var err error
		if form.mode == ModeCreate {
			saved, err = form.deps.Collection.CreateItem(ctx, form.payload())
		} else {
			saved, err = form.deps.Collection.UpdateItem(ctx, form.id, form.payload())
		}
		if err != nil {
			form.deps.Logger.WarnContext(ctx, "listing_save_failed",
				slog.String("kind", string(form.kind)),
				slog.String("mode", string(form.mode)),
				slog.Any("error", err),
			)
			form.deps.Notifier.Error(i18n.KeyCatalogSaveFailed)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if form.deps.Invalidator != nil {
		form.deps.Invalidator.Invalidate(form.kind)
	}

	if form.mode == ModeCreate {
		if err := form.deps.Drafts.Clear(ctx, form.kind); err != nil {
			form.deps.Logger.WarnContext(ctx, "draft_clear_failed", slog.Any("error", err))
		}
		form.deps.Notifier.Success(i18n.KeyCatalogCreated)
	} else {
		form.deps.Notifier.Success(i18n.KeyCatalogUpdated)
	}

	return saved, nil
}

func (form *Form) uploadPending(ctx context.Context) error {
	if form.pending == nil {
		return nil
	}

	result, err := form.deps.Uploader.UploadImage(ctx, form.kind, filepath.Base(form.pending.Path), form.pending.ContentType, form.pending.Data)
	if err != nil {
		form.deps.Notifier.Error(i18n.KeyImageUploadFail)
		return &client.UploadError{Reason: i18n.KeyImageUploadFail, Cause: err}
	}

	form.imageURL = result.URL
	form.pending = nil
	return nil
}

// payload builds the request body.
//
// Create omits empty optional inputs. Edit sends every input so a cleared
// shadow field is stored as null.
func (form *Form) payload() map[string]any {
	fields := map[string]any{}

	for _, field := range catalog.Fields(form.kind) {
		for _, lang := range i18n.Supported() {
			key := i18n.WritableField(field, lang)
			value := strings.TrimSpace(form.values[key])

			switch {
			case lang.IsDefault():
				if value != "" || form.mode == ModeEdit {
					fields[key] = value
				}
			case value != "":
				fields[key] = value
			case form.mode == ModeEdit:
				fields[key] = nil
			}
		}
	}

	fields[FieldPrice] = strings.TrimSpace(form.values[FieldPrice])

	if form.kind == catalog.KindPlaces {
		if capacity, err := strconv.Atoi(strings.TrimSpace(form.values[FieldCapacity])); err == nil {
			fields[FieldCapacity] = capacity
		} else if form.mode == ModeEdit {
			fields[FieldCapacity] = 0
		}
	}

	if form.imageURL != "" {
		fields[catalog.FieldImageURL] = form.imageURL
	} else if form.mode == ModeEdit {
		fields[catalog.FieldImageURL] = nil
	}

	return fields
}

// String identifies the form in logs.
func (form *Form) String() string {
	if form.mode == ModeEdit {
		return fmt.Sprintf("%s:%s:%s", form.mode, form.kind, form.id)
	}
	return fmt.Sprintf("%s:%s", form.mode, form.kind)
}
