package metadata

import (
	"context"

	"github.com/genricoloni/lyra/internal/domain"
	"go.uber.org/zap"
)

// Validation messages
const (
	MsgInvalidURL = "Invalid URL."
	MsgEmptyTitle = "Empty title."
)

// Editable is a Model whose rows can be edited, validated and persisted.
// Validation runs after every structural change of the rows.
type Editable struct {
	*Model

	dirty        bool
	valid        bool
	errorMessage string
}

// NewEditable creates an empty editable model
func NewEditable(
	logger *zap.Logger,
	loader domain.DataLoader,
	scanner domain.MediaScanner,
	dispatcher domain.Dispatcher,
	opts ...Option,
) *Editable {
	e := &Editable{
		Model: New(logger, loader, scanner, dispatcher, opts...),
	}
	e.Model.afterChange = e.validate
	return e
}

// Write stores v at row. The first change while clean marks the model
// dirty; validation runs after every change.
func (e *Editable) Write(row int, v domain.FieldValue) bool {
	if !e.Model.Write(row, v) {
		return false
	}

	if !e.dirty {
		e.dirty = true
		e.emit(Event{Kind: EventDirtyChanged})
	}

	e.validate()
	return true
}

// IsDirty reports whether the rows hold unsaved edits
func (e *Editable) IsDirty() bool { return e.dirty }

// IsValid reports the result of the last validation pass
func (e *Editable) IsValid() bool { return e.valid }

// ErrorMessage returns the first rule violated by the last validation
// pass, or the empty string when valid.
func (e *Editable) ErrorMessage() string { return e.errorMessage }

// Save sends the rows to storage as an insert or update. The resource is
// normalized into an absolute URL and a scheme-less cover path is turned
// into a file URL. The stored record is delivered back into the model.
func (e *Editable) Save(ctx context.Context) {
	if e.dirty {
		e.dirty = false
		e.emit(Event{Kind: EventDirtyChanged})
	}

	snapshot := domain.Record{Kind: e.kind, Fields: e.visible.Clone()}

	if v, ok := snapshot.Fields.Get(domain.FieldResource); ok {
		snapshot.Fields.Set(domain.FieldResource, domain.URLValue(URLFromUserInput(v.String())))
	}

	if image := e.DataFor(domain.FieldImageURL).String(); image != "" {
		if !hasImageScheme(image) {
			image = "file:/" + image
		}
		snapshot.Fields.Set(domain.FieldImageURL, domain.URLValue(image))
	}

	e.logger.Info("Saving entry",
		zap.Stringer("kind", snapshot.Kind),
		zap.Int64("id", snapshot.ID()))

	reply := e.replyFor(e.loadGen)
	e.loader.Save(ctx, snapshot, func(saved domain.Record, err error) {
		if err != nil {
			e.logger.Error("Failed to save entry", zap.Error(err))
			return
		}
		reply(saved)
	})
}

// DeleteEntry removes the held entry from storage. Entries that were never
// persisted are left alone.
func (e *Editable) DeleteEntry(ctx context.Context) {
	id := e.databaseID
	if id < 0 {
		return
	}

	e.logger.Info("Deleting entry",
		zap.Stringer("kind", e.kind),
		zap.Int64("id", id))

	e.loader.Delete(ctx, e.kind, id, func(err error) {
		if err != nil {
			e.logger.Error("Failed to delete entry", zap.Int64("id", id), zap.Error(err))
		}
	})
}

// validate checks the resource then the title; only the first violation is
// reported.
func (e *Editable) validate() {
	valid := true
	message := ""

	switch {
	case !isAbsoluteURL(e.DataFor(domain.FieldResource)):
		valid = false
		message = MsgInvalidURL
	case e.DataFor(domain.FieldTitle).String() == "":
		valid = false
		message = MsgEmptyTitle
	}

	if message != e.errorMessage {
		e.errorMessage = message
		e.emit(Event{Kind: EventErrorMessageChanged})
	}

	if valid != e.valid {
		e.valid = valid
		e.emit(Event{Kind: EventValidityChanged})
	}
}
