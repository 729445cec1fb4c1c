// Package labels localizes the labels and warnings of a field plan. Message
// IDs come from the plan itself; English text on the plan is the fallback.
package labels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"payoutkyc/internal/compliance/models"
)

//go:embed locales/*.json
var localeFS embed.FS

// Localizer translates plans. It is safe for concurrent use.
type Localizer struct {
	bundle    *i18n.Bundle
	languages []language.Tag
	logger    *slog.Logger
}

// New loads every embedded locales/active.<lang>.json file.
func New(logger *slog.Logger) (*Localizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("reading locales: %w", err)
	}

	var langs []language.Tag
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			logger.Debug("skipping locale file", "file", name)
			continue
		}
		mf, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name)
		if err != nil {
			return nil, fmt.Errorf("loading locale %s: %w", name, err)
		}
		langs = append(langs, mf.Tag)
	}

	return &Localizer{bundle: bundle, languages: langs, logger: logger}, nil
}

// Languages lists the loaded locales.
func (l *Localizer) Languages() []language.Tag {
	return append([]language.Tag(nil), l.languages...)
}

// Localize returns a copy of plan with labels and warnings translated for the
// first supported language in langs (Accept-Language values or tags).
func (l *Localizer) Localize(plan models.FieldPlan, langs ...string) models.FieldPlan {
	loc := i18n.NewLocalizer(l.bundle, langs...)

	out := models.FieldPlan{
		Fields:   make([]models.FieldSpec, len(plan.Fields)),
		Warnings: make([]models.Warning, len(plan.Warnings)),
	}
	for i, f := range plan.Fields {
		f.Label = l.translate(loc, f.LabelID, f.Label)
		out.Fields[i] = f
	}
	for i, w := range plan.Warnings {
		w.Message = l.translate(loc, w.MessageID, w.Message)
		out.Warnings[i] = w
	}
	return out
}

func (l *Localizer) translate(loc *i18n.Localizer, id, fallback string) string {
	if id == "" {
		return fallback
	}
	msg, err := loc.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: id, Other: fallback},
	})
	if msg != "" {
		return msg
	}
	if err != nil {
		l.logger.Debug("label translation missing", "message_id", id, "error", err)
	}
	return fallback
}
