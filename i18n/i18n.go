// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

// Package i18n holds the user facing strings and their translations.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys, in English.
const (
	NoAddress  = "No address at this location..."
	ErrorTitle = "French Locator Filter Error"
	PluginName = "French Locator Filter"
)

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

func init() {
	for key, fr := range map[string]string{
		NoAddress:  "Aucune adresse à cet endroit...",
		ErrorTitle: "Erreur du localisateur français",
		PluginName: "Localisateur français",
	} {
		if err := message.SetString(language.French, key, fr); err != nil {
			panic(err)
		}
	}
}

// Translator renders message keys in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for a locale such as "fr_FR", "fr" or "en-GB".
// Like the host application, only the two letter language prefix is
// considered; unknown languages fall back to English.
func New(locale string) *Translator {
	if len(locale) > 2 {
		locale = locale[:2]
	}

	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		if _, idx, conf := matcher.Match(parsed); conf != language.No {
			tag = supported[idx]
		}
	}

	return &Translator{tag: tag, printer: message.NewPrinter(tag)}
}

// Language returns the selected language.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// Tr translates key.
func (t *Translator) Tr(key string) string {
	return t.printer.Sprintf(key)
}
