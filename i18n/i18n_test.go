// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestTranslator(t *testing.T) {
	tests := []struct {
		locale string
		lang   language.Tag
		want   string
	}{
		{locale: "", lang: language.English, want: "No address at this location..."},
		{locale: "en_US", lang: language.English, want: "No address at this location..."},
		{locale: "fr_FR", lang: language.French, want: "Aucune adresse à cet endroit..."},
		{locale: "fr", lang: language.French, want: "Aucune adresse à cet endroit..."},
		{locale: "de_DE", lang: language.English, want: "No address at this location..."},
		{locale: "??", lang: language.English, want: "No address at this location..."},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			tr := New(tt.locale)
			assert.Equal(t, tt.lang, tr.Language())
			assert.Equal(t, tt.want, tr.Tr(NoAddress))
		})
	}
}

func TestTranslatorUnknownKey(t *testing.T) {
	assert.Equal(t, "Nothing to translate", New("fr").Tr("Nothing to translate"))
}
