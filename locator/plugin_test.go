// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"
	"testing"

	"github.com/fralocator/fralocator/adresse"
	"github.com/fralocator/fralocator/i18n"
	"github.com/fralocator/fralocator/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginLifecycle(t *testing.T) {
	api := newAPIServer(t, 200, reverseResponse)
	host := newFakeHost(spatial.WGS84)
	pan := &otherTool{}
	host.canvas.tool = pan
	registry := NewRegistry()

	p, err := NewPlugin(host, api.client(), registry, nil)
	require.NoError(t, err)

	f, ok := registry.Lookup("fra")
	require.True(t, ok)
	assert.Same(t, p.Filter(), f)

	_, err = NewPlugin(host, api.client(), registry, nil)
	require.Error(t, err)

	dock := p.Run()
	assert.Same(t, dock, p.Run())

	dock.SetClickMode(true)
	host.canvas.click(400, 300)
	assert.Equal(t, "2 Place de l'Hôtel de Ville 75004 Paris", dock.Address())

	p.Unload()
	assert.Equal(t, Idle, dock.Mode())
	assert.Same(t, pan, host.canvas.tool)

	_, ok = registry.Lookup("fra")
	assert.False(t, ok)
}

func TestPluginCloseWithoutDock(t *testing.T) {
	host := newFakeHost(spatial.WGS84)
	p, err := NewPlugin(host, adresse.NewClient(nil), NewRegistry(), nil)
	require.NoError(t, err)

	assert.NotPanics(t, p.Close)
	assert.Zero(t, host.canvas.toolSets)
}

func TestPluginShowProblem(t *testing.T) {
	tests := []struct {
		locale string
		title  string
	}{
		{"en_US", "French Locator Filter Error"},
		{"fr_FR", i18n.New("fr").Tr(i18n.ErrorTitle)},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			host := newFakeHost(spatial.WGS84)
			p, err := NewPlugin(host, adresse.NewClient(nil), NewRegistry(), i18n.New(tt.locale))
			require.NoError(t, err)

			p.ShowProblem("connection failed: refused")

			assert.Equal(t, []warning{{Title: tt.title, Message: "connection failed: refused"}}, host.bar.warnings)
		})
	}
}

func TestPluginFeedback(t *testing.T) {
	client := adresse.NewClient(&adresse.Options{
		Transport: failingTransport{err: errors.New("boom")},
	})
	host := newFakeHost(spatial.WGS84)
	p, err := NewPlugin(host, client, NewRegistry(), nil)
	require.NoError(t, err)

	var results []Result
	p.Filter().FetchResults(context.Background(), "paris", p.Feedback(func(r Result) {
		results = append(results, r)
	}))

	assert.Empty(t, results)
	require.Len(t, host.bar.warnings, 1)
	assert.Equal(t, "French Locator Filter Error", host.bar.warnings[0].Title)
	assert.Contains(t, host.bar.warnings[0].Message, "boom")
}

func TestPluginDockReportsToMessageBar(t *testing.T) {
	client := adresse.NewClient(&adresse.Options{
		Transport: failingTransport{err: errors.New("boom")},
	})
	host := newFakeHost(spatial.WGS84)
	p, err := NewPlugin(host, client, NewRegistry(), nil)
	require.NoError(t, err)

	dock := p.Run()
	dock.SetClickMode(true)
	host.canvas.click(10, 10)

	require.Len(t, host.bar.warnings, 1)
	assert.Contains(t, host.bar.warnings[0].Message, "boom")
}
