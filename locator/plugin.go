// Copyright 2025 The FraLocator Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"fmt"
	"sync"

	"github.com/fralocator/fralocator/adresse"
	"github.com/fralocator/fralocator/i18n"
	"github.com/sirupsen/logrus"
)

// Plugin wires the filter and the reverse geocoding dock into a host.
type Plugin struct {
	host     Host
	client   *adresse.Client
	registry *Registry
	tr       *i18n.Translator
	filter   *FrenchFilter
	log      *logrus.Entry

	mu   sync.Mutex
	dock *Dock
}

// NewPlugin creates the plugin and registers its filter.
func NewPlugin(host Host, client *adresse.Client, registry *Registry, tr *i18n.Translator) (*Plugin, error) {
	if tr == nil {
		tr = i18n.New("")
	}

	p := &Plugin{
		host:     host,
		client:   client,
		registry: registry,
		tr:       tr,
		filter:   NewFrenchFilter(host, client),
		log:      logrus.WithField("filter", "LocatorFilterPlugin"),
	}

	if err := registry.Register(p.filter); err != nil {
		return nil, fmt.Errorf("registering %s: %w", p.filter.Name(), err)
	}

	return p, nil
}

// Filter returns the registered filter.
func (p *Plugin) Filter() *FrenchFilter {
	return p.filter
}

// Translator returns the plugin's UI language.
func (p *Plugin) Translator() *i18n.Translator {
	return p.tr
}

// ShowProblem pushes message to the host's message bar as a warning.
func (p *Plugin) ShowProblem(message string) {
	p.host.MessageBar().Warn(p.tr.Tr(i18n.ErrorTitle), message)
}

// Feedback returns a Feedback sending results to onResult and problems to
// the host's message bar.
func (p *Plugin) Feedback(onResult func(Result)) Feedback {
	return FeedbackFuncs{OnResult: onResult, OnProblem: p.ShowProblem}
}

// Run opens the dock, creating it on first use.
func (p *Plugin) Run() *Dock {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.dock == nil {
		p.dock = NewDock(p.host.MapCanvas(), p.client, p.ShowProblem, p.tr)
		p.log.Debug("Dock created")
	}

	return p.dock
}

// Close disarms the dock, giving the canvas its previous tool back.
func (p *Plugin) Close() {
	p.mu.Lock()
	dock := p.dock
	p.mu.Unlock()

	if dock != nil {
		dock.SetClickMode(false)
	}
}

// Unload closes the dock and deregisters the filter.
func (p *Plugin) Unload() {
	p.Close()
	p.registry.Deregister(p.filter)
}
