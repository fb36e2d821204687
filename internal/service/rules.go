package service

import (
	"context"

	"github.com/iliyamo/library-portal/internal/repository"
)

// Setting keys recognized in the portal_settings table.
const (
	SettingExtensionDays       = "extension_days"         // UI default for the requested date, not enforced
	SettingMaxExtensions       = "max_extensions"         // extensions granted per borrowing record
	SettingMinDaysBeforeExpiry = "min_days_before_expiry" // request window opens this close to the due date
	SettingMaxExtensionDays    = "max_extension_days"     // hard cap on a single extension's length
)

// PortalRules carries the resolved business-rule values for one
// evaluation.  The struct is passed explicitly into the eligibility
// evaluator and the lifecycle so both stay testable without any ambient
// settings store.
type PortalRules struct {
	ExtensionDays       int `json:"extension_days"`
	MaxExtensions       int `json:"max_extensions"`
	MinDaysBeforeExpiry int `json:"min_days_before_expiry"`
	MaxExtensionDays    int `json:"max_extension_days"`
}

// DefaultRules returns the built-in fallbacks used when a settings key is
// absent.
func DefaultRules() PortalRules {
	return PortalRules{
		ExtensionDays:       14,
		MaxExtensions:       2,
		MinDaysBeforeExpiry: 3,
		MaxExtensionDays:    14,
	}
}

// RulesProvider resolves PortalRules from the settings repository, key by
// key, falling back to defaults for missing values.
type RulesProvider struct {
	settings *repository.SettingsRepo
}

// NewRulesProvider returns a RulesProvider backed by the given repo.
func NewRulesProvider(settings *repository.SettingsRepo) *RulesProvider {
	return &RulesProvider{settings: settings}
}

// Load reads the current rule values.  Values are read fresh on each call
// (modulo the short settings cache, which is invalidated on write).
func (p *RulesProvider) Load(ctx context.Context) (PortalRules, error) {
	def := DefaultRules()
	var (
		rules PortalRules
		err   error
	)
	if rules.ExtensionDays, err = p.settings.GetInt(ctx, SettingExtensionDays, def.ExtensionDays); err != nil {
		return def, err
	}
	if rules.MaxExtensions, err = p.settings.GetInt(ctx, SettingMaxExtensions, def.MaxExtensions); err != nil {
		return def, err
	}
	if rules.MinDaysBeforeExpiry, err = p.settings.GetInt(ctx, SettingMinDaysBeforeExpiry, def.MinDaysBeforeExpiry); err != nil {
		return def, err
	}
	if rules.MaxExtensionDays, err = p.settings.GetInt(ctx, SettingMaxExtensionDays, def.MaxExtensionDays); err != nil {
		return def, err
	}
	return rules, nil
}

// Save writes the rule values back to the settings store, invalidating
// the cache entry for each key.
func (p *RulesProvider) Save(ctx context.Context, rules PortalRules) error {
	if err := p.settings.SetInt(ctx, SettingExtensionDays, rules.ExtensionDays); err != nil {
		return err
	}
	if err := p.settings.SetInt(ctx, SettingMaxExtensions, rules.MaxExtensions); err != nil {
		return err
	}
	if err := p.settings.SetInt(ctx, SettingMinDaysBeforeExpiry, rules.MinDaysBeforeExpiry); err != nil {
		return err
	}
	return p.settings.SetInt(ctx, SettingMaxExtensionDays, rules.MaxExtensionDays)
}
