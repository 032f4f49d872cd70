package driving

import "github.com/custodia-labs/campus-assistant/internal/core/domain"

// SettingsService reads application settings.
type SettingsService interface {
	// Get returns the effective settings, defaults applied.
	Get() (*domain.AppSettings, error)
}
