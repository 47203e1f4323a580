package provider

import (
	"fmt"
	"strings"

	"github.com/Amitro123/EventPulse/internal/domain"
	"github.com/Amitro123/EventPulse/pkg/config"
	"github.com/Amitro123/EventPulse/pkg/logger"
)

// NewFromConfig builds a single adapter by provider name
func NewFromConfig(name string, cfg *config.Config, opts Options, log *logger.Logger) (Adapter, error) {
	switch domain.ProviderID(strings.ToLower(strings.TrimSpace(name))) {
	case domain.ProviderTicketmaster:
		return NewTicketmaster(cfg.Ticketmaster, opts, log), nil
	case domain.ProviderViagogo:
		return NewViagogo(cfg.Viagogo, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// NewChain builds the adapters in collector priority order
func NewChain(cfg *config.Config, opts Options, log *logger.Logger) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(cfg.Collector.Order))
	seen := make(map[string]bool, len(cfg.Collector.Order))
	for _, name := range cfg.Collector.Order {
		if seen[name] {
			return nil, fmt.Errorf("provider %q listed twice", name)
		}
		seen[name] = true

		a, err := NewFromConfig(name, cfg, opts, log)
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}

// SupportedProviders lists the names NewFromConfig accepts
func SupportedProviders() []domain.ProviderID {
	return []domain.ProviderID{domain.ProviderTicketmaster, domain.ProviderViagogo}
}
