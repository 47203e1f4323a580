// Package attribution decides which provider is credited for a ticket sale.
package attribution

import (
	"strings"

	"github.com/Amitro123/EventPulse/internal/domain"
)

// Rule names the attribution rule that produced a decision
type Rule int

const (
	RuleNone Rule = iota
	RulePrimaryUnavailable
	RuleCrossReference
	RulePrimaryDomain
	RulePrimaryMetadata
	RuleSecondaryURL
	RuleSecondaryDomain
	RuleAnyURL
)

var ruleNames = [...]string{
	RuleNone:               "none",
	RulePrimaryUnavailable: "primary_unavailable",
	RuleCrossReference:     "cross_reference",
	RulePrimaryDomain:      "primary_domain",
	RulePrimaryMetadata:    "primary_metadata",
	RuleSecondaryURL:       "secondary_url",
	RuleSecondaryDomain:    "secondary_domain",
	RuleAnyURL:             "any_url",
}

func (r Rule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return "unknown"
	}
	return ruleNames[r]
}

// Decision is the resolved ticket link and credited provider
type Decision struct {
	URL            string
	HasURL         bool
	TicketProvider domain.ProviderID
	Rule           Rule
}

// Resolver applies the ordered attribution rules
type Resolver struct {
	PrimaryProvider   domain.ProviderID
	SecondaryProvider domain.ProviderID
	PrimaryDomain     string
	SecondaryDomain   string
}

// NewResolver returns a resolver crediting Ticketmaster first and Viagogo second
func NewResolver() *Resolver {
	return &Resolver{
		PrimaryProvider:   domain.ProviderTicketmaster,
		SecondaryProvider: domain.ProviderViagogo,
		PrimaryDomain:     "ticketmaster.",
		SecondaryDomain:   "viagogo.",
	}
}

// Resolve decides the ticket link for ev. crossRefURL is the primary provider's
// link for the same event, or empty when no match was found. The first matching rule wins.
func (r *Resolver) Resolve(ev *domain.Event, crossRefURL string) Decision {
	if ev == nil {
		return Decision{Rule: RuleNone}
	}

	primaryMeta := ev.Provider == r.PrimaryProvider
	url := strings.TrimSpace(ev.URL)

	switch {
	case primaryMeta && !ev.IsAvailable():
		return Decision{TicketProvider: r.PrimaryProvider, Rule: RulePrimaryUnavailable}
	case crossRefURL != "":
		return link(crossRefURL, r.PrimaryProvider, RuleCrossReference)
	case url != "" && containsFold(url, r.PrimaryDomain):
		return link(url, r.PrimaryProvider, RulePrimaryDomain)
	case primaryMeta && url != "":
		return link(url, r.PrimaryProvider, RulePrimaryMetadata)
	case strings.TrimSpace(ev.SecondaryURL) != "":
		return link(ev.SecondaryURL, r.SecondaryProvider, RuleSecondaryURL)
	case url != "" && containsFold(url, r.SecondaryDomain):
		return link(url, r.SecondaryProvider, RuleSecondaryDomain)
	case url != "":
		return link(url, ev.Provider, RuleAnyURL)
	}
	return Decision{Rule: RuleNone}
}

// Apply returns a copy of ev carrying the decision. ev and its metadata provider are left untouched.
func Apply(ev *domain.Event, d Decision) *domain.Event {
	out := ev.Clone()
	if out == nil {
		return nil
	}
	out.URL = d.URL
	out.TicketProvider = d.TicketProvider
	return out
}

func link(url string, p domain.ProviderID, rule Rule) Decision {
	return Decision{URL: url, HasURL: true, TicketProvider: p, Rule: rule}
}

func containsFold(s, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
