// Package locator finds volatile UI elements through a tiered,
// multi-strategy search.
//
// A semantic role ("title field", "submit button") maps to an ordered
// list of strategies, tried cheapest and most specific first. Later
// strategies trade precision for recall: the final scan strategy walks
// every plausible element on the page and scores it by keyword overlap,
// so a markup change that breaks an exact selector usually still
// resolves through a later tier.
package locator

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Kind identifies a query strategy.
type Kind string

const (
	// KindCSS matches a CSS selector.
	KindCSS Kind = "css"

	// KindXPath matches an XPath expression.
	KindXPath Kind = "xpath"

	// KindRole matches an ARIA role with an accessible-name substring,
	// pattern form "role:name" (name optional).
	KindRole Kind = "role"

	// KindText matches visible text content.
	KindText Kind = "text"

	// KindScan enumerates candidate elements and scores them by keyword
	// overlap across placeholder, id, name, class and text. Pattern is a
	// whitespace-separated keyword list.
	KindScan Kind = "scan"
)

// Strategy is one query attempt for a semantic role.
type Strategy struct {
	Kind    Kind
	Pattern string
}

// Spec is the ordered strategy list for one semantic role. Immutable;
// defined per platform and per role.
type Spec []Strategy

// CSS builds a css strategy.
func CSS(pattern string) Strategy { return Strategy{Kind: KindCSS, Pattern: pattern} }

// XPath builds an xpath strategy.
func XPath(pattern string) Strategy { return Strategy{Kind: KindXPath, Pattern: pattern} }

// Role builds an aria-role strategy.
func Role(pattern string) Strategy { return Strategy{Kind: KindRole, Pattern: pattern} }

// Text builds a text-content strategy.
func Text(pattern string) Strategy { return Strategy{Kind: KindText, Pattern: pattern} }

// Scan builds a keyword-scan strategy.
func Scan(keywords string) Strategy { return Strategy{Kind: KindScan, Pattern: keywords} }

// Options configures a Find call.
type Options struct {
	// Timeout bounds the whole search. Zero or negative means a single
	// pass over the strategies with no polling.
	Timeout time.Duration

	// PollInterval is the fixed delay between passes.
	PollInterval time.Duration
}

// DefaultPollInterval is used when Options.PollInterval is zero.
const DefaultPollInterval = 250 * time.Millisecond

// Find evaluates the spec's strategies in order, polling until the
// timeout, and returns the first present, visible and enabled match.
// It returns (nil, false) when nothing matches; absence is for the
// caller to judge, so Find never returns an error.
func Find(ctx context.Context, page playwright.Page, spec Spec, opts Options) (playwright.Locator, bool) {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	deadline := time.Now().Add(opts.Timeout)
	for {
		for _, strategy := range spec {
			if loc, ok := tryStrategy(page, strategy); ok {
				return loc, true
			}
		}

		if opts.Timeout <= 0 || time.Now().After(deadline) {
			return nil, false
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(interval):
		}
	}
}

// tryStrategy resolves one strategy against the current DOM.
func tryStrategy(page playwright.Page, strategy Strategy) (playwright.Locator, bool) {
	switch strategy.Kind {
	case KindCSS:
		return firstUsable(page.Locator(strategy.Pattern))
	case KindXPath:
		return firstUsable(page.Locator("xpath=" + strategy.Pattern))
	case KindRole:
		role, name := splitRolePattern(strategy.Pattern)
		roleOpts := playwright.PageGetByRoleOptions{}
		if name != "" {
			roleOpts.Name = name
		}
		return firstUsable(page.GetByRole(playwright.AriaRole(role), roleOpts))
	case KindText:
		return firstUsable(page.GetByText(strategy.Pattern))
	case KindScan:
		return scanPage(page, strategy.Pattern)
	default:
		return nil, false
	}
}

// firstUsable walks the locator's matches in document order and returns
// the first one that is visible and enabled.
func firstUsable(loc playwright.Locator) (playwright.Locator, bool) {
	count, err := loc.Count()
	if err != nil || count == 0 {
		return nil, false
	}
	for i := 0; i < count; i++ {
		candidate := loc.Nth(i)
		if usable(candidate) {
			return candidate, true
		}
	}
	return nil, false
}

func usable(loc playwright.Locator) bool {
	visible, err := loc.IsVisible()
	if err != nil || !visible {
		return false
	}
	enabled, err := loc.IsEnabled()
	return err == nil && enabled
}

func splitRolePattern(pattern string) (role, name string) {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == ':' {
			return pattern[:i], pattern[i+1:]
		}
	}
	return pattern, ""
}
