package workflow

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/crosspub/crosspub/pkg/locator"
)

// Definition describes one target platform as data: URLs, the semantic
// role to locator-spec table, field limits and result signals. Adding a
// platform means adding a Definition, not new control flow.
type Definition struct {
	// Name is the platform key, also used by the session store.
	Name string

	// EntryURL is where authentication state is established.
	EntryURL string

	// UploadURL is the publish page. Often equal to EntryURL.
	UploadURL string

	// Roles maps each semantic role to its ordered locator strategies.
	Roles map[SemanticRole]locator.Spec

	// Limits are the platform's known field constraints.
	Limits Limits

	// RichDescription marks the description field as a contenteditable
	// region, which needs a different text-injection technique than a
	// plain form field.
	RichDescription bool

	// TagsInDescription appends "#tag" tokens to the description when
	// the platform has no dedicated tag field.
	TagsInDescription bool

	// LoginURLKeywords flag an unauthenticated redirect when present in
	// the current URL.
	LoginURLKeywords []string

	// SuccessURLFragments confirm a publish when the page lands on a
	// URL containing one of them.
	SuccessURLFragments []string

	// ProcessingTimeout overrides the configured upload wait when the
	// platform's transcoding is known to be slow. Zero keeps the default.
	ProcessingTimeout time.Duration
}

// Limits holds the platform's field constraints. Zero means unlimited.
type Limits struct {
	// TitleRunes is the maximum title length in runes.
	TitleRunes int

	// DescriptionRunes is the maximum description length in runes.
	DescriptionRunes int

	// MaxTags bounds how many tags are applied.
	MaxTags int

	// MaxDuration bounds the video length accepted by the platform.
	MaxDuration time.Duration

	// MaxFileSize bounds the upload size in bytes.
	MaxFileSize int64
}

// Role returns the locator spec for a role, nil when undefined.
func (d *Definition) Role(role SemanticRole) locator.Spec {
	return d.Roles[role]
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Definition)
)

// Register adds a platform definition. Later registrations for the same
// name win, so a caller can override a shipped definition.
func Register(def *Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[def.Name] = def
}

// Get returns a platform definition by name.
func Get(name string) (*Definition, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	def, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", name)
	}
	return def, nil
}

// Names returns all registered platform names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
