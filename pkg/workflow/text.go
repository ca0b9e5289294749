package workflow

import (
	"strings"

	"github.com/playwright-community/playwright-go"
)

// TruncateRunes shortens s to at most limit runes without splitting a
// multibyte sequence. A zero or negative limit leaves s unchanged.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// FormatTags renders up to max tags as "#tag" tokens separated by
// spaces, the form every supported platform parses out of free text.
func FormatTags(tags []string, max int) string {
	if max > 0 && len(tags) > max {
		tags = tags[:max]
	}
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
		if tag == "" {
			continue
		}
		parts = append(parts, "#"+tag)
	}
	return strings.Join(parts, " ")
}

// ComposeDescription appends formatted tags to the description for
// platforms without a dedicated tag field.
func ComposeDescription(description string, tags []string, def *Definition) string {
	text := description
	if def.TagsInDescription {
		if tagText := FormatTags(tags, def.Limits.MaxTags); tagText != "" {
			if text != "" {
				text += "\n"
			}
			text += tagText
		}
	}
	return TruncateRunes(text, def.Limits.DescriptionRunes)
}

// submitFile assigns a local file to an input and dispatches the
// input/change events some frameworks need before they notice a
// programmatic file assignment.
func submitFile(loc playwright.Locator, path string) error {
	if err := loc.SetInputFiles(path); err != nil {
		return err
	}
	for _, event := range []string{"input", "change"} {
		if err := loc.DispatchEvent(event, nil); err != nil {
			return err
		}
	}
	return nil
}

// setElementText writes text into a located field. Plain inputs take
// Fill; contenteditable regions ignore Fill on several platforms, so
// those are populated through the DOM with synthetic input events.
func setElementText(loc playwright.Locator, text string, rich bool) error {
	if !rich {
		if err := loc.Fill(text); err == nil {
			return nil
		}
		// Some styled inputs reject fill; fall through to typing.
		if err := loc.Click(); err != nil {
			return err
		}
		return loc.PressSequentially(text)
	}

	if err := loc.Click(); err != nil {
		return err
	}
	_, err := loc.Evaluate(`(el, value) => {
		el.focus();
		if (el.isContentEditable) {
			el.innerText = value;
		} else {
			el.value = value;
		}
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
	}`, text)
	return err
}
