package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host's zoneinfo
	"unicode/utf8"

	"github.com/lestrrat-go/strftime"
)

// MaxTemplateLength is the longest template (in characters) a clock may use.
// Discord caps channel names at 100 characters; rendered output of a
// 64 character template stays under that.
const MaxTemplateLength = 64

// DefaultTemplate is used whenever a supplied template is unusable
const DefaultTemplate = "🕒 %H:%M (%Z)"

// CheckTemplate renders personal time previews for the check and personal commands
const CheckTemplate = "%H:%M (%Z) on %A"

// ErrInvalidTimezone is returned when a timezone name is not a known IANA zone
var ErrInvalidTimezone = errors.New("invalid timezone")

// Preset is a named shorthand that expands to a fixed template
type Preset string

const (
	PresetPrefix = "preset:"

	Preset24        Preset = "preset:24"
	Preset24Plain   Preset = "preset:24:plain"
	Preset24Minimal Preset = "preset:24:minimal"
	Preset12        Preset = "preset:12"
	Preset12Plain   Preset = "preset:12:plain"
	Preset12Minimal Preset = "preset:12:minimal"
	PresetDay       Preset = "preset:day"
)

var presetTemplates = map[Preset]string{
	Preset24:        DefaultTemplate,
	Preset24Plain:   "%H:%M (%Z)",
	Preset24Minimal: "%H:%M",
	Preset12:        "🕒 %I:%M %p (%Z)",
	Preset12Plain:   "%I:%M %p (%Z)",
	Preset12Minimal: "%I:%M %p",
	PresetDay:       "%A",
}

// Presets returns every known preset in display order
func Presets() []Preset {
	return []Preset{Preset24, Preset24Plain, Preset24Minimal, Preset12, Preset12Plain, Preset12Minimal, PresetDay}
}

// PresetTemplate returns the template a preset expands to
func PresetTemplate(p Preset) (string, bool) {
	tmpl, ok := presetTemplates[p]
	return tmpl, ok
}

// ParseTimezone looks up an IANA timezone name
func ParseTimezone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	// LoadLocation maps "" to UTC and "Local" to the host zone, neither of which is a user choice
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// ResolvePreset expands a preset token into its template. Unknown presets fall
// back to the default template and anything else is returned unchanged.
func ResolvePreset(template string) string {
	if !strings.HasPrefix(template, PresetPrefix) {
		return template
	}
	if tmpl, ok := presetTemplates[Preset(template)]; ok {
		return tmpl
	}
	return DefaultTemplate
}

// ResolveTemplate turns user input into the template that gets stored with a clock
func ResolveTemplate(template string) string {
	template = strings.TrimSpace(template)
	if strings.HasPrefix(template, PresetPrefix) {
		return ResolvePreset(template)
	}

	if !IsUsableTemplate(template) {
		return DefaultTemplate
	}
	return template
}

// IsUsableTemplate reports whether a raw template can be stored as-is
func IsUsableTemplate(template string) bool {
	if !hasPlaceholder(template) {
		return false
	}
	if utf8.RuneCountInString(template) > MaxTemplateLength {
		return false
	}
	_, err := compileTemplate(template)
	return err == nil
}

// hasPlaceholder reports whether template contains a verb other than the %% escape
func hasPlaceholder(template string) bool {
	stripped := strings.ReplaceAll(template, "%%", "")
	i := strings.IndexByte(stripped, '%')
	return i >= 0 && i < len(stripped)-1
}

// colonOffsetVerb stands in for %:z, which the engine cannot parse as a single verb
const colonOffsetVerb byte = 0x01

// clockSpecs extends the default verbs with common glibc/Python ones:
// %P (am/pm), %s (unix seconds), %f (microseconds) and %:z (+09:00).
var clockSpecs = newClockSpecs()

func newClockSpecs() strftime.SpecificationSet {
	specs := strftime.NewSpecificationSet()
	extra := map[byte]strftime.Appender{
		'P':             strftime.AppendFunc(appendLowerMeridiem),
		's':             strftime.UnixSeconds(),
		'f':             strftime.Microseconds(),
		colonOffsetVerb: strftime.StdlibFormat("-07:00"),
	}
	for verb, appender := range extra {
		if err := specs.Set(verb, appender); err != nil {
			panic(fmt.Sprintf("failed to register strftime verb %q: %v", verb, err))
		}
	}
	return specs
}

func appendLowerMeridiem(b []byte, t time.Time) []byte {
	if t.Hour() < 12 {
		return append(b, "am"...)
	}
	return append(b, "pm"...)
}

// expandColonOffset rewrites %:z to the internal verb, leaving %% escapes alone
func expandColonOffset(template string) string {
	if !strings.Contains(template, "%:z") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); i++ {
		if template[i] == '%' && i+1 < len(template) {
			switch {
			case template[i+1] == '%':
				b.WriteString("%%")
				i++
				continue
			case strings.HasPrefix(template[i+1:], ":z"):
				b.WriteByte('%')
				b.WriteByte(colonOffsetVerb)
				i += 2
				continue
			}
		}
		b.WriteByte(template[i])
	}
	return b.String()
}

func compileTemplate(template string) (*strftime.Strftime, error) {
	return strftime.New(expandColonOffset(template), strftime.WithSpecificationSet(clockSpecs))
}

// Render formats the current instant in loc
func Render(loc *time.Location, template string) string {
	return RenderAt(loc, template, time.Now())
}

// RenderAt formats t in loc using a strftime style template
func RenderAt(loc *time.Location, template string, t time.Time) string {
	if loc == nil {
		loc = time.UTC
	}

	f, err := compileTemplate(template)
	if err != nil {
		f, _ = compileTemplate(DefaultTemplate)
	}
	return f.FormatString(t.In(loc))
}
