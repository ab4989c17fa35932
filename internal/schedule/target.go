package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidTarget is returned for target text that is neither a number nor a known keyword.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrNoBaseline is returned when a relative form percentage has no previous fitness to be relative to.
	ErrNoBaseline = errors.New("no baseline for relative target")
)

// FormTargetKind tells how a [FormTarget] is resolved.
type FormTargetKind int

const (
	// FormAbsolute targets a fixed form value.
	FormAbsolute FormTargetKind = iota
	// FormDecay rests for the day and lets fitness and fatigue coast.
	FormDecay
	// FormMaintain keeps the previous day's form.
	FormMaintain
	// FormDelta offsets the previous day's form.
	FormDelta
)

// FormTarget is the desired form for a day.
type FormTarget struct {
	Kind  FormTargetKind
	Value float64
}

// AbsoluteForm targets a fixed form value.
func AbsoluteForm(form float64) FormTarget { return FormTarget{Kind: FormAbsolute, Value: form} }

// DecayForm lets form drift with a rest day.
func DecayForm() FormTarget { return FormTarget{Kind: FormDecay, Value: 0} }

// MaintainForm keeps the previous day's form.
func MaintainForm() FormTarget { return FormTarget{Kind: FormMaintain, Value: 0} }

// DeltaForm offsets the previous day's form by delta.
func DeltaForm(delta float64) FormTarget { return FormTarget{Kind: FormDelta, Value: delta} }

// Resolve turns the target into a form value given the previous day's form. Decay has no form value and
// reports false; the day's load is zero instead.
func (t FormTarget) Resolve(previousForm float64) (float64, bool) {
	switch t.Kind {
	case FormDecay:
		return 0, false
	case FormMaintain:
		return previousForm, true
	case FormDelta:
		return previousForm + t.Value, true
	case FormAbsolute:
		return t.Value, true
	}
	return t.Value, true
}

// ParseFormTarget parses "decay", "maintain", a delta such as "D+5" or "D-2.5", or a plain number.
func ParseFormTarget(s string) (FormTarget, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "decay":
		return DecayForm(), nil
	case "maintain":
		return MaintainForm(), nil
	}
	if delta, ok, err := parseDelta(s); ok {
		if err != nil {
			return FormTarget{}, err
		}
		return DeltaForm(delta), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return FormTarget{}, fmt.Errorf("%w: form %q", ErrInvalidTarget, s)
	}
	return AbsoluteForm(v), nil
}

// String gives the text form accepted by ParseFormTarget.
func (t FormTarget) String() string {
	switch t.Kind {
	case FormDecay:
		return "decay"
	case FormMaintain:
		return "maintain"
	case FormDelta:
		return formatDelta(t.Value)
	case FormAbsolute:
	}
	return strconv.FormatFloat(t.Value, 'f', -1, 64)
}

// MarshalYAML writes an absolute target as a number and the others as text.
func (t FormTarget) MarshalYAML() (any, error) {
	if t.Kind == FormAbsolute {
		return t.Value, nil
	}
	return t.String(), nil
}

// UnmarshalYAML accepts any scalar ParseFormTarget understands.
func (t *FormTarget) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: form target must be a scalar", ErrInvalidTarget, value.Line)
	}
	parsed, err := ParseFormTarget(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = parsed
	return nil
}

// PercentTarget is the desired form as a fraction of fitness, e.g. -0.3. A delta offsets the previous day's
// fraction.
type PercentTarget struct {
	Delta bool
	Value float64
}

// AbsolutePercent targets form as ratio of fitness, e.g. -0.3.
func AbsolutePercent(ratio float64) PercentTarget { return PercentTarget{Delta: false, Value: ratio} }

// DeltaPercent offsets the previous day's form to fitness ratio by delta.
func DeltaPercent(delta float64) PercentTarget { return PercentTarget{Delta: true, Value: delta} }

// Resolve turns the target into a form to fitness ratio given the previous day's values.
func (t PercentTarget) Resolve(previousForm, previousFitness float64) (float64, error) {
	if !t.Delta {
		return t.Value, nil
	}
	if previousFitness == 0 {
		return 0, fmt.Errorf("%w: %s with zero fitness", ErrNoBaseline, t)
	}
	return previousForm/previousFitness + t.Value, nil
}

// ParsePercentTarget parses a ratio such as "-0.3", a percentage such as "-30%", or a delta such as "D+0.05".
func ParsePercentTarget(s string) (PercentTarget, error) {
	s = strings.TrimSpace(s)
	if delta, ok, err := parseDelta(s); ok {
		if err != nil {
			return PercentTarget{}, err
		}
		return DeltaPercent(delta), nil
	}
	divisor := 1.0
	if trimmed, ok := strings.CutSuffix(s, "%"); ok {
		s, divisor = trimmed, 100
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return PercentTarget{}, fmt.Errorf("%w: form percentage %q", ErrInvalidTarget, s)
	}
	return AbsolutePercent(v / divisor), nil
}

// String gives the text form accepted by ParsePercentTarget.
func (t PercentTarget) String() string {
	if t.Delta {
		return formatDelta(t.Value)
	}
	return strconv.FormatFloat(t.Value, 'f', -1, 64)
}

// MarshalYAML writes an absolute ratio as a number and a delta as text.
func (t PercentTarget) MarshalYAML() (any, error) {
	if t.Delta {
		return t.String(), nil
	}
	return t.Value, nil
}

// UnmarshalYAML accepts any scalar ParsePercentTarget understands.
func (t *PercentTarget) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: form percentage must be a scalar", ErrInvalidTarget, value.Line)
	}
	parsed, err := ParsePercentTarget(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = parsed
	return nil
}

// parseDelta reports ok when s looks like a delta token, "D" followed by a sign and a number.
func parseDelta(s string) (float64, bool, error) {
	if len(s) < len("D+0") || (s[0] != 'D' && s[0] != 'd') || (s[1] != '+' && s[1] != '-') {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s[1:], 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: delta %q", ErrInvalidTarget, s)
	}
	return v, true, nil
}

func formatDelta(v float64) string {
	sign := "+"
	if v < 0 {
		sign = "-"
	}
	abs := v
	if abs < 0 {
		abs = -abs
	}
	return "D" + sign + strconv.FormatFloat(abs, 'f', -1, 64)
}

// MarshalText encodes the target as its String form, e.g. in JSON.
func (t FormTarget) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText parses text with ParseFormTarget.
func (t *FormTarget) UnmarshalText(text []byte) error {
	parsed, err := ParseFormTarget(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText encodes the target as its String form, e.g. in JSON.
func (t PercentTarget) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText parses text with ParsePercentTarget.
func (t *PercentTarget) UnmarshalText(text []byte) error {
	parsed, err := ParsePercentTarget(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
