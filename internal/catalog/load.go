package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"gestured/internal/geometry"
)

// rawDoc mirrors the on-disk YAML document shape. Kept separate from the
// resolved Catalog model so the loader can apply defaults, resolve named
// distances, and compile regexes in one place.
type rawDoc struct {
	Import              []string               `yaml:"import"`
	Options             rawOptions             `yaml:"options"`
	Gestures            []rawGesture           `yaml:"gestures"`
	ApplicationGestures rawApplicationGestures `yaml:"application_gestures"`
}

// rawApplicationBinding is one application_gestures entry, keeping the key
// alongside its gestures so decoding can preserve document order.
type rawApplicationBinding struct {
	Key      string
	Gestures []rawGesture
}

// rawApplicationGestures decodes application_gestures as an ordered list of
// bindings rather than a Go map: map iteration order is randomized per
// process, but ByClass/ByTitle precedence and the by_class-before-by_title
// tie-break both depend on the document's insertion order surviving intact.
type rawApplicationGestures []rawApplicationBinding

func (r *rawApplicationGestures) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("application_gestures: expected a mapping, got %v", value.Kind)
	}

	out := make(rawApplicationGestures, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		var gestures []rawGesture
		if err := valNode.Decode(&gestures); err != nil {
			return fmt.Errorf("application_gestures[%q]: %w", keyNode.Value, err)
		}
		out = append(out, rawApplicationBinding{Key: keyNode.Value, Gestures: gestures})
	}
	*r = out
	return nil
}

type rawOptions struct {
	MoveThreshold *float64           `yaml:"move_threshold"`
	Edge          rawEdgeOptions     `yaml:"edge"`
	RunAllMatches bool               `yaml:"run_all_matches"`
	Distance      map[string]float64 `yaml:"distance"`
}

type rawEdgeOptions struct {
	Threshold   *float64 `yaml:"threshold"`
	Sensitivity *float64 `yaml:"sensitivity"`
}

type rawGesture struct {
	Name       string          `yaml:"name"`
	Sequence   []rawStep       `yaml:"sequence"`
	Edge       string          `yaml:"edge"`
	Repeat     yaml.Node       `yaml:"repeat"`
	Command    string          `yaml:"command"`
}

type rawStep struct {
	Action      string   `yaml:"action"`
	Fingers     int      `yaml:"fingers"`
	MinDistance *float64 `yaml:"min_distance"`
	Distance    string   `yaml:"distance"` // named distance binding, resolved against options.distance
}

// importedDoc is the shape allowed for files named in Import: only extra
// top-level gestures are merged in, mirroring original_source/src/config.rs.
type importedDoc struct {
	Gestures []rawGesture `yaml:"gestures"`
}

// Load reads and parses the catalog document at path, following its
// `import` list relative to path's directory, and returns a fully resolved
// Catalog. Returns a setup error (fatal at startup) on any read/parse
// failure; logs catalog warnings (non-fatal) for conflicting gestures and
// unreachable min_distance thresholds.
func Load(path string, log zerolog.Logger) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	var doc rawDoc
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, imp := range doc.Import {
		impPath := imp
		if !filepath.IsAbs(impPath) {
			impPath = filepath.Join(dir, imp)
		}
		impContent, err := os.ReadFile(impPath)
		if err != nil {
			return nil, fmt.Errorf("reading imported config file %q: %w", impPath, err)
		}
		var imported importedDoc
		if err := yaml.Unmarshal(impContent, &imported); err != nil {
			return nil, fmt.Errorf("parsing imported config file %q: %w", impPath, err)
		}
		doc.Gestures = append(doc.Gestures, imported.Gestures...)
	}

	opts := resolveOptions(doc.Options)

	globalGestures, err := resolveGestures(doc.Gestures, opts, log)
	if err != nil {
		return nil, err
	}

	bindings, err := resolveApplicationBindings(doc.ApplicationGestures, opts, log)
	if err != nil {
		return nil, err
	}

	warnConflicts(globalGestures, log)

	return &Catalog{
		Options:             opts,
		Gestures:            globalGestures,
		ApplicationGestures: bindings,
	}, nil
}

// ImportPaths returns path itself plus every file named in its top-level
// import list, resolved relative to path's directory. Callers that need to
// know every file able to affect the catalog (the fsnotify watcher) use
// this instead of duplicating Load's merge logic.
func ImportPaths(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	var doc rawDoc
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}

	dir := filepath.Dir(path)
	out := []string{path}
	for _, imp := range doc.Import {
		if !filepath.IsAbs(imp) {
			imp = filepath.Join(dir, imp)
		}
		out = append(out, imp)
	}
	return out, nil
}

func resolveOptions(raw rawOptions) Options {
	opts := DefaultOptions()
	if raw.MoveThreshold != nil {
		opts.MoveThreshold = *raw.MoveThreshold
	}
	if raw.Edge.Threshold != nil {
		opts.Edge.Threshold = *raw.Edge.Threshold
	}
	if raw.Edge.Sensitivity != nil {
		opts.Edge.Sensitivity = *raw.Edge.Sensitivity
	}
	opts.RunAllMatches = raw.RunAllMatches
	if raw.Distance != nil {
		opts.Distance = raw.Distance
	}
	return opts
}

func resolveGestures(raw []rawGesture, opts Options, log zerolog.Logger) ([]Gesture, error) {
	out := make([]Gesture, 0, len(raw))
	for _, rg := range raw {
		g, err := resolveGesture(rg, opts, log)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func resolveGesture(rg rawGesture, opts Options, log zerolog.Logger) (Gesture, error) {
	seq := make([]DefinedSequenceStep, 0, len(rg.Sequence))
	for _, rs := range rg.Sequence {
		step, err := resolveStep(rs, opts, rg.Name, log)
		if err != nil {
			return Gesture{}, err
		}
		seq = append(seq, step)
	}

	edge, err := parseEdge(rg.Edge)
	if err != nil {
		return Gesture{}, fmt.Errorf("gesture %q: %w", rg.Name, err)
	}

	return Gesture{
		Name:       rg.Name,
		Sequence:   seq,
		Edge:       edge,
		RepeatMode: parseRepeatMode(rg.Repeat),
		Command:    rg.Command,
	}, nil
}

func resolveStep(rs rawStep, opts Options, gestureName string, log zerolog.Logger) (DefinedSequenceStep, error) {
	step := DefinedSequenceStep{Fingers: rs.Fingers}

	switch normalizeAction(rs.Action) {
	case "touch_down":
		step.Kind = StepTouchDown
	case "touch_up":
		step.Kind = StepTouchUp
	case "move_up":
		step.Kind, step.Direction = StepMove, geometry.Up
	case "move_down":
		step.Kind, step.Direction = StepMove, geometry.Down
	case "move_left":
		step.Kind, step.Direction = StepMove, geometry.Left
	case "move_right":
		step.Kind, step.Direction = StepMove, geometry.Right
	default:
		return DefinedSequenceStep{}, fmt.Errorf("gesture %q: unknown action %q", gestureName, rs.Action)
	}

	if step.Kind != StepMove {
		return step, nil
	}

	switch {
	case rs.MinDistance != nil:
		step.MinDistance = rs.MinDistance
	case rs.Distance != "":
		if v, ok := opts.Distance[rs.Distance]; ok {
			step.MinDistance = &v
		} else {
			log.Warn().Str("component", "catalog").Str("gesture", gestureName).
				Str("distance", rs.Distance).Msg("unknown named distance, treating as no minimum")
		}
	}

	if step.HasMinDistance() && *step.MinDistance < opts.MoveThreshold {
		log.Warn().Str("component", "catalog").Str("gesture", gestureName).
			Float64("min_distance", *step.MinDistance).Float64("move_threshold", opts.MoveThreshold).
			Msg("move step's min_distance is below move_threshold and can never fire")
	}

	return step, nil
}

func normalizeAction(action string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(action)), " ", "_")
}

func parseEdge(raw string) (geometry.Edge, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return geometry.NoEdge, nil
	case "top":
		return geometry.EdgeTop, nil
	case "bottom":
		return geometry.EdgeBottom, nil
	case "left":
		return geometry.EdgeLeft, nil
	case "right":
		return geometry.EdgeRight, nil
	default:
		return geometry.NoEdge, fmt.Errorf("unknown edge %q", raw)
	}
}

// parseRepeatMode accepts either a bare scalar ("none"|"tap"|"slide") or a
// YAML sequence (["tap", "slide"]) so that "tap+slide" can be spelled
// either as a single token or a list in the config document.
func parseRepeatMode(node yaml.Node) RepeatMode {
	switch node.Kind {
	case yaml.ScalarNode:
		return repeatModeFromString(node.Value)
	case yaml.SequenceNode:
		var mode RepeatMode
		for _, child := range node.Content {
			mode |= repeatModeFromString(child.Value)
		}
		return mode
	default:
		return RepeatNone
	}
}

func repeatModeFromString(s string) RepeatMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tap":
		return RepeatTap
	case "slide":
		return RepeatSlide
	case "tap+slide", "slide+tap", "both":
		return RepeatTap | RepeatSlide
	default:
		return RepeatNone
	}
}

func resolveApplicationBindings(raw rawApplicationGestures, opts Options, log zerolog.Logger) (ApplicationBindings, error) {
	var out ApplicationBindings
	for _, entry := range raw {
		key, gestures := entry.Key, entry.Gestures

		classRe, titleRe, err := parseBindingKey(key)
		if err != nil {
			return ApplicationBindings{}, fmt.Errorf("application_gestures key %q: %w", key, err)
		}

		resolved, err := resolveGestures(gestures, opts, log)
		if err != nil {
			return ApplicationBindings{}, err
		}
		warnConflicts(resolved, log)

		// A composite "class:<re>,title:<re>" key binds both regexes at
		// once (Binding.Matches requires each present regex to match), and
		// is registered once under ByClass rather than duplicated into
		// ByTitle as well.
		binding := Binding{ClassRe: classRe, TitleRe: titleRe, Raw: key, Gestures: resolved}
		switch {
		case classRe != nil:
			out.ByClass = append(out.ByClass, binding)
		case titleRe != nil:
			out.ByTitle = append(out.ByTitle, binding)
		}
	}
	return out, nil
}

// parseBindingKey supports three key forms: "class:<regex>",
// "title:<regex>", bare "<regex>" (treated as class), and the composite
// "class:<re>,title:<re>".
func parseBindingKey(key string) (classRe, titleRe *regexp.Regexp, err error) {
	parts := strings.Split(key, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "class:"):
			re, err := regexp.Compile(strings.TrimPrefix(part, "class:"))
			if err != nil {
				return nil, nil, err
			}
			classRe = re
		case strings.HasPrefix(part, "title:"):
			re, err := regexp.Compile(strings.TrimPrefix(part, "title:"))
			if err != nil {
				return nil, nil, err
			}
			titleRe = re
		default:
			re, err := regexp.Compile(part)
			if err != nil {
				return nil, nil, err
			}
			classRe = re
		}
	}
	return classRe, titleRe, nil
}

// warnConflicts logs (non-fatal) when two gestures in the same scope share
// an identical shape and edge requirement — they can never both win
// deterministically without run_all_matches.
func warnConflicts(gestures []Gesture, log zerolog.Logger) {
	for i := 0; i < len(gestures); i++ {
		for j := i + 1; j < len(gestures); j++ {
			if sameShape(gestures[i], gestures[j]) {
				log.Warn().Str("component", "catalog").
					Str("gesture_a", gestures[i].Name).
					Str("gesture_b", gestures[j].Name).
					Msg("gestures have identical shape and edge requirement")
			}
		}
	}
}

func sameShape(a, b Gesture) bool {
	if a.Edge != b.Edge || len(a.Sequence) != len(b.Sequence) {
		return false
	}
	for i := range a.Sequence {
		sa, sb := a.Sequence[i], b.Sequence[i]
		if sa.Kind != sb.Kind || sa.Fingers != sb.Fingers {
			return false
		}
		if sa.Kind == StepMove && sa.Direction != sb.Direction {
			return false
		}
	}
	return true
}
