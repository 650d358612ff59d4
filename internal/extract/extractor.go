package extract

import (
	"log/slog"
	"strings"

	"github.com/invoscan/invoscan/internal/recognize"
	"github.com/invoscan/invoscan/internal/utils"
)

// Fixed confidences for the different extraction paths. These are
// calibration constants, not measured confidences.
const (
	confFullMatch  = 0.9
	confLooseMatch = 0.6
	confNoPattern  = 0.7
	confBlank      = 0.3
	confTableRow   = 0.7
	confKeyValue   = 0.75
)

// Options enables the optional extraction strategies.
type Options struct {
	EnableSmartDetection  bool `mapstructure:"enable_smart_detection" yaml:"enable_smart_detection" json:"enable_smart_detection"`
	EnableTableExtraction bool `mapstructure:"enable_table_extraction" yaml:"enable_table_extraction" json:"enable_table_extraction"`
	EnableKeyValuePairing bool `mapstructure:"enable_key_value_pairing" yaml:"enable_key_value_pairing" json:"enable_key_value_pairing"`
}

// DefaultOptions enables every strategy except smart detection, which needs
// an injected detector.
func DefaultOptions() Options {
	return Options{EnableTableExtraction: true, EnableKeyValuePairing: true}
}

// SmartDetector is the external field-detector boundary. Its results take
// precedence and are never overwritten.
type SmartDetector interface {
	Detect(blocks []recognize.Block, docType DocumentType) map[string]Field
}

// Extractor derives fields from recognized text.
type Extractor struct {
	smart SmartDetector
}

// NewExtractor constructs an extractor. The smart detector may be nil.
func NewExtractor(smart SmartDetector) *Extractor {
	return &Extractor{smart: smart}
}

// Extract builds the field map for the document type from the text blocks
// and the filtered full text.
func (e *Extractor) Extract(blocks []recognize.Block, text string, docType DocumentType, opts Options) map[string]Field {
	fields := make(map[string]Field)

	if opts.EnableSmartDetection && e.smart != nil {
		for name, f := range e.smart.Detect(blocks, docType) {
			fields[name] = f
		}
		slog.Debug("Smart detection finished", "fields", len(fields))
	}

	for _, ft := range ExpectedFields(docType) {
		name := string(ft)
		if _, ok := fields[name]; ok {
			continue
		}
		if f, ok := extractByPattern(ft, text, blocks); ok {
			fields[name] = f
		}
	}

	if opts.EnableTableExtraction {
		extractFromTable(blocks, fields)
	}
	if opts.EnableKeyValuePairing {
		extractKeyValuePairs(blocks, fields)
	}

	return fields
}

// extractByPattern runs the field's search regex against the full text and
// derives source blocks plus a union bounding box for the first match.
func extractByPattern(ft FieldType, text string, blocks []recognize.Block) (Field, bool) {
	spec, ok := fieldSpecs[ft]
	if !ok || spec.search == nil {
		return Field{}, false
	}
	m := spec.search.FindStringSubmatch(text)
	if len(m) < 2 {
		return Field{}, false
	}
	value := strings.TrimSpace(m[1])

	sourceIDs, box := sourceBlocksFor(value, blocks)
	return Field{
		Type:         ft,
		RawValue:     value,
		Value:        value,
		Confidence:   patternConfidence(spec, value),
		Box:          box,
		SourceBlocks: sourceIDs,
	}, true
}

// patternConfidence grades a match: full canonical match, loose match, a
// non-blank value with no canonical pattern, or blank.
func patternConfidence(spec fieldSpec, value string) float64 {
	if value == "" {
		return confBlank
	}
	if spec.full == nil {
		return confNoPattern
	}
	if spec.full.MatchString(value) {
		return confFullMatch
	}
	return confLooseMatch
}

// sourceBlocksFor finds blocks whose text contains the value
// (case-insensitive) and unions their boxes.
func sourceBlocksFor(value string, blocks []recognize.Block) ([]string, *utils.Box) {
	if value == "" {
		return nil, nil
	}
	lower := strings.ToLower(value)
	var ids []string
	var boxes []utils.Box
	for _, b := range blocks {
		if strings.Contains(strings.ToLower(b.Text), lower) {
			ids = append(ids, b.ID)
			if b.Box != nil {
				boxes = append(boxes, *b.Box)
			}
		}
	}
	return ids, utils.UnionBoxes(boxes)
}
