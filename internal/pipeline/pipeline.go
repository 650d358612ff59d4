// Package pipeline sequences the scan stages into named phases, emits
// progress events at phase boundaries, and converts any stage failure into
// a single terminal error result.
package pipeline

import (
	"errors"

	"github.com/invoscan/invoscan/internal/extract"
	"github.com/invoscan/invoscan/internal/preprocess"
	"github.com/invoscan/invoscan/internal/recognize"
	"github.com/invoscan/invoscan/internal/validate"
)

// Config holds configuration for the scan pipeline and its components.
type Config struct {
	DocumentType          extract.DocumentType `mapstructure:"document_type" yaml:"document_type" json:"document_type"`
	EnableFieldExtraction bool                 `mapstructure:"enable_field_extraction" yaml:"enable_field_extraction" json:"enable_field_extraction"`
	EnableValidation      bool                 `mapstructure:"enable_validation" yaml:"enable_validation" json:"enable_validation"`
	FieldExtraction       extract.Options      `mapstructure:"field_extraction" yaml:"field_extraction" json:"field_extraction"`
	PostProcessing        validate.Options     `mapstructure:"post_processing" yaml:"post_processing" json:"post_processing"`
	Preprocess            preprocess.Config    `mapstructure:"preprocess" yaml:"preprocess" json:"preprocess"`
	Recognize             recognize.Config     `mapstructure:"recognize" yaml:"recognize" json:"recognize"`
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		DocumentType:          extract.DocumentInvoice,
		EnableFieldExtraction: true,
		EnableValidation:      true,
		FieldExtraction:       extract.DefaultOptions(),
		PostProcessing:        validate.DefaultOptions(),
		Preprocess:            preprocess.DefaultConfig(),
		Recognize:             recognize.DefaultConfig(),
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg       Config
	engine    recognize.Engine
	smart     extract.SmartDetector
	templates TemplateMatcher
	observers []Observer
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithEngine injects the recognition engine. The engine is stateless by
// contract and shared across scans by reference.
func (b *Builder) WithEngine(e recognize.Engine) *Builder {
	b.engine = e
	return b
}

// WithDocumentType sets the target document type.
func (b *Builder) WithDocumentType(dt extract.DocumentType) *Builder {
	if dt != "" {
		b.cfg.DocumentType = dt
	}
	return b
}

// WithSmartDetector injects the external smart field detector. Smart
// detection only runs when both the detector and the option are set.
func (b *Builder) WithSmartDetector(sd extract.SmartDetector) *Builder {
	b.smart = sd
	return b
}

// WithTemplateMatcher injects the template matcher collaborator.
func (b *Builder) WithTemplateMatcher(tm TemplateMatcher) *Builder {
	b.templates = tm
	return b
}

// WithObserver registers a progress observer.
func (b *Builder) WithObserver(o Observer) *Builder {
	if o != nil {
		b.observers = append(b.observers, o)
	}
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Validate checks that the configuration is runnable.
func (b *Builder) Validate() error {
	if b.engine == nil {
		return errors.New("recognition engine is required")
	}
	if b.cfg.Recognize.SparseTextThreshold < b.cfg.Recognize.MinTextThreshold {
		return errors.New("sparse text threshold must not be below the minimum text threshold")
	}
	return nil
}

// Pipeline wires the scan stages together. Each scan owns its own buffers
// and field map; no mutable state is shared across concurrent scans.
type Pipeline struct {
	cfg       Config
	orch      *recognize.Orchestrator
	extractor *extract.Extractor
	templates TemplateMatcher
	observers []Observer
}

// Build initializes the pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	orch, err := recognize.NewOrchestrator(b.engine, b.cfg.Recognize)
	if err != nil {
		return nil, err
	}
	templates := b.templates
	if templates == nil {
		templates = NewKeywordTemplateMatcher()
	}
	return &Pipeline{
		cfg:       b.cfg,
		orch:      orch,
		extractor: extract.NewExtractor(b.smart),
		templates: templates,
		observers: b.observers,
	}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }
