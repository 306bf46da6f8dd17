package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/yaklabco/dslint/pkg/analysis"
	"github.com/yaklabco/dslint/pkg/config"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// Tool identity reported in the SARIF driver.
const (
	toolName           = "dslint"
	toolInformationURI = "https://github.com/yaklabco/dslint"
)

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes a rule (linter check).
type SARIFRule struct {
	ID               string                `json:"id"`
	Name             string                `json:"name,omitempty"`
	ShortDescription *SARIFMultiformatText `json:"shortDescription,omitempty"`
	DefaultConfig    *SARIFRuleConfig      `json:"defaultConfiguration,omitempty"`
	Properties       map[string]any        `json:"properties,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFResult represents a single violation.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
	Fixes     []SARIFFix      `json:"fixes,omitempty"`
	Props     map[string]any  `json:"properties,omitempty"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine   int  `json:"startLine,omitempty"`
	StartColumn int  `json:"startColumn,omitempty"`
	EndLine     int  `json:"endLine,omitempty"`
	EndColumn   int  `json:"endColumn,omitempty"`
	ByteOffset  *int `json:"byteOffset,omitempty"`
	ByteLength  *int `json:"byteLength,omitempty"`
}

// SARIFFix represents a proposed fix.
type SARIFFix struct {
	Description     SARIFMessage          `json:"description"`
	ArtifactChanges []SARIFArtifactChange `json:"artifactChanges"`
}

// SARIFArtifactChange describes changes to a file.
type SARIFArtifactChange struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Replacements     []SARIFReplacement    `json:"replacements"`
}

// SARIFReplacement describes a text replacement.
type SARIFReplacement struct {
	DeletedRegion   SARIFRegion           `json:"deletedRegion"`
	InsertedContent *SARIFInsertedContent `json:"insertedContent,omitempty"`
}

// SARIFInsertedContent contains the replacement text.
type SARIFInsertedContent struct {
	Text string `json:"text"`
}

// SARIFRenderer writes an analysis.Report as a SARIF 2.1.0 log.
type SARIFRenderer struct {
	opts Options
}

// NewSARIFRenderer creates a new SARIF renderer.
func NewSARIFRenderer(opts Options) *SARIFRenderer {
	return &SARIFRenderer{opts: opts}
}

// Render implements Renderer.
func (r *SARIFRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(report)

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}

	return nil
}

func (r *SARIFRenderer) buildOutput(report *analysis.Report) *SARIFOutput {
	output := &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool: SARIFTool{
				Driver: SARIFDriver{
					Name:           toolName,
					Version:        r.opts.ToolVersion,
					InformationURI: toolInformationURI,
					Rules:          make([]SARIFRule, 0),
				},
			},
			Results: make([]SARIFResult, 0),
		}},
	}

	if report == nil {
		return output
	}

	infos := ruleInfoByName()
	rulesSeen := make(map[string]bool)
	run := &output.Runs[0]

	for i := range report.Violations {
		entry := &report.Violations[i]
		severity := config.Severity(entry.Severity)

		if !rulesSeen[entry.Rule] {
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, buildSARIFRule(entry, infos[entry.RuleName]))
			rulesSeen[entry.Rule] = true
		}

		result := SARIFResult{
			RuleID:  entry.Rule,
			Level:   severityToSARIFLevel(severity),
			Message: SARIFMessage{Text: entry.Message},
			Locations: []SARIFLocation{{
				PhysicalLocation: SARIFPhysicalLocation{
					ArtifactLocation: SARIFArtifactLocation{URI: entry.FilePath},
					Region: SARIFRegion{
						StartLine:   entry.StartLine,
						StartColumn: entry.StartColumn,
						EndLine:     entry.EndLine,
						EndColumn:   entry.EndColumn,
					},
				},
			}},
		}

		if entry.MessageID != "" {
			result.Props = map[string]any{"messageId": entry.MessageID}
		}

		if len(entry.Fixes) > 0 {
			result.Fixes = []SARIFFix{buildSARIFFix(entry)}
		}

		run.Results = append(run.Results, result)
	}

	return output
}

// buildSARIFRule describes a rule, preferring registry metadata when known.
func buildSARIFRule(entry *analysis.ViolationEntry, info config.RuleInfo) SARIFRule {
	rule := SARIFRule{
		ID:   entry.Rule,
		Name: entry.RuleName,
		DefaultConfig: &SARIFRuleConfig{
			Level: severityToSARIFLevel(config.Severity(entry.Severity)),
		},
	}

	if info.Description != "" {
		rule.ShortDescription = &SARIFMultiformatText{Text: info.Description}
	}
	if len(info.Tags) > 0 || info.CanFix {
		rule.Properties = map[string]any{"fixable": info.CanFix}
		if len(info.Tags) > 0 {
			rule.Properties["tags"] = info.Tags
		}
	}

	return rule
}

// buildSARIFFix converts byte-offset edits to SARIF replacements.
func buildSARIFFix(entry *analysis.ViolationEntry) SARIFFix {
	change := SARIFArtifactChange{
		ArtifactLocation: SARIFArtifactLocation{URI: entry.FilePath},
		Replacements:     make([]SARIFReplacement, 0, len(entry.Fixes)),
	}

	for _, edit := range entry.Fixes {
		offset := edit.StartOffset
		length := edit.EndOffset - edit.StartOffset
		replacement := SARIFReplacement{
			DeletedRegion: SARIFRegion{ByteOffset: &offset, ByteLength: &length},
		}
		if edit.NewText != "" {
			replacement.InsertedContent = &SARIFInsertedContent{Text: edit.NewText}
		}
		change.Replacements = append(change.Replacements, replacement)
	}

	return SARIFFix{
		Description:     SARIFMessage{Text: "Apply " + entry.Rule + " fix"},
		ArtifactChanges: []SARIFArtifactChange{change},
	}
}

// ruleInfoByName indexes the registered rule metadata.
func ruleInfoByName() map[string]config.RuleInfo {
	infos := make(map[string]config.RuleInfo)
	if config.DefaultRuleInfoProvider == nil {
		return infos
	}
	for _, info := range config.DefaultRuleInfoProvider() {
		infos[info.Name] = info
	}
	return infos
}

// severityToSARIFLevel converts a severity to a SARIF level.
func severityToSARIFLevel(severity config.Severity) string {
	switch severity {
	case config.SeverityError:
		return "error"
	case config.SeverityWarning:
		return "warning"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
