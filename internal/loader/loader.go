// Package loader reads mixture, substance reference and answer files.
// YAML and JSON are both accepted; every file is checked against its
// JSON Schema before it is decoded.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/unbound-force/clpmix/internal/store"
	"github.com/unbound-force/clpmix/internal/taxonomy"
)

// Answer is one scripted reply: the first question containing Match
// (case-insensitively) receives Answer.
type Answer struct {
	Match  string `yaml:"match" json:"match"`
	Answer string `yaml:"answer" json:"answer"`
}

// SchemaError reports a file that does not conform to its schema.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match the expected format:\n%v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// LoadMixture reads the mixture file at path.
func LoadMixture(path string) (*taxonomy.Mixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mixture: %w", err)
	}
	return ParseMixture(path, data)
}

// mixtureFile mirrors taxonomy.Mixture with classification tokens kept
// as text, so a bad token can be reported with its substance index.
type mixtureFile struct {
	Name       string      `yaml:"name" json:"name"`
	Substances []entryFile `yaml:"substances" json:"substances"`
}

type entryFile struct {
	CAS            string   `yaml:"cas" json:"cas"`
	Name           string   `yaml:"name" json:"name"`
	Percentage     float64  `yaml:"percentage" json:"percentage"`
	Classification []string `yaml:"classification" json:"classification"`
}

// ParseMixture decodes mixture file content. name is used in error
// messages only. A malformed token yields a *taxonomy.InputError whose
// Index is the substance position.
func ParseMixture(name string, data []byte) (*taxonomy.Mixture, error) {
	var doc mixtureFile
	if err := decode(name, data, "mixture", MixtureSchema, &doc); err != nil {
		return nil, err
	}

	m := &taxonomy.Mixture{
		Name:       doc.Name,
		Substances: make([]taxonomy.Substance, len(doc.Substances)),
	}
	for i, e := range doc.Substances {
		sub := taxonomy.Substance{
			CAS:        e.CAS,
			Name:       e.Name,
			Percentage: e.Percentage,
		}
		if e.Classification != nil {
			sub.Classification = make([]taxonomy.Token, 0, len(e.Classification))
		}
		for _, text := range e.Classification {
			tok, err := taxonomy.ParseToken(text)
			if err != nil {
				var ie *taxonomy.InputError
				if errors.As(err, &ie) {
					ie.Index = i
				}
				return nil, fmt.Errorf("decoding %s: %w", name, err)
			}
			sub.Classification = append(sub.Classification, tok)
		}
		m.Substances[i] = sub
	}
	return m, nil
}

// LoadSubstances reads a substance reference file at path.
func LoadSubstances(path string) ([]store.Substance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading substances: %w", err)
	}
	var doc struct {
		Substances []store.Substance `yaml:"substances" json:"substances"`
	}
	if err := decode(path, data, "substances", SubstancesSchema, &doc); err != nil {
		return nil, err
	}
	for i, sub := range doc.Substances {
		if err := sub.Validate(); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i+1, err)
		}
	}
	return doc.Substances, nil
}

// LoadAnswers reads a scripted answer file at path.
func LoadAnswers(path string) ([]Answer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers: %w", err)
	}
	// Answers may be written as numbers; they are kept as text.
	var doc struct {
		Answers []struct {
			Match  string `yaml:"match" json:"match"`
			Answer any    `yaml:"answer" json:"answer"`
		} `yaml:"answers" json:"answers"`
	}
	if err := decode(path, data, "answers", AnswersSchema, &doc); err != nil {
		return nil, err
	}
	out := make([]Answer, len(doc.Answers))
	for i, a := range doc.Answers {
		out[i] = Answer{Match: a.Match, Answer: fmt.Sprint(a.Answer)}
	}
	return out, nil
}

// decode validates data against the named schema and then unmarshals
// it into v. Content starting with '{' is read as JSON, anything else
// as YAML.
func decode(path string, data []byte, schemaName, schemaText string, v any) error {
	isJSON := bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))

	js := data
	if !isJSON {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		if raw == nil {
			return &SchemaError{Path: path, Err: errors.New("file is empty")}
		}
		// The validator works on JSON values.
		var err error
		if js, err = json.Marshal(raw); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(js))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	sch, err := compiled(schemaName, schemaText)
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return &SchemaError{Path: path, Err: err}
	}

	if isJSON {
		err = json.Unmarshal(data, v)
	} else {
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiled(name, text string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add %s schema: %w", name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}

	schemaCache.Store(name, sch)
	return sch, nil
}
