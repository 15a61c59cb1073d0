package roll

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/louisbranch/dicetower/internal/dice"
	apperrors "github.com/louisbranch/dicetower/internal/platform/errors"
)

// rulesSchema constrains the house rules file before it is decoded.
const rulesSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "crit_method": {"type": "string"},
    "fatal_default": {"type": "integer", "minimum": 0}
  }
}`

var rulesSchemaLoader = gojsonschema.NewStringLoader(rulesSchema)

// rulesFile is the on-disk shape of a table's house rules.
type rulesFile struct {
	CritMethod   string `yaml:"crit_method"`
	FatalDefault int    `yaml:"fatal_default"`
}

// LoadRules reads critical rules from a YAML file. An empty path yields the
// default rules.
func LoadRules(path string) (dice.CritRules, error) {
	if strings.TrimSpace(path) == "" {
		return dice.CritRules{Method: dice.DefaultCritMethod}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return dice.CritRules{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	return ParseRules(data)
}

// ParseRules validates and decodes YAML rules. An empty document yields the
// default rules.
func ParseRules(data []byte) (dice.CritRules, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return dice.CritRules{}, invalidRules("decode rules", err.Error())
	}
	if doc != nil {
		if err := validateRules(doc); err != nil {
			return dice.CritRules{}, err
		}
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return dice.CritRules{}, invalidRules("decode rules", err.Error())
	}
	method, err := dice.ParseCritMethod(file.CritMethod)
	if err != nil {
		return dice.CritRules{}, err
	}
	return dice.CritRules{Method: method, FatalSides: file.FatalDefault}, nil
}

func validateRules(doc any) error {
	result, err := gojsonschema.Validate(rulesSchemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return invalidRules("validate rules", err.Error())
	}
	if result.Valid() {
		return nil
	}
	reasons := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		reasons = append(reasons, e.String())
	}
	return invalidRules("rules do not match schema", strings.Join(reasons, "; "))
}

func invalidRules(message, reason string) error {
	return apperrors.WithMetadata(apperrors.CodeRulesInvalid, message,
		map[string]string{"reason": reason})
}
