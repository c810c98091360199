package scenarios

import (
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/reusee/captai/configs"
	"github.com/reusee/e5"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

//go:embed schema.cue
var Schema string

type Scenario struct {
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

type Binding struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type ParamSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type LambdaSpec struct {
	Name        string      `json:"name"`
	Clause      string      `json:"clause"`
	Mutable     bool        `json:"mutable"`
	Params      []ParamSpec `json:"params"`
	Result      string      `json:"result"`
	Body        string      `json:"body"`
	ExpectError string      `json:"expect_error"`
}

type MethodStep struct {
	Type    string    `json:"type"`
	Members []Binding `json:"members"`
}

type InstanceStep struct {
	Definition string `json:"definition"`
	As         string `json:"as"`
}

type CopyStep struct {
	From string `json:"from"`
	As   string `json:"as"`
}

type CallStep struct {
	Closure     string   `json:"closure"`
	Args        []any    `json:"args"`
	Expect      *any     `json:"expect"`
	Output      []string `json:"output"`
	ExpectError string   `json:"expect_error"`
	As          string   `json:"as"`
}

type MemberCheck struct {
	Object string `json:"object"`
	Name   string `json:"name"`
	Value  any    `json:"value"`
}

type FieldCheck struct {
	Closure string `json:"closure"`
	Name    string `json:"name"`
	Value   any    `json:"value"`
}

// Step holds exactly one action.
type Step struct {
	Global   *Binding      `json:"global"`
	Let      *Binding      `json:"let"`
	Set      *Binding      `json:"set"`
	Enter    bool          `json:"enter"`
	Method   *MethodStep   `json:"method"`
	Leave    bool          `json:"leave"`
	Define   *LambdaSpec   `json:"define"`
	Instance *InstanceStep `json:"instance"`
	Copy     *CopyStep     `json:"copy"`
	Call     *CallStep     `json:"call"`
	Check    *Binding      `json:"check"`
	Member   *MemberCheck  `json:"member"`
	Field    *FieldCheck   `json:"field"`
}

// Load reads the scenarios of a document file.
func Load(path string) (map[string]Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, wrap(err)
	}
	return LoadSource(path, content)
}

// LoadSource is Load for a document in memory.
func LoadSource(name string, content []byte) (map[string]Scenario, error) {
	if !isText(content) {
		return nil, wrap(fmt.Errorf("%s: %w", name, ErrNotText))
	}
	return load(configs.NewSourceLoader([]configs.Source{
		{
			Name:    name,
			Content: content,
		},
	}, Schema))
}

func load(loader configs.Loader) (map[string]Scenario, error) {
	var ret map[string]Scenario
	if err := loader.AssignFirst("scenarios", &ret); err != nil {
		if errors.Is(err, configs.ErrValueNotFound) {
			return map[string]Scenario{}, nil
		}
		return nil, wrap(err)
	}
	return ret, nil
}

// ErrNotText reports a scenario document that is not a text file.
var ErrNotText = errors.New("not a text document")

func isText(content []byte) bool {
	if len(content) == 0 {
		return true
	}
	for t := mimetype.Detect(content); t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return true
		}
	}
	return false
}

// normalize maps decoded CUE numbers to the values lambda bodies produce: int and float64.
func normalize(v any) any {
	switch v := v.(type) {
	case int64:
		if int64(int(v)) == v {
			return int(v)
		}
		return v
	case *big.Int:
		if v.IsInt64() {
			return normalize(v.Int64())
		}
		return v
	case *big.Float:
		f, _ := v.Float64()
		return f
	case float32:
		return float64(v)
	case []any:
		ret := make([]any, len(v))
		for i, e := range v {
			ret[i] = normalize(e)
		}
		return ret
	case map[string]any:
		ret := make(map[string]any, len(v))
		for k, e := range v {
			ret[k] = normalize(e)
		}
		return ret
	}
	return v
}
