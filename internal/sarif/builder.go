package sarif

// ToolName is the driver name recorded in every log.
const ToolName = "playprep"

// Assembler builds a single-run SARIF log.
type Assembler struct {
	version     string
	results     []Result
	rules       []ReportingDescriptor
	invocations []Invocation
	properties  map[string]interface{}
}

// NewAssembler creates an Assembler for the given tool version.
func NewAssembler(version string) *Assembler {
	return &Assembler{
		version:    version,
		results:    []Result{},
		properties: make(map[string]interface{}),
	}
}

// AddResults appends results in order.
func (a *Assembler) AddResults(results ...Result) *Assembler {
	a.results = append(a.results, results...)
	return a
}

// AddRule registers a rule unless one with the same ID exists.
func (a *Assembler) AddRule(rule ReportingDescriptor) *Assembler {
	for _, r := range a.rules {
		if r.ID == rule.ID {
			return a
		}
	}
	a.rules = append(a.rules, rule)
	return a
}

// AddInvocation records how the run was executed.
func (a *Assembler) AddInvocation(inv Invocation) *Assembler {
	a.invocations = append(a.invocations, inv)
	return a
}

// WithProperty sets a run-level property.
func (a *Assembler) WithProperty(key string, value interface{}) *Assembler {
	a.properties[key] = value
	return a
}

// Build constructs the log. Exact duplicate results are dropped, keeping
// the first occurrence.
func (a *Assembler) Build() *Log {
	log := NewLog(ToolName, a.version)
	log.Runs[0].Tool.Driver.Rules = a.rules
	log.Runs[0].Invocations = a.invocations
	log.Runs[0].Results = dedup(a.results)
	if len(a.properties) > 0 {
		log.Runs[0].Properties = a.properties
	}
	return log
}

func dedup(results []Result) []Result {
	type key struct {
		ruleID, level, text string
	}
	seen := make(map[key]bool, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		k := key{r.RuleID, r.Level, r.Message.Text}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}
