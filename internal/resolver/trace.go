package resolver

// Trace records the full resolution path of one series for the debug
// document. It exists purely for auditability and has no effect on
// outcomes.
type Trace struct {
	SeriesKey string `json:"seriesKey"`
	Steps     []Step `json:"steps"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
}

// Step is one decision or external call inside a resolution.
type Step struct {
	Op         string   `json:"op"`
	Query      string   `json:"query,omitempty"`
	Identifier string   `json:"identifier,omitempty"`
	Note       string   `json:"note,omitempty"`
	Rejects    []string `json:"rejects,omitempty"`
}

// maxTraceRejects caps how many rejected candidate titles a step records.
const maxTraceRejects = 5

func (t *Trace) add(step Step) {
	t.Steps = append(t.Steps, step)
}
