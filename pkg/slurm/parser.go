package slurm

import (
	"regexp"
	"strconv"
	"strings"
)

// nodeDownStates are Slurm node states that make a node unschedulable.
// States are compared lowercased against the base state token.
var nodeDownStates = map[string]struct{}{
	"drained":       {},
	"down":          {},
	"maint":         {},
	"powered_down":  {},
	"powering_down": {},
	"powering_up":   {},
	"fail":          {},
	"future":        {},
	"inval":         {},
	"perfctrs":      {},
}

// parseKVRecord parses one `Key=Value Key=Value ...` record line as
// produced by `scontrol show ... -o`. Values never contain spaces in
// the one-line format, so whitespace splitting is safe.
func parseKVRecord(line string) map[string]string {
	record := make(map[string]string)
	for _, item := range strings.Fields(line) {
		key, value, ok := strings.Cut(item, "=")
		if !ok {
			continue
		}
		record[key] = value
	}
	return record
}

// gresGPURe matches GRES GPU entries such as "gpu:4", "gpu:a100:2" and
// "gres:gpu:v100:2(S:0-1)". Group 1 is the optional model, group 2 the
// device count.
var gresGPURe = regexp.MustCompile(`gpu:(?:([A-Za-z0-9_.-]+):)?(\d+)`)

// ParseGPUGres extracts the GPU model and device count from a GRES
// string. The model is upper-cased so "a100" and "A100" aggregate to
// one inventory key. A bare "gpu" with no count yields zero.
func ParseGPUGres(gres string) (string, int) {
	if gres == "" || gres == "(null)" {
		return "", 0
	}
	m := gresGPURe.FindStringSubmatch(gres)
	if m == nil {
		return "", 0
	}
	count, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0
	}
	model := strings.ToUpper(m[1])
	return model, count
}

// parseVersion extracts "23.02.7" from "slurm 23.02.7" style output.
func parseVersion(out string) string {
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}

// nodeIsAvailable reports whether a node state string describes a node
// that can run jobs. Compound states like "IDLE+DRAINED" count as down
// when any token is a down state.
func nodeIsAvailable(state string) bool {
	if state == "" {
		return false
	}
	for _, token := range strings.Split(strings.ToLower(state), "+") {
		token = strings.TrimSuffix(token, "*")
		if _, down := nodeDownStates[token]; down {
			return false
		}
	}
	return true
}
