// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"strconv"

	"github.com/cfgwrap/cfgwrap/internal/expr"
)

// EvalContext builds the identifier bindings available to when conditions:
// the runtime environment, every provider key both bare and as
// "<provider>_<key>", and HOME and PID. Later providers override earlier
// ones for bare keys.
func (r *Resolver) EvalContext() map[string]any {
	ctx := make(map[string]any, len(r.rc.Env)+2)
	for k, v := range r.rc.Env {
		ctx[k] = v
	}
	for _, id := range r.providerOrder() {
		for k, v := range r.providers[id] {
			ctx[k] = v
			ctx[id+"_"+k] = v
		}
	}
	ctx["HOME"] = r.rc.Home
	ctx["PID"] = strconv.Itoa(r.rc.PID)
	return ctx
}

// conditionHolds expands and evaluates a when condition. Expression
// failures degrade to the legacy evaluator and are logged, never returned.
func (r *Resolver) conditionHolds(name, when string) bool {
	expanded := r.engine.Expand(when)

	ok, err := expr.Evaluate(expanded, r.EvalContext())
	if err == nil {
		return ok
	}

	r.logger.Warn("expression evaluation failed, falling back to simple evaluation",
		"injector", name, "condition", expanded, "error", err)
	return expr.EvaluateLegacy(expanded)
}
