// SPDX-License-Identifier: MIT

package mangohud

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidParams is wrapped by Validate when any issue is an error.
var ErrInvalidParams = errors.New("invalid overlay parameters")

// Validate checks params against the registry's constraints: numeric
// ranges, enum membership, and cross-key requirements. Range and syntax
// violations are errors; unmet requirements (a key that silently has no
// effect) are reported as warnings.
func Validate(p Params) (warnings []Issue, err error) {
	var errs []Issue
	defaults := Defaults()

	for _, spec := range Registry() {
		val, present := spec.encode(&p)
		if !present {
			continue
		}

		if spec.HasRange {
			if f, perr := strconv.ParseFloat(val, 64); perr == nil {
				if f < spec.Min || f > spec.Max {
					errs = append(errs, Issue{
						Key:     spec.Key,
						Message: fmt.Sprintf("value %s out of range [%s, %s]", val, formatFloat(spec.Min), formatFloat(spec.Max)),
					})
				}
			}
		}

		// Requirement warnings only fire for values the user actually set;
		// the defaults themselves must stay warning-free.
		defVal, defPresent := spec.encode(&defaults)
		atDefault := defPresent && defVal == val
		if len(spec.Requires) > 0 && !atDefault && enabled(&p, &spec) {
			for _, req := range spec.Requires {
				reqSpec, ok := LookupKey(req)
				if !ok {
					continue
				}
				if !enabled(&p, reqSpec) {
					warnings = append(warnings, Issue{
						Key:     spec.Key,
						Message: fmt.Sprintf("has no effect unless %s is enabled", req),
					})
				}
			}
		}
	}

	// Threshold pairs must be ascending for the color ramps to make sense.
	for key, pair := range map[string][2]uint8{
		"fps_value":      p.FpsValue,
		"gpu_load_value": p.GpuLoadValue,
		"cpu_load_value": p.CpuLoadValue,
	} {
		if pair[0] > pair[1] {
			errs = append(errs, Issue{
				Key:     key,
				Message: fmt.Sprintf("thresholds must be ascending, got %d,%d", pair[0], pair[1]),
			})
		}
	}

	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, is := range errs {
			msgs[i] = is.String()
		}
		return warnings, fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(msgs, "; "))
	}
	return warnings, nil
}

// enabled reports whether a key currently "does something": true for
// enabled booleans, present for everything else.
func enabled(p *Params, spec *Spec) bool {
	val, present := spec.encode(p)
	if !present {
		return false
	}
	if spec.Kind == KindBool {
		return val == "1"
	}
	return true
}
