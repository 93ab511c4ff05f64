package config

import (
	"strconv"
	"strings"
)

// parseVersion splits a dotted version string into up to three numeric
// components, treating missing or non-numeric trailing components as 0 so
// "1.2" and "1.2.0" compare equal.
func parseVersion(v string) [3]int {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i] // drop pre-release/build metadata, as config.rs does before comparing
	}
	parts := strings.SplitN(v, ".", 3)
	var out [3]int
	for i := 0; i < len(parts) && i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			continue
		}
		out[i] = n
	}
	return out
}

func compareVersions(a, b [3]int) int {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Satisfies checks a version against a Gleam-style range expression: one or
// more space-"and"-joined clauses like ">= 1.0.0 and < 2.0.0", or a single
// pessimistic "~> 1.2" clause. This is a deliberately small stand-in for
// the original's pubgrub range engine — see DESIGN.md's entry for why no
// semver range library from the example pack could be wired in here.
func Satisfies(rangeExpr, version string) bool {
	clauses := strings.Split(rangeExpr, " and ")
	v := parseVersion(version)
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if !satisfiesClause(clause, v) {
			return false
		}
	}
	return true
}

func satisfiesClause(clause string, v [3]int) bool {
	for _, op := range []string{">=", "<=", "==", "!=", "~>", ">", "<"} {
		if strings.HasPrefix(clause, op) {
			target := parseVersion(strings.TrimSpace(strings.TrimPrefix(clause, op)))
			cmp := compareVersions(v, target)
			switch op {
			case ">=":
				return cmp >= 0
			case "<=":
				return cmp <= 0
			case "==":
				return cmp == 0
			case "!=":
				return cmp != 0
			case ">":
				return cmp > 0
			case "<":
				return cmp < 0
			case "~>":
				// Pessimistic constraint: same major (and the same minor
				// too when the target gives a patch component), version
				// must be >= target.
				if target[0] != v[0] {
					return false
				}
				if strings.Count(strings.TrimSpace(strings.TrimPrefix(clause, op)), ".") >= 2 && target[1] != v[1] {
					return false
				}
				return compareVersions(v, target) >= 0
			}
		}
	}
	// No recognised operator: treat the clause as an exact version match.
	return compareVersions(v, parseVersion(clause)) == 0
}
