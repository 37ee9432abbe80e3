package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders a commented config.toml from GetConfigOptions.
func RenderDefaultTOML() string {
	top, sections, order := groupOptions(GetConfigOptions())
	lines := []string{"# quill configuration (TOML)", ""}
	for _, o := range top {
		lines = appendOption(lines, o)
	}
	for _, section := range order {
		lines = append(lines, "["+section+"]")
		for _, o := range sections[section] {
			lines = appendOption(lines, o)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML appends missing options to an existing config and comments out
// keys that are no longer part of the schema. The bool reports a change.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	section := ""
	changed := false
	var out []string
	for _, line := range strings.Split(existing, "\n") {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(trim)
		if !ok {
			out = append(out, line)
			continue
		}
		if section != "" {
			key = section + "." + key
		}
		seen[key] = true
		if !known[key] {
			out = append(out, "# OUTDATED: option removed from config schema", "# "+trim)
			changed = true
			continue
		}
		out = append(out, line)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}
	top, sections, order := groupOptions(missing)
	if len(top) > 0 {
		// Top-level keys must precede the first table header.
		at := firstSection(out)
		head := []string{"# Added by config update"}
		for _, o := range top {
			head = appendOption(head, o)
		}
		out = append(out[:at:at], append(head, out[at:]...)...)
	}
	if len(order) == 0 {
		return strings.Join(out, "\n"), true
	}
	out = append(out, "", "# Added by config update")
	for _, s := range order {
		out = append(out, "["+s+"]")
		for _, o := range sections[s] {
			out = appendOption(out, o)
		}
	}
	return strings.Join(out, "\n"), true
}

// groupOptions splits dotted keys into TOML sections, keeping first-seen order.
func groupOptions(opts []ConfigOption) ([]ConfigOption, map[string][]ConfigOption, []string) {
	var top []ConfigOption
	sections := make(map[string][]ConfigOption)
	var order []string
	for _, o := range opts {
		section, key, dotted := strings.Cut(o.Key, ".")
		if !dotted {
			top = append(top, o)
			continue
		}
		if _, ok := sections[section]; !ok {
			order = append(order, section)
		}
		sections[section] = append(sections[section], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func firstSection(lines []string) int {
	for i, line := range lines {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			return i
		}
	}
	return len(lines)
}

func parseTOMLKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" || strings.ContainsAny(key[:1], "[\"'") {
		return "", false
	}
	return key, true
}

func appendOption(lines []string, o ConfigOption) []string {
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+tomlValue(o.Default), "")
}

func tomlValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case []string:
		quoted := make([]string, len(x))
		for i, s := range x {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}
