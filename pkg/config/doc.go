/*
Package config loads the project settings of graft.

Settings live in a `.graft.yaml` (or `.graft.yml` / `.graft.json`) file next to
the documents being processed. Every key is optional; a missing file yields the
defaults.

	marker: "//`"
	region_name: generated code
	orphan_policy: keep       # keep | remove
	no_match_policy: preserve # preserve | remove
	history_limit: 256
	debounce: 150ms
	log_level: info
	log_format: text          # text | json
	generators:
	  - name: record
	    pattern: '^record (?P<name>\w+)$'
	    template: "public record {{ .Named.name }};"

# Key Concepts

  - Decoding: the file is parsed with yaml.v3 (or encoding/json) into a generic
    map and decoded with mapstructure, so unknown keys are reported.
  - Generators: each entry becomes a template rule registered after the built-in
    class rule.
*/
package config
