// Package cmd implements the criterion subcommands.
//
// Every command that takes a formula embeds [Formula], which compiles the
// formula text against the columns of the sample table named by the global
// --source flag plus any names given with --name. Commands print results to
// the writer installed with [WithOutput], or stdout by default.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// HistoryIdentifier is the kong variable identifier containing the path
	// to the repl history file.
	HistoryIdentifier = "history"

	// TableFormatsIdentifier is the kong variable identifier listing the
	// supported sample table formats.
	TableFormatsIdentifier = "tableFormats"

	// EvalOutputsIdentifier is the kong variable identifier listing the
	// result encodings of the eval command.
	EvalOutputsIdentifier = "evalOutputs"
)
