// Package sdk is the shared helper library for remediation plugins.
//
// A plugin receives its parameters as key=value tokens on the command line
// and reports exactly one JSON line on stdout:
//
//	{"status":"success","message":"...","details":{...}}
//
// Logs and diagnostics go to stderr. Success and Error return the process
// exit code instead of terminating, so main is the only place that exits.
package sdk
