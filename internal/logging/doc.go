// Package logger provides leveled logging for envseal commands.
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: shows info messages
//   - --debug: shows all messages including debug details
//
// Warnings and errors are always shown. Commands create a logger in the
// root command's PersistentPreRun and pass it down into the engine.
package logger
