// Package ui provides semantic text formatting for CLI output.
//
// Formatters render appropriately based on terminal capabilities: content
// is colorized when colors are available, and falls back to plain text (or
// text decorations such as backticks for code) when NO_COLOR is set or the
// terminal doesn't support colors.
//
//	ui.Code.Sprint("envseal encrypt .")  // commands
//	ui.Path.Sprint(".env.gpg")           // file paths
//	ui.Success.Sprint("✓")               // success indicators
//	ui.Error.Sprint("✗")                 // error indicators
//	ui.Info.Sprint("→")                  // hints
package ui
