// Package main hosts the folio CLI entrypoint and command graph.
//
// Commands import chapter files into the local library, print pages under the
// configured pagination, and locate the page shown in a photo. Configuration
// is resolved once per invocation and shared by every subcommand; logs go to
// folio.log in the configured log directory so stdout stays clean for tables
// and JSON.
package main
