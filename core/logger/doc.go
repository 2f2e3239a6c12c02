// Package logger is a standardized event logging framework for the terminal.
//
// Events are written as newline delimited protojson encoded
// google.protobuf.Struct records so the log can be read by anything that
// understands JSON while staying schema-light.
package logger
