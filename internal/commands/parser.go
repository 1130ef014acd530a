// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult contains the result of parsing one input line.
type ParseResult struct {
	// Command is the matched command (nil if not found)
	Command *Command

	// Verb is the case-folded first token
	Verb string

	// Args are the remaining tokens
	Args []string

	// RawInput is the original input string
	RawInput string

	// Invocation is set when the line parsed successfully
	Invocation Invocation

	// Error is an *UnknownCommandError or *UsageError
	Error error
}

// Empty reports whether the line contained no tokens.
func (r ParseResult) Empty() bool {
	return r.Verb == ""
}

// =============================================================================
// PARSE ERRORS
// =============================================================================

// UnknownCommandError is returned for verbs missing from the registry.
type UnknownCommandError struct {
	Verb string
}

func (e *UnknownCommandError) Error() string {
	return e.Verb + ": command not found"
}

// UsageError is returned when arguments do not satisfy a verb's contract.
type UsageError struct {
	Verb  string
	Lines []string
}

func newUsageError(verb string) *UsageError {
	return &UsageError{Verb: verb}
}

func (e *UsageError) Error() string {
	if len(e.Lines) == 0 {
		return "usage: " + e.Verb
	}
	return strings.Join(e.Lines, "\n")
}

// =============================================================================
// PARSER
// =============================================================================

// Parser turns input lines into invocations.
type Parser struct {
	registry *Registry
}

// NewParser creates a new parser with the given registry.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse tokenizes the line, resolves the verb and validates its arguments.
func (p *Parser) Parse(input string) ParseResult {
	result := ParseResult{RawInput: input}

	tokens := Tokenize(input)
	if len(tokens) == 0 {
		return result
	}

	// cases.Caser keeps state, so a fresh one per call keeps Parse safe for
	// concurrent use.
	result.Verb = cases.Fold().String(tokens[0])
	result.Args = tokens[1:]

	result.Command = p.registry.Get(result.Verb)
	if result.Command == nil {
		result.Error = &UnknownCommandError{Verb: result.Verb}
		return result
	}

	inv, err := result.Command.Parse(result.Verb, result.Args)
	if err != nil {
		var usage *UsageError
		if errors.As(err, &usage) && len(usage.Lines) == 0 {
			usage.Lines = result.Command.UsageLines(result.Verb)
		}
		result.Error = err
		return result
	}
	result.Invocation = inv
	return result
}

// Tokenize splits a line on whitespace, dropping empty tokens.
func Tokenize(input string) []string {
	return strings.Fields(input)
}
