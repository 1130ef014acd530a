// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package vfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// =============================================================================
// FAULT CODES
// =============================================================================

// Code categorizes a filesystem fault.
type Code int

const (
	// CodeUnknown is used for host errors that fit no other category.
	CodeUnknown Code = iota
	CodeNotFound
	CodeSecurity
	CodeAbort
	CodeInvalidModification
	CodeInvalidState
	CodeQuotaExceeded
	CodeTypeMismatch
)

var codeNames = map[Code]string{
	CodeUnknown:             "Unknown Error",
	CodeNotFound:            "NOT_FOUND_ERR",
	CodeSecurity:            "SECURITY_ERR",
	CodeAbort:               "ABORT_ERR",
	CodeInvalidModification: "INVALID_MODIFICATION_ERR",
	CodeInvalidState:        "INVALID_STATE_ERR",
	CodeQuotaExceeded:       "QUOTA_EXCEEDED_ERR",
	CodeTypeMismatch:        "TYPE_MISMATCH_ERR",
}

// String returns the display name of the code, e.g. "QUOTA_EXCEEDED_ERR".
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return codeNames[CodeUnknown]
}

// =============================================================================
// FAULT
// =============================================================================

// Fault is the error type returned by every filesystem operation.
type Fault struct {
	Code Code
	Op   string
	Path string
	Err  error
}

// Sentinel faults for errors.Is comparisons. Only the code is compared.
var (
	ErrNotFound            = &Fault{Code: CodeNotFound}
	ErrSecurity            = &Fault{Code: CodeSecurity}
	ErrAbort               = &Fault{Code: CodeAbort}
	ErrInvalidModification = &Fault{Code: CodeInvalidModification}
	ErrInvalidState        = &Fault{Code: CodeInvalidState}
	ErrQuotaExceeded       = &Fault{Code: CodeQuotaExceeded}
	ErrTypeMismatch        = &Fault{Code: CodeTypeMismatch}
)

func (f *Fault) Error() string {
	msg := fmt.Sprintf("vfs: %s %s: %s", f.Op, f.Path, f.Code)
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Fault) Unwrap() error { return f.Err }

// Is reports whether target is a fault with the same code.
func (f *Fault) Is(target error) bool {
	t, ok := target.(*Fault)
	if !ok {
		return false
	}
	return t.Code == f.Code
}

// CodeOf extracts the fault code from err. Errors that are not faults
// report CodeUnknown.
func CodeOf(err error) Code {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code
	}
	return CodeUnknown
}

func newFault(code Code, op, path string) *Fault {
	return &Fault{Code: code, Op: op, Path: path}
}

// translate maps a host error onto a fault. Faults pass through untouched.
func translate(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return err
	}

	code := CodeUnknown
	switch {
	case errors.Is(err, fs.ErrNotExist):
		code = CodeNotFound
	case errors.Is(err, fs.ErrExist):
		code = CodeInvalidModification
	case errors.Is(err, fs.ErrPermission):
		code = CodeSecurity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = CodeAbort
	}
	return &Fault{Code: code, Op: op, Path: path, Err: err}
}

// checkContext converts a done context into an abort fault.
func checkContext(ctx context.Context, op, path string) error {
	if err := ctx.Err(); err != nil {
		return &Fault{Code: CodeAbort, Op: op, Path: path, Err: err}
	}
	return nil
}
