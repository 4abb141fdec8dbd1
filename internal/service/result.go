package service

import "net/http"

// Result is the uniform outcome envelope returned by domain operations.
// Exactly one variant is populated: a success carries a payload, a failure
// carries a reason drawn from the domain message catalog. Infrastructure
// faults are not Results; they travel as plain errors and are wrapped into a
// generic 500 at the transport boundary.
type Result struct {
	StatusCode int
	Payload    any
	Reason     string
	ErrorCode  string
	failed     bool
}

// OK builds a success result.
func OK(status int, payload any) *Result {
	return &Result{StatusCode: status, Payload: payload}
}

// Created builds a 201 success result.
func Created(payload any) *Result {
	return OK(http.StatusCreated, payload)
}

// Fail builds a failure result.
func Fail(status int, reason string) *Result {
	return &Result{StatusCode: status, Reason: reason, failed: true}
}

// FailCode builds a failure result carrying a machine-readable code.
func FailCode(status int, reason, code string) *Result {
	return &Result{StatusCode: status, Reason: reason, ErrorCode: code, failed: true}
}

// IsFailure reports which variant is populated.
func (r *Result) IsFailure() bool {
	return r.failed
}
