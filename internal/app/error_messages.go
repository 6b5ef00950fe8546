// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the board
// server handlers and the client adapter.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies. Keeping them in one place keeps both sides of the
// wire contract in agreement.
package app

const (
	// MsgConflict is the error field of a 409 response.
	MsgConflict = "Conflict"

	// MsgVersionMismatch explains a 409 response to humans.
	MsgVersionMismatch = "Version mismatch. Server has newer data."

	// MsgSimulatedFailure is the body of a failure injected by the chaos
	// middleware.
	MsgSimulatedFailure = "Simulated Network Failure"

	// MsgBoardReset confirms POST /api/reset.
	MsgBoardReset = "Board reset"

	// MsgReordered confirms POST /api/reorder.
	MsgReordered = "Reordered"

	// MsgHealthOK is the status field of a healthy /api/health answer.
	MsgHealthOK = "ok"

	// MsgInternalServerError replaces storage details in 5xx bodies.
	MsgInternalServerError = "internal server error"
)
