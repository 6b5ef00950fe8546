// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client owns the board client's process lifecycle: it loads the
// local board, starts the drain and connectivity workers, runs the terminal
// UI in the foreground and closes the local database once the UI exits.
package client
