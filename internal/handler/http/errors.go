// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrIntegrityCheckFailed is returned when the X-Body-Hash header does not
	// match the HMAC of the request body.
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
)
