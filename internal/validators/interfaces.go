// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks board input before it reaches the stores or the
// wire: entities, patches, reorder batches and fault-injection settings.
//
// The same [EntityValidator] runs on both sides. The client dispatcher rejects
// bad intents before anything is queued, and the remote authority rejects bad
// requests with 400. Rules therefore never depend on local state.
package validators

import "context"

// Validator validates a value. fields optionally narrows the check to the
// named fields (see the Field* constants); a field selector the value does
// not know yields [ErrUnknownField].
type Validator interface {
	Validate(ctx context.Context, value any, fields ...string) error
}
