// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Error classes. Every error surfaced by the system wraps exactly one of these
// so callers can branch with errors.Is.
var (
	// ErrValidation indicates missing or malformed user input.
	// No state is mutated when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a lookup by id or natural key matched no record.
	ErrNotFound = errors.New("not found")

	// ErrRemoteService indicates an embedding or generative model call failed.
	ErrRemoteService = errors.New("remote service failure")

	// ErrPersistence indicates the record store could not be written or read.
	ErrPersistence = errors.New("persistence failure")
)

// Validation details
var (
	// ErrEmptyText indicates a text payload is empty after trimming.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyTopicKey indicates a topic natural key was not provided.
	ErrEmptyTopicKey = errors.New("topic key cannot be empty")

	// ErrInvalidCategory indicates a value is not one of the four rhetorical categories.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrMissingCredential indicates a hosted service was configured without an API key.
	ErrMissingCredential = errors.New("API credential not configured")
)
