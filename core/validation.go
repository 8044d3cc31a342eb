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

import (
	"fmt"
	"strings"
)

// ValidateText checks that a user supplied text payload is usable.
//
// Validation rules:
//   - Text must contain at least one non-whitespace character
//
// The text itself is stored as given; trimming is only used for the check.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyText)
	}
	return nil
}

// ValidateTopicKey checks that a topic natural key was provided.
func ValidateTopicKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyTopicKey)
	}
	return nil
}

// NotFound builds an error wrapping ErrNotFound that names what was missing.
func NotFound(kind Kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
}
