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

// Domain validation errors
var (
	// ErrInvalidItemRecord indicates an ItemRecord failed validation.
	ErrInvalidItemRecord = errors.New("invalid item record")

	// ErrEmptyID indicates the record has no identifier.
	ErrEmptyID = errors.New("record id cannot be empty")

	// ErrInvalidCategory indicates a category outside the closed set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidQualityScore indicates a quality score outside [0,100].
	ErrInvalidQualityScore = errors.New("quality score must be between 0 and 100")

	// ErrInvalidHarshness indicates a harshness level outside [0,3].
	ErrInvalidHarshness = errors.New("harshness level must be between 0 and 3")

	// ErrInvalidProfile indicates a UserProfile failed validation.
	ErrInvalidProfile = errors.New("invalid user profile")

	// ErrInvalidSensitivityLevel indicates a sensitivity level outside [0,3].
	ErrInvalidSensitivityLevel = errors.New("sensitivity level must be between 0 and 3")

	// ErrUnknownConcern indicates a concern name outside the fixed dimensions.
	ErrUnknownConcern = errors.New("unknown concern")
)
