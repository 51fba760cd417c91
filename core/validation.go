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

import "fmt"

// ValidateItemRecord validates an ItemRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Category, when set, must be a member of the closed set
//   - QualityScore must be within [0,100]
//   - HarshnessLevel must be within [0,3]
//
// NOT validated (optional on legacy records):
//   - CreatedAt / UpdatedAt
//   - ConcernWeights
func ValidateItemRecord(record *ItemRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidItemRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItemRecord, ErrEmptyID)
	}

	if record.Category != "" && !record.Category.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidItemRecord, ErrInvalidCategory, record.Category)
	}

	if record.QualityScore < 0 || record.QualityScore > 100 {
		return fmt.Errorf("%w: %w", ErrInvalidItemRecord, ErrInvalidQualityScore)
	}

	if record.HarshnessLevel < 0 || record.HarshnessLevel > 3 {
		return fmt.Errorf("%w: %w", ErrInvalidItemRecord, ErrInvalidHarshness)
	}

	return nil
}

// ValidateProfile validates a UserProfile.
func ValidateProfile(profile *UserProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}
	if profile.SensitivityLevel < 0 || profile.SensitivityLevel > 3 {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrInvalidSensitivityLevel)
	}
	for _, c := range profile.DesiredConcerns {
		if !c.Valid() {
			return fmt.Errorf("%w: %w: %q", ErrInvalidProfile, ErrUnknownConcern, c)
		}
	}
	return nil
}
