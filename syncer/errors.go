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


package syncer

import "errors"

var (
	// ErrStoreRequired is returned when no record store is supplied.
	ErrStoreRequired = errors.New("catalog store is required")

	// ErrRemoteRequired is returned when no remote catalog is supplied.
	ErrRemoteRequired = errors.New("remote catalog is required")

	// ErrNotReady is returned by CheckAndRefresh before initialization completes.
	ErrNotReady = errors.New("catalog cache is not ready")

	// ErrInitFailed indicates neither the persisted mirror nor a full
	// download produced a usable cache. The engine stays Uninitialized.
	ErrInitFailed = errors.New("catalog cache initialization failed")

	// ErrRefreshInProgress is returned when a write cycle is already running.
	ErrRefreshInProgress = errors.New("catalog refresh already in progress")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
