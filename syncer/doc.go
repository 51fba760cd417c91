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


// Package syncer keeps a catalog.Store in step with the remote catalog.
//
// An Engine moves through the states
//
//	Uninitialized -> Loading -> Bootstrapping -> Ready
//	Ready -> Checking -> {Ready, Downloading -> Ready}
//
// Initialize loads the persisted mirror and falls back to a full download
// when nothing usable is on disk. Concurrent Initialize calls share a single
// flight. Once Ready, CheckAndRefresh computes the store watermark, probes
// the remote for records created or updated after it, and merges the delta
// when either probe reports anything. A failed probe counts as stale.
//
// Refreshes never overlap: a CheckAndRefresh or DownloadAll that starts
// while another write cycle is running returns ErrRefreshInProgress.
package syncer
