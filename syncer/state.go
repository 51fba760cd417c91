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

// State is the lifecycle state of an Engine.
type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateBootstrapping
	StateReady
	StateChecking
	StateDownloading
)

var stateNames = [...]string{
	StateUninitialized: "uninitialized",
	StateLoading:       "loading",
	StateBootstrapping: "bootstrapping",
	StateReady:         "ready",
	StateChecking:      "checking",
	StateDownloading:   "downloading",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Initialized reports whether the cache has been populated at least once.
// Checking and Downloading only happen after Ready.
func (s State) Initialized() bool {
	return s >= StateReady
}
