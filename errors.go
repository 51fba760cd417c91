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


package skinshelf

import "errors"

var (
	// ErrRemoteRequired is returned when neither a remote URL nor a remote
	// catalog is configured.
	ErrRemoteRequired = errors.New("remote catalog URL or client is required")

	// ErrClosed is returned by lifecycle calls on a closed Shelf.
	ErrClosed = errors.New("shelf is closed")
)
