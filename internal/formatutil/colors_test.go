// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package formatutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, `a\nb`, Sanitize("a\nb"))
	assert.Equal(t, `\x1b[1m`, Sanitize("\x1b[1m"))
}

func TestDisabledColors(t *testing.T) {
	DisableColors(true)
	defer DisableColors(false)
	assert.Equal(t, "p.X", Red("p.", "X"))
}
