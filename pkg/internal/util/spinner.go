// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
)

const SPIN = 31

// Progress is a ~working~ spinner which shows how many out of a total
// number of jobs are done. A nil *Progress is valid and shows nothing.
type Progress struct {
	spinner *spinner.Spinner
	label   string
	total   int
}

func StartProgress(label string, total int) *Progress {
	progress := &Progress{
		spinner: spinner.New(spinner.CharSets[SPIN], 100*time.Millisecond),
		label:   label,
		total:   total,
	}

	progress.Update(0)
	progress.spinner.Start()
	return progress
}

// Update sets the number of finished jobs.
func (progress *Progress) Update(done int) {
	if progress == nil {
		return
	}

	progress.spinner.Lock()
	progress.spinner.Suffix = fmt.Sprintf(" %s \x1b[33m%d\x1b[0m/%d", progress.label, done, progress.total)
	progress.spinner.Unlock()
}

func (progress *Progress) Stop() {
	if progress == nil {
		return
	}

	progress.spinner.Stop()
}
