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

package bookgen

import (
	"errors"
	"io/fs"
	"os"
)

const FilePermissions = 0755

// Exists reports whether something exists at the given path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// TryMkdir creates the directory and its parents if it doesn't exist.
func TryMkdir(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return os.MkdirAll(dir, FilePermissions)
	}

	return nil
}

// TryCreate writes data to file if the file doesn't exist. It reports
// whether the file was created.
func TryCreate(file string, data []byte) (bool, error) {
	if _, err := os.Stat(file); !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	return true, os.WriteFile(file, data, 0644)
}
