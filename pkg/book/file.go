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

package book

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const FilePermissions = 0644

var (
	ErrTruncated = errors.New("book: file size is not a multiple of the record size")
	ErrUnsorted  = errors.New("book: keys are not strictly increasing")
)

// WriteFile writes the book to path as a flat sequence of records. The data
// is written to a temporary file next to path which is renamed into place
// only once everything has been written, so a failed write leaves no file.
func WriteFile(path string, format Format, book *Book) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	writer := bufio.NewWriter(tmp)
	record := make([]byte, 0, format.RecordSize())
	for _, entry := range book.entries {
		if record, err = format.Append(record[:0], entry); err != nil {
			return err
		}

		if _, err = writer.Write(record); err != nil {
			return err
		}
	}

	if err = writer.Flush(); err != nil {
		return err
	}

	if err = tmp.Chmod(FilePermissions); err != nil {
		return err
	}

	if err = tmp.Sync(); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"path":    path,
		"format":  format,
		"entries": len(book.entries),
	}).Debug("Wrote opening book")

	return os.Rename(tmp.Name(), path)
}

// Load reads a book of the given format, checking that it is made of whole
// records with strictly increasing keys.
func Load(path string, format Format) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	size := format.RecordSize()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes in %s", ErrTruncated, len(data), path)
	}

	entries := make([]Entry, 0, len(data)/size)
	for offset := 0; offset < len(data); offset += size {
		entry := format.Decode(data[offset : offset+size])
		if n := len(entries); n > 0 && !entries[n-1].Key.Less(entry.Key) {
			return nil, fmt.Errorf("%w: record %d of %s", ErrUnsorted, n, path)
		}

		entries = append(entries, entry)
	}

	return &Book{entries: entries}, nil
}
