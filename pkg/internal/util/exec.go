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
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrTimeout = errors.New("exec: command timed out")

// ExitError is returned when a command ran but exited with a non-zero status.
type ExitError struct {
	Code   int
	Stderr string
}

func (err *ExitError) Error() string {
	if err.Stderr == "" {
		return "exec: exit status " + strconv.Itoa(err.Code)
	}

	return "exec: exit status " + strconv.Itoa(err.Code) + ": " + err.Stderr
}

// Output runs the command with the given arguments and returns its standard
// output. The command is killed once timeout runs out, in which case the
// error is ErrTimeout. A timeout of zero disables the limit.
func Output(ctx context.Context, timeout time.Duration, command string, args ...string) (string, error) {
	logrus.Tracef("\x1b[34m%s\x1b[0m %s\n", command, strings.Join(args, " "))

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Don't hang on pipes held open by children of a killed command.
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", ErrTimeout
		}

		return "", ctxErr
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &ExitError{
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}

		return "", err
	}

	return stdout.String(), nil
}
