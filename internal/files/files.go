// Package files opens the run's input and output paths with bounded retries.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retry bounds how hard an open is retried before giving up.
type Retry struct {
	MaxRetries uint64
	Initial    time.Duration
	// Notify, if set, is called before each retry.
	Notify func(err error, wait time.Duration)
}

// IOUnavailableError means a path could not be opened in the mode the run needs.
type IOUnavailableError struct {
	Path string
	Mode string
	Err  error
}

func (e *IOUnavailableError) Error() string {
	return fmt.Sprintf("%s path %q unavailable: %v", e.Mode, e.Path, e.Err)
}

func (e *IOUnavailableError) Unwrap() error { return e.Err }

// OpenInput opens path for reading. A directory is rejected.
func OpenInput(path string, retry Retry) (*os.File, error) {
	return open(path, "input", retry, func() (*os.File, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		if info.IsDir() {
			f.Close()
			return nil, syscall.EISDIR
		}
		return f, nil
	})
}

// CreateOutput creates or truncates path for writing.
func CreateOutput(path string, retry Retry) (*os.File, error) {
	return open(path, "output", retry, func() (*os.File, error) {
		return os.Create(path)
	})
}

func open(path, mode string, retry Retry, fn func() (*os.File, error)) (*os.File, error) {
	b := backoff.NewExponentialBackOff()
	if retry.Initial > 0 {
		b.InitialInterval = retry.Initial
	}
	policy := backoff.WithMaxRetries(b, retry.MaxRetries)

	var f *os.File
	operation := func() error {
		var err error
		f, err = fn()
		if err != nil && permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.RetryNotify(operation, policy, retry.Notify); err != nil {
		return nil, &IOUnavailableError{Path: path, Mode: mode, Err: err}
	}
	return f, nil
}

func permanent(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.EISDIR) ||
		errors.Is(err, syscall.ENOTDIR)
}
