// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// FileChecker checks if a file exists and is readable
type FileChecker struct {
	name string
	path string
}

// NewFileChecker creates a checker for file existence
func NewFileChecker(name, path string) *FileChecker {
	return &FileChecker{
		name: name,
		path: path,
	}
}

func (c *FileChecker) Name() string {
	return c.name
}

func (c *FileChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "not configured (optional)",
		}
	}

	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "file not found",
				Message: c.path,
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	if info.IsDir() {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  "expected file, got directory",
		}
	}

	if info.Size() == 0 {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "file is empty",
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "file exists and readable",
	}
}

// DirChecker checks that the asset directory is readable and holds an
// entry document.
type DirChecker struct {
	name  string
	path  string
	index string
}

// NewDirChecker creates a checker for a static asset directory. index is
// the entry document expected inside it; empty skips that check.
func NewDirChecker(name, path, index string) *DirChecker {
	return &DirChecker{name: name, path: path, index: index}
}

func (c *DirChecker) Name() string {
	return c.name
}

func (c *DirChecker) Check(_ context.Context) CheckResult {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "directory not found",
				Message: c.path,
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	if c.index != "" {
		if _, err := os.Stat(filepath.Join(c.path, c.index)); err != nil {
			return CheckResult{
				Status:  StatusDegraded,
				Message: c.index + " missing (front-end not built yet?)",
			}
		}
	}

	if len(entries) == 0 {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "directory is empty",
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "directory readable",
	}
}

// DefaultDialTimeout bounds BackendChecker probes.
const DefaultDialTimeout = 2 * time.Second

// BackendChecker probes TCP reachability of a proxy target. The backend is
// started independently of devfront, so the result is informational and
// never makes the server unready.
type BackendChecker struct {
	name    string
	target  string
	timeout time.Duration
	dialer  func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewBackendChecker creates a checker for the origin in target (e.g. "http://localhost:5000").
func NewBackendChecker(name, target string, timeout time.Duration) *BackendChecker {
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	d := &net.Dialer{}
	return &BackendChecker{
		name:    name,
		target:  target,
		timeout: timeout,
		dialer:  d.DialContext,
	}
}

func (c *BackendChecker) Name() string {
	return c.name
}

func (c *BackendChecker) Check(ctx context.Context) CheckResult {
	addr, err := hostPort(c.target)
	if err != nil {
		return CheckResult{
			Status:        StatusDegraded,
			Error:         err.Error(),
			Informational: true,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer(ctx, "tcp", addr)
	if err != nil {
		return CheckResult{
			Status:        StatusDegraded,
			Message:       "backend unreachable at " + addr,
			Error:         err.Error(),
			Informational: true,
		}
	}
	_ = conn.Close()

	return CheckResult{
		Status:        StatusHealthy,
		Message:       "backend reachable at " + addr,
		Informational: true,
	}
}

func hostPort(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", errors.New("target has no host")
	}
	if u.Port() != "" {
		return u.Host, nil
	}
	port := "80"
	if u.Scheme == "https" {
		port = "443"
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
