// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package fsutil contains utilities for working with the dataset directories.
package fsutil

import (
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// IsDir returns whether path exists and is a directory, or an error if something went wrong
// in the filesystem.
func IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to IsDir(%q)", path)
}

// FileExists returns whether the file or directory exists or an error if something went wrong in the filesystem.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to FileExists(%q)", path)
}

// SubDirs returns the names of the immediate subdirectories of dir, in directory listing order.
// Symbolic links to directories are followed.
func SubDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list directory %q", dir)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			isDir, err := IsDir(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, err
			}
			if isDir {
				names = append(names, entry.Name())
			}
		}
	}
	return names, nil
}

// CopyFile copies src to dst, creating the parent directories of dst if needed.
// An existing dst is overwritten.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "failed to open %q for copying", src)
	}
	defer func() { _ = in.Close() }()

	if err = os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %q", dst)
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "failed to create %q", dst)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "failed to close %q", dst)
		}
	}()
	if _, err = io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "failed to copy %q to %q", src, dst)
	}
	return nil
}

// ReplaceTildeInDir by the user's home directory. Returns dir if it doesn't start with "~".
//
// It returns an error if `dir` has an unknown user or some other filesystem error (e.g: `~unknown/...`)
func ReplaceTildeInDir(dir string) (string, error) {
	if len(dir) == 0 || dir[0] != '~' {
		return dir, nil
	}
	var userName string
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		sepIdx := strings.IndexRune(dir, '/')
		if sepIdx == -1 {
			userName = dir[1:]
		} else {
			userName = dir[1:sepIdx]
		}
	}
	var usr *user.User
	var err error
	if userName == "" {
		usr, err = user.Current()
	} else {
		usr, err = user.Lookup(userName)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to lookup home directory for user in path %q", dir)
	}
	return filepath.Join(usr.HomeDir, dir[1+len(userName):]), nil
}
