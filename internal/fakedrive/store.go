package fakedrive

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Store layout inside the working copy's marker directory.
const (
	storeDirName  = "fakedrive"
	remoteDirName = "remote"
	trashDirName  = "trash"
)

// Errors surfaced to the caller as diagnostics.
var (
	ErrNoContext   = errors.New("no drive context is found; use init")
	ErrNotFound    = errors.New("path not found")
	ErrNotFolder   = errors.New("not a folder")
	ErrIsFolder    = errors.New("is a folder")
	ErrInvalidName = errors.New("invalid name")
)

// store maps remote paths onto a local directory tree. Each remote name is
// one path-escaped local segment, so names may contain "/".
type store struct {
	remote string
	trash  string
}

func openStore(dir, marker string) (*store, error) {
	base := filepath.Join(dir, marker)

	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return nil, ErrNoContext
	}

	s := &store{
		remote: filepath.Join(base, storeDirName, remoteDirName),
		trash:  filepath.Join(base, storeDirName, trashDirName),
	}

	for _, d := range []string{s.remote, s.trash} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return nil, fmt.Errorf("creating store: %w", err)
		}
	}

	return s, nil
}

// node is a resolved remote entry.
type node struct {
	segments []string // remote names from the root; empty for the root
	local    string
	isDir    bool
	size     int64
}

// display returns the absolute remote path shown in listings.
func (n node) display() string {
	return "/" + strings.Join(n.segments, "/")
}

func (n node) name() string {
	if len(n.segments) == 0 {
		return ""
	}

	return n.segments[len(n.segments)-1]
}

// splitPath turns a user-supplied remote path into names. "", "/" and "."
// are the root.
func splitPath(p string) []string {
	var segs []string

	for _, s := range strings.Split(p, "/") {
		if s == "" || s == "." {
			continue
		}

		segs = append(segs, s)
	}

	return segs
}

func (s *store) localPath(segments []string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, s.remote)

	for _, seg := range segments {
		parts = append(parts, escapeName(seg))
	}

	return filepath.Join(parts...)
}

// escapeName maps a remote name to a single local path segment.
func escapeName(name string) string {
	if name == ".." {
		return "%2E%2E"
	}

	return url.PathEscape(name)
}

// lookup resolves p to an existing node.
func (s *store) lookup(p string) (node, error) {
	segs := splitPath(p)
	local := s.localPath(segs)

	info, err := os.Stat(local)
	if errors.Is(err, os.ErrNotExist) {
		return node{}, fmt.Errorf("%s: %w", p, ErrNotFound)
	}

	if err != nil {
		return node{}, err
	}

	return node{segments: segs, local: local, isDir: info.IsDir(), size: info.Size()}, nil
}

// children returns the entries directly under dir, sorted by name.
func (s *store) children(dir node) ([]node, error) {
	entries, err := os.ReadDir(dir.local)
	if err != nil {
		return nil, err
	}

	nodes := make([]node, 0, len(entries))

	for _, e := range entries {
		name, err := url.PathUnescape(e.Name())
		if err != nil {
			return nil, fmt.Errorf("corrupt store entry %q: %w", e.Name(), err)
		}

		info, err := e.Info()
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, node{
			segments: append(slices.Clone(dir.segments), name),
			local:    filepath.Join(dir.local, e.Name()),
			isDir:    e.IsDir(),
			size:     info.Size(),
		})
	}

	slices.SortFunc(nodes, func(a, b node) int { return strings.Compare(a.name(), b.name()) })

	return nodes, nil
}

// walk lists descendants of dir down to maxDepth levels (negative means
// unlimited), parents before children.
func (s *store) walk(dir node, maxDepth int, visit func(node)) error {
	if maxDepth == 0 {
		return nil
	}

	kids, err := s.children(dir)
	if err != nil {
		return err
	}

	for _, k := range kids {
		visit(k)

		if k.isDir {
			if err := s.walk(k, maxDepth-1, visit); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeFile creates or replaces the file at p, creating parent folders.
func (s *store) writeFile(p string, content []byte) error {
	segs := splitPath(p)
	if len(segs) == 0 {
		return fmt.Errorf("%q: %w", p, ErrInvalidName)
	}

	for i := range segs[:len(segs)-1] {
		local := s.localPath(segs[:i+1])

		info, err := os.Stat(local)
		if err == nil && !info.IsDir() {
			return fmt.Errorf("%s: %w", "/"+strings.Join(segs[:i+1], "/"), ErrNotFolder)
		}
	}

	target := s.localPath(segs)

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return fmt.Errorf("%s: %w", p, ErrIsFolder)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
		return err
	}

	return os.WriteFile(target, content, 0o600)
}

// child returns the would-be node for name inside parent.
func (s *store) child(parent node, name string) node {
	segs := append(slices.Clone(parent.segments), name)
	return node{segments: segs, local: s.localPath(segs)}
}

func exists(local string) bool {
	_, err := os.Stat(local)
	return err == nil
}

// toTrash moves n into the trash under a unique name.
func (s *store) toTrash(n node) error {
	entries, err := os.ReadDir(s.trash)
	if err != nil {
		return err
	}

	dst := filepath.Join(s.trash, fmt.Sprintf("%04d-%s", len(entries), filepath.Base(n.local)))

	return os.Rename(n.local, dst)
}

func (s *store) emptyTrash() error {
	if err := os.RemoveAll(s.trash); err != nil {
		return err
	}

	return os.MkdirAll(s.trash, 0o700)
}
