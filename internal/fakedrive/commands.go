// Package fakedrive is a local-filesystem stand-in for the drive client.
// It reproduces the client's observable command-line behavior closely
// enough to exercise the conformance scenarios without a remote account:
// the remote store lives under the working copy's marker directory.
package fakedrive

import (
	"bufio"
	"crypto/md5" //nolint:gosec // the client reports MD5 checksums
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// DefaultMarker is the working-copy marker directory.
const DefaultMarker = ".gd"

// Quirks switch on deliberate deviations from the client's contract, so
// tests can prove the harness notices them.
type Quirks struct {
	RenameClobbers      bool // rename onto an existing name replaces it
	ListFileEmpty       bool // listing a file path prints nothing
	TrashIgnoresMissing bool // trashing a missing path succeeds silently
	StatWrongChecksum   bool // stat reports the checksum of empty content
}

// env is one invocation's I/O and state.
type env struct {
	dir    string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	quirks Quirks
}

// Main runs one client invocation: args[0] is the subcommand. It returns
// the process exit code.
func Main(args []string, dir string, stdin io.Reader, stdout, stderr io.Writer, quirks Quirks) int {
	e := &env{dir: dir, stdin: stdin, stdout: stdout, stderr: stderr, quirks: quirks}

	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: drive <command> [flags] [args]")
		return 2
	}

	cmds := map[string]func([]string) error{
		"init":       e.cmdInit,
		"list":       e.cmdList,
		"push":       e.cmdPush,
		"pull":       e.cmdPull,
		"rename":     e.cmdRename,
		"move":       e.cmdMove,
		"trash":      e.cmdTrash,
		"emptytrash": e.cmdEmptyTrash,
		"stat":       e.cmdStat,
	}

	run, ok := cmds[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		return 2
	}

	if err := run(args[1:]); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	return 0
}

func (e *env) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	return fs
}

func (e *env) open() (*store, error) {
	return openStore(e.dir, DefaultMarker)
}

func (e *env) cmdInit(_ []string) error {
	if err := os.MkdirAll(filepath.Join(e.dir, DefaultMarker), 0o700); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	_, err := e.open()

	return err
}

func (e *env) cmdList(args []string) error {
	fs := e.flags("list")
	fs.Bool("no-prompt", false, "do not paginate")
	recursive := fs.Bool("r", false, "recursive")
	depth := fs.Int("m", 1, "maximum depth, -1 for unlimited")

	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := e.open()
	if err != nil {
		return err
	}

	maxDepth := 1
	if *recursive {
		maxDepth = *depth
	}

	targets := fs.Args()
	if len(targets) == 0 {
		targets = []string{""}
	}

	var lines []string

	for _, p := range targets {
		n, err := s.lookup(p)
		if err != nil {
			return err
		}

		if !n.isDir {
			if !e.quirks.ListFileEmpty {
				lines = append(lines, n.display())
			}

			continue
		}

		if err := s.walk(n, maxDepth, func(k node) { lines = append(lines, k.display()) }); err != nil {
			return err
		}
	}

	for _, l := range lines {
		fmt.Fprintln(e.stdout, l)
	}

	return nil
}

func (e *env) cmdPush(args []string) error {
	fs := e.flags("push")
	piped := fs.Bool("piped", false, "read content from stdin")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*piped {
		return errors.New("push: only -piped is supported")
	}

	if fs.NArg() != 1 {
		return errors.New("push: expected exactly one remote path")
	}

	s, err := e.open()
	if err != nil {
		return err
	}

	content, err := io.ReadAll(e.stdin)
	if err != nil {
		return fmt.Errorf("push: reading stdin: %w", err)
	}

	return s.writeFile(fs.Arg(0), content)
}

func (e *env) cmdPull(args []string) error {
	fs := e.flags("pull")
	piped := fs.Bool("piped", false, "write content to stdout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*piped {
		return errors.New("pull: only -piped is supported")
	}

	if fs.NArg() != 1 {
		return errors.New("pull: expected exactly one remote path")
	}

	s, err := e.open()
	if err != nil {
		return err
	}

	n, err := s.lookup(fs.Arg(0))
	if err != nil {
		return err
	}

	if n.isDir {
		return fmt.Errorf("%s: %w", n.display(), ErrIsFolder)
	}

	content, err := os.ReadFile(n.local)
	if err != nil {
		return err
	}

	_, err = e.stdout.Write(content)

	return err
}

func (e *env) cmdRename(args []string) error {
	if len(args) != 2 {
		return errors.New("rename: expecting <src> <newname>")
	}

	s, err := e.open()
	if err != nil {
		return err
	}

	src, err := s.lookup(args[0])
	if err != nil {
		return err
	}

	if len(src.segments) == 0 {
		return errors.New("rename: cannot rename the root")
	}

	newName := args[1]
	if newName == "" || newName == "." || newName == ".." {
		return fmt.Errorf("rename: %q: %w", newName, ErrInvalidName)
	}

	if newName == src.name() {
		return nil
	}

	parent := node{segments: src.segments[:len(src.segments)-1]}
	parent.local = s.localPath(parent.segments)
	dst := s.child(parent, newName)

	if exists(dst.local) {
		if !e.quirks.RenameClobbers {
			return fmt.Errorf("%s already exists. Use `-force` flag to override this behaviour", dst.display())
		}

		if err := os.RemoveAll(dst.local); err != nil {
			return err
		}
	}

	return os.Rename(src.local, dst.local)
}

// cmdMove relocates every source into the destination folder. Nesting a
// folder into itself rejects the whole command up front; other per-item
// problems are reported and skipped, and the command only fails when no
// item could be handled.
func (e *env) cmdMove(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("move: expected <src> [src...] <dest>, instead got: %v", args)
	}

	s, err := e.open()
	if err != nil {
		return err
	}

	srcs, dest := args[:len(args)-1], args[len(args)-1]
	destPath := strings.Join(splitPath(dest), "/")

	for _, src := range srcs {
		srcPath := strings.Join(splitPath(src), "/")
		if srcPath == "" || destPath == srcPath || strings.HasPrefix(destPath, srcPath+"/") {
			return fmt.Errorf("%s cannot be nested into %s", src, dest)
		}
	}

	failed := 0

	for _, src := range srcs {
		if err := s.move(src, dest); err != nil {
			fmt.Fprintf(e.stderr, "%s: %v\n", src, err)
			failed++
		}
	}

	if failed == len(srcs) {
		return fmt.Errorf("move: no item could be moved")
	}

	return nil
}

func (s *store) move(src, dest string) error {
	n, err := s.lookup(src)
	if err != nil {
		return err
	}

	parent, err := s.lookup(dest)
	if err != nil {
		return fmt.Errorf("dest: %w", err)
	}

	if !parent.isDir {
		return fmt.Errorf("dest: '%s' must be an existent folder", dest)
	}

	if len(n.segments) > 0 && slices.Equal(n.segments[:len(n.segments)-1], parent.segments) {
		return nil
	}

	dst := s.child(parent, n.name())
	if exists(dst.local) {
		return fmt.Errorf("%s already exists. Use `-force` flag to override this behaviour", dst.display())
	}

	return os.Rename(n.local, dst.local)
}

func (e *env) cmdTrash(args []string) error {
	fs := e.flags("trash")
	noPrompt := fs.Bool("no-prompt", false, "do not ask for confirmation")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		return errors.New("trash: expected at least one path")
	}

	s, err := e.open()
	if err != nil {
		return err
	}

	var nodes []node

	for _, p := range fs.Args() {
		n, err := s.lookup(p)
		if errors.Is(err, ErrNotFound) && e.quirks.TrashIgnoresMissing {
			continue
		}

		if err != nil {
			return err
		}

		if len(n.segments) == 0 {
			return errors.New("trash: cannot trash the root")
		}

		nodes = append(nodes, n)
	}

	for _, n := range nodes {
		fmt.Fprintf(e.stdout, "- %s\n", n.display())
	}

	if !*noPrompt && !e.confirm() {
		return errors.New("trash: aborted")
	}

	for _, n := range nodes {
		if err := s.toTrash(n); err != nil {
			return fmt.Errorf("trash %s: %w", n.display(), err)
		}
	}

	return nil
}

func (e *env) cmdEmptyTrash(args []string) error {
	fs := e.flags("emptytrash")
	noPrompt := fs.Bool("no-prompt", false, "do not ask for confirmation")

	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := e.open()
	if err != nil {
		return err
	}

	if !*noPrompt && !e.confirm() {
		return errors.New("emptytrash: aborted")
	}

	return s.emptyTrash()
}

// confirm prompts on stdout and reads one answer line from stdin.
func (e *env) confirm() bool {
	fmt.Fprint(e.stdout, "Proceed with the changes? [Y/n]: ")

	line, err := bufio.NewReader(e.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	fmt.Fprintln(e.stdout)

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// statRow matches the client's key/value layout.
const statRow = "%-20s %-30v\n"

func (e *env) cmdStat(args []string) error {
	if len(args) == 0 {
		return errors.New("stat: expected at least one path")
	}

	s, err := e.open()
	if err != nil {
		return err
	}

	for _, p := range args {
		n, err := s.lookup(p)
		if err != nil {
			return err
		}

		if err := e.printStat(p, n); err != nil {
			return err
		}
	}

	return nil
}

func (e *env) printStat(p string, n node) error {
	info, err := os.Stat(n.local)
	if err != nil {
		return err
	}

	dirType, mimeType := "file", mimeByName(n.name())
	if n.isDir {
		dirType, mimeType = "folder", folderMimeType
	}

	id := md5.Sum([]byte(n.display())) //nolint:gosec // stable identifier, not security
	size := int64(0)

	if !n.isDir {
		size = n.size
	}

	fmt.Fprintf(e.stdout, "\n\033[92m%s\033[00m\n", p)
	fmt.Fprintf(e.stdout, statRow, "FileId", hex.EncodeToString(id[:])[:16])
	fmt.Fprintf(e.stdout, statRow, "Bytes", size)
	fmt.Fprintf(e.stdout, statRow, "Size", prettyBytes(size))
	fmt.Fprintf(e.stdout, statRow, "DirType", dirType)
	fmt.Fprintf(e.stdout, statRow, "MimeType", mimeType)
	fmt.Fprintf(e.stdout, statRow, "ModTime", info.ModTime().UTC().Format(time.RFC3339))

	if n.isDir {
		return nil
	}

	content, err := os.ReadFile(n.local)
	if err != nil {
		return err
	}

	if e.quirks.StatWrongChecksum {
		content = nil
	}

	sum := md5.Sum(content) //nolint:gosec // the client reports MD5 checksums
	fmt.Fprintf(e.stdout, statRow, "Md5Checksum", hex.EncodeToString(sum[:]))

	return nil
}

const folderMimeType = "application/vnd.google-apps.folder"

// mimeByName classifies by extension. The remote store classifies piped
// uploads without a known extension as plain text.
func mimeByName(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return "application/json"
	case ".html", ".htm":
		return "text/html"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	default:
		return "text/plain"
	}
}

// Size unit constants for human-readable formatting.
const (
	sizeKB = 1024
	sizeMB = 1024 * 1024
	sizeGB = 1024 * 1024 * 1024
)

// prettyBytes returns a human-readable size string (e.g. "1.2 MB").
func prettyBytes(bytes int64) string {
	switch {
	case bytes >= sizeGB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(sizeGB))
	case bytes >= sizeMB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(sizeMB))
	case bytes >= sizeKB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(sizeKB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
