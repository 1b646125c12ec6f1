package client

import (
	"regexp"
	"strconv"
	"strings"
)

// ansiEscape matches SGR color sequences; the client colors the path line.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StatInfo holds the fields of `stat` output the harness checks. Fields
// keeps every key/value row, including ones without a typed accessor.
type StatInfo struct {
	Bytes       int64 // -1 when the row is missing or malformed
	DirType     string
	MimeType    string
	Md5Checksum string
	Fields      map[string]string
}

// ParseStat extracts "Key   value" rows from stat output. Rows are keyed
// by their first whitespace-separated token; later duplicates win.
func ParseStat(out []byte) StatInfo {
	info := StatInfo{Bytes: -1, Fields: make(map[string]string)}

	for _, line := range strings.Split(ansiEscape.ReplaceAllString(string(out), ""), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), " ")
		if !ok {
			continue
		}

		info.Fields[key] = strings.TrimSpace(value)
	}

	if raw, ok := info.Fields["Bytes"]; ok {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			info.Bytes = n
		}
	}

	info.DirType = info.Fields["DirType"]
	info.MimeType = info.Fields["MimeType"]
	info.Md5Checksum = info.Fields["Md5Checksum"]

	return info
}
