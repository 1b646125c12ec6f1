package scenario

import (
	"context"
	"crypto/md5" //nolint:gosec // the client reports MD5 checksums
	"encoding/hex"
	"fmt"

	"github.com/tonimelisma/drivecheck/internal/fixture"
	"github.com/tonimelisma/drivecheck/internal/transcript"
)

// statContents covers empty, text and every byte value.
func statContents() [][]byte {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	return [][]byte{{}, []byte("foobar"), all}
}

func statScenarios() []Scenario {
	var scenarios []Scenario

	for _, data := range statContents() {
		data := data // per-iteration copy; Body runs after the loop
		file := fixture.File{Path: "foo.txt", Content: data}

		scenarios = append(scenarios, Scenario{
			Name:  fmt.Sprintf("stat file with size=%d", len(data)),
			Files: []fixture.File{file},
			Body: func(ctx context.Context, env *Env) error {
				env.Out.Linef("try %s", transcript.Repr(string(data)))

				res, _, err := env.Client.Stat(ctx, file.Path)
				if err != nil {
					return err
				}

				sum := md5.Sum(data) //nolint:gosec // the client reports MD5 checksums
				out := string(res.Stdout)

				for _, pattern := range []string{
					fmt.Sprintf(`Bytes\s+%d\b`, len(data)),
					`DirType\s+file`,
					`MimeType\s+text/plain`,
					`Md5Checksum\s+` + hex.EncodeToString(sum[:]),
				} {
					if err := env.Report.Matches(pattern, out); err != nil {
						return err
					}
				}

				return env.VerifyFiles(ctx, file)
			},
		})
	}

	return scenarios
}
