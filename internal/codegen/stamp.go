package codegen

import (
	"strings"

	"github.com/dicore-project/dicore/internal/options"
)

// stampPrefix marks the generation-options lines written into every
// generated component file's header, so a later compilation (or the
// ahead-of-time reglue path) can reconstruct the options the file was
// generated with.
const stampPrefix = "// dicore:options "

// StampLines serializes opts into header comment lines. The serialization
// round-trips through DecodeOptions.
func StampLines(opts options.Options) []string {
	doc, err := options.Encode(opts)
	if err != nil {
		// Options is a plain struct of strings and bools; encoding cannot
		// fail short of an internal-consistency bug.
		panic(err)
	}
	var lines []string
	for _, ln := range strings.Split(strings.TrimRight(string(doc), "\n"), "\n") {
		lines = append(lines, stampPrefix+ln)
	}
	return lines
}

// DecodeOptions reads the generation-options stamp back out of generated
// source. ok is false when src carries no stamp.
func DecodeOptions(src []byte) (opts options.Options, ok bool, err error) {
	var doc []string
	for _, ln := range strings.Split(string(src), "\n") {
		if strings.HasPrefix(ln, stampPrefix) {
			doc = append(doc, strings.TrimPrefix(ln, stampPrefix))
		}
	}
	if len(doc) == 0 {
		return options.Defaults(), false, nil
	}
	opts, _, err = options.Load([]byte(strings.Join(doc, "\n")))
	return opts, err == nil, err
}
