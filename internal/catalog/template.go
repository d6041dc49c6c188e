package catalog

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxPathLength caps resolved target paths; templates whose absolute
// result would exceed it resolve to empty rather than erroring.
const MaxPathLength = 4096

// Default date and time layouts for the bare <CreationDate>-style tokens.
const (
	defaultDateSpec = "yyyyMMdd"
	defaultTimeSpec = "HHmmss"
)

// Characters never valid in template literal text. Both '\' and '/' act
// as directory separators; angle brackets belong to the token syntax and
// are caught by the scanner.
const illegalTemplateChars = `:*?"|`

// ComputeTargetPath resolves a rename template against an asset and its
// 1-based ordinal, returning an absolute path rooted at the asset's
// folder. Relative ".." segments are honored, including climbing above
// the folder. Invalid templates (empty or whitespace, no ordinal or
// variable token, illegal characters, malformed brackets, unknown tokens,
// bad date specs) and over-long results all resolve to the empty string;
// this function never fails loudly.
func ComputeTargetPath(asset *Asset, template string, ordinal int) string {
	if asset == nil || asset.Folder == nil {
		return ""
	}
	relative, ok := expandTemplate(asset, template, ordinal)
	if !ok {
		return ""
	}
	full := filepath.Join(asset.Folder.Path, relative)
	if len(full) > MaxPathLength {
		return ""
	}
	return full
}

// ValidateTemplate reports whether a template is well formed, using a
// zero-value asset. It exists so callers can reject a bad template once
// instead of discovering per-asset empty results.
func ValidateTemplate(template string) error {
	probe := &Asset{Folder: &Folder{Path: string(filepath.Separator)}}
	if _, ok := expandTemplate(probe, template, 1); !ok {
		return fmt.Errorf("invalid rename template %q: %w", template, ErrInvalidArgument)
	}
	return nil
}

// expandTemplate renders the template to a separator-normalized relative
// path. ok is false for any malformed input.
func expandTemplate(asset *Asset, template string, ordinal int) (string, bool) {
	if strings.TrimSpace(template) == "" {
		return "", false
	}

	var out strings.Builder
	tokens := 0

	for i := 0; i < len(template); {
		c := template[i]
		switch c {
		case '<':
			end := strings.IndexByte(template[i+1:], '>')
			if end < 0 {
				return "", false
			}
			body := template[i+1 : i+1+end]
			expanded, ok := expandToken(asset, body, ordinal)
			if !ok {
				return "", false
			}
			out.WriteString(expanded)
			tokens++
			i += end + 2
		case '>':
			return "", false
		case '\\', '/':
			out.WriteRune(filepath.Separator)
			i++
		default:
			if strings.IndexByte(illegalTemplateChars, c) >= 0 {
				return "", false
			}
			out.WriteByte(c)
			i++
		}
	}

	if tokens == 0 {
		return "", false
	}
	return out.String(), true
}

// expandToken resolves one bracketed token body. Token names are
// case-insensitive; date and time tokens accept an optional ":fmt"
// suffix in the restricted y/M/d/H/m/s grammar.
func expandToken(asset *Asset, body string, ordinal int) (string, bool) {
	if isOrdinalToken(body) {
		return fmt.Sprintf("%0*d", len(body), ordinal), true
	}

	name := body
	spec := ""
	hasSpec := false
	if idx := strings.IndexByte(body, ':'); idx >= 0 {
		name = body[:idx]
		spec = body[idx+1:]
		hasSpec = true
	}

	switch strings.ToLower(name) {
	case "pixelwidth":
		if hasSpec {
			return "", false
		}
		return strconv.Itoa(asset.PixelWidth), true
	case "pixelheight":
		if hasSpec {
			return "", false
		}
		return strconv.Itoa(asset.PixelHeight), true
	case "creationdate":
		return formatDateSpec(asset.FileCreatedAt, orDefault(spec, hasSpec, defaultDateSpec))
	case "creationtime":
		return formatDateSpec(asset.FileCreatedAt, orDefault(spec, hasSpec, defaultTimeSpec))
	case "modificationdate":
		return formatDateSpec(asset.FileModifiedAt, orDefault(spec, hasSpec, defaultDateSpec))
	case "modificationtime":
		return formatDateSpec(asset.FileModifiedAt, orDefault(spec, hasSpec, defaultTimeSpec))
	}
	return "", false
}

// isOrdinalToken reports whether body is 1 to 10 '#' characters.
func isOrdinalToken(body string) bool {
	if len(body) == 0 || len(body) > 10 {
		return false
	}
	for i := 0; i < len(body); i++ {
		if body[i] != '#' {
			return false
		}
	}
	return true
}

func orDefault(spec string, hasSpec bool, fallback string) string {
	if !hasSpec {
		return fallback
	}
	return spec
}

// formatDateSpec renders t using the restricted date-format grammar:
// runs of y (1, 2 or 4), M (1, 2 or 4 for the month name), d, H, m and s
// (1 or 2), joined by a small set of literal separators. Any other letter
// or run length is rejected.
func formatDateSpec(t time.Time, spec string) (string, bool) {
	if spec == "" {
		return "", false
	}
	var out strings.Builder
	for i := 0; i < len(spec); {
		c := spec[i]
		if isASCIILetter(c) {
			j := i
			for j < len(spec) && spec[j] == c {
				j++
			}
			formatted, ok := formatDateRun(t, c, j-i)
			if !ok {
				return "", false
			}
			out.WriteString(formatted)
			i = j
			continue
		}
		if !strings.ContainsRune("-._ ", rune(c)) {
			return "", false
		}
		out.WriteByte(c)
		i++
	}
	return out.String(), true
}

func formatDateRun(t time.Time, c byte, n int) (string, bool) {
	switch c {
	case 'y':
		switch n {
		case 1:
			return strconv.Itoa(t.Year() % 100), true
		case 2:
			return fmt.Sprintf("%02d", t.Year()%100), true
		case 4:
			return fmt.Sprintf("%04d", t.Year()), true
		}
	case 'M':
		switch n {
		case 1:
			return strconv.Itoa(int(t.Month())), true
		case 2:
			return fmt.Sprintf("%02d", int(t.Month())), true
		case 4:
			return t.Month().String(), true
		}
	case 'd':
		return formatTwoDigit(t.Day(), n)
	case 'H':
		return formatTwoDigit(t.Hour(), n)
	case 'm':
		return formatTwoDigit(t.Minute(), n)
	case 's':
		return formatTwoDigit(t.Second(), n)
	}
	return "", false
}

func formatTwoDigit(v, n int) (string, bool) {
	switch n {
	case 1:
		return strconv.Itoa(v), true
	case 2:
		return fmt.Sprintf("%02d", v), true
	}
	return "", false
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// GetUniqueDestinationPath returns desiredFileName unchanged when it is
// free in directory; otherwise it scans the directory listing for names
// of the base_N shape and returns the name using the smallest positive N
// not currently in use (gaps are filled).
func GetUniqueDestinationPath(files FileGateway, directory, desiredFileName string) (string, error) {
	if strings.TrimSpace(directory) == "" {
		return "", fmt.Errorf("directory is empty: %w", ErrInvalidArgument)
	}
	if strings.TrimSpace(desiredFileName) == "" {
		return "", fmt.Errorf("file name is empty: %w", ErrInvalidArgument)
	}

	if !files.FileExists(filepath.Join(directory, desiredFileName)) {
		return desiredFileName, nil
	}

	ext := filepath.Ext(desiredFileName)
	base := strings.TrimSuffix(desiredFileName, ext)

	names, err := files.FileNames(directory)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", directory, err)
	}

	suffixed := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(base) + `_(\d+)` + regexp.QuoteMeta(ext) + `$`)
	used := make(map[int]bool)
	for _, name := range names {
		if m := suffixed.FindStringSubmatch(name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				used[n] = true
			}
		}
	}

	for i := 1; ; i++ {
		if !used[i] {
			return fmt.Sprintf("%s_%d%s", base, i, ext), nil
		}
	}
}
