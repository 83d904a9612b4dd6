package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"folio/internal/config"
	"folio/internal/pagination"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace fails when the filesystem holding path has less than min
// bytes available to unprivileged users.
func CheckFreeSpace(name, path string, min uint64) Result {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := st.Bavail * uint64(st.Bsize)
	detail := fmt.Sprintf("%s free", humanize.Bytes(free))
	if free < min {
		return Result{Name: name, Detail: fmt.Sprintf("%s, need at least %s", detail, humanize.Bytes(min))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckFont verifies that the configured font parses.
func CheckFont(cfg config.Pagination) Result {
	const name = "Font"
	if _, err := pagination.LoadFontMetrics(cfg.FontPath, cfg.FontSize, cfg.LineWidth); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", cfg.FontPath, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s at %gpt", filepath.Base(cfg.FontPath), cfg.FontSize)}
}

// CheckOCR reports the linked Tesseract version.
func CheckOCR(version string) Result {
	const name = "Tesseract"
	version = strings.TrimSpace(version)
	if version == "" {
		return Result{Name: name, Detail: "library version unavailable; photos cannot be read"}
	}
	return Result{Name: name, Passed: true, Detail: version}
}

// CheckLanguageData verifies that dir holds traineddata for every language.
func CheckLanguageData(dir string, languages []string) Result {
	const name = "Language data"
	var missing []string
	for _, lang := range languages {
		path := filepath.Join(dir, lang+".traineddata")
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, lang)
		}
	}
	if len(missing) > 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s missing in %s", strings.Join(missing, ", "), dir)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s in %s", strings.Join(languages, ", "), dir)}
}
