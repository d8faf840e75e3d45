// Package tests provides the on-demand test-ROM pack used by the ROM-driven
// tests. The pack is downloaded once and cached next to this file.
package tests

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

func decompress(zipFile, dest string) error {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return err
	}
	defer r.Close()

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, f := range r.File {
		fname := strings.Replace(f.Name, "nes-test-roms-master", "nes-test-roms", 1)
		fpath := filepath.Join(dest, fname)
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("%s: illegal file path", fpath)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, os.ModePerm); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
			return err
		}

		g.Go(func() error {
			rc, err := f.Open()
			if err != nil {
				return err
			}
			defer rc.Close()

			outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
			if err != nil {
				return err
			}
			defer outFile.Close()

			_, err = io.Copy(outFile, rc)
			return err
		})
	}

	return g.Wait()
}

func downloadTestRoms(tb testing.TB, dest string) {
	const url = `https://github.com/christopherpow/nes-test-roms/archive/refs/heads/master.zip`
	resp, err := http.Get(url)
	if err != nil {
		tb.Skipf("cannot download test roms: %s", err)
	}
	defer resp.Body.Close()

	tmpf, err := os.CreateTemp("", "nes-test-roms-*-.zip")
	if err != nil {
		tb.Fatal(err)
	}
	defer tmpf.Close()

	if _, err := io.Copy(tmpf, resp.Body); err != nil {
		tb.Fatal(err)
	}

	if err := decompress(tmpf.Name(), dest); err != nil {
		tb.Fatalf("failed to decompress test roms: %s", err)
	}
}

// RomsPath returns the path of the test-ROM pack, downloading it first if
// necessary. Skips the test when the pack cannot be obtained.
func RomsPath(tb testing.TB) string {
	return sync.OnceValue(func() string {
		_, b, _, _ := runtime.Caller(0)
		testsDir := filepath.Dir(b)
		romsDir := filepath.Join(testsDir, "nes-test-roms")

		if _, err := os.Stat(romsDir); errors.Is(err, fs.ErrNotExist) {
			tb.Log("nes-test-roms directory not found, downloading it...")
			downloadTestRoms(tb, testsDir)
			tb.Log("test roms downloaded in", romsDir)
		}

		return romsDir
	})()
}
