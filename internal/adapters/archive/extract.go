package archive

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// extractTarGz unpacks a gzip-compressed tar stream into destDir. Entry
// paths are resolved under destDir and anything escaping it is rejected
// before a byte is written. Symlinks and other special entries are skipped;
// package archives carry plain files only.
func extractTarGz(r io.Reader, destDir string) error {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return zerr.Wrap(err, "failed to open gzip stream")
	}
	defer func() {
		_ = gzReader.Close()
	}()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read archive")
		}

		target, err := safeJoin(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, dirPerm); err != nil {
				return zerr.Wrap(err, "failed to create directory")
			}
		case tar.TypeReg:
			if err := writeEntry(target, tarReader, header.FileInfo().Mode()); err != nil {
				return err
			}
		}
	}
}

func writeEntry(target string, content io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory")
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return zerr.Wrap(err, "failed to create file")
	}

	_, copyErr := io.Copy(out, content)
	closeErr := out.Close()
	if copyErr != nil {
		return zerr.Wrap(copyErr, "failed to write file")
	}
	if closeErr != nil {
		return zerr.Wrap(closeErr, "failed to write file")
	}
	return nil
}

// safeJoin joins name under root, rejecting absolute names and any cleaned
// path that leaves root.
func safeJoin(root, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", zerr.With(zerr.New("archive entry escapes extraction root"), "entry", name)
	}
	target := filepath.Join(root, name)
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", zerr.With(zerr.New("archive entry escapes extraction root"), "entry", name)
	}
	return target, nil
}
