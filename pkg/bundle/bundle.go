package bundle

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/klauspost/compress/zstd"
	"howett.net/plist"
)

const manifestName = "manifest.plist"

// ErrUnsafePath is returned for archive entries that would land
// outside the destination directory.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// Manifest describes a UI bundle.  Bundles without a manifest yield
// the zero value.
type Manifest struct {
	Name    string `plist:"name"`
	Version string `plist:"version"`
}

// Installer unpacks pre-built UI bundles distributed as zstd
// compressed tarballs.
type Installer struct {
	l hclog.Logger

	hClient *http.Client
}

// NewInstaller creates an Installer
func NewInstaller(l hclog.Logger) *Installer {
	return &Installer{
		l:       l.Named("bundle"),
		hClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Install retrieves the bundle at src, which must be an http(s) or
// file URL, and unpacks it into dest.
func (i *Installer) Install(src, dest string) (Manifest, error) {
	var rc io.ReadCloser
	var err error

	switch {
	case strings.HasPrefix(src, "http"):
		rc, err = i.fetchHTTP(src)
	case strings.HasPrefix(src, "file://"):
		rc, err = os.Open(strings.TrimPrefix(src, "file://"))
	default:
		i.l.Error("Bundle scheme must be either file or http(s)", "src", src)
		return Manifest{}, errors.New("unknown bundle scheme")
	}
	if err != nil {
		return Manifest{}, err
	}
	defer rc.Close()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return Manifest{}, err
	}

	m, err := i.unpack(rc, dest)
	if err != nil {
		i.l.Error("Error unpacking bundle", "src", src, "error", err)
		return Manifest{}, err
	}
	i.l.Info("UI bundle installed", "src", src, "dest", dest, "name", m.Name, "version", m.Version)
	return m, nil
}

func (i *Installer) fetchHTTP(src string) (io.ReadCloser, error) {
	resp, err := i.hClient.Get(src)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: %s", src, resp.Status)
	}
	return resp.Body, nil
}

func (i *Installer) unpack(r io.Reader, dest string) (Manifest, error) {
	var m Manifest

	d, err := zstd.NewReader(r)
	if err != nil {
		return m, err
	}
	defer d.Close()

	tarchive := tar.NewReader(d)
	for {
		header, err := tarchive.Next()
		switch err {
		case nil:
		case io.EOF:
			return m, nil
		default:
			return m, err
		}

		name := path.Clean(strings.TrimPrefix(header.Name, "./"))
		if name == manifestName {
			buf := &bytes.Buffer{}
			if _, err := buf.ReadFrom(tarchive); err != nil {
				return m, err
			}
			if err := plist.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&m); err != nil {
				return m, fmt.Errorf("bad manifest: %w", err)
			}
			continue
		}

		target, err := safeJoin(dest, name)
		if err != nil {
			return m, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return m, err
			}
		case tar.TypeReg:
			if err := writeFile(target, tarchive, header.FileInfo().Mode().Perm()); err != nil {
				return m, err
			}
		default:
			i.l.Warn("Skipping unsupported archive entry", "name", header.Name, "type", header.Typeflag)
		}
	}
}

func safeJoin(dest, name string) (string, error) {
	switch {
	case name == ".":
		return dest, nil
	case path.IsAbs(name), name == "..", strings.HasPrefix(name, "../"):
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return filepath.Join(dest, filepath.FromSlash(name)), nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if mode == 0 {
		mode = 0644
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
