// Package tz suggests IANA timezone names for the profile and contest
// timezone inputs.
package tz

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path"
	"strings"
)

// CatalogSource yields the candidate zone names.
type CatalogSource interface {
	Zones(ctx context.Context) ([]string, error)
}

// FixedSource is a curated list covering every populated continent.
type FixedSource struct{}

var fixedZones = []string{
	"UTC",
	"Europe/London",
	"Europe/Berlin",
	"Europe/Paris",
	"Asia/Kolkata",
	"Asia/Dubai",
	"Asia/Tokyo",
	"Asia/Singapore",
	"Asia/Shanghai",
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"America/Sao_Paulo",
	"Africa/Johannesburg",
	"Australia/Sydney",
}

func (FixedSource) Zones(context.Context) ([]string, error) {
	out := make([]string, len(fixedZones))
	copy(out, fixedZones)
	return out, nil
}

// zoneinfoDirs are searched in order when $ZONEINFO is unset.
var zoneinfoDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/lib/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/etc/zoneinfo",
}

// tzifMagic starts every compiled zone file.
var tzifMagic = []byte("TZif")

// EnvironmentSource lists the zones compiled into the host zoneinfo tree.
type EnvironmentSource struct {
	FS fs.FS
}

// NewEnvironmentSource locates the host zoneinfo tree. It returns nil when
// none exists.
func NewEnvironmentSource() *EnvironmentSource {
	dirs := zoneinfoDirs
	if z := os.Getenv("ZONEINFO"); z != "" {
		dirs = append([]string{z}, dirs...)
	}
	for _, d := range dirs {
		if st, err := os.Stat(d); err == nil && st.IsDir() {
			return &EnvironmentSource{FS: os.DirFS(d)}
		}
	}
	return nil
}

func skipDir(name string) bool {
	return name == "posix" || name == "right" || strings.HasPrefix(name, ".")
}

func skipFile(name string) bool {
	switch name {
	case "posixrules", "localtime", "Factory", "leapseconds":
		return true
	}
	return strings.Contains(name, ".") || strings.HasPrefix(name, "+")
}

func (s *EnvironmentSource) Zones(ctx context.Context) ([]string, error) {
	var out []string
	err := fs.WalkDir(s.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if p == "." {
			return nil
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if skipFile(path.Base(p)) || !isTZif(s.FS, p) {
			return nil
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isTZif(fsys fs.FS, name string) bool {
	f, err := fsys.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	head := make([]byte, len(tzifMagic))
	n, _ := f.Read(head)
	return n == len(tzifMagic) && bytes.Equal(head, tzifMagic)
}

// SelectSource returns the zones of env when it is available and non-empty,
// else those of fallback. It is meant to run once at startup.
func SelectSource(ctx context.Context, env, fallback CatalogSource) ([]string, error) {
	if env != nil {
		if zones, err := env.Zones(ctx); err == nil && len(zones) > 0 {
			return zones, nil
		}
	}
	return fallback.Zones(ctx)
}
