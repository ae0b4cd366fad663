// Package modinfo reads a mod's info.json and names its build outputs.
package modinfo

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const File = "info.json"

var ErrNoInfo = errors.New("no usable info.json")

// Variant maps a released mod version to the game version it targets.
type Variant struct {
	Version         string `json:"version"`
	FactorioVersion string `json:"factorio_version"`
}

type Info struct {
	Name            string    `json:"name"`
	Version         string    `json:"version"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	FactorioVersion string    `json:"factorio_version"`
	Dependencies    []string  `json:"dependencies"`
	Variants        []Variant `json:"variants"`
}

func Read(fs afero.Fs, dir string) (*Info, error) {
	path := filepath.Join(dir, File)
	bs, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoInfo, err)
	}

	var info Info
	if err := json.Unmarshal(bs, &info); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoInfo, path, err)
	}

	if info.Name == "" || !versionRe.MatchString(info.Version) {
		return nil, fmt.Errorf("%w: %s: name and x.y.z version required", ErrNoInfo, path)
	}

	return &info, nil
}

// ModName is the folder and archive stem the game expects: name_version.
func (i *Info) ModName() string {
	return i.Name + "_" + i.Version
}

func (i *Info) ArchiveName() string {
	return i.ModName() + ".zip"
}

// VariantFor returns the variant whose factorio_version equals the
// major.minor of gameVersion.
func (i *Info) VariantFor(gameVersion string) (Variant, bool) {
	want := MajorMinor(gameVersion)
	for _, v := range i.Variants {
		if v.FactorioVersion == want {
			return v, true
		}
	}
	return Variant{}, false
}

var (
	versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	buildRe   = regexp.MustCompile(`^(.*)_(\d+\.\d+\.\d+)(\.zip)?$`)
)

// Build is a previous output found in a dist directory.
type Build struct {
	Entry   string
	Name    string
	Version string
	Zipped  bool
}

// ParseBuild splits a dist entry like "mod_1.2.3.zip" into its parts.
func ParseBuild(entry string) (Build, bool) {
	m := buildRe.FindStringSubmatch(entry)
	if m == nil {
		return Build{}, false
	}
	return Build{Entry: entry, Name: m[1], Version: m[2], Zipped: m[3] != ""}, true
}

func MajorMinor(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
