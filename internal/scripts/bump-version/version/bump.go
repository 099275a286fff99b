package version

import (
	"fmt"
	"regexp"

	"github.com/robgonnella/portx/internal/info"
)

var versionRegex = regexp.MustCompile(`^v\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)

// Bump generates the version file, commits it and tags the commit
func Bump(data BumpData, generator VersionGenerator, vcs VersionControl) error {
	if !versionRegex.MatchString(data.Version) {
		return fmt.Errorf("invalid version %q: must look like v1.2.3", data.Version)
	}

	versionData := VersionData{
		NAME:    info.NAME,
		VERSION: data.Version,
	}

	if err := generator.Generate(versionData); err != nil {
		return err
	}

	if err := vcs.Add(data.OutFile); err != nil {
		return err
	}

	if err := vcs.Commit(fmt.Sprintf("Bump version %s", data.Version)); err != nil {
		return err
	}

	return vcs.Tag(data.Version)
}
