package version_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	mock_version "github.com/robgonnella/portx/internal/mock/scripts/bump-version/version"
	"github.com/robgonnella/portx/internal/scripts/bump-version/version"
	"github.com/stretchr/testify/assert"
)

func TestBump(t *testing.T) {
	ctrl := gomock.NewController(t)

	defer ctrl.Finish()

	mockGenerator := mock_version.NewMockVersionGenerator(ctrl)
	mockVCS := mock_version.NewMockVersionControl(ctrl)

	data := version.BumpData{
		Version: "v1.2.3",
		OutFile: "internal/info/info.go",
	}

	t.Run("generates, commits and tags", func(st *testing.T) {
		mockGenerator.EXPECT().Generate(version.VersionData{NAME: "portx", VERSION: "v1.2.3"}).Return(nil)
		mockVCS.EXPECT().Add("internal/info/info.go").Return(nil)
		mockVCS.EXPECT().Commit("Bump version v1.2.3").Return(nil)
		mockVCS.EXPECT().Tag("v1.2.3").Return(nil)

		err := version.Bump(data, mockGenerator, mockVCS)

		assert.NoError(st, err)
	})

	t.Run("rejects malformed versions", func(st *testing.T) {
		for _, v := range []string{"1.2.3", "v1.2", "vfoo", ""} {
			err := version.Bump(version.BumpData{Version: v}, mockGenerator, mockVCS)

			assert.Error(st, err, v)
		}
	})

	t.Run("stops on generator error", func(st *testing.T) {
		expectedErr := errors.New("mock error")

		mockGenerator.EXPECT().Generate(gomock.Any()).Return(expectedErr)

		err := version.Bump(data, mockGenerator, mockVCS)

		assert.ErrorIs(st, err, expectedErr)
	})
}

func TestTemplateGenerator(t *testing.T) {
	t.Run("writes info file", func(st *testing.T) {
		outFile := filepath.Join(st.TempDir(), "info", "info.go")

		generator := version.NewTemplateGenerator(outFile)

		err := generator.Generate(version.VersionData{NAME: "portx", VERSION: "v9.9.9"})

		assert.NoError(st, err)

		data, err := os.ReadFile(outFile)

		assert.NoError(st, err)
		assert.Contains(st, string(data), `const VERSION = "v9.9.9"`)
		assert.Contains(st, string(data), `const NAME = "portx"`)
	})
}
