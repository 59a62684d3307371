package pipeline_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soul-lang/soulc/internal/filetest"
	"github.com/soul-lang/soulc/lang/pipeline"
)

// TestRunOverFixturesProducesNoFaults runs every .soul fixture in testdata
// through the full pipeline, using filetest.SourceFiles the same way the
// teacher's own stage tests enumerate a fixture directory.
func TestRunOverFixturesProducesNoFaults(t *testing.T) {
	fis := filetest.SourceFiles(t, "testdata", ".soul")
	require.NotEmpty(t, fis)

	for _, fi := range fis {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join("testdata", fi.Name()))
			require.NoError(t, err)

			res := pipeline.Run(fi.Name(), string(src))
			for _, d := range res.Diags.Items() {
				t.Logf("diagnostic: %s", d)
			}
			require.True(t, res.Succeeded())
			require.NotEmpty(t, res.MIR.Functions)
		})
	}
}
