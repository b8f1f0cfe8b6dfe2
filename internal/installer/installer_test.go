package installer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"

	"github.com/juju/crossbuild/internal/command"
	"github.com/juju/crossbuild/internal/config"
)

// Tests here swap the process-list seam and chdir via the compile step,
// so none of them run in parallel.

// fakeProcess implements ps.Process for guard tests.
type fakeProcess struct {
	pid  int
	name string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 0 }
func (p fakeProcess) Executable() string { return p.name }

// stubProcesses points the guard at a fixed process list for one test.
func stubProcesses(t *testing.T, procs []ps.Process) {
	t.Helper()

	prev := listProcesses
	listProcesses = func() ([]ps.Process, error) { return procs, nil }
	t.Cleanup(func() { listProcesses = prev })
}

// stagingTree lays out <root>/scripts/win-installer/output plus a staged
// binary outside the tree, mirroring what a build hands the installer.
func stagingTree(t *testing.T, version string, withArtifact bool) (stagingRoot, binPath string) {
	t.Helper()

	stagingRoot = t.TempDir()
	issDir := filepath.Join(stagingRoot, ScriptDir)
	require.NoError(t, os.MkdirAll(filepath.Join(issDir, OutputDir), 0o755))

	if withArtifact {
		artifact := filepath.Join(issDir, OutputDir, ArtifactName(version))
		require.NoError(t, os.WriteFile(artifact, []byte("installer"), 0o644))
	}

	binDir := t.TempDir()
	binPath = filepath.Join(binDir, "juju.exe")
	require.NoError(t, os.WriteFile(binPath, []byte("binary"), 0o755))

	return stagingRoot, binPath
}

// recordingFactory captures the dry-run/verbose flags requested for the
// compile step and substitutes a Recorder.
func recordingFactory(recorder *command.Recorder, gotDryRun, gotVerbose *bool) func(bool, bool) command.Runner {
	return func(dryRun, verbose bool) command.Runner {
		*gotDryRun = dryRun
		*gotVerbose = verbose

		return recorder
	}
}

// TestMakeDeliversInstaller covers the full non-dry-run path: binary
// staged, compiler invoked in the script directory, artifact delivered.
func TestMakeDeliversInstaller(t *testing.T) {
	stubProcesses(t, nil)

	stagingRoot, binPath := stagingTree(t, "1.2.3", true)
	destDir := t.TempDir()
	recorder := new(command.Recorder)

	var gotDryRun, gotVerbose bool

	builder := &Builder{
		Cfg:           config.Default(),
		runnerFactory: recordingFactory(recorder, &gotDryRun, &gotVerbose),
	}

	require.NoError(t, builder.Make(context.Background(), binPath, "1.2.3", stagingRoot, destDir))

	// Binary moved into the script dir.
	require.FileExists(t, filepath.Join(stagingRoot, ScriptDir, "juju.exe"))
	require.NoFileExists(t, binPath)

	// Compiler ran once: xvfb-run wine <ISCC> setup.iss.
	require.Len(t, recorder.Calls, 1)
	args := recorder.Calls[0].Args
	require.Equal(t, "xvfb-run", args[0])
	require.Equal(t, "wine", args[1])
	require.Equal(t, ScriptFile, args[3])
	require.False(t, gotDryRun)

	// Artifact delivered to the destination, gone from the output dir.
	require.FileExists(t, filepath.Join(destDir, "juju-setup-1.2.3.exe"))
	require.NoFileExists(t, filepath.Join(stagingRoot, ScriptDir, OutputDir, "juju-setup-1.2.3.exe"))
}

// TestMakeDryRunSkipsDelivery ensures dry-run still stages the binary and
// compiles, but leaves the artifact in the output directory.
func TestMakeDryRunSkipsDelivery(t *testing.T) {
	stubProcesses(t, nil)

	stagingRoot, binPath := stagingTree(t, "1.2.3", true)
	destDir := t.TempDir()
	recorder := new(command.Recorder)

	var gotDryRun, gotVerbose bool

	builder := &Builder{
		Cfg:           config.Default(),
		DryRun:        true,
		Verbose:       true,
		runnerFactory: recordingFactory(recorder, &gotDryRun, &gotVerbose),
	}

	require.NoError(t, builder.Make(context.Background(), binPath, "1.2.3", stagingRoot, destDir))

	// The only relocation was the binary into the script dir.
	require.FileExists(t, filepath.Join(stagingRoot, ScriptDir, "juju.exe"))

	// Compiler still ran, with dry-run forced off and verbose passed through.
	require.Len(t, recorder.Calls, 1)
	require.False(t, gotDryRun)
	require.True(t, gotVerbose)

	// Artifact stayed put.
	require.FileExists(t, filepath.Join(stagingRoot, ScriptDir, OutputDir, "juju-setup-1.2.3.exe"))
	require.NoFileExists(t, filepath.Join(destDir, "juju-setup-1.2.3.exe"))
}

// TestMakeMissingArtifact ensures a missing compiler product is fatal.
func TestMakeMissingArtifact(t *testing.T) {
	stubProcesses(t, nil)

	stagingRoot, binPath := stagingTree(t, "1.2.3", false)
	recorder := new(command.Recorder)

	var gotDryRun, gotVerbose bool

	builder := &Builder{
		Cfg:           config.Default(),
		runnerFactory: recordingFactory(recorder, &gotDryRun, &gotVerbose),
	}

	err := builder.Make(context.Background(), binPath, "1.2.3", stagingRoot, t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "deliver installer")
}

// TestMakeRefusesBusyCompiler ensures a live wine process aborts before compiling.
func TestMakeRefusesBusyCompiler(t *testing.T) {
	stubProcesses(t, []ps.Process{fakeProcess{pid: 42, name: "wine"}})

	stagingRoot, binPath := stagingTree(t, "1.2.3", true)
	recorder := new(command.Recorder)

	var gotDryRun, gotVerbose bool

	builder := &Builder{
		Cfg:           config.Default(),
		runnerFactory: recordingFactory(recorder, &gotDryRun, &gotVerbose),
	}

	err := builder.Make(context.Background(), binPath, "1.2.3", stagingRoot, t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "busy")
	require.Empty(t, recorder.Calls)
}

// TestArtifactName pins the deterministic installer naming.
func TestArtifactName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "juju-setup-1.2.3.exe", ArtifactName("1.2.3"))
}
