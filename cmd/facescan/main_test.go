package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/facescan/internal/config"
	"github.com/verte-zerg/facescan/internal/device"
	"github.com/verte-zerg/facescan/internal/scoring"
)

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	var seed int64
	var camera string
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Int64Var(&seed, "seed", 0, "")
	cmd.Flags().StringVar(&camera, "camera", "/dev/video0", "")
	require.NoError(t, cmd.Flags().Set("seed", "9"))

	fileSeed := int64(3)
	fileCamera := "/dev/video2"
	applyInt64Config(cmd, "seed", &seed, &fileSeed)
	applyStringConfig(cmd, "camera", &camera, &fileCamera)

	assert.Equal(t, int64(9), seed)
	assert.Equal(t, "/dev/video2", camera)
}

func TestApplyConfigIgnoresUnsetValues(t *testing.T) {
	sound := true
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().BoolVar(&sound, "sound", true, "")
	applyBoolConfig(cmd, "sound", &sound, nil)
	assert.True(t, sound)

	off := false
	applyBoolConfig(cmd, "sound", &sound, &off)
	assert.False(t, sound)
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	_, err := toml.Decode(defaultConfigTemplate(), &cfg)
	require.NoError(t, err)
	assert.Nil(t, cfg.Scanner.Seed)
	assert.Empty(t, cfg.Comments)
	assert.Contains(t, defaultConfigTemplate(), device.DefaultCameraPath)
}

func TestVideoSource(t *testing.T) {
	assert.Equal(t, device.Unavailable{}, videoSource("none"))
	assert.Equal(t, device.Unavailable{}, videoSource(" "))
	assert.Equal(t, device.V4L{Path: "/dev/video1"}, videoSource("/dev/video1"))
}

func TestScanEffect(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, device.Silent{}, scanEffect(false, &buf))
	scanEffect(true, &buf).Play()
	assert.Equal(t, "\a", buf.String())
}

func TestSimulateReachesResultAfterSevenSeconds(t *testing.T) {
	gen := scoring.New(scoring.NewSource(42), scoring.DefaultComments())
	hist, perSession := simulate(gen, 2000)

	assert.Equal(t, 2000, hist.Total)
	assert.Equal(t, 7*time.Second, perSession)
	for score := scoring.MinScore; score <= scoring.MaxScore; score++ {
		assert.Positive(t, hist.Counts[score], "score %d never drawn", score)
	}
}

func TestCommentsCommandPrintsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[comments]\n\"7\" = [\"CUSTOM SEVEN\"]\n"), 0o644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"comments", "--config", path})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "CUSTOM SEVEN")
	assert.True(t, strings.Contains(out.String(), scoring.DefaultComments()[1][0]))
}

func TestCommentsCommandRejectsBadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[comments]\n\"11\" = [\"TOO HIGH\"]\n"), 0o644))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"comments", "--config", path})
	assert.Error(t, root.Execute())
}

func TestSimulateCommandPrintsHistogram(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"simulate", "--runs", "500", "--seed", "7", "--config", filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Sessions: 500")
	assert.Contains(t, out.String(), "7s from start to result")
}
