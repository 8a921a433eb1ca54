package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

func TestParseSheetSpec(t *testing.T) {
	tests := []struct {
		spec    string
		w, h, q int
		wantErr bool
	}{
		{"1024x512", 1024, 512, 0, false},
		{"1024X512:3", 1024, 512, 3, false},
		{" 64 x 32 : 2 ", 64, 32, 2, false},
		{"1024", 0, 0, 0, true},
		{"0x512", 0, 0, 0, true},
		{"1024x-1", 0, 0, 0, true},
		{"1024x512:0", 0, 0, 0, true},
		{"axb", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			w, h, q, err := parseSheetSpec(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{tt.w, tt.h, tt.q}, []int{w, h, q})
		})
	}
}

func TestResolveSheets(t *testing.T) {
	items := []model.Item{
		model.NewItem("a", 10, 10, 3),
		model.NewItem("b", 10, 10, 2),
	}
	inv := model.DefaultInventory()

	sheets, err := resolveSheets([]string{"512x256", "128x128:2", "Atlas 1024", "Lightmap 1024x512:1"}, inv, items)
	require.NoError(t, err)
	require.Len(t, sheets, 4)

	assert.Equal(t, "512x256", sheets[0].Label)
	assert.Equal(t, 5, sheets[0].Quantity, "no quantity means one sheet per item")
	assert.Equal(t, 2, sheets[1].Quantity)
	assert.Equal(t, 1024, sheets[2].Width)
	assert.Equal(t, 5, sheets[2].Quantity)
	assert.Equal(t, "Lightmap 1024x512", sheets[3].Label)
	assert.Equal(t, 1, sheets[3].Quantity)

	_, err = resolveSheets([]string{"Atlas 9999"}, inv, items)
	assert.Error(t, err)
	_, err = resolveSheets([]string{"Atlas 1024:none"}, inv, items)
	assert.Error(t, err)
}

func TestSettingsFlagsOnlyOverrideChanged(t *testing.T) {
	var f settingsFlags
	cmd := &cobra.Command{Use: "x"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--margin", "8", "--algorithm", "genetic", "--no-rotate"}))

	s := model.DefaultSettings()
	s.Padding = 5
	require.NoError(t, f.apply(cmd, &s))

	assert.Equal(t, 5, s.Padding, "unset flag keeps the loaded value")
	assert.Equal(t, 8, s.Margin)
	assert.Equal(t, model.AlgorithmGenetic, s.Algorithm)
	assert.False(t, s.AllowRotate)
}

func TestSettingsFlagsRejectInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"--algorithm", "maxrects"},
		{"--sort", "random"},
		{"--padding", "-1"},
		{"--margin", "-2"},
	} {
		var f settingsFlags
		cmd := &cobra.Command{Use: "x"}
		f.register(cmd)
		require.NoError(t, cmd.ParseFlags(args))

		s := model.DefaultSettings()
		assert.Error(t, f.apply(cmd, &s), "args %v", args)
	}
}

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()
	logger := log.New(io.Discard)
	cfg := model.DefaultAppConfig()
	cfg.DefaultPadding = 6

	csvPath := filepath.Join(dir, "sprites.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name,width,height,qty\nhero,64,64,2\nbroken,x,4,1\ncoin,16,16,4\n"), 0644))

	p, err := loadInput(csvPath, cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, "sprites", p.Name)
	assert.Len(t, p.Items, 2, "bad rows are skipped")
	assert.Equal(t, 6, p.Settings.Padding, "item lists use config defaults")

	projPath := filepath.Join(dir, "p.json")
	proj := model.NewProject()
	proj.Items = []model.Item{model.NewItem("tile", 32, 32, 1)}
	proj.Settings.Padding = 1
	require.NoError(t, project.SaveProject(projPath, proj))

	p, err = loadInput(projPath, cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Settings.Padding, "projects keep their own settings")

	emptyPath := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(emptyPath, []byte("name,width,height\n"), 0644))
	_, err = loadInput(emptyPath, cfg, logger)
	assert.Error(t, err)
}
