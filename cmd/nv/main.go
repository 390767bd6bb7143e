package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nekomimist/nv"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var debug bool

	cmd := &cobra.Command{
		Use:     "nv [path]",
		Short:   "An image and comic viewer",
		Long:    `nv shows the images of a folder or archive (zip, cbz, rar, cbr, 7z, cb7). Given an image, it opens the containing folder at that image.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				nv.Logger().SetLevel(logrus.DebugLevel)
			}
			if configPath == "" {
				configPath = nv.DefaultConfigPath()
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd.Context(), configPath, path)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default is $HOME/.nv.yaml)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, configPath, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	result := nv.LoadConfigFromPath(configPath)
	config := result.Config
	for _, w := range result.Warnings {
		nv.Logger().Warn(w)
	}

	fs, err := nv.NewLocalFileSystem(config.ImagePatterns)
	if err != nil {
		return err
	}

	if path == "" {
		path = nv.PickDirectory(ctx, fs)
	}
	if path == "" {
		return errors.New("no image folder specified")
	}
	folder, err := fs.FolderOf(path)
	if err != nil {
		return err
	}
	startPath := ""
	if folder != path {
		startPath = filepath.Clean(path)
	}

	themes := nv.NewThemeController(&nv.FileThemeStore{
		Path: filepath.Join(filepath.Dir(configPath), ".nv-theme.yaml"),
	})
	themes.Load(ctx)
	ctx = nv.WithTheme(ctx, themes)

	// A config file with problems is left as the user wrote it
	savePath := configPath
	if result.Status == "Error" || result.Status == "Warning" {
		savePath = ""
	}

	game, err := NewGame(ctx, fs, config, savePath)
	if err != nil {
		return err
	}
	session := nv.NewSession(fs, config, game.sessionCallbacks())
	defer session.Close()
	game.SetSession(session)

	viewer, ok := session.OpenFolderSync(ctx, folder, startPath)
	if !ok {
		return fmt.Errorf("failed to open %s", folder)
	}
	if viewer.Len() == 0 {
		nv.Logger().WithField("folder", folder).Warn("No images found")
	}

	ebiten.SetWindowTitle("nv")
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
