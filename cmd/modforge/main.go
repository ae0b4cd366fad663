package main

import (
	"context"
	"log"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"modforge/pkg/locate"
	"modforge/pkg/pack"
)

var clean = flag.Bool("clean", false, "remove previous builds")
var build = flag.Bool("build", true, "build mod")
var zipped = flag.Bool("pack", true, "pack into zip file")
var sourceDir = flag.String("source-dir", "src", "path to mod source directory")
var outputDir = flag.String("output-dir", "dist", "path to output built mod")
var renderIcons = flag.Bool("render", false, "render icons into the source directory before building")
var tasksFile = flag.String("tasks", "", "render profile file, built-in profiles when empty")
var profile = flag.String("profile", "icons", "render profile name")
var workers = flag.Int("workers", 1, "icons rendered in parallel")
var modsDir = flag.String("mods-dir", "", "install the built archive into this mods directory")
var libsDir = flag.String("libs-dir", "", "also install compatible library archives from this directory")
var libName = flag.String("lib-name", "clusterio_lib", "library mod name looked up in --libs-dir")
var gameVersion = flag.String("game-version", "", "game version used to pick archives")
var modVersion = flag.String("mod-version", "", "install this mod version instead of the variant")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	s := &settings{
		Clean:       *clean,
		Build:       *build,
		Pack:        *zipped,
		Render:      *renderIcons,
		SourceDir:   *sourceDir,
		OutputDir:   *outputDir,
		TasksFile:   *tasksFile,
		Profile:     *profile,
		Workers:     *workers,
		ModsDir:     *modsDir,
		LibsDir:     *libsDir,
		LibName:     *libName,
		GameVersion: *gameVersion,
		ModVersion:  *modVersion,
	}

	app := fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
		}),
		fx.Supply(s),
		fx.Provide(
			newLogger,
			func() afero.Fs { return afero.NewOsFs() },
			func(fs afero.Fs, logger *zap.Logger) *pack.Packer {
				return pack.New(fs, logger, pack.WithSourceDir(s.SourceDir), pack.WithOutputDir(s.OutputDir))
			},
			locate.New,
		),
		fx.Invoke(func(d deps) error {
			defer func() {
				_ = d.Logger.Sync()
			}()
			return run(context.Background(), d)
		}),
	)

	if err := app.Err(); err != nil {
		log.Fatal(err)
	}
}

func newLogger() (*zap.Logger, error) {
	if *debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
