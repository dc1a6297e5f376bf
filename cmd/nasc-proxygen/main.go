// Command nasc-proxygen generates forwarding wrappers for the exported
// interfaces of a package, so the interception binder can proxy them.
//
// Typical use is a go:generate directive next to the interfaces:
//
//	//go:generate go run github.com/toutaio/toutago-nasc-interception/cmd/nasc-proxygen --output proxies_gen.go
//
// Every flag can also be set through the environment, for example
// NASC_PROXYGEN_OUTPUT=proxies_gen.go.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toutaio/toutago-nasc-interception/internal/proxygen"
)

const envPrefix = "NASC_PROXYGEN"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:          "nasc-proxygen",
		Short:        "Generate interception proxy wrappers for Go interfaces.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	cmd.Flags().String("package", ".", "Package pattern to load")
	cmd.Flags().StringSlice("types", nil, "Interfaces to wrap (default: every wrappable exported interface)")
	cmd.Flags().String("output", "nasc_proxies_gen.go", "Output file; a bare name is written next to the package sources")
	cmd.Flags().Bool("debug", false, "Dump the loaded model and log at debug level")

	v.BindPFlag("package", cmd.Flags().Lookup("package"))
	v.BindPFlag("types", cmd.Flags().Lookup("types"))
	v.BindPFlag("output", cmd.Flags().Lookup("output"))
	v.BindPFlag("debug", cmd.Flags().Lookup("debug"))

	// NASC_PROXYGEN_PACKAGE, NASC_PROXYGEN_TYPES, ...
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return cmd
}

func run(v *viper.Viper) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.InfoLevel)
	if v.GetBool("debug") {
		logger = logger.Level(zerolog.DebugLevel)
	}

	pattern := v.GetString("package")
	types := v.GetStringSlice("types")
	logger.Debug().Str("package", pattern).Strs("types", types).Msg("loading package")

	pkg, err := proxygen.Load(pattern, types...)
	if err != nil {
		logger.Error().Err(err).Str("package", pattern).Msg("load failed")
		return err
	}
	if v.GetBool("debug") {
		spew.Fdump(os.Stderr, pkg)
	}
	if len(pkg.Interfaces) == 0 {
		err := fmt.Errorf("no wrappable interfaces in %s", pkg.Path)
		logger.Error().Err(err).Msg("nothing to generate")
		return err
	}

	src, err := proxygen.Generate(pkg)
	if err != nil {
		logger.Error().Err(err).Msg("generation failed")
		return err
	}

	path := proxygen.OutputPath(pkg, v.GetString("output"))
	if err := proxygen.WriteFile(path, src); err != nil {
		logger.Error().Err(err).Msg("write failed")
		return err
	}

	logger.Info().
		Str("package", pkg.Path).
		Int("interfaces", len(pkg.Interfaces)).
		Str("output", path).
		Msg("proxies generated")
	return nil
}
