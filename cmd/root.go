/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	logger  = zap.NewNop()
	prof    interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "extfaces",
	Short: "Extract the external faces of unstructured 3D meshes",
	Long: `Finds the faces of an unstructured mesh that belong to exactly one cell,
using parallel hash buckets or a serial map of face keys. Meshes are read from
SU2 (.su2) or Gambit neutral (.neu) files or generated as structured grids.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if logger, err = newLogger(viper.GetBool("verbose")); err != nil {
			return err
		}
		if prof, err = startProfile(viper.GetString("profile"), viper.GetString("profilePath")); err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if prof != nil {
			prof.Stop()
			prof = nil
		}
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.extfaces.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every pipeline stage")
	rootCmd.PersistentFlags().String("profile", "", "write a Go profile: cpu, mem, block, mutex or trace")
	rootCmd.PersistentFlags().String("profilePath", ".", "directory for profile output")
	for _, name := range []string{"verbose", "profile", "profilePath"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".extfaces" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".extfaces")
	}
	viper.SetEnvPrefix("EXTFACES")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger logs stage timings at debug level when verbose, otherwise only
// warnings and errors
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func startProfile(mode, path string) (interface{ Stop() }, error) {
	var option func(*profile.Profile)
	switch strings.ToLower(mode) {
	case "":
		return nil, nil
	case "cpu":
		option = profile.CPUProfile
	case "mem":
		option = profile.MemProfile
	case "block":
		option = profile.BlockProfile
	case "mutex":
		option = profile.MutexProfile
	case "trace":
		option = profile.TraceProfile
	default:
		return nil, fmt.Errorf("unknown profile mode %q, want cpu, mem, block, mutex or trace", mode)
	}
	return profile.Start(option, profile.ProfilePath(path), profile.NoShutdownHook), nil
}
