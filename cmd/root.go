/*
Copyright © 2020 hit.zhangjie@gmail.com

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

	"github.com/hitzhangjie/hwdbg/pkg/logflags"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hwdbg",
	Short: "hwdbg是一个面向多核目标板的断点、观察点调试器",
	Long: `hwdbg是一个面向多核目标板的断点、观察点调试器。

目标板通过yaml文件描述，包括内存区域、各个核心以及smp分组，
调试器为每个核心维护断点、观察点，并在smp组内同步。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logflags.Setup(viper.GetBool("log"), viper.GetString("log-output"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hwdbg.yaml)")
	rootCmd.PersistentFlags().Bool("log", false, "开启调试日志")
	rootCmd.PersistentFlags().String("log-output", "", "开启的日志层，逗号分隔：breakpoints,driver,shell")
	rootCmd.PersistentFlags().String("board", "", "目标板描述文件")
	rootCmd.PersistentFlags().String("syntax", "gnu", "反汇编指令语法，支持：go, gnu, intel")

	for _, name := range []string{"log", "log-output", "board", "syntax"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
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
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".hwdbg" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".hwdbg")
	}

	viper.SetEnvPrefix("hwdbg")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
