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

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/hexface/InputParameters"
	"github.com/notargets/hexface/logger"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hexface",
	Short: "Sum factorized face kernels for hexahedral elements",
	Long: `Verify and benchmark the face gather (volume DOFs to face integration points)
and accumulating scatter kernels used by hexahedral discontinuous Galerkin solvers.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(viper.GetString("logLevel"), viper.GetString("logFormat"))
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

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hexface.yaml)")
	rootCmd.PersistentFlags().String("logLevel", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("logFormat", "console", "log format: console or json")
	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("logLevel"))
	_ = viper.BindPFlag("logFormat", rootCmd.PersistentFlags().Lookup("logFormat"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".hexface")
	}
	viper.SetEnvPrefix("HEXFACE")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func readInput(cmd *cobra.Command) (rp *InputParameters.RunParameters, err error) {
	var (
		fileName string
		data     []byte
	)
	if fileName, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
		return
	}
	if len(fileName) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile), like:\n%s",
			InputParameters.ExampleFile)
		return
	}
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	rp = &InputParameters.RunParameters{}
	if err = rp.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return
}
