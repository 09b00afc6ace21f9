// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"net/url"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/custodyvm/vm"
)

var prometheusCmd = &cobra.Command{
	Use:   "prometheus",
	Short: "Inspect node metrics",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

type PrometheusStaticConfig struct {
	Targets []string `yaml:"targets"`
}

type PrometheusScrapeConfig struct {
	JobName       string                    `yaml:"job_name"`
	StaticConfigs []*PrometheusStaticConfig `yaml:"static_configs"`
	MetricsPath   string                    `yaml:"metrics_path"`
}

type PrometheusConfig struct {
	Global struct {
		ScrapeInterval     string `yaml:"scrape_interval"`
		EvaluationInterval string `yaml:"evaluation_interval"`
	} `yaml:"global"`
	ScrapeConfigs []*PrometheusScrapeConfig `yaml:"scrape_configs"`
}

func newPrometheusConfig(endpoint string) (*PrometheusConfig, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	var c PrometheusConfig
	c.Global.ScrapeInterval = "15s"
	c.Global.EvaluationInterval = "15s"
	c.ScrapeConfigs = []*PrometheusScrapeConfig{
		{
			JobName:       "custodyvm",
			StaticConfigs: []*PrometheusStaticConfig{{Targets: []string{u.Host}}},
			MetricsPath:   vm.MetricsEndpoint,
		},
	}
	return &c, nil
}

var generatePrometheusCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Write a prometheus scrape config for the node",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := newPrometheusConfig(current.Endpoint)
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(c)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], b, fsModeWrite); err != nil {
			return err
		}
		color.Green("prometheus config written to %s", args[0])
		color.Cyan("prometheus cmd: prometheus --config.file=%s", args[0])
		return nil
	},
}

var openMetricsCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the raw metrics of the node in a browser",
	RunE: func(*cobra.Command, []string) error {
		target, err := url.JoinPath(current.Endpoint, vm.MetricsEndpoint)
		if err != nil {
			return err
		}
		color.Cyan("opening %s", target)
		return browser.OpenURL(target)
	},
}

func init() {
	prometheusCmd.AddCommand(
		generatePrometheusCmd,
		openMetricsCmd,
	)
}
