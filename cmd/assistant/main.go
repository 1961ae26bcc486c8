package main

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/meikuraledutech/assistant"
)

var rootCmd = &cobra.Command{
	Use:          "assistant",
	Short:        "assistant runs the KOOMENJUE conversational assistant",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}
		// reinitialize the logger now that flags are parsed
		initLogger()
		return nil
	},
}

type logConfig struct {
	WithCaller bool
	Level      string
	LogFormat  string
	LogFile    string
}

func initConfig(cmd *cobra.Command) error {
	assistant.SetDefaults(viper.GetViper())

	if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("assistant")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.assistant")
	}

	err := viper.ReadInConfig()
	// a missing config file is fine, env and flags still apply
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok && err != nil {
		return err
	}
	return nil
}

func initLogger() {
	err := InitLogger(&logConfig{
		Level:      viper.GetString("log-level"),
		LogFile:    viper.GetString("log-file"),
		LogFormat:  viper.GetString("log-format"),
		WithCaller: viper.GetBool("with-caller"),
	})
	cobra.CheckErr(err)

	log.Debug().
		Str("config", viper.ConfigFileUsed()).
		Msg("Loaded configuration")
}

// InitLogger configures the global zerolog logger.
func InitLogger(config *logConfig) error {
	if config.WithCaller {
		log.Logger = log.With().Caller().Logger()
	}
	// default is json
	var logWriter io.Writer
	if config.LogFormat == "text" {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr}
	} else {
		logWriter = os.Stderr
	}

	if config.LogFile != "" {
		logWriter = io.MultiWriter(
			logWriter,
			zerolog.ConsoleWriter{
				NoColor: true,
				Out: &lumberjack.Logger{
					Filename:   config.LogFile,
					MaxSize:    10, // megabytes
					MaxBackups: 3,
					MaxAge:     28, // days
				},
			})
	}

	log.Logger = log.Output(logWriter)

	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	return nil
}

func init() {
	// logging flags
	rootCmd.PersistentFlags().Bool("with-caller", false, "Log caller")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (json, text)")
	rootCmd.PersistentFlags().String("log-file", "", "Log file (default: stderr)")

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./assistant.yaml or ~/.assistant/assistant.yaml)")

	d := assistant.DefaultConfig()
	rootCmd.PersistentFlags().String("provider", d.Provider, "Model provider (gemini, openai)")
	rootCmd.PersistentFlags().String("model", "", "Model name (default gemini-2.5-flash, or gpt-4o-mini for openai)")
	rootCmd.PersistentFlags().String("gemini-api-key", "", "Gemini API key (also GEMINI_API_KEY, GOOGLE_API_KEY)")
	rootCmd.PersistentFlags().String("openai-api-key", "", "OpenAI API key (also OPENAI_API_KEY)")
	rootCmd.PersistentFlags().String("openai-base-url", "", "OpenAI-compatible API base URL")
	rootCmd.PersistentFlags().Duration("request-timeout", d.RequestTimeout, "Timeout for a single model call")
	rootCmd.PersistentFlags().String("persona-file", "", "YAML persona replacing the built-in one")
	rootCmd.PersistentFlags().Bool("request-log", d.RequestLog, "Record every model call in the request log")

	rootCmd.AddCommand(serveCmd, chatCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
