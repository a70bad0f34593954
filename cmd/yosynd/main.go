package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/adetobi/yosyn/pkg/lookup"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	codeErrorArgs = iota + 1
	codeInternalError
)

func exitf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

// SemanticConfig wires the optional vector-search endpoint. Search stays
// purely lexical when Index is empty.
type SemanticConfig struct {
	// Index is the path of a sqlite index built by yosyndex.
	Index string
	// BaseURL points at the Ollama-compatible embedding server.
	BaseURL string
	// Model names the embedding model, must match the built index.
	Model string
}

type Config struct {
	ZapConfig string
	Host      string

	// Dictionary lists candidate dictionary files, tried in order.
	// Empty means the conventional fallback chain.
	Dictionary []string

	Cached   lookup.CachedConfig
	Semantic SemanticConfig
}

func (c *Config) ZapConf() (*zap.Config, error) {
	if c.ZapConfig == "" {
		defaultConf := zap.NewDevelopmentConfig()
		return &defaultConf, nil
	}
	var zapConf zap.Config
	if err := json.Unmarshal([]byte(c.ZapConfig), &zapConf); err != nil {
		return nil, err
	}
	return &zapConf, nil
}

func getConfig() (*Config, *zap.Config, error) {
	pflag.StringP("config", "c", "config.yaml", "path to local config")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, nil, err
	}
	viper.SetEnvPrefix("YOSYN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("host", "localhost:8080")
	viper.BindEnv("cached.path")
	viper.BindEnv("cached.inmemory")
	viper.BindEnv("semantic.index")
	viper.BindEnv("semantic.baseurl")
	viper.BindEnv("semantic.model")

	configPath := viper.GetString("config")
	viper.SetConfigFile(configPath)
	if err := viper.ReadInConfig(); err == nil {
		fmt.Printf("Using config file: %s\n", configPath)
	}

	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, nil, fmt.Errorf("error while unmarshaling config: %w", err)
	}
	zapConf, err := conf.ZapConf()
	if err != nil {
		return nil, nil, err
	}
	return &conf, zapConf, nil
}

func main() {
	conf, zapConf, err := getConfig()
	if err != nil {
		exitf(codeErrorArgs, "Failure while parsing arguments: %s", err)
	}
	logger, err := zapConf.Build()
	if err != nil {
		exitf(codeErrorArgs, "Failure while instantiating logger: %s", err)
	}
	defer logger.Sync()

	logger.Info("Starting server")
	server, err := New(logger, conf)
	if err != nil {
		exitf(codeInternalError, "Can not initialize server: %s", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		if err := server.Close(context.Background()); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
			return
		}
	}()

	servePath := fmt.Sprintf("http://%s", conf.Host)
	logger.Info(fmt.Sprintf("Listening started on %s", servePath))
	if err := server.ListenAndServe(); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", zap.Error(err))
		}
	}
	logger.Info("Closed")
}
