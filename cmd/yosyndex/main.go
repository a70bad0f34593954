package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/adetobi/yosyn/pkg/dictionary"
	"github.com/adetobi/yosyn/pkg/semantic"
)

const (
	codeErrorArgs = iota + 1
	codeInternalError
)

func exitf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

func main() {
	dictPath := flag.String("dictionary", "", "path to the dictionary JSON file")
	indexPath := flag.String("index", "yoruba_index.db", "output index file")
	baseURL := flag.String("ollama", "", "embedding server URL")
	model := flag.String("model", "", "embedding model name")
	batchSize := flag.Int("batch", 0, "headwords per embedding request")
	maxWorkers := flag.Int("workers", 0, "concurrent embedding requests (0 = number of CPUs)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		exitf(codeErrorArgs, "can not instantiate logger: %s\n", err)
	}
	defer logger.Sync()

	var paths []string
	if *dictPath != "" {
		paths = []string{*dictPath}
	}
	dict := dictionary.LoadFirst(paths, logger)

	index, err := semantic.Open(*indexPath, logger)
	if err != nil {
		exitf(codeInternalError, "can not open index: %s\n", err)
	}
	defer index.Close()

	embedder := semantic.NewOllama(nil, &semantic.OllamaConfig{
		BaseURL: *baseURL,
		Model:   *model,
	})
	err = index.Build(context.Background(), dict, embedder, &semantic.BuildConfig{
		BatchSize:  *batchSize,
		MaxWorkers: *maxWorkers,
	})
	if err != nil {
		exitf(codeInternalError, "can not build index: %s\n", err)
	}

	logger.Info("index build complete",
		zap.String("index", *indexPath),
		zap.Int("entries", dict.Len()),
	)
}
